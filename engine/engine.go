// Package engine implements the scan engine: the first-scan pass over raw
// region bytes, and the re-scan pass that narrows a previous result set
// against freshly read memory.
package engine

import (
	"github.com/mohsenpakzad/memscan/locations"
	"github.com/mohsenpakzad/memscan/predicate"
	"github.com/mohsenpakzad/memscan/region"
	"github.com/mohsenpakzad/memscan/scanval"
)

// FirstScan runs pred over memory, a raw byte buffer for the region
// described by desc, and returns the resulting Region. Iteration is
// SIZE-aligned relative to the region base, so every survivor's address is
// aligned to Size[T]() bytes from desc.Base.
//
// A predicate that is only meaningful on a re-scan (Unchanged, Changed,
// Decreased, Increased, DecreasedBy, IncreasedBy) is treated exactly like
// Unknown: every aligned slot is kept, since the UI may resubmit the same
// predicate type across scan phases.
func FirstScan[T scanval.Value](desc region.Descriptor, memory []byte, pred predicate.Predicate[T]) region.Region[T] {
	size := uintptr(scanval.Size[T]())
	base := desc.Base

	switch pred.Kind {
	case predicate.Exact:
		var addrs []uintptr
		for off := uintptr(0); off+size <= uintptr(len(memory)); off += size {
			window := memory[off : off+size]
			if scanval.Eq(pred.Value, window) {
				addrs = append(addrs, base+off)
			}
		}
		return region.Region[T]{Desc: desc, Locations: locations.NewSameValue(size, addrs, pred.Value)}

	case predicate.InRange:
		var pairs []locations.Pair[T]
		for off := uintptr(0); off+size <= uintptr(len(memory)); off += size {
			window := memory[off : off+size]
			if scanval.Cmp(pred.Lo, window) != 1 && scanval.Cmp(pred.Hi, window) != -1 {
				pairs = append(pairs, locations.Pair[T]{Addr: base + off, Value: scanval.Decode[T](window)})
			}
		}
		store := locations.NewKeyValue(size, pairs)
		store.TryCompact()
		return region.Region[T]{Desc: desc, Locations: store}

	default:
		// Unknown, and every re-scan-only predicate used on a first scan:
		// accept every aligned slot and record its current value.
		n := uintptr(len(memory)) / size
		values := make([]T, 0, n)
		for off := uintptr(0); off+size <= uintptr(len(memory)); off += size {
			values = append(values, scanval.Decode[T](memory[off:off+size]))
		}
		store := locations.NewRange(size, base, base+uintptr(len(values))*size, values)
		return region.Region[T]{Desc: desc, Locations: store}
	}
}

// Rescan runs pred over fresh memory read for prev's region, narrowing
// prev's candidate locations, and returns the resulting Region. prev is
// never mutated; Rescan always returns a new Region.
func Rescan[T scanval.Value](prev region.Region[T], memory []byte, pred predicate.Predicate[T]) region.Region[T] {
	size := uintptr(scanval.Size[T]())
	base := prev.Desc.Base

	if pred.Kind == predicate.Unknown {
		return prev.Clone()
	}

	addrs := prev.Locations.Addresses()

	if pred.Kind == predicate.Exact {
		var kept []uintptr
		for _, addr := range addrs {
			off := addr - base
			if off+size > uintptr(len(memory)) {
				continue
			}
			window := memory[off : off+size]
			if scanval.Eq(pred.Value, window) {
				kept = append(kept, addr)
			}
		}
		return region.Region[T]{Desc: prev.Desc, Locations: locations.NewSameValue(size, kept, pred.Value)}
	}

	var pairs []locations.Pair[T]
	for _, addr := range addrs {
		off := addr - base
		if off+size > uintptr(len(memory)) {
			continue
		}
		old := prev.Locations.ValueAt(addr)
		window := memory[off : off+size]
		if pred.Acceptable(old, window) {
			pairs = append(pairs, locations.Pair[T]{Addr: addr, Value: scanval.Decode[T](window)})
		}
	}
	store := locations.NewKeyValue(size, pairs)
	store.TryCompact()
	return region.Region[T]{Desc: prev.Desc, Locations: store}
}
