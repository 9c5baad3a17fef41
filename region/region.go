// Package region holds the Region type: the pairing of a raw OS region
// descriptor with the candidate-location store surviving scans of that
// region.
package region

import (
	"github.com/mohsenpakzad/memscan/locations"
	"github.com/mohsenpakzad/memscan/scanval"
)

// Descriptor is the OS-reported description of a memory region: its base
// address, byte size, and protection bitmap. It is produced exclusively by
// a target.Handle's EnumerateRegions — the core never synthesizes one.
type Descriptor struct {
	Base     uintptr
	ByteSize uintptr
	Protect  uint32
}

// Region pairs a Descriptor with the candidate locations surviving scans of
// it. A Region owns its Locations and is replaced wholesale by re-scan,
// never mutated in place.
type Region[T scanval.Value] struct {
	Desc      Descriptor
	Locations *locations.Store[T]
}

// ValueAt returns the value recorded at addr, which must be a stored
// address in r.Locations.
func (r Region[T]) ValueAt(addr uintptr) T {
	return r.Locations.ValueAt(addr)
}

// Clone deep-copies the region, including its location store, so a clone
// can be kept without aliasing later in-place compaction.
func (r Region[T]) Clone() Region[T] {
	return Region[T]{Desc: r.Desc, Locations: r.Locations.Clone()}
}
