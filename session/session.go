// Package session holds the process-wide scanning session: the opened
// target handle, the active value kind, and one last-scan result per value
// kind. It is the component spec.md §4.5 calls Session State.
package session

import (
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/mohsenpakzad/memscan/engine"
	"github.com/mohsenpakzad/memscan/predicate"
	"github.com/mohsenpakzad/memscan/region"
	"github.com/mohsenpakzad/memscan/scanval"
	"github.com/mohsenpakzad/memscan/target"
)

// ScanResult type-erases a []region.Region[T] for a concrete kind K so the
// session can hold one slot per kind in a single map without a type
// parameter on Session itself.
type ScanResult interface {
	Kind() scanval.Kind
	Len() int
	// Entries flattens every surviving region's (address, value) pairs,
	// ascending by address within each region, regions in enumeration order.
	Entries() []Entry
}

// Entry is one surviving (address, value) pair, value already formatted for
// display — the session's boundary to the command layer never leaks a type
// parameter.
type Entry struct {
	Address uintptr
	Value   string
}

// regionSet is the concrete, generic ScanResult: the last-scan vector for
// one value kind.
type regionSet[T scanval.Value] struct {
	regions []region.Region[T]
}

func (rs *regionSet[T]) Kind() scanval.Kind { return scanval.KindOf[T]() }

func (rs *regionSet[T]) Len() int {
	n := 0
	for _, r := range rs.regions {
		n += r.Locations.Len()
	}
	return n
}

func (rs *regionSet[T]) Entries() []Entry {
	var out []Entry
	for _, r := range rs.regions {
		for _, pair := range r.Locations.IntoLocations() {
			out = append(out, Entry{Address: pair.Addr, Value: scanval.Format(pair.Value)})
		}
	}
	return out
}

// Session is the process-wide scanning session. All fields are guarded by
// exclusive locks, one per field, acquired in the fixed order
// targetMu -> kindMu -> scansMu -> spec.md §5's deadlock-avoidance rule.
type Session struct {
	targetMu   sync.Mutex
	target     target.Handle
	targetPID  int
	targetName string

	kindMu sync.Mutex
	active scanval.Kind

	scansMu sync.Mutex
	scans   map[scanval.Kind]ScanResult
}

// New returns an empty Session with no opened target and no scans.
func New() *Session {
	return &Session{scans: make(map[scanval.Kind]ScanResult)}
}

// GetProcesses lists every process the adapter can see. Processes whose
// module name cannot be read are silently dropped, per spec.md §7's
// AdapterEnumerate policy (fatal for module-name lookup).
func GetProcesses(adapter target.Adapter) []target.ProcessInfo {
	pids, err := adapter.EnumerateProcessIDs()
	if err != nil || len(pids) == 0 {
		return nil
	}

	var procs []target.ProcessInfo
	for _, pid := range pids {
		h, err := adapter.Open(pid)
		if err != nil {
			continue
		}
		name, err := h.FirstModuleName()
		h.Close()
		if err != nil {
			continue
		}
		procs = append(procs, target.ProcessInfo{PID: pid, Name: name})
	}
	sort.Slice(procs, func(i, j int) bool { return procs[i].PID < procs[j].PID })
	return procs
}

// OpenedTarget reports the currently opened process, or false if none is
// open.
func (s *Session) OpenedTarget() (target.ProcessInfo, bool) {
	s.targetMu.Lock()
	defer s.targetMu.Unlock()
	if s.target == nil {
		return target.ProcessInfo{}, false
	}
	return target.ProcessInfo{PID: s.targetPID, Name: s.targetName}, true
}

// ClearLastScan empties every per-kind last-scan vector. The opened target
// and active kind are untouched.
func (s *Session) ClearLastScan() {
	s.scansMu.Lock()
	defer s.scansMu.Unlock()
	s.scans = make(map[scanval.Kind]ScanResult)
}

// open acquires a fresh handle to pid via adapter, replacing any previously
// opened target. The old handle, if any, is closed.
func (s *Session) open(adapter target.Adapter, pid int) error {
	s.targetMu.Lock()
	defer s.targetMu.Unlock()

	h, err := adapter.Open(pid)
	if err != nil {
		return fmt.Errorf("session: open pid %d: %w", pid, err)
	}
	name, err := h.FirstModuleName()
	if err != nil {
		h.Close()
		return fmt.Errorf("session: read module name for pid %d: %w", pid, err)
	}

	if s.target != nil {
		s.target.Close()
	}
	s.target = h
	s.targetPID = pid
	s.targetName = name
	return nil
}

// FirstScan opens pid (replacing any previously opened target), sets the active
// kind to K, and replaces last_scan[K] with the result of scanning every
// read-write region. Regions that fail to read are logged and skipped,
// never aborting the whole scan. A region whose scan survives with zero
// locations is dropped from last_scan[K] rather than kept empty.
func FirstScan[T scanval.Value](s *Session, adapter target.Adapter, pid int, pred predicate.Predicate[T]) error {
	if err := s.open(adapter, pid); err != nil {
		return err
	}

	s.kindMu.Lock()
	s.active = scanval.KindOf[T]()
	s.kindMu.Unlock()

	s.targetMu.Lock()
	h := s.target
	s.targetMu.Unlock()

	descs, err := h.EnumerateRegions()
	if err != nil {
		return fmt.Errorf("session: enumerate regions: %w", err)
	}

	var regions []region.Region[T]
	for _, desc := range descs {
		if !target.IsReadWrite(desc.Protect) {
			continue
		}
		mem, err := h.Read(desc.Base, int(desc.ByteSize))
		if err != nil {
			log.Printf("session: skipping region %#x (%d bytes): %v", desc.Base, desc.ByteSize, err)
			continue
		}
		rg := engine.FirstScan(desc, mem, pred)
		if rg.Locations.Len() == 0 {
			continue
		}
		regions = append(regions, rg)
	}
	log.Printf("session: first scan over pid %d found %d regions", pid, len(regions))

	rs := &regionSet[T]{regions: regions}
	s.scansMu.Lock()
	s.scans[scanval.KindOf[T]()] = rs
	s.scansMu.Unlock()
	return nil
}

// NextScan narrows last_scan[active kind] using pred, reading fresh memory
// from the opened target for every previously-surviving region. A region
// narrowed to zero locations is dropped from last_scan[K], so it is never
// read again by a later NextScan. A T whose kind is not the active kind is
// refused with an error.
func NextScan[T scanval.Value](s *Session, pred predicate.Predicate[T]) error {
	s.targetMu.Lock()
	h := s.target
	s.targetMu.Unlock()
	if h == nil {
		return fmt.Errorf("session: no opened target")
	}

	s.kindMu.Lock()
	active := s.active
	s.kindMu.Unlock()
	if active != scanval.KindOf[T]() {
		return fmt.Errorf("session: next scan kind %s does not match active kind %s", scanval.KindOf[T](), active)
	}

	s.scansMu.Lock()
	prevResult, ok := s.scans[scanval.KindOf[T]()]
	s.scansMu.Unlock()
	if !ok {
		return fmt.Errorf("session: no last scan for kind %s", scanval.KindOf[T]())
	}
	prev, ok := prevResult.(*regionSet[T])
	if !ok {
		return fmt.Errorf("session: scan kind mismatch for %s", scanval.KindOf[T]())
	}

	var narrowed []region.Region[T]
	for _, r := range prev.regions {
		mem, err := h.Read(r.Desc.Base, int(r.Desc.ByteSize))
		if err != nil {
			log.Printf("session: skipping region %#x on rescan: %v", r.Desc.Base, err)
			continue
		}
		rg := engine.Rescan(r, mem, pred)
		if rg.Locations.Len() == 0 {
			continue
		}
		narrowed = append(narrowed, rg)
	}
	log.Printf("session: next scan narrowed to %d regions", len(narrowed))

	rs := &regionSet[T]{regions: narrowed}
	s.scansMu.Lock()
	s.scans[scanval.KindOf[T]()] = rs
	s.scansMu.Unlock()
	return nil
}

// GetLastScan returns the paginated, flattened (address, value) sequence
// for last_scan[K], plus the total number of surviving locations.
func GetLastScan[T scanval.Value](s *Session, limit, offset int) (total int, window []Entry) {
	s.scansMu.Lock()
	result, ok := s.scans[scanval.KindOf[T]()]
	s.scansMu.Unlock()
	if !ok {
		return 0, nil
	}

	entries := result.Entries()
	total = len(entries)
	if offset >= total {
		return total, nil
	}
	end := offset + limit
	if end > total || limit < 0 {
		end = total
	}
	return total, entries[offset:end]
}

// WriteValue writes value's SIZE bytes, in host byte order, to addr in the
// opened target.
func WriteValue[T scanval.Value](s *Session, addr uintptr, value T) (int, error) {
	s.targetMu.Lock()
	h := s.target
	s.targetMu.Unlock()
	if h == nil {
		return 0, fmt.Errorf("session: no opened target")
	}
	n, err := h.Write(addr, scanval.Encode(value))
	if err != nil {
		return n, fmt.Errorf("session: write value at %#x: %w", addr, err)
	}
	return n, nil
}
