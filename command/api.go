package command

import (
	"fmt"

	"github.com/mohsenpakzad/memscan/scanval"
	"github.com/mohsenpakzad/memscan/session"
	"github.com/mohsenpakzad/memscan/target"
)

// GetProcesses lists every process the adapter can see, per spec.md §6's
// get_processes command.
func GetProcesses(adapter target.Adapter) []target.ProcessInfo {
	return session.GetProcesses(adapter)
}

// GetOpenedProcess reports the session's currently opened process, or
// false if none is open, per spec.md §6's get_opened_process command.
func GetOpenedProcess(s *session.Session) (target.ProcessInfo, bool) {
	return s.OpenedTarget()
}

// ClearLastScan empties every per-kind last-scan vector, per spec.md §6's
// clear_last_scan command.
func ClearLastScan(s *session.Session) {
	s.ClearLastScan()
}

func opsFor(valueType ValueType) (scanval.Kind, kindOps, error) {
	for kind, vt := range valueTypeByKind {
		if vt == valueType {
			return kind, dispatch[kind], nil
		}
	}
	return 0, nil, fmt.Errorf("command: unrecognized value type %q", valueType)
}

// FirstScan is first_scan_K for every K, selected at runtime by valueType —
// the thin façade spec.md §9 calls for over the kindOps dispatch table.
// It opens the target, sets the session's active kind, and replaces
// last_scan[K].
func FirstScan(s *session.Session, adapter target.Adapter, pid int, valueType ValueType, info ScanInfo) error {
	_, ops, err := opsFor(valueType)
	if err != nil {
		return err
	}
	return ops.firstScan(s, adapter, pid, valueType, info)
}

// NextScan is next_scan_K for every K: narrows last_scan[valueType] using
// the session's active kind.
func NextScan(s *session.Session, valueType ValueType, info ScanInfo) error {
	_, ops, err := opsFor(valueType)
	if err != nil {
		return err
	}
	return ops.nextScan(s, info)
}

// GetLastScan is get_last_scan_K for every K: a paginated flatten of
// last_scan[valueType] over (address, value) pairs.
func GetLastScan(s *session.Session, valueType ValueType, limit, offset int) (total int, entries []session.Entry, err error) {
	_, ops, err := opsFor(valueType)
	if err != nil {
		return 0, nil, err
	}
	total, entries = ops.getLastScan(s, limit, offset)
	return total, entries, nil
}

// WriteValue is write_opened_process_memory_K for every K: a widen-typed
// numeric write via the session's opened target.
func WriteValue(s *session.Session, valueType ValueType, addr uintptr, value string) (int, error) {
	_, ops, err := opsFor(valueType)
	if err != nil {
		return 0, err
	}
	return ops.writeValue(s, addr, value)
}
