// Package command implements the command surface of spec.md §6: the
// per-kind scan endpoints consumed by a UI, dispatched generically over a
// runtime scanval.Kind tag rather than hand-written per kind, per spec.md
// §9's design note.
package command

import (
	"fmt"

	"github.com/mohsenpakzad/memscan/predicate"
	"github.com/mohsenpakzad/memscan/scanval"
)

// ScanType is the wire representation of a predicate.Kind, named after the
// ScanType enum the command layer's request bodies carry.
type ScanType string

const (
	ScanExact       ScanType = "Exact"
	ScanUnknown     ScanType = "Unknown"
	ScanInRange     ScanType = "InRange"
	ScanUnchanged   ScanType = "Unchanged"
	ScanChanged     ScanType = "Changed"
	ScanDecreased   ScanType = "Decreased"
	ScanIncreased   ScanType = "Increased"
	ScanDecreasedBy ScanType = "DecreasedBy"
	ScanIncreasedBy ScanType = "IncreasedBy"
)

// ScanValue carries the scan's numeric literal(s), still as strings since
// the kind they parse against is only known once matched against the
// caller-supplied ValueType.
type ScanValue struct {
	// Exact holds the literal for Exact, DecreasedBy, and IncreasedBy scans.
	Exact string
	// Start and End hold the bounds for an InRange scan.
	Start, End string
}

// ScanInfo is the wire request for a first-scan or next-scan command.
type ScanInfo struct {
	Typ   ScanType
	Value ScanValue
}

// toPredicate builds a predicate.Predicate[T] from info, mirroring the
// source's IntoScan::to_scan: value-shape-free scan types construct
// immediately, Exact-shaped types require info.Value.Exact, and InRange
// requires info.Value.Start/End. Any other combination — including a scan
// type requiring a value shape the request didn't supply — returns an
// error, which the caller surfaces as a refused scan per spec.md §7's
// PredicateConstruction error kind.
func toPredicate[T scanval.Value](info ScanInfo) (predicate.Predicate[T], error) {
	switch info.Typ {
	case ScanUnknown:
		return predicate.NewUnknown[T](), nil
	case ScanUnchanged:
		return predicate.NewUnchanged[T](), nil
	case ScanChanged:
		return predicate.NewChanged[T](), nil
	case ScanDecreased:
		return predicate.NewDecreased[T](), nil
	case ScanIncreased:
		return predicate.NewIncreased[T](), nil
	}

	switch info.Typ {
	case ScanExact, ScanDecreasedBy, ScanIncreasedBy:
		if info.Value.Exact == "" {
			return predicate.Predicate[T]{}, fmt.Errorf("command: scan type %s requires a value", info.Typ)
		}
		v, err := scanval.Parse[T](info.Value.Exact)
		if err != nil {
			return predicate.Predicate[T]{}, fmt.Errorf("command: construct %s predicate: %w", info.Typ, err)
		}
		switch info.Typ {
		case ScanExact:
			return predicate.NewExact(v), nil
		case ScanDecreasedBy:
			return predicate.NewDecreasedBy(v), nil
		default:
			return predicate.NewIncreasedBy(v), nil
		}

	case ScanInRange:
		if info.Value.Start == "" || info.Value.End == "" {
			return predicate.Predicate[T]{}, fmt.Errorf("command: scan type InRange requires start and end values")
		}
		lo, err := scanval.Parse[T](info.Value.Start)
		if err != nil {
			return predicate.Predicate[T]{}, fmt.Errorf("command: construct InRange predicate: %w", err)
		}
		hi, err := scanval.Parse[T](info.Value.End)
		if err != nil {
			return predicate.Predicate[T]{}, fmt.Errorf("command: construct InRange predicate: %w", err)
		}
		return predicate.NewInRange(lo, hi), nil
	}

	return predicate.Predicate[T]{}, fmt.Errorf("command: unrecognized scan type %q", info.Typ)
}
