// Package predicate implements the scan predicate: the tagged variant
// describing what the engine should keep during a first-scan or re-scan.
package predicate

import (
	"fmt"

	"github.com/mohsenpakzad/memscan/scanval"
)

// Kind identifies which of the nine predicate shapes a Predicate holds.
type Kind int

const (
	// Exact keeps only locations holding exactly the given value.
	Exact Kind = iota
	// InRange keeps locations whose value falls within [Lo, Hi].
	InRange
	// Unknown keeps every aligned slot on a first scan, and every previous
	// survivor unchanged on a re-scan.
	Unknown
	// Unchanged keeps locations whose value is unchanged since last scan.
	Unchanged
	// Changed keeps locations whose value changed since last scan.
	Changed
	// Decreased keeps locations whose value decreased since last scan.
	Decreased
	// Increased keeps locations whose value increased since last scan.
	Increased
	// DecreasedBy keeps locations whose value decreased by exactly Value.
	DecreasedBy
	// IncreasedBy keeps locations whose value increased by exactly Value.
	IncreasedBy
)

func (k Kind) String() string {
	switch k {
	case Exact:
		return "Exact"
	case InRange:
		return "InRange"
	case Unknown:
		return "Unknown"
	case Unchanged:
		return "Unchanged"
	case Changed:
		return "Changed"
	case Decreased:
		return "Decreased"
	case Increased:
		return "Increased"
	case DecreasedBy:
		return "DecreasedBy"
	case IncreasedBy:
		return "IncreasedBy"
	default:
		return "unknown"
	}
}

// FirstScanMeaningful reports whether k makes sense as a first-scan
// predicate. Every other kind is treated by the engine as Unknown when used
// on a first scan, since the UI may resubmit the same predicate type across
// scan phases.
func (k Kind) FirstScanMeaningful() bool {
	return k == Exact || k == InRange || k == Unknown
}

// Predicate is a scan predicate over values of type T. Only the fields
// relevant to Kind are meaningful; the rest are left zero.
type Predicate[T scanval.Value] struct {
	Kind  Kind
	Value T // Exact, DecreasedBy, IncreasedBy
	Lo    T // InRange
	Hi    T // InRange
}

func NewExact[T scanval.Value](v T) Predicate[T]       { return Predicate[T]{Kind: Exact, Value: v} }
func NewInRange[T scanval.Value](lo, hi T) Predicate[T] { return Predicate[T]{Kind: InRange, Lo: lo, Hi: hi} }
func NewUnknown[T scanval.Value]() Predicate[T]         { return Predicate[T]{Kind: Unknown} }
func NewUnchanged[T scanval.Value]() Predicate[T]       { return Predicate[T]{Kind: Unchanged} }
func NewChanged[T scanval.Value]() Predicate[T]         { return Predicate[T]{Kind: Changed} }
func NewDecreased[T scanval.Value]() Predicate[T]       { return Predicate[T]{Kind: Decreased} }
func NewIncreased[T scanval.Value]() Predicate[T]       { return Predicate[T]{Kind: Increased} }
func NewDecreasedBy[T scanval.Value](n T) Predicate[T]  { return Predicate[T]{Kind: DecreasedBy, Value: n} }
func NewIncreasedBy[T scanval.Value](n T) Predicate[T]  { return Predicate[T]{Kind: IncreasedBy, Value: n} }

// Acceptable reports whether the change from old to the bytes newBytes
// encode is acceptable under p, per spec.md §4.4's acceptance table.
func (p Predicate[T]) Acceptable(old T, newBytes []byte) bool {
	switch p.Kind {
	case Exact:
		return scanval.Eq(p.Value, newBytes)
	case Unknown:
		return true
	case InRange:
		return scanval.Cmp(p.Lo, newBytes) != 1 && scanval.Cmp(p.Hi, newBytes) != -1
	case Unchanged:
		return scanval.Eq(old, newBytes)
	case Changed:
		return !scanval.Eq(old, newBytes)
	case Decreased:
		return scanval.Cmp(old, newBytes) == 1
	case Increased:
		return scanval.Cmp(old, newBytes) == -1
	case DecreasedBy:
		return scanval.Eq(p.Value, scanval.Sub(old, newBytes))
	case IncreasedBy:
		newVal := scanval.Decode[T](newBytes)
		return scanval.Eq(p.Value, scanval.Sub(newVal, scanval.Encode(old)))
	default:
		panic(fmt.Sprintf("predicate: unknown kind %d", p.Kind))
	}
}
