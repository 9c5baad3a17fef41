// Package scanval implements the scannable value kind: the closed family of
// numeric element types the scan engine understands, their byte widths, and
// the primitive operations (decode, encode, equality, ordering, difference)
// the engine needs to run a scan without caring which kind it is scanning.
package scanval

// Kind is the runtime tag for one of the ten scannable numeric types. The
// command dispatch table and the session's per-kind state are both keyed by
// Kind; the type parameter T on the generic Value family is what actually
// carries the kind at compile time inside the engine.
type Kind int

const (
	I8 Kind = iota
	U8
	I16
	U16
	I32
	U32
	I64
	U64
	F32
	F64
)

// Size returns the fixed byte width of k.
func (k Kind) Size() int {
	switch k {
	case I8, U8:
		return 1
	case I16, U16:
		return 2
	case I32, U32, F32:
		return 4
	case I64, U64, F64:
		return 8
	default:
		panic("scanval: unknown kind")
	}
}

func (k Kind) String() string {
	switch k {
	case I8:
		return "i8"
	case U8:
		return "u8"
	case I16:
		return "i16"
	case U16:
		return "u16"
	case I32:
		return "i32"
	case U32:
		return "u32"
	case I64:
		return "i64"
	case U64:
		return "u64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	default:
		return "unknown"
	}
}

// Kinds lists every scannable kind, in the order the command surface of
// spec.md §6 declares them.
func Kinds() []Kind {
	return []Kind{I8, U8, I16, U16, I32, U32, I64, U64, F32, F64}
}
