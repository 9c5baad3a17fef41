package scanval

import (
	"cmp"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
)

// Value is the closed family of numeric element types a scan can run over:
// i8, u8, i16, u16, i32, u32, i64, u64, f32, f64.
type Value interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 | ~float32 | ~float64
}

// Size returns the fixed byte width of T.
func Size[T Value]() int {
	var zero T
	switch any(zero).(type) {
	case int8, uint8:
		return 1
	case int16, uint16:
		return 2
	case int32, uint32, float32:
		return 4
	case int64, uint64, float64:
		return 8
	default:
		panic(fmt.Sprintf("scanval: unsupported type %T", zero))
	}
}

// KindOf returns the Kind tag corresponding to T.
func KindOf[T Value]() Kind {
	var zero T
	switch any(zero).(type) {
	case int8:
		return I8
	case uint8:
		return U8
	case int16:
		return I16
	case uint16:
		return U16
	case int32:
		return I32
	case uint32:
		return U32
	case int64:
		return I64
	case uint64:
		return U64
	case float32:
		return F32
	case float64:
		return F64
	default:
		panic(fmt.Sprintf("scanval: unsupported type %T", zero))
	}
}

// Decode reinterprets the first Size[T]() bytes of b, in host-native byte
// order, as a T.
func Decode[T Value](b []byte) T {
	var zero T
	var result any
	switch any(zero).(type) {
	case int8:
		result = int8(b[0])
	case uint8:
		result = b[0]
	case int16:
		result = int16(binary.NativeEndian.Uint16(b))
	case uint16:
		result = binary.NativeEndian.Uint16(b)
	case int32:
		result = int32(binary.NativeEndian.Uint32(b))
	case uint32:
		result = binary.NativeEndian.Uint32(b)
	case int64:
		result = int64(binary.NativeEndian.Uint64(b))
	case uint64:
		result = binary.NativeEndian.Uint64(b)
	case float32:
		result = math.Float32frombits(binary.NativeEndian.Uint32(b))
	case float64:
		result = math.Float64frombits(binary.NativeEndian.Uint64(b))
	default:
		panic(fmt.Sprintf("scanval: unsupported type %T", zero))
	}
	return result.(T)
}

// Encode returns the host-native byte order representation of v.
func Encode[T Value](v T) []byte {
	b := make([]byte, Size[T]())
	switch x := any(v).(type) {
	case int8:
		b[0] = byte(x)
	case uint8:
		b[0] = x
	case int16:
		binary.NativeEndian.PutUint16(b, uint16(x))
	case uint16:
		binary.NativeEndian.PutUint16(b, x)
	case int32:
		binary.NativeEndian.PutUint32(b, uint32(x))
	case uint32:
		binary.NativeEndian.PutUint32(b, x)
	case int64:
		binary.NativeEndian.PutUint64(b, uint64(x))
	case uint64:
		binary.NativeEndian.PutUint64(b, x)
	case float32:
		binary.NativeEndian.PutUint32(b, math.Float32bits(x))
	case float64:
		binary.NativeEndian.PutUint64(b, math.Float64bits(x))
	default:
		panic(fmt.Sprintf("scanval: unsupported type %T", v))
	}
	return b
}

// maskMantissa12 clears the low 12 bits of a f32 bit pattern: half of
// float32's 24 mantissa digits (23 stored + the implicit leading one).
func maskMantissa12(bits uint32) uint32 {
	return bits &^ (1<<12 - 1)
}

// maskMantissa26 clears the low 26 bits of a f64 bit pattern: half of
// float64's 53 mantissa digits, rounded down.
func maskMantissa26(bits uint64) uint64 {
	return bits &^ (1<<26 - 1)
}

// Eq reports whether v is considered equal to the value encoded in b.
//
// Integers compare bitwise. Floats use "roughly equal": the low half of the
// mantissa bits of both operands is cleared before comparing, because exact
// bitwise float equality is useless against live memory where the low
// mantissa bits drift. The comparison is then done with the host's ==
// on the masked values, so two differently-patterned NaNs — and a NaN
// against itself — are still unequal.
func Eq[T Value](v T, b []byte) bool {
	d := Decode[T](b)
	switch x := any(v).(type) {
	case float32:
		y := any(d).(float32)
		return math.Float32frombits(maskMantissa12(math.Float32bits(x))) ==
			math.Float32frombits(maskMantissa12(math.Float32bits(y)))
	case float64:
		y := any(d).(float64)
		return math.Float64frombits(maskMantissa26(math.Float64bits(x))) ==
			math.Float64frombits(maskMantissa26(math.Float64bits(y)))
	default:
		return v == d
	}
}

// Cmp compares v to the value encoded in b. Integers use their natural
// order; floats use cmp.Compare's total order, which places NaN below every
// non-NaN value instead of comparing unordered with everything.
func Cmp[T Value](v T, b []byte) int {
	return cmp.Compare(v, Decode[T](b))
}

// Sub returns v - decode(b), re-encoded. Integer subtraction wraps; float
// subtraction follows IEEE-754.
func Sub[T Value](v T, b []byte) []byte {
	return Encode(v - Decode[T](b))
}

// Parse parses s as T using the kind's native numeric parser. A parse
// failure is a predicate-construction error, not a runtime one.
func Parse[T Value](s string) (T, error) {
	var zero T
	var result any
	var err error
	switch any(zero).(type) {
	case int8:
		var n int64
		n, err = strconv.ParseInt(s, 10, 8)
		result = int8(n)
	case uint8:
		var n uint64
		n, err = strconv.ParseUint(s, 10, 8)
		result = uint8(n)
	case int16:
		var n int64
		n, err = strconv.ParseInt(s, 10, 16)
		result = int16(n)
	case uint16:
		var n uint64
		n, err = strconv.ParseUint(s, 10, 16)
		result = uint16(n)
	case int32:
		var n int64
		n, err = strconv.ParseInt(s, 10, 32)
		result = int32(n)
	case uint32:
		var n uint64
		n, err = strconv.ParseUint(s, 10, 32)
		result = uint32(n)
	case int64:
		var n int64
		n, err = strconv.ParseInt(s, 10, 64)
		result = n
	case uint64:
		var n uint64
		n, err = strconv.ParseUint(s, 10, 64)
		result = n
	case float32:
		var n float64
		n, err = strconv.ParseFloat(s, 32)
		result = float32(n)
	case float64:
		var n float64
		n, err = strconv.ParseFloat(s, 64)
		result = n
	default:
		panic(fmt.Sprintf("scanval: unsupported type %T", zero))
	}
	if err != nil {
		return zero, fmt.Errorf("scanval: parse %q as %s: %w", s, KindOf[T](), err)
	}
	return result.(T), nil
}

// Format renders v the way the command surface reports it to the UI layer.
func Format[T Value](v T) string {
	return fmt.Sprintf("%v", v)
}
