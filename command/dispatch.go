package command

import (
	"fmt"

	"github.com/mohsenpakzad/memscan/scanval"
	"github.com/mohsenpakzad/memscan/session"
	"github.com/mohsenpakzad/memscan/target"
)

// ValueType is the wire name of a scanval.Kind, sent alongside a first scan
// so the command layer can check it against the K named in the command
// itself before constructing a predicate.
type ValueType string

const (
	TypeI8  ValueType = "I8"
	TypeU8  ValueType = "U8"
	TypeI16 ValueType = "I16"
	TypeU16 ValueType = "U16"
	TypeI32 ValueType = "I32"
	TypeU32 ValueType = "U32"
	TypeI64 ValueType = "I64"
	TypeU64 ValueType = "U64"
	TypeF32 ValueType = "F32"
	TypeF64 ValueType = "F64"
)

var valueTypeByKind = map[scanval.Kind]ValueType{
	scanval.I8: TypeI8, scanval.U8: TypeU8,
	scanval.I16: TypeI16, scanval.U16: TypeU16,
	scanval.I32: TypeI32, scanval.U32: TypeU32,
	scanval.I64: TypeI64, scanval.U64: TypeU64,
	scanval.F32: TypeF32, scanval.F64: TypeF64,
}

// kindOps is the thin per-kind façade spec.md §9 calls for: one dispatch
// table entry per scanval.Kind, each satisfied by a single generic
// implementation rather than ten hand-written copies.
type kindOps interface {
	firstScan(s *session.Session, adapter target.Adapter, pid int, valueType ValueType, info ScanInfo) error
	nextScan(s *session.Session, info ScanInfo) error
	getLastScan(s *session.Session, limit, offset int) (int, []session.Entry)
	writeValue(s *session.Session, addr uintptr, value string) (int, error)
}

// kindOpsImpl is kindOps instantiated for one concrete scanval.Value type.
// dispatch holds one instance per kind, type-erased behind the kindOps
// interface.
type kindOpsImpl[T scanval.Value] struct{}

func (kindOpsImpl[T]) firstScan(s *session.Session, adapter target.Adapter, pid int, valueType ValueType, info ScanInfo) error {
	if valueTypeByKind[scanval.KindOf[T]()] != valueType {
		return fmt.Errorf("command: value type %s does not match scan kind %s", valueType, scanval.KindOf[T]())
	}
	pred, err := toPredicate[T](info)
	if err != nil {
		return err
	}
	return session.FirstScan(s, adapter, pid, pred)
}

func (kindOpsImpl[T]) nextScan(s *session.Session, info ScanInfo) error {
	pred, err := toPredicate[T](info)
	if err != nil {
		return err
	}
	return session.NextScan(s, pred)
}

func (kindOpsImpl[T]) getLastScan(s *session.Session, limit, offset int) (int, []session.Entry) {
	return session.GetLastScan[T](s, limit, offset)
}

func (kindOpsImpl[T]) writeValue(s *session.Session, addr uintptr, value string) (int, error) {
	v, err := scanval.Parse[T](value)
	if err != nil {
		return 0, fmt.Errorf("command: parse write value: %w", err)
	}
	return session.WriteValue(s, addr, v)
}

var dispatch = map[scanval.Kind]kindOps{
	scanval.I8:  kindOpsImpl[int8]{},
	scanval.U8:  kindOpsImpl[uint8]{},
	scanval.I16: kindOpsImpl[int16]{},
	scanval.U16: kindOpsImpl[uint16]{},
	scanval.I32: kindOpsImpl[int32]{},
	scanval.U32: kindOpsImpl[uint32]{},
	scanval.I64: kindOpsImpl[int64]{},
	scanval.U64: kindOpsImpl[uint64]{},
	scanval.F32: kindOpsImpl[float32]{},
	scanval.F64: kindOpsImpl[float64]{},
}
