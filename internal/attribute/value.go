package attribute

import (
	"fmt"
	"math"
	"strconv"
)

// Kind identifies which scalar a Value holds.
type Kind uint8

const (
	KindString Kind = iota
	KindByte
	KindShort
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindByte:
		return "byte"
	case KindShort:
		return "short"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindBool:
		return "bool"
	default:
		return "string"
	}
}

// Value is a member attribute. Numeric and boolean kinds are stored in bits,
// strings in str. The zero Value is the empty string.
type Value struct {
	kind Kind
	bits uint64
	str  string
}

func Byte(v int8) Value { return Value{kind: KindByte, bits: uint64(v)} }
func Short(v int16) Value { return Value{kind: KindShort, bits: uint64(v)} }
func Int32(v int32) Value { return Value{kind: KindInt32, bits: uint64(v)} }
func Int64(v int64) Value { return Value{kind: KindInt64, bits: uint64(v)} }
func Float32(v float32) Value { return Value{kind: KindFloat32, bits: uint64(math.Float32bits(v))} }
func Float64(v float64) Value { return Value{kind: KindFloat64, bits: math.Float64bits(v)} }
func String(v string) Value { return Value{kind: KindString, str: v} }

func Bool(v bool) Value {
	if v {
		return Value{kind: KindBool, bits: 1}
	}
	return Value{kind: KindBool}
}

// ValueOf converts an untyped discovered scalar. Kinds are tried in order
// byte, short, int32, int64, float32, float64, bool; anything else is stored
// as its string form. A plain int is treated as int64 and an unsigned byte
// is widened to short so that values above 127 survive.
func ValueOf(v any) Value {
	switch t := v.(type) {
	case int8:
		return Byte(t)
	case uint8:
		return Short(int16(t))
	case int16:
		return Short(t)
	case int32:
		return Int32(t)
	case int64:
		return Int64(t)
	case int:
		return Int64(int64(t))
	case float32:
		return Float32(t)
	case float64:
		return Float64(t)
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case nil:
		return String("")
	default:
		return String(fmt.Sprint(t))
	}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) AsByte() (int8, bool) {
	return int8(v.bits), v.kind == KindByte
}

func (v Value) AsShort() (int16, bool) {
	return int16(v.bits), v.kind == KindShort
}

func (v Value) AsInt32() (int32, bool) {
	return int32(v.bits), v.kind == KindInt32
}

func (v Value) AsInt64() (int64, bool) {
	return int64(v.bits), v.kind == KindInt64
}

func (v Value) AsFloat32() (float32, bool) {
	return math.Float32frombits(uint32(v.bits)), v.kind == KindFloat32
}

func (v Value) AsFloat64() (float64, bool) {
	return math.Float64frombits(v.bits), v.kind == KindFloat64
}

func (v Value) AsBool() (bool, bool) {
	return v.bits == 1, v.kind == KindBool
}

func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// Interface returns the Go scalar held by v.
func (v Value) Interface() any {
	switch v.kind {
	case KindByte:
		b, _ := v.AsByte()
		return b
	case KindShort:
		s, _ := v.AsShort()
		return s
	case KindInt32:
		i, _ := v.AsInt32()
		return i
	case KindInt64:
		i, _ := v.AsInt64()
		return i
	case KindFloat32:
		f, _ := v.AsFloat32()
		return f
	case KindFloat64:
		f, _ := v.AsFloat64()
		return f
	case KindBool:
		b, _ := v.AsBool()
		return b
	default:
		return v.str
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindByte, KindShort, KindInt32, KindInt64:
		return strconv.FormatInt(signed(v), 10)
	case KindFloat32:
		f, _ := v.AsFloat32()
		return strconv.FormatFloat(float64(f), 'g', -1, 32)
	case KindFloat64:
		f, _ := v.AsFloat64()
		return strconv.FormatFloat(f, 'g', -1, 64)
	case KindBool:
		b, _ := v.AsBool()
		return strconv.FormatBool(b)
	default:
		return v.str
	}
}

func signed(v Value) int64 {
	switch v.kind {
	case KindByte:
		return int64(int8(v.bits))
	case KindShort:
		return int64(int16(v.bits))
	case KindInt32:
		return int64(int32(v.bits))
	default:
		return int64(v.bits)
	}
}
