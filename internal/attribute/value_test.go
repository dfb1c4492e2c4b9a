package attribute_test

import (
	"testing"

	"github.com/Ajpantuso/zone-grouper/internal/attribute"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueOfKinds(t *testing.T) {
	tests := []struct {
		name  string
		in    any
		kind  attribute.Kind
		value any
	}{
		{name: "byte", in: int8(-3), kind: attribute.KindByte, value: int8(-3)},
		{name: "unsigned byte widens to short", in: uint8(200), kind: attribute.KindShort, value: int16(200)},
		{name: "short", in: int16(-12), kind: attribute.KindShort, value: int16(-12)},
		{name: "int32", in: int32(42), kind: attribute.KindInt32, value: int32(42)},
		{name: "int64", in: int64(-1 << 40), kind: attribute.KindInt64, value: int64(-1 << 40)},
		{name: "int as int64", in: 5, kind: attribute.KindInt64, value: int64(5)},
		{name: "float32", in: float32(1.5), kind: attribute.KindFloat32, value: float32(1.5)},
		{name: "float64", in: 2.25, kind: attribute.KindFloat64, value: 2.25},
		{name: "bool", in: true, kind: attribute.KindBool, value: true},
		{name: "string", in: "us-east-1a", kind: attribute.KindString, value: "us-east-1a"},
		{name: "list falls back to string", in: []string{"a", "b"}, kind: attribute.KindString, value: "[a b]"},
		{name: "nil is empty string", in: nil, kind: attribute.KindString, value: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := attribute.ValueOf(tt.in)
			assert.Equal(t, tt.kind, v.Kind())
			assert.Equal(t, tt.value, v.Interface())
		})
	}
}

func TestTypedAccessors(t *testing.T) {
	v := attribute.ValueOf(int32(-9))

	i, ok := v.AsInt32()
	assert.True(t, ok)
	assert.Equal(t, int32(-9), i)

	_, ok = v.AsInt64()
	assert.False(t, ok, "int32 must not be readable as int64")

	_, ok = v.AsString()
	assert.False(t, ok)

	f, ok := attribute.Float64(-0.5).AsFloat64()
	assert.True(t, ok)
	assert.Equal(t, -0.5, f)

	b, ok := attribute.Bool(false).AsBool()
	assert.True(t, ok)
	assert.False(t, b)
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "-128", attribute.Byte(-128).String())
	assert.Equal(t, "127", attribute.Byte(127).String())
	assert.Equal(t, "-3", attribute.Short(-3).String())
	assert.Equal(t, "-7", attribute.Int32(-7).String())
	assert.Equal(t, "0.1", attribute.Float32(0.1).String())
	assert.Equal(t, "true", attribute.Bool(true).String())
	assert.Equal(t, "rack-7", attribute.String("rack-7").String())
}

func TestZeroValueIsEmptyString(t *testing.T) {
	var v attribute.Value

	s, ok := v.AsString()
	assert.True(t, ok)
	assert.Empty(t, s)
	assert.Equal(t, "string", v.Kind().String())
}

func TestByteIsSigned(t *testing.T) {
	b, ok := attribute.Byte(-1).AsByte()
	require.True(t, ok)
	assert.Equal(t, int8(-1), b)

	_, ok = attribute.Byte(-1).AsShort()
	assert.False(t, ok)
}
