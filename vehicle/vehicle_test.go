package vehicle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRawValueEqual(t *testing.T) {
	a := RawValue{FloatValues: []float32{1, 2}, StringValue: "x"}
	b := RawValue{FloatValues: []float32{1, 2}, StringValue: "x"}
	require.True(t, a.Equal(b))

	b.FloatValues[1] = 3
	require.False(t, a.Equal(b))

	require.False(t, a.Equal(RawValue{StringValue: "x"}))
	require.False(t, RawValue{Int32Values: []int32{1}}.Equal(RawValue{Int64Values: []int64{1}}))
	require.True(t, RawValue{}.Equal(RawValue{}))
}

func TestRawValueClone(t *testing.T) {
	orig := RawValue{
		Int32Values: []int32{1},
		ByteValues:  []byte{0xAA},
		StringValue: "vin",
	}
	clone := orig.Clone()
	clone.Int32Values[0] = 9
	clone.ByteValues[0] = 0xBB
	require.Equal(t, int32(1), orig.Int32Values[0])
	require.Equal(t, byte(0xAA), orig.ByteValues[0])
}

func TestRawValueIsEmpty(t *testing.T) {
	require.True(t, RawValue{}.IsEmpty())
	require.False(t, RawValue{StringValue: "x"}.IsEmpty())
	require.False(t, RawValue{FloatValues: []float32{0}}.IsEmpty())
}

func TestPropValueEqualIgnoringTimestamp(t *testing.T) {
	a := PropValue{Prop: 1, AreaID: 2, Timestamp: 100, Status: PropStatusAvailable, Value: RawValue{FloatValues: []float32{1}}}
	b := a.Clone()
	b.Timestamp = 999
	require.True(t, a.EqualIgnoringTimestamp(b))

	b.Status = PropStatusError
	require.False(t, a.EqualIgnoringTimestamp(b))
}

func TestStatusStrings(t *testing.T) {
	require.Equal(t, "ok", StatusOK.String())
	require.Equal(t, "invalid_arg", StatusInvalidArg.String())
	require.Equal(t, "not_available", StatusNotAvailable.String())
	require.Equal(t, "available", PropStatusAvailable.String())
	require.Equal(t, "unavailable", PropStatusUnavailable.String())
}
