package protowire_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wireproto/codec"
)

func TestValueConstructorsRoundTripAccessors(t *testing.T) {
	v := protowire.Int32(-7)
	assert.Equal(t, protowire.KindInt32, v.Kind())
	got, ok := v.AsInt32()
	require.True(t, ok)
	assert.Equal(t, int32(-7), got)

	_, ok = v.AsUint32()
	assert.False(t, ok, "wrong-kind accessor must report false")
}

func TestValueStringKind(t *testing.T) {
	v := protowire.String("hello")
	got, ok := v.AsString()
	require.True(t, ok)
	assert.Equal(t, "hello", got)
}

func TestValueBytesKind(t *testing.T) {
	v := protowire.Bytes([]byte{1, 2, 3})
	got, ok := v.AsBytes()
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, got)
}

func TestValueMessageKind(t *testing.T) {
	inner := protowire.Message([]protowire.Field{
		{Number: 1, Value: protowire.Int32(1)},
	})
	fs, ok := inner.AsMessage()
	require.True(t, ok)
	require.Len(t, fs, 1)
	assert.Equal(t, int32(1), fs[0].Number)
}

func TestValueSelfContained(t *testing.T) {
	assert.True(t, protowire.KindInt32.SelfContained())
	assert.True(t, protowire.KindDouble.SelfContained())
	assert.False(t, protowire.KindString.SelfContained())
	assert.False(t, protowire.KindMessage.SelfContained())
	assert.False(t, protowire.KindRepeated.SelfContained())
}

func TestMapLookupLastOccurrenceWins(t *testing.T) {
	m := protowire.Map([]protowire.MapEntry{
		{Key: protowire.String("a"), Value: protowire.Int32(1)},
		{Key: protowire.String("a"), Value: protowire.Int32(2)},
		{Key: protowire.String("b"), Value: protowire.Int32(3)},
	})
	v, ok := m.MapLookup(protowire.String("a"))
	require.True(t, ok)
	got, _ := v.AsInt32()
	assert.Equal(t, int32(2), got)

	_, ok = m.MapLookup(protowire.String("missing"))
	assert.False(t, ok)
}

func TestZeroValueIsInvalid(t *testing.T) {
	var v protowire.Value
	assert.Equal(t, protowire.KindInvalid, v.Kind())
}
