package protowire_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wireproto/codec"
)

func TestScenarioS1Scalars(t *testing.T) {
	fields := []protowire.Field{{Number: 1, Value: protowire.Uint64(2)}}
	buf, err := protowire.ToBytes(fields)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x08, 0x02}, buf)

	schema := []protowire.FieldType{{Number: 1, Type: protowire.TypeUint64}}
	got, err := protowire.FromBytes(bytes.NewReader(buf), schema)
	require.NoError(t, err)
	require.Len(t, got, 1)
	v, ok := got[0].Value.AsUint64()
	require.True(t, ok)
	assert.Equal(t, uint64(2), v)
}

func TestScenarioS2StringAndBytes(t *testing.T) {
	fields := []protowire.Field{
		{Number: 1, Value: protowire.String("test")},
		{Number: 2, Value: protowire.Bytes([]byte{0xFF, 0x0F})},
		{Number: 3, Value: protowire.Uint64(2)},
		{Number: 4, Value: protowire.Bytes([]byte{0x02, 0x04})},
	}
	buf, err := protowire.ToBytes(fields)
	require.NoError(t, err)
	want := []byte{
		0x0A, 0x04, 0x74, 0x65, 0x73, 0x74,
		0x12, 0x02, 0xFF, 0x0F,
		0x18, 0x02,
		0x22, 0x02, 0x02, 0x04,
	}
	assert.Equal(t, want, buf)
}

func TestScenarioS3SintBoundaries(t *testing.T) {
	buf, err := protowire.ToBytes([]protowire.Field{{Number: 1, Value: protowire.Sint32(-1)}})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x08, 0x01}, buf)

	buf, err = protowire.ToBytes([]protowire.Field{{Number: 1, Value: protowire.Sint32(2147483647)}})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x08, 0xFE, 0xFF, 0xFF, 0xFF, 0x0F}, buf)
}

func TestScenarioS4PackedRepeated(t *testing.T) {
	fields := []protowire.Field{
		{Number: 1, Value: protowire.Repeated([]protowire.Value{
			protowire.Int32(1), protowire.Int32(2), protowire.Int32(3),
		})},
	}
	buf, err := protowire.ToBytes(fields)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0A, 0x03, 0x01, 0x02, 0x03}, buf)
}

func TestScenarioS5MapTwoEntries(t *testing.T) {
	fields := []protowire.Field{
		{Number: 1, Value: protowire.Map([]protowire.MapEntry{
			{Key: protowire.Int32(1), Value: protowire.String("value1")},
			{Key: protowire.Int32(2), Value: protowire.String("value2")},
		})},
	}
	buf, err := protowire.ToBytes(fields)
	require.NoError(t, err)
	want := []byte{
		0x0A, 0x0A, 0x08, 0x01, 0x12, 0x06, 0x76, 0x61, 0x6C, 0x75, 0x65, 0x31,
		0x0A, 0x0A, 0x08, 0x02, 0x12, 0x06, 0x76, 0x61, 0x6C, 0x75, 0x65, 0x32,
	}
	assert.Equal(t, want, buf)
}

func TestScenarioS6MergeAcrossWireOccurrences(t *testing.T) {
	wire := []byte{0x0A, 0x02, 0x01, 0x02, 0x0A, 0x02, 0x03, 0x04}
	schema := []protowire.FieldType{{Number: 1, Type: protowire.RepeatedType(protowire.TypeInt32)}}
	fields, err := protowire.FromBytes(bytes.NewReader(wire), schema)
	require.NoError(t, err)
	require.Len(t, fields, 1)
	vals, ok := fields[0].Value.AsRepeated()
	require.True(t, ok)
	require.Len(t, vals, 4)
	for i, want := range []int32{1, 2, 3, 4} {
		got, _ := vals[i].AsInt32()
		assert.Equal(t, want, got)
	}

	reencoded, err := protowire.ToBytes(fields)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0A, 0x04, 0x01, 0x02, 0x03, 0x04}, reencoded)
}

func TestFromRawBytesSchemaless(t *testing.T) {
	wire := []byte{0x08, 0x01}
	raw, err := protowire.FromRawBytes(bytes.NewReader(wire))
	require.NoError(t, err)
	require.Len(t, raw, 1)
	assert.Equal(t, int32(1), raw[0].Number)
}
