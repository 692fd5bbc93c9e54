package protowire_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wireproto/codec"
)

func TestDecodeRawFieldsSimpleVarint(t *testing.T) {
	// field 1, wire type 0 (varint), value 150 -> tag 0x08, payload 0x96 0x01
	wire := []byte{0x08, 0x96, 0x01}
	fields, err := protowire.DecodeRawFields(bytes.NewReader(wire))
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, int32(1), fields[0].Number)
	assert.Equal(t, protowire.WireVarint, fields[0].WireType)
	assert.Equal(t, []byte{0x96, 0x01}, fields[0].Payload)
}

func TestDecodeRawFieldsLengthDelimited(t *testing.T) {
	// field 2, wire type 2, length 5, "hello"
	wire := append([]byte{0x12, 0x05}, "hello"...)
	fields, err := protowire.DecodeRawFields(bytes.NewReader(wire))
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, int32(2), fields[0].Number)
	assert.Equal(t, protowire.WireLengthDelimited, fields[0].WireType)
	assert.Equal(t, "hello", string(fields[0].Payload))
}

func TestDecodeRawFieldsMultipleFields(t *testing.T) {
	wire := []byte{0x08, 0x01, 0x08, 0x02, 0x08, 0x03}
	fields, err := protowire.DecodeRawFields(bytes.NewReader(wire))
	require.NoError(t, err)
	require.Len(t, fields, 3)
	for i, f := range fields {
		assert.Equal(t, int32(1), f.Number)
		assert.Equal(t, []byte{byte(i + 1)}, f.Payload)
	}
}

func TestDecodeRawFieldsRejectsGroupWireType(t *testing.T) {
	// field 1, wire type 3 (start group): tag = 1<<3|3 = 0x0B
	_, err := protowire.DecodeRawFields(bytes.NewReader([]byte{0x0B}))
	require.Error(t, err)
	var pe *protowire.Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, protowire.KindInvalidWireType, pe.Kind)
}

func TestDecodeRawFieldsRejectsTruncatedPayload(t *testing.T) {
	// claims a length-delimited payload of 10 bytes but supplies none.
	_, err := protowire.DecodeRawFields(bytes.NewReader([]byte{0x12, 0x0A}))
	require.Error(t, err)
}

func TestDecodeRawFieldsRejectsTruncatedTagPayload(t *testing.T) {
	// field 1, wire type 0 (varint): the tag is consumed but the payload
	// that should follow is never supplied.
	_, err := protowire.DecodeRawFields(bytes.NewReader([]byte{0x08}))
	require.Error(t, err)
	var pe *protowire.Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, protowire.KindTruncatedInput, pe.Kind)
}

func TestDecodeRawFieldsEmptyInputIsEmptySlice(t *testing.T) {
	fields, err := protowire.DecodeRawFields(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestRawDecoderNextStepsThroughFields(t *testing.T) {
	wire := []byte{0x08, 0x01, 0x08, 0x02}
	dec := protowire.NewRawDecoder(bytes.NewReader(wire))

	rf, ok, err := dec.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int32(1), rf.Number)

	rf, ok, err = dec.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte{0x02}, rf.Payload)

	_, ok, err = dec.Next()
	require.NoError(t, err)
	assert.False(t, ok, "clean end of stream must report ok=false with no error")
}

func TestRawDecoderMoreReflectsRemainingBytes(t *testing.T) {
	wire := []byte{0x08, 0x01}
	r := bytes.NewReader(wire)
	dec := protowire.NewRawDecoder(r)
	assert.True(t, dec.More())
	_, _, err := dec.Next()
	require.NoError(t, err)
	assert.False(t, dec.More())
}

func TestDecodeRawFieldsRespectsMaxRawLength(t *testing.T) {
	wire := append([]byte{0x12, 0x05}, "hello"...)
	_, err := protowire.DecodeRawFields(bytes.NewReader(wire), protowire.WithMaxRawLength(2))
	require.Error(t, err)
	var pe *protowire.Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, protowire.KindLengthExceeded, pe.Kind)
}

func TestDecodeRawFieldsRespectsMaxRawFields(t *testing.T) {
	wire := []byte{0x08, 0x01, 0x08, 0x02, 0x08, 0x03}
	_, err := protowire.DecodeRawFields(bytes.NewReader(wire), protowire.WithMaxRawFields(2))
	require.Error(t, err)
}
