package protowire_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wireproto/codec"
)

func TestUvarintRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 127, 128, 300, 1 << 20, 1<<63 - 1, 1<<64 - 1}
	for _, v := range cases {
		buf := protowire.AppendUvarint(nil, v)
		assert.LessOrEqual(t, len(buf), 10)
		got, err := protowire.ReadUvarint(bytes.NewReader(buf))
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestUvarintZeroIsOneByte(t *testing.T) {
	buf := protowire.AppendUvarint(nil, 0)
	assert.Equal(t, []byte{0x00}, buf)
}

func TestUvarintSizeMatchesEncodedLength(t *testing.T) {
	for _, v := range []uint64{0, 1, 127, 128, 1 << 20, 1<<64 - 1} {
		buf := protowire.AppendUvarint(nil, v)
		assert.Equal(t, len(buf), protowire.SizeOfUvarint(v))
	}
}

func TestReadUvarintTruncated(t *testing.T) {
	_, err := protowire.ReadUvarint(bytes.NewReader(nil))
	require.Error(t, err)

	// A continuation byte with nothing after it.
	_, err = protowire.ReadUvarint(bytes.NewReader([]byte{0x80}))
	require.Error(t, err)
}

func TestReadUvarintTooLong(t *testing.T) {
	// 10 continuation bytes followed by a terminator: 11 bytes total,
	// exceeding the 10-byte ceiling.
	b := bytes.Repeat([]byte{0x80}, 10)
	b = append(b, 0x01)
	_, err := protowire.ReadUvarint(bytes.NewReader(b))
	require.Error(t, err)
	var pe *protowire.Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, protowire.KindVarintTooLong, pe.Kind)
}
