package protowire_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wireproto/codec"
)

func TestBatchDecodeOrdersResultsBySourceIndex(t *testing.T) {
	schema := []protowire.FieldType{{Number: 1, Type: protowire.TypeInt32}}
	sources := make([]io.Reader, 5)
	for i := range sources {
		buf, err := protowire.ToBytes([]protowire.Field{{Number: 1, Value: protowire.Int32(int32(i))}})
		require.NoError(t, err)
		sources[i] = bytes.NewReader(buf)
	}
	results, err := protowire.BatchDecode(context.Background(), schema, sources)
	require.NoError(t, err)
	require.Len(t, results, 5)
	for i, fields := range results {
		require.Len(t, fields, 1)
		got, _ := fields[0].Value.AsInt32()
		assert.Equal(t, int32(i), got)
	}
}

func TestBatchDecodePropagatesFirstError(t *testing.T) {
	schema := []protowire.FieldType{{Number: 1, Type: protowire.TypeInt32}}
	good, err := protowire.ToBytes([]protowire.Field{{Number: 1, Value: protowire.Int32(1)}})
	require.NoError(t, err)
	bad := []byte{0xFF} // truncated varint tag
	sources := []io.Reader{bytes.NewReader(good), bytes.NewReader(bad)}
	_, err = protowire.BatchDecode(context.Background(), schema, sources)
	require.Error(t, err)
}

func TestBatchEncodeOrdersResultsByMessageIndex(t *testing.T) {
	messages := make([][]protowire.Field, 4)
	for i := range messages {
		messages[i] = []protowire.Field{{Number: 1, Value: protowire.Int32(int32(i * 10))}}
	}
	results, err := protowire.BatchEncode(context.Background(), messages)
	require.NoError(t, err)
	require.Len(t, results, 4)
	for i, buf := range results {
		want, err := protowire.ToBytes(messages[i])
		require.NoError(t, err)
		assert.Equal(t, want, buf)
	}
}

func TestBatchDecodeRespectsCancelledContext(t *testing.T) {
	schema := []protowire.FieldType{{Number: 1, Type: protowire.TypeInt32}}
	buf, err := protowire.ToBytes([]protowire.Field{{Number: 1, Value: protowire.Int32(1)}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sources := []io.Reader{bytes.NewReader(buf)}
	_, err = protowire.BatchDecode(ctx, schema, sources)
	require.Error(t, err)
}
