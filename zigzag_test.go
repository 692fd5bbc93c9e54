package protowire_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wireproto/codec"
)

func TestZigZag32KnownValues(t *testing.T) {
	// spec.md §8 law 4: zigzag(0)=0, zigzag(-1)=1, zigzag(1)=2, zigzag(-2)=3.
	cases := map[int32]uint32{0: 0, -1: 1, 1: 2, -2: 3, 2: 4}
	for in, want := range cases {
		assert.Equal(t, want, protowire.ZigZagEncode32(in))
		assert.Equal(t, in, protowire.ZigZagDecode32(want))
	}
}

func TestZigZag64KnownValues(t *testing.T) {
	cases := map[int64]uint64{0: 0, -1: 1, 1: 2, -2: 3, 2: 4}
	for in, want := range cases {
		assert.Equal(t, want, protowire.ZigZagEncode64(in))
		assert.Equal(t, in, protowire.ZigZagDecode64(want))
	}
}

func TestZigZag32RoundTripExtremes(t *testing.T) {
	for _, v := range []int32{0, -1, 1, 1<<31 - 1, -(1 << 31)} {
		assert.Equal(t, v, protowire.ZigZagDecode32(protowire.ZigZagEncode32(v)))
	}
}

func TestZigZag64RoundTripExtremes(t *testing.T) {
	for _, v := range []int64{0, -1, 1, 1<<63 - 1, -(1 << 63)} {
		assert.Equal(t, v, protowire.ZigZagDecode64(protowire.ZigZagEncode64(v)))
	}
}
