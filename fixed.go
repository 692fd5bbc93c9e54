package protowire

import (
	"encoding/binary"
	"io"
)

// ReadFixed32 reads 4 little-endian bytes from r and returns them as a
// uint32, the wire representation shared by fixed32, sfixed32, and float.
func ReadFixed32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, wrapErr(KindTruncatedInput, "reading fixed32", err)
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// ReadFixed64 reads 8 little-endian bytes from r and returns them as a
// uint64, the wire representation shared by fixed64, sfixed64, and double.
func ReadFixed64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, wrapErr(KindTruncatedInput, "reading fixed64", err)
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// AppendFixed32 appends the 4-byte little-endian encoding of x to buf.
func AppendFixed32(buf []byte, x uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], x)
	return append(buf, tmp[:]...)
}

// AppendFixed64 appends the 8-byte little-endian encoding of x to buf.
func AppendFixed64(buf []byte, x uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], x)
	return append(buf, tmp[:]...)
}

// decodeFixed32Bytes and decodeFixed64Bytes read directly from an
// in-memory slice (rather than an io.Reader) for the hot path used by
// raw-payload decoding, where the payload has already been buffered in
// full.

func decodeFixed32Bytes(b []byte) (uint32, error) {
	if len(b) < 4 {
		return 0, errf(KindTruncatedInput, "fixed32 needs 4 bytes, got %d", len(b))
	}
	return binary.LittleEndian.Uint32(b), nil
}

func decodeFixed64Bytes(b []byte) (uint64, error) {
	if len(b) < 8 {
		return 0, errf(KindTruncatedInput, "fixed64 needs 8 bytes, got %d", len(b))
	}
	return binary.LittleEndian.Uint64(b), nil
}
