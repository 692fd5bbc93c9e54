package protowire

import (
	"io"
)

// maxVarintBytes is the most bytes a 64-bit varint can occupy: ceil(64/7).
const maxVarintBytes = 10

// ReadUvarint reads a LEB128-encoded unsigned varint from r, one byte at a
// time, stopping at the first byte with its continuation bit (0x80)
// clear. It fails with KindTruncatedInput if r is exhausted before a
// terminating byte is seen, and KindVarintTooLong if 10 bytes are
// consumed without one (the 64-bit ceiling).
func ReadUvarint(r io.ByteReader) (uint64, error) {
	var x uint64
	for shift := uint(0); shift < maxVarintBytes*7; shift += 7 {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF {
				return 0, newErr(KindTruncatedInput, "unexpected end of input while reading varint")
			}
			return 0, wrapErr(KindTruncatedInput, "reading varint", err)
		}
		x |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return x, nil
		}
	}
	return 0, newErr(KindVarintTooLong, "varint exceeds 10 bytes")
}

// readLeadVarint reads a varint from br like ReadUvarint, except that if
// the very first byte read comes back as io.EOF (no bytes consumed at
// all), it reports atEOF=true instead of an error. This lets a caller
// reading a sequence of tag varints back-to-back distinguish "clean end
// of stream between fields" from "stream ended partway through a tag",
// which matters for RawDecoder.Next's success-vs-failure determination
// at a field boundary.
func readLeadVarint(br io.ByteReader) (value uint64, atEOF bool, err error) {
	b, err := br.ReadByte()
	if err != nil {
		if err == io.EOF {
			return 0, true, nil
		}
		return 0, false, wrapErr(KindTruncatedInput, "reading varint", err)
	}
	if b&0x80 == 0 {
		return uint64(b), false, nil
	}
	x := uint64(b & 0x7f)
	for shift := uint(7); shift < maxVarintBytes*7; shift += 7 {
		b, err := br.ReadByte()
		if err != nil {
			if err == io.EOF {
				return 0, false, newErr(KindTruncatedInput, "unexpected end of input while reading varint")
			}
			return 0, false, wrapErr(KindTruncatedInput, "reading varint", err)
		}
		x |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return x, false, nil
		}
	}
	return 0, false, newErr(KindVarintTooLong, "varint exceeds 10 bytes")
}

// AppendUvarint appends the LEB128 encoding of x to buf, emitting 7-bit
// groups low-to-high with the continuation bit set on every group but the
// last. Zero encodes as the single byte 0x00.
func AppendUvarint(buf []byte, x uint64) []byte {
	for x >= 0x80 {
		buf = append(buf, byte(x)|0x80)
		x >>= 7
	}
	return append(buf, byte(x))
}

// SizeOfUvarint returns the number of bytes AppendUvarint would emit for x,
// without allocating.
func SizeOfUvarint(x uint64) int {
	n := 1
	for x >= 0x80 {
		x >>= 7
		n++
	}
	return n
}

// peekingByteReader adapts an io.Reader that does not already implement
// io.ByteReader (e.g. a bytes.NewReader result still implements it, but an
// arbitrary io.Reader from a caller might not) into one, by reading a
// single byte at a time. Most callers pass something that already
// implements io.ByteReader (bytes.Reader, bufio.Reader, strings.Reader);
// this is the fallback for the rest.
type peekingByteReader struct {
	r   io.Reader
	one [1]byte
}

func (p *peekingByteReader) ReadByte() (byte, error) {
	n, err := p.r.Read(p.one[:])
	if n == 1 {
		// A Reader is permitted to return (1, err) with err != nil; the
		// byte read is still valid and err (if io.EOF) surfaces on the
		// next call.
		return p.one[0], nil
	}
	if err == nil {
		err = io.ErrNoProgress
	}
	return 0, err
}

// asByteReader returns r unchanged if it already implements io.ByteReader,
// otherwise wraps it in a one-byte-at-a-time adapter.
func asByteReader(r io.Reader) io.ByteReader {
	if br, ok := r.(io.ByteReader); ok {
		return br
	}
	return &peekingByteReader{r: r}
}
