package protowire

import (
	"bytes"
	"io"
)

// RawField is one field as parsed straight off the wire, with no schema
// applied: a field number, a wire type, and the raw payload bytes for
// that wire type (the varint bytes themselves for WireVarint, the fixed
// bytes for WireFixed32/WireFixed64, or the length-delimited contents for
// WireLengthDelimited — not including the length prefix).
type RawField struct {
	Number   int32
	WireType WireType
	Payload  []byte
}

// DecodeRawFields parses r (a finite byte source) into a sequence of
// RawField values in stream order, with no schema applied. Reaching the
// end of r cleanly, between fields, is success; a partial tag, partial
// payload, or disallowed wire code is an error. This implements C4:
// schemaless inspection of arbitrary wire-format bytes.
func DecodeRawFields(r io.Reader, opts ...Option) ([]RawField, error) {
	return decodeRawFieldsWithConfig(r, newConfig(opts))
}

// decodeRawFieldsWithConfig is DecodeRawFields with an already-resolved
// config, so that nested decode paths (a submessage or map entry's
// length-delimited payload) can inherit the caller's resource limits
// instead of reverting to defaults.
func decodeRawFieldsWithConfig(r io.Reader, cfg config) ([]RawField, error) {
	dec := newRawDecoderWithConfig(r, cfg)
	var out []RawField
	for {
		rf, ok, err := dec.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, rf)
		if cfg.maxRawFields > 0 && len(out) > cfg.maxRawFields {
			return nil, errf(KindLengthExceeded, "raw field count exceeds limit of %d", cfg.maxRawFields)
		}
	}
}

// lenner is implemented by byte-slice-backed readers (bytes.Reader,
// bytes.Buffer, strings.Reader) that can report how much unread data
// remains without consuming it.
type lenner interface {
	Len() int
}

// RawDecoder pulls one RawField at a time from an underlying byte source,
// for callers that want to stop early or interleave decoding with other
// work rather than materializing the whole sequence up front (the
// all-at-once DecodeRawFields is built on top of it).
type RawDecoder struct {
	br  io.ByteReader
	r   io.Reader
	len lenner // non-nil if r's concrete type exposes remaining length
	cfg config
}

// NewRawDecoder wraps r for incremental raw-field decoding.
func NewRawDecoder(r io.Reader, opts ...Option) *RawDecoder {
	return newRawDecoderWithConfig(r, newConfig(opts))
}

// newRawDecoderWithConfig is NewRawDecoder with an already-resolved config;
// see decodeRawFieldsWithConfig.
func newRawDecoderWithConfig(r io.Reader, cfg config) *RawDecoder {
	d := &RawDecoder{br: asByteReader(r), r: r, cfg: cfg}
	if l, ok := r.(lenner); ok {
		d.len = l
	}
	return d
}

// More reports whether the decoder believes more data remains. For
// sources backed by a byte slice (bytes.Reader, bytes.Buffer,
// strings.Reader) this is exact. For other io.Reader sources (e.g. a
// network stream) where remaining length can't be known without
// consuming, it conservatively reports true; Next is always the
// authoritative way to detect end-of-stream in that case.
func (d *RawDecoder) More() bool {
	if d.len != nil {
		return d.len.Len() > 0
	}
	return true
}

// Next reads and returns the next RawField. It returns (zero, false, nil)
// at a clean end of stream (no bytes remain where a new tag would start).
func (d *RawDecoder) Next() (RawField, bool, error) {
	tag, atEOF, err := readLeadVarint(d.br)
	if err != nil {
		return RawField{}, false, err
	}
	if atEOF {
		return RawField{}, false, nil
	}
	fieldNumber, wt, err := splitTag(tag)
	if err != nil {
		return RawField{}, false, err
	}
	payload, err := d.readPayload(wt)
	if err != nil {
		return RawField{}, false, withField(fieldNumber, err)
	}
	return RawField{Number: fieldNumber, WireType: wt, Payload: payload}, true, nil
}

func (d *RawDecoder) readPayload(wt WireType) ([]byte, error) {
	switch wt {
	case WireVarint:
		return readVarintPayload(d.br)
	case WireFixed64:
		buf := make([]byte, 8)
		if _, err := io.ReadFull(d.r, buf); err != nil {
			return nil, wrapErr(KindTruncatedInput, "reading fixed64 payload", err)
		}
		return buf, nil
	case WireFixed32:
		buf := make([]byte, 4)
		if _, err := io.ReadFull(d.r, buf); err != nil {
			return nil, wrapErr(KindTruncatedInput, "reading fixed32 payload", err)
		}
		return buf, nil
	case WireLengthDelimited:
		n, err := ReadUvarint(d.br)
		if err != nil {
			return nil, wrapErr(KindTruncatedInput, "reading length-delimited length prefix", err)
		}
		if d.cfg.maxRawLength > 0 && n > uint64(d.cfg.maxRawLength) {
			return nil, errf(KindLengthExceeded, "length prefix %d exceeds limit of %d", n, d.cfg.maxRawLength)
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(d.r, buf); err != nil {
			return nil, wrapErr(KindTruncatedInput, "reading length-delimited payload", err)
		}
		return buf, nil
	default:
		// splitTag already rejects anything else; unreachable.
		return nil, errf(KindInvalidWireType, "unsupported wire type %v", wt)
	}
}

// readVarintPayload reads and returns the raw bytes of a varint (for C4's
// "no schema" raw-payload capture), rather than its decoded value.
func readVarintPayload(br io.ByteReader) ([]byte, error) {
	var buf []byte
	for i := 0; i < maxVarintBytes; i++ {
		b, err := br.ReadByte()
		if err != nil {
			if err == io.EOF {
				return nil, newErr(KindTruncatedInput, "unexpected end of input while reading varint")
			}
			return nil, wrapErr(KindTruncatedInput, "reading varint", err)
		}
		buf = append(buf, b)
		if b&0x80 == 0 {
			return buf, nil
		}
	}
	return nil, newErr(KindVarintTooLong, "varint exceeds 10 bytes")
}

// decodeVarintPayload decodes the value carried by a raw varint payload
// (as captured by readVarintPayload / RawField.Payload for a WireVarint
// field) back into a uint64. payload is already fully buffered and at most
// 10 bytes, so bytes.Reader's own ByteReader implementation is read from
// directly rather than adding a bufio layer on top.
func decodeVarintPayload(payload []byte) (uint64, error) {
	return ReadUvarint(bytes.NewReader(payload))
}
