package protowire

import (
	"io"
	"math"
)

// Encode serializes fields into the wire format and returns the result as
// a newly allocated byte slice. This is C6 plus the to_bytes half of C8.
func Encode(fields []Field, opts ...Option) ([]byte, error) {
	cfg := newConfig(opts)
	var buf []byte
	buf, err := appendFields(buf, fields, cfg, 0)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// EncodeInto serializes fields and writes the result to w, returning the
// number of bytes written. This is C6 plus the to_bytes_into_sink half of
// C8.
func EncodeInto(w io.Writer, fields []Field, opts ...Option) (int, error) {
	buf, err := Encode(fields, opts...)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(buf)
	if err != nil {
		return n, wrapErr(KindInvalidArgument, "writing to sink", err)
	}
	return n, nil
}

func appendFields(buf []byte, fields []Field, cfg config, depth int) ([]byte, error) {
	if cfg.maxDepth > 0 && depth > cfg.maxDepth {
		return nil, newErr(KindDepthExceeded, "nesting depth exceeds limit")
	}
	for _, f := range fields {
		if err := validateFieldNumber(f.Number); err != nil {
			return nil, withField(f.Number, err)
		}
		var err error
		buf, err = appendField(buf, f.Number, f.Value, cfg, depth)
		if err != nil {
			return nil, withField(f.Number, err)
		}
	}
	return buf, nil
}

// appendField encodes a single field (tag(s) plus payload). Map and
// repeated values may each expand to more than one tagged entry.
func appendField(buf []byte, fieldNumber int32, v Value, cfg config, depth int) ([]byte, error) {
	switch v.kind {
	case KindRepeated:
		return appendRepeated(buf, fieldNumber, v.rep, cfg, depth)
	case KindMap:
		return appendMap(buf, fieldNumber, v.mp, cfg, depth)
	default:
		wt, ok := v.kind.wireType()
		if !ok {
			return nil, errf(KindWireValueMismatch, "value of kind %v has no wire-type mapping", v.kind)
		}
		buf = AppendUvarint(buf, makeTag(fieldNumber, wt))
		return appendScalarOrComposite(buf, v, cfg, depth)
	}
}

// appendRepeated implements spec.md §4.6's packing policy:
//   - empty: one zero-length length-delimited entry
//   - one element: encoded exactly as that element would be standalone
//   - 2+ self-contained elements: packed into a single length-delimited entry
//   - 2+ composite elements: one tagged entry per element (unpacked)
func appendRepeated(buf []byte, fieldNumber int32, elems []Value, cfg config, depth int) ([]byte, error) {
	if err := checkHomogeneousRepeated(elems); err != nil {
		return nil, err
	}
	if len(elems) == 0 {
		buf = AppendUvarint(buf, makeTag(fieldNumber, WireLengthDelimited))
		return AppendUvarint(buf, 0), nil
	}
	if len(elems) == 1 {
		return appendField(buf, fieldNumber, elems[0], cfg, depth)
	}
	if elems[0].kind.SelfContained() {
		var payload []byte
		var err error
		for _, e := range elems {
			payload, err = appendScalarOrComposite(payload, e, cfg, depth)
			if err != nil {
				return nil, err
			}
		}
		buf = AppendUvarint(buf, makeTag(fieldNumber, WireLengthDelimited))
		buf = AppendUvarint(buf, uint64(len(payload)))
		return append(buf, payload...), nil
	}
	// Unpacked: string, bytes, message, or any other composite element
	// (a nested repeated or map element is not rejected here; each is
	// encoded through appendField under the same field number).
	for _, e := range elems {
		var err error
		buf, err = appendField(buf, fieldNumber, e, cfg, depth)
		if err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// appendMap emits one length-delimited entry per pair, each a submessage
// with field 1 = key, field 2 = value, per spec.md §4.6.
func appendMap(buf []byte, fieldNumber int32, entries []MapEntry, cfg config, depth int) ([]byte, error) {
	for _, e := range entries {
		entryFields := []Field{{Number: 1, Value: e.Key}, {Number: 2, Value: e.Value}}
		payload, err := appendFields(nil, entryFields, cfg, depth+1)
		if err != nil {
			return nil, wrapErr(KindInvalidMapEntry, "encoding map entry", err)
		}
		buf = AppendUvarint(buf, makeTag(fieldNumber, WireLengthDelimited))
		buf = AppendUvarint(buf, uint64(len(payload)))
		buf = append(buf, payload...)
	}
	return buf, nil
}

// appendScalarOrComposite appends v's payload only (the tag, if any, has
// already been written by the caller — appendRepeated's packed branch
// writes no per-element tag at all).
func appendScalarOrComposite(buf []byte, v Value, cfg config, depth int) ([]byte, error) {
	switch v.kind {
	case KindInt32, KindInt64, KindEnum:
		return AppendUvarint(buf, uint64(v.i64)), nil
	case KindSint32:
		return AppendUvarint(buf, uint64(ZigZagEncode32(int32(v.i64)))), nil
	case KindSint64:
		return AppendUvarint(buf, ZigZagEncode64(v.i64)), nil
	case KindBool:
		if v.i64 != 0 {
			return AppendUvarint(buf, 1), nil
		}
		return AppendUvarint(buf, 0), nil
	case KindUint32, KindUint64:
		return AppendUvarint(buf, v.u64), nil
	case KindFixed32:
		return AppendFixed32(buf, uint32(v.u64)), nil
	case KindSfixed32:
		return AppendFixed32(buf, uint32(v.i64)), nil
	case KindFloat:
		return AppendFixed32(buf, math.Float32bits(v.f32)), nil
	case KindFixed64:
		return AppendFixed64(buf, v.u64), nil
	case KindSfixed64:
		return AppendFixed64(buf, uint64(v.i64)), nil
	case KindDouble:
		return AppendFixed64(buf, math.Float64bits(v.f64)), nil
	case KindString:
		buf = AppendUvarint(buf, uint64(len(v.str)))
		return append(buf, v.str...), nil
	case KindBytes:
		buf = AppendUvarint(buf, uint64(len(v.raw)))
		return append(buf, v.raw...), nil
	case KindMessage:
		payload, err := appendFields(nil, v.msg, cfg, depth+1)
		if err != nil {
			return nil, err
		}
		buf = AppendUvarint(buf, uint64(len(payload)))
		return append(buf, payload...), nil
	default:
		return nil, errf(KindWireValueMismatch, "value of kind %v has no wire-type mapping", v.kind)
	}
}
