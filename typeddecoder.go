package protowire

import (
	"bufio"
	"bytes"
	"math"
	"unicode/utf8"
)

// DecodeTyped interprets raw (as produced by DecodeRawFields or a
// RawDecoder) against schema, producing a []Field in schema declaration
// order. This is C5.
//
// Duplicate field numbers on the wire are a merging event, not an error:
// repeated occurrences of a field accumulate per the rules documented on
// mergeValues. In particular, and unlike generated-code proto3 semantics,
// this codec preserves every occurrence of a singular scalar field by
// promoting it to a repeated value on the second occurrence, rather than
// letting the last occurrence silently win (spec.md §9 "Repeated merging
// vs. proto3 last-wins").
//
// Fields present on the wire with no corresponding schema entry are
// rejected with KindSchemaMismatch; this codec does not preserve unknown
// fields across a typed round trip (spec.md §1 Non-goals).
func DecodeTyped(raw []RawField, schema []FieldType, opts ...Option) ([]Field, error) {
	cfg := newConfig(opts)
	return decodeTyped(raw, schema, cfg, 0)
}

// FromRawFields is an alias for DecodeTyped kept for parity with the
// public-surface naming in spec.md §4.8 (from_raw_fields).
func FromRawFields(raw []RawField, schema []FieldType, opts ...Option) ([]Field, error) {
	return DecodeTyped(raw, schema, opts...)
}

func decodeTyped(raw []RawField, schema []FieldType, cfg config, depth int) ([]Field, error) {
	if cfg.maxDepth > 0 && depth > cfg.maxDepth {
		return nil, newErr(KindDepthExceeded, "nesting depth exceeds limit")
	}

	order := make([]int32, 0, len(schema))
	acc := make(map[int32]Value, len(schema))

	for _, rf := range raw {
		if err := validateFieldNumber(rf.Number); err != nil {
			return nil, err
		}
		ft, ok := findFieldType(schema, rf.Number)
		if !ok {
			return nil, withField(rf.Number, newErr(KindSchemaMismatch, "field number not present in schema"))
		}
		val, err := decodeRawField(rf, ft.Type, cfg, depth)
		if err != nil {
			return nil, withField(rf.Number, err)
		}
		existing, seen := acc[rf.Number]
		if !seen {
			acc[rf.Number] = val
			order = append(order, rf.Number)
			continue
		}
		merged, err := mergeValues(existing, val)
		if err != nil {
			return nil, withField(rf.Number, err)
		}
		acc[rf.Number] = merged
	}

	// Output in schema declaration order, per spec.md §4.5's "Output
	// ordering" rule — deterministic regardless of wire order — not the
	// first-appearance order used internally while accumulating.
	out := make([]Field, 0, len(order))
	for _, ft := range schema {
		if v, ok := acc[ft.Number]; ok {
			out = append(out, Field{Number: ft.Number, Value: v})
		}
	}
	return out, nil
}

// mergeValues implements spec.md §4.5 step 3, the merging rule, for two
// values decoded for the same field number in stream order (existing
// arrived first).
func mergeValues(existing, next Value) (Value, error) {
	switch {
	case existing.kind == KindRepeated && next.kind == KindRepeated:
		merged := make([]Value, 0, len(existing.rep)+len(next.rep))
		merged = append(merged, existing.rep...)
		merged = append(merged, next.rep...)
		if err := checkHomogeneousRepeated(merged); err != nil {
			return Value{}, wrapErr(KindMergeTypeConflict, "merged repeated occurrences have incompatible shapes", err)
		}
		return Repeated(merged), nil

	case existing.kind == KindMap && next.kind == KindMap:
		merged := make([]MapEntry, 0, len(existing.mp)+len(next.mp))
		merged = append(merged, existing.mp...)
		merged = append(merged, next.mp...)
		return Map(merged), nil

	case existing.kind == KindRepeated || next.kind == KindRepeated:
		// One side is already a promoted repeated (from a prior unpacked
		// occurrence) and the other is a single scalar/composite
		// occurrence: fold the new occurrence in.
		var merged []Value
		if existing.kind == KindRepeated {
			merged = make([]Value, 0, len(existing.rep)+1)
			merged = append(merged, existing.rep...)
			merged = append(merged, next)
		} else {
			merged = make([]Value, 0, len(next.rep)+1)
			merged = append(merged, existing)
			merged = append(merged, next.rep...)
		}
		if err := checkHomogeneousRepeated(merged); err != nil {
			return Value{}, wrapErr(KindMergeTypeConflict, "merged occurrences have incompatible shapes", err)
		}
		return Repeated(merged), nil

	default:
		// Two singular occurrences of a non-repeated field: promote to
		// repeated([existing, next]), preserving both rather than
		// letting the later one silently win.
		shape := shapeOf(existing)
		if !shape.equal(shapeOf(next)) {
			return Value{}, errf(KindMergeTypeConflict, "field occurred twice with incompatible shapes (%v then %v)", existing.kind, next.kind)
		}
		return Repeated([]Value{existing, next}), nil
	}
}

// decodeRawField interprets a single RawField's payload under t,
// dispatching on t's Kind. Packed-vs-unpacked repeated detection happens
// here: when t is KindRepeated with a self-contained element type, a
// RawField with wire type WireLengthDelimited is a packed array; any other
// RawField for a repeated field is exactly one unpacked element.
func decodeRawField(rf RawField, t ValueType, cfg config, depth int) (Value, error) {
	if t.kind == KindRepeated {
		elem := *t.elem
		if elem.Kind().SelfContained() && rf.WireType == WireLengthDelimited {
			vals, err := decodePacked(rf.Payload, elem)
			if err != nil {
				return Value{}, err
			}
			return Repeated(vals), nil
		}
		one, err := decodeScalarOrComposite(rf, elem, cfg, depth)
		if err != nil {
			return Value{}, err
		}
		return Repeated([]Value{one}), nil
	}
	return decodeScalarOrComposite(rf, t, cfg, depth)
}

// decodeScalarOrComposite decodes rf's payload as a single value of type
// t (t is never KindRepeated here; callers peel that off first).
func decodeScalarOrComposite(rf RawField, t ValueType, cfg config, depth int) (Value, error) {
	wantWT, hasFixedWT := t.kind.wireType()

	switch t.kind {
	case KindMap:
		if rf.WireType != WireLengthDelimited {
			return Value{}, errf(KindInvalidWireType, "map entry requires length-delimited wire type, got %v", rf.WireType)
		}
		return decodeMapEntry(rf.Payload, t, cfg, depth)

	case KindMessage:
		if rf.WireType != WireLengthDelimited {
			return Value{}, errf(KindInvalidWireType, "message field requires length-delimited wire type, got %v", rf.WireType)
		}
		nestedRaw, err := decodeRawFieldsWithConfig(bytes.NewReader(rf.Payload), cfg)
		if err != nil {
			return Value{}, err
		}
		fields, err := decodeTyped(nestedRaw, t.message, cfg, depth+1)
		if err != nil {
			return Value{}, err
		}
		return Message(fields), nil

	case KindString:
		if rf.WireType != WireLengthDelimited {
			return Value{}, errf(KindInvalidWireType, "string field requires length-delimited wire type, got %v", rf.WireType)
		}
		if !utf8.Valid(rf.Payload) {
			return Value{}, newErr(KindInvalidUTF8, "string payload is not valid UTF-8")
		}
		return String(string(rf.Payload)), nil

	case KindBytes:
		if rf.WireType != WireLengthDelimited {
			return Value{}, errf(KindInvalidWireType, "bytes field requires length-delimited wire type, got %v", rf.WireType)
		}
		cp := make([]byte, len(rf.Payload))
		copy(cp, rf.Payload)
		return Bytes(cp), nil
	}

	if !hasFixedWT || rf.WireType != wantWT {
		return Value{}, errf(KindInvalidWireType, "%v field requires wire type %v, got %v", t.kind, wantWT, rf.WireType)
	}

	switch t.kind {
	case KindBool, KindInt32, KindInt64, KindUint32, KindUint64, KindSint32, KindSint64, KindEnum:
		u, err := decodeVarintPayload(rf.Payload)
		if err != nil {
			return Value{}, err
		}
		return decodeVarintValue(t.kind, u)

	case KindFixed32, KindSfixed32, KindFloat:
		u, err := decodeFixed32Bytes(rf.Payload)
		if err != nil {
			return Value{}, err
		}
		return decodeFixed32Value(t.kind, u), nil

	case KindFixed64, KindSfixed64, KindDouble:
		u, err := decodeFixed64Bytes(rf.Payload)
		if err != nil {
			return Value{}, err
		}
		return decodeFixed64Value(t.kind, u), nil
	}

	return Value{}, errf(KindWireValueMismatch, "no decode rule for value type %v", t.kind)
}

func decodeVarintValue(k Kind, u uint64) (Value, error) {
	switch k {
	case KindBool:
		if u > 1 {
			return Value{}, errf(KindInvalidBool, "bool payload %d is neither 0 nor 1", u)
		}
		return Bool(u != 0), nil
	case KindInt32:
		return Int32(int32(u)), nil
	case KindInt64:
		return Int64(int64(u)), nil
	case KindUint32:
		if u > math.MaxUint32 {
			return Value{}, errf(KindVarintOutOfRange, "uint32 payload %d exceeds 2^32-1", u)
		}
		return Uint32(uint32(u)), nil
	case KindUint64:
		return Uint64(u), nil
	case KindSint32:
		if u > math.MaxUint32 {
			return Value{}, errf(KindVarintOutOfRange, "sint32 payload %d exceeds 2^32-1", u)
		}
		return Sint32(ZigZagDecode32(uint32(u))), nil
	case KindSint64:
		return Sint64(ZigZagDecode64(u)), nil
	case KindEnum:
		// Unsigned varint, reinterpreted as signed 32-bit: values outside
		// [-2^31, 2^31-1] truncate rather than error (spec.md §9 enum
		// signedness decision).
		return Enum(int32(u)), nil
	default:
		return Value{}, errf(KindWireValueMismatch, "kind %v is not a varint type", k)
	}
}

func decodeFixed32Value(k Kind, u uint32) Value {
	switch k {
	case KindFixed32:
		return Fixed32(u)
	case KindSfixed32:
		return Sfixed32(int32(u))
	default: // KindFloat
		return Float(math.Float32frombits(u))
	}
}

func decodeFixed64Value(k Kind, u uint64) Value {
	switch k {
	case KindFixed64:
		return Fixed64(u)
	case KindSfixed64:
		return Sfixed64(int64(u))
	default: // KindDouble
		return Double(math.Float64frombits(u))
	}
}

// decodePacked parses payload as a concatenation of elem-typed values
// with no per-element tags, as produced by a packed repeated field
// (spec.md §4.5 step 2, "repeated(E)" packed branch).
func decodePacked(payload []byte, elem ValueType) ([]Value, error) {
	br := bufio.NewReader(bytes.NewReader(payload))
	var out []Value
	wt, _ := elem.kind.wireType()
	for {
		if _, err := br.Peek(1); err != nil {
			break // clean end of packed payload
		}
		var v Value
		var err error
		switch wt {
		case WireVarint:
			u, e := ReadUvarint(br)
			if e != nil {
				return nil, e
			}
			v, err = decodeVarintValue(elem.kind, u)
		case WireFixed32:
			u, e := ReadFixed32(br)
			if e != nil {
				return nil, wrapErr(KindTruncatedInput, "reading packed fixed32 element", e)
			}
			v = decodeFixed32Value(elem.kind, u)
		case WireFixed64:
			u, e := ReadFixed64(br)
			if e != nil {
				return nil, wrapErr(KindTruncatedInput, "reading packed fixed64 element", e)
			}
			v = decodeFixed64Value(elem.kind, u)
		default:
			return nil, errf(KindWireValueMismatch, "kind %v cannot appear in a packed array", elem.kind)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// decodeMapEntry parses a map entry submessage payload: exactly two
// fields, number 1 (key) and number 2 (value); either may be absent, in
// which case it defaults to the zero value of its type (proto3 map entry
// semantics, spec.md §4.5 step 2 "map((K,V))"). Any other field number
// present is rejected.
func decodeMapEntry(payload []byte, t ValueType, cfg config, depth int) (Value, error) {
	key, val, _ := t.MapKeyValue()
	entrySchema := []FieldType{{Number: 1, Type: key}, {Number: 2, Type: val}}

	rawEntry, err := decodeRawFieldsWithConfig(bytes.NewReader(payload), cfg)
	if err != nil {
		return Value{}, err
	}
	for _, rf := range rawEntry {
		if rf.Number != 1 && rf.Number != 2 {
			return Value{}, errf(KindInvalidMapEntry, "map entry has unexpected field number %d", rf.Number)
		}
	}

	fields, err := decodeTyped(rawEntry, entrySchema, cfg, depth+1)
	if err != nil {
		return Value{}, wrapErr(KindInvalidMapEntry, "decoding map entry", err)
	}

	entryKey := zeroValue(key)
	entryVal := zeroValue(val)
	for _, f := range fields {
		if f.Number == 1 {
			entryKey = f.Value
		} else if f.Number == 2 {
			entryVal = f.Value
		}
	}
	return Map([]MapEntry{{Key: entryKey, Value: entryVal}}), nil
}

// zeroValue returns proto3's zero value for t, used when a map entry
// omits its key or value field.
func zeroValue(t ValueType) Value {
	switch t.kind {
	case KindInt32:
		return Int32(0)
	case KindInt64:
		return Int64(0)
	case KindUint32:
		return Uint32(0)
	case KindUint64:
		return Uint64(0)
	case KindSint32:
		return Sint32(0)
	case KindSint64:
		return Sint64(0)
	case KindBool:
		return Bool(false)
	case KindEnum:
		return Enum(0)
	case KindFixed32:
		return Fixed32(0)
	case KindSfixed32:
		return Sfixed32(0)
	case KindFloat:
		return Float(0)
	case KindFixed64:
		return Fixed64(0)
	case KindSfixed64:
		return Sfixed64(0)
	case KindDouble:
		return Double(0)
	case KindString:
		return String("")
	case KindBytes:
		return Bytes(nil)
	case KindMessage:
		return Message(nil)
	default:
		return Value{kind: t.kind}
	}
}
