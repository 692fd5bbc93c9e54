package protowire

import "fmt"

// Kind identifies a Value's or ValueType's discriminant: which protobuf
// scalar or composite shape it carries.
type Kind uint8

const (
	KindInvalid Kind = iota

	// Self-contained values: encode without an external length prefix,
	// and are legal inside a packed repeated field.
	KindInt32
	KindInt64
	KindUint32
	KindUint64
	KindSint32
	KindSint64
	KindBool
	KindEnum
	KindFixed32
	KindSfixed32
	KindFloat
	KindFixed64
	KindSfixed64
	KindDouble

	// Composite values: require length-delimited framing.
	KindString
	KindBytes
	KindMessage
	KindRepeated
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindUint32:
		return "uint32"
	case KindUint64:
		return "uint64"
	case KindSint32:
		return "sint32"
	case KindSint64:
		return "sint64"
	case KindBool:
		return "bool"
	case KindEnum:
		return "enum"
	case KindFixed32:
		return "fixed32"
	case KindSfixed32:
		return "sfixed32"
	case KindFloat:
		return "float"
	case KindFixed64:
		return "fixed64"
	case KindSfixed64:
		return "sfixed64"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindMessage:
		return "message"
	case KindRepeated:
		return "repeated"
	case KindMap:
		return "map"
	default:
		return "invalid"
	}
}

// SelfContained reports whether a value of this kind encodes without an
// external length prefix and is therefore eligible to appear inside a
// packed repeated array. Composite kinds (string, bytes, message,
// repeated, map) are not self-contained.
func (k Kind) SelfContained() bool {
	switch k {
	case KindInt32, KindInt64, KindUint32, KindUint64, KindSint32, KindSint64,
		KindBool, KindEnum, KindFixed32, KindSfixed32, KindFloat,
		KindFixed64, KindSfixed64, KindDouble:
		return true
	default:
		return false
	}
}

// wireType returns the wire type a value of this kind maps to on encode.
// Composite and repeated/map kinds have no single fixed wire type
// (repeated depends on packing, map emits one entry per pair), so this is
// only meaningful for scalar/string/bytes/message kinds; callers handling
// repeated/map dispatch separately.
func (k Kind) wireType() (WireType, bool) {
	switch k {
	case KindInt32, KindInt64, KindUint32, KindUint64, KindSint32, KindSint64,
		KindBool, KindEnum:
		return WireVarint, true
	case KindFixed32, KindSfixed32, KindFloat:
		return WireFixed32, true
	case KindFixed64, KindSfixed64, KindDouble:
		return WireFixed64, true
	case KindString, KindBytes, KindMessage:
		return WireLengthDelimited, true
	default:
		return 0, false
	}
}

// Value is a closed tagged union holding exactly one protobuf scalar or
// composite value. The zero Value has Kind KindInvalid and is never a
// legal field value; construct one with the Int32/Int64/... constructors
// below, or via decoding.
//
// Value is intentionally a plain struct (not an interface) so that scalar
// construction never allocates: only the composite kinds (Bytes, String,
// Message, Repeated, Map) touch the heap.
type Value struct {
	kind Kind

	// Scalar storage. Only one of these is meaningful, selected by kind.
	i64 int64  // int32, int64, sint32, sint64, sfixed32, sfixed64, enum, bool(0/1)
	u64 uint64 // uint32, uint64, fixed32, fixed64
	f32 float32
	f64 float64
	str string
	raw []byte

	// Composite storage.
	msg []Field
	rep []Value
	mp  []MapEntry
}

// Field pairs a field number with a decoded or to-be-encoded Value.
type Field struct {
	Number int32
	Value  Value
}

// MapEntry is one (key, value) pair of a Value of kind KindMap. Order is
// significant: decode preserves wire order and does not deduplicate by
// key (see DESIGN.md's Open Question decisions); encode preserves input
// order.
type MapEntry struct {
	Key   Value
	Value Value
}

// Kind reports v's discriminant.
func (v Value) Kind() Kind { return v.kind }

// --- constructors ---

func Int32(i int32) Value    { return Value{kind: KindInt32, i64: int64(i)} }
func Int64(i int64) Value    { return Value{kind: KindInt64, i64: i} }
func Uint32(u uint32) Value  { return Value{kind: KindUint32, u64: uint64(u)} }
func Uint64(u uint64) Value  { return Value{kind: KindUint64, u64: u} }
func Sint32(i int32) Value   { return Value{kind: KindSint32, i64: int64(i)} }
func Sint64(i int64) Value   { return Value{kind: KindSint64, i64: i} }
func Bool(b bool) Value {
	var i int64
	if b {
		i = 1
	}
	return Value{kind: KindBool, i64: i}
}
func Enum(i int32) Value       { return Value{kind: KindEnum, i64: int64(i)} }
func Fixed32(u uint32) Value   { return Value{kind: KindFixed32, u64: uint64(u)} }
func Sfixed32(i int32) Value   { return Value{kind: KindSfixed32, i64: int64(i)} }
func Float(f float32) Value    { return Value{kind: KindFloat, f32: f} }
func Fixed64(u uint64) Value   { return Value{kind: KindFixed64, u64: u} }
func Sfixed64(i int64) Value   { return Value{kind: KindSfixed64, i64: i} }
func Double(f float64) Value   { return Value{kind: KindDouble, f64: f} }
func String(s string) Value    { return Value{kind: KindString, str: s} }
func Bytes(b []byte) Value     { return Value{kind: KindBytes, raw: b} }
func Message(fs []Field) Value { return Value{kind: KindMessage, msg: fs} }
func Repeated(vs []Value) Value { return Value{kind: KindRepeated, rep: vs} }
func Map(entries []MapEntry) Value { return Value{kind: KindMap, mp: entries} }

// --- accessors ---
//
// Each returns (value, true) if v.Kind() matches, else (zero, false).

func (v Value) AsInt32() (int32, bool)  { return int32(v.i64), v.kind == KindInt32 }
func (v Value) AsInt64() (int64, bool)  { return v.i64, v.kind == KindInt64 }
func (v Value) AsUint32() (uint32, bool) { return uint32(v.u64), v.kind == KindUint32 }
func (v Value) AsUint64() (uint64, bool) { return v.u64, v.kind == KindUint64 }
func (v Value) AsSint32() (int32, bool)  { return int32(v.i64), v.kind == KindSint32 }
func (v Value) AsSint64() (int64, bool)  { return v.i64, v.kind == KindSint64 }
func (v Value) AsBool() (bool, bool)     { return v.i64 != 0, v.kind == KindBool }
func (v Value) AsEnum() (int32, bool)    { return int32(v.i64), v.kind == KindEnum }
func (v Value) AsFixed32() (uint32, bool) { return uint32(v.u64), v.kind == KindFixed32 }
func (v Value) AsSfixed32() (int32, bool) { return int32(v.i64), v.kind == KindSfixed32 }
func (v Value) AsFloat() (float32, bool)  { return v.f32, v.kind == KindFloat }
func (v Value) AsFixed64() (uint64, bool) { return v.u64, v.kind == KindFixed64 }
func (v Value) AsSfixed64() (int64, bool) { return v.i64, v.kind == KindSfixed64 }
func (v Value) AsDouble() (float64, bool) { return v.f64, v.kind == KindDouble }
func (v Value) AsString() (string, bool)  { return v.str, v.kind == KindString }
func (v Value) AsBytes() ([]byte, bool)   { return v.raw, v.kind == KindBytes }
func (v Value) AsMessage() ([]Field, bool) { return v.msg, v.kind == KindMessage }
func (v Value) AsRepeated() ([]Value, bool) { return v.rep, v.kind == KindRepeated }
func (v Value) AsMap() ([]MapEntry, bool)   { return v.mp, v.kind == KindMap }

// MapLookup returns the value associated with key in a KindMap value,
// using last-occurrence-wins semantics (the order a real proto3 map
// reader would observe), without mutating the stored entry order. The
// second result is false if v is not a map or key has no entry.
func (v Value) MapLookup(key Value) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	var found Value
	ok := false
	for _, e := range v.mp {
		if valuesEqual(e.Key, key) {
			found = e.Value
			ok = true
		}
	}
	return found, ok
}

func valuesEqual(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindInt32, KindInt64, KindSint32, KindSint64, KindSfixed32, KindSfixed64, KindEnum, KindBool:
		return a.i64 == b.i64
	case KindUint32, KindUint64, KindFixed32, KindFixed64:
		return a.u64 == b.u64
	case KindString:
		return a.str == b.str
	case KindBytes:
		if len(a.raw) != len(b.raw) {
			return false
		}
		for i := range a.raw {
			if a.raw[i] != b.raw[i] {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// valueShape (built by shapeOf) is a description of a value's discriminant sufficient to check
// homogeneity recursively: same Kind, and for composite kinds, the same
// shape of every element/field. It does not compare values, only shapes.
type valueShape struct {
	kind Kind
	// for message: field numbers present, each mapped to its own shape
	msgShape map[int32]valueShape
	// for repeated: shape of (any one) element
	elemShape *valueShape
	// for map: shape of key and value
	keyShape, mapValShape *valueShape
}

func shapeOf(v Value) valueShape {
	s := valueShape{kind: v.kind}
	switch v.kind {
	case KindMessage:
		s.msgShape = make(map[int32]valueShape, len(v.msg))
		for _, f := range v.msg {
			s.msgShape[f.Number] = shapeOf(f.Value)
		}
	case KindRepeated:
		if len(v.rep) > 0 {
			es := shapeOf(v.rep[0])
			s.elemShape = &es
		}
	case KindMap:
		if len(v.mp) > 0 {
			ks := shapeOf(v.mp[0].Key)
			vs := shapeOf(v.mp[0].Value)
			s.keyShape = &ks
			s.mapValShape = &vs
		}
	}
	return s
}

func (a valueShape) equal(b valueShape) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindMessage:
		if len(a.msgShape) != len(b.msgShape) {
			return false
		}
		for k, av := range a.msgShape {
			bv, ok := b.msgShape[k]
			if !ok || !av.equal(bv) {
				return false
			}
		}
		return true
	case KindRepeated:
		if (a.elemShape == nil) != (b.elemShape == nil) {
			return false
		}
		if a.elemShape == nil {
			return true
		}
		return a.elemShape.equal(*b.elemShape)
	case KindMap:
		if (a.keyShape == nil) != (b.keyShape == nil) {
			return false
		}
		if a.keyShape == nil {
			return true
		}
		return a.keyShape.equal(*b.keyShape) && a.mapValShape.equal(*b.mapValShape)
	default:
		return true
	}
}

// checkHomogeneousRepeated validates invariant 1 of spec.md §3: a
// Value(repeated) with two or more elements must have all elements of
// identical discriminant and, recursively, identical shape.
func checkHomogeneousRepeated(vs []Value) error {
	if len(vs) < 2 {
		return nil
	}
	first := shapeOf(vs[0])
	for i := 1; i < len(vs); i++ {
		if !first.equal(shapeOf(vs[i])) {
			return errf(KindHeterogeneousRepeated, "repeated element %d has a different shape than element 0 (%v vs %v)", i, vs[i].kind, vs[0].kind)
		}
	}
	return nil
}

func (v Value) String() string {
	switch v.kind {
	case KindInt32:
		return fmt.Sprintf("int32(%d)", int32(v.i64))
	case KindInt64:
		return fmt.Sprintf("int64(%d)", v.i64)
	case KindUint32:
		return fmt.Sprintf("uint32(%d)", uint32(v.u64))
	case KindUint64:
		return fmt.Sprintf("uint64(%d)", v.u64)
	case KindSint32:
		return fmt.Sprintf("sint32(%d)", int32(v.i64))
	case KindSint64:
		return fmt.Sprintf("sint64(%d)", v.i64)
	case KindBool:
		return fmt.Sprintf("bool(%t)", v.i64 != 0)
	case KindEnum:
		return fmt.Sprintf("enum(%d)", int32(v.i64))
	case KindFixed32:
		return fmt.Sprintf("fixed32(%d)", uint32(v.u64))
	case KindSfixed32:
		return fmt.Sprintf("sfixed32(%d)", int32(v.i64))
	case KindFloat:
		return fmt.Sprintf("float(%v)", v.f32)
	case KindFixed64:
		return fmt.Sprintf("fixed64(%d)", v.u64)
	case KindSfixed64:
		return fmt.Sprintf("sfixed64(%d)", v.i64)
	case KindDouble:
		return fmt.Sprintf("double(%v)", v.f64)
	case KindString:
		return fmt.Sprintf("string(%q)", v.str)
	case KindBytes:
		return fmt.Sprintf("bytes(%d bytes)", len(v.raw))
	case KindMessage:
		return fmt.Sprintf("message(%d fields)", len(v.msg))
	case KindRepeated:
		return fmt.Sprintf("repeated(%d elements)", len(v.rep))
	case KindMap:
		return fmt.Sprintf("map(%d entries)", len(v.mp))
	default:
		return "invalid"
	}
}
