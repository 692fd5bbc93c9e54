package protowire

// ValueType mirrors Value but carries only type tags: it describes the
// shape a field's value must have, without holding any data. A schema is
// a []FieldType; ValueType is the type half of FieldType.
type ValueType struct {
	kind Kind

	// For KindMessage: the nested schema.
	message []FieldType
	// For KindRepeated: the element type.
	elem *ValueType
	// For KindMap: the key and value types. Map keys must be a
	// self-contained scalar type or string/bytes (see ValidMapKey);
	// ValidateSchema checks this. MapType itself and the decode/encode
	// paths do not.
	mapKey, mapValue *ValueType
}

// FieldType pairs a field number with the ValueType declared for it. A
// schema is a []FieldType; field numbers within one schema must be
// unique (spec.md §3 invariant 4) — duplicates on the wire are merging
// events, not schema errors, so this is only checked at schema
// construction time via ValidateSchema.
type FieldType struct {
	Number int32
	Type   ValueType
}

// Kind reports t's discriminant.
func (t ValueType) Kind() Kind { return t.kind }

// Message returns t's nested schema if t.Kind() == KindMessage.
func (t ValueType) Message() ([]FieldType, bool) {
	return t.message, t.kind == KindMessage
}

// Elem returns t's repeated element type if t.Kind() == KindRepeated.
func (t ValueType) Elem() (ValueType, bool) {
	if t.kind != KindRepeated || t.elem == nil {
		return ValueType{}, false
	}
	return *t.elem, true
}

// MapKeyValue returns t's key and value types if t.Kind() == KindMap.
func (t ValueType) MapKeyValue() (key, val ValueType, ok bool) {
	if t.kind != KindMap || t.mapKey == nil || t.mapValue == nil {
		return ValueType{}, ValueType{}, false
	}
	return *t.mapKey, *t.mapValue, true
}

// Scalar type constructors, one per non-composite Kind.
func scalarType(k Kind) ValueType { return ValueType{kind: k} }

var (
	TypeInt32    = scalarType(KindInt32)
	TypeInt64    = scalarType(KindInt64)
	TypeUint32   = scalarType(KindUint32)
	TypeUint64   = scalarType(KindUint64)
	TypeSint32   = scalarType(KindSint32)
	TypeSint64   = scalarType(KindSint64)
	TypeBool     = scalarType(KindBool)
	TypeEnum     = scalarType(KindEnum)
	TypeFixed32  = scalarType(KindFixed32)
	TypeSfixed32 = scalarType(KindSfixed32)
	TypeFloat    = scalarType(KindFloat)
	TypeFixed64  = scalarType(KindFixed64)
	TypeSfixed64 = scalarType(KindSfixed64)
	TypeDouble   = scalarType(KindDouble)
	TypeString   = scalarType(KindString)
	TypeBytes    = scalarType(KindBytes)
)

// MessageType builds a ValueType for a nested message with the given
// field schema.
func MessageType(fields []FieldType) ValueType {
	return ValueType{kind: KindMessage, message: fields}
}

// RepeatedType builds a ValueType for a repeated field of the given
// element type. The element type must not itself be KindRepeated or
// KindMap (protobuf has no repeated-of-repeated or repeated-of-map;
// model a repeated message field whose message contains a repeated
// field instead).
func RepeatedType(elem ValueType) ValueType {
	e := elem
	return ValueType{kind: KindRepeated, elem: &e}
}

// MapType builds a ValueType for a map field. key must be a
// self-contained scalar type or string/bytes, matching proto3's
// restriction on map key types (ValidMapKey reports whether a given
// ValueType qualifies).
func MapType(key, val ValueType) ValueType {
	k, v := key, val
	return ValueType{kind: KindMap, mapKey: &k, mapValue: &v}
}

// ValidMapKey reports whether t is a legal map key type: a self-contained
// scalar (but not float/double, which protobuf also disallows as map
// keys) or string/bytes.
func ValidMapKey(t ValueType) bool {
	switch t.kind {
	case KindInt32, KindInt64, KindUint32, KindUint64, KindSint32, KindSint64,
		KindSfixed32, KindSfixed64, KindFixed32, KindFixed64, KindBool, KindEnum,
		KindString, KindBytes:
		return true
	default:
		return false
	}
}

// ValidateSchema checks that a schema's field numbers are unique and in
// range, and that every ValueType within it (recursively, through nested
// messages, repeated elements, and map key/value types) is well-formed:
// map keys are a legal key type, and message/repeated/map ValueTypes
// carry the nested data their kind requires.
func ValidateSchema(schema []FieldType) error {
	seen := make(map[int32]bool, len(schema))
	for _, ft := range schema {
		if err := validateFieldNumber(ft.Number); err != nil {
			return err
		}
		if seen[ft.Number] {
			return errf(KindInvalidArgument, "duplicate field number %d in schema", ft.Number)
		}
		seen[ft.Number] = true
		if err := validateValueType(ft.Type); err != nil {
			return withField(ft.Number, err)
		}
	}
	return nil
}

func validateValueType(t ValueType) error {
	switch t.kind {
	case KindMessage:
		return ValidateSchema(t.message)
	case KindRepeated:
		if t.elem == nil {
			return errf(KindInvalidArgument, "repeated type missing element type")
		}
		if t.elem.kind == KindRepeated || t.elem.kind == KindMap {
			return errf(KindInvalidArgument, "repeated element type cannot itself be repeated or map")
		}
		return validateValueType(*t.elem)
	case KindMap:
		if t.mapKey == nil || t.mapValue == nil {
			return errf(KindInvalidArgument, "map type missing key or value type")
		}
		if !ValidMapKey(*t.mapKey) {
			return errf(KindInvalidArgument, "map key type %v is not a legal proto3 map key", t.mapKey.kind)
		}
		return validateValueType(*t.mapValue)
	case KindInvalid:
		return errf(KindInvalidArgument, "invalid (zero) value type")
	default:
		return nil
	}
}

// findFieldType looks up fieldNumber in schema, returning (type, true) if
// present.
func findFieldType(schema []FieldType, fieldNumber int32) (ValueType, bool) {
	for _, ft := range schema {
		if ft.Number == fieldNumber {
			return ft.Type, true
		}
	}
	return ValueType{}, false
}
