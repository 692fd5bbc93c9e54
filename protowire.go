// Package protowire implements a Protocol Buffers wire-format codec: it
// converts between a structured in-memory representation of protobuf
// messages (Value/Field) and the binary wire encoding defined by Google's
// Protocol Buffers specification, under proto3 semantics. Deprecated
// group wire types (3 and 4) are rejected on decode and never produced on
// encode.
//
// Schemas are supplied by the caller as an in-memory []FieldType; this
// package does not parse `.proto` source or generate code. A caller that
// only wants schemaless inspection of wire bytes can use DecodeRawFields
// directly; a caller with a schema uses ToBytes/FromBytes or the
// DecodeTyped/Encode pair that back them.
//
// The package performs no I/O beyond consuming the io.Reader and
// io.Writer the caller supplies, does no internal concurrency, and holds
// no package-level mutable state: every call's resources (staging
// buffers, accumulators) are scoped to that call.
package protowire

import (
	"io"
)

// ToBytes serializes fields and returns the result as a newly allocated
// byte slice. It is the to_bytes entry point of spec.md §4.8.
func ToBytes(fields []Field, opts ...Option) ([]byte, error) {
	return Encode(fields, opts...)
}

// ToBytesInto serializes fields into sink, returning the number of bytes
// written. It is the to_bytes_into_sink entry point of spec.md §4.8.
func ToBytesInto(sink io.Writer, fields []Field, opts ...Option) (int, error) {
	return EncodeInto(sink, fields, opts...)
}

// FromRawBytes parses source into a schemaless sequence of RawField
// values. It is the from_raw_bytes entry point of spec.md §4.8, and is
// C4 with no typed interpretation layered on top.
func FromRawBytes(source io.Reader, opts ...Option) ([]RawField, error) {
	return DecodeRawFields(source, opts...)
}

// FromBytes parses source and interprets it against schema, returning
// typed fields in schema declaration order. It is the from_bytes entry
// point of spec.md §4.8, composing C4 and C5.
func FromBytes(source io.Reader, schema []FieldType, opts ...Option) ([]Field, error) {
	raw, err := DecodeRawFields(source, opts...)
	if err != nil {
		return nil, err
	}
	return DecodeTyped(raw, schema, opts...)
}
