package protowire

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrorKind identifies the category of a decode or encode failure. It lets
// callers recover the failure class with errors.As without string
// matching on Error messages.
type ErrorKind int

const (
	// KindInvalidFieldNumber: a field number outside [1, 2^29-1].
	KindInvalidFieldNumber ErrorKind = iota + 1
	// KindInvalidWireType: a wire code not in {0, 1, 2, 5}.
	KindInvalidWireType
	// KindTruncatedInput: the stream ended mid-tag, mid-varint, or mid-payload.
	KindTruncatedInput
	// KindVarintTooLong: 10 bytes were read without a terminating byte.
	KindVarintTooLong
	// KindVarintOutOfRange: a decoded varint exceeds the declared type's range.
	KindVarintOutOfRange
	// KindInvalidUTF8: a string field's payload is not valid UTF-8.
	KindInvalidUTF8
	// KindInvalidBool: a bool field's payload is neither 0 nor 1.
	KindInvalidBool
	// KindSchemaMismatch: a field number on the wire has no schema entry.
	KindSchemaMismatch
	// KindInvalidMapEntry: a map entry submessage has other than {1: key, 2: value}.
	KindInvalidMapEntry
	// KindMergeTypeConflict: the same field number appears with incompatible shapes.
	KindMergeTypeConflict
	// KindHeterogeneousRepeated: a repeated value's elements differ in shape.
	KindHeterogeneousRepeated
	// KindWireValueMismatch: a value discriminant has no wire-type mapping.
	KindWireValueMismatch
	// KindDepthExceeded: nested-message recursion exceeded the configured limit.
	KindDepthExceeded
	// KindLengthExceeded: a length prefix exceeded the configured maximum.
	KindLengthExceeded
	// KindInvalidArgument: a public function was given an out-of-range input directly.
	KindInvalidArgument
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidFieldNumber:
		return "invalid field number"
	case KindInvalidWireType:
		return "invalid wire type"
	case KindTruncatedInput:
		return "truncated input"
	case KindVarintTooLong:
		return "varint too long"
	case KindVarintOutOfRange:
		return "varint out of range"
	case KindInvalidUTF8:
		return "invalid utf-8"
	case KindInvalidBool:
		return "invalid bool"
	case KindSchemaMismatch:
		return "schema mismatch"
	case KindInvalidMapEntry:
		return "invalid map entry"
	case KindMergeTypeConflict:
		return "merge type conflict"
	case KindHeterogeneousRepeated:
		return "heterogeneous repeated"
	case KindWireValueMismatch:
		return "wire value mismatch"
	case KindDepthExceeded:
		return "depth exceeded"
	case KindLengthExceeded:
		return "length exceeded"
	case KindInvalidArgument:
		return "invalid argument"
	default:
		return "unknown error kind"
	}
}

// Error is returned by every decode/encode entry point in this package.
// It never results from a panic for well-formed inputs to the public API.
type Error struct {
	Kind ErrorKind
	// Path is the chain of field numbers from the outermost message down
	// to the field where the error occurred, innermost last.
	Path []int32
	// Msg is a short, kind-specific description.
	Msg string
	// Err, if non-nil, is the underlying error this one wraps.
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	if len(e.Path) > 0 {
		parts := make([]string, len(e.Path))
		for i, fn := range e.Path {
			parts[i] = "field " + strconv.Itoa(int(fn))
		}
		b.WriteString("at ")
		b.WriteString(strings.Join(parts, " -> "))
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, so callers
// can write errors.Is(err, &protowire.Error{Kind: protowire.KindTruncatedInput}).
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return other.Kind == e.Kind
	}
	return false
}

func newErr(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func wrapErr(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// withField prepends fieldNumber to err's path if err is a *Error,
// otherwise wraps it fresh. Used as decode/encode recursion unwinds so the
// final error carries a full field-number path from outermost to
// innermost.
func withField(fieldNumber int32, err error) error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		cp := *pe
		cp.Path = append([]int32{fieldNumber}, pe.Path...)
		return &cp
	}
	return &Error{Kind: KindInvalidArgument, Path: []int32{fieldNumber}, Err: err}
}

func errf(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
