package protowire

import "fmt"

// WireType is the 3-bit code in a field tag that selects how the payload
// following the tag is encoded. Codes 3 (WireStartGroup) and 4
// (WireEndGroup) exist in the historical protobuf wire format but are
// deprecated groups; this package rejects them on decode and never
// produces them on encode.
type WireType int8

const (
	// WireVarint is the LEB128 varint encoding used by int32, int64,
	// uint32, uint64, sint32, sint64, bool, and enum.
	WireVarint WireType = 0
	// WireFixed64 is the 8-byte little-endian encoding used by fixed64,
	// sfixed64, and double.
	WireFixed64 WireType = 1
	// WireLengthDelimited is a varint length followed by that many bytes,
	// used by string, bytes, embedded messages, packed repeated fields,
	// and map entries.
	WireLengthDelimited WireType = 2
	// wireStartGroup and wireEndGroup are the deprecated group wire types.
	// They are not exported: this package never produces them, and only
	// needs to recognize them by value to reject them with a clear error.
	wireStartGroup WireType = 3
	wireEndGroup   WireType = 4
	// WireFixed32 is the 4-byte little-endian encoding used by fixed32,
	// sfixed32, and float.
	WireFixed32 WireType = 5
)

func (wt WireType) String() string {
	switch wt {
	case WireVarint:
		return "varint"
	case WireFixed64:
		return "fixed64"
	case WireLengthDelimited:
		return "length-delimited"
	case WireFixed32:
		return "fixed32"
	case wireStartGroup:
		return "start-group"
	case wireEndGroup:
		return "end-group"
	default:
		return fmt.Sprintf("wire-type(%d)", int8(wt))
	}
}

// valid reports whether wt is one of the four wire types this package
// supports. Group wire types and any other value are invalid.
func (wt WireType) valid() bool {
	switch wt {
	case WireVarint, WireFixed64, WireLengthDelimited, WireFixed32:
		return true
	default:
		return false
	}
}

const (
	// MinFieldNumber is the smallest valid protobuf field number.
	MinFieldNumber int32 = 1
	// MaxFieldNumber is the largest valid protobuf field number, 2^29 - 1.
	MaxFieldNumber int32 = 1<<29 - 1
)

// ValidFieldNumber reports whether fn is in the legal field number range
// [1, 2^29-1]. Field numbers 19000-19999 are not treated specially by
// this codec; the wire format itself does not reserve them, only the
// `.proto` compiler does, and `.proto` parsing is out of scope here.
func ValidFieldNumber(fn int32) bool {
	return fn >= MinFieldNumber && fn <= MaxFieldNumber
}

func validateFieldNumber(fn int32) error {
	if !ValidFieldNumber(fn) {
		return errf(KindInvalidFieldNumber, "field number %d out of range [%d, %d]", fn, MinFieldNumber, MaxFieldNumber)
	}
	return nil
}

// makeTag combines a field number and wire type into the varint-encoded
// tag value written at the start of every field on the wire.
func makeTag(fieldNumber int32, wt WireType) uint64 {
	return uint64(fieldNumber)<<3 | uint64(wt&0x7)
}

// splitTag reverses makeTag, recovering the field number and wire type
// from a decoded tag varint.
func splitTag(tag uint64) (fieldNumber int32, wt WireType, err error) {
	wt = WireType(tag & 0x7)
	fn := tag >> 3
	if fn > uint64(MaxFieldNumber) || fn == 0 {
		return 0, 0, errf(KindInvalidFieldNumber, "field number %d out of range [%d, %d]", fn, MinFieldNumber, MaxFieldNumber)
	}
	if !wt.valid() {
		return 0, 0, errf(KindInvalidWireType, "wire type %d is not supported (groups are not supported)", int8(wt))
	}
	return int32(fn), wt, nil
}
