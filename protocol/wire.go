// Package protocol implements the WSC 2.0.5 wire format: attribute (TLV)
// encoding, message type and op-code constants, and the tagged Message
// envelope shared by M1..M8, NACK, ACK and DONE.
package protocol

import "github.com/pkg/errors"

// ErrShort is returned by any decode that runs off the end of its input.
var ErrShort = errors.New("wsc: buffer too short")

func readU8(b []byte, off int) (uint8, error) {
	if off+1 > len(b) {
		return 0, ErrShort
	}
	return b[off], nil
}

func readU16(b []byte, off int) (uint16, error) {
	if off+2 > len(b) {
		return 0, ErrShort
	}
	return uint16(b[off])<<8 | uint16(b[off+1]), nil
}

func readU32(b []byte, off int) (uint32, error) {
	if off+4 > len(b) {
		return 0, ErrShort
	}
	return uint32(b[off])<<24 | uint32(b[off+1])<<16 | uint32(b[off+2])<<8 | uint32(b[off+3]), nil
}

func writeU8(b []byte, off int, v uint8) {
	b[off] = v
}

func writeU16(b []byte, off int, v uint16) {
	b[off] = byte(v >> 8)
	b[off+1] = byte(v)
}

func writeU32(b []byte, off int, v uint32) {
	b[off] = byte(v >> 24)
	b[off+1] = byte(v >> 16)
	b[off+2] = byte(v >> 8)
	b[off+3] = byte(v)
}

// AttributeHeaderLen is the length, in bytes, of a WSC attribute's
// Type+Length header (2 bytes each, big-endian; see WSC 2.0.5 §11).
const AttributeHeaderLen = 4

// encodeAttribute prepends a Type+Length header to value and returns the
// whole TLV.
func encodeAttribute(t AttributeType, value []byte) []byte {
	b := make([]byte, AttributeHeaderLen+len(value))
	writeU16(b, 0, uint16(t))
	writeU16(b, 2, uint16(len(value)))
	copy(b[AttributeHeaderLen:], value)
	return b
}

// EncodeAttribute builds a single attribute TLV. Used by callers
// constructing a one-attribute Encrypted Settings plaintext (a revealed
// nonce) without going through the full Message builder.
func EncodeAttribute(t AttributeType, value []byte) []byte {
	return encodeAttribute(t, value)
}

// DecodeAttribute reads one TLV from the front of b, mirroring
// EncodeAttribute.
func DecodeAttribute(b []byte) (t AttributeType, value []byte, used int, err error) {
	return decodeAttribute(b)
}

// decodeAttribute reads one TLV from the front of b and returns its type,
// value, and the number of bytes consumed.
func decodeAttribute(b []byte) (t AttributeType, value []byte, used int, err error) {
	if len(b) < AttributeHeaderLen {
		return 0, nil, 0, errors.Wrap(ErrShort, "attribute header")
	}
	tv, _ := readU16(b, 0)
	l, _ := readU16(b, 2)
	t = AttributeType(tv)
	used = AttributeHeaderLen + int(l)
	if used > len(b) {
		return 0, nil, 0, errors.Wrapf(ErrShort, "attribute %s value (want %d have %d)", t, l, len(b)-AttributeHeaderLen)
	}
	value = b[AttributeHeaderLen:used]
	return
}
