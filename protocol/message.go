package protocol

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Message is the tagged variant for every WSC message this Enrollee sends
// or receives.
// Attrs holds every top-level attribute exactly as received, in arrival
// order; typed accessors below decode the ones this Enrollee cares about.
type Message struct {
	Type  MessageType
	Attrs []RawAttr
}

// RawAttr is one undecoded Type+Value pair.
type RawAttr struct {
	Type  AttributeType
	Value []byte
}

// Get returns the first attribute of the given type, or (nil, false).
func (m *Message) Get(t AttributeType) ([]byte, bool) {
	for _, a := range m.Attrs {
		if a.Type == t {
			return a.Value, true
		}
	}
	return nil, false
}

// GetAll returns every attribute of the given type, in arrival order.
func (m *Message) GetAll(t AttributeType) [][]byte {
	var out [][]byte
	for _, a := range m.Attrs {
		if a.Type == t {
			out = append(out, a.Value)
		}
	}
	return out
}

// Set appends or replaces the first attribute of type t.
func (m *Message) Set(t AttributeType, value []byte) {
	for i, a := range m.Attrs {
		if a.Type == t {
			m.Attrs[i].Value = value
			return
		}
	}
	m.Attrs = append(m.Attrs, RawAttr{Type: t, Value: value})
}

// DecodeMessage parses the attribute list of a WSC_MSG body (the part
// after any EAP-WSC op/flags header has already been stripped by the
// caller) and classifies its MessageType from the mandatory MessageType
// attribute.
func DecodeMessage(b []byte) (*Message, error) {
	m := &Message{}
	for len(b) > 0 {
		t, v, used, err := decodeAttribute(b)
		if err != nil {
			return nil, errors.Wrap(err, "decode message")
		}
		m.Attrs = append(m.Attrs, RawAttr{Type: t, Value: append([]byte{}, v...)})
		b = b[used:]
	}
	mt, ok := m.Get(AttrMessageType)
	if !ok || len(mt) != 1 {
		return nil, errors.Wrap(ErrParse, "missing Message Type attribute")
	}
	m.Type = MessageType(mt[0])
	return m, nil
}

// Encode serializes the attribute list in Attrs order. The caller is
// responsible for attribute ordering that matches what Authenticator /
// KeyWrapAuthenticator computations were made over (WSC is order-sensitive
// only in that the trailing Authenticator/KeyWrapAuthenticator TLV must be
// last, which builders enforce by appending it last).
func (m *Message) Encode() []byte {
	var b []byte
	for _, a := range m.Attrs {
		b = append(b, encodeAttribute(a.Type, a.Value)...)
	}
	return b
}

// WithoutLast8 returns b with its trailing 8 bytes stripped: the
// Authenticator attribute's value, but not its 4-byte TLV header. The
// Authenticator chain's HMAC input is defined over the message bytes
// with just that value removed.
func WithoutLast8(b []byte) []byte {
	if len(b) < 8 {
		return b
	}
	return b[:len(b)-8]
}

// WithoutLast12 strips the trailing KeyWrapAuthenticator TLV in full
// (4-byte attribute header + 8-byte value = 12 bytes) from an Encrypted
// Settings plaintext before computing the keyed HMAC that authenticates it.
// Unlike the outer Authenticator (WithoutLast8, which keeps its TLV
// header in the HMAC input), the KeyWrapAuthenticator's own header is
// excluded too.
func WithoutLast12(b []byte) []byte {
	if len(b) < 12 {
		return b
	}
	return b[:len(b)-12]
}

// simple big-endian helpers used by typed attribute encoders elsewhere in
// this package, kept here to avoid importing encoding/binary in every file.
var be = binary.BigEndian
