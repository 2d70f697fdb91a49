package protocol

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeAttributeRoundTrip(t *testing.T) {
	cases := []struct {
		name  string
		attr  AttributeType
		value []byte
	}{
		{"version", AttrVersion, []byte{0x20}},
		{"enrollee_nonce", AttrEnrolleeNonce, bytes.Repeat([]byte{0xAB}, 16)},
		{"empty_value", AttrConnectionType, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			wire := encodeAttribute(c.attr, c.value)
			if len(wire) != AttributeHeaderLen+len(c.value) {
				t.Fatalf("encoded length = %d, want %d", len(wire), AttributeHeaderLen+len(c.value))
			}
			gotType, gotValue, used, err := decodeAttribute(wire)
			if err != nil {
				t.Fatalf("decodeAttribute: %v", err)
			}
			if gotType != c.attr {
				t.Errorf("type = %#04x, want %#04x", uint16(gotType), uint16(c.attr))
			}
			if !bytes.Equal(gotValue, c.value) {
				t.Errorf("value = %x, want %x", gotValue, c.value)
			}
			if used != len(wire) {
				t.Errorf("used = %d, want %d", used, len(wire))
			}
		})
	}
}

func TestDecodeAttributeShortHeader(t *testing.T) {
	if _, _, _, err := decodeAttribute([]byte{0x10}); err == nil {
		t.Fatal("expected error for short header")
	}
}

func TestDecodeAttributeShortValue(t *testing.T) {
	// claims a 4-byte value but only supplies 1.
	wire := []byte{0x10, 0x22, 0x00, 0x04, 0xFF}
	if _, _, _, err := decodeAttribute(wire); err == nil {
		t.Fatal("expected error for truncated value")
	}
}
