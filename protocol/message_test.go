package protocol

import (
	"bytes"
	"testing"
)

func buildTestM1() *Message {
	m := &Message{Type: MessageTypeM1}
	m.Set(AttrVersion, []byte{0x20})
	m.Set(AttrMessageType, []byte{byte(MessageTypeM1)})
	m.Set(AttrEnrolleeNonce, bytes.Repeat([]byte{0x11}, 16))
	return m
}

func TestDecodeMessageRoundTrip(t *testing.T) {
	m := buildTestM1()
	wire := m.Encode()

	decoded, err := DecodeMessage(wire)
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	if decoded.Type != MessageTypeM1 {
		t.Errorf("Type = %s, want M1", decoded.Type)
	}
	nonce, ok := decoded.Get(AttrEnrolleeNonce)
	if !ok {
		t.Fatal("missing EnrolleeNonce")
	}
	if !bytes.Equal(nonce, bytes.Repeat([]byte{0x11}, 16)) {
		t.Errorf("nonce mismatch: %x", nonce)
	}
}

func TestDecodeMessageMissingMessageType(t *testing.T) {
	m := &Message{}
	m.Set(AttrVersion, []byte{0x20})
	if _, err := DecodeMessage(m.Encode()); err == nil {
		t.Fatal("expected error for missing MessageType attribute")
	}
}

func TestGetAllMultipleCredentials(t *testing.T) {
	m := &Message{}
	m.Attrs = append(m.Attrs,
		RawAttr{Type: AttrCredential, Value: []byte("first")},
		RawAttr{Type: AttrCredential, Value: []byte("second")},
	)
	all := m.GetAll(AttrCredential)
	if len(all) != 2 {
		t.Fatalf("got %d credentials, want 2", len(all))
	}
	if string(all[0]) != "first" || string(all[1]) != "second" {
		t.Errorf("unexpected order: %q, %q", all[0], all[1])
	}
}

func TestWithoutLast8(t *testing.T) {
	b := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	got := WithoutLast8(b)
	want := []byte{1, 2}
	if !bytes.Equal(got, want) {
		t.Errorf("WithoutLast8 = %v, want %v", got, want)
	}
	if got := WithoutLast8([]byte{1, 2}); len(got) != 2 {
		t.Errorf("WithoutLast8 of short input should be unchanged, got %v", got)
	}
}

func TestWithoutLast12(t *testing.T) {
	b := make([]byte, 20)
	for i := range b {
		b[i] = byte(i)
	}
	got := WithoutLast12(b)
	if len(got) != 8 {
		t.Fatalf("len(got) = %d, want 8", len(got))
	}
	if !bytes.Equal(got, b[:8]) {
		t.Errorf("WithoutLast12 = %v, want %v", got, b[:8])
	}
}
