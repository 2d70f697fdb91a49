package wsc

import (
	"bytes"
	"testing"

	"github.com/go-kit/kit/log"
)

func testLogger() log.Logger {
	return log.NewNopLogger()
}

func TestEncryptDecryptSettingsRoundTrip(t *testing.T) {
	keyWrapKey := secret(bytes.Repeat([]byte{0xAA}, 16))
	authKey := secret(bytes.Repeat([]byte{0xBB}, 32))
	plaintext := []byte("E-SNonce1 placeholder attribute bytes")

	wire, err := encryptSettings(testLogger(), keyWrapKey, authKey, plaintext)
	if err != nil {
		t.Fatalf("encryptSettings: %v", err)
	}
	if len(wire) < 16 {
		t.Fatalf("wire too short to contain an IV: %d bytes", len(wire))
	}

	got, err := decryptSettings(testLogger(), keyWrapKey, authKey, wire)
	if err != nil {
		t.Fatalf("decryptSettings: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Errorf("roundtrip mismatch: got %q, want %q", got, plaintext)
	}
}

func TestEncryptDecryptEmptyPlaintext(t *testing.T) {
	keyWrapKey := secret(bytes.Repeat([]byte{0x01}, 16))
	authKey := secret(bytes.Repeat([]byte{0x02}, 32))

	wire, err := encryptSettings(testLogger(), keyWrapKey, authKey, nil)
	if err != nil {
		t.Fatalf("encryptSettings: %v", err)
	}
	got, err := decryptSettings(testLogger(), keyWrapKey, authKey, wire)
	if err != nil {
		t.Fatalf("decryptSettings: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %q, want empty", got)
	}
}

func TestDecryptSettingsRejectsTamperedCiphertext(t *testing.T) {
	keyWrapKey := secret(bytes.Repeat([]byte{0xAA}, 16))
	authKey := secret(bytes.Repeat([]byte{0xBB}, 32))
	wire, err := encryptSettings(testLogger(), keyWrapKey, authKey, []byte("settings"))
	if err != nil {
		t.Fatalf("encryptSettings: %v", err)
	}
	wire[len(wire)-1] ^= 0xFF

	if _, err := decryptSettings(testLogger(), keyWrapKey, authKey, wire); err == nil {
		t.Fatal("expected decryption to fail on tampered ciphertext")
	}
}

func TestPKCSPadUnpadRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 15, 16, 17, 31, 32} {
		b := bytes.Repeat([]byte{0x42}, n)
		padded := pkcsPad(b, 16)
		if len(padded)%16 != 0 {
			t.Fatalf("padded length %d not a multiple of 16 for n=%d", len(padded), n)
		}
		unpadded, err := pkcsUnpad(padded)
		if err != nil {
			t.Fatalf("pkcsUnpad(n=%d): %v", n, err)
		}
		if !bytes.Equal(unpadded, b) {
			t.Errorf("n=%d: got %x, want %x", n, unpadded, b)
		}
	}
}

func TestPKCSUnpadRejectsBadPadding(t *testing.T) {
	bad := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 0x00}
	if _, err := pkcsUnpad(bad); err == nil {
		t.Fatal("expected error for zero pad length")
	}

	inconsistent := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 0x00, 0x02}
	if _, err := pkcsUnpad(inconsistent); err == nil {
		t.Fatal("expected error for inconsistent pad bytes")
	}
}
