package wsc

import (
	"bytes"
	"testing"
)

func TestAuthChainVerifiesOwnOutput(t *testing.T) {
	authKey := secret(bytes.Repeat([]byte{0x55}, 32))
	m1 := []byte("m1-bytes")
	chain := newAuthChain(authKey, m1)

	current := append([]byte("m2-body"), make([]byte, 8)...) // placeholder Authenticator value
	authVal := chain.authenticator(current)

	verifier := newAuthChain(authKey, m1)
	if !verifier.verify(current, authVal) {
		t.Fatal("authenticator did not verify against its own output")
	}
}

func TestAuthChainRejectsTamperedMessage(t *testing.T) {
	authKey := secret(bytes.Repeat([]byte{0x55}, 32))
	m1 := []byte("m1-bytes")
	chain := newAuthChain(authKey, m1)

	current := append([]byte("m2-body"), make([]byte, 8)...)
	authVal := chain.authenticator(current)

	tampered := append([]byte("m2-BODY"), make([]byte, 8)...)
	verifier := newAuthChain(authKey, m1)
	if verifier.verify(tampered, authVal) {
		t.Fatal("authenticator verified a tampered message")
	}
}

func TestAuthChainAdvanceChangesNextAuthenticator(t *testing.T) {
	authKey := secret(bytes.Repeat([]byte{0x55}, 32))
	chain := newAuthChain(authKey, []byte("m1"))

	first := append([]byte("m2"), make([]byte, 8)...)
	chain.authenticator(first)
	chain.advance(first)

	second := append([]byte("m4"), make([]byte, 8)...)
	a2 := chain.authenticator(second)

	freshChain := newAuthChain(authKey, []byte("m1"))
	a2WithoutAdvance := freshChain.authenticator(second)
	if a2 == a2WithoutAdvance {
		t.Fatal("advancing the chain should change the next authenticator value")
	}
}

func TestKeyWrapAuthenticatorRoundTrip(t *testing.T) {
	authKey := secret(bytes.Repeat([]byte{0x77}, 32))
	settings := []byte("E-SNonce1 goes here")

	kwa := keyWrapAuthenticator(authKey, settings)
	if !verifyKeyWrapAuthenticator(authKey, settings, kwa) {
		t.Fatal("key wrap authenticator did not verify")
	}

	var bad [8]byte
	copy(bad[:], kwa[:])
	bad[0] ^= 0xFF
	if verifyKeyWrapAuthenticator(authKey, settings, bad) {
		t.Fatal("key wrap authenticator verified with a corrupted value")
	}
}
