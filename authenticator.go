package wsc

import (
	"crypto/hmac"
	"crypto/sha256"

	"github.com/wlan-go/eap-wsc/protocol"
)

// authChain tracks the running Authenticator computation across a WSC
// exchange. Each message's Authenticator is HMAC-SHA-256 over the
// previous message's raw bytes followed by the current message's raw
// bytes with its own trailing Authenticator value stripped, truncated to
// 8 bytes. M1 has no predecessor; the chain starts there.
type authChain struct {
	authKey secret
	prev    []byte
}

func newAuthChain(authKey secret, m1 []byte) *authChain {
	return &authChain{authKey: authKey, prev: append([]byte{}, m1...)}
}

// authenticator computes the 8-byte Authenticator value for `current`
// (already encoded with a zero-value Authenticator attribute in place, or
// no Authenticator attribute at all). It does not advance the chain; call
// advance for that.
func (c *authChain) authenticator(current []byte) [8]byte {
	h := hmac.New(sha256.New, c.authKey)
	h.Write(c.prev)
	h.Write(protocol.WithoutLast8(current))
	sum := h.Sum(nil)
	var out [8]byte
	copy(out[:], sum[:8])
	return out
}

// advance records `current` (with its real Authenticator value now filled
// in) as the new predecessor for the next computation.
func (c *authChain) advance(current []byte) {
	c.prev = append([]byte{}, current...)
}

// verify checks an inbound message's Authenticator attribute value against
// the expected chain value, in constant time.
func (c *authChain) verify(current []byte, got [8]byte) bool {
	want := c.authenticator(current)
	return hmac.Equal(want[:], got[:])
}

// keyWrapAuthenticator computes the 8-byte KeyWrapAuthenticator for an
// Encrypted Settings plaintext: HMAC-SHA-256(AuthKey,
// plaintext_without_last_12)[0:8]. settings must already have the
// trailing KeyWrapAuthenticator TLV excluded; callers decrypting a full
// blob should strip it with protocol.WithoutLast12 first.
func keyWrapAuthenticator(authKey secret, settings []byte) [8]byte {
	h := hmac.New(sha256.New, authKey)
	h.Write(settings)
	sum := h.Sum(nil)
	var out [8]byte
	copy(out[:], sum[:8])
	return out
}

// verifyKeyWrapAuthenticator checks a decrypted Encrypted Settings
// plaintext's trailing KeyWrapAuthenticator TLV value.
func verifyKeyWrapAuthenticator(authKey secret, settings []byte, got [8]byte) bool {
	want := keyWrapAuthenticator(authKey, settings)
	return hmac.Equal(want[:], got[:])
}
