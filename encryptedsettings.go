package wsc

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"io"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/pkg/errors"
	"github.com/wlan-go/eap-wsc/protocol"
)

// ErrBadPadding is returned when decrypted Encrypted Settings data has an
// invalid PKCS-style pad-length byte.
var ErrBadPadding = errors.New("encrypted settings: bad padding")

// ErrKeyWrapAuthFailure is returned when a decrypted Encrypted Settings
// plaintext's KeyWrapAuthenticator does not verify.
var ErrKeyWrapAuthFailure = errors.New("encrypted settings: key wrap authenticator mismatch")

// encryptSettings builds the Encrypted Settings attribute value: a
// randomly generated 16-byte IV prepended to AES-CBC-128 ciphertext of
// (plaintext || KeyWrapAuthenticator TLV), padded with WSC's
// pad-length-byte scheme (1..16 padding bytes are appended, each holding
// the number of padding bytes, so the last byte states the count; a full
// block of 16 is appended when the input is already block-aligned).
func encryptSettings(logger log.Logger, keyWrapKey secret, authKey secret, plaintext []byte) ([]byte, error) {
	kwa := keyWrapAuthenticator(authKey, plaintext)
	full := append(append([]byte{}, plaintext...), encodeKeyWrapAuthenticator(kwa)...)
	padded := pkcsPad(full, aes.BlockSize)

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, errors.Wrap(err, "encrypted settings iv")
	}

	block, err := aes.NewCipher(keyWrapKey)
	if err != nil {
		return nil, errors.Wrap(err, "encrypted settings cipher init")
	}
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	if logger != nil {
		level.Debug(logger).Log("msg", "encrypted settings",
			"iv", hex.EncodeToString(iv),
			"plaintext_len", len(plaintext),
			"ciphertext_len", len(ciphertext))
	}

	return append(iv, ciphertext...), nil
}

// decryptSettings reverses encryptSettings and verifies the embedded
// KeyWrapAuthenticator, returning the plaintext settings attributes with
// the KeyWrapAuthenticator TLV stripped off.
func decryptSettings(logger log.Logger, keyWrapKey secret, authKey secret, wire []byte) ([]byte, error) {
	if len(wire) < aes.BlockSize || (len(wire)-aes.BlockSize)%aes.BlockSize != 0 {
		return nil, errors.Wrap(ErrBadPadding, "encrypted settings length")
	}
	iv, ciphertext := wire[:aes.BlockSize], wire[aes.BlockSize:]

	block, err := aes.NewCipher(keyWrapKey)
	if err != nil {
		return nil, errors.Wrap(err, "encrypted settings cipher init")
	}
	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)

	full, err := pkcsUnpad(padded)
	if err != nil {
		return nil, err
	}

	if logger != nil {
		level.Debug(logger).Log("msg", "decrypted settings",
			"iv", hex.EncodeToString(iv),
			"plaintext_len", len(full))
	}

	if len(full) < 12 {
		return nil, errors.Wrap(ErrBadPadding, "encrypted settings too short for key wrap authenticator")
	}
	plaintext := protocol.WithoutLast12(full)
	var got [8]byte
	copy(got[:], full[len(full)-8:])
	if !verifyKeyWrapAuthenticator(authKey, plaintext, got) {
		return nil, ErrKeyWrapAuthFailure
	}
	return plaintext, nil
}

// encodeKeyWrapAuthenticator wraps a computed value in its TLV header
// (attribute 0x101E, length 8, per WSC 2.0.5 table 29).
func encodeKeyWrapAuthenticator(v [8]byte) []byte {
	hdr := []byte{0x10, 0x1E, 0x00, 0x08}
	return append(hdr, v[:]...)
}

func pkcsPad(b []byte, blockSize int) []byte {
	padLen := blockSize - len(b)%blockSize
	pad := make([]byte, padLen)
	for i := range pad {
		pad[i] = byte(padLen)
	}
	return append(b, pad...)
}

func pkcsUnpad(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, errors.Wrap(ErrBadPadding, "empty")
	}
	padLen := int(b[len(b)-1])
	if padLen == 0 || padLen > len(b) || padLen > aes.BlockSize {
		return nil, errors.Wrap(ErrBadPadding, "pad length out of range")
	}
	for _, c := range b[len(b)-padLen:] {
		if int(c) != padLen {
			return nil, errors.Wrap(ErrBadPadding, "pad bytes mismatch")
		}
	}
	return b[:len(b)-padLen], nil
}
