package wsc

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
)

// keySchedule holds the three keys WSC's KDF derives from the DH shared
// secret and nonces, plus the intermediate DHKey and KDK kept around only
// long enough to be zeroed.
type keySchedule struct {
	dhKey      secret // SHA-256(Z)
	kdk        secret // HMAC-SHA-256(DHKey, N1 || MAC || N2)
	authKey    secret // 32 bytes
	keyWrapKey secret // 16 bytes
	emsk       secret // 32 bytes
}

// deriveDHKey computes DHKey = SHA-256(Z) for a DH-5 shared secret Z.
// The caller owns zeroing z after the call.
func deriveDHKey(z []byte) secret {
	h := sha256.Sum256(z)
	return secret(h[:])
}

// deriveKDK computes KDK = HMAC-SHA-256(DHKey, N1 || EnrolleeMAC || N2).
func deriveKDK(dhKey secret, n1 [16]byte, mac [6]byte, n2 [16]byte) secret {
	h := hmac.New(sha256.New, dhKey)
	h.Write(n1[:])
	h.Write(mac[:])
	h.Write(n2[:])
	return secret(h.Sum(nil))
}

// kdf is the WSC key-derivation function: NIST SP800-108 counter-mode HMAC
// expansion, labelled "Wi-Fi Simple Configuration" and keyed on the KDK.
// It produces outputLenBits/8 bytes.
func kdf(kdk secret, outputLenBits uint32) []byte {
	const label = "Wi-Fi Simple Configuration"
	var out []byte
	var i uint32 = 1
	for uint32(len(out)*8) < outputLenBits {
		h := hmac.New(sha256.New, kdk)
		var iBuf [4]byte
		binary.BigEndian.PutUint32(iBuf[:], i)
		h.Write(iBuf[:])
		h.Write([]byte(label))
		var lenBuf [4]byte
		binary.BigEndian.PutUint32(lenBuf[:], outputLenBits)
		h.Write(lenBuf[:])
		out = append(out, h.Sum(nil)...)
		i++
	}
	return out[:outputLenBits/8]
}

// deriveKeys expands KDK into AuthKey(32B) || KeyWrapKey(16B) || EMSK(32B),
// 640 bits total.
func deriveKeys(kdk secret) keySchedule {
	expanded := kdf(kdk, 640)
	return keySchedule{
		kdk:        kdk,
		authKey:    secret(append([]byte{}, expanded[0:32]...)),
		keyWrapKey: secret(append([]byte{}, expanded[32:48]...)),
		emsk:       secret(append([]byte{}, expanded[48:80]...)),
	}
}

// zero releases every key derived in this schedule. Callers must call this
// once the schedule (and any MSK exported from EMSK) is no longer needed.
func (k *keySchedule) zero() {
	zeroAll(k.dhKey, k.kdk, k.authKey, k.keyWrapKey, k.emsk)
}

// devicePasswordHalves splits a device password into PSK1/PSK2 source
// halves; odd-length passwords put the extra byte in the first half.
func devicePasswordHalves(password []byte) (p1, p2 []byte) {
	n := len(password)
	split := (n + 1) / 2
	return password[:split], password[split:]
}

// derivePSK computes PSKx = HMAC-SHA-256(AuthKey, passwordHalf)[0:16].
func derivePSK(authKey secret, half []byte) [16]byte {
	h := hmac.New(sha256.New, authKey)
	h.Write(half)
	sum := h.Sum(nil)
	var psk [16]byte
	copy(psk[:], sum[:16])
	return psk
}

// deriveEHash computes EHashX = HMAC-SHA-256(AuthKey, ESNonceX || PSKx ||
// PublicKeyE || PublicKeyR).
func deriveEHash(authKey secret, esNonce [16]byte, psk [16]byte, pkE, pkR []byte) [32]byte {
	h := hmac.New(sha256.New, authKey)
	h.Write(esNonce[:])
	h.Write(psk[:])
	h.Write(pkE)
	h.Write(pkR)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
