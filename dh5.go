package wsc

import (
	"io"
	"math/big"

	"github.com/pkg/errors"
)

// group5 is the RFC 3526 1536-bit MODP group (IANA group 5), the only DH
// group WSC 2.0.5 permits for the Enrollee/Registrar key exchange.
// These are module-scoped immutable values, created once and never
// mutated, rather than process-wide mutable globals.
type dh5Group struct {
	prime     *big.Int
	generator *big.Int
}

var group5 = newGroup5()

func newGroup5() *dh5Group {
	p, ok := new(big.Int).SetString(rfc3526Group5Hex, 16)
	if !ok {
		panic("wsc: invalid RFC 3526 group 5 prime literal")
	}
	return &dh5Group{prime: p, generator: big.NewInt(2)}
}

// PublicKeyLen is the fixed wire size of a DH-5 public key: WSC pads the
// value to the full 192-byte modulus width on the wire.
const PublicKeyLen = 192

// private generates a DH-5 private key. WSC does not mandate a minimum
// exponent size beyond "large enough to prevent small-subgroup attacks";
// this module follows the conservative RFC 3526 recommendation of
// generating a private exponent as wide as the modulus.
func (g *dh5Group) private(rnd io.Reader) (*big.Int, error) {
	// avoid 0 and 1
	for {
		b := make([]byte, PublicKeyLen)
		if _, err := io.ReadFull(rnd, b); err != nil {
			return nil, errors.Wrap(err, "dh5 private key")
		}
		x := new(big.Int).SetBytes(b)
		if x.Cmp(big.NewInt(1)) > 0 && x.Cmp(g.prime) < 0 {
			return x, nil
		}
	}
}

// public computes g^x mod p, left-padded to PublicKeyLen bytes by the
// caller via fixedWidth.
func (g *dh5Group) public(private *big.Int) *big.Int {
	return new(big.Int).Exp(g.generator, private, g.prime)
}

// sharedSecret computes theirPublic^ourPrivate mod p, the DH-5 shared
// secret Z that feeds DHKey = SHA-256(Z).
func (g *dh5Group) sharedSecret(theirPublic, ourPrivate *big.Int) *big.Int {
	return new(big.Int).Exp(theirPublic, ourPrivate, g.prime)
}

// fixedWidth left-pads (or, in the pathological case of a value wider
// than n bytes, truncates from the left; the values this module passes
// in are reduced mod p and never that wide) a big.Int's big-endian bytes to exactly n bytes, the
// wire width WSC TLVs require for public keys and the shared secret.
func fixedWidth(x *big.Int, n int) []byte {
	b := x.Bytes()
	if len(b) >= n {
		return b[len(b)-n:]
	}
	out := make([]byte, n)
	copy(out[n-len(b):], b)
	return out
}

// RFC 3526 Section 3, 1536-bit MODP Group (group 5).
const rfc3526Group5Hex = "FFFFFFFFFFFFFFFFC90FDAA22168C234C4C6628B80DC1CD" +
	"129024E088A67CC74020BBEA63B139B22514A08798E3404DDEF9519" +
	"B3CD3A431B302B0A6DF25F14374FE1356D6D51C245E485B576625E7" +
	"EC6F44C42E9A637ED6B0BFF5CB6F406B7EDEE386BFB5A899FA5AE9F" +
	"24117C4B1FE649286651ECE45B3DC2007CB8A163BF0598DA48361C5" +
	"5D39A69163FA8FD24CF5F83655D23DCA3AD961C62F356208552BB9E" +
	"D529077096966D670C354E4ABC9804F1746C08CA237327FFFFFFFFFFFFFFFF"
