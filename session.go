package wsc

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/pkg/errors"

	"github.com/wlan-go/eap-wsc/protocol"
)

// State is the Enrollee's position in the WSC message exchange. It
// advances strictly forward; any message that doesn't match the current
// state's expectation yields a NACK (or a silently dropped one) rather
// than a state change.
type State int

const (
	StateExpectM2 State = iota
	StateExpectM4
	StateExpectM6
	StateExpectM8
	StateFinished
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateExpectM2:
		return "ExpectM2"
	case StateExpectM4:
		return "ExpectM4"
	case StateExpectM6:
		return "ExpectM6"
	case StateExpectM8:
		return "ExpectM8"
	case StateFinished:
		return "Finished"
	case StateAborted:
		return "Aborted"
	default:
		return "Unknown"
	}
}

// Session is one Enrollee run of the WSC exchange against a single
// Registrar, from M1 through DONE.
type Session struct {
	logger log.Logger
	id     *EnrolleeIdentity

	state State

	private *big.Int
	pubE    []byte // this Enrollee's DH public key, fixed width
	pubR    []byte // Registrar's DH public key, learned from M2

	enrolleeNonce  [16]byte
	registrarNonce [16]byte

	esNonce1 [16]byte // E-S1, this Enrollee's secret nonce, committed in M3's E-Hash1
	esNonce2 [16]byte // E-S2, committed in M3's E-Hash2
	psk1     [16]byte
	psk2     [16]byte
	rHash1   [32]byte // committed by the Registrar in M2, opened in M4
	rHash2   [32]byte // committed by the Registrar in M2, opened in M6

	keys keySchedule
	auth *authChain

	m1Wire []byte // raw encoded M1, the Authenticator chain's starting predecessor

	credentials []*protocol.Credential

	Result *Result
}

// Result is populated once a session reaches StateFinished.
type Result struct {
	Credentials []*protocol.Credential
	MSK         secret
}

// NewSession starts a fresh Enrollee session, generating a new DH-5
// keypair (or using id.PrivateKeyHex as the private key when it is set)
// and Enrollee nonce.
func NewSession(logger log.Logger, id *EnrolleeIdentity) (*Session, error) {
	priv, err := group5.private(rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "new session")
	}
	if id.PrivateKeyHex != "" {
		p, ok := new(big.Int).SetString(id.PrivateKeyHex, 16)
		if !ok || p.Cmp(big.NewInt(1)) <= 0 || p.Cmp(group5.prime) >= 0 {
			return nil, errors.New("new session: invalid PrivateKey")
		}
		priv = p
	}
	pub := fixedWidth(group5.public(priv), PublicKeyLen)

	var nonce [16]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, errors.Wrap(err, "enrollee nonce")
	}

	s := &Session{
		logger:        logger,
		id:            id,
		state:         StateExpectM2,
		private:       priv,
		pubE:          pub,
		enrolleeNonce: nonce,
	}
	return s, nil
}

// BuildM1 constructs the session's M1 and records it as the Authenticator
// chain's starting predecessor. Must be called exactly once, before any
// HandleMessage call.
func (s *Session) BuildM1() []byte {
	m := protocol.BuildM1(protocol.M1Params{
		Version:           0x20,
		UUIDE:             s.id.UUIDE,
		MAC:               s.id.MAC,
		EnrolleeNonce:     s.enrolleeNonce,
		PublicKey:         s.pubE,
		ConfigMethods:     s.id.ConfigMethods,
		Manufacturer:      s.id.Manufacturer,
		ModelName:         s.id.ModelName,
		ModelNumber:       s.id.ModelNumber,
		SerialNumber:      s.id.SerialNumber,
		DeviceName:        s.id.DeviceName,
		PrimaryDeviceType: s.id.PrimaryDeviceType,
		RFBands:           s.id.RFBand,
		OSVersion:         s.id.OSVersion,
	})
	s.m1Wire = m.Encode()
	return s.m1Wire
}

// outcome is the result of handling one inbound message: the next state,
// raw bytes to transmit (nil if nothing should be sent, e.g. a suppressed
// NACK), and an error for cases the caller should log/abort on regardless
// of what was or wasn't transmitted, rather than mutating state in place
// and signaling failure solely through err.
type outcome struct {
	next State
	wire []byte
	err  error
}

// HandleMessage processes one inbound WSC_MSG body (already defragmented)
// against the session's current state and returns what to transmit next.
func (s *Session) HandleMessage(body []byte) ([]byte, error) {
	msg, err := protocol.DecodeMessage(body)
	if err != nil {
		return nil, errors.Wrap(err, "handle message")
	}

	level.Debug(s.logger).Log("msg", "inbound", "type", msg.Type.String(), "state", s.state.String())

	// Inbound NACK is treated as an immediate session abort regardless of
	// state: the Registrar has already given up, so this Enrollee
	// stops rather than waiting for a message that will never arrive.
	if msg.Type == protocol.MessageTypeNack {
		s.state = StateAborted
		return nil, errors.New("registrar sent NACK, aborting session")
	}

	var oc outcome
	switch s.state {
	case StateExpectM2:
		oc = s.handleM2(msg)
	case StateExpectM4:
		oc = s.handleM4(msg)
	case StateExpectM6:
		oc = s.handleM6(msg)
	case StateExpectM8:
		oc = s.handleM8(msg)
	default:
		// Anything arriving after Finished or Aborted is out of band.
		// suppress the NACK (config_error=NO_ERROR) rather
		// than reply to a Registrar that believes the exchange is over.
		oc = s.nack(s.enrolleeNonce, s.registrarNonce, protocol.ConfigErrNone, s.state)
	}

	s.state = oc.next
	return oc.wire, oc.err
}

// handleM2 parses M2, derives the session's key schedule from the DH
// shared secret, verifies M2's own Authenticator against that freshly
// derived AuthKey (the chain's prev_message is m1's body), and only then
// trusts M2's fields and builds M3. M2D (no key-confirmation fields; the
// Registrar is only disclosing its own metadata) is accepted silently
// with no reply, leaving the state unchanged so the real M2 can still
// arrive.
func (s *Session) handleM2(msg *protocol.Message) outcome {
	if msg.Type == protocol.MessageTypeM2D {
		level.Info(s.logger).Log("msg", "received M2D, waiting for M2")
		return outcome{next: StateExpectM2}
	}
	if msg.Type != protocol.MessageTypeM2 {
		return s.nack(s.enrolleeNonce, [16]byte{}, protocol.ConfigErrNone, StateExpectM2)
	}

	regNonce, ok := msg.Get(protocol.AttrRegistrarNonce)
	if !ok || len(regNonce) != 16 {
		return s.nack(s.enrolleeNonce, [16]byte{}, protocol.ConfigErrNone, StateExpectM2)
	}
	copy(s.registrarNonce[:], regNonce)

	pubR, ok := msg.Get(protocol.AttrPublicKey)
	if !ok {
		return s.nack(s.enrolleeNonce, s.registrarNonce, protocol.ConfigErrNone, StateExpectM2)
	}
	s.pubR = append([]byte{}, pubR...)

	rHash1B, ok1 := msg.Get(protocol.AttrRHash1)
	rHash2B, ok2 := msg.Get(protocol.AttrRHash2)
	if !ok1 || !ok2 || len(rHash1B) != 32 || len(rHash2B) != 32 {
		return s.nack(s.enrolleeNonce, s.registrarNonce, protocol.ConfigErrNone, StateExpectM2)
	}
	copy(s.rHash1[:], rHash1B)
	copy(s.rHash2[:], rHash2B)

	if err := s.deriveSessionKeys(); err != nil {
		return outcome{next: StateAborted, err: err}
	}

	if !s.verifyInbound(msg) {
		s.resetSessionKeys()
		return outcome{next: StateExpectM2}
	}

	half1, half2 := devicePasswordHalves(s.id.DevicePassword)
	s.psk1 = derivePSK(s.keys.authKey, half1)
	s.psk2 = derivePSK(s.keys.authKey, half2)

	// E-Hash1/E-Hash2 commit to this Enrollee's own secret nonces; R-Hash1
	// and R-Hash2 (just stored above) are the Registrar's matching
	// commitments, opened later in M4 and M6 respectively.
	eHash1 := deriveEHash(s.keys.authKey, s.esNonce1, s.psk1, s.pubE, s.pubR)
	eHash2 := deriveEHash(s.keys.authKey, s.esNonce2, s.psk2, s.pubE, s.pubR)

	m3 := protocol.BuildM3(protocol.M3Params{
		RegistrarNonce: s.registrarNonce,
		EHash1:         eHash1,
		EHash2:         eHash2,
	})
	return s.sendAuthenticated(m3, StateExpectM4)
}

// handleM4 decrypts M4's Encrypted Settings to recover R-SNonce1, verifies
// it against the R-Hash1 committed in M2 (first half key confirmation),
// then replies with M5 revealing this Enrollee's own E-SNonce1.
func (s *Session) handleM4(msg *protocol.Message) outcome {
	if msg.Type != protocol.MessageTypeM4 {
		return s.nack(s.enrolleeNonce, s.registrarNonce, protocol.ConfigErrNone, StateExpectM4)
	}
	if !s.verifyInbound(msg) {
		return outcome{next: StateExpectM4}
	}

	encSettings, ok := msg.Get(protocol.AttrEncryptedSettings)
	if !ok {
		return s.nack(s.enrolleeNonce, s.registrarNonce, protocol.ConfigErrDecryptionCRCFailure, StateExpectM4)
	}
	plain, err := decryptSettings(s.logger, s.keys.keyWrapKey, s.keys.authKey, encSettings)
	if err != nil {
		return s.nack(s.enrolleeNonce, s.registrarNonce, protocol.ConfigErrDecryptionCRCFailure, StateExpectM4)
	}
	rsNonce1, ok := extractNonceAttr(plain, protocol.AttrRSNonce1)
	if !ok {
		return s.nack(s.enrolleeNonce, s.registrarNonce, protocol.ConfigErrDecryptionCRCFailure, StateExpectM4)
	}
	if deriveEHash(s.keys.authKey, rsNonce1, s.psk1, s.pubE, s.pubR) != s.rHash1 {
		return s.nack(s.enrolleeNonce, s.registrarNonce, protocol.ConfigErrDevicePasswordAuthFailure, StateExpectM4)
	}

	enc, err := encryptSettings(s.logger, s.keys.keyWrapKey, s.keys.authKey,
		protocol.EncodeAttribute(protocol.AttrESNonce1, s.esNonce1[:]))
	if err != nil {
		return outcome{next: StateAborted, err: err}
	}
	m5 := protocol.BuildM5OrM7(protocol.M5OrM7Params{
		Type:              protocol.MessageTypeM5,
		RegistrarNonce:    s.registrarNonce,
		EncryptedSettings: enc,
	})
	return s.sendAuthenticated(m5, StateExpectM6)
}

// handleM6 decrypts M6's Encrypted Settings to recover R-SNonce2, verifies
// it against the R-Hash2 committed in M2 (second half key confirmation,
// completing mutual authentication of the device password), then replies
// with M7 revealing this Enrollee's own E-SNonce2.
func (s *Session) handleM6(msg *protocol.Message) outcome {
	if msg.Type != protocol.MessageTypeM6 {
		return s.nack(s.enrolleeNonce, s.registrarNonce, protocol.ConfigErrNone, StateExpectM6)
	}
	if !s.verifyInbound(msg) {
		return outcome{next: StateExpectM6}
	}

	encSettings, ok := msg.Get(protocol.AttrEncryptedSettings)
	if !ok {
		return s.nack(s.enrolleeNonce, s.registrarNonce, protocol.ConfigErrDecryptionCRCFailure, StateExpectM6)
	}
	plain, err := decryptSettings(s.logger, s.keys.keyWrapKey, s.keys.authKey, encSettings)
	if err != nil {
		return s.nack(s.enrolleeNonce, s.registrarNonce, protocol.ConfigErrDecryptionCRCFailure, StateExpectM6)
	}
	rsNonce2, ok := extractNonceAttr(plain, protocol.AttrRSNonce2)
	if !ok {
		return s.nack(s.enrolleeNonce, s.registrarNonce, protocol.ConfigErrDecryptionCRCFailure, StateExpectM6)
	}
	if deriveEHash(s.keys.authKey, rsNonce2, s.psk2, s.pubE, s.pubR) != s.rHash2 {
		return s.nack(s.enrolleeNonce, s.registrarNonce, protocol.ConfigErrDevicePasswordAuthFailure, StateExpectM6)
	}

	enc, err := encryptSettings(s.logger, s.keys.keyWrapKey, s.keys.authKey,
		protocol.EncodeAttribute(protocol.AttrESNonce2, s.esNonce2[:]))
	if err != nil {
		return outcome{next: StateAborted, err: err}
	}
	m7 := protocol.BuildM5OrM7(protocol.M5OrM7Params{
		Type:              protocol.MessageTypeM7,
		RegistrarNonce:    s.registrarNonce,
		EncryptedSettings: enc,
	})
	return s.sendAuthenticated(m7, StateExpectM8)
}

// handleM8 decrypts and extracts every Credential attribute (possibly
// more than one, for multi-band or multi-AP provisioning), replies with
// DONE, and finalizes the session's exported result.
func (s *Session) handleM8(msg *protocol.Message) outcome {
	if msg.Type != protocol.MessageTypeM8 {
		return s.nack(s.enrolleeNonce, s.registrarNonce, protocol.ConfigErrNone, StateExpectM8)
	}
	if !s.verifyInbound(msg) {
		return outcome{next: StateExpectM8}
	}

	encSettings, ok := msg.Get(protocol.AttrEncryptedSettings)
	if !ok {
		return s.nack(s.enrolleeNonce, s.registrarNonce, protocol.ConfigErrDecryptionCRCFailure, StateExpectM8)
	}
	plain, err := decryptSettings(s.logger, s.keys.keyWrapKey, s.keys.authKey, encSettings)
	if err != nil {
		return s.nack(s.enrolleeNonce, s.registrarNonce, protocol.ConfigErrDecryptionCRCFailure, StateExpectM8)
	}

	creds, err := extractCredentials(plain)
	if err != nil || len(creds) == 0 {
		return s.nack(s.enrolleeNonce, s.registrarNonce, protocol.ConfigErrDecryptionCRCFailure, StateExpectM8)
	}
	s.credentials = creds

	done := protocol.BuildDone(s.enrolleeNonce, s.registrarNonce)
	s.Result = &Result{
		Credentials: s.credentials,
		MSK:         secret(kdf(s.keys.emsk, 512)),
	}
	return outcome{next: StateFinished, wire: done.Encode()}
}

// deriveSessionKeys computes the DH shared secret and the full key
// schedule once M2's public key has been learned.
func (s *Session) deriveSessionKeys() error {
	if s.pubR == nil {
		return errors.New("derive keys before M2 public key is known")
	}
	theirPub := new(big.Int).SetBytes(s.pubR)
	z := fixedWidth(group5.sharedSecret(theirPub, s.private), PublicKeyLen)
	dhKey := deriveDHKey(z)
	secret(z).Zero()
	kdk := deriveKDK(dhKey, s.enrolleeNonce, s.id.MAC, s.registrarNonce)
	s.keys = deriveKeys(kdk)
	s.keys.dhKey = dhKey
	s.auth = newAuthChain(s.keys.authKey, s.m1Wire)

	if _, err := io.ReadFull(rand.Reader, s.esNonce1[:]); err != nil {
		return err
	}
	if _, err := io.ReadFull(rand.Reader, s.esNonce2[:]); err != nil {
		return err
	}
	return nil
}

// resetSessionKeys zeroes and discards the key schedule and Authenticator
// chain derived for a M2 that failed Authenticator verification, so a
// subsequent M2 attempt starts from a clean DH shared secret rather than
// reusing material tied to a rejected message.
func (s *Session) resetSessionKeys() {
	s.keys.zero()
	s.keys = keySchedule{}
	s.auth = nil
	s.pubR = nil
}

// sendAuthenticated appends the outer Authenticator TLV to msg, advances
// the Authenticator chain, and returns the encoded wire bytes as an
// outcome targeting nextState.
func (s *Session) sendAuthenticated(msg *protocol.Message, nextState State) outcome {
	msg.Set(protocol.AttrAuthenticator, make([]byte, 8))
	encoded := msg.Encode()
	authVal := s.auth.authenticator(encoded)
	msg.Set(protocol.AttrAuthenticator, authVal[:])
	final := msg.Encode()
	s.auth.advance(final)
	return outcome{next: nextState, wire: final}
}

// verifyInbound checks an inbound message's Authenticator against the
// chain, and on success advances the chain to treat this message as the
// new predecessor.
func (s *Session) verifyInbound(msg *protocol.Message) bool {
	authVal, ok := msg.Get(protocol.AttrAuthenticator)
	if !ok || len(authVal) != 8 {
		return false
	}
	encoded := msg.Encode()
	var got [8]byte
	copy(got[:], authVal)
	if !s.auth.verify(encoded, got) {
		return false
	}
	s.auth.advance(encoded)
	return true
}

// nack builds a WSC_NACK outcome, applying the suppression
// policy: config_error=NO_ERROR is never transmitted, so in that case
// wire is left nil while the state transition still happens.
func (s *Session) nack(enrolleeNonce, registrarNonce [16]byte, code protocol.ConfigError, fallbackState State) outcome {
	werr := protocol.ErrF(code, "wsc: %s", code.String())
	n := protocol.BuildNack(enrolleeNonce, registrarNonce, code)
	if werr.Suppressed() {
		return outcome{next: fallbackState}
	}
	return outcome{next: StateAborted, wire: n.Encode(), err: werr}
}

// Destroy zeroes every secret this session holds. Callers must call this
// once a session (successful, aborted, or abandoned) is no longer needed.
func (s *Session) Destroy() {
	s.keys.zero()
	if s.Result != nil {
		s.Result.MSK.Zero()
	}
}

// extractNonceAttr reads the first attribute of type t out of a decrypted
// Encrypted Settings plaintext. Encrypted Settings plaintext is a bare
// attribute list, not a full Message (it carries no MessageType of its
// own), so this walks protocol.DecodeAttribute directly rather than going
// through protocol.DecodeMessage.
func extractNonceAttr(plain []byte, t protocol.AttributeType) ([16]byte, bool) {
	var out [16]byte
	for b := plain; len(b) > 0; {
		at, v, used, err := protocol.DecodeAttribute(b)
		if err != nil {
			return out, false
		}
		if at == t && len(v) == 16 {
			copy(out[:], v)
			return out, true
		}
		b = b[used:]
	}
	return out, false
}

func extractCredentials(plain []byte) ([]*protocol.Credential, error) {
	var creds []*protocol.Credential
	for b := plain; len(b) > 0; {
		at, v, used, err := protocol.DecodeAttribute(b)
		if err != nil {
			return nil, err
		}
		if at == protocol.AttrCredential {
			c, err := protocol.DecodeCredential(v)
			if err != nil {
				return nil, err
			}
			creds = append(creds, c)
		}
		b = b[used:]
	}
	return creds, nil
}
