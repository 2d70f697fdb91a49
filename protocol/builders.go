package protocol

// Builders for the messages this Enrollee sends (M1, M3, M5, M7, NACK,
// DONE). M2, M4, M6, M8 are only ever received, so they have no builder;
// the Registrar owns those on its side.

func u16(v uint16) []byte {
	b := make([]byte, 2)
	be.PutUint16(b, v)
	return b
}

func u32(v uint32) []byte {
	b := make([]byte, 4)
	be.PutUint32(b, v)
	return b
}

func nulTerminated(s string, size int) []byte {
	b := make([]byte, size)
	copy(b, s)
	return b
}

// M1Params carries every field M1 discloses about the Enrollee.
type M1Params struct {
	Version          uint8
	UUIDE            [16]byte
	MAC              [6]byte
	EnrolleeNonce    [16]byte
	PublicKey        []byte
	ConfigMethods    ConfigMethods
	Manufacturer     string
	ModelName        string
	ModelNumber      string
	SerialNumber     string
	DeviceName       string
	PrimaryDeviceType [8]byte
	RFBands          RFBand
	OSVersion        uint32
}

// BuildM1 constructs the Enrollee's first, unauthenticated message.
func BuildM1(p M1Params) *Message {
	m := &Message{Type: MessageTypeM1}
	m.Set(AttrVersion, []byte{p.Version})
	m.Set(AttrMessageType, []byte{byte(MessageTypeM1)})
	m.Set(AttrUUIDE, p.UUIDE[:])
	m.Set(AttrMACAddress, p.MAC[:])
	m.Set(AttrEnrolleeNonce, p.EnrolleeNonce[:])
	m.Set(AttrPublicKey, p.PublicKey)
	m.Set(AttrAuthenticationTypeFlags, u16(0x0021)) // Open | WPA2-Personal
	m.Set(AttrEncryptionTypeFlags, u16(0x000C))     // TKIP | AES
	m.Set(AttrConnectionType, []byte{0x01})         // ESS
	m.Set(AttrConfigMethods, u16(uint16(p.ConfigMethods)))
	m.Set(AttrManufacturer, nulTerminated(orSpace(p.Manufacturer), 1+len(p.Manufacturer)))
	m.Set(AttrModelName, nulTerminated(orSpace(p.ModelName), 1+len(p.ModelName)))
	m.Set(AttrModelNumber, nulTerminated(orSpace(p.ModelNumber), 1+len(p.ModelNumber)))
	m.Set(AttrSerialNumber, nulTerminated(orSpace(p.SerialNumber), 1+len(p.SerialNumber)))
	m.Set(AttrPrimaryDeviceType, p.PrimaryDeviceType[:])
	m.Set(AttrDeviceName, nulTerminated(orSpace(p.DeviceName), 1+len(p.DeviceName)))
	m.Set(AttrRFBands, []byte{byte(p.RFBands)})
	m.Set(AttrAssociationState, u16(uint16(AssociationStateNotAssociated)))
	m.Set(AttrDevicePasswordID, u16(uint16(DevicePasswordIDDefault)))
	m.Set(AttrConfigurationError, u16(uint16(ConfigErrNone)))
	m.Set(AttrOSVersion, u32(p.OSVersion&0x7fffffff))
	return m
}

func orSpace(s string) string {
	if s == "" {
		return " "
	}
	return s
}

// M3Params carries the fields M3 adds on top of M2's RegistrarNonce echo.
type M3Params struct {
	RegistrarNonce [16]byte
	EHash1         [32]byte
	EHash2         [32]byte
}

// BuildM3 constructs M3; the caller appends the outer Authenticator after
// encoding (Authenticator is computed over the encoded body, so it cannot
// be a plain attribute set before Encode is called by the builder).
func BuildM3(p M3Params) *Message {
	m := &Message{Type: MessageTypeM3}
	m.Set(AttrVersion, []byte{0x20})
	m.Set(AttrMessageType, []byte{byte(MessageTypeM3)})
	m.Set(AttrRegistrarNonce, p.RegistrarNonce[:])
	m.Set(AttrEHash1, p.EHash1[:])
	m.Set(AttrEHash2, p.EHash2[:])
	return m
}

// M5OrM7Params carries the fields shared by M5 and M7: a RegistrarNonce
// echo plus an EncryptedSettings TLV already encrypted by the caller
// (encryptedsettings.go owns the CBC transform; this package only places
// the resulting ciphertext into the TLV).
type M5OrM7Params struct {
	Type              MessageType // MessageTypeM5 or MessageTypeM7
	RegistrarNonce    [16]byte
	EncryptedSettings []byte
}

// BuildM5OrM7 constructs M5 or M7 depending on p.Type.
func BuildM5OrM7(p M5OrM7Params) *Message {
	m := &Message{Type: p.Type}
	m.Set(AttrVersion, []byte{0x20})
	m.Set(AttrMessageType, []byte{byte(p.Type)})
	m.Set(AttrRegistrarNonce, p.RegistrarNonce[:])
	m.Set(AttrEncryptedSettings, p.EncryptedSettings)
	return m
}

// BuildNack constructs a WSC_NACK message. The caller is responsible for
// suppressing transmission when code == ConfigErrNone; this builder
// always builds the TLV so that callers needing to compute what *would*
// have been sent (e.g. for Authenticator-less M2D logging) can still do
// so, but protocol.WscError.Suppressed() must be checked before
// transmitting it.
func BuildNack(enrolleeNonce, registrarNonce [16]byte, code ConfigError) *Message {
	m := &Message{Type: MessageTypeNack}
	m.Set(AttrVersion, []byte{0x20})
	m.Set(AttrMessageType, []byte{byte(MessageTypeNack)})
	m.Set(AttrEnrolleeNonce, enrolleeNonce[:])
	m.Set(AttrRegistrarNonce, registrarNonce[:])
	m.Set(AttrConfigurationError, u16(uint16(code)))
	return m
}

// BuildDone constructs the final WSC_DONE message sent after M8.
func BuildDone(enrolleeNonce, registrarNonce [16]byte) *Message {
	m := &Message{Type: MessageTypeDone}
	m.Set(AttrVersion, []byte{0x20})
	m.Set(AttrMessageType, []byte{byte(MessageTypeDone)})
	m.Set(AttrEnrolleeNonce, enrolleeNonce[:])
	m.Set(AttrRegistrarNonce, registrarNonce[:])
	return m
}
