package protocol

import "github.com/pkg/errors"

// Credential is a decoded Credential attribute from M8 (WSC 2.0.5 §7.11).
// An M8 may legitimately carry more than one (multi-band / multi-AP
// provisioning) inside its Encrypted Settings; the session collects every
// Credential attribute of the decrypted settings.
type Credential struct {
	SSID           []byte
	AuthType       uint16
	EncryptionType uint16
	NetworkKey     []byte
	MACAddress     [6]byte
}

// DecodeCredential parses the nested attribute list carried as the value
// of a Credential TLV.
func DecodeCredential(b []byte) (*Credential, error) {
	c := &Credential{}
	for len(b) > 0 {
		t, v, used, err := decodeAttribute(b)
		if err != nil {
			return nil, errors.Wrap(err, "decode credential")
		}
		switch t {
		case AttrSSID:
			c.SSID = append([]byte{}, v...)
		case AttrAuthenticationType:
			if len(v) != 2 {
				return nil, errors.Wrap(ErrParse, "AuthenticationType length")
			}
			c.AuthType = be.Uint16(v)
		case AttrEncryptionType:
			if len(v) != 2 {
				return nil, errors.Wrap(ErrParse, "EncryptionType length")
			}
			c.EncryptionType = be.Uint16(v)
		case AttrNetworkKey:
			c.NetworkKey = append([]byte{}, v...)
		case AttrMACAddress:
			if len(v) != 6 {
				return nil, errors.Wrap(ErrParse, "MACAddress length")
			}
			copy(c.MACAddress[:], v)
		}
		b = b[used:]
	}
	if c.SSID == nil {
		return nil, errors.Wrap(ErrParse, "credential missing SSID")
	}
	return c, nil
}

// Encode re-serializes a Credential, used only by tests constructing
// fixture M8 transcripts.
func (c *Credential) Encode() []byte {
	var b []byte
	b = append(b, encodeAttribute(AttrSSID, c.SSID)...)
	authType := make([]byte, 2)
	be.PutUint16(authType, c.AuthType)
	b = append(b, encodeAttribute(AttrAuthenticationType, authType)...)
	encType := make([]byte, 2)
	be.PutUint16(encType, c.EncryptionType)
	b = append(b, encodeAttribute(AttrEncryptionType, encType)...)
	if c.NetworkKey != nil {
		b = append(b, encodeAttribute(AttrNetworkKey, c.NetworkKey)...)
	}
	b = append(b, encodeAttribute(AttrMACAddress, c.MACAddress[:])...)
	return b
}
