package wsc

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/wlan-go/eap-wsc/protocol"
)

// wscNamespace is the fixed UUID namespace this module derives UUID-E
// from: a version-5 UUID of the Enrollee MAC address under a fixed WSC
// namespace UUID, not a random UUID. The value below is an arbitrarily
// chosen but fixed namespace UUID; any Enrollee built against this
// configuration loader derives the same UUID-E for the same MAC.
var wscNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// EnrolleeIdentity holds the Enrollee's static identity and device
// password, loaded at startup through viper by LoadConfig.
type EnrolleeIdentity struct {
	MAC              [6]byte
	UUIDE            uuid.UUID
	PrivateKeyHex    string // optional: fixed DH private key for test vectors
	ConfigMethods    protocol.ConfigMethods
	Manufacturer     string
	ModelName        string
	ModelNumber      string
	SerialNumber     string
	DeviceName       string
	PrimaryDeviceType [8]byte
	RFBand           protocol.RFBand
	OSVersion        uint32
	DevicePassword   []byte // upper-cased hex digits, defaulted and validated by LoadConfig
}

// LoadConfig reads the Enrollee's static identity and device password from
// viper-bound configuration keys. path, if non-empty, is added as an
// explicit config file path, whose keys are read from the top level of the
// file (a "WSC" section in the file is not consulted); viper also honors
// WSC_* environment variables.
func LoadConfig(path string) (*EnrolleeIdentity, error) {
	v := viper.New()
	v.SetEnvPrefix("WSC")
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, "load config")
		}
	}

	v.SetDefault("manufacturer", "Unknown")
	v.SetDefault("modelname", "Unknown")
	v.SetDefault("modelnumber", "1.0")
	v.SetDefault("serialnumber", "0000")
	v.SetDefault("devicename", "WSC Enrollee")
	v.SetDefault("osversion", uint32(0))
	v.SetDefault("rfband", "2.4GHz")
	v.SetDefault("configmethods", []string{"PushButton"})

	macStr := v.GetString("enrolleemac")
	mac, err := parseMAC(macStr)
	if err != nil {
		return nil, errors.Wrap(err, "EnrolleeMAC")
	}

	password, err := parseDevicePassword(v.GetString("devicepassword"))
	if err != nil {
		return nil, errors.Wrap(err, "DevicePassword")
	}

	id := &EnrolleeIdentity{
		MAC:              mac,
		UUIDE:            uuid.NewSHA1(wscNamespace, mac[:]),
		PrivateKeyHex:    v.GetString("privatekey"),
		ConfigMethods:    parseConfigMethods(v.GetStringSlice("configmethods")),
		Manufacturer:     v.GetString("manufacturer"),
		ModelName:        v.GetString("modelname"),
		ModelNumber:      v.GetString("modelnumber"),
		SerialNumber:     v.GetString("serialnumber"),
		DeviceName:       v.GetString("devicename"),
		RFBand:           parseRFBand(v.GetString("rfband")),
		OSVersion:        v.GetUint32("osversion"),
		DevicePassword:   password,
	}
	copy(id.PrimaryDeviceType[:], append([]byte{0x00, byte(protocol.PrimaryDeviceCategoryComputer)}, protocol.WFAOUI[:]...))
	return id, nil
}

func parseMAC(s string) ([6]byte, error) {
	var mac [6]byte
	s = strings.ReplaceAll(s, ":", "")
	s = strings.ReplaceAll(s, "-", "")
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 6 {
		return mac, errors.New("expected 6-byte hex MAC address")
	}
	copy(mac[:], b)
	return mac, nil
}

// parseDevicePassword requires a hex-digit string of at least 8
// characters, defaulting an omitted value to "00000000", and stores it
// upper-cased. Anything else is a hard configuration rejection.
func parseDevicePassword(s string) ([]byte, error) {
	if s == "" {
		s = "00000000"
	}
	if len(s) < 8 {
		return nil, errors.New("device password must be at least 8 hex digits")
	}
	for _, c := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return nil, errors.New("device password must be hex digits")
		}
	}
	return []byte(strings.ToUpper(s)), nil
}

func parseConfigMethods(names []string) protocol.ConfigMethods {
	var m protocol.ConfigMethods
	for _, n := range names {
		switch strings.ToLower(n) {
		case "usba":
			m |= protocol.ConfigMethodUSBA
		case "ethernet":
			m |= protocol.ConfigMethodEthernet
		case "label":
			m |= protocol.ConfigMethodLabel
		case "display":
			m |= protocol.ConfigMethodDisplay
		case "pushbutton":
			m |= protocol.ConfigMethodPushButton
		case "keypad":
			m |= protocol.ConfigMethodKeypad
		case "virtualpushbutton":
			m |= protocol.ConfigMethodVirtualPushButton
		case "physicalpushbutton":
			m |= protocol.ConfigMethodPhysicalPushButton
		}
	}
	return m
}

func parseRFBand(s string) protocol.RFBand {
	switch strings.ToLower(s) {
	case "5ghz":
		return protocol.RFBand5GHz
	case "60ghz":
		return protocol.RFBand60GHz
	default:
		return protocol.RFBand24GHz
	}
}
