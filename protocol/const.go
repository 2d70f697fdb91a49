package protocol

import "fmt"

// Op is the first byte of every EAP-WSC frame (the "Op-Code" field of
// EAP-WSC, WSC 2.0.5 §8.2), distinct from the WSC Message Type attribute
// carried inside MSG frames.
type Op uint8

const (
	OpStart   Op = 0x01
	OpAck     Op = 0x02
	OpNack    Op = 0x03
	OpMsg     Op = 0x04
	OpDone    Op = 0x05
	OpFragAck Op = 0x06
)

func (o Op) String() string {
	switch o {
	case OpStart:
		return "WSC_Start"
	case OpAck:
		return "WSC_Ack"
	case OpNack:
		return "WSC_Nack"
	case OpMsg:
		return "WSC_Msg"
	case OpDone:
		return "WSC_Done"
	case OpFragAck:
		return "WSC_Frag_Ack"
	default:
		return fmt.Sprintf("Op(%#x)", uint8(o))
	}
}

// Flags is the second byte of every EAP-WSC frame; MoreFragments and
// LengthFieldIncluded mark fragmentation. Reassembly across EAP round
// trips is the Transport implementation's responsibility: Session and
// Method both operate on complete WSC_MSG bodies, so a Transport must
// hand back a fully reassembled body before HandleMessage ever sees it.
// These constants exist so a Transport can recognize and drive that
// reassembly; none of the bundled Transports (stdioTransport, the test
// fakes) fragment, since their own framing has no practical size limit.
type Flags uint8

const (
	FlagMoreFragments      Flags = 1 << 0
	FlagLengthFieldPresent Flags = 1 << 1
)

func (f Flags) HasMore() bool     { return f&FlagMoreFragments != 0 }
func (f Flags) HasLength() bool   { return f&FlagLengthFieldPresent != 0 }
func (f Flags) IsFragmented() bool { return f&(FlagMoreFragments|FlagLengthFieldPresent) != 0 }

// MessageType is the WSC Message Type attribute value (WSC 2.0.5 Table 27).
type MessageType uint8

const (
	MessageTypeBeacon        MessageType = 0x01
	MessageTypeProbeRequest  MessageType = 0x02
	MessageTypeProbeResponse MessageType = 0x03
	MessageTypeM1            MessageType = 0x04
	MessageTypeM2            MessageType = 0x05
	MessageTypeM2D           MessageType = 0x06
	MessageTypeM3            MessageType = 0x07
	MessageTypeM4            MessageType = 0x08
	MessageTypeM5            MessageType = 0x09
	MessageTypeM6            MessageType = 0x0A
	MessageTypeM7            MessageType = 0x0B
	MessageTypeM8            MessageType = 0x0C
	MessageTypeAck           MessageType = 0x0D
	MessageTypeNack          MessageType = 0x0E
	MessageTypeDone          MessageType = 0x0F
)

func (m MessageType) String() string {
	switch m {
	case MessageTypeM1:
		return "M1"
	case MessageTypeM2:
		return "M2"
	case MessageTypeM2D:
		return "M2D"
	case MessageTypeM3:
		return "M3"
	case MessageTypeM4:
		return "M4"
	case MessageTypeM5:
		return "M5"
	case MessageTypeM6:
		return "M6"
	case MessageTypeM7:
		return "M7"
	case MessageTypeM8:
		return "M8"
	case MessageTypeAck:
		return "WSC_ACK"
	case MessageTypeNack:
		return "WSC_NACK"
	case MessageTypeDone:
		return "WSC_DONE"
	default:
		return fmt.Sprintf("MessageType(%#x)", uint8(m))
	}
}

// AttributeType identifies a WSC TLV attribute (WSC 2.0.5 §11 / Table 29).
type AttributeType uint16

const (
	AttrAPChannel             AttributeType = 0x1001
	AttrAssociationState      AttributeType = 0x1002
	AttrAuthenticationType    AttributeType = 0x1003
	AttrAuthenticationTypeFlags AttributeType = 0x1004
	AttrAuthenticator         AttributeType = 0x1005
	AttrConfigMethods         AttributeType = 0x1008
	AttrConfigurationError    AttributeType = 0x1009
	AttrConnectionType        AttributeType = 0x100C
	AttrConnectionTypeFlags   AttributeType = 0x100D
	AttrCredential            AttributeType = 0x100E
	AttrDeviceName            AttributeType = 0x1011
	AttrDevicePasswordID      AttributeType = 0x1012
	AttrEHash1                AttributeType = 0x1014
	AttrEHash2                AttributeType = 0x1015
	AttrESNonce1              AttributeType = 0x1016
	AttrESNonce2              AttributeType = 0x1017
	AttrEncryptedSettings     AttributeType = 0x1018
	AttrEncryptionType        AttributeType = 0x1019
	AttrEncryptionTypeFlags   AttributeType = 0x1010
	AttrEnrolleeNonce         AttributeType = 0x101A
	AttrManufacturer          AttributeType = 0x1021
	AttrMessageType           AttributeType = 0x1022
	AttrModelName             AttributeType = 0x1023
	AttrModelNumber           AttributeType = 0x1024
	AttrMACAddress            AttributeType = 0x1020
	AttrNetworkKey            AttributeType = 0x1027
	AttrOSVersion             AttributeType = 0x102D
	AttrPrimaryDeviceType     AttributeType = 0x1054
	AttrPublicKey             AttributeType = 0x1032
	AttrRFBands               AttributeType = 0x103C
	AttrRHash1                AttributeType = 0x1035
	AttrRHash2                AttributeType = 0x1036
	AttrRSNonce1              AttributeType = 0x1038
	AttrRSNonce2              AttributeType = 0x1039
	AttrRegistrarNonce        AttributeType = 0x103B
	AttrSSID                  AttributeType = 0x1045
	AttrSerialNumber          AttributeType = 0x1042
	AttrUUIDE                 AttributeType = 0x1047
	AttrUUIDR                 AttributeType = 0x1048
	AttrVendorExtension       AttributeType = 0x1049
	AttrVersion               AttributeType = 0x104A
	AttrKeyWrapAuthenticator  AttributeType = 0x101E // trailing TLV of an Encrypted Settings plaintext; encodeKeyWrapAuthenticator writes its header
)

func (a AttributeType) String() string {
	switch a {
	case AttrAuthenticator:
		return "Authenticator"
	case AttrConfigMethods:
		return "ConfigMethods"
	case AttrConfigurationError:
		return "ConfigurationError"
	case AttrCredential:
		return "Credential"
	case AttrDeviceName:
		return "DeviceName"
	case AttrDevicePasswordID:
		return "DevicePasswordID"
	case AttrEHash1:
		return "E-Hash1"
	case AttrEHash2:
		return "E-Hash2"
	case AttrESNonce1:
		return "E-SNonce1"
	case AttrESNonce2:
		return "E-SNonce2"
	case AttrEncryptedSettings:
		return "EncryptedSettings"
	case AttrEnrolleeNonce:
		return "EnrolleeNonce"
	case AttrManufacturer:
		return "Manufacturer"
	case AttrMessageType:
		return "MessageType"
	case AttrModelName:
		return "ModelName"
	case AttrModelNumber:
		return "ModelNumber"
	case AttrMACAddress:
		return "MACAddress"
	case AttrNetworkKey:
		return "NetworkKey"
	case AttrOSVersion:
		return "OSVersion"
	case AttrPrimaryDeviceType:
		return "PrimaryDeviceType"
	case AttrPublicKey:
		return "PublicKey"
	case AttrRFBands:
		return "RFBands"
	case AttrRHash1:
		return "R-Hash1"
	case AttrRHash2:
		return "R-Hash2"
	case AttrRSNonce1:
		return "R-SNonce1"
	case AttrRSNonce2:
		return "R-SNonce2"
	case AttrRegistrarNonce:
		return "RegistrarNonce"
	case AttrSSID:
		return "SSID"
	case AttrSerialNumber:
		return "SerialNumber"
	case AttrUUIDE:
		return "UUID-E"
	case AttrUUIDR:
		return "UUID-R"
	case AttrVendorExtension:
		return "VendorExtension"
	case AttrVersion:
		return "Version"
	default:
		return fmt.Sprintf("Attribute(%#04x)", uint16(a))
	}
}

// ConfigMethods is the bitmask carried in AttrConfigMethods (WSC 2.0.5 Table 34).
type ConfigMethods uint16

const (
	ConfigMethodUSBA           ConfigMethods = 1 << 0
	ConfigMethodEthernet       ConfigMethods = 1 << 1
	ConfigMethodLabel          ConfigMethods = 1 << 2
	ConfigMethodDisplay        ConfigMethods = 1 << 3
	ConfigMethodExtNFCToken    ConfigMethods = 1 << 4
	ConfigMethodIntNFCToken    ConfigMethods = 1 << 5
	ConfigMethodNFCInterface   ConfigMethods = 1 << 6
	ConfigMethodPushButton     ConfigMethods = 1 << 7
	ConfigMethodKeypad         ConfigMethods = 1 << 8
	ConfigMethodVirtualPushButton ConfigMethods = 1 << 9
	ConfigMethodPhysicalPushButton ConfigMethods = 1 << 10
	ConfigMethodVirtualDisplay ConfigMethods = 1 << 11
	ConfigMethodPhysicalDisplay ConfigMethods = 1 << 12
)

// RFBand is the bitmask carried in AttrRFBands (WSC 2.0.5 Table 42).
type RFBand uint8

const (
	RFBand24GHz RFBand = 1 << 0
	RFBand5GHz  RFBand = 1 << 1
	RFBand60GHz RFBand = 1 << 2
)

func (r RFBand) String() string {
	switch r {
	case RFBand24GHz:
		return "2.4GHz"
	case RFBand5GHz:
		return "5GHz"
	case RFBand60GHz:
		return "60GHz"
	default:
		return fmt.Sprintf("RFBand(%#x)", uint8(r))
	}
}

// AssociationState, AuthenticationType and EncryptionType are fixed by
// this module's Enrollee role, so only the values actually emitted are named.
type AssociationState uint16

const AssociationStateNotAssociated AssociationState = 0

// DevicePasswordID selects which well-known password the Enrollee used;
// 0x0000 (Default/PIN) is the only value this Enrollee emits.
type DevicePasswordID uint16

const DevicePasswordIDDefault DevicePasswordID = 0x0000

// ConfigError is the value carried by AttrConfigurationError inside a
// WSC_NACK message (WSC 2.0.5 Table 47). WSC 2.0.5/§7 centralizes the
// policy that ConfigErrNone must never actually be sent on the wire.
type ConfigError uint16

const (
	ConfigErrNone                     ConfigError = 0x0000
	ConfigErrOOBInterfaceReadError    ConfigError = 0x0001
	ConfigErrDecryptionCRCFailure     ConfigError = 0x0011
	ConfigErrDevicePasswordAuthFailure ConfigError = 0x0012
)

func (c ConfigError) String() string {
	switch c {
	case ConfigErrNone:
		return "NO_ERROR"
	case ConfigErrDecryptionCRCFailure:
		return "DECRYPTION_CRC_FAILURE"
	case ConfigErrDevicePasswordAuthFailure:
		return "DEVICE_PASSWORD_AUTH_FAILURE"
	default:
		return fmt.Sprintf("ConfigError(%#04x)", uint16(c))
	}
}

// PrimaryDeviceCategory is the category field of AttrPrimaryDeviceType.
type PrimaryDeviceCategory uint16

const (
	PrimaryDeviceCategoryComputer PrimaryDeviceCategory = 1
)

// WFAOUI is the Wi-Fi Alliance's registered OUI, used in the default
// PrimaryDeviceType (WSC 2.0.5 Table 44).
var WFAOUI = [4]byte{0x00, 0x50, 0xF2, 0x04}
