package protocol

import "time"

// Frame is a decoded ID809 packet. Command and response frames share the
// same layout; for responses the first StatusSize bytes of Payload hold the
// RET field.
type Frame struct {
	// Prefix is the 16-bit frame prefix, or FlatMarker for flat responses
	Prefix uint16

	// SessionID is always zero for this protocol
	SessionID byte

	// DestID is always zero for this protocol
	DestID byte

	// Command is the command code (echoed back in responses)
	Command uint16

	// Payload is the frame data, LEN bytes long
	Payload []byte

	// Checksum is the checksum carried on the wire
	Checksum uint16
}

// Variant selects how responses are read from the bus.
type Variant int

const (
	// VariantFlat reads a fixed FlatResponseSize block starting with FlatMarker
	VariantFlat Variant = iota

	// VariantStructured reads a HeaderSize header starting with RspPrefix,
	// then LEN+ChecksumSize more bytes
	VariantStructured
)

func (v Variant) String() string {
	switch v {
	case VariantFlat:
		return "flat"
	case VariantStructured:
		return "structured"
	default:
		return "unknown"
	}
}

// ParseVariant maps a configuration string to a Variant.
func ParseVariant(s string) (Variant, bool) {
	switch s {
	case "flat", "simple", "":
		return VariantFlat, true
	case "structured", "extended":
		return VariantStructured, true
	default:
		return VariantFlat, false
	}
}

// Command describes one logical sensor operation: its code, a name used in
// errors and logs, and how long the firmware needs before the response can
// be read.
type Command struct {
	Code   uint16
	Name   string
	Settle time.Duration
}

// Command table.
var (
	TestConnection = Command{CodeTestConnection, "test connection", 50 * time.Millisecond}
	SetParam       = Command{CodeSetParam, "set param", 240 * time.Millisecond}
	GetParam       = Command{CodeGetParam, "get param", 50 * time.Millisecond}
	GetDeviceInfo  = Command{CodeGetDeviceInfo, "get device info", 50 * time.Millisecond}
	GetModuleSN    = Command{CodeGetModuleSN, "get module sn", 50 * time.Millisecond}
	EnterStandby   = Command{CodeEnterStandby, "enter standby", 50 * time.Millisecond}
	GetImage       = Command{CodeGetImage, "capture image", 360 * time.Millisecond}
	FingerDetect   = Command{CodeFingerDetect, "detect finger", 240 * time.Millisecond}
	SLEDCtrl       = Command{CodeSLEDCtrl, "led control", 50 * time.Millisecond}
	StoreChar      = Command{CodeStoreChar, "store template", 360 * time.Millisecond}
	DelChar        = Command{CodeDelChar, "delete template", 360 * time.Millisecond}
	GetEmptyID     = Command{CodeGetEmptyID, "get empty slot", 100 * time.Millisecond}
	Generate       = Command{CodeGenerate, "generate template", 360 * time.Millisecond}
	Merge          = Command{CodeMerge, "merge templates", 360 * time.Millisecond}
	Search         = Command{CodeSearch, "search", 360 * time.Millisecond}
)

// commandNames indexes the table by code for error messages.
var commandNames = map[uint16]string{}

func init() {
	for _, c := range []Command{
		TestConnection, SetParam, GetParam, GetDeviceInfo, GetModuleSN,
		EnterStandby, GetImage, FingerDetect, SLEDCtrl, StoreChar, DelChar,
		GetEmptyID, Generate, Merge, Search,
	} {
		commandNames[c.Code] = c.Name
	}
}

// CommandName returns the table name for a command code.
func CommandName(code uint16) string {
	if name, ok := commandNames[code]; ok {
		return name
	}
	return "unknown command"
}
