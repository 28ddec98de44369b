package protocol

// Frame prefix codes. Command frames flow host to module, response frames
// flow module to host; the "data" prefixes mark frames carrying bulk data.
const (
	// CmdPrefix starts a command frame (0xAA55)
	CmdPrefix uint16 = 0xAA55

	// CmdDataPrefix starts a command-data frame (0xA55A)
	CmdDataPrefix uint16 = 0xA55A

	// RspPrefix starts a structured response frame (0x55AA)
	RspPrefix uint16 = 0x55AA

	// RspDataPrefix starts a structured response-data frame (0x5AA5)
	RspDataPrefix uint16 = 0x5AA5
)

// FlatMarker is the first byte of a response in the flat 32-byte block
// framing. The same byte is reported by the bus while the module is busy.
const FlatMarker = 0xEE

// Frame layout constants.
const (
	// HeaderSize is PREFIX(2) + SID(1) + DID(1) + CMD(2) + LEN(2)
	HeaderSize = 8

	// ChecksumSize is the trailing 16-bit checksum
	ChecksumSize = 2

	// MinFrameSize is the size of a frame with an empty payload
	MinFrameSize = HeaderSize + ChecksumSize

	// FlatHeaderSize is MARKER(1) + SID(1) + DID(1) + RCM(2) + LEN(2)
	FlatHeaderSize = 7

	// FlatResponseSize is the fixed block read in the flat framing
	FlatResponseSize = 32

	// MaxPayloadSize bounds the payload of a single frame
	MaxPayloadSize = 0xFF

	// StatusSize is the RET field leading every response payload
	StatusSize = 2

	// ChecksumSeed is added to the byte sum before truncation to 16 bits
	ChecksumSeed = 0xFF
)

// FrameType selects the prefix of an outgoing frame.
type FrameType byte

const (
	// TypeCommand frames use CmdPrefix
	TypeCommand FrameType = 0xF0

	// TypeData frames use CmdDataPrefix
	TypeData FrameType = 0x0F
)

// Command codes understood by the ID809 firmware.
const (
	CodeTestConnection = 0x0001
	CodeSetParam       = 0x0002
	CodeGetParam       = 0x0003
	CodeGetDeviceInfo  = 0x0004
	CodeSetModuleSN    = 0x0008
	CodeGetModuleSN    = 0x0009
	CodeEnterStandby   = 0x000C
	CodeGetImage       = 0x0020
	CodeFingerDetect   = 0x0021
	CodeSLEDCtrl       = 0x0024
	CodeStoreChar      = 0x0040
	CodeDelChar        = 0x0044
	CodeGetEmptyID     = 0x0045
	CodeGenerate       = 0x0060
	CodeMerge          = 0x0061
	CodeSearch         = 0x0063
	CodeVerify         = 0x0064
)

// Status codes carried in the RET field of a response.
const (
	// StatusSuccess indicates the command completed
	StatusSuccess = 0x00

	// ErrFail indicates a generic command failure
	ErrFail = 0x01

	// ErrVerify indicates 1:1 comparison failed
	ErrVerify = 0x10

	// ErrIdentify indicates 1:N search found no match
	ErrIdentify = 0x11

	// ErrTmplEmpty indicates the addressed template slot is empty
	ErrTmplEmpty = 0x12

	// ErrTmplNotEmpty indicates the addressed template slot is in use
	ErrTmplNotEmpty = 0x13

	// ErrAllTmplEmpty indicates no template is enrolled
	ErrAllTmplEmpty = 0x14

	// ErrEmptyIDNoExist indicates there is no free template slot
	ErrEmptyIDNoExist = 0x15

	// ErrBrokenIDNoExist indicates there is no damaged template
	ErrBrokenIDNoExist = 0x16

	// ErrInvalidTmplData indicates template data is malformed
	ErrInvalidTmplData = 0x17

	// ErrDuplicationID indicates the finger is already enrolled
	ErrDuplicationID = 0x18

	// ErrBadQuality indicates the captured image is unusable
	ErrBadQuality = 0x19

	// ErrMergeFail indicates the collected samples could not be merged
	ErrMergeFail = 0x1A

	// ErrNotAuthorized indicates the module is not authorized
	ErrNotAuthorized = 0x1B

	// ErrMemory indicates a flash write failure
	ErrMemory = 0x1C

	// ErrInvalidTmplNo indicates a template ID out of range
	ErrInvalidTmplNo = 0x1D

	// ErrInvalidParam indicates a malformed command parameter
	ErrInvalidParam = 0x22

	// ErrTimeOut indicates the module gave up waiting for a finger
	ErrTimeOut = 0x23

	// ErrGenCount indicates too many generate calls before merge
	ErrGenCount = 0x25

	// ErrInvalidBufferID indicates a RAM slot index out of range
	ErrInvalidBufferID = 0x26

	// ErrFPNotDetected indicates no finger on the sensor during capture
	ErrFPNotDetected = 0x28
)

// Parameter types for the SET_PARAM / GET_PARAM commands.
const (
	ParamDeviceID      = 0
	ParamSecurityLevel = 1
	ParamDuplication   = 2
	ParamBaudrate      = 3
	ParamSelfLearn     = 4
)

// Security level bounds accepted by ParamSecurityLevel.
const (
	MinSecurityLevel = 1
	MaxSecurityLevel = 5
)

// ModuleSNSize is the size of the module serial number field.
const ModuleSNSize = 16
