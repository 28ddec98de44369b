package protocol

import "fmt"

// Enrollment limits.
const (
	// SamplesPerTemplate is the number of images merged into one template
	SamplesPerTemplate = 3

	// MaxRAMSlot is the highest RAM buffer index used while enrolling
	MaxRAMSlot = SamplesPerTemplate - 1

	// MaxTemplateID is the highest template ID on the largest module
	MaxTemplateID = 200
)

// BuildTestConnectionCmd constructs a Test Connection command frame.
//
// Frame structure:
//
//	[AA][55][00][00][00][01][00][00][CKS_H][CKS_L]
func BuildTestConnectionCmd() ([]byte, error) {
	return Encode(TypeCommand, CodeTestConnection, nil)
}

// BuildGetDeviceInfoCmd constructs a Get Device Info command frame.
func BuildGetDeviceInfoCmd() ([]byte, error) {
	return Encode(TypeCommand, CodeGetDeviceInfo, nil)
}

// BuildFingerDetectCmd constructs a Finger Detect command frame.
func BuildFingerDetectCmd() ([]byte, error) {
	return Encode(TypeCommand, CodeFingerDetect, nil)
}

// BuildGetImageCmd constructs a Capture Image command frame.
func BuildGetImageCmd() ([]byte, error) {
	return Encode(TypeCommand, CodeGetImage, nil)
}

// BuildGenerateCmd constructs a Generate Template command frame that turns
// the last captured image into a template in RAM slot.
//
// Payload (2 bytes):
//
//	[SLOT][00]
func BuildGenerateCmd(slot int) ([]byte, error) {
	if slot < 0 || slot > MaxRAMSlot {
		return nil, fmt.Errorf("RAM slot %d out of range 0-%d", slot, MaxRAMSlot)
	}
	return Encode(TypeCommand, CodeGenerate, []byte{byte(slot), 0})
}

// BuildMergeCmd constructs a Merge Templates command frame combining the
// first count RAM slots.
//
// Payload (3 bytes):
//
//	[00][00][COUNT]
func BuildMergeCmd(count int) ([]byte, error) {
	if count < 1 || count > SamplesPerTemplate {
		return nil, fmt.Errorf("merge count %d out of range 1-%d", count, SamplesPerTemplate)
	}
	return Encode(TypeCommand, CodeMerge, []byte{0, 0, byte(count)})
}

// BuildStoreCmd constructs a Store Template command frame that commits the
// merged template to id.
//
// Payload (4 bytes):
//
//	[ID][00][00][00]
func BuildStoreCmd(id int) ([]byte, error) {
	if err := checkTemplateID(id); err != nil {
		return nil, err
	}
	return Encode(TypeCommand, CodeStoreChar, []byte{byte(id), 0, 0, 0})
}

// BuildSearchCmd constructs a Search command frame comparing RAM slot 0
// against templates 1..capacity.
//
// Payload (6 bytes):
//
//	[00][00][01][00][CAPACITY][00]
func BuildSearchCmd(capacity int) ([]byte, error) {
	if err := checkTemplateID(capacity); err != nil {
		return nil, fmt.Errorf("capacity: %w", err)
	}
	return Encode(TypeCommand, CodeSearch, []byte{0, 0, 1, 0, byte(capacity), 0})
}

// BuildGetEmptyIDCmd constructs a Get Empty Slot command frame searching
// 1..capacity.
//
// Payload (4 bytes):
//
//	[01][00][CAPACITY][00]
func BuildGetEmptyIDCmd(capacity int) ([]byte, error) {
	if err := checkTemplateID(capacity); err != nil {
		return nil, fmt.Errorf("capacity: %w", err)
	}
	return Encode(TypeCommand, CodeGetEmptyID, []byte{1, 0, byte(capacity), 0})
}

// BuildDeleteCmd constructs a Delete Template command frame covering the
// inclusive range start..end.
//
// Payload (4 bytes):
//
//	[START][00][END][00]
func BuildDeleteCmd(start, end int) ([]byte, error) {
	if err := checkTemplateID(start); err != nil {
		return nil, err
	}
	if err := checkTemplateID(end); err != nil {
		return nil, err
	}
	if start > end {
		return nil, fmt.Errorf("delete range %d-%d is reversed", start, end)
	}
	return Encode(TypeCommand, CodeDelChar, []byte{byte(start), 0, byte(end), 0})
}

// BuildLEDCmd constructs an LED Control command frame. The payload is the
// device-specific encoding produced by the capability layer.
func BuildLEDCmd(payload [4]byte) ([]byte, error) {
	return Encode(TypeCommand, CodeSLEDCtrl, payload[:])
}

// BuildSetParamCmd constructs a Set Param command frame.
//
// Payload (5 bytes):
//
//	[TYPE][VALUE][00][00][00]
func BuildSetParamCmd(paramType, value byte) ([]byte, error) {
	if paramType > ParamSelfLearn {
		return nil, fmt.Errorf("unknown parameter type %d", paramType)
	}
	return Encode(TypeCommand, CodeSetParam, []byte{paramType, value, 0, 0, 0})
}

// BuildGetParamCmd constructs a Get Param command frame.
func BuildGetParamCmd(paramType byte) ([]byte, error) {
	if paramType > ParamSelfLearn {
		return nil, fmt.Errorf("unknown parameter type %d", paramType)
	}
	return Encode(TypeCommand, CodeGetParam, []byte{paramType})
}

// BuildGetModuleSNCmd constructs a Get Module SN command frame.
func BuildGetModuleSNCmd() ([]byte, error) {
	return Encode(TypeCommand, CodeGetModuleSN, nil)
}

// BuildEnterStandbyCmd constructs an Enter Standby command frame.
func BuildEnterStandbyCmd() ([]byte, error) {
	return Encode(TypeCommand, CodeEnterStandby, nil)
}

func checkTemplateID(id int) error {
	if id < 1 || id > MaxTemplateID {
		return fmt.Errorf("template ID %d out of range 1-%d", id, MaxTemplateID)
	}
	return nil
}
