package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// ParseResponse splits a decoded response frame into its RET status and
// operation data.
//
// Response payload structure:
//
//	[RET_H][RET_L][DATA...]
func ParseResponse(f *Frame) (status uint16, data []byte, err error) {
	if f == nil {
		return 0, nil, fmt.Errorf("%w: nil frame", ErrTruncated)
	}
	if len(f.Payload) < StatusSize {
		return 0, nil, fmt.Errorf("%w: response payload has %d bytes, status needs %d", ErrTruncated, len(f.Payload), StatusSize)
	}

	status = binary.BigEndian.Uint16(f.Payload[:StatusSize])
	if len(f.Payload) > StatusSize {
		data = f.Payload[StatusSize:]
	}
	return status, data, nil
}

// ParseDeviceInfo parses the Get Device Info response into the firmware
// identification string. Trailing NUL and space padding is dropped.
func ParseDeviceInfo(data []byte) (string, error) {
	info := string(bytes.TrimRight(data, "\x00 "))
	if info == "" {
		return "", fmt.Errorf("empty device info response")
	}
	return info, nil
}

// ParseFingerPresent parses the Finger Detect response.
//
// Data format (1 byte):
//   - 0: no finger
//   - 1: finger present
func ParseFingerPresent(data []byte) (bool, error) {
	if len(data) < 1 {
		return false, fmt.Errorf("invalid data length for Finger Detect response: got %d bytes, expected at least 1", len(data))
	}
	return data[0] == 1, nil
}

// ParseTemplateID parses responses whose first data byte is a template ID
// (Search and Get Empty Slot). Search reports 0 when nothing matched.
func ParseTemplateID(data []byte) (int, error) {
	if len(data) < 1 {
		return 0, fmt.Errorf("invalid data length for template ID response: got %d bytes, expected at least 1", len(data))
	}
	return int(data[0]), nil
}

// ParseParam parses the Get Param response.
func ParseParam(data []byte) (byte, error) {
	if len(data) < 1 {
		return 0, fmt.Errorf("invalid data length for Get Param response: got %d bytes, expected at least 1", len(data))
	}
	return data[0], nil
}

// ParseModuleSN parses the Get Module SN response. The serial number is a
// ModuleSNSize field padded with NUL bytes.
func ParseModuleSN(data []byte) (string, error) {
	if len(data) > ModuleSNSize {
		data = data[:ModuleSNSize]
	}
	return string(bytes.TrimRight(data, "\x00")), nil
}
