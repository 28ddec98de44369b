package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/lunixbochs/struc"
)

// header is the fixed part of a structured frame.
type header struct {
	Prefix  uint16 `struc:"uint16,big"`
	SID     uint8  `struc:"uint8"`
	DID     uint8  `struc:"uint8"`
	Command uint16 `struc:"uint16,big"`
	Length  uint16 `struc:"uint16,big"`
}

// flatHeader is the fixed part of a flat response block.
type flatHeader struct {
	Marker  uint8  `struc:"uint8"`
	SID     uint8  `struc:"uint8"`
	DID     uint8  `struc:"uint8"`
	Command uint16 `struc:"uint16,big"`
	Length  uint16 `struc:"uint16,big"`
}

// Encode builds an outgoing frame.
//
// Frame structure:
//
//	[PREFIX_H][PREFIX_L][SID][DID][CMD_H][CMD_L][LEN_H][LEN_L][PAYLOAD...][CKS_H][CKS_L]
//
// SID and DID are always zero. The checksum covers SID through the end of
// the payload.
func Encode(t FrameType, cmd uint16, payload []byte) ([]byte, error) {
	var prefix uint16
	switch t {
	case TypeCommand:
		prefix = CmdPrefix
	case TypeData:
		prefix = CmdDataPrefix
	default:
		return nil, fmt.Errorf("unknown frame type 0x%02X", byte(t))
	}
	return encodeFrame(prefix, cmd, payload)
}

// EncodeResponse builds a structured response frame carrying status and
// data. It is the module side of the exchange and is used by simulators.
func EncodeResponse(cmd uint16, status uint16, data []byte) ([]byte, error) {
	return encodeFrame(RspPrefix, cmd, responsePayload(status, data))
}

// EncodeFlatResponse builds a FlatResponseSize block carrying status and
// data, zero padded after the checksum.
func EncodeFlatResponse(cmd uint16, status uint16, data []byte) ([]byte, error) {
	payload := responsePayload(status, data)
	size := FlatHeaderSize + len(payload) + ChecksumSize
	if size > FlatResponseSize {
		return nil, fmt.Errorf("data length %d does not fit a %d byte flat response", len(data), FlatResponseSize)
	}

	var buf bytes.Buffer
	buf.Grow(FlatResponseSize)
	h := flatHeader{Marker: FlatMarker, Command: cmd, Length: uint16(len(payload))}
	if err := struc.Pack(&buf, &h); err != nil {
		return nil, fmt.Errorf("pack flat header: %w", err)
	}
	buf.Write(payload)

	block := buf.Bytes()
	block = binary.BigEndian.AppendUint16(block, calculateChecksum(block[1:]))
	padded := make([]byte, FlatResponseSize)
	copy(padded, block)
	return padded, nil
}

func responsePayload(status uint16, data []byte) []byte {
	payload := make([]byte, StatusSize, StatusSize+len(data))
	binary.BigEndian.PutUint16(payload, status)
	return append(payload, data...)
}

func encodeFrame(prefix, cmd uint16, payload []byte) ([]byte, error) {
	if len(payload) > MaxPayloadSize {
		return nil, fmt.Errorf("payload length %d exceeds maximum %d bytes", len(payload), MaxPayloadSize)
	}

	var buf bytes.Buffer
	buf.Grow(MinFrameSize + len(payload))
	h := header{Prefix: prefix, Command: cmd, Length: uint16(len(payload))}
	if err := struc.Pack(&buf, &h); err != nil {
		return nil, fmt.Errorf("pack header: %w", err)
	}
	buf.Write(payload)

	frame := buf.Bytes()
	return binary.BigEndian.AppendUint16(frame, calculateChecksum(frame[2:])), nil
}

func copyBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func knownPrefix(p uint16) bool {
	switch p {
	case CmdPrefix, CmdDataPrefix, RspPrefix, RspDataPrefix:
		return true
	}
	return false
}

// Decode parses a structured frame. Bytes after the checksum are ignored,
// so padded reads decode cleanly.
//
// Errors wrap ErrBadMarker when the prefix is unknown and ErrTruncated when
// raw is shorter than the declared frame. A checksum disagreement returns a
// *ChecksumMismatchError that still carries the decoded frame.
func Decode(raw []byte) (*Frame, error) {
	if len(raw) < 2 {
		return nil, fmt.Errorf("%w: got %d bytes, need a 2 byte prefix", ErrTruncated, len(raw))
	}
	if p := binary.BigEndian.Uint16(raw); !knownPrefix(p) {
		return nil, fmt.Errorf("%w: prefix 0x%04X", ErrBadMarker, p)
	}
	if len(raw) < MinFrameSize {
		return nil, fmt.Errorf("%w: got %d bytes, minimum is %d", ErrTruncated, len(raw), MinFrameSize)
	}

	var h header
	if err := struc.Unpack(bytes.NewReader(raw[:HeaderSize]), &h); err != nil {
		return nil, fmt.Errorf("unpack header: %w", err)
	}

	end := HeaderSize + int(h.Length)
	if len(raw) < end+ChecksumSize {
		return nil, fmt.Errorf("%w: got %d bytes, frame declares %d", ErrTruncated, len(raw), end+ChecksumSize)
	}

	f := &Frame{
		Prefix:    h.Prefix,
		SessionID: h.SID,
		DestID:    h.DID,
		Command:   h.Command,
		Payload:   copyBytes(raw[HeaderSize:end]),
		Checksum:  binary.BigEndian.Uint16(raw[end : end+ChecksumSize]),
	}

	if want := calculateChecksum(raw[2:end]); want != f.Checksum {
		return nil, &ChecksumMismatchError{Expected: want, Actual: f.Checksum, Frame: f}
	}

	return f, nil
}

// DecodeFlat parses a flat response block.
//
// Block structure:
//
//	[0xEE][SID][DID][RCM_H][RCM_L][LEN_H][LEN_L][PAYLOAD...][CKS_H][CKS_L][PADDING...]
//
// The returned frame has Prefix set to FlatMarker.
func DecodeFlat(raw []byte) (*Frame, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrTruncated)
	}
	if raw[0] != FlatMarker {
		return nil, fmt.Errorf("%w: got 0x%02X, expected 0x%02X", ErrBadMarker, raw[0], FlatMarker)
	}
	if len(raw) < FlatHeaderSize+ChecksumSize {
		return nil, fmt.Errorf("%w: got %d bytes, minimum is %d", ErrTruncated, len(raw), FlatHeaderSize+ChecksumSize)
	}

	var h flatHeader
	if err := struc.Unpack(bytes.NewReader(raw[:FlatHeaderSize]), &h); err != nil {
		return nil, fmt.Errorf("unpack flat header: %w", err)
	}

	end := FlatHeaderSize + int(h.Length)
	if len(raw) < end+ChecksumSize {
		return nil, fmt.Errorf("%w: got %d bytes, block declares %d", ErrTruncated, len(raw), end+ChecksumSize)
	}

	f := &Frame{
		Prefix:    FlatMarker,
		SessionID: h.SID,
		DestID:    h.DID,
		Command:   h.Command,
		Payload:   copyBytes(raw[FlatHeaderSize:end]),
		Checksum:  binary.BigEndian.Uint16(raw[end : end+ChecksumSize]),
	}

	if want := calculateChecksum(raw[1:end]); want != f.Checksum {
		return nil, &ChecksumMismatchError{Expected: want, Actual: f.Checksum, Frame: f}
	}

	return f, nil
}

// PayloadLength returns the LEN field of a structured header, used to size
// the second read of the structured framing.
func PayloadLength(hdr []byte) (int, error) {
	if len(hdr) < HeaderSize {
		return 0, fmt.Errorf("%w: header has %d bytes, need %d", ErrTruncated, len(hdr), HeaderSize)
	}
	if p := binary.BigEndian.Uint16(hdr); p != RspPrefix && p != RspDataPrefix {
		return 0, fmt.Errorf("%w: prefix 0x%04X", ErrBadMarker, p)
	}
	return int(binary.BigEndian.Uint16(hdr[6:8])), nil
}
