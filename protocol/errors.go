package protocol

import (
	"errors"
	"fmt"
)

// Framing errors. Decoders wrap these with detail, so test with errors.Is.
var (
	// ErrBadMarker indicates the flat marker or structured prefix is absent
	ErrBadMarker = errors.New("bad frame marker")

	// ErrTruncated indicates fewer bytes than the frame declares
	ErrTruncated = errors.New("truncated frame")

	// ErrCommandMismatch indicates the response echoes a different command
	ErrCommandMismatch = errors.New("response command mismatch")
)

// ChecksumMismatchError indicates a received frame whose checksum does not
// match its contents. Frame holds the decoded frame so that a caller that
// tolerates unreliable checksums can still use it.
type ChecksumMismatchError struct {
	Expected uint16
	Actual   uint16
	Frame    *Frame
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch: computed 0x%04X, frame carries 0x%04X", e.Expected, e.Actual)
}

// StatusError represents a non-success RET code returned by the module for
// an otherwise well-formed exchange.
type StatusError struct {
	// Operation is the command that failed
	Operation string

	// Status is the RET code from the response
	Status uint16
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s failed: %s (0x%02X)", e.Operation, StatusName(e.Status), e.Status)
}

// IsStatusError returns true if the error is or wraps a StatusError.
func IsStatusError(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}

// IsFrameError returns true if err reports a malformed or corrupted frame.
func IsFrameError(err error) bool {
	var cm *ChecksumMismatchError
	return errors.Is(err, ErrBadMarker) ||
		errors.Is(err, ErrTruncated) ||
		errors.Is(err, ErrCommandMismatch) ||
		errors.As(err, &cm)
}

// HasStatus reports whether err is a StatusError carrying status.
func HasStatus(err error, status uint16) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == status
}

// StatusName returns a human-readable name for a status code.
func StatusName(code uint16) string {
	switch code {
	case StatusSuccess:
		return "success"
	case ErrFail:
		return "command failed"
	case ErrVerify:
		return "verification failed"
	case ErrIdentify:
		return "no matching template"
	case ErrTmplEmpty:
		return "template slot empty"
	case ErrTmplNotEmpty:
		return "template slot in use"
	case ErrAllTmplEmpty:
		return "no templates enrolled"
	case ErrEmptyIDNoExist:
		return "no free template slot"
	case ErrBrokenIDNoExist:
		return "no broken template"
	case ErrInvalidTmplData:
		return "invalid template data"
	case ErrDuplicationID:
		return "fingerprint already enrolled"
	case ErrBadQuality:
		return "poor image quality"
	case ErrMergeFail:
		return "template merge failed"
	case ErrNotAuthorized:
		return "module not authorized"
	case ErrMemory:
		return "flash memory error"
	case ErrInvalidTmplNo:
		return "invalid template ID"
	case ErrInvalidParam:
		return "invalid parameter"
	case ErrTimeOut:
		return "module timeout"
	case ErrGenCount:
		return "too many samples generated"
	case ErrInvalidBufferID:
		return "invalid RAM slot"
	case ErrFPNotDetected:
		return "finger not detected"
	default:
		return fmt.Sprintf("unknown status code 0x%02X", code)
	}
}
