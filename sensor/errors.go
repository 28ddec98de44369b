package sensor

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrTimeout is matched by every *TimeoutError
	ErrTimeout = errors.New("timeout")

	// ErrDeviceNotResponding indicates the bus kept reporting busy for every
	// ready check of one exchange. The next exchange may succeed.
	ErrDeviceNotResponding = errors.New("device not responding")
)

// TransportError wraps a failure of the underlying byte transport.
type TransportError struct {
	// Op is "write" or "read"
	Op string

	// Command is the command being exchanged
	Command string

	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Command, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// TimeoutError indicates a polling loop gave up after Elapsed.
type TimeoutError struct {
	Op      string
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: timed out after %s", e.Op, e.Elapsed)
}

// Is makes errors.Is(err, ErrTimeout) true.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// SequenceError indicates an operation was invoked in a state that does not
// allow it. No bus traffic happens before a SequenceError is returned.
type SequenceError struct {
	Op     string
	Reason string
}

func (e *SequenceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// CaptureError indicates sample collection failed. Sample is 1-based.
type CaptureError struct {
	Sample int
	Err    error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("capture sample %d: %v", e.Sample, e.Err)
}

func (e *CaptureError) Unwrap() error {
	return e.Err
}

// EnrollError indicates the merge or store step of an enrollment failed.
type EnrollError struct {
	// Stage is "merge" or "store"
	Stage string
	Err   error
}

func (e *EnrollError) Error() string {
	return fmt.Sprintf("enroll %s: %v", e.Stage, e.Err)
}

func (e *EnrollError) Unwrap() error {
	return e.Err
}

// IsSequenceError returns true if err is or wraps a SequenceError.
func IsSequenceError(err error) bool {
	var se *SequenceError
	return errors.As(err, &se)
}
