package sensor

import (
	"time"

	"github.com/moffa90/go-id809/protocol"
)

// SessionState is the enrollment state of a Sensor.
type SessionState int

const (
	// Idle means no samples are held in the module's RAM slots
	Idle SessionState = iota

	// Collecting means between one and two samples have been generated
	Collecting

	// ReadyToMerge means all samples are generated and Commit may run
	ReadyToMerge
)

func (s SessionState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Collecting:
		return "collecting"
	case ReadyToMerge:
		return "ready to merge"
	default:
		return "unknown"
	}
}

// EnrollmentSession tracks a multi-sample enrollment.
type EnrollmentSession struct {
	// SamplesCollected is in 0..protocol.SamplesPerTemplate
	SamplesCollected int

	// Slot is the RAM slot the next sample is generated into
	Slot int

	// State is derived from SamplesCollected
	State SessionState

	// Committed is set once a template has been stored during the life of
	// this Sensor. Verify requires it.
	Committed bool

	started time.Time
}

func (e *EnrollmentSession) addSample() {
	e.SamplesCollected++
	e.Slot = e.SamplesCollected
	if e.SamplesCollected >= protocol.SamplesPerTemplate {
		e.State = ReadyToMerge
	} else {
		e.State = Collecting
	}
}

// reset returns to Idle. Committed is kept.
func (e *EnrollmentSession) reset() {
	e.SamplesCollected = 0
	e.Slot = 0
	e.State = Idle
	e.started = time.Time{}
}

// Session returns a copy of the enrollment session.
func (s *Sensor) Session() EnrollmentSession {
	return s.session
}

// Abort discards any collected samples and returns the session to Idle.
// It performs no bus traffic.
func (s *Sensor) Abort() {
	if s.session.State != Idle {
		s.logInfo("enrollment aborted", "samples", s.session.SamplesCollected)
	}
	s.session.reset()
}
