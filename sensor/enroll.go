package sensor

import (
	"context"
	"fmt"
	"time"

	"github.com/moffa90/go-id809/protocol"
)

// Enroll collects protocol.SamplesPerTemplate samples, merges them and
// stores the template at id. Each sample waits up to sampleTimeout for a
// finger, and the finger must be lifted between samples.
//
// A failed sample aborts the whole enrollment with a *CaptureError; no
// sample is retried. A failed merge or store returns an *EnrollError. In
// both cases the session is back to Idle when Enroll returns.
//
// Example:
//
//	id, _ := s.GetEmptySlot(ctx)
//	if err := s.Enroll(ctx, id, 10*time.Second); err != nil {
//	    var ce *sensor.CaptureError
//	    if errors.As(err, &ce) {
//	        log.Printf("sample %d failed, try again", ce.Sample)
//	    }
//	}
func (s *Sensor) Enroll(ctx context.Context, id int, sampleTimeout time.Duration) error {
	if s.session.State != Idle {
		return &SequenceError{Op: "enroll", Reason: fmt.Sprintf("session is %s", s.session.State)}
	}
	if err := s.checkID("enroll", id); err != nil {
		return err
	}

	s.logInfo("enrollment started", "id", id, "sample_timeout", sampleTimeout.String())

	for i := 1; i <= protocol.SamplesPerTemplate; i++ {
		s.reportProgress(s.progress(PhaseWaiting, i, id))

		if err := s.CollectSample(ctx, sampleTimeout); err != nil {
			s.config.Metrics.enrollment("capture_failed")
			return err
		}
		s.reportProgress(s.progress(PhaseCaptured, i, id))

		if i == protocol.SamplesPerTemplate {
			break
		}

		s.reportProgress(s.progress(PhaseLift, i, id))
		if err := s.WaitForAbsence(ctx); err != nil {
			s.session.reset()
			s.config.Metrics.enrollment("capture_failed")
			return &CaptureError{Sample: i, Err: err}
		}
	}

	return s.Commit(ctx, id)
}

// CollectSample waits up to timeout for a finger, captures an image and
// generates a template into the next RAM slot. It returns a *SequenceError
// if all samples are already collected. On failure the session is reset
// and a *CaptureError is returned.
func (s *Sensor) CollectSample(ctx context.Context, timeout time.Duration) error {
	if s.session.SamplesCollected >= protocol.SamplesPerTemplate {
		return &SequenceError{
			Op:     "collect sample",
			Reason: fmt.Sprintf("%d samples already collected, commit or abort first", s.session.SamplesCollected),
		}
	}

	if s.session.SamplesCollected == 0 {
		s.session.started = s.clock.Now()
	}

	sample := s.session.SamplesCollected + 1
	if err := s.captureInto(ctx, timeout, s.session.Slot); err != nil {
		s.logError("sample capture failed", "sample", sample, "error", err)
		s.session.reset()
		return &CaptureError{Sample: sample, Err: err}
	}

	s.session.addSample()
	s.logDebug("sample collected", "sample", sample, "state", s.session.State.String())
	return nil
}

// Commit merges the collected samples and stores the template at id.
// The session must be ReadyToMerge.
func (s *Sensor) Commit(ctx context.Context, id int) error {
	if s.session.State != ReadyToMerge {
		return &SequenceError{
			Op:     "commit",
			Reason: fmt.Sprintf("%d of %d samples collected", s.session.SamplesCollected, protocol.SamplesPerTemplate),
		}
	}
	if err := s.checkID("commit", id); err != nil {
		return err
	}

	s.reportProgress(s.progress(PhaseMerging, protocol.SamplesPerTemplate, id))
	frame, err := protocol.BuildMergeCmd(protocol.SamplesPerTemplate)
	if err == nil {
		_, err = s.exchange(ctx, protocol.Merge, frame)
	}
	if err != nil {
		return s.commitFailed("merge", id, err)
	}

	s.reportProgress(s.progress(PhaseStoring, protocol.SamplesPerTemplate, id))
	frame, err = protocol.BuildStoreCmd(id)
	if err == nil {
		_, err = s.exchange(ctx, protocol.StoreChar, frame)
	}
	if err != nil {
		return s.commitFailed("store", id, err)
	}

	s.reportProgress(s.progress(PhaseComplete, protocol.SamplesPerTemplate, id))
	s.session.reset()
	s.session.Committed = true
	s.config.Metrics.enrollment("ok")
	s.logInfo("template stored", "id", id)
	return nil
}

func (s *Sensor) commitFailed(stage string, id int, err error) error {
	s.logError("enrollment failed", "stage", stage, "id", id, "error", err)
	s.session.reset()
	s.config.Metrics.enrollment(stage + "_failed")
	return &EnrollError{Stage: stage, Err: err}
}

// Verify captures a finger and searches all stored templates. It returns
// the matched template ID, or NoMatch.
//
// Verify is only allowed after a template has been committed by this
// Sensor; otherwise it returns a *SequenceError without touching the bus.
func (s *Sensor) Verify(ctx context.Context, timeout time.Duration) (int, error) {
	if !s.session.Committed {
		return NoMatch, &SequenceError{Op: "verify", Reason: "no template committed in this session"}
	}
	if s.session.State != Idle {
		return NoMatch, &SequenceError{Op: "verify", Reason: fmt.Sprintf("session is %s", s.session.State)}
	}

	if err := s.captureInto(ctx, timeout, 0); err != nil {
		s.config.Metrics.verification("error")
		return NoMatch, &CaptureError{Sample: 1, Err: err}
	}

	frame, err := protocol.BuildSearchCmd(int(s.profile.Capacity))
	if err != nil {
		return NoMatch, err
	}
	data, err := s.exchange(ctx, protocol.Search, frame)
	switch {
	case protocol.HasStatus(err, protocol.ErrIdentify):
		s.config.Metrics.verification("no_match")
		return NoMatch, nil
	case err != nil:
		s.config.Metrics.verification("error")
		return NoMatch, fmt.Errorf("verify: %w", err)
	}

	id, err := protocol.ParseTemplateID(data)
	if err != nil {
		s.config.Metrics.verification("error")
		return NoMatch, fmt.Errorf("verify: %w", err)
	}

	if id == NoMatch {
		s.config.Metrics.verification("no_match")
	} else {
		s.config.Metrics.verification("match")
	}
	s.logInfo("verify", "id", id)
	return id, nil
}

// captureInto waits for a finger, captures an image and converts it into
// RAM slot.
func (s *Sensor) captureInto(ctx context.Context, timeout time.Duration, slot int) error {
	if err := s.WaitForFinger(ctx, timeout); err != nil {
		return err
	}

	frame, err := protocol.BuildGetImageCmd()
	if err != nil {
		return err
	}
	if _, err := s.exchange(ctx, protocol.GetImage, frame); err != nil {
		return err
	}

	frame, err = protocol.BuildGenerateCmd(slot)
	if err != nil {
		return err
	}
	_, err = s.exchange(ctx, protocol.Generate, frame)
	return err
}

func (s *Sensor) checkID(op string, id int) error {
	if !s.profile.ValidID(id) {
		return &SequenceError{
			Op:     op,
			Reason: fmt.Sprintf("template ID %d out of range 1-%d", id, s.profile.Capacity),
		}
	}
	return nil
}

func (s *Sensor) progress(phase string, sample, id int) Progress {
	p := Progress{
		Phase:        phase,
		Sample:       sample,
		TotalSamples: protocol.SamplesPerTemplate,
		TemplateID:   id,
	}
	if !s.session.started.IsZero() {
		p.ElapsedTime = s.clock.Now().Sub(s.session.started)
	}
	return p
}
