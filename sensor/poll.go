package sensor

import (
	"context"
	"time"

	"github.com/cenkalti/backoff"

	"github.com/moffa90/go-id809/protocol"
)

// WaitForFinger polls DetectFinger every PollInterval until a finger is
// present. It returns a *TimeoutError once at least timeout has elapsed
// with no finger, and never before.
func (s *Sensor) WaitForFinger(ctx context.Context, timeout time.Duration) error {
	start := s.clock.Now()
	for {
		present, err := s.DetectFinger(ctx)
		if err != nil {
			return err
		}
		if present {
			return nil
		}

		elapsed := s.clock.Now().Sub(start)
		if elapsed >= timeout {
			return &TimeoutError{Op: "wait for finger", Elapsed: elapsed}
		}
		s.clock.Sleep(s.config.PollInterval)
	}
}

// WaitForAbsence polls DetectFinger every PollInterval until the finger is
// lifted. Only ctx bounds the wait.
func (s *Sensor) WaitForAbsence(ctx context.Context) error {
	for {
		present, err := s.DetectFinger(ctx)
		if err != nil {
			return err
		}
		if !present {
			return nil
		}
		s.clock.Sleep(s.config.PollInterval)
	}
}

// waitForBusReady reads the bus status byte until it is not the busy
// marker, at most ReadyAttempts times. Read errors count as busy.
func (s *Sensor) waitForBusReady(ctx context.Context) error {
	if s.status == nil {
		return nil
	}

	var policy backoff.BackOff = &backoff.StopBackOff{}
	if s.config.ReadyAttempts > 1 {
		policy = backoff.WithMaxRetries(
			backoff.NewConstantBackOff(s.config.ReadyInterval),
			uint64(s.config.ReadyAttempts-1),
		)
	}
	b := backoff.WithContext(policy, ctx)

	for attempt := 1; ; attempt++ {
		v, err := s.status.ReadStatusByte()
		if err == nil && v != protocol.FlatMarker {
			return nil
		}
		if err != nil {
			s.logDebug("status read failed", "attempt", attempt, "error", err)
		}

		next := b.NextBackOff()
		if next == backoff.Stop {
			if err := ctx.Err(); err != nil {
				return err
			}
			s.logError("bus stayed busy", "attempts", attempt)
			return ErrDeviceNotResponding
		}
		s.clock.Sleep(next)
	}
}
