package sensor

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/moffa90/go-id809/protocol"
)

// exchange performs one command/response round trip and returns the
// response data. A non-success RET is returned as *protocol.StatusError
// alongside whatever data the module sent. An exchange is never retried
// and, once the frame is written, never interrupted.
func (s *Sensor) exchange(ctx context.Context, cmd protocol.Command, frame []byte) (data []byte, err error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", cmd.Name, err)
	}

	start := s.clock.Now()
	defer func() {
		s.config.Metrics.observeExchange(cmd.Name, resultLabel(err), s.clock.Now().Sub(start).Seconds())
	}()

	if err := s.waitForBusReady(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", cmd.Name, err)
	}

	if err := s.writeFrame(cmd, frame); err != nil {
		return nil, err
	}

	s.clock.Sleep(cmd.Settle)

	f, err := s.readFrame(cmd)
	if err != nil {
		return nil, err
	}

	if f.Command != cmd.Code {
		return nil, fmt.Errorf("%s: %w: got 0x%04X", cmd.Name, protocol.ErrCommandMismatch, f.Command)
	}

	status, data, err := protocol.ParseResponse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cmd.Name, err)
	}

	s.logDebug("exchange",
		"command", cmd.Name,
		"status", fmt.Sprintf("0x%02X", status),
		"data", fmt.Sprintf("% X", data),
	)

	if status != protocol.StatusSuccess {
		return data, &protocol.StatusError{Operation: cmd.Name, Status: status}
	}
	return data, nil
}

// writeFrame writes frame in ChunkSize pieces with ChunkDelay between them.
func (s *Sensor) writeFrame(cmd protocol.Command, frame []byte) error {
	s.logDebug("write", "command", cmd.Name, "frame", fmt.Sprintf("% X", frame))

	chunkSize := s.config.ChunkSize
	for len(frame) > 0 {
		n := min(chunkSize, len(frame))
		if _, err := s.device.Write(frame[:n]); err != nil {
			return &TransportError{Op: "write", Command: cmd.Name, Err: err}
		}
		frame = frame[n:]
		if len(frame) > 0 && s.config.ChunkDelay > 0 {
			s.clock.Sleep(s.config.ChunkDelay)
		}
	}
	return nil
}

// readFrame reads and decodes one response using the configured variant.
func (s *Sensor) readFrame(cmd protocol.Command) (*protocol.Frame, error) {
	var (
		raw    []byte
		decode func([]byte) (*protocol.Frame, error)
	)

	switch s.config.Variant {
	case protocol.VariantStructured:
		hdr := make([]byte, protocol.HeaderSize)
		if err := s.readFull(cmd, hdr, 0); err != nil {
			return nil, err
		}
		n, err := protocol.PayloadLength(hdr)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cmd.Name, err)
		}
		raw = make([]byte, protocol.HeaderSize+n+protocol.ChecksumSize)
		copy(raw, hdr)
		if err := s.readFull(cmd, raw[protocol.HeaderSize:], protocol.HeaderSize); err != nil {
			return nil, err
		}
		decode = protocol.Decode

	default:
		raw = make([]byte, protocol.FlatResponseSize)
		if err := s.readFull(cmd, raw, 0); err != nil {
			return nil, err
		}
		decode = protocol.DecodeFlat
	}

	s.logDebug("read", "command", cmd.Name, "frame", fmt.Sprintf("% X", raw))

	f, err := decode(raw)
	if err == nil {
		return f, nil
	}

	var cm *protocol.ChecksumMismatchError
	if s.config.LenientChecksum && errors.As(err, &cm) {
		s.logWarn("accepting response with bad checksum",
			"command", cmd.Name,
			"expected", fmt.Sprintf("0x%04X", cm.Expected),
			"actual", fmt.Sprintf("0x%04X", cm.Actual),
		)
		return cm.Frame, nil
	}
	return nil, fmt.Errorf("%s: %w", cmd.Name, err)
}

// readFull fills buf from the device. have is the number of response bytes
// already read. A response that ends early wraps protocol.ErrTruncated;
// a read that yields nothing or fails outright is a *TransportError.
func (s *Sensor) readFull(cmd protocol.Command, buf []byte, have int) error {
	n, err := io.ReadFull(s.device, buf)
	if err == nil {
		return nil
	}
	got := have + n
	if got > 0 && (errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF)) {
		return fmt.Errorf("%s: %w: got %d bytes, frame declares %d", cmd.Name, protocol.ErrTruncated, got, have+len(buf))
	}
	return &TransportError{Op: "read", Command: cmd.Name, Err: err}
}
