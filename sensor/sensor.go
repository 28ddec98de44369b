package sensor

import (
	"context"
	"fmt"
	"io"

	"github.com/moffa90/go-id809/capability"
	"github.com/moffa90/go-id809/protocol"
)

// NoMatch is returned by Verify when no stored template matches.
const NoMatch = 0

// Sensor drives one ID809 fingerprint module.
//
// Sensor is not safe for concurrent use. Every operation blocks for the
// module's settle delays; callers that share a Sensor must serialize.
type Sensor struct {
	device  io.ReadWriter
	status  StatusReader
	config  Config
	clock   Clock
	profile capability.Profile
	learned bool
	session EnrollmentSession
}

// New creates a new Sensor with the given device and options.
// The device must implement io.ReadWriter for communication with the module.
// If it also implements StatusReader, each command waits for the bus to
// report ready first (structured variant, or flat with WithBusReady).
//
// Example:
//
//	dev, err := i2cbus.Open("", i2cbus.DefaultAddr, 0)
//	s := sensor.New(dev,
//	    sensor.WithLogger(myLogger),
//	    sensor.WithVariant(protocol.VariantFlat),
//	)
func New(device io.ReadWriter, opts ...Option) *Sensor {
	if device == nil {
		panic("device cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Sensor{
		device:  device,
		config:  cfg,
		clock:   cfg.Clock,
		profile: capability.DefaultProfile,
	}
	if sr, ok := device.(StatusReader); ok && cfg.busReady() {
		s.status = sr
	}
	return s
}

// Initialize checks the connection and learns the module revision from its
// device info string. The profile is learned once: after a successful call
// Initialize returns it without touching the bus.
func (s *Sensor) Initialize(ctx context.Context) (capability.Profile, error) {
	if s.learned {
		return s.profile, nil
	}

	if err := s.testConnection(ctx); err != nil {
		return s.profile, fmt.Errorf("initialize: %w", err)
	}

	info, err := s.DeviceInfo(ctx)
	if err != nil {
		return s.profile, fmt.Errorf("initialize: %w", err)
	}

	profile, ok := capability.ProfileFromDeviceInfo(info)
	if !ok {
		s.logWarn("unknown module revision, assuming 80 slots",
			"device_info", info,
			"revision", string(profile.Revision),
		)
	}
	s.profile = profile
	s.learned = true

	s.logInfo("sensor initialized",
		"device_info", info,
		"capacity", int(profile.Capacity),
		"variant", s.config.Variant.String(),
	)
	return profile, nil
}

// Profile returns the profile learned by Initialize, or
// capability.DefaultProfile before that.
func (s *Sensor) Profile() capability.Profile {
	return s.profile
}

// IsConnected reports whether the module answers a test connection command.
func (s *Sensor) IsConnected(ctx context.Context) bool {
	if err := s.testConnection(ctx); err != nil {
		s.logDebug("connection test failed", "error", err)
		return false
	}
	return true
}

func (s *Sensor) testConnection(ctx context.Context) error {
	frame, err := protocol.BuildTestConnectionCmd()
	if err != nil {
		return err
	}
	_, err = s.exchange(ctx, protocol.TestConnection, frame)
	return err
}

// DeviceInfo returns the module's identification string.
func (s *Sensor) DeviceInfo(ctx context.Context) (string, error) {
	frame, err := protocol.BuildGetDeviceInfoCmd()
	if err != nil {
		return "", err
	}
	data, err := s.exchange(ctx, protocol.GetDeviceInfo, frame)
	if err != nil {
		return "", err
	}
	return protocol.ParseDeviceInfo(data)
}

// DetectFinger reports whether a finger is on the sensor.
func (s *Sensor) DetectFinger(ctx context.Context) (bool, error) {
	frame, err := protocol.BuildFingerDetectCmd()
	if err != nil {
		return false, err
	}
	data, err := s.exchange(ctx, protocol.FingerDetect, frame)
	if err != nil {
		return false, err
	}
	return protocol.ParseFingerPresent(data)
}

// DeleteTemplate removes the template stored at id.
func (s *Sensor) DeleteTemplate(ctx context.Context, id int) error {
	if err := s.checkID("delete template", id); err != nil {
		return err
	}
	return s.deleteRange(ctx, id, id)
}

// DeleteAll removes every stored template. The command covers IDs 1-200 on
// every revision.
func (s *Sensor) DeleteAll(ctx context.Context) error {
	return s.deleteRange(ctx, 1, protocol.MaxTemplateID)
}

func (s *Sensor) deleteRange(ctx context.Context, start, end int) error {
	frame, err := protocol.BuildDeleteCmd(start, end)
	if err != nil {
		return err
	}
	if _, err := s.exchange(ctx, protocol.DelChar, frame); err != nil {
		return err
	}
	s.logInfo("templates deleted", "start", start, "end", end)
	return nil
}

// SetLED sends one LED control command, encoded for the module revision.
//
// Example:
//
//	err := s.SetLED(ctx, capability.Breathing, capability.Blue, 0)
func (s *Sensor) SetLED(ctx context.Context, mode capability.LEDMode, color capability.LEDColor, blink byte) error {
	frame, err := protocol.BuildLEDCmd(s.profile.TranslateLED(mode, color, blink))
	if err != nil {
		return err
	}
	_, err = s.exchange(ctx, protocol.SLEDCtrl, frame)
	return err
}

// GetEmptySlot returns the lowest free template ID.
func (s *Sensor) GetEmptySlot(ctx context.Context) (int, error) {
	frame, err := protocol.BuildGetEmptyIDCmd(int(s.profile.Capacity))
	if err != nil {
		return 0, err
	}
	data, err := s.exchange(ctx, protocol.GetEmptyID, frame)
	if err != nil {
		return 0, err
	}
	return protocol.ParseTemplateID(data)
}

// SecurityLevel returns the matching threshold, 1 (loose) to 5 (strict).
func (s *Sensor) SecurityLevel(ctx context.Context) (int, error) {
	frame, err := protocol.BuildGetParamCmd(protocol.ParamSecurityLevel)
	if err != nil {
		return 0, err
	}
	data, err := s.exchange(ctx, protocol.GetParam, frame)
	if err != nil {
		return 0, err
	}
	v, err := protocol.ParseParam(data)
	return int(v), err
}

// SetSecurityLevel sets the matching threshold.
func (s *Sensor) SetSecurityLevel(ctx context.Context, level int) error {
	if level < protocol.MinSecurityLevel || level > protocol.MaxSecurityLevel {
		return &SequenceError{
			Op:     "set security level",
			Reason: fmt.Sprintf("level %d out of range %d-%d", level, protocol.MinSecurityLevel, protocol.MaxSecurityLevel),
		}
	}
	frame, err := protocol.BuildSetParamCmd(protocol.ParamSecurityLevel, byte(level))
	if err != nil {
		return err
	}
	_, err = s.exchange(ctx, protocol.SetParam, frame)
	return err
}

// ModuleSN returns the module serial number.
func (s *Sensor) ModuleSN(ctx context.Context) (string, error) {
	frame, err := protocol.BuildGetModuleSNCmd()
	if err != nil {
		return "", err
	}
	data, err := s.exchange(ctx, protocol.GetModuleSN, frame)
	if err != nil {
		return "", err
	}
	return protocol.ParseModuleSN(data)
}

// EnterStandby puts the module into its low power state. A finger touch
// wakes it.
func (s *Sensor) EnterStandby(ctx context.Context) error {
	frame, err := protocol.BuildEnterStandbyCmd()
	if err != nil {
		return err
	}
	_, err = s.exchange(ctx, protocol.EnterStandby, frame)
	return err
}

// reportProgress calls the progress callback if configured.
func (s *Sensor) reportProgress(progress Progress) {
	if s.config.ProgressCallback != nil {
		s.config.ProgressCallback(progress)
	}
}

func (s *Sensor) logDebug(msg string, keysAndValues ...interface{}) {
	if s.config.Logger != nil {
		s.config.Logger.Debug(msg, keysAndValues...)
	}
}

func (s *Sensor) logInfo(msg string, keysAndValues ...interface{}) {
	if s.config.Logger != nil {
		s.config.Logger.Info(msg, keysAndValues...)
	}
}

func (s *Sensor) logWarn(msg string, keysAndValues ...interface{}) {
	if s.config.Logger != nil {
		s.config.Logger.Warn(msg, keysAndValues...)
	}
}

func (s *Sensor) logError(msg string, keysAndValues ...interface{}) {
	if s.config.Logger != nil {
		s.config.Logger.Error(msg, keysAndValues...)
	}
}
