package sensor

import (
	"time"

	"github.com/moffa90/go-id809/protocol"
)

// Config holds the sensor configuration.
type Config struct {
	// ProgressCallback is called during enrollment to report progress (optional)
	ProgressCallback ProgressCallback

	// Logger is used for logging operations (optional)
	Logger Logger

	// Metrics records exchange and enrollment metrics (optional)
	Metrics *Metrics

	// Variant selects the response framing
	Variant protocol.Variant

	// ChunkSize is the maximum number of bytes per bus write
	// Default is 32 bytes (the I2C buffer of common adapters)
	ChunkSize int

	// ChunkDelay is the pause between chunks of one frame
	ChunkDelay time.Duration

	// PollInterval is the pause between finger detect polls
	PollInterval time.Duration

	// ReadyAttempts is the number of bus status reads before an exchange
	// gives up with ErrDeviceNotResponding. Zero disables the check.
	ReadyAttempts int

	// ReadyInterval is the pause between bus status reads
	ReadyInterval time.Duration

	// LenientChecksum accepts responses whose checksum does not match
	LenientChecksum bool

	// Clock is the time source (defaults to the system clock)
	Clock Clock

	// readyExplicit is set by WithBusReady
	readyExplicit bool
}

// busReady reports whether the bus status check runs before each command.
// Flat modules answer with FlatMarker as their success block and can look
// busy indefinitely, so the check only runs there when asked for.
func (c Config) busReady() bool {
	if c.ReadyAttempts <= 0 {
		return false
	}
	return c.Variant == protocol.VariantStructured || c.readyExplicit
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Variant:       protocol.VariantFlat,
		ChunkSize:     32,
		ChunkDelay:    time.Millisecond,
		PollInterval:  20 * time.Millisecond,
		ReadyAttempts: 10,
		ReadyInterval: 100 * time.Millisecond,
		Clock:         systemClock{},
	}
}

// Option is a functional option for configuring the Sensor.
type Option func(*Config)

// WithProgressCallback sets a callback function to track enrollment progress.
//
// Example:
//
//	s := sensor.New(device,
//	    sensor.WithProgressCallback(func(p sensor.Progress) {
//	        fmt.Println(p.Phase)
//	    }),
//	)
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *Config) {
		c.ProgressCallback = callback
	}
}

// WithLogger sets a logger for the sensor operations.
//
// Example:
//
//	s := sensor.New(device, sensor.WithLogger(myLogger))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithMetrics records exchanges and enrollments into m.
func WithMetrics(m *Metrics) Option {
	return func(c *Config) {
		c.Metrics = m
	}
}

// WithVariant selects the response framing used by the module.
//
// Example:
//
//	s := sensor.New(device, sensor.WithVariant(protocol.VariantStructured))
func WithVariant(v protocol.Variant) Option {
	return func(c *Config) {
		c.Variant = v
	}
}

// WithChunkSize sets the maximum number of bytes per bus write.
// Default is 32 bytes.
func WithChunkSize(size int) Option {
	return func(c *Config) {
		if size > 0 {
			c.ChunkSize = size
		}
	}
}

// WithChunkDelay sets the pause between chunks of one frame.
func WithChunkDelay(d time.Duration) Option {
	return func(c *Config) {
		if d >= 0 {
			c.ChunkDelay = d
		}
	}
}

// WithPollInterval sets the pause between finger detect polls.
// Default is 20ms.
func WithPollInterval(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.PollInterval = d
		}
	}
}

// WithBusReady configures the bus status check run before each command.
// attempts of zero disables it. The check is on by default only for
// VariantStructured; calling WithBusReady with attempts > 0 enables it for
// the flat variant too. A flat module that keeps its last response block
// on the bus reports FlatMarker forever, and every command then fails with
// ErrDeviceNotResponding.
//
// Example:
//
//	s := sensor.New(device, sensor.WithBusReady(5, 50*time.Millisecond))
func WithBusReady(attempts int, interval time.Duration) Option {
	return func(c *Config) {
		if attempts >= 0 {
			c.ReadyAttempts = attempts
			c.readyExplicit = attempts > 0
		}
		if interval >= 0 {
			c.ReadyInterval = interval
		}
	}
}

// WithLenientChecksum accepts responses with a bad checksum, logging a
// warning, for modules whose firmware computes it unreliably.
func WithLenientChecksum(lenient bool) Option {
	return func(c *Config) {
		c.LenientChecksum = lenient
	}
}

// WithClock replaces the time source.
func WithClock(clock Clock) Option {
	return func(c *Config) {
		if clock != nil {
			c.Clock = clock
		}
	}
}
