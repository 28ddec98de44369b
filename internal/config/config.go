// Package config loads the id809 command configuration from a YAML file
// and ID809_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/moffa90/go-id809/protocol"
	"github.com/moffa90/go-id809/sensor"
)

// Transport kinds.
const (
	TransportI2C    = "i2c"
	TransportSerial = "serial"
	TransportSim    = "sim"
)

// I2CConfig selects the I²C bus and module address.
type I2CConfig struct {
	Bus      string `mapstructure:"bus"`
	Addr     uint16 `mapstructure:"addr"`
	SpeedKHz int    `mapstructure:"speedKHz"`
}

// SerialConfig selects the UART device.
type SerialConfig struct {
	Port        string        `mapstructure:"port"`
	Baud        int           `mapstructure:"baud"`
	ReadTimeout time.Duration `mapstructure:"readTimeout"`
}

// SimConfig configures the simulated module.
type SimConfig struct {
	DeviceInfo string `mapstructure:"deviceInfo"`
}

// TransportConfig selects how the module is reached.
type TransportConfig struct {
	Kind   string       `mapstructure:"kind"`
	I2C    I2CConfig    `mapstructure:"i2c"`
	Serial SerialConfig `mapstructure:"serial"`
	Sim    SimConfig    `mapstructure:"sim"`
}

// SensorConfig mirrors the sensor package options. ReadyAttempts of zero
// keeps the driver default: bus status check for structured modules only.
type SensorConfig struct {
	Variant         string        `mapstructure:"variant"`
	ChunkSize       int           `mapstructure:"chunkSize"`
	ChunkDelay      time.Duration `mapstructure:"chunkDelay"`
	PollInterval    time.Duration `mapstructure:"pollInterval"`
	ReadyAttempts   int           `mapstructure:"readyAttempts"`
	ReadyInterval   time.Duration `mapstructure:"readyInterval"`
	LenientChecksum bool          `mapstructure:"lenientChecksum"`
	SampleTimeout   time.Duration `mapstructure:"sampleTimeout"`
}

// LumberjackConfig configures the rolling log file. An empty Filename
// disables file output.
type LumberjackConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"maxSize"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAge"`
	Compress   bool   `mapstructure:"compress"`
}

// LoggingConfig sets log level and output.
type LoggingConfig struct {
	Level  string           `mapstructure:"level"`
	Format string           `mapstructure:"format"`
	File   LumberjackConfig `mapstructure:"file"`
}

// MetricsConfig enables the Prometheus endpoint.
type MetricsConfig struct {
	Enable bool   `mapstructure:"enable"`
	Addr   string `mapstructure:"addr"`
	Path   string `mapstructure:"path"`
}

// Config is the complete command configuration.
type Config struct {
	Transport TransportConfig `mapstructure:"transport"`
	Sensor    SensorConfig    `mapstructure:"sensor"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// Load reads configuration from path, or from ID809_CONFIG when path is
// empty, falling back to ./id809.yaml. A missing default file is not an
// error. Environment variables override file values: sensor.pollInterval
// is ID809_SENSOR_POLLINTERVAL.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path == "" {
		path = os.Getenv("ID809_CONFIG")
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/id809")
		v.SetConfigName("id809")
		v.SetConfigType("yaml")
	}

	setDefaults(v)

	v.SetEnvPrefix("ID809")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("transport.kind", TransportI2C)
	v.SetDefault("transport.i2c.bus", "")
	v.SetDefault("transport.i2c.addr", 0x1F)
	v.SetDefault("transport.i2c.speedKHz", 100)
	v.SetDefault("transport.serial.port", "/dev/ttyUSB0")
	v.SetDefault("transport.serial.baud", 115200)
	v.SetDefault("transport.serial.readTimeout", "1s")
	v.SetDefault("transport.sim.deviceInfo", "ID809_V1.4")

	v.SetDefault("sensor.variant", "flat")
	v.SetDefault("sensor.chunkSize", 32)
	v.SetDefault("sensor.chunkDelay", "1ms")
	v.SetDefault("sensor.pollInterval", "20ms")
	v.SetDefault("sensor.readyAttempts", 0)
	v.SetDefault("sensor.readyInterval", "100ms")
	v.SetDefault("sensor.lenientChecksum", false)
	v.SetDefault("sensor.sampleTimeout", "10s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file.filename", "")
	v.SetDefault("logging.file.maxSize", 10)
	v.SetDefault("logging.file.maxBackups", 3)
	v.SetDefault("logging.file.maxAge", 30)
	v.SetDefault("logging.file.compress", true)

	v.SetDefault("metrics.enable", false)
	v.SetDefault("metrics.addr", ":9809")
	v.SetDefault("metrics.path", "/metrics")
}

// Validate checks values that the sensor would otherwise silently ignore.
func (c *Config) Validate() error {
	switch c.Transport.Kind {
	case TransportI2C, TransportSerial, TransportSim:
	default:
		return fmt.Errorf("transport.kind %q is not one of i2c, serial, sim", c.Transport.Kind)
	}
	if _, ok := protocol.ParseVariant(c.Sensor.Variant); !ok {
		return fmt.Errorf("sensor.variant %q is not one of flat, structured", c.Sensor.Variant)
	}
	if c.Sensor.ChunkSize <= 0 {
		return fmt.Errorf("sensor.chunkSize must be positive, got %d", c.Sensor.ChunkSize)
	}
	if _, err := zapcore.ParseLevel(strings.ToLower(c.Logging.Level)); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q is not one of console, json", c.Logging.Format)
	}
	if c.Sensor.SampleTimeout <= 0 {
		return fmt.Errorf("sensor.sampleTimeout must be positive, got %s", c.Sensor.SampleTimeout)
	}
	return nil
}

// Options converts the sensor section into sensor options.
func (c SensorConfig) Options() []sensor.Option {
	variant, _ := protocol.ParseVariant(c.Variant)
	opts := []sensor.Option{
		sensor.WithVariant(variant),
		sensor.WithChunkSize(c.ChunkSize),
		sensor.WithChunkDelay(c.ChunkDelay),
		sensor.WithPollInterval(c.PollInterval),
		sensor.WithLenientChecksum(c.LenientChecksum),
	}
	if c.ReadyAttempts > 0 {
		opts = append(opts, sensor.WithBusReady(c.ReadyAttempts, c.ReadyInterval))
	}
	return opts
}
