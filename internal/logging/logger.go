// Package logging builds the zap logger used by the id809 command and
// adapts it to sensor.Logger.
package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/moffa90/go-id809/internal/config"
	"github.com/moffa90/go-id809/sensor"
)

// New builds a zap logger writing to stderr and, when a file name is
// configured, to a lumberjack rolling file.
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return nil, err
	}

	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	if strings.ToLower(cfg.Format) == "json" {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	syncers := []zapcore.WriteSyncer{zapcore.AddSync(os.Stderr)}
	if cfg.File.Filename != "" {
		syncers = append(syncers, zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File.Filename,
			MaxSize:    cfg.File.MaxSizeMB,
			MaxBackups: cfg.File.MaxBackups,
			MaxAge:     cfg.File.MaxAgeDays,
			Compress:   cfg.File.Compress,
		}))
	}

	core := zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(syncers...), level)
	return zap.New(core, zap.AddCaller()), nil
}

type sensorLogger struct {
	s *zap.SugaredLogger
}

// SensorLogger adapts l to sensor.Logger. Key/value pairs become zap
// fields.
func SensorLogger(l *zap.Logger) sensor.Logger {
	return &sensorLogger{s: l.WithOptions(zap.AddCallerSkip(2)).Sugar()}
}

func (l *sensorLogger) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }
func (l *sensorLogger) Info(msg string, kv ...interface{})  { l.s.Infow(msg, kv...) }
func (l *sensorLogger) Warn(msg string, kv ...interface{})  { l.s.Warnw(msg, kv...) }
func (l *sensorLogger) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }
