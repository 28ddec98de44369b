package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/physic"

	"github.com/moffa90/go-id809/internal/config"
	"github.com/moffa90/go-id809/internal/logging"
	"github.com/moffa90/go-id809/protocol"
	"github.com/moffa90/go-id809/sensor"
	"github.com/moffa90/go-id809/sensortest"
	"github.com/moffa90/go-id809/transport/i2cbus"
	"github.com/moffa90/go-id809/transport/serialport"
)

// runtime holds everything a command needs for one invocation.
type runtime struct {
	cfg     *config.Config
	log     *zap.Logger
	sensor  *sensor.Sensor
	out     io.Writer
	device  io.Closer
	metrics *http.Server
}

type action func(ctx context.Context, c *cli.Context, rt *runtime) error

// withSensor opens the configured transport, initializes the module and
// runs fn. Everything is released when fn returns.
func withSensor(fn action) cli.ActionFunc {
	return func(c *cli.Context) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		rt, err := newRuntime(c)
		if err != nil {
			return err
		}
		defer rt.Close()

		profile, err := rt.sensor.Initialize(ctx)
		if err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
		rt.log.Debug("module ready", zap.Stringer("profile", profile))

		return fn(ctx, c, rt)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.GlobalString("config"))
	if err != nil {
		return nil, err
	}
	if kind := c.GlobalString("transport"); kind != "" {
		cfg.Transport.Kind = kind
	}
	if c.GlobalBool("simulate") {
		cfg.Transport.Kind = config.TransportSim
	}
	if c.GlobalBool("debug") {
		cfg.Logging.Level = "debug"
	}
	return cfg, cfg.Validate()
}

func newRuntime(c *cli.Context) (*runtime, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	rt := &runtime{cfg: cfg, log: logger, out: c.App.Writer}

	opts := append(cfg.Sensor.Options(),
		sensor.WithLogger(logging.SensorLogger(logger)),
		sensor.WithProgressCallback(rt.printProgress),
	)

	if cfg.Metrics.Enable {
		m, handler := newMetrics()
		opts = append(opts, sensor.WithMetrics(m))
		rt.serveMetrics(cfg.Metrics, handler)
	}

	dev, err := openDevice(cfg)
	if err != nil {
		rt.Close()
		return nil, err
	}
	if closer, ok := dev.(io.Closer); ok {
		rt.device = closer
	}
	if cfg.Transport.Kind == config.TransportSim {
		// The simulator answers instantly, so settle delays run on virtual time.
		opts = append(opts, sensor.WithClock(sensortest.NewClock()))
	}

	rt.sensor = sensor.New(dev, opts...)
	if name, ok := dev.(fmt.Stringer); ok {
		logger.Debug("transport open", zap.String("kind", cfg.Transport.Kind), zap.Stringer("device", name))
	}
	return rt, nil
}

func openDevice(cfg *config.Config) (io.ReadWriter, error) {
	t := cfg.Transport
	switch t.Kind {
	case config.TransportI2C:
		dev, err := i2cbus.Open(t.I2C.Bus, t.I2C.Addr, physic.Frequency(t.I2C.SpeedKHz)*physic.KiloHertz)
		if err != nil {
			return nil, fmt.Errorf("open i2c: %w", err)
		}
		return dev, nil
	case config.TransportSerial:
		port, err := serialport.Open(t.Serial.Port, t.Serial.Baud, t.Serial.ReadTimeout)
		if err != nil {
			return nil, fmt.Errorf("open serial: %w", err)
		}
		return port, nil
	case config.TransportSim:
		variant, _ := protocol.ParseVariant(cfg.Sensor.Variant)
		return sensortest.NewDevice(variant, t.Sim.DeviceInfo), nil
	}
	return nil, fmt.Errorf("unknown transport %q", t.Kind)
}

// newMetrics registers the sensor collectors next to the Go runtime and
// process collectors.
func newMetrics() (*sensor.Metrics, http.Handler) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := sensor.NewMetrics(reg)
	return m, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

func (rt *runtime) serveMetrics(cfg config.MetricsConfig, handler http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, handler)
	rt.metrics = &http.Server{Addr: cfg.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := rt.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			rt.log.Error("metrics server", zap.Error(err))
		}
	}()
	rt.log.Info("serving metrics", zap.String("addr", cfg.Addr), zap.String("path", cfg.Path))
}

func (rt *runtime) printProgress(p sensor.Progress) {
	switch p.Phase {
	case sensor.PhaseWaiting:
		fmt.Fprintf(rt.out, "Place finger (sample %d/%d)\n", p.Sample, p.TotalSamples)
	case sensor.PhaseLift:
		fmt.Fprintln(rt.out, "Lift finger")
	case sensor.PhaseComplete:
		fmt.Fprintf(rt.out, "Stored template %d in %s\n", p.TemplateID, p.ElapsedTime.Round(time.Millisecond))
	}
}

func (rt *runtime) Close() {
	if rt.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		_ = rt.metrics.Shutdown(ctx)
		cancel()
	}
	if rt.device != nil {
		if err := rt.device.Close(); err != nil {
			rt.log.Warn("close transport", zap.Error(err))
		}
	}
	_ = rt.log.Sync()
}
