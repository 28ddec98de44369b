// Package sensor provides a high-level API for ID809 fingerprint modules.
//
// # Overview
//
// This package drives the module through complete operations:
//   - Learning the hardware revision and template capacity
//   - Enrolling a finger from three samples
//   - Verifying a finger against all stored templates
//   - Deleting templates and controlling the LED ring
//
// # Basic Usage
//
// The simplest way to enroll and verify:
//
//	// User provides hardware communication (io.ReadWriter)
//	dev, err := i2cbus.Open("", i2cbus.DefaultAddr, 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer dev.Close()
//
//	s := sensor.New(dev)
//	if _, err := s.Initialize(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := s.Enroll(ctx, 5, 10*time.Second); err != nil {
//	    log.Fatal(err)
//	}
//
//	id, err := s.Verify(ctx, 10*time.Second)
//	if id == sensor.NoMatch {
//	    fmt.Println("unknown finger")
//	}
//
// # Response Framing
//
// Modules answer in one of two framings, selected with WithVariant:
//   - protocol.VariantFlat: a fixed 32-byte block starting with 0xEE
//   - protocol.VariantStructured: an 8-byte header, then LEN+2 bytes
//
// # Enrollment State
//
// Enroll runs the whole sequence. Callers that prompt between samples can
// drive it themselves with CollectSample and Commit. The session allows at
// most three samples; a fourth CollectSample returns a *SequenceError.
// Verify is refused until this Sensor has committed a template.
//
// # Configuration Options
//
// Customize behavior with functional options:
//
//	s := sensor.New(dev,
//	    sensor.WithProgressCallback(progressFunc),
//	    sensor.WithLogger(myLogger),
//	    sensor.WithVariant(protocol.VariantStructured),
//	    sensor.WithPollInterval(20*time.Millisecond),
//	    sensor.WithBusReady(10, 100*time.Millisecond),
//	    sensor.WithMetrics(sensor.NewMetrics(prometheus.DefaultRegisterer)),
//	)
//
// # Context Support
//
// Context is checked before every exchange and between polls. An exchange
// that has started always runs to completion, so cancellation takes effect
// between commands:
//
//	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
//	defer cancel()
//
//	err := s.Enroll(ctx, id, 10*time.Second)
//
// # Error Handling
//
// The package provides structured error types:
//   - TransportError: the io.ReadWriter failed
//   - TimeoutError: no finger within the timeout (errors.Is ErrTimeout)
//   - SequenceError: operation not allowed in the current state
//   - CaptureError: a sample failed during Enroll, CollectSample or Verify
//   - EnrollError: merge or store failed
//   - ErrDeviceNotResponding: bus stayed busy
//   - protocol.StatusError: the module returned an error status
//
// Malformed responses are reported with the protocol package framing
// errors; use protocol.IsFrameError to test for them.
//
// # Hardware Independence
//
// The Sensor only needs an io.ReadWriter. Reads must be able to return
// a whole response block. Adapters for I2C and UART live in the transport
// packages; sensortest provides a simulated module.
package sensor
