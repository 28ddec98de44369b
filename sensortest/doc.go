// Package sensortest provides a simulated ID809 module and a virtual clock
// for exercising the sensor package without hardware.
//
// The Device decodes the frames written to it, keeps template and RAM slot
// state like the firmware does and queues the matching response for the
// next Read. It plays a cooperative user: a finger is on the sensor when a
// sample is requested and is lifted once after each capture.
//
//	dev := sensortest.NewDevice(protocol.VariantFlat, "ID809_V1.4")
//	clk := sensortest.NewClock()
//	s := sensor.New(dev, sensor.WithClock(clk))
//
// Faults are injected per command:
//
//	dev.InjectStatus(protocol.CodeGenerate, 2, protocol.ErrBadQuality)
package sensortest
