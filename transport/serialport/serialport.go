// Package serialport connects a sensor.Sensor to a UART ID809 module.
//
// UART modules answer with the structured framing and do not expose a bus
// status byte, so the sensor skips the ready check:
//
//	port, err := serialport.Open("/dev/ttyUSB0", serialport.DefaultBaud, time.Second)
//	if err != nil {
//	    return err
//	}
//	defer port.Close()
//	s := sensor.New(port, sensor.WithVariant(protocol.VariantStructured))
package serialport

import (
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

// DefaultBaud is the factory baud rate of UART modules.
const DefaultBaud = 115200

// Port is a serial connection to a module.
type Port struct {
	rwc  io.ReadWriteCloser
	name string
}

// Open opens the named serial device. readTimeout bounds each Read; zero
// blocks until data arrives.
func Open(name string, baud int, readTimeout time.Duration) (*Port, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}
	sp, err := serial.OpenPort(&serial.Config{
		Name:        name,
		Baud:        baud,
		ReadTimeout: readTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("serialport: open %s: %w", name, err)
	}
	return New(sp, name), nil
}

// New wraps an already open connection.
func New(rwc io.ReadWriteCloser, name string) *Port {
	return &Port{rwc: rwc, name: name}
}

func (p *Port) Read(b []byte) (int, error) {
	return p.rwc.Read(b)
}

func (p *Port) Write(b []byte) (int, error) {
	return p.rwc.Write(b)
}

// Flush discards unread input, if the connection supports it.
func (p *Port) Flush() error {
	if f, ok := p.rwc.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

func (p *Port) Close() error {
	return p.rwc.Close()
}

func (p *Port) String() string {
	return p.name
}
