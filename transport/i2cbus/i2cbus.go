// Package i2cbus connects a sensor.Sensor to an ID809 module on an I²C bus
// through periph.
//
//	dev, err := i2cbus.Open("/dev/i2c-1", i2cbus.DefaultAddr, 100*physic.KiloHertz)
//	if err != nil {
//	    return err
//	}
//	defer dev.Close()
//	s := sensor.New(dev)
package i2cbus

import (
	"fmt"
	"io"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// DefaultAddr is the module's fixed 7-bit I²C address.
const DefaultAddr = 0x1F

// Device is an ID809 module at one bus address. Each Read or Write is a
// single I²C transaction.
type Device struct {
	dev   *i2c.Dev
	bus   i2c.Bus
	close io.Closer
}

// Open initializes the host drivers, opens the named bus (empty selects the
// first one found) and returns the module at addr. A non-zero speed is
// applied to the bus.
func Open(busName string, addr uint16, speed physic.Frequency) (*Device, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("i2cbus: host init: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("i2cbus: open %q: %w", busName, err)
	}

	if speed != 0 {
		if err := bus.SetSpeed(speed); err != nil {
			bus.Close()
			return nil, fmt.Errorf("i2cbus: set speed %s: %w", speed, err)
		}
	}

	d := New(bus, addr)
	d.close = bus
	return d, nil
}

// New returns the module at addr on an already opened bus. Close does not
// close the bus.
func New(bus i2c.Bus, addr uint16) *Device {
	return &Device{
		dev: &i2c.Dev{Bus: bus, Addr: addr},
		bus: bus,
	}
}

// Write sends p in one transaction.
func (d *Device) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := d.dev.Tx(p, nil); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Read fills p in one transaction, so a response block is always read
// whole.
func (d *Device) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := d.dev.Tx(nil, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// ReadStatusByte reads the single bus status byte. The module answers
// 0xEE while it is busy.
func (d *Device) ReadStatusByte() (byte, error) {
	var b [1]byte
	if err := d.dev.Tx(nil, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// Close releases the bus if it was opened by Open.
func (d *Device) Close() error {
	if d.close == nil {
		return nil
	}
	return d.close.Close()
}

func (d *Device) String() string {
	return fmt.Sprintf("%s@0x%02X", d.bus, d.dev.Addr)
}
