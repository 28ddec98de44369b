package serialport

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moffa90/go-id809/capability"
	"github.com/moffa90/go-id809/protocol"
	"github.com/moffa90/go-id809/sensor"
	"github.com/moffa90/go-id809/sensortest"
)

type fakeConn struct {
	*sensortest.Device
	flushed bool
	closed  bool
}

func (c *fakeConn) Flush() error {
	c.flushed = true
	return nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func TestPortDrivesSensor(t *testing.T) {
	conn := &fakeConn{Device: sensortest.NewDevice(protocol.VariantStructured, "ID809_V1.3")}
	port := New(conn, "/dev/ttyFAKE")

	require.NoError(t, port.Flush())
	assert.True(t, conn.flushed)

	// Port does not implement sensor.StatusReader.
	var rw interface{} = port
	_, ok := rw.(sensor.StatusReader)
	assert.False(t, ok)

	s := sensor.New(port,
		sensor.WithVariant(protocol.VariantStructured),
		sensor.WithClock(sensortest.NewClock()),
	)
	profile, err := s.Initialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, capability.Capacity200, profile.Capacity)

	require.NoError(t, port.Close())
	assert.True(t, conn.closed)
	assert.Equal(t, "/dev/ttyFAKE", port.String())
}

type plainConn struct {
	readErr error
}

func (c *plainConn) Read([]byte) (int, error)    { return 0, c.readErr }
func (c *plainConn) Write(b []byte) (int, error) { return len(b), nil }
func (c *plainConn) Close() error                { return nil }

func TestPortWithoutFlush(t *testing.T) {
	cause := errors.New("read timeout")
	port := New(&plainConn{readErr: cause}, "uart")

	assert.NoError(t, port.Flush())

	_, err := port.Read(make([]byte, 4))
	assert.ErrorIs(t, err, cause)
}
