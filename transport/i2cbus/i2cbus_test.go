package i2cbus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/i2c/i2ctest"

	"github.com/moffa90/go-id809/protocol"
	"github.com/moffa90/go-id809/sensor"
	"github.com/moffa90/go-id809/sensortest"
)

func TestReadWrite(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: DefaultAddr, W: []byte{0xAA, 0x55}},
			{Addr: DefaultAddr, R: []byte{0xEE, 0x00, 0x01}},
			{Addr: DefaultAddr, R: []byte{0x00}},
		},
	}
	d := New(bus, DefaultAddr)

	n, err := d.Write([]byte{0xAA, 0x55})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	buf := make([]byte, 3)
	n, err = d.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []byte{0xEE, 0x00, 0x01}, buf)

	b, err := d.ReadStatusByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0x00), b)

	assert.NoError(t, d.Close())
	assert.NoError(t, bus.Close())
}

func TestTxError(t *testing.T) {
	bus := &i2ctest.Playback{DontPanic: true}
	d := New(bus, DefaultAddr)

	_, err := d.Write([]byte{0x01})
	assert.Error(t, err)

	_, err = d.Read(make([]byte, 1))
	assert.Error(t, err)
}

func TestSensorOverPlayback(t *testing.T) {
	cmd, err := protocol.BuildTestConnectionCmd()
	require.NoError(t, err)
	rsp, err := protocol.EncodeFlatResponse(protocol.CodeTestConnection, protocol.StatusSuccess, nil)
	require.NoError(t, err)

	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: DefaultAddr, R: []byte{protocol.FlatMarker}},
			{Addr: DefaultAddr, R: []byte{0x00}},
			{Addr: DefaultAddr, W: cmd},
			{Addr: DefaultAddr, R: rsp},
		},
	}
	s := sensor.New(New(bus, DefaultAddr),
		sensor.WithClock(sensortest.NewClock()),
		sensor.WithBusReady(3, 10*time.Millisecond),
	)

	assert.True(t, s.IsConnected(context.Background()))
	assert.NoError(t, bus.Close())
}
