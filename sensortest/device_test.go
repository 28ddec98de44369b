package sensortest

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moffa90/go-id809/protocol"
)

func roundTrip(t *testing.T, d *Device, frame []byte, size int) *protocol.Frame {
	t.Helper()

	_, err := d.Write(frame)
	require.NoError(t, err)

	raw := make([]byte, size)
	_, err = io.ReadFull(d, raw)
	require.NoError(t, err)

	var f *protocol.Frame
	if size == protocol.FlatResponseSize {
		f, err = protocol.DecodeFlat(raw)
	} else {
		f, err = protocol.Decode(raw)
	}
	require.NoError(t, err)
	return f
}

func TestDeviceChunkedWrite(t *testing.T) {
	d := NewDevice(protocol.VariantFlat, "ID809_V1.4")
	frame, err := protocol.BuildGetDeviceInfoCmd()
	require.NoError(t, err)

	for _, b := range frame {
		_, err := d.Write([]byte{b})
		require.NoError(t, err)
	}

	raw := make([]byte, protocol.FlatResponseSize)
	_, err = io.ReadFull(d, raw)
	require.NoError(t, err)

	f, err := protocol.DecodeFlat(raw)
	require.NoError(t, err)
	status, data, err := protocol.ParseResponse(f)
	require.NoError(t, err)
	assert.Equal(t, uint16(protocol.StatusSuccess), status)
	assert.Equal(t, "ID809_V1.4", string(data))
	assert.Len(t, d.WriteSizes(), len(frame))
}

func TestDeviceStructuredResponse(t *testing.T) {
	d := NewDevice(protocol.VariantStructured, "ID809_V1.3")
	frame, err := protocol.BuildTestConnectionCmd()
	require.NoError(t, err)

	f := roundTrip(t, d, frame, protocol.MinFrameSize+protocol.StatusSize)
	assert.Equal(t, protocol.RspPrefix, f.Prefix)
	assert.Equal(t, uint16(protocol.CodeTestConnection), f.Command)
}

func TestDeviceRejectsBadPrefix(t *testing.T) {
	d := NewDevice(protocol.VariantFlat, "ID809_V1.4")
	_, err := d.Write([]byte{0x12, 0x34, 0, 0, 0, 1, 0, 0, 1, 0})
	assert.ErrorIs(t, err, protocol.ErrBadMarker)
}

func TestDeviceReadEmpty(t *testing.T) {
	d := NewDevice(protocol.VariantFlat, "ID809_V1.4")
	_, err := d.Read(make([]byte, 1))
	assert.ErrorIs(t, err, io.EOF)
}

func TestDeviceCooperativeFinger(t *testing.T) {
	d := NewDevice(protocol.VariantFlat, "ID809_V1.4")
	detect, err := protocol.BuildFingerDetectCmd()
	require.NoError(t, err)
	image, err := protocol.BuildGetImageCmd()
	require.NoError(t, err)

	present := func() byte {
		f := roundTrip(t, d, detect, protocol.FlatResponseSize)
		return f.Payload[protocol.StatusSize]
	}

	assert.Equal(t, byte(1), present())
	roundTrip(t, d, image, protocol.FlatResponseSize)
	assert.Equal(t, byte(0), present())
	assert.Equal(t, byte(1), present())
}

func TestDeviceInjectStatus(t *testing.T) {
	d := NewDevice(protocol.VariantFlat, "ID809_V1.4")
	frame, err := protocol.BuildTestConnectionCmd()
	require.NoError(t, err)

	d.InjectStatus(protocol.CodeTestConnection, 2, protocol.ErrFail)

	statuses := make([]uint16, 3)
	for i := range statuses {
		f := roundTrip(t, d, frame, protocol.FlatResponseSize)
		statuses[i], _, err = protocol.ParseResponse(f)
		require.NoError(t, err)
	}
	assert.Equal(t, []uint16{protocol.StatusSuccess, protocol.ErrFail, protocol.StatusSuccess}, statuses)
	assert.Equal(t, 3, d.Count(protocol.CodeTestConnection))
}

func TestDeviceBusy(t *testing.T) {
	d := NewDevice(protocol.VariantFlat, "ID809_V1.4")
	d.SetBusy(2)

	var got []byte
	for i := 0; i < 3; i++ {
		b, err := d.ReadStatusByte()
		require.NoError(t, err)
		got = append(got, b)
	}
	assert.Equal(t, []byte{protocol.FlatMarker, protocol.FlatMarker, 0x00}, got)
	assert.Equal(t, 3, d.StatusReads())
}

func TestClock(t *testing.T) {
	c := NewClock()
	start := c.Now()

	c.Sleep(250 * time.Millisecond)
	c.Sleep(-time.Second)

	assert.Equal(t, 250*time.Millisecond, c.Now().Sub(start))
	assert.Equal(t, 250*time.Millisecond, c.Slept())
}
