package protocol

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeResponse(t *testing.T) {
	raw, err := EncodeResponse(CodeTestConnection, StatusSuccess, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x55, 0xAA, 0x00, 0x00, 0x00, 0x01, 0x00, 0x02, 0x00, 0x00, 0x01, 0x02}, raw)
}

func TestEncodeFlatResponse(t *testing.T) {
	raw, err := EncodeFlatResponse(CodeSearch, StatusSuccess, []byte{5})
	require.NoError(t, err)
	require.Len(t, raw, FlatResponseSize)

	want := []byte{0xEE, 0x00, 0x00, 0x00, 0x63, 0x00, 0x03, 0x00, 0x00, 0x05, 0x01, 0x6A}
	assert.Equal(t, want, raw[:len(want)])
	assert.Equal(t, make([]byte, FlatResponseSize-len(want)), raw[len(want):])
}

func TestEncodeFlatResponseTooLarge(t *testing.T) {
	_, err := EncodeFlatResponse(CodeGetDeviceInfo, StatusSuccess, make([]byte, FlatResponseSize))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not fit")
}

func TestDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		t       FrameType
		cmd     uint16
		payload []byte
	}{
		{"empty command", TypeCommand, CodeTestConnection, []byte{}},
		{"search", TypeCommand, CodeSearch, []byte{0, 0, 1, 0, 80, 0}},
		{"data frame", TypeData, 0x0010, []byte{0xDE, 0xAD, 0xBE, 0xEF}},
		{"max payload", TypeCommand, CodeSetModuleSN, bytesOf(0xFF, MaxPayloadSize)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := Encode(tt.t, tt.cmd, tt.payload)
			require.NoError(t, err)

			f, err := Decode(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.cmd, f.Command)
			assert.Equal(t, tt.payload, f.Payload)
			assert.Zero(t, f.SessionID)
			assert.Zero(t, f.DestID)
		})
	}
}

func TestDecodeIgnoresTrailingBytes(t *testing.T) {
	raw, err := EncodeResponse(CodeFingerDetect, StatusSuccess, []byte{1})
	require.NoError(t, err)

	f, err := Decode(append(raw, 0x00, 0x00, 0x00))
	require.NoError(t, err)
	assert.Equal(t, RspPrefix, f.Prefix)
	assert.Equal(t, []byte{0, 0, 1}, f.Payload)
}

func TestDecodeDetectsEveryByteCorruption(t *testing.T) {
	raw, err := EncodeResponse(CodeSearch, StatusSuccess, []byte{7})
	require.NoError(t, err)

	// Prefix and LEN bytes fail framing checks; everything else must be
	// caught by the checksum.
	for i := 2; i < len(raw); i++ {
		if i == 6 || i == 7 {
			continue
		}
		corrupt := append([]byte(nil), raw...)
		corrupt[i] ^= 0x01

		_, err := Decode(corrupt)
		var cm *ChecksumMismatchError
		require.True(t, errors.As(err, &cm), "byte %d: got %v", i, err)
		require.NotNil(t, cm.Frame)
	}
}

func TestDecodeErrors(t *testing.T) {
	valid, err := EncodeResponse(CodeSearch, StatusSuccess, []byte{7})
	require.NoError(t, err)

	tests := []struct {
		name string
		raw  []byte
		want error
	}{
		{"empty", nil, ErrTruncated},
		{"one byte", []byte{0x55}, ErrTruncated},
		{"bad prefix", []byte{0x12, 0x34, 0, 0, 0, 1, 0, 0, 1, 0}, ErrBadMarker},
		{"short header", valid[:6], ErrTruncated},
		{"short payload", valid[:len(valid)-1], ErrTruncated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Decode(tt.raw)
			assert.Nil(t, f)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsFrameError(err))
		})
	}
}

func TestDecodeFlat(t *testing.T) {
	raw, err := EncodeFlatResponse(CodeGetEmptyID, StatusSuccess, []byte{12})
	require.NoError(t, err)

	f, err := DecodeFlat(raw)
	require.NoError(t, err)
	assert.Equal(t, uint16(FlatMarker), f.Prefix)
	assert.Equal(t, uint16(CodeGetEmptyID), f.Command)
	assert.Equal(t, []byte{0, 0, 12}, f.Payload)
}

func TestDecodeFlatErrors(t *testing.T) {
	valid, err := EncodeFlatResponse(CodeSearch, StatusSuccess, []byte{3})
	require.NoError(t, err)

	corrupt := append([]byte(nil), valid...)
	corrupt[9] = 4

	lying := append([]byte(nil), valid...)
	lying[6] = 0x40

	t.Run("empty", func(t *testing.T) {
		_, err := DecodeFlat(nil)
		assert.ErrorIs(t, err, ErrTruncated)
	})
	t.Run("busy marker absent", func(t *testing.T) {
		_, err := DecodeFlat(append([]byte{0x00}, valid[1:]...))
		assert.ErrorIs(t, err, ErrBadMarker)
	})
	t.Run("short block", func(t *testing.T) {
		_, err := DecodeFlat(valid[:5])
		assert.ErrorIs(t, err, ErrTruncated)
	})
	t.Run("length past block", func(t *testing.T) {
		_, err := DecodeFlat(lying)
		assert.ErrorIs(t, err, ErrTruncated)
	})
	t.Run("checksum", func(t *testing.T) {
		_, err := DecodeFlat(corrupt)
		var cm *ChecksumMismatchError
		require.ErrorAs(t, err, &cm)
		assert.Equal(t, []byte{0, 0, 4}, cm.Frame.Payload)
		assert.Contains(t, cm.Error(), "checksum mismatch")
	})
}

func TestPayloadLength(t *testing.T) {
	raw, err := EncodeResponse(CodeGetDeviceInfo, StatusSuccess, []byte("ID809_V1.4"))
	require.NoError(t, err)

	n, err := PayloadLength(raw[:HeaderSize])
	require.NoError(t, err)
	assert.Equal(t, StatusSize+10, n)

	_, err = PayloadLength(raw[:4])
	assert.ErrorIs(t, err, ErrTruncated)

	cmd, err := BuildTestConnectionCmd()
	require.NoError(t, err)
	_, err = PayloadLength(cmd[:HeaderSize])
	assert.ErrorIs(t, err, ErrBadMarker)
}
