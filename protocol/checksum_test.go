package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateChecksum(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected uint16
	}{
		{
			name:     "empty data",
			data:     []byte{},
			expected: 0x00FF, // seed only
		},
		{
			name:     "test connection body",
			data:     []byte{0x00, 0x00, 0x00, 0x01, 0x00, 0x00},
			expected: 0x0100,
		},
		{
			name:     "generate slot 1 body",
			data:     []byte{0x00, 0x00, 0x00, 0x60, 0x00, 0x02, 0x01, 0x00},
			expected: 0x0162,
		},
		{
			name:     "search 80 body",
			data:     []byte{0x00, 0x00, 0x00, 0x63, 0x00, 0x06, 0x00, 0x00, 0x01, 0x00, 0x50, 0x00},
			expected: 0x01B9,
		},
		{
			name:     "wraps at 16 bits",
			data:     bytesOf(0xFF, 257),
			expected: 0x00FE,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, calculateChecksum(tt.data))
		})
	}
}

func TestChecksumLEDBody(t *testing.T) {
	body := []byte{0x00, 0x00, 0x00, 0x24, 0x00, 0x04, 0x02, 0x81, 0x81, 0x00}
	assert.Equal(t, uint16(0x022B), calculateChecksum(body))
}

func bytesOf(b byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}

func BenchmarkCalculateChecksum(b *testing.B) {
	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		calculateChecksum(data)
	}
}
