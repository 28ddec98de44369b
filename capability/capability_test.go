package capability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfileFromDeviceInfo(t *testing.T) {
	tests := []struct {
		info     string
		want     Capacity
		revision byte
		ok       bool
	}{
		{"ID809_V1.4", Capacity80, '4', true},
		{"ID809_V1.3", Capacity200, '3', true},
		{"ID809_V1.9", Capacity80, '9', false},
		{"", Capacity80, '4', false},
	}

	for _, tt := range tests {
		t.Run(tt.info, func(t *testing.T) {
			p, ok := ProfileFromDeviceInfo(tt.info)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, p.Capacity)
			assert.Equal(t, tt.revision, p.Revision)
		})
	}
}

func TestValidID(t *testing.T) {
	p80 := Profile{Capacity: Capacity80}
	assert.True(t, p80.ValidID(1))
	assert.True(t, p80.ValidID(80))
	assert.False(t, p80.ValidID(0))
	assert.False(t, p80.ValidID(81))

	p200 := Profile{Capacity: Capacity200}
	assert.True(t, p200.ValidID(200))
	assert.False(t, p200.ValidID(201))
}

func TestTranslateLED(t *testing.T) {
	p80 := Profile{Capacity: Capacity80}
	p200 := Profile{Capacity: Capacity200}

	tests := []struct {
		name    string
		profile Profile
		mode    LEDMode
		color   LEDColor
		blink   byte
		want    [4]byte
	}{
		{"80 breathing blue", p80, Breathing, Blue, 0, [4]byte{1, 4, 4, 0}},
		{"80 fast blink red", p80, FastBlink, Red, 3, [4]byte{2, 2, 2, 3}},
		{"200 breathing blue", p200, Breathing, Blue, 0, [4]byte{0x02, 0x81, 0x81, 0x00}},
		{"200 fast blink green", p200, FastBlink, Green, 5, [4]byte{0x04, 0x84, 0x84, 0x05}},
		{"200 keeps on red", p200, KeepsOn, Red, 0, [4]byte{0x01, 0x82, 0x82, 0x00}},
		{"200 off", p200, NormalClose, Yellow, 0, [4]byte{0x00, 0x86, 0x86, 0x00}},
		{"200 fade in cyan", p200, FadeIn, Cyan, 0, [4]byte{0x03, 0x85, 0x85, 0x00}},
		{"200 fade out passes through", p200, FadeOut, Magenta, 0, [4]byte{0x06, 0x83, 0x83, 0x00}},
		{"200 white", p200, SlowBlink, White, 1, [4]byte{0x07, 0x87, 0x87, 0x01}},
		{"200 unknown color", p200, Breathing, LEDColor(42), 0, [4]byte{0x02, 0x87, 0x87, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.profile.TranslateLED(tt.mode, tt.color, tt.blink))
		})
	}
}

func TestTranslateLEDIsTotal(t *testing.T) {
	for _, p := range []Profile{{Capacity: Capacity80}, {Capacity: Capacity200}} {
		for m := 0; m < 256; m++ {
			for c := 0; c < 256; c++ {
				got := p.TranslateLED(LEDMode(m), LEDColor(c), 9)
				if got[3] != 9 || got[1] != got[2] {
					t.Fatalf("%s: mode %d color %d gave % X", p.Capacity, m, c, got)
				}
			}
		}
	}
}

func TestParseLEDNames(t *testing.T) {
	m, ok := ParseLEDMode("breathing")
	assert.True(t, ok)
	assert.Equal(t, Breathing, m)

	c, ok := ParseLEDColor("cyan")
	assert.True(t, ok)
	assert.Equal(t, Cyan, c)

	_, ok = ParseLEDMode("disco")
	assert.False(t, ok)
	assert.Equal(t, "unknown", LEDColor(99).String())
	assert.Equal(t, "fast-blink", FastBlink.String())
}
