package capability

// LEDMode selects the LED animation.
type LEDMode byte

// LED modes as seen by callers. Values match the 80-slot wire encoding.
const (
	Breathing   LEDMode = 1
	FastBlink   LEDMode = 2
	KeepsOn     LEDMode = 3
	NormalClose LEDMode = 4
	FadeIn      LEDMode = 5
	FadeOut     LEDMode = 6
	SlowBlink   LEDMode = 7
)

// LEDColor selects the LED color.
type LEDColor byte

// LED colors as seen by callers. Values match the 80-slot wire encoding.
const (
	Green   LEDColor = 1
	Red     LEDColor = 2
	Yellow  LEDColor = 3
	Blue    LEDColor = 4
	Cyan    LEDColor = 5
	Magenta LEDColor = 6
	White   LEDColor = 7
)

var modeNames = map[LEDMode]string{
	Breathing:   "breathing",
	FastBlink:   "fast-blink",
	KeepsOn:     "keeps-on",
	NormalClose: "off",
	FadeIn:      "fade-in",
	FadeOut:     "fade-out",
	SlowBlink:   "slow-blink",
}

var colorNames = map[LEDColor]string{
	Green:   "green",
	Red:     "red",
	Yellow:  "yellow",
	Blue:    "blue",
	Cyan:    "cyan",
	Magenta: "magenta",
	White:   "white",
}

func (m LEDMode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return "unknown"
}

func (c LEDColor) String() string {
	if s, ok := colorNames[c]; ok {
		return s
	}
	return "unknown"
}

// ParseLEDMode maps a mode name to an LEDMode.
func ParseLEDMode(s string) (LEDMode, bool) {
	for m, name := range modeNames {
		if name == s {
			return m, true
		}
	}
	return 0, false
}

// ParseLEDColor maps a color name to an LEDColor.
func ParseLEDColor(s string) (LEDColor, bool) {
	for c, name := range colorNames {
		if name == s {
			return c, true
		}
	}
	return 0, false
}

// 200-slot modules number modes differently and use a bitmask color byte.
var (
	modes200 = map[LEDMode]byte{
		Breathing:   2,
		FastBlink:   4,
		KeepsOn:     1,
		NormalClose: 0,
		FadeIn:      3,
	}

	colors200 = map[LEDColor]byte{
		Green:   0x84,
		Red:     0x82,
		Yellow:  0x86,
		Blue:    0x81,
		Cyan:    0x85,
		Magenta: 0x83,
	}
)

const color200Default = 0x87

// TranslateLED produces the LED control payload for this module. Every
// combination of inputs yields a payload; values outside the known tables
// pass through (mode) or fall back to white (200-slot color).
func (p Profile) TranslateLED(mode LEDMode, color LEDColor, blink byte) [4]byte {
	if p.Capacity != Capacity200 {
		return [4]byte{byte(mode), byte(color), byte(color), blink}
	}

	m, ok := modes200[mode]
	if !ok {
		m = byte(mode)
	}
	c, ok := colors200[color]
	if !ok {
		c = color200Default
	}
	return [4]byte{m, c, c, blink}
}
