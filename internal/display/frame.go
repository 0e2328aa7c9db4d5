package display

import (
	"math"

	"github.com/glucowatch/glucowatch/internal/classify"
)

// RGB is a display background color.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Surface colors keyed by range category, plus the offline override.
var (
	ColorRed   = RGB{R: 0xC6, G: 0x28, B: 0x28}
	ColorGreen = RGB{R: 0x2E, G: 0x7D, B: 0x32}
	ColorAmber = RGB{R: 0xFF, G: 0x8F, B: 0x00}
	ColorGray  = RGB{R: 0x9E, G: 0x9E, B: 0x9E}
)

// categoryColor maps a range category to its surface color.
func categoryColor(cat classify.Category) RGB {
	switch cat {
	case classify.CategoryLow:
		return ColorRed
	case classify.CategoryHigh:
		return ColorAmber
	default:
		return ColorGreen
	}
}

// Bundle groups one frame per surface, all computed from the same inputs.
type Bundle struct {
	Icon     IconFrame  `json:"icon"`
	TriLight TriLight   `json:"trilight"`
	Clock    ClockFrame `json:"clock"`
}

// Options holds surface dimensions fixed at startup.
type Options struct {
	IconWidth  int
	IconHeight int
}

// Encode renders value into every surface at once.
func Encode(value float64, cat classify.Category, verdict classify.Verdict, opts Options) Bundle {
	return Bundle{
		Icon:     EncodeIcon(value, cat, verdict, opts.IconWidth, opts.IconHeight),
		TriLight: EncodeTriLight(cat),
		Clock:    EncodeClock(value),
	}
}

// invalid reports whether value has no defined clinical meaning.
// Invalid values bypass classification on every surface.
func invalid(value float64) bool {
	return math.IsNaN(value) || value < 0
}
