package display

import (
	"fmt"
	"math"
)

// Seven-segment masks, bit layout gfedcba (bit 0 = segment a).
var segDigits = [10]byte{
	0x3F, // 0
	0x06, // 1
	0x5B, // 2
	0x4F, // 3
	0x66, // 4
	0x6D, // 5
	0x7D, // 6
	0x07, // 7
	0x7F, // 8
	0x6F, // 9
}

// segBlank turns all segments off (leading hour digit below 10).
const segBlank byte = 0x00

// ClockFrame is the 4-digit 7-segment surface state.
type ClockFrame struct {
	// Digits holds the segment masks left to right: hours tens, hours ones,
	// minutes tens, minutes ones.
	Digits [4]byte `json:"digits"`

	// Colon is the separator between the second and third digit.
	// Always on: the surface has no other way to signal it is driven.
	Colon bool `json:"colon"`

	// Text is the human-readable rendering, e.g. "3:51".
	Text string `json:"text"`
}

// EncodeClock renders value as HOURS:MINUTES.
//
// HOURS = floor(value), MINUTES = round(100·frac). A rounded minute count of
// 100 carries into the next hour. Hours above the display's two-digit
// capacity render the fixed all-nines overflow pattern; invalid values
// render the fixed zero pattern.
func EncodeClock(value float64) ClockFrame {
	if invalid(value) {
		return clockFrame(0, 0)
	}

	// Overflow is decided in float space: values past int range would
	// wrap during conversion.
	if math.Floor(value) > 99 {
		return overflowFrame()
	}

	hours := int(math.Floor(value))
	minutes := int(math.Round((value - math.Floor(value)) * 100))
	if minutes == 100 {
		minutes = 0
		hours++
	}
	if hours > 99 {
		return overflowFrame()
	}
	return clockFrame(hours, minutes)
}

func clockFrame(hours, minutes int) ClockFrame {
	f := ClockFrame{
		Colon: true,
		Text:  fmt.Sprintf("%d:%02d", hours, minutes),
	}
	if hours >= 10 {
		f.Digits[0] = segDigits[hours/10]
	} else {
		f.Digits[0] = segBlank
	}
	f.Digits[1] = segDigits[hours%10]
	f.Digits[2] = segDigits[minutes/10]
	f.Digits[3] = segDigits[minutes%10]
	return f
}

func overflowFrame() ClockFrame {
	return ClockFrame{
		Digits: [4]byte{segDigits[9], segDigits[9], segDigits[9], segDigits[9]},
		Colon:  true,
		Text:   "99:99",
	}
}
