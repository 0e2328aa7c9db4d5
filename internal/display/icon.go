package display

import (
	"math"
	"strconv"

	"github.com/glucowatch/glucowatch/internal/classify"
)

const (
	glyphWidth  = 5
	glyphHeight = 7
	glyphGap    = 1

	// maxIconValue caps the rendered integer. Anything past it is far
	// outside clinical range, and the cap keeps the float→int conversion
	// from wrapping on absurd upstream values.
	maxIconValue = 999
)

// font5x7 holds the built-in glyphs, one row byte per scanline, low 5 bits
// used, MSB-side leftmost.
var font5x7 = map[rune][glyphHeight]byte{
	'0': {0b01110, 0b10001, 0b10011, 0b10101, 0b11001, 0b10001, 0b01110},
	'1': {0b00100, 0b01100, 0b00100, 0b00100, 0b00100, 0b00100, 0b01110},
	'2': {0b01110, 0b10001, 0b00001, 0b00010, 0b00100, 0b01000, 0b11111},
	'3': {0b11111, 0b00010, 0b00100, 0b00010, 0b00001, 0b10001, 0b01110},
	'4': {0b00010, 0b00110, 0b01010, 0b10010, 0b11111, 0b00010, 0b00010},
	'5': {0b11111, 0b10000, 0b11110, 0b00001, 0b00001, 0b10001, 0b01110},
	'6': {0b00110, 0b01000, 0b10000, 0b11110, 0b10001, 0b10001, 0b01110},
	'7': {0b11111, 0b00001, 0b00010, 0b00100, 0b01000, 0b01000, 0b01000},
	'8': {0b01110, 0b10001, 0b10001, 0b01110, 0b10001, 0b10001, 0b01110},
	'9': {0b01110, 0b10001, 0b10001, 0b01111, 0b00001, 0b00010, 0b01100},
	'-': {0b00000, 0b00000, 0b00000, 0b01110, 0b00000, 0b00000, 0b00000},
}

// IconFrame is the small raster surface state: a solid background color and
// a monochrome foreground bitmap with the rounded value centered.
type IconFrame struct {
	Background RGB    `json:"background"`
	Text       string `json:"text"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`

	// Bitmap is the foreground mask, row-major, one bit per pixel, each row
	// padded to a whole byte, MSB-side leftmost.
	Bitmap []byte `json:"bitmap"`
}

// At reports whether the foreground pixel at (x, y) is set.
func (f IconFrame) At(x, y int) bool {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return false
	}
	stride := (f.Width + 7) / 8
	b := f.Bitmap[y*stride+x/8]
	return b&(0x80>>(x%8)) != 0
}

// EncodeIcon renders the rounded value centered on a category-colored
// background. An offline verdict forces the neutral gray background no
// matter the category, so a stale picture is never mistaken for a current
// one. Invalid values render "--" on gray.
func EncodeIcon(value float64, cat classify.Category, verdict classify.Verdict, width, height int) IconFrame {
	f := IconFrame{
		Width:  width,
		Height: height,
		Bitmap: make([]byte, ((width+7)/8)*height),
	}

	if invalid(value) {
		f.Background = ColorGray
		f.Text = "--"
	} else {
		f.Background = categoryColor(cat)
		if verdict == classify.VerdictOffline {
			f.Background = ColorGray
		}
		rounded := math.Round(value)
		if rounded > maxIconValue {
			rounded = maxIconValue
		}
		f.Text = strconv.Itoa(int(rounded))
	}

	drawCentered(&f, f.Text)
	return f
}

// drawCentered rasterizes text into the frame's bitmap, centered on both
// axes. Glyphs outside the raster are clipped; unknown runes are skipped,
// keeping whatever fits legible rather than failing the frame.
func drawCentered(f *IconFrame, text string) {
	textWidth := len(text)*glyphWidth + (len(text)-1)*glyphGap
	x := (f.Width - textWidth) / 2
	y := (f.Height - glyphHeight) / 2

	for _, r := range text {
		glyph, ok := font5x7[r]
		if !ok {
			x += glyphWidth + glyphGap
			continue
		}
		for row := 0; row < glyphHeight; row++ {
			for col := 0; col < glyphWidth; col++ {
				if glyph[row]&(1<<(glyphWidth-1-col)) != 0 {
					setPixel(f, x+col, y+row)
				}
			}
		}
		x += glyphWidth + glyphGap
	}
}

func setPixel(f *IconFrame, x, y int) {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return
	}
	stride := (f.Width + 7) / 8
	f.Bitmap[y*stride+x/8] |= 0x80 >> (x % 8)
}
