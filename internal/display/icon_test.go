package display

import (
	"bytes"
	"math"
	"testing"

	"github.com/glucowatch/glucowatch/internal/classify"
)

const (
	testW = 32
	testH = 16
)

func TestEncodeIcon_BackgroundByCategory(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		cat     classify.Category
		verdict classify.Verdict
		want    RGB
	}{
		{"low is red", 2.8, classify.CategoryLow, classify.VerdictLive, ColorRed},
		{"normal is green", 5.5, classify.CategoryNormal, classify.VerdictLive, ColorGreen},
		{"high is amber", 12.1, classify.CategoryHigh, classify.VerdictLive, ColorAmber},
		{"stale keeps category color", 5.5, classify.CategoryNormal, classify.VerdictStale, ColorGreen},
		{"offline forces gray over low", 2.8, classify.CategoryLow, classify.VerdictOffline, ColorGray},
		{"offline forces gray over high", 12.1, classify.CategoryHigh, classify.VerdictOffline, ColorGray},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := EncodeIcon(tc.value, tc.cat, tc.verdict, testW, testH)
			if f.Background != tc.want {
				t.Errorf("background: got %+v, want %+v", f.Background, tc.want)
			}
		})
	}
}

func TestEncodeIcon_TextIsRoundedValue(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{5.4, "5"},
		{5.5, "6"},
		{10.0, "10"},
		{2.8, "3"},
	}
	for _, tc := range tests {
		f := EncodeIcon(tc.value, classify.CategoryNormal, classify.VerdictLive, testW, testH)
		if f.Text != tc.want {
			t.Errorf("EncodeIcon(%v).Text: got %q, want %q", tc.value, f.Text, tc.want)
		}
	}
}

func TestEncodeIcon_HugeValueCapped(t *testing.T) {
	// The float→int conversion must never wrap, no matter what the
	// upstream document claims.
	for _, v := range []float64{1e19, math.MaxFloat64, math.Inf(1)} {
		f := EncodeIcon(v, classify.CategoryHigh, classify.VerdictLive, testW, testH)
		if f.Text != "999" {
			t.Errorf("EncodeIcon(%v).Text: got %q, want 999", v, f.Text)
		}
		if f.Background != ColorAmber {
			t.Errorf("EncodeIcon(%v).Background: got %+v, want amber", v, f.Background)
		}
	}
}

func TestEncodeIcon_InvalidValue(t *testing.T) {
	for _, v := range []float64{math.NaN(), -2.0} {
		f := EncodeIcon(v, classify.CategoryNormal, classify.VerdictLive, testW, testH)
		if f.Text != "--" {
			t.Errorf("invalid text: got %q, want --", f.Text)
		}
		if f.Background != ColorGray {
			t.Errorf("invalid background: got %+v, want gray", f.Background)
		}
	}
}

func TestEncodeIcon_BitmapHasInk(t *testing.T) {
	f := EncodeIcon(5.0, classify.CategoryNormal, classify.VerdictLive, testW, testH)
	set := 0
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			if f.At(x, y) {
				set++
			}
		}
	}
	if set == 0 {
		t.Fatal("bitmap is empty — glyph was not drawn")
	}
	// The "5" glyph has 17 lit pixels in the 5x7 font.
	if set != 17 {
		t.Errorf("lit pixels: got %d, want 17", set)
	}
}

func TestEncodeIcon_GlyphCentered(t *testing.T) {
	f := EncodeIcon(5.0, classify.CategoryNormal, classify.VerdictLive, testW, testH)
	minX, maxX := testW, -1
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			if f.At(x, y) {
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
			}
		}
	}
	leftMargin := minX
	rightMargin := testW - 1 - maxX
	if d := leftMargin - rightMargin; d < -1 || d > 1 {
		t.Errorf("glyph not centered: margins %d/%d", leftMargin, rightMargin)
	}
}

func TestEncode_Idempotent(t *testing.T) {
	opts := Options{IconWidth: testW, IconHeight: testH}
	a := Encode(3.51, classify.CategoryLow, classify.VerdictStale, opts)
	b := Encode(3.51, classify.CategoryLow, classify.VerdictStale, opts)

	if !bytes.Equal(a.Icon.Bitmap, b.Icon.Bitmap) {
		t.Error("icon bitmaps differ across identical encodes")
	}
	if a.Icon.Background != b.Icon.Background || a.Icon.Text != b.Icon.Text {
		t.Error("icon frames differ across identical encodes")
	}
	if a.TriLight != b.TriLight {
		t.Error("trilight frames differ across identical encodes")
	}
	if a.Clock != b.Clock {
		t.Error("clock frames differ across identical encodes")
	}
}
