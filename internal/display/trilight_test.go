package display

import (
	"testing"

	"github.com/glucowatch/glucowatch/internal/classify"
)

func TestEncodeTriLight_ExactlyOneLit(t *testing.T) {
	tests := []struct {
		cat  classify.Category
		want TriLight
	}{
		{classify.CategoryLow, TriLight{Red: true}},
		{classify.CategoryNormal, TriLight{Green: true}},
		{classify.CategoryHigh, TriLight{Amber: true}},
	}
	for _, tc := range tests {
		t.Run(string(tc.cat), func(t *testing.T) {
			got := EncodeTriLight(tc.cat)
			if got != tc.want {
				t.Errorf("EncodeTriLight(%q): got %+v, want %+v", tc.cat, got, tc.want)
			}
			lit := 0
			for _, on := range []bool{got.Red, got.Amber, got.Green} {
				if on {
					lit++
				}
			}
			if lit != 1 {
				t.Errorf("lit count: got %d, want exactly 1", lit)
			}
		})
	}
}
