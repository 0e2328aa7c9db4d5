package classify

import "testing"

var defaultRange = RangeThresholds{Low: 3.9, High: 10.0}

func TestRange(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  Category
	}{
		{"well below low", 2.1, CategoryLow},
		{"just below low", 3.89, CategoryLow},
		{"low boundary is normal", 3.9, CategoryNormal},
		{"mid range", 5.5, CategoryNormal},
		{"high boundary is normal", 10.0, CategoryNormal},
		{"just above high", 10.01, CategoryHigh},
		{"well above high", 22.0, CategoryHigh},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Range(tc.value, defaultRange); got != tc.want {
				t.Errorf("Range(%v): got %q, want %q", tc.value, got, tc.want)
			}
		})
	}
}

func TestRange_RetunedThresholds(t *testing.T) {
	tight := RangeThresholds{Low: 4.5, High: 8.0}
	if got := Range(4.2, tight); got != CategoryLow {
		t.Errorf("Range(4.2) with low=4.5: got %q, want low", got)
	}
	if got := Range(8.5, tight); got != CategoryHigh {
		t.Errorf("Range(8.5) with high=8.0: got %q, want high", got)
	}
}
