package classify

// Category is the clinical range bucket of a glucose value.
type Category string

// Range categories returned by Range.
const (
	CategoryLow    Category = "low"
	CategoryNormal Category = "normal"
	CategoryHigh   Category = "high"
)

// RangeThresholds holds the clinical range boundaries in mmol/L.
type RangeThresholds struct {
	Low  float64
	High float64
}

// Range buckets value against t. Values equal to a threshold classify
// normal: the normal band is the closed interval [Low, High].
//
// Range is total over float64. NaN compares false against both thresholds
// and therefore lands in normal; callers that can see invalid values (NaN,
// negatives) must route them through the display layer's invalid path before
// classification matters.
func Range(value float64, t RangeThresholds) Category {
	switch {
	case value < t.Low:
		return CategoryLow
	case value > t.High:
		return CategoryHigh
	default:
		return CategoryNormal
	}
}
