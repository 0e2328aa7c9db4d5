package display

import "github.com/glucowatch/glucowatch/internal/classify"

// TriLight is the discrete three-LED surface state. Exactly one light is on.
// Liveness is not representable on this surface; the accepted limitation is
// that an offline trio keeps showing the last category.
type TriLight struct {
	Red   bool `json:"red"`
	Amber bool `json:"amber"`
	Green bool `json:"green"`
}

// EncodeTriLight selects the single lit LED by range category.
func EncodeTriLight(cat classify.Category) TriLight {
	switch cat {
	case classify.CategoryLow:
		return TriLight{Red: true}
	case classify.CategoryHigh:
		return TriLight{Amber: true}
	default:
		return TriLight{Green: true}
	}
}
