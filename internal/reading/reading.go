package reading

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Parse failure classes. Both abort only the current cycle; the previous
// reading stays on display with a degraded liveness verdict.
var (
	// ErrMalformed means the payload was not decodable JSON.
	ErrMalformed = errors.New("reading: malformed payload")

	// ErrMissingValue means the payload decoded but carried no glucose value
	// in either the nested or the flat form.
	ErrMissingValue = errors.New("reading: missing glucose value")
)

// Reading is one parsed telemetry sample. Immutable once constructed.
type Reading struct {
	// Value is the glucose concentration in mmol/L.
	Value float64 `json:"value"`

	// DeviceTime is the timestamp the sensor attached to the sample.
	// Zero when the document carried none.
	DeviceTime time.Time `json:"device_time,omitempty"`

	// FetchedAt is when this process fetched the sample.
	FetchedAt time.Time `json:"fetched_at"`
}

// HasDeviceTime reports whether the sample carried its own timestamp.
func (r Reading) HasDeviceTime() bool {
	return !r.DeviceTime.IsZero()
}

// document mirrors the store's wire shape. Pointer fields distinguish
// absent from zero.
type document struct {
	Main *struct {
		Glucose   *float64 `json:"glucose"`
		Timestamp *int64   `json:"timestamp"`
		Time      string   `json:"time"`
	} `json:"main"`
	Glucose       *float64 `json:"glucose"`
	FetchedAt     string   `json:"fetched_at"`
	FetchedAtUnix *int64   `json:"fetched_at_unix"`
}

// Parse decodes one store document into a Reading.
//
// The nested main.glucose form is preferred; a top-level glucose field is
// accepted when main is absent. fetchedAt records when this process received
// the payload and is always set on the returned Reading.
func Parse(data []byte, fetchedAt time.Time) (Reading, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Reading{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	r := Reading{FetchedAt: fetchedAt}

	switch {
	case doc.Main != nil && doc.Main.Glucose != nil:
		r.Value = *doc.Main.Glucose
		if doc.Main.Timestamp != nil {
			r.DeviceTime = time.Unix(*doc.Main.Timestamp, 0).UTC()
		}
	case doc.Glucose != nil:
		r.Value = *doc.Glucose
	default:
		return Reading{}, ErrMissingValue
	}

	return r, nil
}
