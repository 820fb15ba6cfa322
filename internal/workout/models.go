package workout

import (
	"errors"
	"time"
)

var ErrMalformedWorkout = errors.New("malformed workout file")

// Sample is one record of a workout: when it was taken and how far the
// athlete had travelled. Distance is nil when the device did not report one.
type Sample struct {
	Timestamp int64    `json:"timestamp_ms"`
	Distance  *float64 `json:"distance_m,omitempty"`
}

func (s Sample) Time() time.Time {
	return time.UnixMilli(s.Timestamp).UTC()
}

// At is a convenience constructor for a sample with a distance.
func At(timestampMs int64, distanceM float64) Sample {
	d := distanceM
	return Sample{Timestamp: timestampMs, Distance: &d}
}
