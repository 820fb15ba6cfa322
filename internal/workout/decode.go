package workout

import (
	"bufio"
	"fmt"
	"io"

	"github.com/tormoder/fit"
)

// FIT stores record distance in centimetres; all bits set means the field is invalid.
const (
	fitDistanceScale   = 100.0
	fitDistanceInvalid = 0xFFFFFFFF
)

// Decode reads a FIT activity file and returns its record messages as samples,
// in file order.
func Decode(r io.Reader) ([]Sample, error) {
	file, err := fit.Decode(bufio.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedWorkout, err)
	}
	activity, err := file.Activity()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedWorkout, err)
	}
	return FromRecords(activity.Records), nil
}

// FromRecords converts decoded record messages into samples.
func FromRecords(records []*fit.RecordMsg) []Sample {
	samples := make([]Sample, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		s := Sample{Timestamp: rec.Timestamp.UnixMilli()}
		if rec.Distance != fitDistanceInvalid {
			d := float64(rec.Distance) / fitDistanceScale
			s.Distance = &d
		}
		samples = append(samples, s)
	}
	return samples
}

// Usable counts the samples that carry a distance.
func Usable(samples []Sample) int {
	n := 0
	for _, s := range samples {
		if s.Distance != nil {
			n++
		}
	}
	return n
}
