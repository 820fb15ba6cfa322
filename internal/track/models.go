package track

import "time"

// ProjectedPoint is one point of the output track.
type ProjectedPoint struct {
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	Elevation    float64 `json:"elevation_m"`
	HasElevation bool    `json:"has_elevation"`
	Timestamp    int64   `json:"timestamp_ms"`
}

func (p ProjectedPoint) Time() time.Time {
	return time.UnixMilli(p.Timestamp).UTC()
}
