package track

import (
	"fmt"
	"time"

	"github.com/tkrajina/gpxgo/gpx"
)

const creator = "courseplay"

// EncodeGPX renders the points as a GPX 1.1 document with a single track and
// segment. Point times are written in whole seconds: the millisecond part of a
// timestamp is truncated, matching what gpxgo can serialize.
func EncodeGPX(points []ProjectedPoint, name string) ([]byte, error) {
	doc := &gpx.GPX{Creator: creator, Version: "1.1"}
	doc.Tracks = append(doc.Tracks, gpx.GPXTrack{Name: name})
	doc.Tracks[0].Segments = append(doc.Tracks[0].Segments, gpx.GPXTrackSegment{})

	segment := &doc.Tracks[0].Segments[0]
	segment.Points = make([]gpx.GPXPoint, 0, len(points))
	for _, p := range points {
		var pt gpx.GPXPoint
		pt.Latitude = p.Lat
		pt.Longitude = p.Lng
		pt.Timestamp = p.Time().Truncate(time.Second)
		if p.HasElevation {
			pt.Elevation = *gpx.NewNullableFloat64(p.Elevation)
		}
		segment.Points = append(segment.Points, pt)
	}

	out, err := doc.ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		return nil, fmt.Errorf("encode GPX: %w", err)
	}
	return out, nil
}
