package course

import (
	"fmt"
	"io"

	"backend-courseplay/internal/shared/geo"

	"github.com/tkrajina/gpxgo/gpx"
)

// ReadRoute returns the coordinates of the first track of a GPX document,
// segments concatenated in order. Documents without tracks fall back to the
// first route. Elevation, time and metadata are dropped.
func ReadRoute(r io.Reader) ([]geo.LatLng, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read route: %w", err)
	}
	doc, err := gpx.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: parse GPX: %v", ErrInvalidGeometry, err)
	}

	var coords []geo.LatLng
	switch {
	case len(doc.Tracks) > 0:
		for _, segment := range doc.Tracks[0].Segments {
			for _, p := range segment.Points {
				coords = append(coords, geo.LatLng{Lat: p.Latitude, Lng: p.Longitude})
			}
		}
	case len(doc.Routes) > 0:
		for _, p := range doc.Routes[0].Points {
			coords = append(coords, geo.LatLng{Lat: p.Latitude, Lng: p.Longitude})
		}
	}

	if len(coords) == 0 {
		return nil, fmt.Errorf("%w: no track points", ErrInvalidGeometry)
	}
	return coords, nil
}
