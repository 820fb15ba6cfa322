package course

import (
	"fmt"
	"math"

	"backend-courseplay/internal/projection"
	"backend-courseplay/internal/shared/geo"

	"gonum.org/v1/gonum/floats"
)

// Build projects the coordinates with crs and indexes them by cumulative
// planar distance.
func Build(coords []geo.LatLng, crs projection.CRS) (*Path, error) {
	if len(coords) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 coordinates, got %d", ErrInvalidGeometry, len(coords))
	}
	if crs == nil {
		return nil, fmt.Errorf("%w: no projection", ErrInvalidGeometry)
	}

	vertices := make([]vertex, len(coords))
	steps := make([]float64, len(coords))
	for i, c := range coords {
		if !c.Valid() {
			return nil, fmt.Errorf("%w: coordinate %d out of range: %v", ErrInvalidGeometry, i, c)
		}
		x, y := crs.Forward(c)
		vertices[i] = vertex{LatLng: c, x: x, y: y}
		if i > 0 {
			steps[i] = math.Hypot(x-vertices[i-1].x, y-vertices[i-1].y)
		}
	}

	cum := make([]float64, len(steps))
	floats.CumSum(cum, steps)

	total := cum[len(cum)-1]
	if !(total > 0) || math.IsInf(total, 0) {
		return nil, fmt.Errorf("%w: total length is %v", ErrInvalidGeometry, total)
	}

	return &Path{crs: crs, vertices: vertices, cum: cum}, nil
}
