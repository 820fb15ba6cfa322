package course

import (
	"math"
	"sort"

	"backend-courseplay/internal/shared/geo"
)

// Normalize folds a distance into [0, Length()). Distances past the end
// repeat the course as laps; negative distances count back from the start.
// Non-finite input maps to the start.
func (p *Path) Normalize(distance float64) float64 {
	if math.IsNaN(distance) || math.IsInf(distance, 0) {
		return 0
	}
	total := p.Length()
	d := math.Mod(distance, total)
	if d < 0 {
		d += total
	}
	// -tiny + total can round up to total
	if d >= total {
		d = 0
	}
	return d
}

// segment returns i with cum[i] <= d <= cum[i+1]. On a shared vertex the
// segment ending at d wins.
func (p *Path) segment(d float64) int {
	j := sort.SearchFloat64s(p.cum, d)
	i := j - 1
	if i < 0 {
		i = 0
	}
	if last := len(p.cum) - 2; i > last {
		i = last
	}
	return i
}

// Locate resolves a workout distance to the coordinate that distance lies at
// along the course, wrapping laps.
func Locate(p *Path, distance float64) geo.LatLng {
	d := p.Normalize(distance)
	i := p.segment(d)

	segLen := p.cum[i+1] - p.cum[i]
	t := 0.0
	if segLen > 0 {
		t = (d - p.cum[i]) / segLen
	}

	switch {
	case t <= 0:
		return p.vertices[i].LatLng
	case t >= 1:
		return p.vertices[i+1].LatLng
	}

	a, b := p.vertices[i], p.vertices[i+1]
	x := a.x + (b.x-a.x)*t
	y := a.y + (b.y-a.y)*t
	return p.crs.Inverse(x, y)
}
