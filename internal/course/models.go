package course

import (
	"errors"

	"backend-courseplay/internal/projection"
	"backend-courseplay/internal/shared/geo"
)

var ErrInvalidGeometry = errors.New("invalid course geometry")

// vertex is a route coordinate together with its planar position.
type vertex struct {
	geo.LatLng
	x, y float64
}

// Path is a distance-indexed polyline. It is read-only after Build and may be
// used from several goroutines.
type Path struct {
	crs      projection.CRS
	vertices []vertex
	cum      []float64
}

// Length is the planar length of the whole path in metres.
func (p *Path) Length() float64 {
	return p.cum[len(p.cum)-1]
}

func (p *Path) Len() int {
	return len(p.vertices)
}

func (p *Path) Vertex(i int) geo.LatLng {
	return p.vertices[i].LatLng
}

// CumulativeDistance returns the distance from the start to vertex i.
func (p *Path) CumulativeDistance(i int) float64 {
	return p.cum[i]
}

// Projection names the planar system the path was measured in.
func (p *Path) Projection() string {
	return p.crs.Name()
}
