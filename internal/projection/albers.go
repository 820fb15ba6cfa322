package projection

import (
	"math"

	"backend-courseplay/internal/shared/geo"
)

// GRS80 ellipsoid, used by NAD83 based systems.
const (
	grs80A = 6378137.0
	grs80F = 1 / 298.257222101
)

// AlbersEqualArea is the ellipsoidal Albers conic (Snyder, Map Projections: A Working Manual, 14).
type AlbersEqualArea struct {
	name          string
	a, e, e2      float64
	lon0          float64
	falseEasting  float64
	falseNorthing float64

	n, c, rho0 float64
}

// CaliforniaAlbers is EPSG:3310, NAD83 / California Albers.
func CaliforniaAlbers() *AlbersEqualArea {
	return NewAlbers("epsg:3310", grs80A, grs80F, 34, 40.5, 0, -120, 0, -4000000)
}

// NewAlbers builds an Albers projection. Angles are in degrees.
func NewAlbers(name string, a, f, lat1, lat2, lat0, lon0, fe, fn float64) *AlbersEqualArea {
	e2 := f * (2 - f)
	p := &AlbersEqualArea{
		name:          name,
		a:             a,
		e2:            e2,
		e:             math.Sqrt(e2),
		lon0:          deg2rad(lon0),
		falseEasting:  fe,
		falseNorthing: fn,
	}
	phi1, phi2 := deg2rad(lat1), deg2rad(lat2)
	m1, m2 := p.m(phi1), p.m(phi2)
	q1, q2, q0 := p.q(phi1), p.q(phi2), p.q(deg2rad(lat0))

	if math.Abs(phi1-phi2) < 1e-12 {
		p.n = math.Sin(phi1)
	} else {
		p.n = (m1*m1 - m2*m2) / (q2 - q1)
	}
	p.c = m1*m1 + p.n*q1
	p.rho0 = a * math.Sqrt(p.c-p.n*q0) / p.n
	return p
}

func (p *AlbersEqualArea) Name() string { return p.name }

func (p *AlbersEqualArea) m(phi float64) float64 {
	s := math.Sin(phi)
	return math.Cos(phi) / math.Sqrt(1-p.e2*s*s)
}

func (p *AlbersEqualArea) q(phi float64) float64 {
	s := math.Sin(phi)
	es := p.e * s
	return (1 - p.e2) * (s/(1-es*es) - 1/(2*p.e)*math.Log((1-es)/(1+es)))
}

func (p *AlbersEqualArea) Forward(pt geo.LatLng) (float64, float64) {
	rho := p.a * math.Sqrt(p.c-p.n*p.q(deg2rad(pt.Lat))) / p.n
	theta := p.n * (deg2rad(pt.Lng) - p.lon0)
	x := rho*math.Sin(theta) + p.falseEasting
	y := p.rho0 - rho*math.Cos(theta) + p.falseNorthing
	return x, y
}

func (p *AlbersEqualArea) Inverse(x, y float64) geo.LatLng {
	dx := x - p.falseEasting
	dy := p.rho0 - (y - p.falseNorthing)
	rho := math.Hypot(dx, dy)
	theta := math.Atan2(dx, dy)
	if p.n < 0 {
		rho = -rho
		theta = math.Atan2(-dx, -dy)
	}
	q := (p.c - rho*rho*p.n*p.n/(p.a*p.a)) / p.n

	phi := math.Asin(q / 2)
	for i := 0; i < 15; i++ {
		s := math.Sin(phi)
		es := p.e * s
		one := 1 - es*es
		delta := one * one / (2 * math.Cos(phi)) *
			(q/(1-p.e2) - s/one + 1/(2*p.e)*math.Log((1-es)/(1+es)))
		phi += delta
		if math.Abs(delta) < 1e-14 {
			break
		}
	}

	return geo.LatLng{
		Lat: rad2deg(phi),
		Lng: normalizeLng(rad2deg(p.lon0 + theta/p.n)),
	}
}
