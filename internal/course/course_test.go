package course

import (
	"errors"
	"math"
	"testing"

	"backend-courseplay/internal/projection"
	"backend-courseplay/internal/shared/geo"
)

const degTol = 1e-9

func near(a, b geo.LatLng, tol float64) bool {
	return math.Abs(a.Lat-b.Lat) <= tol && math.Abs(a.Lng-b.Lng) <= tol
}

func straightPath(t *testing.T) *Path {
	t.Helper()
	coords := []geo.LatLng{{Lat: 46.0, Lng: 7.0}, {Lat: 46.0, Lng: 7.01}}
	p, err := Build(coords, projection.NewLocalTM(7.0))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return p
}

func loopPath(t *testing.T) *Path {
	t.Helper()
	coords := []geo.LatLng{
		{Lat: 46.000, Lng: 7.000},
		{Lat: 46.000, Lng: 7.010},
		{Lat: 46.005, Lng: 7.010},
		{Lat: 46.005, Lng: 7.010},
		{Lat: 46.005, Lng: 7.000},
		{Lat: 46.000, Lng: 7.000},
	}
	p, err := Build(coords, projection.NewLocalTM(7.0))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return p
}

func TestBuildCumulativeDistance(t *testing.T) {
	p := loopPath(t)
	if p.Len() != 6 {
		t.Fatalf("expected 6 vertices, got %d", p.Len())
	}
	if p.CumulativeDistance(0) != 0 {
		t.Fatalf("cum[0] must be zero")
	}
	for i := 1; i < p.Len(); i++ {
		prev, cur := p.vertices[i-1], p.vertices[i]
		step := math.Hypot(cur.x-prev.x, cur.y-prev.y)
		if math.Abs(p.CumulativeDistance(i)-p.CumulativeDistance(i-1)-step) > 1e-6 {
			t.Fatalf("cum[%d] does not accumulate the planar step", i)
		}
	}
	if p.CumulativeDistance(3) != p.CumulativeDistance(2) {
		t.Fatalf("duplicate vertex should add zero length")
	}
	ground := geo.PolylineLengthM([]geo.LatLng{p.Vertex(0), p.Vertex(1), p.Vertex(2), p.Vertex(4), p.Vertex(5)})
	if math.Abs(p.Length()-ground)/ground > 0.005 {
		t.Fatalf("planar length %v too far from ground length %v", p.Length(), ground)
	}
}

func TestBuildInvalidGeometry(t *testing.T) {
	crs := projection.NewLocalTM(7.0)
	cases := map[string][]geo.LatLng{
		"empty":      nil,
		"single":     {{Lat: 46, Lng: 7}},
		"duplicates": {{Lat: 46, Lng: 7}, {Lat: 46, Lng: 7}, {Lat: 46, Lng: 7}},
		"range":      {{Lat: 46, Lng: 7}, {Lat: 95, Lng: 7}},
		"nan":        {{Lat: 46, Lng: 7}, {Lat: math.NaN(), Lng: 7}},
	}
	for name, coords := range cases {
		if _, err := Build(coords, crs); !errors.Is(err, ErrInvalidGeometry) {
			t.Fatalf("%s: expected ErrInvalidGeometry, got %v", name, err)
		}
	}
	if _, err := Build([]geo.LatLng{{Lat: 46, Lng: 7}, {Lat: 46, Lng: 7.1}}, nil); !errors.Is(err, ErrInvalidGeometry) {
		t.Fatalf("expected ErrInvalidGeometry without projection")
	}
}

func TestLocateStraightSegment(t *testing.T) {
	p := straightPath(t)
	l := p.Length()

	if got := Locate(p, 0); got != p.Vertex(0) {
		t.Fatalf("locate(0) = %v, want %v", got, p.Vertex(0))
	}
	if got := Locate(p, l); got != p.Vertex(0) {
		t.Fatalf("locate(L) = %v, want start %v", got, p.Vertex(0))
	}

	mid := Locate(p, l/2)
	x, y := p.crs.Forward(mid)
	a, b := p.vertices[0], p.vertices[1]
	if math.Abs(x-(a.x+b.x)/2) > 1e-6 || math.Abs(y-(a.y+b.y)/2) > 1e-6 {
		t.Fatalf("locate(L/2) is not the planar midpoint: %v", mid)
	}
	if math.Abs(mid.Lng-7.005) > 1e-6 || math.Abs(mid.Lat-46.0) > 1e-5 {
		t.Fatalf("unexpected midpoint %v", mid)
	}

	if got := Locate(p, 1.5*l); !near(got, mid, degTol) {
		t.Fatalf("locate(1.5L) = %v, want %v", got, mid)
	}
}

func TestLocateWraparound(t *testing.T) {
	p := loopPath(t)
	l := p.Length()
	for _, d := range []float64{0, 1, 17.5, l / 3, l / 2, l - 1} {
		base := Locate(p, d)
		for _, k := range []float64{-3, -1, 1, 2, 10} {
			if got := Locate(p, d+k*l); !near(got, base, degTol) {
				t.Fatalf("locate(%v + %v*L) = %v, want %v", d, k, got, base)
			}
		}
	}
}

func TestLocateNegativeDistance(t *testing.T) {
	p := loopPath(t)
	l := p.Length()
	if got, want := Locate(p, -0.25*l), Locate(p, 0.75*l); !near(got, want, degTol) {
		t.Fatalf("locate(-L/4) = %v, want %v", got, want)
	}
	if d := p.Normalize(-1e-300); d < 0 || d >= l {
		t.Fatalf("normalized distance %v outside [0, L)", d)
	}
}

func TestLocateVertices(t *testing.T) {
	p := loopPath(t)
	for i := 1; i < p.Len()-1; i++ {
		got := Locate(p, p.CumulativeDistance(i))
		if !near(got, p.Vertex(i), 1e-6) {
			t.Fatalf("locate(cum[%d]) = %v, want %v", i, got, p.Vertex(i))
		}
	}
}

func TestLocateSharedVertexPrefersLowerSegment(t *testing.T) {
	p := loopPath(t)
	if got := p.segment(p.CumulativeDistance(1)); got != 0 {
		t.Fatalf("segment at cum[1] = %d, want 0", got)
	}
	// cum[2] == cum[3]: the first segment ending there wins
	if got := p.segment(p.CumulativeDistance(3)); got != 1 {
		t.Fatalf("segment at duplicate vertex = %d, want 1", got)
	}
	if got := p.segment(0); got != 0 {
		t.Fatalf("segment at 0 = %d, want 0", got)
	}
}

func TestLocateMonotonicAlongSegment(t *testing.T) {
	p := loopPath(t)
	start, end := p.CumulativeDistance(0), p.CumulativeDistance(1)
	prev := Locate(p, start)
	for s := 1; s <= 20; s++ {
		d := start + (end-start)*float64(s)/20
		cur := Locate(p, d)
		if cur.Lng < prev.Lng {
			t.Fatalf("longitude moved backwards at %v", d)
		}
		prev = cur
	}
	if !near(prev, p.Vertex(1), 1e-6) {
		t.Fatalf("sweep did not end at vertex 1: %v", prev)
	}
}

func TestLocateNonFinite(t *testing.T) {
	p := loopPath(t)
	if got := Locate(p, math.NaN()); got != p.Vertex(0) {
		t.Fatalf("expected start for NaN, got %v", got)
	}
	if got := Locate(p, math.Inf(1)); got != p.Vertex(0) {
		t.Fatalf("expected start for +Inf, got %v", got)
	}
}

func TestPathProjectionName(t *testing.T) {
	p := straightPath(t)
	if got := p.Projection(); got != projection.NewLocalTM(7.0).Name() {
		t.Fatalf("unexpected projection name %q", got)
	}
}
