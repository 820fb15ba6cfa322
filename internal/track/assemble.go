package track

import (
	"context"
	"fmt"
	"math"

	"backend-courseplay/internal/course"
	"backend-courseplay/internal/elevation"
	"backend-courseplay/internal/shared/geo"
	"backend-courseplay/internal/workout"
)

// Assemble places every sample that carries a distance on the course, looks up
// all elevations in one batch and returns the points in sample order. Samples
// without a distance are skipped. An empty result is not an error.
func Assemble(ctx context.Context, path *course.Path, samples []workout.Sample, lookup elevation.Lookup, policy Policy) ([]ProjectedPoint, error) {
	points := make([]ProjectedPoint, 0, workout.Usable(samples))
	coords := make([]geo.LatLng, 0, cap(points))
	for _, s := range samples {
		if s.Distance == nil || math.IsNaN(*s.Distance) || math.IsInf(*s.Distance, 0) {
			continue
		}
		c := course.Locate(path, *s.Distance)
		coords = append(coords, c)
		points = append(points, ProjectedPoint{Lat: c.Lat, Lng: c.Lng, Timestamp: s.Timestamp})
	}
	if len(points) == 0 {
		return points, nil
	}

	results, err := lookup.Elevations(ctx, coords)
	if err != nil {
		results = failAll(len(coords), err)
	}
	if len(results) != len(coords) {
		return nil, fmt.Errorf("%w: got %d elevations for %d points", elevation.ErrUnavailable, len(results), len(coords))
	}

	return applyElevations(points, results, policy)
}

func failAll(n int, err error) []elevation.Result {
	results := make([]elevation.Result, n)
	for i := range results {
		results[i] = elevation.Result{Err: err}
	}
	return results
}

func applyElevations(points []ProjectedPoint, results []elevation.Result, policy Policy) ([]ProjectedPoint, error) {
	for i, r := range results {
		if r.Err == nil {
			points[i].Elevation = r.Meters
			points[i].HasElevation = true
			continue
		}

		switch policy.Mode {
		case ReusePrevious:
			if i > 0 && points[i-1].HasElevation {
				points[i].Elevation = points[i-1].Elevation
				points[i].HasElevation = true
			}
		case Sentinel:
			points[i].Elevation = policy.Sentinel
			points[i].HasElevation = true
		case Omit:
		default:
			return nil, fmt.Errorf("%w: point %d at %.6f,%.6f: %v",
				elevation.ErrUnavailable, i, points[i].Lat, points[i].Lng, r.Err)
		}
	}
	return points, nil
}

// AssembleFunc is Assemble with a per-coordinate lookup and the abort policy.
func AssembleFunc(path *course.Path, samples []workout.Sample, elevationOf func(geo.LatLng) (float64, error)) ([]ProjectedPoint, error) {
	lookup := elevation.Func(func(_ context.Context, p geo.LatLng) (float64, error) {
		return elevationOf(p)
	})
	return Assemble(context.Background(), path, samples, lookup, Policy{Mode: Abort})
}
