// Package elevation resolves coordinates to elevations in metres.
package elevation

import (
	"context"
	"errors"
	"fmt"

	"backend-courseplay/internal/shared/geo"
)

var ErrUnavailable = errors.New("elevation unavailable")

// Result is the elevation of one coordinate, or why it could not be found.
type Result struct {
	Meters float64
	Err    error
}

// Lookup resolves a batch of coordinates. Implementations return exactly one
// Result per input point, at the same index. A non-nil error fails the whole
// batch.
type Lookup interface {
	Elevations(ctx context.Context, points []geo.LatLng) ([]Result, error)
}

// Func adapts a single-coordinate lookup to the batch interface. Points are
// resolved one after another. Once ctx is done the remaining points are
// marked unavailable.
type Func func(ctx context.Context, p geo.LatLng) (float64, error)

func (f Func) Elevations(ctx context.Context, points []geo.LatLng) ([]Result, error) {
	results := make([]Result, len(points))
	for i, p := range points {
		if err := ctx.Err(); err != nil {
			failed := fmt.Errorf("%w: %w", ErrUnavailable, err)
			for j := i; j < len(results); j++ {
				results[j] = Result{Err: failed}
			}
			break
		}
		m, err := f(ctx, p)
		if err != nil {
			results[i] = Result{Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}
			continue
		}
		results[i] = Result{Meters: m}
	}
	return results, nil
}

// Constant answers every coordinate with the same elevation.
func Constant(meters float64) Lookup {
	return Func(func(context.Context, geo.LatLng) (float64, error) {
		return meters, nil
	})
}
