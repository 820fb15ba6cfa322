// Package replay places a recorded workout on a reference course and renders
// the result as a GPX track.
package replay

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"backend-courseplay/internal/catalog"
	"backend-courseplay/internal/course"
	"backend-courseplay/internal/elevation"
	"backend-courseplay/internal/projection"
	"backend-courseplay/internal/track"
	"backend-courseplay/internal/workout"
)

// Options are the per-pipeline settings.
type Options struct {
	Projection       string
	Policy           track.Policy
	ElevationTimeout time.Duration
	UploadDir        string
	ProcessedDir     string
}

type Result struct {
	Points     []track.ProjectedPoint
	Course     string
	LengthM    float64
	Projection string
	Samples    int
	Skipped    int
}

type Service struct {
	courses catalog.Store
	lookup  elevation.Lookup
	opts    Options

	decodeWorkout func(io.Reader) ([]workout.Sample, error)
}

func NewService(courses catalog.Store, lookup elevation.Lookup, opts Options) *Service {
	return &Service{
		courses:       courses,
		lookup:        lookup,
		opts:          opts,
		decodeWorkout: workout.Decode,
	}
}

func (s *Service) Options() Options {
	return s.opts
}

func (s *Service) Courses() catalog.Store {
	return s.courses
}

func (s *Service) routeDocument(ctx context.Context, src RouteSource) ([]byte, string, error) {
	switch src.kind {
	case sourceUploaded:
		data, err := os.ReadFile(src.path)
		if err != nil {
			return nil, "", fmt.Errorf("read uploaded route: %w", err)
		}
		return data, "uploaded", nil
	case sourceRegistered:
		if s.courses == nil {
			return nil, "", fmt.Errorf("%w: %s", catalog.ErrCourseNotFound, src.name)
		}
		data, err := s.courses.Load(ctx, src.name)
		if err != nil {
			return nil, "", err
		}
		return data, src.name, nil
	}
	return nil, "", ErrNoRoute
}

// BuildPath resolves the route source into a distance-indexed path.
func (s *Service) BuildPath(ctx context.Context, src RouteSource) (*course.Path, string, error) {
	doc, name, err := s.routeDocument(ctx, src)
	if err != nil {
		return nil, "", err
	}
	coords, err := course.ReadRoute(bytes.NewReader(doc))
	if err != nil {
		return nil, "", err
	}
	crs, err := projection.Resolve(s.opts.Projection, coords[0])
	if err != nil {
		return nil, "", err
	}
	path, err := course.Build(coords, crs)
	if err != nil {
		return nil, "", err
	}
	return path, name, nil
}

// Replay builds the course, decodes the workout and assembles the track.
func (s *Service) Replay(ctx context.Context, src RouteSource, fit io.Reader) (Result, error) {
	path, name, err := s.BuildPath(ctx, src)
	if err != nil {
		return Result{}, err
	}

	samples, err := s.decodeWorkout(fit)
	if err != nil {
		return Result{}, err
	}

	lookupCtx := ctx
	if s.opts.ElevationTimeout > 0 {
		var cancel context.CancelFunc
		lookupCtx, cancel = context.WithTimeout(ctx, s.opts.ElevationTimeout)
		defer cancel()
	}

	points, err := track.Assemble(lookupCtx, path, samples, s.lookup, s.opts.Policy)
	if err != nil {
		if errors.Is(lookupCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, elevation.ErrUnavailable) {
			err = fmt.Errorf("%w: %v", elevation.ErrUnavailable, err)
		}
		return Result{}, err
	}

	res := Result{
		Points:     points,
		Course:     name,
		LengthM:    path.Length(),
		Projection: path.Projection(),
		Samples:    len(samples),
		Skipped:    len(samples) - len(points),
	}
	log.Printf("replayed %d of %d samples on %s (%.0f m, %s)", len(points), len(samples), src, res.LengthM, res.Projection)
	return res, nil
}

// Render is Replay followed by GPX encoding.
func (s *Service) Render(ctx context.Context, src RouteSource, fit io.Reader) ([]byte, Result, error) {
	res, err := s.Replay(ctx, src, fit)
	if err != nil {
		return nil, Result{}, err
	}
	out, err := track.EncodeGPX(res.Points, res.Course)
	if err != nil {
		return nil, Result{}, err
	}
	return out, res, nil
}
