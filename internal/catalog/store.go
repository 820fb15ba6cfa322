// Package catalog keeps the pre-registered courses a workout can be replayed on.
package catalog

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"backend-courseplay/internal/course"
	"backend-courseplay/internal/projection"
	"backend-courseplay/internal/shared/geo"
)

// Store lists, loads and saves course GPX documents by name.
type Store interface {
	List(ctx context.Context) ([]Course, error)
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, gpx []byte) (Course, error)
}

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._ -]{0,127}$`)

// CleanName strips a trailing .gpx and rejects names that could escape a
// directory.
func CleanName(name string) (string, error) {
	n := strings.TrimSpace(name)
	n = strings.TrimSuffix(n, ".gpx")
	if !namePattern.MatchString(n) || strings.Contains(n, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return n, nil
}

// Summarize validates a course document under the named projection, the one
// replays will use, and measures it.
func Summarize(name string, gpx []byte, projectionName string) (Course, error) {
	coords, err := course.ReadRoute(bytes.NewReader(gpx))
	if err != nil {
		return Course{}, err
	}
	crs, err := projection.Resolve(projectionName, coords[0])
	if err != nil {
		return Course{}, err
	}
	if _, err := course.Build(coords, crs); err != nil {
		return Course{}, err
	}
	return Course{
		Name:       name,
		PointCount: len(coords),
		LengthM:    geo.PolylineLengthM(coords),
	}, nil
}
