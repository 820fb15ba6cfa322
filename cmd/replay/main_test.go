package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"backend-courseplay/internal/config"
	"backend-courseplay/internal/elevation"
	"backend-courseplay/internal/replay"
	"backend-courseplay/internal/track"
	"backend-courseplay/internal/workout"
)

func testFlags() *flag.FlagSet {
	fs := flag.NewFlagSet("replay", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestParseFlagsDefaultsFromConfig(t *testing.T) {
	env := config.Config{CoursesDir: "/srv/courses", Projection: "epsg:3310", ElevationPolicy: "previous", ElevationTimeout: 45 * time.Second}
	cfg, err := parseFlags(testFlags(), []string{"-fit", "ride.fit", "-course", "loop"}, env)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.CoursesDir != "/srv/courses" || cfg.Projection != "epsg:3310" || cfg.Output != "processed.gpx" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Policy.Mode != track.ReusePrevious {
		t.Fatalf("unexpected policy %+v", cfg.Policy)
	}
	if cfg.Timeout != 45*time.Second {
		t.Fatalf("expected elevation deadline from config, got %v", cfg.Timeout)
	}

	cfg, err = parseFlags(testFlags(), []string{"-fit", "ride.fit", "-timeout", "5s"}, env)
	if err != nil || cfg.Timeout != 5*time.Second {
		t.Fatalf("expected -timeout override, got %v %v", cfg.Timeout, err)
	}
}

func TestParseFlagsOfflineOmitsElevation(t *testing.T) {
	cfg, err := parseFlags(testFlags(), []string{"-fit", "a.fit", "-offline"}, config.Config{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Policy.Mode != track.Omit {
		t.Fatalf("offline should omit elevations, got %v", cfg.Policy.Mode)
	}
}

func TestParseFlagsErrors(t *testing.T) {
	if _, err := parseFlags(testFlags(), nil, config.Config{}); err == nil {
		t.Fatalf("expected missing -fit error")
	}
	if _, err := parseFlags(testFlags(), []string{"-fit", "a.fit", "-policy", "guess"}, config.Config{}); err == nil {
		t.Fatalf("expected policy error")
	}
}

func TestRouteSourcePrefersGPX(t *testing.T) {
	src, err := routeSource(cliConfig{GPXPath: "route.gpx", Course: "loop"})
	if err != nil || src.String() != "uploaded:route.gpx" {
		t.Fatalf("unexpected source %v %v", src, err)
	}
	if _, err := routeSource(cliConfig{}); !errors.Is(err, replay.ErrNoRoute) {
		t.Fatalf("expected ErrNoRoute, got %v", err)
	}
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	lookup := elevation.Constant(0)

	if err := run(ctx, cliConfig{FitPath: filepath.Join(dir, "a.fit")}, lookup, io.Discard); !errors.Is(err, replay.ErrNoRoute) {
		t.Fatalf("expected ErrNoRoute, got %v", err)
	}
	if err := run(ctx, cliConfig{FitPath: filepath.Join(dir, "missing.fit"), Course: "x"}, lookup, io.Discard); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected missing file error, got %v", err)
	}

	fit := filepath.Join(dir, "garbage.fit")
	if err := os.WriteFile(fit, []byte("not a fit file"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	gpxPath := filepath.Join(dir, "route.gpx")
	route := `<?xml version="1.0"?><gpx version="1.1" creator="t"><trk><trkseg>` +
		`<trkpt lat="0" lon="0"></trkpt><trkpt lat="0" lon="0.01"></trkpt></trkseg></trk></gpx>`
	if err := os.WriteFile(gpxPath, []byte(route), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	var out bytes.Buffer
	err := run(ctx, cliConfig{FitPath: fit, GPXPath: gpxPath, Output: "-"}, lookup, &out)
	if !errors.Is(err, workout.ErrMalformedWorkout) {
		t.Fatalf("expected ErrMalformedWorkout, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("nothing should be written on failure")
	}
}

func TestNewServiceCarriesElevationDeadline(t *testing.T) {
	cfg := cliConfig{Projection: "utm", Timeout: 30 * time.Second, Policy: track.Policy{Mode: track.Omit}}
	opts := newService(cfg, elevation.Constant(0)).Options()
	if opts.ElevationTimeout != 30*time.Second || opts.Projection != "utm" || opts.Policy.Mode != track.Omit {
		t.Fatalf("unexpected options %+v", opts)
	}
}
