// Command replay places a FIT workout on a GPX course and writes the result
// as a GPX track.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"backend-courseplay/internal/catalog"
	"backend-courseplay/internal/config"
	"backend-courseplay/internal/elevation"
	"backend-courseplay/internal/replay"
	"backend-courseplay/internal/shared/geo"
	"backend-courseplay/internal/track"
)

type cliConfig struct {
	FitPath    string
	GPXPath    string
	Course     string
	CoursesDir string
	Output     string
	Projection string
	Policy     track.Policy
	Timeout    time.Duration
	Offline    bool
}

func parseFlags(fs *flag.FlagSet, args []string, env config.Config) (cliConfig, error) {
	var cfg cliConfig
	var policy string
	var sentinel float64
	fs.StringVar(&cfg.FitPath, "fit", "", "workout FIT file")
	fs.StringVar(&cfg.GPXPath, "gpx", "", "route GPX file")
	fs.StringVar(&cfg.Course, "course", "", "registered course name, used when -gpx is empty")
	fs.StringVar(&cfg.CoursesDir, "courses", env.CoursesDir, "course catalog directory")
	fs.StringVar(&cfg.Output, "o", "processed.gpx", "output file, - for stdout")
	fs.StringVar(&cfg.Projection, "projection", env.Projection, "planar projection: auto, utm, utm:<zone><n|s>, epsg:3310")
	fs.StringVar(&policy, "policy", env.ElevationPolicy, "missing elevation policy: abort, previous, sentinel, omit")
	fs.Float64Var(&sentinel, "sentinel", env.ElevationSentinel, "elevation written by the sentinel policy")
	fs.DurationVar(&cfg.Timeout, "timeout", env.ElevationTimeout, "deadline for all elevation lookups, 0 for none")
	fs.BoolVar(&cfg.Offline, "offline", false, "skip the elevation service and write no elevations")
	if err := fs.Parse(args); err != nil {
		return cliConfig{}, err
	}

	if cfg.FitPath == "" {
		return cliConfig{}, errors.New("-fit is required")
	}
	p, err := track.ParsePolicy(policy, sentinel)
	if err != nil {
		return cliConfig{}, err
	}
	cfg.Policy = p
	if cfg.Offline {
		cfg.Policy = track.Policy{Mode: track.Omit}
	}
	return cfg, nil
}

func routeSource(cfg cliConfig) (replay.RouteSource, error) {
	switch {
	case cfg.GPXPath != "":
		return replay.Uploaded(cfg.GPXPath), nil
	case cfg.Course != "":
		return replay.PreRegistered(cfg.Course), nil
	}
	return replay.RouteSource{}, replay.ErrNoRoute
}

func newLookup(cfg cliConfig, env config.Config) elevation.Lookup {
	if cfg.Offline {
		return elevation.Func(func(context.Context, geo.LatLng) (float64, error) {
			return 0, errOffline
		})
	}
	return elevation.NewClient(env.ElevationURL, elevation.ClientOptions{
		BatchSize:   env.ElevationBatchSize,
		Concurrency: env.ElevationConcurrency,
		Retries:     env.ElevationRetries,
		HTTPClient:  &http.Client{Timeout: env.ElevationTimeout},
	})
}

var errOffline = errors.New("offline")

func newService(cfg cliConfig, lookup elevation.Lookup) *replay.Service {
	return replay.NewService(catalog.NewDirStore(cfg.CoursesDir, cfg.Projection), lookup, replay.Options{
		Projection:       cfg.Projection,
		Policy:           cfg.Policy,
		ElevationTimeout: cfg.Timeout,
	})
}

func run(ctx context.Context, cfg cliConfig, lookup elevation.Lookup, stdout io.Writer) error {
	src, err := routeSource(cfg)
	if err != nil {
		return err
	}

	fit, err := os.Open(cfg.FitPath)
	if err != nil {
		return err
	}
	defer fit.Close()

	out, res, err := newService(cfg, lookup).Render(ctx, src, fit)
	if err != nil {
		return err
	}

	if cfg.Output == "-" {
		_, err = stdout.Write(out)
		return err
	}
	if err := os.WriteFile(cfg.Output, out, 0o644); err != nil {
		return err
	}
	log.Printf("wrote %d points to %s (skipped %d samples)", len(res.Points), cfg.Output, res.Skipped)
	return nil
}

func main() {
	env := config.Load()
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:], env)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, newLookup(cfg, env), os.Stdout); err != nil {
		log.Fatalf("replay: %v", err)
	}
}
