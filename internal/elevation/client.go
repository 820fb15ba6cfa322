package elevation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"backend-courseplay/internal/shared/geo"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/sync/errgroup"
)

const lookupPath = "/api/v1/lookup"

// retryBaseDelay is the first backoff step; tests shrink it.
var retryBaseDelay = time.Second

// errResultCount means the service answered a batch with the wrong number of
// results, so no result can be matched to its point.
var errResultCount = errors.New("elevation result count mismatch")

// ClientOptions tune how a Client splits and retries work.
type ClientOptions struct {
	BatchSize   int
	Concurrency int
	Retries     int
	HTTPClient  *http.Client
}

// Client talks to an Open-Elevation compatible service.
type Client struct {
	baseURL string
	http    *http.Client
	opts    ClientOptions
}

func NewClient(baseURL string, opts ClientOptions) *Client {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		opts:    opts,
	}
}

type location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type lookupRequest struct {
	Locations []location `json:"locations"`
}

type lookupResponse struct {
	Results []struct {
		Latitude  float64  `json:"latitude"`
		Longitude float64  `json:"longitude"`
		Elevation *float64 `json:"elevation"`
	} `json:"results"`
}

// Elevations splits points into batches and resolves up to Concurrency
// batches at a time. Results keep the input order. A batch that still fails
// after its retries marks only its own points unavailable.
func (c *Client) Elevations(ctx context.Context, points []geo.LatLng) ([]Result, error) {
	results := make([]Result, len(points))
	if len(points) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Concurrency)
	for start := 0; start < len(points); start += c.opts.BatchSize {
		end := min(start+c.opts.BatchSize, len(points))
		batch := points[start:end]
		out := results[start:end]
		g.Go(func() error {
			err := c.lookupBatch(gctx, batch, out)
			if err == nil || errors.Is(err, errResultCount) {
				return err
			}
			failed := fmt.Errorf("%w: %v", ErrUnavailable, err)
			for i := range out {
				out[i] = Result{Err: failed}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return results, nil
}

func (c *Client) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = retryBaseDelay
	return b
}

func (c *Client) lookupBatch(ctx context.Context, batch []geo.LatLng, out []Result) error {
	body := lookupRequest{Locations: make([]location, len(batch))}
	for i, p := range batch {
		body.Locations[i] = location{Latitude: p.Lat, Longitude: p.Lng}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	decoded, err := backoff.Retry(ctx, func() (lookupResponse, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+lookupPath, bytes.NewReader(payload))
		if err != nil {
			return lookupResponse{}, backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return lookupResponse{}, backoff.Permanent(err)
			}
			return lookupResponse{}, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			err := fmt.Errorf("elevation service status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return lookupResponse{}, err
			}
			return lookupResponse{}, backoff.Permanent(err)
		}

		var decoded lookupResponse
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			return lookupResponse{}, fmt.Errorf("decode elevation response: %w", err)
		}
		if len(decoded.Results) != len(batch) {
			return lookupResponse{}, backoff.Permanent(fmt.Errorf("%w: %d results for %d locations", errResultCount, len(decoded.Results), len(batch)))
		}
		return decoded, nil
	}, backoff.WithBackOff(c.newBackOff()), backoff.WithMaxTries(uint(c.opts.Retries+1)))
	if err != nil {
		return err
	}

	for i, r := range decoded.Results {
		if r.Elevation == nil {
			out[i] = Result{Err: fmt.Errorf("%w: no data at %.6f,%.6f", ErrUnavailable, batch[i].Lat, batch[i].Lng)}
			continue
		}
		out[i] = Result{Meters: *r.Elevation}
	}
	return nil
}
