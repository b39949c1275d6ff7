// Package provider fetches the perfume network, its facet options and the
// display labels over HTTP.
//
// Requests are never retried. Each endpoint has its own circuit breaker that
// stops hammering it once it keeps failing; while the graph breaker is open
// every load fails fast with ErrLoadFailed.
package provider

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/msalah0e/scentnet/internal/config"
	"github.com/msalah0e/scentnet/internal/logging"
	"github.com/msalah0e/scentnet/internal/metrics"
	"github.com/msalah0e/scentnet/internal/network"
)

// ErrLoadFailed wraps every failure to obtain data from a source.
var ErrLoadFailed = errors.New("network load failed")

// ErrNotConfigured is returned for an endpoint whose path is empty.
var ErrNotConfigured = errors.New("endpoint not configured")

const maxBody = 64 << 20

// Endpoint names, also used as metric labels.
const (
	EndpointGraph  = "graph"
	EndpointFacets = "facets"
	EndpointLabels = "labels"
)

// Options configures a Client.
type Options struct {
	BaseURL    string
	GraphPath  string
	FacetsPath string
	LabelsPath string
	Timeout    time.Duration
	// HTTPClient overrides the default client, mostly for tests.
	HTTPClient *http.Client
	// BreakerName labels the circuit breaker metrics.
	BreakerName string
}

// OptionsFromConfig maps the [provider] config section.
func OptionsFromConfig(p config.ProviderConfig) Options {
	return Options{
		BaseURL:    p.BaseURL,
		GraphPath:  p.GraphPath,
		FacetsPath: p.FacetsPath,
		LabelsPath: p.LabelsPath,
		Timeout:    p.TimeoutDuration(),
	}
}

// Client talks to the network provider.
type Client struct {
	opts     Options
	http     *http.Client
	breakers map[string]*gobreaker.CircuitBreaker[[]byte]
}

// New creates a client with one circuit breaker per endpoint, so a failing
// facets or labels endpoint never blocks the graph.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.BreakerName == "" {
		opts.BreakerName = "provider"
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}

	breakers := make(map[string]*gobreaker.CircuitBreaker[[]byte], 3)
	for _, endpoint := range []string{EndpointGraph, EndpointFacets, EndpointLabels} {
		breakers[endpoint] = newBreaker(opts.BreakerName + "-" + endpoint)
	}
	return &Client{opts: opts, http: hc, breakers: breakers}
}

func newBreaker(name string) *gobreaker.CircuitBreaker[[]byte] {
	log := logging.With("provider")

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		// A cancelled load says nothing about the provider's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})
}

// State returns the state of the graph endpoint's circuit breaker.
func (c *Client) State() gobreaker.State { return c.EndpointState(EndpointGraph) }

// EndpointState returns the circuit breaker state of one endpoint.
func (c *Client) EndpointState(endpoint string) gobreaker.State {
	cb, ok := c.breakers[endpoint]
	if !ok {
		return gobreaker.StateClosed
	}
	return cb.State()
}

// URL returns the absolute URL of an endpoint path.
func (c *Client) URL(path string) string {
	return strings.TrimRight(c.opts.BaseURL, "/") + path
}

// Graph fetches the network payload for a member. An empty memberID asks
// for the anonymous network.
func (c *Client) Graph(ctx context.Context, memberID string) (*network.Payload, error) {
	q := url.Values{}
	if memberID != "" {
		q.Set("memberId", memberID)
	}
	body, err := c.get(ctx, EndpointGraph, c.opts.GraphPath, q)
	if err != nil {
		return nil, err
	}
	p, err := network.DecodePayload(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	return p, nil
}

// Facets fetches the filter options.
func (c *Client) Facets(ctx context.Context) (network.Facets, error) {
	var f network.Facets
	body, err := c.get(ctx, EndpointFacets, c.opts.FacetsPath, nil)
	if err != nil {
		return f, err
	}
	if err := json.Unmarshal(body, &f); err != nil {
		return f, fmt.Errorf("%w: facets decode: %w", ErrLoadFailed, err)
	}
	return f, nil
}

// Labels fetches the id to display name maps, keyed by facet name.
func (c *Client) Labels(ctx context.Context) (map[string]map[string]string, error) {
	body, err := c.get(ctx, EndpointLabels, c.opts.LabelsPath, nil)
	if err != nil {
		return nil, err
	}
	var m map[string]map[string]string
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("%w: labels decode: %w", ErrLoadFailed, err)
	}
	return m, nil
}

func (c *Client) get(ctx context.Context, endpoint, path string, q url.Values) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("%s: %w", endpoint, ErrNotConfigured)
	}
	u := c.URL(path)
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	body, err := c.breakers[endpoint].Execute(func() ([]byte, error) {
		return c.do(ctx, u)
	})
	switch {
	case err == nil:
		metrics.ProviderRequests.WithLabelValues(endpoint, "ok").Inc()
		return body, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.ProviderRequests.WithLabelValues(endpoint, "rejected").Inc()
	default:
		metrics.ProviderRequests.WithLabelValues(endpoint, "error").Inc()
	}
	return nil, fmt.Errorf("%w: %s: %w", ErrLoadFailed, endpoint, err)
}

func (c *Client) do(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("GET %s returned %d", u, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBody))
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
