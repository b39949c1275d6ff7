package provider

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/msalah0e/scentnet/internal/cache"
	"github.com/msalah0e/scentnet/internal/logging"
	"github.com/msalah0e/scentnet/internal/network"
	"github.com/msalah0e/scentnet/internal/parallel"
)

// Source produces the data of one load. Implementations return errors
// wrapping ErrLoadFailed.
type Source interface {
	Load(ctx context.Context, memberID string) (*cache.Bundle, error)
	Name() string
}

// Name implements Source.
func (c *Client) Name() string { return "remote " + c.opts.BaseURL }

// Load fetches the graph, the facet options and the labels concurrently.
// Only the graph is required; the other two fall back to derived facets
// and built-in labels downstream.
func (c *Client) Load(ctx context.Context, memberID string) (*cache.Bundle, error) {
	b := &cache.Bundle{MemberID: memberID}
	log := logging.With("provider")

	results := parallel.Run(ctx, []parallel.Task{
		{Name: EndpointGraph, Fn: func(ctx context.Context) (err error) {
			b.Payload, err = c.Graph(ctx, memberID)
			return err
		}},
		{Name: EndpointFacets, Fn: func(ctx context.Context) (err error) {
			b.Facets, err = c.Facets(ctx)
			return err
		}},
		{Name: EndpointLabels, Fn: func(ctx context.Context) (err error) {
			b.Labels, err = c.Labels(ctx)
			return err
		}},
	}, 3)

	if err := results[0].Err; err != nil {
		if !errors.Is(err, ErrLoadFailed) {
			err = fmt.Errorf("%w: %w", ErrLoadFailed, err)
		}
		return nil, err
	}
	for _, r := range results[1:] {
		if r.Err != nil && !errors.Is(r.Err, ErrNotConfigured) {
			log.Warn().Err(r.Err).Str("endpoint", r.Name).Msg("optional endpoint failed; using fallback")
		}
	}
	b.FetchedAt = time.Now().UTC()
	return b, nil
}

// Check checks every configured endpoint once, for diagnostics.
func (c *Client) Check(ctx context.Context, memberID string) []parallel.Result {
	return parallel.Run(ctx, []parallel.Task{
		{Name: EndpointGraph, Fn: func(ctx context.Context) error {
			_, err := c.Graph(ctx, memberID)
			return err
		}},
		{Name: EndpointFacets, Fn: func(ctx context.Context) error {
			_, err := c.Facets(ctx)
			return err
		}},
		{Name: EndpointLabels, Fn: func(ctx context.Context) error {
			_, err := c.Labels(ctx)
			return err
		}},
	}, 3)
}

// Offline serves the last cached bundle of a member.
type Offline struct{}

// Name implements Source.
func (Offline) Name() string { return "cache " + cache.Dir() }

// Load implements Source.
func (Offline) Load(ctx context.Context, memberID string) (*cache.Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := cache.Load(memberID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	return b, nil
}

// File reads a payload document from disk. It has no facets or labels.
type File struct {
	Path string
}

// Name implements Source.
func (f File) Name() string { return "file " + f.Path }

// Load implements Source. The member id is recorded but not used to select
// anything.
func (f File) Load(ctx context.Context, memberID string) (*cache.Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	defer fh.Close()

	p, err := network.DecodePayload(fh)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadFailed, f.Path, err)
	}
	return &cache.Bundle{MemberID: memberID, Payload: p, FetchedAt: time.Now().UTC()}, nil
}

// Caching saves every successful load of the wrapped source.
type Caching struct {
	Source Source
}

// Name implements Source.
func (c Caching) Name() string { return c.Source.Name() }

// Load implements Source. A failed save is logged and otherwise ignored.
func (c Caching) Load(ctx context.Context, memberID string) (*cache.Bundle, error) {
	b, err := c.Source.Load(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if err := cache.Save(b); err != nil {
		logging.With("provider").Warn().Err(err).Msg("could not cache network")
	}
	return b, nil
}
