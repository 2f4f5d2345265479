// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"
)

const (
	// breakerTimeout is how long the breaker stays open before letting a
	// trial request through.
	breakerTimeout = 60 * time.Second

	// breakerTripFailures is the number of consecutive source failures
	// that opens the breaker.
	breakerTripFailures = 3
)

// ErrSourceUnavailable is returned when a release feed cannot be reached or
// answers with an error. It is never converted into an empty build list.
var ErrSourceUnavailable = errors.New("release source unavailable")

type (
	// Catalog resolves builds for targets from a ReleaseSource.
	Catalog struct {
		source  ReleaseSource
		breaker *gobreaker.CircuitBreaker
		logger  *log.Logger
		page    PageOptions
	}

	// Option configures a Catalog during construction.
	Option func(*Catalog)

	// feed is one release listing to fetch and the IsRelease tag its builds get.
	feed struct {
		repo      Repository
		isRelease bool
	}

	// feedResult holds what was fetched for one feed.
	feedResult struct {
		listed []Release
		latest *Release
	}
)

// WithLogger sets the logger used for breaker and fetch diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(c *Catalog) {
		c.logger = l
	}
}

// WithPageOptions overrides DefaultPageOptions.
func WithPageOptions(p PageOptions) Option {
	return func(c *Catalog) {
		c.page = p
	}
}

// New creates a Catalog reading from source.
func New(source ReleaseSource, opts ...Option) *Catalog {
	c := &Catalog{
		source: source,
		logger: log.New(io.Discard),
		page:   DefaultPageOptions,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "release-source",
		Timeout: breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerTripFailures
		},
		IsSuccessful: func(err error) bool {
			// A cancelled caller says nothing about the health of the feed.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return c
}

// ResolveBuilds returns every build of target, newest first and unique by
// version. The develop feed is included only when includePrerelease is set
// and the target has one. When a version appears more than once, the first
// listed record wins over a separately fetched latest record.
func (c *Catalog) ResolveBuilds(ctx context.Context, target Target, includePrerelease bool) ([]Build, error) {
	feeds := []feed{{repo: target.Release, isRelease: true}}
	if includePrerelease && target.HasDevelop() {
		feeds = append(feeds, feed{repo: target.Develop, isRelease: false})
	}

	results := make([]feedResult, len(feeds))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range feeds {
		g.Go(func() error {
			listed, err := c.list(gctx, f.repo)
			if err != nil {
				return err
			}
			results[i].listed = listed
			return nil
		})
		g.Go(func() error {
			latest, err := c.latest(gctx, f.repo)
			if err != nil {
				return err
			}
			results[i].latest = latest
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var builds []Build
	add := func(r Release, isRelease bool) {
		if r.Draft {
			return
		}
		if _, dup := seen[r.Tag]; dup {
			return
		}
		seen[r.Tag] = struct{}{}
		builds = append(builds, toBuild(r, isRelease))
	}

	for i, f := range feeds {
		for _, r := range results[i].listed {
			add(r, f.isRelease)
		}
	}
	for i, f := range feeds {
		if latest := results[i].latest; latest != nil {
			add(*latest, f.isRelease)
		}
	}

	SortBuilds(builds)
	c.logger.Debug("resolved builds", "target", target.Name, "count", len(builds), "prerelease", includePrerelease)
	return builds, nil
}

func (c *Catalog) list(ctx context.Context, repo Repository) ([]Release, error) {
	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.source.ListReleases(ctx, repo, c.page)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: listing %s: %w", ErrSourceUnavailable, repo, err)
	}
	releases, _ := out.([]Release) //nolint:errcheck // Type is fixed by the closure above.
	return releases, nil
}

func (c *Catalog) latest(ctx context.Context, repo Repository) (*Release, error) {
	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.source.GetLatestRelease(ctx, repo)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: latest release of %s: %w", ErrSourceUnavailable, repo, err)
	}
	latest, _ := out.(*Release) //nolint:errcheck // Type is fixed by the closure above.
	return latest, nil
}
