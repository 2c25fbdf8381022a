// Package collect walks the leaderboard API across pages, divisions and
// years and assembles the results into tables.
package collect

import (
	"context"
	"log/slog"

	"github.com/fortuna/games/internal/ingest/leaderboard"
)

// LevelCritical is logged when an operation gives up and hands back an
// empty table instead of an error.
const LevelCritical = slog.Level(12)

// Fetcher is the part of leaderboard.Client the collectors need.
type Fetcher interface {
	FetchRaw(ctx context.Context, year int, division leaderboard.Division, page int) (map[string]any, error)
	FetchPage(ctx context.Context, year int, division leaderboard.Division, page int) (*leaderboard.Page, error)
}

// Collector runs the collection operations against one Fetcher. It issues
// requests strictly one after another.
type Collector struct {
	client Fetcher
	logger *slog.Logger
	policy Policy
}

// New creates a Collector. A nil logger uses slog.Default().
func New(client Fetcher, logger *slog.Logger, policy Policy) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{
		client: client,
		logger: logger.With("component", "collect"),
		policy: policy,
	}
}

// Policy returns the error policy in use.
func (c *Collector) Policy() Policy {
	return c.policy
}

// Dump returns the raw JSON of one leaderboard page.
func (c *Collector) Dump(ctx context.Context, year int, division leaderboard.Division, page int) (map[string]any, error) {
	return c.client.FetchRaw(ctx, year, division, page)
}

// skip reports whether a failure may be logged and skipped under the policy.
// Context cancellation is never skipped.
func (c *Collector) skip(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	return c.policy != PolicyPropagate
}
