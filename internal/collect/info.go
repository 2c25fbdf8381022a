package collect

import (
	"context"
	"fmt"

	"github.com/fortuna/games/internal/ingest/leaderboard"
	"github.com/fortuna/games/internal/table"
)

var infoColumns = []string{"competitionId", "totalPages", "totalCompetitors", "totalEvents", "year", "division"}

// Info fetches page 1 of a leaderboard and returns its metadata. Errors are
// always returned.
func (c *Collector) Info(ctx context.Context, year int, division leaderboard.Division) (leaderboard.Metadata, error) {
	c.logger.InfoContext(ctx, "fetching games info", "year", year, "division", int(division))

	raw, err := c.client.FetchRaw(ctx, year, division, 1)
	if err != nil {
		return leaderboard.Metadata{}, err
	}

	meta, err := leaderboard.ExtractMetadata(raw)
	if err != nil {
		c.logger.ErrorContext(ctx, "key missing in response", "year", year, "division", int(division), "err", err)
		return leaderboard.Metadata{}, err
	}

	c.logger.InfoContext(ctx, "fetched games metadata",
		"competition_id", meta.CompetitionID,
		"total_pages", meta.TotalPages,
		"total_competitors", meta.TotalCompetitors,
		"total_events", meta.TotalEvents,
	)
	return meta, nil
}

// InfoRange collects one metadata row per year in [from, to] and division.
// A failing (year, division) is logged and skipped unless the policy
// propagates.
func (c *Collector) InfoRange(ctx context.Context, from, to int, division leaderboard.Division) (*table.Table, error) {
	c.logger.InfoContext(ctx, "fetching games info range", "from", from, "to", to, "division", int(division))

	out := table.New(infoColumns...)
	for year := from; year <= to; year++ {
		for _, div := range division.Expand() {
			c.logger.InfoContext(ctx, "processing games info", "year", year, "division", int(div))

			meta, err := c.Info(ctx, year, div)
			if err != nil {
				if !c.skip(ctx) {
					return nil, fmt.Errorf("games info %d division %d: %w", year, div, err)
				}
				c.logger.ErrorContext(ctx, "error processing games info", "year", year, "division", int(div), "err", err)
				continue
			}

			out.Append(table.Row{
				"competitionId":    meta.CompetitionID,
				"totalPages":       int64(meta.TotalPages),
				"totalCompetitors": int64(meta.TotalCompetitors),
				"totalEvents":      int64(meta.TotalEvents),
				"year":             int64(year),
				"division":         int64(div),
			})
		}
	}

	c.logger.InfoContext(ctx, "completed games info range", "from", from, "to", to, "division", int(division), "records", out.Len())
	return table.CoerceNumeric(out), nil
}
