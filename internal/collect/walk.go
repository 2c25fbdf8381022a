package collect

import (
	"context"
	"fmt"

	"github.com/fortuna/games/internal/ingest/leaderboard"
)

// pageWalk describes one pass over every populated row of a leaderboard.
type pageWalk struct {
	name string
	// skipBadRows logs and skips a failing row and carries on with the
	// page. Otherwise the first failing row ends the page; rows visited
	// before it are kept.
	skipBadRows bool
	visit       func(year int, division leaderboard.Division, row leaderboard.Row) error
}

// walk visits every populated row of year across the expanded divisions.
// Page 1 is fetched once for metadata and again as the first page.
func (c *Collector) walk(ctx context.Context, year int, division leaderboard.Division, w pageWalk) error {
	for _, div := range division.Expand() {
		c.logger.InfoContext(ctx, "processing division", "collection", w.name, "year", year, "division", int(div))

		if err := c.walkDivision(ctx, year, div, w); err != nil {
			if !c.skip(ctx) {
				return fmt.Errorf("%s %d division %d: %w", w.name, year, div, err)
			}
			c.logger.ErrorContext(ctx, "error processing division", "collection", w.name, "year", year, "division", int(div), "err", err)
		}
	}
	return nil
}

func (c *Collector) walkDivision(ctx context.Context, year int, div leaderboard.Division, w pageWalk) error {
	meta, err := c.Info(ctx, year, div)
	if err != nil {
		return err
	}
	c.logger.InfoContext(ctx, "walking pages", "collection", w.name, "total_pages", meta.TotalPages, "total_competitors", meta.TotalCompetitors)

	for page := 1; page <= meta.TotalPages; page++ {
		c.logger.InfoContext(ctx, "fetching page", "collection", w.name, "year", year, "division", int(div), "page", page)

		if err := c.walkPage(ctx, year, div, page, meta, w); err != nil {
			if !c.skip(ctx) {
				return fmt.Errorf("page %d: %w", page, err)
			}
			c.logger.ErrorContext(ctx, "error processing page", "collection", w.name, "year", year, "division", int(div), "page", page, "err", err)
		}
	}
	return nil
}

func (c *Collector) walkPage(ctx context.Context, year int, div leaderboard.Division, page int, meta leaderboard.Metadata, w pageWalk) error {
	p, err := c.client.FetchPage(ctx, year, div, page)
	if err != nil {
		return err
	}

	want := meta.RowsOnPage(page)
	if got := p.RowCount(); got < want {
		c.logger.WarnContext(ctx, "page shorter than expected", "collection", w.name, "page", page, "rows", got, "expected", want)
	}

	for idx := 0; idx < want; idx++ {
		err := c.visitRow(p, idx, year, div, w)
		if err == nil {
			continue
		}
		if !w.skipBadRows || !c.skip(ctx) {
			return err
		}
		c.logger.ErrorContext(ctx, "error processing competitor", "collection", w.name, "page", page, "index", idx, "err", err)
	}
	return nil
}

func (c *Collector) visitRow(p *leaderboard.Page, idx, year int, div leaderboard.Division, w pageWalk) error {
	row, err := p.Row(idx)
	if err != nil {
		return err
	}
	return w.visit(year, div, row)
}
