package collect

import (
	"context"
	"fmt"

	"github.com/fortuna/games/internal/convert"
	"github.com/fortuna/games/internal/ingest/leaderboard"
	"github.com/fortuna/games/internal/table"
)

// Competitors collects one row per competitor for year across the expanded
// divisions: every entrant field plus overallScore, overallRank, year,
// division, heightInCm and weightInKg. Failing pages and divisions are
// logged and skipped unless the policy propagates.
func (c *Collector) Competitors(ctx context.Context, year int, division leaderboard.Division) (*table.Table, error) {
	c.logger.InfoContext(ctx, "fetching competitor info", "year", year, "division", int(division))

	out := table.New()
	err := c.walk(ctx, year, division, pageWalk{
		name: "competitors",
		visit: func(year int, div leaderboard.Division, row leaderboard.Row) error {
			r := make(table.Row, len(row.Entrant)+4)
			for k, v := range row.Entrant {
				r[k] = v
			}
			r["overallScore"] = row.OverallScore
			r["overallRank"] = row.OverallRank
			r["year"] = int64(year)
			r["division"] = int64(div)
			out.Append(r)
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	normalizeCompetitors(out)

	c.logger.InfoContext(ctx, "fetched competitor info", "year", year, "division", int(division), "competitors", out.Len())
	return out, nil
}

// CompetitorsRange runs Competitors for every year in [from, to] and stacks
// the results. Under the legacy policy the first failing year ends the
// range.
func (c *Collector) CompetitorsRange(ctx context.Context, from, to int, division leaderboard.Division) (*table.Table, error) {
	c.logger.InfoContext(ctx, "fetching competitors range", "from", from, "to", to, "division", int(division))

	var parts []*table.Table
	for year := from; year <= to; year++ {
		c.logger.InfoContext(ctx, "fetching competitors for year", "year", year, "division", int(division))

		part, err := c.Competitors(ctx, year, division)
		if err != nil {
			if ctx.Err() != nil || c.policy != PolicyContinue {
				c.logger.ErrorContext(ctx, "competitors range failed", "year", year, "err", err)
				return nil, fmt.Errorf("competitors %d: %w", year, err)
			}
			c.logger.ErrorContext(ctx, "error processing competitors", "year", year, "division", int(division), "err", err)
			continue
		}

		part.Fill("year", int64(year))
		parts = append(parts, part)
	}

	return table.Concat(parts...), nil
}

// normalizeCompetitors cleans the raw entrant columns once all pages are in.
func normalizeCompetitors(t *table.Table) {
	if t.Len() == 0 {
		return
	}

	t.Apply("weight", "weight", func(v any) any {
		s, _ := table.String(v)
		if n, ok := convert.FirstNumber(s); ok {
			return n
		}
		return nil
	})
	t.Apply("overallRank", "overallRank", func(v any) any {
		s, _ := table.String(v)
		if n, ok := convert.FirstNumber(convert.StripTieMarker(s)); ok {
			return n
		}
		return nil
	})
	t.Apply("age", "age", func(v any) any {
		if f, ok := table.Float(v); ok {
			return int64(f)
		}
		return nil
	})

	table.CoerceNumeric(t)

	t.Apply("height", "heightInCm", func(v any) any {
		s, _ := table.String(v)
		if cm, ok := convert.InchesToCm(s); ok {
			return cm
		}
		return nil
	})
	t.Apply("weight", "weightInKg", func(v any) any {
		s, _ := table.String(v)
		if kg, ok := convert.LbToKg(s); ok {
			return kg
		}
		return nil
	})
}
