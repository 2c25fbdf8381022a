package collect

import (
	"context"
	"fmt"

	"github.com/fortuna/games/internal/convert"
	"github.com/fortuna/games/internal/ingest/leaderboard"
	"github.com/fortuna/games/internal/table"
)

// rankReasons are the rank values that mark non-completion rather than a
// placement.
var rankReasons = map[string]bool{"CUT": true, "WD": true, "DNF": true}

// Scores collects one row per competitor per event for year across the
// expanded divisions. Unless the policy propagates, any failure of the
// operation is logged at LevelCritical and an empty table is returned with
// a nil error.
func (c *Collector) Scores(ctx context.Context, year int, division leaderboard.Division) (*table.Table, error) {
	out, err := c.collectScores(ctx, year, division)
	if err != nil {
		if !c.skip(ctx) {
			return nil, err
		}
		c.logger.Log(ctx, LevelCritical, "error occurred collecting scores", "year", year, "division", int(division), "err", err)
		return table.New(), nil
	}
	return out, nil
}

func (c *Collector) collectScores(ctx context.Context, year int, division leaderboard.Division) (*table.Table, error) {
	out := table.New()
	err := c.walk(ctx, year, division, pageWalk{
		name:        "scores",
		skipBadRows: true,
		visit: func(year int, div leaderboard.Division, row leaderboard.Row) error {
			records, err := row.ScoreRecords()
			if err != nil {
				return err
			}
			if row.CompetitorID == nil {
				return &leaderboard.MalformedResponseError{Key: "entrant.competitorId"}
			}
			for _, rec := range records {
				r := table.Flatten(rec)
				r["competitorId"] = row.CompetitorID
				r["year"] = int64(year)
				r["division"] = int64(div)
				out.Append(r)
			}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "transforming rank and other columns", "rows", out.Len())
	if err := normalizeScores(out); err != nil {
		return nil, err
	}
	c.logger.InfoContext(ctx, "score transformation complete", "year", year, "division", int(division), "rows", out.Len())
	return out, nil
}

// normalizeScores recodes rank sentinels, coerces numeric columns and adds
// scoreIsWeightInKg. The rank and scoreDisplay columns are required.
func normalizeScores(t *table.Table) error {
	for _, col := range []string{"rank", "scoreDisplay"} {
		if !t.HasColumn(col) {
			return &leaderboard.MalformedResponseError{Key: col, Detail: "no score records carried it"}
		}
	}

	for i := 0; i < t.Len(); i++ {
		t.Set(i, "rankReason", nil)
		s, ok := t.Value(i, "rank").(string)
		if !ok {
			continue
		}
		if rankReasons[s] {
			t.Set(i, "rankReason", s)
			t.Set(i, "rank", int64(0))
			continue
		}
		t.Set(i, "rank", convert.StripTieMarker(s))
	}

	table.CoerceNumeric(t)

	t.Apply("scoreDisplay", "scoreIsWeightInKg", func(v any) any {
		s, _ := table.String(v)
		if kg, ok := convert.LbToKg(s); ok {
			return kg
		}
		return nil
	})
	return nil
}

// ScoresRange runs Scores for every year in [from, to] and stacks the
// results. The arguments are checked before any request is made; a failing
// year is logged and skipped unless the policy propagates.
func (c *Collector) ScoresRange(ctx context.Context, from, to int, division leaderboard.Division) (*table.Table, error) {
	if from < leaderboard.FirstGamesYear {
		return nil, fmt.Errorf("%w: from=%d", leaderboard.ErrInvalidArgument, from)
	}
	if to < leaderboard.FirstGamesYear {
		return nil, fmt.Errorf("%w: to=%d", leaderboard.ErrInvalidArgument, to)
	}
	if !division.Valid() {
		return nil, fmt.Errorf("%w: division=%d", leaderboard.ErrInvalidArgument, division)
	}

	var parts []*table.Table
	for year := from; year <= to; year++ {
		c.logger.InfoContext(ctx, "fetching games info scores", "year", year)

		part, err := c.Scores(ctx, year, division)
		if err != nil {
			if !c.skip(ctx) {
				return nil, fmt.Errorf("scores %d: %w", year, err)
			}
			c.logger.ErrorContext(ctx, "error processing games info scores", "year", year, "division", int(division), "err", err)
			continue
		}

		part.Fill("year", int64(year))
		parts = append(parts, part)
	}

	return table.Concat(parts...), nil
}
