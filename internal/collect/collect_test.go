package collect

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/fortuna/games/internal/ingest/leaderboard"
	"github.com/fortuna/games/internal/ingest/leaderboard/leaderboardtest"
	"github.com/fortuna/games/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCollector(t *testing.T, srv *leaderboardtest.Server, policy Policy) *Collector {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := leaderboard.New(srv.URL, leaderboard.WithLogger(logger))
	return New(client, logger, policy)
}

func addYear(srv *leaderboardtest.Server, year, competitors, events int) {
	srv.AddDivision(year, 1, leaderboardtest.Division{
		CompetitionID: "84",
		Events:        events,
		Competitors:   leaderboardtest.Competitors("1", competitors, events),
	})
	srv.AddDivision(year, 2, leaderboardtest.Division{
		CompetitionID: "84",
		Events:        events,
		Competitors:   leaderboardtest.Competitors("2", competitors, events),
	})
}

func column(tbl *table.Table, col string) []any {
	return tbl.Column(col)
}

func countWhere(tbl *table.Table, match func(table.Row) bool) int {
	n := 0
	for i := 0; i < tbl.Len(); i++ {
		if match(tbl.Row(i)) {
			n++
		}
	}
	return n
}

func TestInfo(t *testing.T) {
	srv := leaderboardtest.NewServer(t)
	addYear(srv, 2022, 110, 14)
	c := newCollector(t, srv, PolicyLegacy)

	meta, err := c.Info(context.Background(), 2022, leaderboard.DivisionMen)
	require.NoError(t, err)
	assert.Equal(t, leaderboard.Metadata{CompetitionID: "84", TotalPages: 3, TotalCompetitors: 110, TotalEvents: 14}, meta)
}

func TestInfoMissingPagination(t *testing.T) {
	srv := leaderboardtest.NewServer(t)
	srv.SetBody(2022, 1, 1, `{"competition": {"competitionId": 1}, "ordinals": [], "leaderboardRows": []}`)
	c := newCollector(t, srv, PolicyLegacy)

	_, err := c.Info(context.Background(), 2022, leaderboard.DivisionMen)
	require.ErrorIs(t, err, leaderboard.ErrMalformedResponse)
	assert.Contains(t, err.Error(), `"pagination"`)
}

func TestInfoRange(t *testing.T) {
	srv := leaderboardtest.NewServer(t)
	addYear(srv, 2020, 40, 10)
	addYear(srv, 2021, 40, 12)
	srv.FailPage(2021, 2, 1, http.StatusInternalServerError)
	c := newCollector(t, srv, PolicyLegacy)

	got, err := c.InfoRange(context.Background(), 2020, 2021, leaderboard.DivisionBoth)
	require.NoError(t, err)

	assert.Equal(t, infoColumns, got.Columns())
	require.Equal(t, 3, got.Len())
	assert.Equal(t, []any{int64(2020), int64(2020), int64(2021)}, column(got, "year"))
	assert.Equal(t, []any{int64(1), int64(2), int64(1)}, column(got, "division"))
	assert.Equal(t, []any{int64(84), int64(84), int64(84)}, column(got, "competitionId"), "competition id is coerced")
	assert.Equal(t, []any{int64(10), int64(10), int64(12)}, column(got, "totalEvents"))
}

func TestInfoRangePropagate(t *testing.T) {
	srv := leaderboardtest.NewServer(t)
	addYear(srv, 2020, 40, 10)
	srv.FailPage(2020, 2, 1, http.StatusBadGateway)
	c := newCollector(t, srv, PolicyPropagate)

	_, err := c.InfoRange(context.Background(), 2020, 2020, leaderboard.DivisionBoth)
	require.ErrorIs(t, err, leaderboard.ErrNetwork)
}

func TestCompetitorsPagination(t *testing.T) {
	srv := leaderboardtest.NewServer(t)
	addYear(srv, 2022, 110, 1)
	c := newCollector(t, srv, PolicyLegacy)

	got, err := c.Competitors(context.Background(), 2022, leaderboard.DivisionMen)
	require.NoError(t, err)
	require.Equal(t, 110, got.Len())

	var pages []int
	for _, r := range srv.Requests() {
		pages = append(pages, r.Page)
	}
	assert.Equal(t, []int{1, 1, 2, 3}, pages, "metadata page then every page once")

	last := got.Row(109)
	assert.Equal(t, int64(1110), last["competitorId"])
	assert.Equal(t, int64(110), last["overallRank"])
	assert.Equal(t, int64(28), last["age"])
	assert.Equal(t, int64(190), last["weight"])
	assert.InDelta(t, 177.8, last["heightInCm"], 0.01)
	assert.InDelta(t, 86.18, last["weightInKg"], 0.01)
	assert.Equal(t, int64(2022), last["year"])
	assert.Equal(t, int64(1), last["division"])
}

func TestCompetitorsRankAndUnits(t *testing.T) {
	srv := leaderboardtest.NewServer(t)
	competitors := leaderboardtest.Competitors("1", 3, 0)
	competitors[0].OverallRank = "2T"
	competitors[1].OverallRank = "2T"
	competitors[2].Weight = "no weight"
	competitors[2].Height = `6'1"`
	srv.AddDivision(2019, 1, leaderboardtest.Division{CompetitionID: "5", Competitors: competitors})
	c := newCollector(t, srv, PolicyLegacy)

	got, err := c.Competitors(context.Background(), 2019, leaderboard.DivisionMen)
	require.NoError(t, err)
	require.Equal(t, 3, got.Len())

	assert.Equal(t, []any{int64(2), int64(2), int64(3)}, column(got, "overallRank"))
	assert.Nil(t, got.Value(2, "weight"))
	assert.Nil(t, got.Value(2, "weightInKg"))
	assert.InDelta(t, 185.42, got.Value(2, "heightInCm"), 0.01)
}

func TestCompetitorsDivisionOrder(t *testing.T) {
	srv := leaderboardtest.NewServer(t)
	addYear(srv, 2022, 3, 1)
	c := newCollector(t, srv, PolicyLegacy)

	got, err := c.Competitors(context.Background(), 2022, leaderboard.DivisionBoth)
	require.NoError(t, err)
	assert.Equal(t,
		[]any{int64(1), int64(1), int64(1), int64(2), int64(2), int64(2)},
		column(got, "division"))
}

func TestCompetitorsRangeFaultIsolation(t *testing.T) {
	srv := leaderboardtest.NewServer(t)
	addYear(srv, 2020, 110, 1)
	addYear(srv, 2021, 110, 1)
	srv.FailPage(2021, 1, 2, http.StatusServiceUnavailable)
	c := newCollector(t, srv, PolicyLegacy)

	got, err := c.CompetitorsRange(context.Background(), 2020, 2021, leaderboard.DivisionBoth)
	require.NoError(t, err)

	assert.Equal(t, 110*4-50, got.Len())
	count := func(year, div int64) int {
		return countWhere(got, func(r table.Row) bool { return r["year"] == year && r["division"] == div })
	}
	assert.Equal(t, 110, count(2020, 1))
	assert.Equal(t, 110, count(2020, 2))
	assert.Equal(t, 60, count(2021, 1), "pages 1 and 3 survive")
	assert.Equal(t, 110, count(2021, 2))

	ranks := countWhere(got, func(r table.Row) bool {
		rank := r["overallRank"].(int64)
		return r["year"] == int64(2021) && r["division"] == int64(1) && rank > 50 && rank <= 100
	})
	assert.Zero(t, ranks, "page 2 rows are absent")
}

func TestCompetitorsMissingDivision(t *testing.T) {
	srv := leaderboardtest.NewServer(t)
	srv.AddDivision(2022, 2, leaderboardtest.Division{CompetitionID: "1", Competitors: leaderboardtest.Competitors("2", 5, 0)})
	c := newCollector(t, srv, PolicyLegacy)

	got, err := c.Competitors(context.Background(), 2022, leaderboard.DivisionBoth)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Len())
}

func TestCompetitorsShortPageKeepsEarlierRows(t *testing.T) {
	srv := leaderboardtest.NewServer(t)
	body := leaderboardtest.PageBody(leaderboardtest.Division{
		CompetitionID: "9",
		Competitors:   leaderboardtest.Competitors("1", 3, 0),
	}, 1)
	body["pagination"].(map[string]any)["totalCompetitors"] = 5
	data, err := json.Marshal(body)
	require.NoError(t, err)
	srv.SetBody(2022, 1, 1, string(data))
	c := newCollector(t, srv, PolicyLegacy)

	got, err := c.Competitors(context.Background(), 2022, leaderboard.DivisionMen)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Len())
}

func TestCompetitorsPropagate(t *testing.T) {
	srv := leaderboardtest.NewServer(t)
	addYear(srv, 2022, 110, 1)
	srv.FailPage(2022, 1, 2, http.StatusServiceUnavailable)
	c := newCollector(t, srv, PolicyPropagate)

	_, err := c.Competitors(context.Background(), 2022, leaderboard.DivisionMen)
	require.ErrorIs(t, err, leaderboard.ErrNetwork)
}

func TestCompetitorsRangeCancelled(t *testing.T) {
	srv := leaderboardtest.NewServer(t)
	addYear(srv, 2020, 10, 1)
	c := newCollector(t, srv, PolicyLegacy)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.CompetitorsRange(ctx, 2020, 2021, leaderboard.DivisionMen)
	require.ErrorIs(t, err, context.Canceled)
}

func TestCompetitorsEmpty(t *testing.T) {
	srv := leaderboardtest.NewServer(t)
	c := newCollector(t, srv, PolicyLegacy)

	got, err := c.Competitors(context.Background(), 2022, leaderboard.DivisionBoth)
	require.NoError(t, err)
	assert.Zero(t, got.Len())
}

func scoreCompetitors() []leaderboardtest.Competitor {
	competitors := leaderboardtest.Competitors("1", 3, 2)
	competitors[0].Scores[0]["rank"] = "5"
	competitors[1].Scores[0]["rank"] = "CUT"
	competitors[1].Scores[0]["scoreDisplay"] = "205-210"
	competitors[1].Scores[1]["rank"] = "WD"
	competitors[2].Scores[0]["rank"] = "DNF"
	competitors[2].Scores[1]["rank"] = "3T"
	competitors[2].Scores[1]["scoreDisplay"] = "12:34"
	competitors[0].Scores[1]["judge"] = map[string]any{"name": "Sam"}
	return competitors
}

func TestScores(t *testing.T) {
	srv := leaderboardtest.NewServer(t)
	srv.AddDivision(2022, 1, leaderboardtest.Division{CompetitionID: "84", Events: 2, Competitors: scoreCompetitors()})
	c := newCollector(t, srv, PolicyLegacy)

	got, err := c.Scores(context.Background(), 2022, leaderboard.DivisionMen)
	require.NoError(t, err)
	require.Equal(t, 6, got.Len())

	assert.Equal(t, []any{int64(5), int64(1), int64(0), int64(0), int64(0), int64(3)}, column(got, "rank"))
	assert.Equal(t, []any{nil, nil, "CUT", "WD", "DNF", nil}, column(got, "rankReason"))
	assert.Equal(t, []any{int64(11), int64(11), int64(12), int64(12), int64(13), int64(13)}, column(got, "competitorId"))
	assert.Equal(t, "Sam", got.Value(1, "judge.name"))
	assert.InDelta(t, 90.72, got.Value(0, "scoreIsWeightInKg"), 0.01)
	assert.Nil(t, got.Value(2, "scoreIsWeightInKg"), "a load range is not a single weight")
	assert.Nil(t, got.Value(5, "scoreIsWeightInKg"), "times do not encode a weight")
	assert.Equal(t, int64(2022), got.Value(0, "year"))
	assert.Equal(t, int64(1), got.Value(0, "division"))
}

func TestScoresSkipsBadCompetitor(t *testing.T) {
	srv := leaderboardtest.NewServer(t)
	body := leaderboardtest.PageBody(leaderboardtest.Division{CompetitionID: "1", Events: 1, Competitors: leaderboardtest.Competitors("1", 3, 1)}, 1)
	rows := body["leaderboardRows"].([]any)
	rows[1].(map[string]any)["scores"] = "broken"
	data, err := json.Marshal(body)
	require.NoError(t, err)
	srv.SetBody(2022, 1, 1, string(data))
	c := newCollector(t, srv, PolicyLegacy)

	got, err := c.Scores(context.Background(), 2022, leaderboard.DivisionMen)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(11), int64(13)}, column(got, "competitorId"))
}

func TestScoresFailSoft(t *testing.T) {
	srv := leaderboardtest.NewServer(t)
	body := leaderboardtest.PageBody(leaderboardtest.Division{CompetitionID: "1", Events: 1, Competitors: leaderboardtest.Competitors("1", 2, 1)}, 1)
	for _, row := range body["leaderboardRows"].([]any) {
		row.(map[string]any)["scores"] = map[string]any{"unexpected": "shape"}
	}
	data, err := json.Marshal(body)
	require.NoError(t, err)
	srv.SetBody(2022, 1, 1, string(data))

	t.Run("legacy returns empty table", func(t *testing.T) {
		c := newCollector(t, srv, PolicyLegacy)
		got, err := c.Scores(context.Background(), 2022, leaderboard.DivisionMen)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Zero(t, got.Len())
		assert.Empty(t, got.Columns())
	})

	t.Run("propagate returns the error", func(t *testing.T) {
		c := newCollector(t, srv, PolicyPropagate)
		_, err := c.Scores(context.Background(), 2022, leaderboard.DivisionMen)
		require.ErrorIs(t, err, leaderboard.ErrMalformedResponse)
	})
}

func TestScoresRange(t *testing.T) {
	srv := leaderboardtest.NewServer(t)
	addYear(srv, 2020, 2, 2)
	addYear(srv, 2022, 2, 3)
	c := newCollector(t, srv, PolicyLegacy)

	got, err := c.ScoresRange(context.Background(), 2020, 2022, leaderboard.DivisionBoth)
	require.NoError(t, err)

	assert.Equal(t, 2*2*2+2*2*3, got.Len(), "the missing year is skipped")
	assert.Equal(t, int64(2020), got.Value(0, "year"))
	assert.Equal(t, int64(2022), got.Value(got.Len()-1, "year"))
}

func TestScoresRangeInvalidArguments(t *testing.T) {
	srv := leaderboardtest.NewServer(t)
	c := newCollector(t, srv, PolicyLegacy)

	_, err := c.ScoresRange(context.Background(), 1999, 2022, leaderboard.DivisionMen)
	require.ErrorIs(t, err, leaderboard.ErrInvalidArgument)
	_, err = c.ScoresRange(context.Background(), 2020, 2022, leaderboard.Division(4))
	require.ErrorIs(t, err, leaderboard.ErrInvalidArgument)
	assert.Empty(t, srv.Requests())
}

func TestDump(t *testing.T) {
	srv := leaderboardtest.NewServer(t)
	addYear(srv, 2022, 2, 1)
	c := newCollector(t, srv, PolicyLegacy)

	raw, err := c.Dump(context.Background(), 2022, leaderboard.DivisionWomen, 1)
	require.NoError(t, err)
	assert.Contains(t, raw, "leaderboardRows")
}

func TestParsePolicy(t *testing.T) {
	for _, p := range []Policy{PolicyLegacy, PolicyContinue, PolicyPropagate} {
		got, err := ParsePolicy(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	_, err := ParsePolicy("sometimes")
	assert.Error(t, err)
}
