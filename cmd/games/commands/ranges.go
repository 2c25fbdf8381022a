package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/fortuna/games/internal/collect"
	"github.com/fortuna/games/internal/ingest/leaderboard"
	"github.com/fortuna/games/internal/render"
	"github.com/fortuna/games/internal/table"
	"github.com/spf13/cobra"
)

type rangeFunc func(c *collect.Collector, ctx context.Context, from, to int, division leaderboard.Division) (*table.Table, error)

// newRangeCmd builds a subcommand that collects a table over a year range
// and renders it to stdout.
func newRangeCmd(use, short string, run rangeFunc) *cobra.Command {
	var (
		from, to, division int
		format             string
	)

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := render.ParseFormat(format)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("to") {
				to = from
			}
			if to < from {
				return fmt.Errorf("--to %d is before --from %d", to, from)
			}

			v := getValue(cmd.Context())
			tbl, err := run(v.Collector, cmd.Context(), from, to, leaderboard.Division(division))
			if err != nil {
				return err
			}
			return render.Table(cmd.OutOrStdout(), tbl, f)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&from, "from", 0, "first year")
	flags.IntVar(&to, "to", 0, "last year (defaults to --from)")
	flags.IntVar(&division, "division", int(leaderboard.DivisionBoth), "1 men, 2 women, 0 both")
	flags.StringVar(&format, "format", string(render.FormatTable), "table, csv, markdown, json, yaml or xlsx")
	cmd.MarkFlagRequired("from")

	return cmd
}

func newInfoCmd() *cobra.Command {
	return newRangeCmd("info", "Competition metadata per year and division.", (*collect.Collector).InfoRange)
}

func newCompetitorsCmd() *cobra.Command {
	return newRangeCmd("competitors", "One row per competitor per year.", (*collect.Collector).CompetitorsRange)
}

func newScoresCmd() *cobra.Command {
	return newRangeCmd("scores", "One row per competitor per event per year.", (*collect.Collector).ScoresRange)
}

func parseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid --timeout: %w", err)
	}
	return d, nil
}
