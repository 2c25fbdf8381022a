package commands

import (
	"github.com/fortuna/games/internal/ingest/leaderboard"
	"github.com/fortuna/games/internal/render"
	"github.com/spf13/cobra"
)

func newDumpCmd() *cobra.Command {
	var year, division, page int

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the raw JSON of one leaderboard page.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := getValue(cmd.Context())
			raw, err := v.Collector.Dump(cmd.Context(), year, leaderboard.Division(division), page)
			if err != nil {
				return err
			}
			return render.JSON(cmd.OutOrStdout(), raw)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&year, "year", 0, "competition year")
	flags.IntVar(&division, "division", int(leaderboard.DivisionMen), "1 men, 2 women, 0 both")
	flags.IntVar(&page, "page", 1, "page number")
	cmd.MarkFlagRequired("year")

	return cmd
}
