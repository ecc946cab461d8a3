package cli

import (
	"dcasassess/internal/app"
	"dcasassess/internal/config"

	"github.com/spf13/cobra"
)

// NewBackfillCmd re-propagates every completed session onto its owner.
func NewBackfillCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "backfill",
		Short: "Rewrite user results from completed sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			a, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close(cmd.Context())

			_, err = a.StatsService.Backfill(cmd.Context())
			return err
		},
	}
}
