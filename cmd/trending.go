package cmd

import (
	"github.com/spf13/cobra"

	"github.com/naka-gawa/gh-search/internal/usecase"
)

func trendingCmd() *cobra.Command {
	var timeframe string
	var withStats bool

	cmd := &cobra.Command{
		Use:   "trending",
		Short: "List the most starred repositories created recently",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tf, err := usecase.ParseTimeframe(timeframe)
			if err != nil {
				return err
			}
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			a.store.GetTrendingRepositories(cmd.Context(), tf)
			return a.showResults(a.store.State(), withStats)
		},
	}
	cmd.Flags().StringVarP(&timeframe, "timeframe", "t", string(usecase.Daily), "Lookback window: daily, weekly or monthly")
	cmd.Flags().BoolVar(&withStats, "stats", false, "Print a summary of the results")
	return cmd
}
