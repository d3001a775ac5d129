package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/gh-search/internal/domain"
)

func searchCmd() *cobra.Command {
	var opts domain.SearchOptions
	var withStats bool

	cmd := &cobra.Command{
		Use:   "search <query>...",
		Short: "Search repositories using GitHub search syntax",
		Long: `Search repositories using GitHub search syntax, for example:

  gh-search search "http router" language:go
  gh-search search topic:cli stars:>1000 --sort updated`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")
			if strings.TrimSpace(query) == "" {
				a.logger.Warn("empty query, nothing to search")
				return nil
			}
			a.store.SearchRepositories(cmd.Context(), query, opts)
			return a.showResults(a.store.State(), withStats)
		},
	}
	cmd.Flags().StringVar(&opts.Sort, "sort", domain.DefaultSort, "Sort field: stars, forks, help-wanted-issues or updated")
	cmd.Flags().StringVar(&opts.Order, "order", domain.DefaultOrder, "Sort order: desc or asc")
	cmd.Flags().IntVar(&opts.PerPage, "per-page", domain.DefaultPerPage, "Results per page (max 100)")
	cmd.Flags().IntVar(&opts.Page, "page", domain.DefaultPage, "Page number")
	cmd.Flags().BoolVar(&withStats, "stats", false, "Print a summary of the results")
	return cmd
}
