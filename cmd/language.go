package cmd

import (
	"github.com/spf13/cobra"

	"github.com/naka-gawa/gh-search/internal/domain"
)

func languageCmd() *cobra.Command {
	var opts domain.SearchOptions
	var withStats bool

	cmd := &cobra.Command{
		Use:   "language <language>",
		Short: "List the most starred repositories written in a language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			a.store.GetRepositoriesByLanguage(cmd.Context(), args[0], opts)
			return a.showResults(a.store.State(), withStats)
		},
	}
	cmd.Flags().IntVar(&opts.PerPage, "per-page", domain.DefaultPerPage, "Results per page (max 100)")
	cmd.Flags().IntVar(&opts.Page, "page", domain.DefaultPage, "Page number")
	cmd.Flags().BoolVar(&withStats, "stats", false, "Print a summary of the results")
	return cmd
}
