package cmd

import (
	"github.com/spf13/cobra"

	"github.com/naka-gawa/gh-search/internal/render"
)

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <owner/repo>...",
		Short: "Show repository details",
		Long: `Show the details of one repository, or a table of several.
Several repositories are fetched concurrently.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			if len(args) > 1 {
				repos, err := a.gateway.GetRepositories(cmd.Context(), args)
				if err != nil {
					return err
				}
				if a.json {
					return render.JSON(a.out, repos)
				}
				render.Table(a.out, repos)
				return nil
			}

			a.store.SelectRepository(cmd.Context(), args[0])
			st := a.store.State()
			if st.Error != "" {
				return a.showResults(st, false)
			}
			if a.json {
				return render.JSON(a.out, st.SelectedRepository)
			}
			render.Details(a.out, *st.SelectedRepository)
			return nil
		},
	}
}
