package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/gh-search/internal/llm"
	"github.com/naka-gawa/gh-search/internal/render"
)

func summarizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summarize <owner/repo>",
		Short: "Explain a repository with the configured AI assistant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			st := a.store.State()
			client, err := llm.NewClient(a.cfg.LLM.BaseURL, st.AIAPIKey, a.cfg.LLM.Model, a.logger)
			if err != nil {
				return fmt.Errorf("%w (set one with: gh-search credentials set aiApiKey <key>)", err)
			}

			a.store.SelectRepository(cmd.Context(), args[0])
			st = a.store.State()
			if st.Error != "" {
				return a.showResults(st, false)
			}

			summary, err := client.Summarize(cmd.Context(), *st.SelectedRepository)
			if err != nil {
				return err
			}
			if a.json {
				return render.JSON(a.out, summary)
			}
			fmt.Fprintf(a.out, "%s\n\n%s\n", st.SelectedRepository.FullName, summary.Summary)
			if len(summary.Categories) > 0 {
				fmt.Fprintf(a.out, "\nCategories: %s\n", strings.Join(summary.Categories, ", "))
			}
			return nil
		},
	}
}
