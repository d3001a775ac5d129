// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

// errQueryFailed signals that the failure was already shown with the results.
var errQueryFailed = errors.New("query failed")

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gh-search",
		Short: "Search GitHub repositories from the terminal.",
		Long: `gh-search searches GitHub repositories, lists trending and per-language
repositories, and keeps your GitHub token and AI API key in a local
credentials file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().Bool("json", false, "Print the resulting state as JSON")
	rootCmd.PersistentFlags().String("config", "", "Path to a config.toml (default: <config dir>/gh-search/config.toml)")

	rootCmd.AddCommand(
		searchCmd(),
		trendingCmd(),
		languageCmd(),
		showCmd(),
		summarizeCmd(),
		credentialsCmd(),
		authCmd(),
	)
	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := NewRootCmd().ExecuteContext(ctx)
	if err != nil {
		if !errors.Is(err, errQueryFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(1)
	}
}
