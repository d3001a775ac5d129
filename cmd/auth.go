package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/gh-search/internal/gateway"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Inspect GitHub authentication",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show which GitHub account the token belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			login, err := a.gateway.Viewer(cmd.Context())
			if errors.Is(err, gateway.ErrUnauthenticated) {
				fmt.Fprintln(a.out, "Not authenticated: requests are unauthenticated and have lower rate limits")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Logged in to GitHub as %s\n", login)
			if a.store.State().AIEnabled() {
				fmt.Fprintln(a.out, "AI features enabled")
			} else {
				fmt.Fprintln(a.out, "AI features disabled (no AI API key)")
			}
			return nil
		},
	})
	return cmd
}
