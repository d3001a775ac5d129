package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/gh-search/internal/credential"
)

func credentialsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Manage the stored GitHub token and AI API key",
		Long: `Manage the stored GitHub token and AI API key.

Credentials are stored unencrypted in a file only your user can read.
The GITHUB_TOKEN and OPENAI_API_KEY environment variables take precedence
for the current invocation without being saved.`,
	}
	cmd.AddCommand(credentialsSetCmd(), credentialsGetCmd(), credentialsPathCmd())
	return cmd
}

func validName(name string) error {
	switch name {
	case credential.GitHubToken, credential.AIAPIKey:
		return nil
	}
	return fmt.Errorf("unknown credential %q (want %s or %s)", name, credential.GitHubToken, credential.AIAPIKey)
}

func credentialsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <githubToken|aiApiKey> <value>",
		Short: "Save a credential; an empty value clears it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, value := args[0], strings.TrimSpace(args[1])
			if err := validName(name); err != nil {
				return err
			}
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			if name == credential.GitHubToken {
				err = a.store.SetGitHubToken(value)
			} else {
				err = a.store.SetAIAPIKey(value)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Saved %s to %s\n", name, a.credentials.Path())
			return nil
		},
	}
}

func credentialsGetCmd() *cobra.Command {
	var reveal bool
	cmd := &cobra.Command{
		Use:   "get <githubToken|aiApiKey>",
		Short: "Print a stored credential (masked unless --reveal)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := validName(name); err != nil {
				return err
			}
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			value, ok, err := a.credentials.Get(name)
			if err != nil {
				return err
			}
			if !ok || value == "" {
				fmt.Fprintf(a.out, "%s is not set\n", name)
				return nil
			}
			if !reveal {
				value = mask(value)
			}
			fmt.Fprintln(a.out, value)
			return nil
		},
	}
	cmd.Flags().BoolVar(&reveal, "reveal", false, "Print the value in clear text")
	return cmd
}

func credentialsPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the credentials file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, a.credentials.Path())
			return nil
		},
	}
}

// mask keeps the last four characters of long secrets.
func mask(s string) string {
	if len(s) <= 8 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
