package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/gh-search/internal/config"
	"github.com/naka-gawa/gh-search/internal/credential"
	"github.com/naka-gawa/gh-search/internal/domain"
	"github.com/naka-gawa/gh-search/internal/gateway"
	"github.com/naka-gawa/gh-search/internal/render"
	"github.com/naka-gawa/gh-search/internal/usecase"
)

// app bundles the dependencies a command needs.
type app struct {
	cfg         config.Config
	logger      *log.Logger
	credentials *credential.FileStore
	gateway     *gateway.GitHubGateway
	store       *usecase.Store
	out         io.Writer
	json        bool
}

// newApp loads configuration and credentials and wires the orchestrator.
func newApp(cmd *cobra.Command) (*app, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOut, _ := cmd.Flags().GetBool("json")
	configPath, _ := cmd.Flags().GetString("config")
	logger := newLogger(cmd.ErrOrStderr(), verbose)

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("configuration loaded", "credentials", cfg.Credentials.Path, "github", cfg.GitHub.BaseURL)

	creds := credential.NewFileStore(afero.NewOsFs(), cfg.Credentials.Path)

	// Inject dependencies: the gateway starts unauthenticated and picks up
	// the token when credentials are loaded into the store.
	githubGateway, err := gateway.NewGitHubGateway("", logger,
		gateway.WithBaseURL(cfg.GitHub.BaseURL),
		gateway.WithGraphQLURL(cfg.GitHub.GraphQLURL),
		gateway.WithTimeout(cfg.HTTP.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub gateway: %w", err)
	}

	store := usecase.NewStore(githubGateway, logger, usecase.WithCredentialStore(creds))
	if err := store.LoadCredentials(); err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}
	if err := store.UseCredentials(credential.Credentials{
		GitHubToken: cfg.EnvGitHubToken,
		AIAPIKey:    cfg.EnvAIAPIKey,
	}); err != nil {
		return nil, err
	}

	return &app{
		cfg:         cfg,
		logger:      logger,
		credentials: creds,
		gateway:     githubGateway,
		store:       store,
		out:         cmd.OutOrStdout(),
		json:        jsonOut,
	}, nil
}

// showResults prints the state after a query and reports a failed query as
// errQueryFailed.
func (a *app) showResults(st domain.State, withStats bool) error {
	if a.json {
		if err := render.JSON(a.out, st); err != nil {
			return err
		}
	} else {
		render.StateView(a.out, st)
		if withStats && st.Error == "" && len(st.SearchResults) > 0 {
			summary, err := a.store.Summary()
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out)
			render.Stats(a.out, summary)
		}
	}
	if st.Error != "" {
		return errQueryFailed
	}
	return nil
}
