// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/gh-search/internal/domain"
)

// maxConcurrentLookups bounds GetRepositories fan-out.
const maxConcurrentLookups = 4

// ErrUnauthenticated is returned by calls that need a token when none is set.
var ErrUnauthenticated = errors.New("no GitHub token configured")

// Searcher defines the behavior of a gateway for searching GitHub repositories.
type Searcher interface {
	SearchRepositories(ctx context.Context, query string, opts domain.SearchOptions) (*domain.SearchResult, error)
	GetRepository(ctx context.Context, owner, repo string) (*domain.Repository, error)
	// SetToken swaps the credentials used for subsequent calls.
	// An empty token switches to unauthenticated requests.
	SetToken(token string) error
}

// GitHubGateway is the concrete implementation of the Searcher interface.
type GitHubGateway struct {
	mu            sync.RWMutex
	token         string
	restClient    *github.Client
	graphqlClient *githubv4.Client

	baseURL    *url.URL
	graphqlURL string
	timeout    time.Duration
	logger     *log.Logger
}

// Option configures a GitHubGateway.
type Option func(*GitHubGateway) error

// WithBaseURL points the REST client at a GitHub Enterprise or test server.
func WithBaseURL(raw string) Option {
	return func(g *GitHubGateway) error {
		if raw == "" {
			return nil
		}
		if !strings.HasSuffix(raw, "/") {
			raw += "/"
		}
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid base URL %q: %w", raw, err)
		}
		g.baseURL = u
		return nil
	}
}

// WithGraphQLURL overrides the GraphQL endpoint.
func WithGraphQLURL(raw string) Option {
	return func(g *GitHubGateway) error {
		g.graphqlURL = raw
		return nil
	}
}

// WithTimeout sets the HTTP client timeout. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(g *GitHubGateway) error {
		g.timeout = d
		return nil
	}
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// An empty token is allowed; requests are then made unauthenticated with the
// lower rate limits GitHub applies to them.
func NewGitHubGateway(token string, logger *log.Logger, opts ...Option) (*GitHubGateway, error) {
	g := &GitHubGateway{logger: logger}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}
	if err := g.SetToken(token); err != nil {
		return nil, err
	}
	return g, nil
}

// SetToken rebuilds the REST and GraphQL clients around token.
func (g *GitHubGateway) SetToken(token string) error {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	var transport http.RoundTripper = rateLimitWaiter
	if token != "" {
		transport = &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
		}
	}
	httpClient := &http.Client{Transport: transport, Timeout: g.timeout}

	restClient := github.NewClient(httpClient)
	if g.baseURL != nil {
		restClient.BaseURL = g.baseURL
	}
	graphqlClient := githubv4.NewClient(httpClient)
	if g.graphqlURL != "" {
		graphqlClient = githubv4.NewEnterpriseClient(g.graphqlURL, httpClient)
	}

	g.mu.Lock()
	g.token = token
	g.restClient = restClient
	g.graphqlClient = graphqlClient
	g.mu.Unlock()

	if token == "" {
		g.logger.Debug("GitHub client configured without token")
	} else {
		g.logger.Debug("GitHub client configured with token")
	}
	return nil
}

// Authenticated reports whether a token is currently set.
func (g *GitHubGateway) Authenticated() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.token != ""
}

func (g *GitHubGateway) rest() *github.Client {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.restClient
}

// SearchRepositories runs a single-page repository search. Options are
// forwarded verbatim after defaults are applied.
func (g *GitHubGateway) SearchRepositories(ctx context.Context, query string, opts domain.SearchOptions) (*domain.SearchResult, error) {
	opts = opts.WithDefaults()
	g.logger.Debug("searching repositories", "query", query, "sort", opts.Sort, "order", opts.Order, "per_page", opts.PerPage, "page", opts.Page)

	result, _, err := g.rest().Search.Repositories(ctx, query, &github.SearchOptions{
		Sort:  opts.Sort,
		Order: opts.Order,
		ListOptions: github.ListOptions{
			PerPage: opts.PerPage,
			Page:    opts.Page,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search repositories: %w", err)
	}

	items := make([]domain.Repository, 0, len(result.Repositories))
	for _, repo := range result.Repositories {
		items = append(items, toDomain(repo))
	}
	g.logger.Debug("search complete", "query", query, "items", len(items), "total", result.GetTotal())

	return &domain.SearchResult{
		Items:       items,
		TotalCount:  result.GetTotal(),
		HasNextPage: len(items) == opts.PerPage,
	}, nil
}

// GetRepository fetches the detail record of a single repository.
func (g *GitHubGateway) GetRepository(ctx context.Context, owner, repo string) (*domain.Repository, error) {
	g.logger.Debug("fetching repository", "owner", owner, "repo", repo)
	r, _, err := g.rest().Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch repository: %w", err)
	}
	d := toDomain(r)
	d.CreatedAt = r.GetCreatedAt().Time
	d.Size = r.GetSize()
	d.DefaultBranch = r.GetDefaultBranch()
	if r.License != nil {
		name := r.License.GetName()
		d.License = &name
	}
	return &d, nil
}

// GetRepositories fetches several repositories concurrently. Names use the
// "owner/repo" form; the result preserves input order.
func (g *GitHubGateway) GetRepositories(ctx context.Context, fullNames []string) ([]domain.Repository, error) {
	type target struct{ owner, name string }
	targets := make([]target, len(fullNames))
	for i, fullName := range fullNames {
		owner, name, err := SplitFullName(fullName)
		if err != nil {
			return nil, err
		}
		targets[i] = target{owner, name}
	}

	repos := make([]domain.Repository, len(fullNames))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrentLookups)
	for i, t := range targets {
		eg.Go(func() error {
			repo, err := g.GetRepository(egCtx, t.owner, t.name)
			if err != nil {
				return fmt.Errorf("%s/%s: %w", t.owner, t.name, err)
			}
			repos[i] = *repo
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return repos, nil
}

// viewerQuery asks GitHub who the current token belongs to.
type viewerQuery struct {
	Viewer struct {
		Login githubv4.String
	}
}

// Viewer returns the login of the authenticated user.
func (g *GitHubGateway) Viewer(ctx context.Context) (string, error) {
	g.mu.RLock()
	token, client := g.token, g.graphqlClient
	g.mu.RUnlock()
	if token == "" {
		return "", ErrUnauthenticated
	}

	var q viewerQuery
	if err := client.Query(ctx, &q, nil); err != nil {
		return "", fmt.Errorf("failed to execute GraphQL viewer query: %w", err)
	}
	return string(q.Viewer.Login), nil
}

// SplitFullName splits "owner/repo" into its parts.
func SplitFullName(fullName string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(strings.TrimSpace(fullName), "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("invalid repository name %q, expected owner/repo", fullName)
	}
	return owner, repo, nil
}

func toDomain(r *github.Repository) domain.Repository {
	topics := r.Topics
	if topics == nil {
		topics = []string{}
	}
	return domain.Repository{
		ID:          r.GetID(),
		Name:        r.GetName(),
		FullName:    r.GetFullName(),
		Description: r.Description,
		URL:         r.GetHTMLURL(),
		Stars:       r.GetStargazersCount(),
		Forks:       r.GetForksCount(),
		Language:    r.Language,
		UpdatedAt:   r.GetUpdatedAt().Time,
		Owner: domain.Owner{
			Login:     r.GetOwner().GetLogin(),
			AvatarURL: r.GetOwner().GetAvatarURL(),
		},
		Topics: topics,
	}
}
