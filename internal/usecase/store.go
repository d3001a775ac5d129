// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/naka-gawa/gh-search/internal/credential"
	"github.com/naka-gawa/gh-search/internal/domain"
	"github.com/naka-gawa/gh-search/internal/gateway"
)

// TrendingLabel is the query label shown for trending results.
const TrendingLabel = "Trending repositories"

// Store is the search orchestrator. It owns the application state and
// mutates it only through its named actions.
//
// Each query action marks the state as loading, calls the searcher and
// applies the outcome. Starting a query cancels the query still in flight,
// and the outcome of a superseded query is discarded, so the most recently
// issued query always determines the results. Detail lookups are tracked
// separately and never supersede a query.
type Store struct {
	searcher    gateway.Searcher
	credentials credential.Store
	logger      *log.Logger
	now         func() time.Time

	mu     sync.Mutex
	state  domain.State
	query  inflight
	detail inflight
}

// inflight tracks the latest action of one kind.
type inflight struct {
	generation uint64
	cancel     context.CancelFunc
}

func (a *inflight) running() bool { return a.cancel != nil }

// Option configures a Store.
type Option func(*Store)

// WithCredentialStore makes token and key changes write through to cs.
func WithCredentialStore(cs credential.Store) Option {
	return func(s *Store) { s.credentials = cs }
}

// WithClock replaces time.Now, which trending queries use.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates a new Store instance around searcher.
func NewStore(searcher gateway.Searcher, logger *log.Logger, opts ...Option) *Store {
	s := &Store{
		searcher: searcher,
		logger:   logger,
		now:      time.Now,
		state:    domain.State{SearchResults: []domain.Repository{}},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a copy of the current state.
func (s *Store) State() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// LoadCredentials seeds the state from the credential store and
// authenticates the searcher when a GitHub token is present.
func (s *Store) LoadCredentials() error {
	if s.credentials == nil {
		return nil
	}
	creds, err := credential.Load(s.credentials)
	if err != nil {
		return err
	}
	return s.applyCredentials(creds)
}

// UseCredentials seeds the state from creds without touching the
// credential store. Empty fields leave the current values alone.
func (s *Store) UseCredentials(creds credential.Credentials) error {
	return s.applyCredentials(creds)
}

func (s *Store) applyCredentials(creds credential.Credentials) error {
	s.mu.Lock()
	if creds.AIAPIKey != "" {
		s.state.AIAPIKey = creds.AIAPIKey
	}
	changed := creds.GitHubToken != "" && creds.GitHubToken != s.state.GitHubToken
	if changed {
		s.state.GitHubToken = creds.GitHubToken
	}
	s.mu.Unlock()

	if changed {
		return s.searcher.SetToken(creds.GitHubToken)
	}
	return nil
}

// SetGitHubToken persists token, stores it in the state and re-authenticates
// the searcher. An empty token switches to unauthenticated requests.
func (s *Store) SetGitHubToken(token string) error {
	if s.credentials != nil {
		if err := s.credentials.Set(credential.GitHubToken, token); err != nil {
			return fmt.Errorf("save GitHub token: %w", err)
		}
	}
	s.mu.Lock()
	s.state.GitHubToken = token
	s.mu.Unlock()
	return s.searcher.SetToken(token)
}

// SetAIAPIKey persists key and stores it in the state.
func (s *Store) SetAIAPIKey(key string) error {
	if s.credentials != nil {
		if err := s.credentials.Set(credential.AIAPIKey, key); err != nil {
			return fmt.Errorf("save AI API key: %w", err)
		}
	}
	s.mu.Lock()
	s.state.AIAPIKey = key
	s.mu.Unlock()
	return nil
}

// ClearError drops the last recorded failure.
func (s *Store) ClearError() {
	s.mu.Lock()
	s.state.Error = ""
	s.mu.Unlock()
}

// SearchRepositories runs query with opts. Blank queries are ignored.
func (s *Store) SearchRepositories(ctx context.Context, query string, opts domain.SearchOptions) {
	if strings.TrimSpace(query) == "" {
		return
	}
	s.search(ctx, query, query, opts)
}

// GetTrendingRepositories lists the most starred repositories created
// within timeframe.
func (s *Store) GetTrendingRepositories(ctx context.Context, timeframe Timeframe) {
	s.search(ctx, TrendingLabel, TrendingQuery(s.now(), timeframe), domain.SearchOptions{
		Sort:    "stars",
		Order:   "desc",
		PerPage: TrendingPageSize,
	})
}

// GetRepositoriesByLanguage lists the most starred repositories written in
// language. Non-zero fields of opts override the defaults.
func (s *Store) GetRepositoriesByLanguage(ctx context.Context, language string, opts domain.SearchOptions) {
	merged := domain.SearchOptions{Sort: "stars", Order: "desc"}
	if opts.Sort != "" {
		merged.Sort = opts.Sort
	}
	if opts.Order != "" {
		merged.Order = opts.Order
	}
	merged.PerPage = opts.PerPage
	merged.Page = opts.Page
	s.search(ctx, LanguageLabel(language), LanguageQuery(language), merged)
}

// SelectRepository fetches the details of fullName ("owner/repo") into
// SelectedRepository. Search results are left untouched.
func (s *Store) SelectRepository(ctx context.Context, fullName string) {
	runCtx, gen := s.begin(ctx, &s.detail, nil)

	owner, name, err := gateway.SplitFullName(fullName)
	var repo *domain.Repository
	if err == nil {
		repo, err = s.searcher.GetRepository(runCtx, owner, name)
	}
	s.finish(&s.detail, gen, err, func(st *domain.State) {
		st.SelectedRepository = repo
	})
}

func (s *Store) search(ctx context.Context, label, query string, opts domain.SearchOptions) {
	runCtx, gen := s.begin(ctx, &s.query, &label)
	s.logger.Debug("query started", "label", label, "query", query, "generation", gen)

	result, err := s.searcher.SearchRepositories(runCtx, query, opts)
	s.finish(&s.query, gen, err, func(st *domain.State) {
		st.SearchResults = result.Items
		if st.SearchResults == nil {
			st.SearchResults = []domain.Repository{}
		}
	})
}

// begin starts a new generation of a: it cancels the action of the same
// kind in flight, clears the error, sets the loading flag and, if given,
// the query label.
func (s *Store) begin(ctx context.Context, a *inflight, label *string) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.cancel != nil {
		a.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.generation++

	s.state.Error = ""
	s.state.IsLoading = true
	if label != nil {
		s.state.CurrentQuery = *label
	}
	return runCtx, a.generation
}

// finish applies the outcome of generation gen of a unless a newer action
// of the same kind has started since. The loading flag stays set while any
// action is still running.
func (s *Store) finish(a *inflight, gen uint64, err error, apply func(*domain.State)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != a.generation {
		s.logger.Debug("discarding superseded result", "generation", gen, "latest", a.generation)
		return
	}
	a.cancel()
	a.cancel = nil

	if err != nil {
		s.logger.Debug("action failed", "generation", gen, "err", err)
		s.state.Error = err.Error()
	} else {
		apply(&s.state)
	}
	s.state.IsLoading = s.query.running() || s.detail.running()
}
