package usecase

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/gh-search/internal/credential"
	"github.com/naka-gawa/gh-search/internal/domain"
)

// mockSearcher is a mock implementation of the gateway.Searcher interface.
type mockSearcher struct {
	mock.Mock
}

func (m *mockSearcher) SearchRepositories(ctx context.Context, query string, opts domain.SearchOptions) (*domain.SearchResult, error) {
	args := m.Called(ctx, query, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SearchResult), args.Error(1)
}

func (m *mockSearcher) GetRepository(ctx context.Context, owner, repo string) (*domain.Repository, error) {
	args := m.Called(ctx, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Repository), args.Error(1)
}

func (m *mockSearcher) SetToken(token string) error {
	return m.Called(token).Error(0)
}

var fixedNow = time.Date(2026, 10, 18, 15, 30, 0, 0, time.UTC)

func newTestStore(searcher *mockSearcher, opts ...Option) *Store {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewStore(searcher, log.New(io.Discard), opts...)
}

func repos(names ...string) []domain.Repository {
	out := make([]domain.Repository, 0, len(names))
	for i, n := range names {
		out = append(out, domain.Repository{ID: int64(i + 1), Name: n, FullName: "octo/" + n, Stars: (i + 1) * 100, Topics: []string{}})
	}
	return out
}

func TestStore_SearchRepositories(t *testing.T) {
	searcher := new(mockSearcher)
	store := newTestStore(searcher)
	items := repos("b", "a", "c")

	var loadingDuringCall bool
	var errorDuringCall string
	searcher.On("SearchRepositories", mock.Anything, "cli tool", domain.SearchOptions{PerPage: 5}).
		Run(func(args mock.Arguments) {
			st := store.State()
			loadingDuringCall = st.IsLoading
			errorDuringCall = st.Error
		}).
		Return(&domain.SearchResult{Items: items, TotalCount: 3}, nil)

	store.SearchRepositories(context.Background(), "cli tool", domain.SearchOptions{PerPage: 5})

	st := store.State()
	assert.True(t, loadingDuringCall, "loading must be set before the searcher is called")
	assert.Empty(t, errorDuringCall)
	assert.False(t, st.IsLoading)
	assert.Empty(t, st.Error)
	assert.Equal(t, items, st.SearchResults)
	assert.Equal(t, "cli tool", st.CurrentQuery)
	searcher.AssertExpectations(t)
}

func TestStore_SearchRepositoriesIgnoresBlankQuery(t *testing.T) {
	for _, query := range []string{"", "   ", "\t\n"} {
		t.Run("query="+query, func(t *testing.T) {
			searcher := new(mockSearcher)
			store := newTestStore(searcher)
			before := store.State()

			store.SearchRepositories(context.Background(), query, domain.SearchOptions{})

			assert.Equal(t, before, store.State())
			searcher.AssertNotCalled(t, "SearchRepositories", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestStore_FailureKeepsPreviousResults(t *testing.T) {
	searcher := new(mockSearcher)
	store := newTestStore(searcher)
	items := repos("a", "b")

	searcher.On("SearchRepositories", mock.Anything, "good", mock.Anything).
		Return(&domain.SearchResult{Items: items}, nil)
	searcher.On("SearchRepositories", mock.Anything, "bad", mock.Anything).
		Return(nil, errors.New("failed to search repositories: 403 rate limited"))

	store.SearchRepositories(context.Background(), "good", domain.SearchOptions{})
	store.SearchRepositories(context.Background(), "bad", domain.SearchOptions{})

	st := store.State()
	assert.False(t, st.IsLoading)
	assert.Equal(t, "failed to search repositories: 403 rate limited", st.Error)
	assert.Equal(t, items, st.SearchResults)
	assert.Equal(t, "bad", st.CurrentQuery)

	// The next query clears the error again.
	store.SearchRepositories(context.Background(), "good", domain.SearchOptions{})
	assert.Empty(t, store.State().Error)
}

func TestStore_GetTrendingRepositories(t *testing.T) {
	testCases := []struct {
		name          string
		timeframe     Timeframe
		expectedQuery string
	}{
		{name: "daily", timeframe: Daily, expectedQuery: "created:>2026-10-17 stars:>10"},
		{name: "weekly", timeframe: Weekly, expectedQuery: "created:>2026-10-11 stars:>10"},
		{name: "monthly", timeframe: Monthly, expectedQuery: "created:>2026-09-18 stars:>10"},
		{name: "empty falls back to daily", timeframe: "", expectedQuery: "created:>2026-10-17 stars:>10"},
		{name: "unknown falls back to daily", timeframe: "yearly", expectedQuery: "created:>2026-10-17 stars:>10"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			searcher := new(mockSearcher)
			store := newTestStore(searcher)
			items := repos("hot")
			searcher.On("SearchRepositories", mock.Anything, tc.expectedQuery,
				domain.SearchOptions{Sort: "stars", Order: "desc", PerPage: 20}).
				Return(&domain.SearchResult{Items: items}, nil)

			store.GetTrendingRepositories(context.Background(), tc.timeframe)

			st := store.State()
			assert.Equal(t, TrendingLabel, st.CurrentQuery)
			assert.Equal(t, items, st.SearchResults)
			assert.False(t, st.IsLoading)
			searcher.AssertExpectations(t)
		})
	}
}

func TestStore_GetRepositoriesByLanguage(t *testing.T) {
	searcher := new(mockSearcher)
	store := newTestStore(searcher)
	items := repos("ripgrep", "tokio")

	searcher.On("SearchRepositories", mock.Anything, "language:rust stars:>10",
		domain.SearchOptions{Sort: "stars", Order: "desc"}).
		Return(&domain.SearchResult{Items: items}, nil)
	searcher.On("SearchRepositories", mock.Anything, "language:go stars:>10",
		domain.SearchOptions{Sort: "stars", Order: "desc", PerPage: 30, Page: 2}).
		Return(nil, errors.New("boom"))

	store.GetRepositoriesByLanguage(context.Background(), "rust", domain.SearchOptions{})
	st := store.State()
	assert.Equal(t, "rust repositories", st.CurrentQuery)
	assert.Equal(t, items, st.SearchResults)

	store.GetRepositoriesByLanguage(context.Background(), "go", domain.SearchOptions{PerPage: 30, Page: 2})
	st = store.State()
	assert.Equal(t, "go repositories", st.CurrentQuery)
	assert.Equal(t, "boom", st.Error)
	assert.Equal(t, items, st.SearchResults)
	searcher.AssertExpectations(t)
}

func TestStore_NewerQuerySupersedesOlder(t *testing.T) {
	searcher := new(mockSearcher)
	store := newTestStore(searcher)
	first, second := repos("first"), repos("second")

	started := make(chan context.Context, 1)
	release := make(chan struct{})
	searcher.On("SearchRepositories", mock.Anything, "first", mock.Anything).
		Run(func(args mock.Arguments) {
			started <- args.Get(0).(context.Context)
			<-release
		}).
		Return(&domain.SearchResult{Items: first}, nil)
	searcher.On("SearchRepositories", mock.Anything, "second", mock.Anything).
		Return(&domain.SearchResult{Items: second}, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		store.SearchRepositories(context.Background(), "first", domain.SearchOptions{})
	}()
	firstCtx := <-started
	assert.True(t, store.State().IsLoading)

	store.SearchRepositories(context.Background(), "second", domain.SearchOptions{})
	assert.ErrorIs(t, firstCtx.Err(), context.Canceled, "superseded request should be cancelled")

	// The stale response settles last but must not overwrite the newer one.
	close(release)
	<-done

	st := store.State()
	assert.Equal(t, second, st.SearchResults)
	assert.Equal(t, "second", st.CurrentQuery)
	assert.False(t, st.IsLoading)
	assert.Empty(t, st.Error)
}

func TestStore_StaleFailureIsDiscarded(t *testing.T) {
	searcher := new(mockSearcher)
	store := newTestStore(searcher)
	second := repos("second")

	started := make(chan struct{})
	release := make(chan struct{})
	searcher.On("SearchRepositories", mock.Anything, "first", mock.Anything).
		Run(func(args mock.Arguments) {
			close(started)
			<-release
		}).
		Return(nil, context.Canceled)
	searcher.On("SearchRepositories", mock.Anything, "second", mock.Anything).
		Run(func(args mock.Arguments) {
			close(release)
		}).
		Return(&domain.SearchResult{Items: second}, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		store.SearchRepositories(context.Background(), "first", domain.SearchOptions{})
	}()
	<-started
	store.SearchRepositories(context.Background(), "second", domain.SearchOptions{})
	<-done

	st := store.State()
	assert.Empty(t, st.Error)
	assert.Equal(t, second, st.SearchResults)
}

func TestStore_SelectRepository(t *testing.T) {
	searcher := new(mockSearcher)
	store := newTestStore(searcher)
	items := repos("a")
	detail := &domain.Repository{FullName: "octo/a", DefaultBranch: "main"}

	searcher.On("SearchRepositories", mock.Anything, "a", mock.Anything).
		Return(&domain.SearchResult{Items: items}, nil)
	searcher.On("GetRepository", mock.Anything, "octo", "a").Return(detail, nil)
	searcher.On("GetRepository", mock.Anything, "octo", "gone").Return(nil, errors.New("failed to fetch repository: 404"))

	store.SearchRepositories(context.Background(), "a", domain.SearchOptions{})
	store.SelectRepository(context.Background(), "octo/a")

	st := store.State()
	require.NotNil(t, st.SelectedRepository)
	assert.Equal(t, "main", st.SelectedRepository.DefaultBranch)
	assert.Equal(t, items, st.SearchResults)
	assert.Equal(t, "a", st.CurrentQuery)

	store.SelectRepository(context.Background(), "octo/gone")
	st = store.State()
	assert.Equal(t, "failed to fetch repository: 404", st.Error)
	assert.False(t, st.IsLoading)
	require.NotNil(t, st.SelectedRepository)

	store.SelectRepository(context.Background(), "not-a-name")
	assert.Contains(t, store.State().Error, "expected owner/repo")
	searcher.AssertExpectations(t)
}

func TestStore_SelectRepositoryDoesNotSupersedeQuery(t *testing.T) {
	searcher := new(mockSearcher)
	store := newTestStore(searcher)
	old, fresh := repos("old"), repos("fresh")
	detail := &domain.Repository{FullName: "octo/old", DefaultBranch: "main"}

	started := make(chan context.Context, 1)
	release := make(chan struct{})
	searcher.On("SearchRepositories", mock.Anything, "old", mock.Anything).
		Return(&domain.SearchResult{Items: old}, nil)
	searcher.On("SearchRepositories", mock.Anything, "fresh", mock.Anything).
		Run(func(args mock.Arguments) {
			started <- args.Get(0).(context.Context)
			<-release
		}).
		Return(&domain.SearchResult{Items: fresh}, nil)
	searcher.On("GetRepository", mock.Anything, "octo", "old").Return(detail, nil)

	store.SearchRepositories(context.Background(), "old", domain.SearchOptions{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		store.SearchRepositories(context.Background(), "fresh", domain.SearchOptions{})
	}()
	freshCtx := <-started

	store.SelectRepository(context.Background(), "octo/old")
	assert.NoError(t, freshCtx.Err(), "a selection must not cancel the running query")
	st := store.State()
	require.NotNil(t, st.SelectedRepository)
	assert.Equal(t, "main", st.SelectedRepository.DefaultBranch)
	assert.True(t, st.IsLoading, "the query is still running")

	close(release)
	<-done

	st = store.State()
	assert.Equal(t, "fresh", st.CurrentQuery)
	assert.Equal(t, fresh, st.SearchResults)
	assert.False(t, st.IsLoading)
	assert.Empty(t, st.Error)
	searcher.AssertExpectations(t)
}

func TestStore_ClearError(t *testing.T) {
	searcher := new(mockSearcher)
	store := newTestStore(searcher)
	searcher.On("SearchRepositories", mock.Anything, "q", mock.Anything).Return(nil, errors.New("nope"))

	store.SearchRepositories(context.Background(), "q", domain.SearchOptions{})
	require.Equal(t, "nope", store.State().Error)

	store.ClearError()
	assert.Empty(t, store.State().Error)
}

func TestStore_Credentials(t *testing.T) {
	fs := afero.NewMemMapFs()
	creds := credential.NewFileStore(fs, "/cfg/credentials.json")
	require.NoError(t, creds.Set(credential.GitHubToken, "stored-token"))
	require.NoError(t, creds.Set(credential.AIAPIKey, "stored-key"))

	searcher := new(mockSearcher)
	searcher.On("SetToken", "stored-token").Return(nil).Once()
	searcher.On("SetToken", "new-token").Return(nil).Once()
	store := newTestStore(searcher, WithCredentialStore(creds))

	require.NoError(t, store.LoadCredentials())
	st := store.State()
	assert.Equal(t, "stored-token", st.GitHubToken)
	assert.Equal(t, "stored-key", st.AIAPIKey)
	assert.True(t, st.Authenticated())
	assert.True(t, st.AIEnabled())

	require.NoError(t, store.SetGitHubToken("new-token"))
	require.NoError(t, store.SetAIAPIKey("new-key"))

	reloaded, err := credential.Load(credential.NewFileStore(fs, "/cfg/credentials.json"))
	require.NoError(t, err)
	assert.Equal(t, credential.Credentials{GitHubToken: "new-token", AIAPIKey: "new-key"}, reloaded)
	assert.Equal(t, "new-key", store.State().AIAPIKey)
	searcher.AssertExpectations(t)
}

func TestStore_UseCredentialsSkipsEmptyAndUnchanged(t *testing.T) {
	searcher := new(mockSearcher)
	searcher.On("SetToken", "env-token").Return(nil).Once()
	store := newTestStore(searcher)

	require.NoError(t, store.UseCredentials(credential.Credentials{GitHubToken: "env-token"}))
	require.NoError(t, store.UseCredentials(credential.Credentials{GitHubToken: "env-token"}))
	require.NoError(t, store.UseCredentials(credential.Credentials{}))

	st := store.State()
	assert.Equal(t, "env-token", st.GitHubToken)
	assert.False(t, st.AIEnabled())
	searcher.AssertExpectations(t)
}

func TestStore_SetGitHubTokenPropagatesSaveError(t *testing.T) {
	searcher := new(mockSearcher)
	store := newTestStore(searcher, WithCredentialStore(credential.NewFileStore(afero.NewReadOnlyFs(afero.NewMemMapFs()), "/cfg/c.json")))

	err := store.SetGitHubToken("tok")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save GitHub token")
	assert.Empty(t, store.State().GitHubToken)
	searcher.AssertNotCalled(t, "SetToken", mock.Anything)
}

func TestStore_StateIsACopy(t *testing.T) {
	searcher := new(mockSearcher)
	store := newTestStore(searcher)
	searcher.On("SearchRepositories", mock.Anything, "q", mock.Anything).
		Return(&domain.SearchResult{Items: repos("a")}, nil)
	store.SearchRepositories(context.Background(), "q", domain.SearchOptions{})

	st := store.State()
	st.SearchResults[0].Name = "mutated"
	assert.Equal(t, "a", store.State().SearchResults[0].Name)
}
