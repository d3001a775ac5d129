package domain

// State is the application state owned by the search orchestrator.
type State struct {
	GitHubToken        string       `json:"-"`
	AIAPIKey           string       `json:"-"`
	SearchResults      []Repository `json:"search_results"`
	IsLoading          bool         `json:"is_loading"`
	Error              string       `json:"error,omitempty"`
	CurrentQuery       string       `json:"current_query"`
	SelectedRepository *Repository  `json:"selected_repository,omitempty"`
}

// Authenticated reports whether a GitHub token is configured.
func (s State) Authenticated() bool {
	return s.GitHubToken != ""
}

// AIEnabled reports whether AI features can be used.
func (s State) AIEnabled() bool {
	return s.AIAPIKey != ""
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	c := s
	if s.SearchResults != nil {
		c.SearchResults = make([]Repository, len(s.SearchResults))
		for i, r := range s.SearchResults {
			c.SearchResults[i] = r.Clone()
		}
	}
	if s.SelectedRepository != nil {
		r := s.SelectedRepository.Clone()
		c.SelectedRepository = &r
	}
	return c
}
