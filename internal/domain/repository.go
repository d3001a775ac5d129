// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// Owner is the account that owns a repository.
type Owner struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

// Repository is a single search hit. Values are treated as immutable once
// returned by the gateway.
type Repository struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Description *string   `json:"description"`
	URL         string    `json:"url"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	Language    *string   `json:"language"`
	UpdatedAt   time.Time `json:"updated_at"`
	Owner       Owner     `json:"owner"`
	Topics      []string  `json:"topics"`

	// Filled only by detail lookups.
	CreatedAt     time.Time `json:"created_at,omitempty"`
	Size          int       `json:"size,omitempty"`
	DefaultBranch string    `json:"default_branch,omitempty"`
	License       *string   `json:"license,omitempty"`
}

// Clone returns a copy of r with its own topics and optional fields.
func (r Repository) Clone() Repository {
	c := r
	if r.Topics != nil {
		c.Topics = append([]string(nil), r.Topics...)
		if len(r.Topics) == 0 {
			c.Topics = []string{}
		}
	}
	c.Description = cloneString(r.Description)
	c.Language = cloneString(r.Language)
	c.License = cloneString(r.License)
	return c
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Defaults applied by SearchOptions.WithDefaults.
const (
	DefaultSort    = "stars"
	DefaultOrder   = "desc"
	DefaultPerPage = 10
	DefaultPage    = 1
)

// SearchOptions controls ordering and paging of a repository search.
// Zero values mean "use the default".
type SearchOptions struct {
	Sort    string
	Order   string
	PerPage int
	Page    int
}

// WithDefaults returns a copy of o with every unset field filled in.
func (o SearchOptions) WithDefaults() SearchOptions {
	if o.Sort == "" {
		o.Sort = DefaultSort
	}
	if o.Order == "" {
		o.Order = DefaultOrder
	}
	if o.PerPage <= 0 {
		o.PerPage = DefaultPerPage
	}
	if o.Page <= 0 {
		o.Page = DefaultPage
	}
	return o
}

// SearchResult is one page of repository search results.
type SearchResult struct {
	Items       []Repository `json:"items"`
	TotalCount  int          `json:"total_count"`
	HasNextPage bool         `json:"has_next_page"`
}
