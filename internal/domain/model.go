package domain

import "time"

// Document is one stored entity record. The remote payload is kept verbatim,
// so the set of fields differs from record to record.
type Document map[string]any

type Integration struct {
	UserID          string
	GithubUserID    string
	Username        string
	AccessToken     string
	ProfileURL      string
	IntegrationDate time.Time
	IsActive        bool
	Profile         Document
}

type Repo struct {
	Org  string
	Name string
}

// ID is the natural key of a repository: "{org}/{name}".
func (r Repo) ID() string {
	return r.Org + "/" + r.Name
}

type DateRange struct {
	Start time.Time
	End   time.Time
}

type CollectionQuery struct {
	Collection string
	Page       int
	PageSize   int
	SearchTerm string
	Filters    map[string]string
	DateRange  *DateRange
}

// FacetValue is one aggregated value with its document count. Value is nil
// when the field path is absent from the counted documents; the null is
// carried through to the response, not coerced to an empty string.
type FacetValue struct {
	Value *string `json:"_id"`
	Count int64   `json:"count"`
}

type CollectionPage struct {
	Data   []Document              `json:"data"`
	Total  int64                   `json:"total"`
	Page   int                     `json:"page"`
	Size   int                     `json:"pageSize"`
	Facets map[string][]FacetValue `json:"facets"`
}

type RelatedData struct {
	Repo         Document   `json:"repo"`
	Commits      []Document `json:"commits"`
	PullRequests []Document `json:"pullRequests"`
	Issues       []Document `json:"issues"`
}

// IngestResult reports one batch insertion: how many records the sync
// attempted and how many were skipped as natural-key duplicates.
type IngestResult struct {
	Attempted int `json:"attempted"`
	Skipped   int `json:"skipped"`
}
