package domain

// Collection describes one entity-kind store: which table holds it, which
// column is its natural key, and which payload fields the free-text search
// matches against.
type Collection struct {
	Name         string
	Table        string
	KeyColumn    string
	KeyField     string
	HasRepoLink  bool
	SearchFields []string
}

var textSearchFields = []string{"message", "title", "description", "author"}

const (
	CollectionRepos        = "repos"
	CollectionCommits      = "commits"
	CollectionPullRequests = "pullrequests"
	CollectionIssues       = "issues"
	CollectionUsers        = "users"
)

// Collections is the entity-kind registry, built once and passed explicitly
// instead of switching on collection names ad hoc.
var Collections = []Collection{
	{
		Name:         CollectionRepos,
		Table:        "repos",
		KeyColumn:    "repo_id",
		KeyField:     "repo_id",
		SearchFields: textSearchFields,
	},
	{
		Name:         CollectionCommits,
		Table:        "commits",
		KeyColumn:    "commit_hash",
		KeyField:     "commit_hash",
		HasRepoLink:  true,
		SearchFields: textSearchFields,
	},
	{
		Name:         CollectionPullRequests,
		Table:        "pullrequests",
		KeyColumn:    "pr_id",
		KeyField:     "pr_id",
		HasRepoLink:  true,
		SearchFields: textSearchFields,
	},
	{
		Name:         CollectionIssues,
		Table:        "issues",
		KeyColumn:    "issue_id",
		KeyField:     "issue_id",
		HasRepoLink:  true,
		SearchFields: textSearchFields,
	},
	{
		Name:         CollectionUsers,
		Table:        "users",
		KeyColumn:    "user_id",
		KeyField:     "user_id",
		SearchFields: textSearchFields,
	},
}

// LookupCollection resolves a collection by its public name.
func LookupCollection(name string) (Collection, bool) {
	for _, c := range Collections {
		if c.Name == name {
			return c, true
		}
	}
	return Collection{}, false
}

// CollectionNames lists the queryable collections, in registry order.
func CollectionNames() []string {
	names := make([]string, len(Collections))
	for i, c := range Collections {
		names[i] = c.Name
	}
	return names
}
