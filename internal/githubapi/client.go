package githubapi

import (
	"context"
	"fmt"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// Client wraps the GitHub REST API for one access token.
type Client struct {
	gh *github.Client
}

func New(token string) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)

	return &Client{gh: github.NewClient(tc)}
}

// NewFromGithub wraps an already configured go-github client. Tests use it
// to point the client at a local fake of the REST API.
func NewFromGithub(gh *github.Client) *Client {
	return &Client{gh: gh}
}

// CurrentUser returns the profile of the token's owner.
func (c *Client) CurrentUser(ctx context.Context) (*github.User, error) {
	user, _, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to get authenticated user: %w", err)
	}
	return user, nil
}

// Organizations lists every organization of the authenticated user.
func (c *Client) Organizations(ctx context.Context) ([]*github.Organization, error) {
	orgs, err := fetchAllPages(ctx, func(ctx context.Context, page int) ([]*github.Organization, error) {
		orgs, _, err := c.gh.Organizations.List(ctx, "", &github.ListOptions{PerPage: pageSize, Page: page})
		return orgs, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	return orgs, nil
}

// OrgRepositories lists every repository of one organization.
func (c *Client) OrgRepositories(ctx context.Context, org string) ([]*github.Repository, error) {
	repos, err := fetchAllPages(ctx, func(ctx context.Context, page int) ([]*github.Repository, error) {
		repos, _, err := c.gh.Repositories.ListByOrg(ctx, org, &github.RepositoryListByOrgOptions{
			ListOptions: github.ListOptions{PerPage: pageSize, Page: page},
		})
		return repos, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories for %s: %w", org, err)
	}
	return repos, nil
}

// OrgMembers lists every member of one organization.
func (c *Client) OrgMembers(ctx context.Context, org string) ([]*github.User, error) {
	members, err := fetchAllPages(ctx, func(ctx context.Context, page int) ([]*github.User, error) {
		members, _, err := c.gh.Organizations.ListMembers(ctx, org, &github.ListMembersOptions{
			ListOptions: github.ListOptions{PerPage: pageSize, Page: page},
		})
		return members, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list members for %s: %w", org, err)
	}
	return members, nil
}

// Repository fetches one repository's details.
func (c *Client) Repository(ctx context.Context, org, name string) (*github.Repository, error) {
	repo, _, err := c.gh.Repositories.Get(ctx, org, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get repository %s/%s: %w", org, name, err)
	}
	return repo, nil
}

// Commits lists every commit of one repository.
func (c *Client) Commits(ctx context.Context, org, name string) ([]*github.RepositoryCommit, error) {
	commits, err := fetchAllPages(ctx, func(ctx context.Context, page int) ([]*github.RepositoryCommit, error) {
		commits, _, err := c.gh.Repositories.ListCommits(ctx, org, name, &github.CommitsListOptions{
			ListOptions: github.ListOptions{PerPage: pageSize, Page: page},
		})
		return commits, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list commits for %s/%s: %w", org, name, err)
	}
	return commits, nil
}

// PullRequests lists every pull request of one repository, in any state.
func (c *Client) PullRequests(ctx context.Context, org, name string) ([]*github.PullRequest, error) {
	prs, err := fetchAllPages(ctx, func(ctx context.Context, page int) ([]*github.PullRequest, error) {
		prs, _, err := c.gh.PullRequests.List(ctx, org, name, &github.PullRequestListOptions{
			State:       "all",
			ListOptions: github.ListOptions{PerPage: pageSize, Page: page},
		})
		return prs, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pull requests for %s/%s: %w", org, name, err)
	}
	return prs, nil
}

// Issues lists every issue of one repository, in any state.
func (c *Client) Issues(ctx context.Context, org, name string) ([]*github.Issue, error) {
	issues, err := fetchAllPages(ctx, func(ctx context.Context, page int) ([]*github.Issue, error) {
		issues, _, err := c.gh.Issues.ListByRepo(ctx, org, name, &github.IssueListByRepoOptions{
			State:       "all",
			ListOptions: github.ListOptions{PerPage: pageSize, Page: page},
		})
		return issues, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list issues for %s/%s: %w", org, name, err)
	}
	return issues, nil
}

// CommitsPage fetches the first page of commits only. The stats endpoint
// works on a bounded sample and never persists, so it does not paginate.
func (c *Client) CommitsPage(ctx context.Context, org, name string) ([]*github.RepositoryCommit, error) {
	commits, _, err := c.gh.Repositories.ListCommits(ctx, org, name, &github.CommitsListOptions{
		ListOptions: github.ListOptions{PerPage: pageSize},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list commits for %s/%s: %w", org, name, err)
	}
	return commits, nil
}

// PullRequestsPage fetches the first page of pull requests only.
func (c *Client) PullRequestsPage(ctx context.Context, org, name string) ([]*github.PullRequest, error) {
	prs, _, err := c.gh.PullRequests.List(ctx, org, name, &github.PullRequestListOptions{
		State:       "all",
		ListOptions: github.ListOptions{PerPage: pageSize},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pull requests for %s/%s: %w", org, name, err)
	}
	return prs, nil
}

// IssuesPage fetches the first page of issues only.
func (c *Client) IssuesPage(ctx context.Context, org, name string) ([]*github.Issue, error) {
	issues, _, err := c.gh.Issues.ListByRepo(ctx, org, name, &github.IssueListByRepoOptions{
		State:       "all",
		ListOptions: github.ListOptions{PerPage: pageSize},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list issues for %s/%s: %w", org, name, err)
	}
	return issues, nil
}

// Issue fetches one issue's details.
func (c *Client) Issue(ctx context.Context, org, name string, number int) (*github.Issue, error) {
	issue, _, err := c.gh.Issues.Get(ctx, org, name, number)
	if err != nil {
		return nil, fmt.Errorf("failed to get issue %s/%s#%d: %w", org, name, number, err)
	}
	return issue, nil
}

// IssueComments fetches the comments of one issue.
func (c *Client) IssueComments(ctx context.Context, org, name string, number int) ([]*github.IssueComment, error) {
	comments, _, err := c.gh.Issues.ListComments(ctx, org, name, number, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments for %s/%s#%d: %w", org, name, number, err)
	}
	return comments, nil
}

// IssueEvents fetches the events of one issue.
func (c *Client) IssueEvents(ctx context.Context, org, name string, number int) ([]*github.IssueEvent, error) {
	events, _, err := c.gh.Issues.ListIssueEvents(ctx, org, name, number, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list events for %s/%s#%d: %w", org, name, number, err)
	}
	return events, nil
}

// IssueTimeline fetches the timeline of one issue.
func (c *Client) IssueTimeline(ctx context.Context, org, name string, number int) ([]*github.Timeline, error) {
	timeline, _, err := c.gh.Issues.ListIssueTimeline(ctx, org, name, number, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list timeline for %s/%s#%d: %w", org, name, number, err)
	}
	return timeline, nil
}
