package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v57/github"
	"go.uber.org/zap"

	"github-integration-service/internal/api"
	"github-integration-service/internal/domain"
	"github-integration-service/internal/githubapi"
	"github-integration-service/internal/repository"
)

// ClientFactory builds a GitHub client for one access token. Tests swap it
// for a factory pointed at a local fake.
type ClientFactory func(token string) *githubapi.Client

type Service struct {
	store   repository.Store
	clients ClientFactory
	logger  *zap.Logger
}

func New(store repository.Store, clients ClientFactory, logger *zap.Logger) *Service {
	return &Service{
		store:   store,
		clients: clients,
		logger:  logger,
	}
}

// Organizations lists the user's organizations with each organization's
// repositories attached.
func (s *Service) Organizations(ctx context.Context, token string) ([]api.Organization, error) {
	client := s.clients(token)

	orgs, err := client.Organizations(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]api.Organization, 0, len(orgs))
	for _, org := range orgs {
		repos, err := client.OrgRepositories(ctx, org.GetLogin())
		if err != nil {
			return nil, err
		}

		orgRepos := make([]api.OrganizationRepo, len(repos))
		for i, repo := range repos {
			orgRepos[i] = api.OrganizationRepo{
				ID:           repo.GetID(),
				Name:         repo.GetName(),
				FullName:     repo.GetFullName(),
				HTMLURL:      repo.GetHTMLURL(),
				Description:  repo.GetDescription(),
				Language:     repo.GetLanguage(),
				Stars:        repo.GetStargazersCount(),
				Included:     false,
				Organization: org.GetLogin(),
			}
		}

		result = append(result, api.Organization{
			ID:           org.GetID(),
			Login:        org.GetLogin(),
			Name:         org.GetName(),
			Repositories: orgRepos,
		})
	}

	return result, nil
}

// SyncRepository runs the full ingest pipeline for one repository: repo
// details, commits, pull requests, issues and org members, fetched page by
// page and reconciled into the store. Duplicate records from earlier syncs
// are counted as skips, never as failures.
func (s *Service) SyncRepository(ctx context.Context, token string, repo domain.Repo) (*api.SyncReport, error) {
	client := s.clients(token)

	details, err := client.Repository(ctx, repo.Org, repo.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch repository details: %w", err)
	}

	repoDoc, err := RepoDocument(repo, details)
	if err != nil {
		return nil, err
	}

	err = s.store.UpsertRepo(ctx, repoDoc)
	if err != nil {
		return nil, err
	}

	report := &api.SyncReport{RepoID: repo.ID()}

	commits, err := client.Commits(ctx, repo.Org, repo.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch commits: %w", err)
	}
	report.Commits, err = ingestBatch(ctx, s.store, domain.CollectionCommits, commits, func(c *github.RepositoryCommit) (domain.Document, error) {
		return CommitDocument(repo, c)
	})
	if err != nil {
		return nil, err
	}

	prs, err := client.PullRequests(ctx, repo.Org, repo.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pull requests: %w", err)
	}
	report.PullRequests, err = ingestBatch(ctx, s.store, domain.CollectionPullRequests, prs, func(pr *github.PullRequest) (domain.Document, error) {
		return PullRequestDocument(repo, pr)
	})
	if err != nil {
		return nil, err
	}

	issues, err := client.Issues(ctx, repo.Org, repo.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch issues: %w", err)
	}
	report.Issues, err = ingestBatch(ctx, s.store, domain.CollectionIssues, issues, func(issue *github.Issue) (domain.Document, error) {
		return IssueDocument(repo, issue)
	})
	if err != nil {
		return nil, err
	}

	members, err := client.OrgMembers(ctx, repo.Org)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch organization members: %w", err)
	}
	report.Users, err = ingestBatch(ctx, s.store, domain.CollectionUsers, members, MemberDocument)
	if err != nil {
		return nil, err
	}

	s.logger.Info("repository sync completed",
		zap.String("repo_id", repo.ID()),
		zap.Int("commits", report.Commits.Attempted),
		zap.Int("pull_requests", report.PullRequests.Attempted),
		zap.Int("issues", report.Issues.Attempted),
		zap.Int("users", report.Users.Attempted),
	)

	return report, nil
}

func ingestBatch[T any](ctx context.Context, store repository.Store, collection string, records []T, mapRecord func(T) (domain.Document, error)) (domain.IngestResult, error) {
	docs := make([]domain.Document, len(records))
	for i, record := range records {
		doc, err := mapRecord(record)
		if err != nil {
			return domain.IngestResult{}, err
		}
		docs[i] = doc
	}

	return store.InsertDocuments(ctx, collection, docs)
}

// RepoStats aggregates per-user activity for one repository from a single
// page of each listing. Nothing is persisted.
func (s *Service) RepoStats(ctx context.Context, token string, repo domain.Repo) (*api.RepoStats, error) {
	client := s.clients(token)

	commits, err := client.CommitsPage(ctx, repo.Org, repo.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch commits: %w", err)
	}

	prs, err := client.PullRequestsPage(ctx, repo.Org, repo.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pull requests: %w", err)
	}

	issues, err := client.IssuesPage(ctx, repo.Org, repo.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch issues: %w", err)
	}

	stats := &api.RepoStats{RepoName: repo.Name}
	byUser := make(map[string]*api.UserStat)
	order := make([]string, 0)

	userStat := func(username string) *api.UserStat {
		if username == "" {
			username = "Unknown"
		}
		stat, ok := byUser[username]
		if !ok {
			stat = &api.UserStat{User: username}
			byUser[username] = stat
			order = append(order, username)
		}
		return stat
	}

	for _, commit := range commits {
		userStat(commit.GetAuthor().GetLogin()).TotalCommits++

		stats.Commits = append(stats.Commits, api.CommitStat{
			SHA:     commit.GetSHA(),
			Message: commit.GetCommit().GetMessage(),
			Author:  commit.GetAuthor().GetLogin(),
			Date:    commit.GetCommit().GetAuthor().GetDate().Format(timeFormat),
		})
	}

	for _, pr := range prs {
		userStat(pr.GetUser().GetLogin()).TotalPullRequests++

		stats.PullRequests = append(stats.PullRequests, api.PullRequestStat{
			Title:     pr.GetTitle(),
			Number:    pr.GetNumber(),
			State:     pr.GetState(),
			Author:    pr.GetUser().GetLogin(),
			CreatedAt: pr.GetCreatedAt().Format(timeFormat),
		})
	}

	for _, issue := range issues {
		userStat(issue.GetUser().GetLogin()).TotalIssues++

		stats.Issues = append(stats.Issues, api.IssueStat{
			Title:     issue.GetTitle(),
			Number:    issue.GetNumber(),
			State:     issue.GetState(),
			Author:    issue.GetUser().GetLogin(),
			CreatedAt: issue.GetCreatedAt().Format(timeFormat),
		})
	}

	stats.UserStats = make([]api.UserStat, len(order))
	for i, username := range order {
		stats.UserStats[i] = *byUser[username]
	}

	return stats, nil
}

// IssueDetails is a composite fetch: issue, comments, events, timeline and
// the pull requests whose body references the issue. Any sub-fetch failing
// aborts the whole composite; no partial response is returned.
func (s *Service) IssueDetails(ctx context.Context, token string, req *api.IssueDetailsRequest) (*api.IssueDetails, error) {
	client := s.clients(token)

	issue, err := client.Issue(ctx, req.Owner, req.Repo, req.IssueNumber)
	if err != nil {
		return nil, fmt.Errorf("error fetching issue details: %w", err)
	}

	comments, err := client.IssueComments(ctx, req.Owner, req.Repo, req.IssueNumber)
	if err != nil {
		return nil, fmt.Errorf("error fetching issue comments: %w", err)
	}

	events, err := client.IssueEvents(ctx, req.Owner, req.Repo, req.IssueNumber)
	if err != nil {
		return nil, fmt.Errorf("error fetching issue events: %w", err)
	}

	timeline, err := client.IssueTimeline(ctx, req.Owner, req.Repo, req.IssueNumber)
	if err != nil {
		return nil, fmt.Errorf("error fetching issue timelines: %w", err)
	}

	prs, err := client.PullRequestsPage(ctx, req.Owner, req.Repo)
	if err != nil {
		return nil, fmt.Errorf("error fetching related PRs: %w", err)
	}

	ref := fmt.Sprintf("#%d", req.IssueNumber)
	related := make([]*github.PullRequest, 0)
	for _, pr := range prs {
		if strings.Contains(pr.GetBody(), ref) {
			related = append(related, pr)
		}
	}

	return &api.IssueDetails{
		IssueDetails:   issue,
		IssueComments:  comments,
		IssueEvents:    events,
		IssueTimelines: timeline,
		RelatedPRs:     related,
	}, nil
}

const timeFormat = "2006-01-02T15:04:05Z07:00"
