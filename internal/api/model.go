package api

import (
	"time"

	"github.com/google/go-github/v57/github"

	"github-integration-service/internal/domain"
)

type IntegrationStatus struct {
	Connected       bool       `json:"connected"`
	IntegrationDate *time.Time `json:"integrationDate"`
	Username        *string    `json:"username"`
}

type Organization struct {
	ID           int64              `json:"id"`
	Login        string             `json:"login"`
	Name         string             `json:"name"`
	Repositories []OrganizationRepo `json:"repositories"`
}

type OrganizationRepo struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	FullName     string `json:"full_name"`
	HTMLURL      string `json:"html_url"`
	Description  string `json:"description"`
	Language     string `json:"language"`
	Stars        int    `json:"stargazers_count"`
	Included     bool   `json:"included"`
	Organization string `json:"organization"`
}

type RepoRequest struct {
	Org      string `json:"org"`
	RepoName string `json:"repoName"`
}

type SyncReport struct {
	RepoID       string              `json:"repo_id"`
	Commits      domain.IngestResult `json:"commits"`
	PullRequests domain.IngestResult `json:"pullRequests"`
	Issues       domain.IngestResult `json:"issues"`
	Users        domain.IngestResult `json:"users"`
}

type CommitStat struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
	Author  string `json:"author"`
	Date    string `json:"date"`
}

type PullRequestStat struct {
	Title     string `json:"title"`
	Number    int    `json:"number"`
	State     string `json:"state"`
	Author    string `json:"author"`
	CreatedAt string `json:"createdAt"`
}

type IssueStat struct {
	Title     string `json:"title"`
	Number    int    `json:"number"`
	State     string `json:"state"`
	Author    string `json:"author"`
	CreatedAt string `json:"createdAt"`
}

type UserStat struct {
	User              string `json:"user"`
	TotalCommits      int    `json:"totalCommits"`
	TotalPullRequests int    `json:"totalPullRequests"`
	TotalIssues       int    `json:"totalIssues"`
}

type RepoStats struct {
	Commits      []CommitStat      `json:"commits"`
	PullRequests []PullRequestStat `json:"pullRequests"`
	Issues       []IssueStat       `json:"issues"`
	UserStats    []UserStat        `json:"userStats"`
	RepoName     string            `json:"repoName"`
}

type CollectionInfo struct {
	Name string `json:"name"`
}

type CollectionDataRequest struct {
	CollectionName string            `json:"collectionName"`
	Page           int               `json:"page"`
	PageSize       int               `json:"pageSize"`
	SearchTerm     string            `json:"searchTerm"`
	Filters        map[string]string `json:"filters"`
	DateRange      *DateRange        `json:"dateRange"`
}

type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type UserSearchResponse struct {
	Results   []domain.Document `json:"results"`
	AllFields []string          `json:"allFields"`
}

type IssueDetailsRequest struct {
	Owner       string `json:"owner"`
	Repo        string `json:"repo"`
	IssueNumber int    `json:"issueNumber"`
}

type IssueDetails struct {
	IssueDetails   *github.Issue          `json:"issueDetails"`
	IssueComments  []*github.IssueComment `json:"issueComments"`
	IssueEvents    []*github.IssueEvent   `json:"issueEvents"`
	IssueTimelines []*github.Timeline     `json:"issueTimelines"`
	RelatedPRs     []*github.PullRequest  `json:"relatedPRs"`
}

type Health struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
