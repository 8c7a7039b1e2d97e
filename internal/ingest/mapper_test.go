package ingest

import (
	"testing"

	"github.com/google/go-github/v57/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github-integration-service/internal/domain"
)

var testRepo = domain.Repo{Org: "acme", Name: "widgets"}

func TestCommitDocument(t *testing.T) {
	commit := &github.RepositoryCommit{
		SHA: github.String("abc123"),
		Commit: &github.Commit{
			Message: github.String("fix the flux capacitor"),
		},
		Author: &github.User{Login: github.String("doc")},
	}

	doc, err := CommitDocument(testRepo, commit)
	require.NoError(t, err)

	assert.Equal(t, "abc123", doc["commit_hash"])
	assert.Equal(t, "acme/widgets", doc["repo_id"])

	// raw payload carried through under its wire names
	nested, ok := doc["commit"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "fix the flux capacitor", nested["message"])
}

func TestPullRequestDocumentDerivesStringID(t *testing.T) {
	pr := &github.PullRequest{
		ID:     github.Int64(987654321),
		Number: github.Int(7),
		Title:  github.String("add pagination"),
	}

	doc, err := PullRequestDocument(testRepo, pr)
	require.NoError(t, err)

	assert.Equal(t, "987654321", doc["pr_id"])
	assert.Equal(t, "acme/widgets", doc["repo_id"])
	assert.Equal(t, "add pagination", doc["title"])
}

func TestIssueDocumentDerivesStringID(t *testing.T) {
	issue := &github.Issue{
		ID:     github.Int64(555),
		Number: github.Int(12),
		State:  github.String("open"),
	}

	doc, err := IssueDocument(testRepo, issue)
	require.NoError(t, err)

	assert.Equal(t, "555", doc["issue_id"])
	assert.Equal(t, "acme/widgets", doc["repo_id"])
	assert.Equal(t, "open", doc["state"])
}

func TestMemberDocumentHasNoRepoLink(t *testing.T) {
	member := &github.User{
		ID:    github.Int64(31337),
		Login: github.String("octocat"),
	}

	doc, err := MemberDocument(member)
	require.NoError(t, err)

	assert.Equal(t, "31337", doc["user_id"])
	assert.Equal(t, "octocat", doc["login"])
	assert.NotContains(t, doc, "repo_id")
}

func TestRepoDocument(t *testing.T) {
	details := &github.Repository{
		ID:          github.Int64(42),
		Name:        github.String("widgets"),
		Description: github.String("widget factory"),
	}

	doc, err := RepoDocument(testRepo, details)
	require.NoError(t, err)

	assert.Equal(t, "acme/widgets", doc["repo_id"])
	assert.Equal(t, "widget factory", doc["description"])
}
