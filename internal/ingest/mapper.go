package ingest

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/go-github/v57/github"

	"github-integration-service/internal/domain"
)

// The mapper's only job is natural-key derivation and repo_id attachment.
// Everything else in the remote payload is carried through untouched.

func RepoDocument(repo domain.Repo, details *github.Repository) (domain.Document, error) {
	doc, err := toDocument(details)
	if err != nil {
		return nil, err
	}

	doc["repo_id"] = repo.ID()
	return doc, nil
}

func CommitDocument(repo domain.Repo, commit *github.RepositoryCommit) (domain.Document, error) {
	doc, err := toDocument(commit)
	if err != nil {
		return nil, err
	}

	doc["commit_hash"] = commit.GetSHA()
	doc["repo_id"] = repo.ID()
	return doc, nil
}

func PullRequestDocument(repo domain.Repo, pr *github.PullRequest) (domain.Document, error) {
	doc, err := toDocument(pr)
	if err != nil {
		return nil, err
	}

	doc["pr_id"] = strconv.FormatInt(pr.GetID(), 10)
	doc["repo_id"] = repo.ID()
	return doc, nil
}

func IssueDocument(repo domain.Repo, issue *github.Issue) (domain.Document, error) {
	doc, err := toDocument(issue)
	if err != nil {
		return nil, err
	}

	doc["issue_id"] = strconv.FormatInt(issue.GetID(), 10)
	doc["repo_id"] = repo.ID()
	return doc, nil
}

// ProfileDocument keeps the raw GitHub profile payload for the Integration
// record.
func ProfileDocument(user *github.User) (domain.Document, error) {
	return toDocument(user)
}

func MemberDocument(member *github.User) (domain.Document, error) {
	doc, err := toDocument(member)
	if err != nil {
		return nil, err
	}

	doc["user_id"] = strconv.FormatInt(member.GetID(), 10)
	return doc, nil
}

// toDocument round-trips a remote record through JSON so the stored document
// matches the wire shape of the API, not Go struct naming.
func toDocument(v any) (domain.Document, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}

	var doc domain.Document
	err = json.Unmarshal(raw, &doc)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}

	return doc, nil
}
