package githubapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/google/go-github/v57/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()

	gh := github.NewClient(nil)
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	gh.BaseURL = base

	return NewFromGithub(gh)
}

func writeCommitsPage(w http.ResponseWriter, page, size int) {
	commits := make([]map[string]any, size)
	for i := range commits {
		commits[i] = map[string]any{"sha": fmt.Sprintf("sha-%d-%d", page, i)}
	}
	_ = json.NewEncoder(w).Encode(commits)
}

func TestCommitsWalksAllPages(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/repos/acme/widgets/commits", r.URL.Path)
		require.Equal(t, "100", r.URL.Query().Get("per_page"))
		requests++

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page == 0 {
			page = 1
		}

		switch page {
		case 1, 2:
			writeCommitsPage(w, page, 100)
		default:
			writeCommitsPage(w, page, 37)
		}
	}))
	defer srv.Close()

	client := testClient(t, srv)

	commits, err := client.Commits(context.Background(), "acme", "widgets")
	require.NoError(t, err)
	assert.Len(t, commits, 237)
	assert.Equal(t, 3, requests)
	assert.Equal(t, "sha-1-0", commits[0].GetSHA())
}

func TestCommitsPageFetchesSinglePage(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		writeCommitsPage(w, 1, 100)
	}))
	defer srv.Close()

	client := testClient(t, srv)

	commits, err := client.CommitsPage(context.Background(), "acme", "widgets")
	require.NoError(t, err)
	assert.Len(t, commits, 100)
	assert.Equal(t, 1, requests)
}

func TestIssuesAbortsOnPageError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page >= 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}

		issues := make([]map[string]any, 100)
		for i := range issues {
			issues[i] = map[string]any{"id": i + 1, "number": i + 1}
		}
		_ = json.NewEncoder(w).Encode(issues)
	}))
	defer srv.Close()

	client := testClient(t, srv)

	issues, err := client.Issues(context.Background(), "acme", "widgets")
	require.Error(t, err)
	assert.Nil(t, issues)
	assert.Contains(t, err.Error(), "failed to list issues for acme/widgets")
}

func TestRepositoryDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/repos/acme/widgets", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":        42,
			"name":      "widgets",
			"full_name": "acme/widgets",
		})
	}))
	defer srv.Close()

	client := testClient(t, srv)

	repo, err := client.Repository(context.Background(), "acme", "widgets")
	require.NoError(t, err)
	assert.Equal(t, int64(42), repo.GetID())
	assert.Equal(t, "acme/widgets", repo.GetFullName())
}
