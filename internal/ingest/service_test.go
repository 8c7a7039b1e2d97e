package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v57/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github-integration-service/internal/domain"
	"github-integration-service/internal/githubapi"
	"github-integration-service/internal/repository"
)

// fakeStore reproduces the store's reconciliation contract in memory:
// repos overwrite on conflict, every other kind skips duplicates.
type fakeStore struct {
	repos map[string]domain.Document
	docs  map[string]map[string]domain.Document
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		repos: make(map[string]domain.Document),
		docs:  make(map[string]map[string]domain.Document),
	}
}

func (f *fakeStore) UpsertRepo(_ context.Context, doc domain.Document) error {
	repoID, _ := doc["repo_id"].(string)
	if repoID == "" {
		return fmt.Errorf("document is missing repo_id")
	}
	f.repos[repoID] = doc
	return nil
}

func (f *fakeStore) InsertDocuments(_ context.Context, collection string, docs []domain.Document) (domain.IngestResult, error) {
	col, ok := domain.LookupCollection(collection)
	if !ok {
		return domain.IngestResult{}, repository.ErrUnknownCollection
	}

	stored, ok := f.docs[collection]
	if !ok {
		stored = make(map[string]domain.Document)
		f.docs[collection] = stored
	}

	result := domain.IngestResult{Attempted: len(docs)}
	for _, doc := range docs {
		key, _ := doc[col.KeyField].(string)
		if _, exists := stored[key]; exists {
			result.Skipped++
			continue
		}
		stored[key] = doc
	}

	return result, nil
}

func (f *fakeStore) UpsertIntegration(context.Context, *domain.Integration) (*domain.Integration, error) {
	return nil, nil
}

func (f *fakeStore) GetIntegration(context.Context, string) (*domain.Integration, error) {
	return nil, repository.ErrIntegrationNotFound
}

func (f *fakeStore) DeleteIntegration(context.Context, string) error { return nil }

func (f *fakeStore) QueryCollection(context.Context, *domain.CollectionQuery) (*domain.CollectionPage, error) {
	return nil, nil
}

func (f *fakeStore) RelatedData(context.Context, string) (*domain.RelatedData, error) {
	return nil, nil
}

func (f *fakeStore) SearchAcrossCollections(context.Context, string) (map[string][]domain.Document, error) {
	return nil, nil
}

func (f *fakeStore) SearchByUser(context.Context, string) ([]domain.Document, []string, error) {
	return nil, nil, nil
}

func (f *fakeStore) Close() {}

type fakeGithub struct {
	description string
}

func (g *fakeGithub) handler(t *testing.T) http.Handler {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/repos/acme/widgets", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":          42,
			"name":        "widgets",
			"full_name":   "acme/widgets",
			"description": g.description,
		})
	})

	mux.HandleFunc("/repos/acme/widgets/commits", func(w http.ResponseWriter, r *http.Request) {
		commits := make([]map[string]any, 10)
		for i := range commits {
			commits[i] = map[string]any{
				"sha":    fmt.Sprintf("sha-%d", i),
				"commit": map[string]any{"message": fmt.Sprintf("commit %d", i)},
			}
		}
		_ = json.NewEncoder(w).Encode(commits)
	})

	mux.HandleFunc("/repos/acme/widgets/pulls", func(w http.ResponseWriter, r *http.Request) {
		prs := make([]map[string]any, 3)
		for i := range prs {
			prs[i] = map[string]any{"id": 1000 + i, "number": i + 1, "state": "open"}
		}
		_ = json.NewEncoder(w).Encode(prs)
	})

	mux.HandleFunc("/repos/acme/widgets/issues", func(w http.ResponseWriter, r *http.Request) {
		issues := make([]map[string]any, 2)
		for i := range issues {
			issues[i] = map[string]any{"id": 2000 + i, "number": i + 1, "state": "open"}
		}
		_ = json.NewEncoder(w).Encode(issues)
	})

	mux.HandleFunc("/orgs/acme/members", func(w http.ResponseWriter, r *http.Request) {
		members := make([]map[string]any, 4)
		for i := range members {
			members[i] = map[string]any{"id": 3000 + i, "login": fmt.Sprintf("user%d", i)}
		}
		_ = json.NewEncoder(w).Encode(members)
	})

	return mux
}

func testService(t *testing.T, store repository.Store, srv *httptest.Server) *Service {
	t.Helper()

	factory := func(token string) *githubapi.Client {
		gh := github.NewClient(nil)
		base, err := url.Parse(srv.URL + "/")
		require.NoError(t, err)
		gh.BaseURL = base
		return githubapi.NewFromGithub(gh)
	}

	return New(store, factory, zap.NewNop())
}

func TestSyncRepositoryIngestsAllKinds(t *testing.T) {
	gh := &fakeGithub{description: "widget factory"}
	srv := httptest.NewServer(gh.handler(t))
	defer srv.Close()

	store := newFakeStore()
	service := testService(t, store, srv)

	report, err := service.SyncRepository(context.Background(), "token", domain.Repo{Org: "acme", Name: "widgets"})
	require.NoError(t, err)

	assert.Equal(t, "acme/widgets", report.RepoID)
	assert.Equal(t, domain.IngestResult{Attempted: 10}, report.Commits)
	assert.Equal(t, domain.IngestResult{Attempted: 3}, report.PullRequests)
	assert.Equal(t, domain.IngestResult{Attempted: 2}, report.Issues)
	assert.Equal(t, domain.IngestResult{Attempted: 4}, report.Users)

	require.Contains(t, store.repos, "acme/widgets")
	assert.Equal(t, "widget factory", store.repos["acme/widgets"]["description"])
	assert.Len(t, store.docs[domain.CollectionCommits], 10)
}

func TestSyncRepositoryIsIdempotent(t *testing.T) {
	gh := &fakeGithub{description: "widget factory"}
	srv := httptest.NewServer(gh.handler(t))
	defer srv.Close()

	store := newFakeStore()
	service := testService(t, store, srv)

	_, err := service.SyncRepository(context.Background(), "token", domain.Repo{Org: "acme", Name: "widgets"})
	require.NoError(t, err)

	report, err := service.SyncRepository(context.Background(), "token", domain.Repo{Org: "acme", Name: "widgets"})
	require.NoError(t, err)

	// same 10 commits again: all attempted, all skipped, none duplicated
	assert.Equal(t, domain.IngestResult{Attempted: 10, Skipped: 10}, report.Commits)
	assert.Len(t, store.docs[domain.CollectionCommits], 10)
	assert.Len(t, store.docs[domain.CollectionUsers], 4)
}

func TestSyncRepositoryOverwritesRepoDocument(t *testing.T) {
	gh := &fakeGithub{description: "old description"}
	srv := httptest.NewServer(gh.handler(t))
	defer srv.Close()

	store := newFakeStore()
	service := testService(t, store, srv)

	_, err := service.SyncRepository(context.Background(), "token", domain.Repo{Org: "acme", Name: "widgets"})
	require.NoError(t, err)

	gh.description = "new description"

	_, err = service.SyncRepository(context.Background(), "token", domain.Repo{Org: "acme", Name: "widgets"})
	require.NoError(t, err)

	require.Len(t, store.repos, 1)
	assert.Equal(t, "new description", store.repos["acme/widgets"]["description"])
	assert.Equal(t, "acme/widgets", store.repos["acme/widgets"]["repo_id"])
}

func TestSyncRepositoryAbortsWhenRemoteFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	store := newFakeStore()
	service := testService(t, store, srv)

	report, err := service.SyncRepository(context.Background(), "token", domain.Repo{Org: "acme", Name: "widgets"})
	require.Error(t, err)
	assert.Nil(t, report)
	assert.Contains(t, err.Error(), "failed to fetch repository details")
	assert.Empty(t, store.repos)
}
