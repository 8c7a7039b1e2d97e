package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github-integration-service/internal/auth"
	"github-integration-service/internal/domain"
	"github-integration-service/internal/githubapi"
	"github-integration-service/internal/ingest"
	"github-integration-service/internal/repository"
)

type fakeStore struct {
	integrations map[string]*domain.Integration
}

func newFakeStore() *fakeStore {
	return &fakeStore{integrations: make(map[string]*domain.Integration)}
}

func (f *fakeStore) UpsertIntegration(_ context.Context, integration *domain.Integration) (*domain.Integration, error) {
	f.integrations[integration.UserID] = integration
	return integration, nil
}

func (f *fakeStore) GetIntegration(_ context.Context, userID string) (*domain.Integration, error) {
	integration, ok := f.integrations[userID]
	if !ok {
		return nil, repository.ErrIntegrationNotFound
	}
	return integration, nil
}

func (f *fakeStore) DeleteIntegration(_ context.Context, userID string) error {
	if _, ok := f.integrations[userID]; !ok {
		return repository.ErrIntegrationNotFound
	}
	delete(f.integrations, userID)
	return nil
}

func (f *fakeStore) UpsertRepo(context.Context, domain.Document) error { return nil }

func (f *fakeStore) InsertDocuments(_ context.Context, _ string, docs []domain.Document) (domain.IngestResult, error) {
	return domain.IngestResult{Attempted: len(docs)}, nil
}

func (f *fakeStore) QueryCollection(_ context.Context, query *domain.CollectionQuery) (*domain.CollectionPage, error) {
	if _, ok := domain.LookupCollection(query.Collection); !ok {
		return nil, fmt.Errorf("%w: %s", repository.ErrUnknownCollection, query.Collection)
	}

	return &domain.CollectionPage{
		Data:   []domain.Document{},
		Page:   1,
		Size:   100,
		Facets: map[string][]domain.FacetValue{},
	}, nil
}

func (f *fakeStore) RelatedData(_ context.Context, repoID string) (*domain.RelatedData, error) {
	if repoID != "acme/widgets" {
		return nil, fmt.Errorf("%w: %s", repository.ErrRepoNotFound, repoID)
	}
	return &domain.RelatedData{Repo: domain.Document{"repo_id": repoID}}, nil
}

func (f *fakeStore) SearchAcrossCollections(_ context.Context, keyword string) (map[string][]domain.Document, error) {
	return map[string][]domain.Document{
		"issues":  {{"issue_id": "1", "title": keyword}},
		"commits": {{"commit_hash": "abc", "message": keyword}},
	}, nil
}

func (f *fakeStore) SearchByUser(_ context.Context, keyword string) ([]domain.Document, []string, error) {
	return []domain.Document{{"user_id": keyword, "type": "users"}}, []string{"user_id", "type"}, nil
}

func (f *fakeStore) Close() {}

func setupTestServer(t *testing.T) (*httptest.Server, *fakeStore, auth.Sessions) {
	t.Helper()

	store := newFakeStore()
	sessions := auth.NewMemorySessions()
	log := zap.NewNop()

	clients := func(token string) *githubapi.Client { return githubapi.New(token) }
	service := ingest.New(store, clients, log)

	router := NewRouter(&Deps{
		Store:       store,
		Service:     service,
		Sessions:    sessions,
		OAuth:       auth.OAuthConfig(&auth.Config{ClientID: "id", ClientSecret: "secret", CallbackURL: "http://localhost/cb"}),
		Clients:     clients,
		FrontendURL: "http://localhost:4200/",
	}, &Config{Timeout: 5 * time.Second, SyncTimeout: 5 * time.Second}, log)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return srv, store, sessions
}

func doRequest(t *testing.T, method, url, session, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if session != "" {
		req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: session})
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	return resp
}

func TestHealth(t *testing.T) {
	srv, _, _ := setupTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/health", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "healthy", health["status"])
}

func TestIntegrationStatusRequiresSession(t *testing.T) {
	srv, _, _ := setupTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/integration/status", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestIntegrationRemoveThenStatusReportsDisconnected(t *testing.T) {
	srv, store, sessions := setupTestServer(t)

	store.integrations["u1"] = &domain.Integration{
		UserID:          "u1",
		Username:        "octocat",
		IntegrationDate: time.Now().UTC(),
	}
	session := sessions.Create("u1")

	resp := doRequest(t, http.MethodGet, srv.URL+"/integration/status", session, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var status struct {
		Connected bool    `json:"connected"`
		Username  *string `json:"username"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	require.True(t, status.Connected)
	require.NotNil(t, status.Username)
	assert.Equal(t, "octocat", *status.Username)

	resp = doRequest(t, http.MethodDelete, srv.URL+"/integration/remove", session, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, srv.URL+"/integration/status", session, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.False(t, status.Connected)
}

func TestSearchRequiresKeyword(t *testing.T) {
	srv, _, _ := setupTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/search", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSearchTagsResultsByCollection(t *testing.T) {
	srv, _, _ := setupTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/search?keyword=flux", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var results map[string][]map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&results))
	assert.Contains(t, results, "issues")
	assert.Contains(t, results, "commits")
}

func TestRelatedDataUserRequiresUserID(t *testing.T) {
	srv, _, _ := setupTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/related-data-user", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCollectionDataRejectsUnknownCollection(t *testing.T) {
	srv, _, _ := setupTestServer(t)

	resp := doRequest(t, http.MethodPost, srv.URL+"/collection-data", "", `{"collectionName":"nonsense"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCollectionDataKnownCollection(t *testing.T) {
	srv, _, _ := setupTestServer(t)

	resp := doRequest(t, http.MethodPost, srv.URL+"/collection-data", "", `{"collectionName":"commits"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCollectionsListsRegistry(t *testing.T) {
	srv, _, _ := setupTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/collections", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var collections []map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&collections))

	names := make([]string, len(collections))
	for i, c := range collections {
		names[i] = c["name"]
	}
	assert.ElementsMatch(t, []string{"repos", "commits", "pullrequests", "issues", "users"}, names)
}

func TestRelatedDataNotFound(t *testing.T) {
	srv, _, _ := setupTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/related-data?repoId=acme%2Fmissing", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSyncRequiresIntegration(t *testing.T) {
	srv, _, sessions := setupTestServer(t)

	session := sessions.Create("u1")

	resp := doRequest(t, http.MethodPost, srv.URL+"/sync", session, `{"org":"acme","repoName":"widgets"}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestSyncValidatesBody(t *testing.T) {
	srv, _, sessions := setupTestServer(t)

	session := sessions.Create("u1")

	resp := doRequest(t, http.MethodPost, srv.URL+"/sync", session, `{"org":"acme"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
