package server

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github-integration-service/internal/api/handler"
	"github-integration-service/internal/auth"
	"github-integration-service/internal/ingest"
	"github-integration-service/internal/logger"
	"github-integration-service/internal/repository"
)

type Config struct {
	Host            string        `env:"HTTP_HOST" env-required:"true"`
	Port            int           `env:"HTTP_PORT" env-required:"true"`
	Timeout         time.Duration `env:"HTTP_TIMEOUT" env-required:"true"`
	SyncTimeout     time.Duration `env:"HTTP_SYNC_TIMEOUT" env-default:"10m"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type Deps struct {
	Store       repository.Store
	Service     *ingest.Service
	Sessions    auth.Sessions
	OAuth       *oauth2.Config
	Clients     ingest.ClientFactory
	FrontendURL string
}

func NewRouter(deps *Deps, cfg *Config, log *zap.Logger) *chi.Mux {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logger.MiddlewareLogger(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	router.Get("/health", handler.Health(log))

	router.Get("/auth/github", handler.GithubAuth(deps.OAuth, log))
	router.Get("/auth/github/callback", handler.GithubCallback(
		deps.OAuth, deps.Sessions, deps.Store, deps.Clients, deps.FrontendURL, cfg.Timeout, log))

	// session-protected surface
	router.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(deps.Sessions, log))

		r.Get("/integration/status", handler.IntegrationStatus(deps.Store, cfg.Timeout, log))
		r.Delete("/integration/remove", handler.RemoveIntegration(deps.Store, cfg.Timeout, log))

		r.Get("/organizations", handler.Organizations(deps.Store, deps.Service, cfg.SyncTimeout, log))
		r.Post("/stats", handler.RepoStats(deps.Store, deps.Service, cfg.SyncTimeout, log))
		r.Post("/sync", handler.SyncRepository(deps.Store, deps.Service, cfg.SyncTimeout, log))
		r.Post("/issue-details", handler.IssueDetails(deps.Store, deps.Service, cfg.SyncTimeout, log))
	})

	// query surface over persisted data
	router.Get("/collections", handler.Collections(log))
	router.Post("/collection-data", handler.CollectionData(deps.Store, cfg.Timeout, log))
	router.Get("/related-data", handler.RelatedData(deps.Store, cfg.Timeout, log))
	router.Get("/search", handler.Search(deps.Store, cfg.Timeout, log))
	router.Get("/related-data-user", handler.RelatedDataUser(deps.Store, cfg.Timeout, log))

	return router
}
