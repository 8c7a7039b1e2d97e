package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github-integration-service/internal/api"
	"github-integration-service/internal/domain"
	"github-integration-service/internal/ingest"
	"github-integration-service/internal/repository"
)

func RepoStats(store repository.Store, service *ingest.Service, requestTimeout time.Duration, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		var req api.RepoRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			logger.Warn("RepoStats: failed to decode body", zap.Error(err))
			api.WriteApiError(w, logger, "failed to decode body", api.CodeValidation, http.StatusBadRequest)
			return
		}

		if req.Org == "" || req.RepoName == "" {
			logger.Warn("RepoStats: org and repoName are required")
			api.WriteApiError(w, logger, "org and repoName are required", api.CodeValidation, http.StatusBadRequest)
			return
		}

		integration, ok := requireIntegration(ctx, store, w, logger)
		if !ok {
			return
		}

		stats, err := service.RepoStats(ctx, integration.AccessToken, domain.Repo{Org: req.Org, Name: req.RepoName})
		if err != nil {
			logger.Error("RepoStats: failed to fetch repository details", zap.Error(err))
			writeError(w, logger, "failed to fetch repository details", http.StatusInternalServerError)
			return
		}

		writeJSON(w, logger, http.StatusOK, stats)
	}
}
