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

// SyncRepository runs the full ingest-and-persist pipeline for one
// repository and reports per-collection attempted and duplicate-skip counts.
func SyncRepository(store repository.Store, service *ingest.Service, requestTimeout time.Duration, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		var req api.RepoRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			logger.Warn("SyncRepository: failed to decode body", zap.Error(err))
			api.WriteApiError(w, logger, "failed to decode body", api.CodeValidation, http.StatusBadRequest)
			return
		}

		if req.Org == "" || req.RepoName == "" {
			logger.Warn("SyncRepository: org and repoName are required")
			api.WriteApiError(w, logger, "org and repoName are required", api.CodeValidation, http.StatusBadRequest)
			return
		}

		integration, ok := requireIntegration(ctx, store, w, logger)
		if !ok {
			return
		}

		report, err := service.SyncRepository(ctx, integration.AccessToken, domain.Repo{Org: req.Org, Name: req.RepoName})
		if err != nil {
			logger.Error("SyncRepository: sync failed",
				zap.String("org", req.Org), zap.String("repo", req.RepoName), zap.Error(err))
			api.WriteApiError(w, logger, "failed to sync repository", api.CodeRemoteAPI, http.StatusInternalServerError)
			return
		}

		logger.Info("SyncRepository: sync completed", zap.String("repo_id", report.RepoID))
		writeJSON(w, logger, http.StatusOK, report)
	}
}
