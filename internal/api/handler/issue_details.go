package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github-integration-service/internal/api"
	"github-integration-service/internal/ingest"
	"github-integration-service/internal/repository"
)

// IssueDetails fetches one issue with its comments, events, timeline and
// referencing pull requests. A failure in any sub-fetch aborts the whole
// composite; the wrapped error names which sub-fetch failed.
func IssueDetails(store repository.Store, service *ingest.Service, requestTimeout time.Duration, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		var req api.IssueDetailsRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			logger.Warn("IssueDetails: failed to decode body", zap.Error(err))
			api.WriteApiError(w, logger, "failed to decode body", api.CodeValidation, http.StatusBadRequest)
			return
		}

		if req.Owner == "" || req.Repo == "" || req.IssueNumber == 0 {
			logger.Warn("IssueDetails: owner, repo and issue number are required")
			api.WriteApiError(w, logger, "Owner, repo, and issue number are required", api.CodeValidation, http.StatusBadRequest)
			return
		}

		integration, ok := requireIntegration(ctx, store, w, logger)
		if !ok {
			return
		}

		details, err := service.IssueDetails(ctx, integration.AccessToken, &req)
		if err != nil {
			logger.Error("IssueDetails: composite fetch failed",
				zap.String("owner", req.Owner), zap.String("repo", req.Repo),
				zap.Int("issue_number", req.IssueNumber), zap.Error(err))
			api.WriteApiError(w, logger, "failed to fetch issue data", api.CodeRemoteAPI, http.StatusInternalServerError)
			return
		}

		writeJSON(w, logger, http.StatusOK, details)
	}
}
