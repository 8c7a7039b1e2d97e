package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github-integration-service/internal/api"
	"github-integration-service/internal/repository"
)

// RelatedData returns one repository document joined with every commit,
// pull request and issue linked to it.
func RelatedData(store repository.Store, requestTimeout time.Duration, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		repoID := r.URL.Query().Get("repoId")
		if repoID == "" {
			logger.Warn("RelatedData: repoId is required")
			api.WriteApiError(w, logger, "repoId is required", api.CodeValidation, http.StatusBadRequest)
			return
		}

		related, err := store.RelatedData(ctx, repoID)
		if err != nil {
			if errors.Is(err, repository.ErrRepoNotFound) {
				logger.Warn("RelatedData: repo not found", zap.String("repo_id", repoID))
				api.WriteApiError(w, logger, "repository not found", api.CodeNotFound, http.StatusNotFound)
				return
			}

			logger.Error("RelatedData: failed to get related data", zap.String("repo_id", repoID), zap.Error(err))
			writeError(w, logger, "failed to get related data", http.StatusInternalServerError)
			return
		}

		writeJSON(w, logger, http.StatusOK, related)
	}
}

// RelatedDataUser is the uncapped cross-collection search: every match in
// every collection, each tagged with its collection name, plus the union of
// all field names seen.
func RelatedDataUser(store repository.Store, requestTimeout time.Duration, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		userID := r.URL.Query().Get("userId")
		if userID == "" {
			logger.Warn("RelatedDataUser: userId is required")
			api.WriteApiError(w, logger, "User ID is required", api.CodeValidation, http.StatusBadRequest)
			return
		}

		results, fields, err := store.SearchByUser(ctx, userID)
		if err != nil {
			logger.Error("RelatedDataUser: search failed", zap.Error(err))
			writeError(w, logger, "failed to search by user id", http.StatusInternalServerError)
			return
		}

		writeJSON(w, logger, http.StatusOK, api.UserSearchResponse{
			Results:   results,
			AllFields: fields,
		})
	}
}
