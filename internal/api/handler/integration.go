package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github-integration-service/internal/api"
	"github-integration-service/internal/auth"
	"github-integration-service/internal/repository"
)

// IntegrationStatus reports whether the caller has a linked GitHub account.
// A valid session without an integration is not an error: connected=false.
func IntegrationStatus(store repository.Store, requestTimeout time.Duration, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		userID, ok := auth.UserID(ctx)
		if !ok {
			api.WriteApiError(w, logger, "authentication required", api.CodeAuthentication, http.StatusUnauthorized)
			return
		}

		integration, err := store.GetIntegration(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrIntegrationNotFound) {
				writeJSON(w, logger, http.StatusOK, api.IntegrationStatus{Connected: false})
				return
			}

			logger.Error("IntegrationStatus: failed to get integration", zap.String("user_id", userID), zap.Error(err))
			writeError(w, logger, "failed to fetch integration status", http.StatusInternalServerError)
			return
		}

		writeJSON(w, logger, http.StatusOK, api.IntegrationStatus{
			Connected:       true,
			IntegrationDate: &integration.IntegrationDate,
			Username:        &integration.Username,
		})
	}
}

// RemoveIntegration deletes the caller's integration record. Stored entity
// documents are left in place; only an explicit disconnect removes the
// credential.
func RemoveIntegration(store repository.Store, requestTimeout time.Duration, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		userID, ok := auth.UserID(ctx)
		if !ok {
			api.WriteApiError(w, logger, "authentication required", api.CodeAuthentication, http.StatusUnauthorized)
			return
		}

		err := store.DeleteIntegration(ctx, userID)
		if err != nil && !errors.Is(err, repository.ErrIntegrationNotFound) {
			logger.Error("RemoveIntegration: failed to delete integration", zap.String("user_id", userID), zap.Error(err))
			writeError(w, logger, "failed to remove integration", http.StatusInternalServerError)
			return
		}

		logger.Info("RemoveIntegration: integration removed", zap.String("user_id", userID))
		writeJSON(w, logger, http.StatusOK, map[string]string{"message": "GitHub integration removed"})
	}
}
