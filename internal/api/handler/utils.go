package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github-integration-service/internal/api"
	"github-integration-service/internal/auth"
	"github-integration-service/internal/domain"
	"github-integration-service/internal/repository"
)

type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, logger *zap.Logger, errMessage string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := ErrorResponse{
		Status:  statusCode,
		Message: errMessage,
	}

	err := json.NewEncoder(w).Encode(resp)
	if err != nil {
		logger.Error("writeError: failed to encoding response", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		logger.Error("writeJSON: failed to encode response", zap.Error(err))
	}
}

// requireIntegration is the authorization gate for every remote-fetching
// handler: the caller must have a session and a linked GitHub integration.
// On failure it writes the response and returns ok=false.
func requireIntegration(ctx context.Context, store repository.Store, w http.ResponseWriter, logger *zap.Logger) (*domain.Integration, bool) {
	userID, ok := auth.UserID(ctx)
	if !ok {
		api.WriteApiError(w, logger, "authentication required", api.CodeAuthentication, http.StatusUnauthorized)
		return nil, false
	}

	integration, err := store.GetIntegration(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrIntegrationNotFound) {
			api.WriteApiError(w, logger, "GitHub integration not found", api.CodeIntegrationNotFound, http.StatusForbidden)
			return nil, false
		}

		logger.Error("failed to resolve integration", zap.String("user_id", userID), zap.Error(err))
		writeError(w, logger, "failed to resolve integration", http.StatusInternalServerError)
		return nil, false
	}

	return integration, true
}
