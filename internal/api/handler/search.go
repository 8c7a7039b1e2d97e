package handler

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github-integration-service/internal/api"
	"github-integration-service/internal/repository"
)

// Search runs one keyword across every collection at once, capped at 10
// matches per collection.
func Search(store repository.Store, requestTimeout time.Duration, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		keyword := r.URL.Query().Get("keyword")
		if keyword == "" {
			logger.Warn("Search: keyword is required")
			api.WriteApiError(w, logger, "Keyword is required", api.CodeValidation, http.StatusBadRequest)
			return
		}

		results, err := store.SearchAcrossCollections(ctx, keyword)
		if err != nil {
			logger.Error("Search: search failed", zap.Error(err))
			writeError(w, logger, "failed to search collections", http.StatusInternalServerError)
			return
		}

		writeJSON(w, logger, http.StatusOK, results)
	}
}
