package handler

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github-integration-service/internal/ingest"
	"github-integration-service/internal/repository"
)

func Organizations(store repository.Store, service *ingest.Service, requestTimeout time.Duration, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		integration, ok := requireIntegration(ctx, store, w, logger)
		if !ok {
			return
		}

		orgs, err := service.Organizations(ctx, integration.AccessToken)
		if err != nil {
			logger.Error("Organizations: failed to fetch organizations", zap.Error(err))
			writeError(w, logger, "failed to fetch organizations and repositories", http.StatusInternalServerError)
			return
		}

		writeJSON(w, logger, http.StatusOK, orgs)
	}
}
