package handler

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github-integration-service/internal/api"
)

func Health(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, http.StatusOK, api.Health{
			Status:    "healthy",
			Timestamp: time.Now().UTC(),
		})
	}
}
