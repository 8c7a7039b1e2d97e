package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github-integration-service/internal/api"
	"github-integration-service/internal/domain"
	"github-integration-service/internal/repository"
)

// Collections lists the queryable entity-kind stores. The integrations
// store is deliberately absent: credentials are never exposed through the
// query surface.
func Collections(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names := domain.CollectionNames()

		infos := make([]api.CollectionInfo, len(names))
		for i, name := range names {
			infos[i] = api.CollectionInfo{Name: name}
		}

		writeJSON(w, logger, http.StatusOK, infos)
	}
}

// CollectionData serves one filtered, searched, paginated page of a
// collection together with its facet summaries.
func CollectionData(store repository.Store, requestTimeout time.Duration, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		var req api.CollectionDataRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			logger.Warn("CollectionData: failed to decode body", zap.Error(err))
			api.WriteApiError(w, logger, "failed to decode body", api.CodeValidation, http.StatusBadRequest)
			return
		}

		query := &domain.CollectionQuery{
			Collection: req.CollectionName,
			Page:       req.Page,
			PageSize:   req.PageSize,
			SearchTerm: req.SearchTerm,
			Filters:    req.Filters,
		}
		if req.DateRange != nil {
			query.DateRange = &domain.DateRange{Start: req.DateRange.Start, End: req.DateRange.End}
		}

		page, err := store.QueryCollection(ctx, query)
		if err != nil {
			if errors.Is(err, repository.ErrUnknownCollection) {
				logger.Warn("CollectionData: invalid collection name", zap.String("collection", req.CollectionName))
				api.WriteApiError(w, logger, "invalid collection name", api.CodeValidation, http.StatusBadRequest)
				return
			}

			logger.Error("CollectionData: query failed", zap.String("collection", req.CollectionName), zap.Error(err))
			writeError(w, logger, "failed to query collection", http.StatusInternalServerError)
			return
		}

		writeJSON(w, logger, http.StatusOK, page)
	}
}
