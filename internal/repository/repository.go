package repository

import (
	"context"
	"errors"

	"github-integration-service/internal/domain"
)

var (
	ErrIntegrationNotFound = errors.New("github integration not found")
	ErrUnknownCollection   = errors.New("unknown collection")
	ErrRepoNotFound        = errors.New("repository not found")
)

type Store interface {
	UpsertIntegration(ctx context.Context, integration *domain.Integration) (*domain.Integration, error)
	GetIntegration(ctx context.Context, userID string) (*domain.Integration, error)
	DeleteIntegration(ctx context.Context, userID string) error

	UpsertRepo(ctx context.Context, doc domain.Document) error
	InsertDocuments(ctx context.Context, collection string, docs []domain.Document) (domain.IngestResult, error)

	QueryCollection(ctx context.Context, query *domain.CollectionQuery) (*domain.CollectionPage, error)
	RelatedData(ctx context.Context, repoID string) (*domain.RelatedData, error)
	SearchAcrossCollections(ctx context.Context, keyword string) (map[string][]domain.Document, error)
	SearchByUser(ctx context.Context, keyword string) ([]domain.Document, []string, error)

	Close()
}
