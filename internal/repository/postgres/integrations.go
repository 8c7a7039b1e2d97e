package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github-integration-service/internal/domain"
	"github-integration-service/internal/repository"
)

func (c *Client) UpsertIntegration(ctx context.Context, integration *domain.Integration) (*domain.Integration, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	profile, err := json.Marshal(integration.Profile)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}

	var saved domain.Integration
	err = c.pool.QueryRow(ctx, queryUpsertIntegration,
		integration.UserID,
		integration.GithubUserID,
		integration.Username,
		integration.AccessToken,
		integration.ProfileURL,
		integration.IntegrationDate,
		profile,
	).Scan(
		&saved.UserID,
		&saved.GithubUserID,
		&saved.Username,
		&saved.AccessToken,
		&saved.ProfileURL,
		&saved.IntegrationDate,
		&saved.IsActive,
	)
	if err != nil {
		c.logger.Error("failed to upsert integration", zap.String("github_user_id", integration.GithubUserID), zap.Error(err))
		return nil, fmt.Errorf("failed to upsert integration: %w", err)
	}

	c.logger.Info("successfully stored integration", zap.String("username", saved.Username))
	return &saved, nil
}

func (c *Client) GetIntegration(ctx context.Context, userID string) (*domain.Integration, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var integration domain.Integration
	err := c.pool.QueryRow(ctx, queryGetIntegration, userID).Scan(
		&integration.UserID,
		&integration.GithubUserID,
		&integration.Username,
		&integration.AccessToken,
		&integration.ProfileURL,
		&integration.IntegrationDate,
		&integration.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrIntegrationNotFound
		}

		c.logger.Error("failed to get integration", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to get integration: %w", err)
	}

	return &integration, nil
}

func (c *Client) DeleteIntegration(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	tag, err := c.pool.Exec(ctx, queryDeleteIntegration, userID)
	if err != nil {
		c.logger.Error("failed to delete integration", zap.String("user_id", userID), zap.Error(err))
		return fmt.Errorf("failed to delete integration: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrIntegrationNotFound
	}

	c.logger.Info("successfully removed integration", zap.String("user_id", userID))
	return nil
}
