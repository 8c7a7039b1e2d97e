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

// UpsertRepo stores one repository document, replacing the payload wholesale
// when the repo_id already exists. Repositories are the one entity kind whose
// records are overwritten on re-sync.
func (c *Client) UpsertRepo(ctx context.Context, doc domain.Document) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	repoID, err := naturalKey(doc, "repo_id")
	if err != nil {
		return err
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal repo document: %w", err)
	}

	_, err = c.pool.Exec(ctx, queryUpsertRepo, repoID, raw)
	if err != nil {
		c.logger.Error("failed to upsert repo", zap.String("repo_id", repoID), zap.Error(err))
		return fmt.Errorf("failed to upsert repo %s: %w", repoID, err)
	}

	c.logger.Info("successfully stored repo", zap.String("repo_id", repoID))
	return nil
}

// InsertDocuments persists a batch for one entity kind. Natural-key
// duplicates are skipped, not updated and not treated as failures, so
// re-running a sync only adds genuinely new records.
func (c *Client) InsertDocuments(ctx context.Context, collection string, docs []domain.Document) (domain.IngestResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result := domain.IngestResult{Attempted: len(docs)}

	col, ok := domain.LookupCollection(collection)
	if !ok {
		return result, fmt.Errorf("%w: %s", repository.ErrUnknownCollection, collection)
	}

	if len(docs) == 0 {
		return result, nil
	}

	batch := &pgx.Batch{}
	for _, doc := range docs {
		key, err := naturalKey(doc, col.KeyField)
		if err != nil {
			return result, err
		}

		raw, err := json.Marshal(doc)
		if err != nil {
			return result, fmt.Errorf("failed to marshal %s document: %w", col.Name, err)
		}

		if col.HasRepoLink {
			repoID, err := naturalKey(doc, "repo_id")
			if err != nil {
				return result, err
			}
			batch.Queue(fmt.Sprintf(tmplInsertLinked, col.Table, col.KeyColumn, col.KeyColumn), key, repoID, raw)
		} else {
			batch.Queue(fmt.Sprintf(tmplInsertPlain, col.Table, col.KeyColumn, col.KeyColumn), key, raw)
		}
	}

	results := c.pool.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for range docs {
		tag, err := results.Exec()
		if err != nil {
			c.logger.Error("failed to insert documents", zap.String("collection", col.Name), zap.Error(err))
			return result, fmt.Errorf("failed to insert %s documents: %w", col.Name, err)
		}
		inserted += int(tag.RowsAffected())
	}

	result.Skipped = result.Attempted - inserted
	if result.Skipped > 0 {
		c.logger.Info("skipped duplicate documents",
			zap.String("collection", col.Name),
			zap.Int("attempted", result.Attempted),
			zap.Int("skipped", result.Skipped),
		)
	}

	return result, nil
}

// RelatedData joins one repository with every commit, pull request and issue
// linked to it through repo_id.
func (c *Client) RelatedData(ctx context.Context, repoID string) (*domain.RelatedData, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var raw []byte
	err := c.pool.QueryRow(ctx, queryRepoByID, repoID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", repository.ErrRepoNotFound, repoID)
		}

		c.logger.Error("failed to get repo", zap.String("repo_id", repoID), zap.Error(err))
		return nil, fmt.Errorf("failed to get repo %s: %w", repoID, err)
	}

	var repoDoc domain.Document
	err = json.Unmarshal(raw, &repoDoc)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal repo document: %w", err)
	}

	related := &domain.RelatedData{Repo: repoDoc}

	linked := []struct {
		table string
		out   *[]domain.Document
	}{
		{"commits", &related.Commits},
		{"pullrequests", &related.PullRequests},
		{"issues", &related.Issues},
	}

	for _, l := range linked {
		docs, err := c.queryDocs(ctx, fmt.Sprintf(tmplDocsByRepo, l.table), repoID)
		if err != nil {
			c.logger.Error("failed to get related documents",
				zap.String("table", l.table), zap.String("repo_id", repoID), zap.Error(err))
			return nil, fmt.Errorf("failed to get related %s for %s: %w", l.table, repoID, err)
		}
		*l.out = docs
	}

	return related, nil
}

func naturalKey(doc domain.Document, field string) (string, error) {
	value, ok := doc[field].(string)
	if !ok || value == "" {
		return "", fmt.Errorf("document is missing %s", field)
	}
	return value, nil
}
