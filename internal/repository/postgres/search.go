package postgres

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github-integration-service/internal/domain"
)

const searchResultCap = 10

// SearchAcrossCollections runs one keyword against every field path of every
// non-empty collection and returns up to 10 matches per collection, keyed by
// collection name.
func (c *Client) SearchAcrossCollections(ctx context.Context, keyword string) (map[string][]domain.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	results := make(map[string][]domain.Document)

	for _, col := range domain.Collections {
		docs, _, err := c.searchCollection(ctx, col, keyword, searchResultCap)
		if err != nil {
			return nil, err
		}
		if len(docs) > 0 {
			results[col.Name] = docs
		}
	}

	return results, nil
}

// SearchByUser is the uncapped variant: all matches across all collections
// flattened into one list, each record tagged with its collection under
// "type", plus the union of every field name seen.
func (c *Client) SearchByUser(ctx context.Context, keyword string) ([]domain.Document, []string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var results []domain.Document
	fieldSet := make(map[string]struct{})

	for _, col := range domain.Collections {
		docs, paths, err := c.searchCollection(ctx, col, keyword, 0)
		if err != nil {
			return nil, nil, err
		}

		for _, path := range paths {
			fieldSet[joinPath(path)] = struct{}{}
		}

		for _, doc := range docs {
			doc["type"] = col.Name
			results = append(results, doc)
		}
	}

	return results, fieldNames(fieldSet), nil
}

// fieldNames flattens the field-name union sorted, with the synthetic
// "type" tag appended last, so allFields is stable across calls.
func fieldNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set)+1)
	for f := range set {
		names = append(names, f)
	}
	sort.Strings(names)

	return append(names, "type")
}

// searchCollection matches the keyword as a case-insensitive substring
// against every field path sampled from one document of the collection.
// Empty collections match nothing. limit <= 0 means uncapped. Returns the
// sampled paths so callers can accumulate the field union; the paths slice
// is nil for empty collections.
func (c *Client) searchCollection(ctx context.Context, col domain.Collection, keyword string, limit int) ([]domain.Document, [][]string, error) {
	sample, err := c.sampleDoc(ctx, col)
	if err != nil {
		c.logger.Error("failed to sample collection", zap.String("collection", col.Name), zap.Error(err))
		return nil, nil, fmt.Errorf("failed to sample %s: %w", col.Name, err)
	}
	if sample == nil {
		return nil, nil, nil
	}

	paths := fieldPaths(sample)

	args := make([]any, 0, len(paths)+1)
	ors := make([]string, len(paths))
	for i, path := range paths {
		args = append(args, path)
		ors[i] = fmt.Sprintf("doc#>>$%d ilike $%d", i+1, len(paths)+1)
	}
	args = append(args, "%"+keyword+"%")

	sql := fmt.Sprintf("select doc from github.%s where %s", col.Table, strings.Join(ors, " or "))
	if limit > 0 {
		sql += fmt.Sprintf(" limit %d", limit)
	}

	docs, err := c.queryDocs(ctx, sql, args...)
	if err != nil {
		c.logger.Error("failed to search collection", zap.String("collection", col.Name), zap.Error(err))
		return nil, nil, fmt.Errorf("failed to search %s: %w", col.Name, err)
	}

	return docs, paths, nil
}
