package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github-integration-service/internal/domain"
	"github-integration-service/internal/repository"
)

const defaultPageSize = 100

func (c *Client) QueryCollection(ctx context.Context, query *domain.CollectionQuery) (*domain.CollectionPage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	col, ok := domain.LookupCollection(query.Collection)
	if !ok {
		return nil, fmt.Errorf("%w: %s", repository.ErrUnknownCollection, query.Collection)
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	where, args := buildCollectionWhere(col, query)

	var total int64
	err := c.pool.QueryRow(ctx, fmt.Sprintf(tmplCountDocs, col.Table, where), args...).Scan(&total)
	if err != nil {
		c.logger.Error("failed to count documents", zap.String("collection", col.Name), zap.Error(err))
		return nil, fmt.Errorf("failed to count documents: %w", err)
	}

	selectArgs := append(append([]any{}, args...), (page-1)*pageSize, pageSize)
	selectSQL := fmt.Sprintf(tmplSelectDocs, col.Table, where, len(args)+1, len(args)+2)

	docs, err := c.queryDocs(ctx, selectSQL, selectArgs...)
	if err != nil {
		c.logger.Error("failed to query documents", zap.String("collection", col.Name), zap.Error(err))
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}

	facets, err := c.getFacets(ctx, col, query.SearchTerm)
	if err != nil {
		c.logger.Error("failed to compute facets", zap.String("collection", col.Name), zap.Error(err))
		return nil, fmt.Errorf("failed to compute facets: %w", err)
	}

	return &domain.CollectionPage{
		Data:   docs,
		Total:  total,
		Page:   page,
		Size:   pageSize,
		Facets: facets,
	}, nil
}

// facetQuery is one per-path aggregation: the top 10 values of the path by
// document count, descending.
type facetQuery struct {
	Path []string
	SQL  string
	Args []any
}

// buildFacetQueries renders one aggregation per field path of the sampled
// document. Only the free-text term restricts the counted set; exact filters
// and the date range are left out on purpose, matching the behavior the
// frontend was built against. A nil sample means the collection is empty:
// no paths, no queries.
func buildFacetQueries(col domain.Collection, sample domain.Document, searchTerm string) []facetQuery {
	if sample == nil {
		return nil
	}

	where, whereArgs := buildTermWhere(col, searchTerm, 2)

	paths := fieldPaths(sample)
	queries := make([]facetQuery, len(paths))
	for i, path := range paths {
		queries[i] = facetQuery{
			Path: path,
			SQL:  fmt.Sprintf(tmplFacet, col.Table, where),
			Args: append([]any{path}, whereArgs...),
		}
	}

	return queries
}

// getFacets computes the top 10 value counts for every field path found in
// one sample document. An empty collection yields an empty map, not an
// error.
func (c *Client) getFacets(ctx context.Context, col domain.Collection, searchTerm string) (map[string][]domain.FacetValue, error) {
	facets := make(map[string][]domain.FacetValue)

	sample, err := c.sampleDoc(ctx, col)
	if err != nil {
		return nil, err
	}

	for _, fq := range buildFacetQueries(col, sample, searchTerm) {
		rows, err := c.pool.Query(ctx, fq.SQL, fq.Args...)
		if err != nil {
			return nil, fmt.Errorf("failed to aggregate facet %q: %w", joinPath(fq.Path), err)
		}

		values, err := scanFacetValues(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan facet %q: %w", joinPath(fq.Path), err)
		}

		facets[joinPath(fq.Path)] = values
	}

	return facets, nil
}

// scanFacetValues reads value/count pairs in the order the aggregation
// returned them. A null value means the path is absent from the counted
// documents and stays null.
func scanFacetValues(rows pgx.Rows) ([]domain.FacetValue, error) {
	defer rows.Close()

	var values []domain.FacetValue
	for rows.Next() {
		var fv domain.FacetValue

		err := rows.Scan(&fv.Value, &fv.Count)
		if err != nil {
			return nil, err
		}

		values = append(values, fv)
	}

	return values, rows.Err()
}

func (c *Client) sampleDoc(ctx context.Context, col domain.Collection) (domain.Document, error) {
	var raw []byte
	err := c.pool.QueryRow(ctx, fmt.Sprintf(tmplSampleDoc, col.Table)).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to sample document: %w", err)
	}

	var doc domain.Document
	err = json.Unmarshal(raw, &doc)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal sample document: %w", err)
	}

	return doc, nil
}

func (c *Client) queryDocs(ctx context.Context, sql string, args ...any) ([]domain.Document, error) {
	rows, err := c.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]domain.Document, 0)
	for rows.Next() {
		var raw []byte

		err = rows.Scan(&raw)
		if err != nil {
			return nil, err
		}

		var doc domain.Document
		err = json.Unmarshal(raw, &doc)
		if err != nil {
			return nil, err
		}

		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// buildCollectionWhere renders the WHERE clause for one collection query:
// OR of ILIKE over the text-bearing fields, AND of exact field filters, AND
// an inclusive timestamp range when both bounds are present.
func buildCollectionWhere(col domain.Collection, query *domain.CollectionQuery) (string, []any) {
	var conds []string
	var args []any

	if query.SearchTerm != "" {
		args = append(args, "%"+query.SearchTerm+"%")
		n := len(args)

		ors := make([]string, len(col.SearchFields))
		for i, field := range col.SearchFields {
			ors[i] = fmt.Sprintf("doc->>'%s' ilike $%d", field, n)
		}
		conds = append(conds, "("+strings.Join(ors, " or ")+")")
	}

	for _, key := range sortedKeys(query.Filters) {
		value := query.Filters[key]
		if value == "" {
			continue
		}

		args = append(args, key, value)
		conds = append(conds, fmt.Sprintf("doc->>$%d = $%d", len(args)-1, len(args)))
	}

	if query.DateRange != nil && !query.DateRange.Start.IsZero() && !query.DateRange.End.IsZero() {
		args = append(args, query.DateRange.Start, query.DateRange.End)
		conds = append(conds, fmt.Sprintf(
			"(doc->>'timestamp')::timestamptz >= $%d and (doc->>'timestamp')::timestamptz <= $%d",
			len(args)-1, len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}

	return "where " + strings.Join(conds, " and "), args
}

// buildTermWhere renders just the free-text condition, with placeholders
// starting at startIdx. Used by facet and search queries that carry their
// own leading parameters.
func buildTermWhere(col domain.Collection, searchTerm string, startIdx int) (string, []any) {
	if searchTerm == "" {
		return "", nil
	}

	ors := make([]string, len(col.SearchFields))
	for i, field := range col.SearchFields {
		ors[i] = fmt.Sprintf("doc->>'%s' ilike $%d", field, startIdx)
	}

	return "where (" + strings.Join(ors, " or ") + ")", []any{"%" + searchTerm + "%"}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
