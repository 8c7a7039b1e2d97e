package githubapi

import (
	"context"
	"fmt"
)

// pageSize is the fixed per_page value for every listing request.
const pageSize = 100

type pageFunc[T any] func(ctx context.Context, page int) ([]T, error)

// fetchAllPages walks a page-based listing endpoint from page 1 until a page
// comes back with fewer than pageSize records. Endpoints whose result count
// is an exact multiple of pageSize cost one extra empty request; that is the
// contract, not a bug. A failure on any page fails the whole fetch, with no
// partial result and no retry.
func fetchAllPages[T any](ctx context.Context, fetch pageFunc[T]) ([]T, error) {
	var all []T

	for page := 1; ; page++ {
		records, err := fetch(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch page %d: %w", page, err)
		}

		all = append(all, records...)

		if len(records) < pageSize {
			return all, nil
		}
	}
}
