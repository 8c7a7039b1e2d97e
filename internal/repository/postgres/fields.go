package postgres

import (
	"sort"

	"github-integration-service/internal/domain"
)

// fieldPaths enumerates every field path in a document, recursing into
// nested objects but not into arrays. Paths are returned sorted so that
// facet output is stable. Bookkeeping columns (row id, created_at,
// updated_at) live outside the doc payload and never show up here.
func fieldPaths(doc domain.Document) [][]string {
	var paths [][]string
	collectPaths(doc, nil, &paths)

	sort.Slice(paths, func(i, j int) bool {
		return joinPath(paths[i]) < joinPath(paths[j])
	})

	return paths
}

func collectPaths(obj map[string]any, prefix []string, out *[][]string) {
	for key, value := range obj {
		path := append(append([]string{}, prefix...), key)

		if nested, ok := value.(map[string]any); ok {
			collectPaths(nested, path, out)
			continue
		}

		*out = append(*out, path)
	}
}

func joinPath(path []string) string {
	joined := path[0]
	for _, p := range path[1:] {
		joined += "." + p
	}
	return joined
}
