package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github-integration-service/internal/domain"
)

func TestFieldPathsRecursesObjectsNotArrays(t *testing.T) {
	doc := domain.Document{
		"sha":     "abc",
		"repo_id": "acme/widgets",
		"commit": map[string]any{
			"message": "fix",
			"author": map[string]any{
				"name": "doc",
			},
		},
		"parents": []any{
			map[string]any{"sha": "def"},
		},
	}

	paths := fieldPaths(doc)

	joined := make([]string, len(paths))
	for i, p := range paths {
		joined[i] = joinPath(p)
	}

	assert.Equal(t, []string{
		"commit.author.name",
		"commit.message",
		"parents",
		"repo_id",
		"sha",
	}, joined)
}

func TestFieldPathsEmptyDocument(t *testing.T) {
	assert.Empty(t, fieldPaths(domain.Document{}))
}
