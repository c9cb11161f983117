package postgres

import (
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shotstash/shotstash/store"
)

var placeholderPattern = regexp.MustCompile(`\$(\d+)`)

// maxPlaceholder returns the highest $n index a statement references, the
// number of arguments PostgreSQL expects to be bound to it.
func maxPlaceholder(t *testing.T, statement string) int {
	t.Helper()
	max := 0
	for _, m := range placeholderPattern.FindAllStringSubmatch(statement, -1) {
		n, err := strconv.Atoi(m[1])
		require.NoError(t, err)
		if n > max {
			max = n
		}
	}
	return max
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func intPtr(v int) *int { return &v }

// Binding a different argument count than a statement references is a bind
// error at the database, so the clause builders must keep WHERE and
// ORDER BY arguments apart: COUNT statements use the WHERE clause alone.
func TestBuildFindShotClausesArgCounts(t *testing.T) {
	tests := []struct {
		name string
		find *store.FindShot
	}{
		{"empty", &store.FindShot{}},
		{"by id", &store.FindShot{ID: int64Ptr(1)}},
		{"by video", &store.FindShot{VideoID: int64Ptr(2)}},
		{"slugs only", &store.FindShot{TagSlugs: []string{"action", "drama"}}},
		{"fuzzy query only", &store.FindShot{TagQuery: strPtr("cine"), Threshold: 0.2}},
		{"slugs and fuzzy query", &store.FindShot{
			VideoID:   int64Ptr(2),
			TagSlugs:  []string{"action"},
			TagQuery:  strPtr("cine"),
			Threshold: 0.2,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, whereArgs, orderBy, orderArgs := buildFindShotClauses(tt.find)

			countStmt := `SELECT COUNT(1) FROM shot WHERE ` + where
			require.Equal(t, len(whereArgs), maxPlaceholder(t, countStmt))

			listStmt := `SELECT shot.id FROM shot WHERE ` + where + ` ORDER BY ` + orderBy
			require.Equal(t, len(whereArgs)+len(orderArgs), maxPlaceholder(t, listStmt))
		})
	}
}

func TestBuildFindShotClausesWithLimitOffset(t *testing.T) {
	find := &store.FindShot{
		TagQuery:  strPtr("cine"),
		Threshold: 0.2,
		Limit:     intPtr(24),
		Offset:    intPtr(24),
	}

	where, whereArgs, orderBy, orderArgs := buildFindShotClauses(find)
	args := append(whereArgs, orderArgs...)

	query := `SELECT shot.id FROM shot WHERE ` + where + ` ORDER BY ` + orderBy
	query, args = appendLimitOffset(query, find, args)

	require.Equal(t, len(args), maxPlaceholder(t, query))
}

func TestBuildFindTagClausesArgCounts(t *testing.T) {
	tests := []struct {
		name string
		find *store.FindTag
	}{
		{"empty", &store.FindTag{}},
		{"by slug", &store.FindTag{Slug: strPtr("action")}},
		{"fuzzy query", &store.FindTag{Query: strPtr("cine"), Threshold: 0.2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, whereArgs, orderBy, orderArgs := buildFindTagClauses(tt.find)

			countStmt := `SELECT COUNT(1) FROM tag WHERE ` + where
			require.Equal(t, len(whereArgs), maxPlaceholder(t, countStmt))

			listStmt := `SELECT id FROM tag WHERE ` + where + ` ORDER BY ` + orderBy
			require.Equal(t, len(whereArgs)+len(orderArgs), maxPlaceholder(t, listStmt))
		})
	}
}
