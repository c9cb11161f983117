package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindShotHasTagConstraint(t *testing.T) {
	query := "cine"
	empty := ""

	tests := []struct {
		name string
		find *FindShot
		want bool
	}{
		{"no constraint", &FindShot{}, false},
		{"relational fields only", &FindShot{VideoID: func() *int64 { v := int64(1); return &v }()}, false},
		{"slugs", &FindShot{TagSlugs: []string{"action"}}, true},
		{"fuzzy query", &FindShot{TagQuery: &query, Threshold: 0.2}, true},
		{"empty fuzzy query", &FindShot{TagQuery: &empty}, false},
		{"both", &FindShot{TagSlugs: []string{"action"}, TagQuery: &query}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.find.HasTagConstraint())
		})
	}
}
