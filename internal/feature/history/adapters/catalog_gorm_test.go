package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogGorm_ListItems(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	seedItem(t, db, "us", "300", "weapon")
	seedItem(t, db, "us", "100", "weapon")
	seedItem(t, db, "us", "200", "armor")
	seedItem(t, db, "eu", "400", "weapon")
	repo := NewCatalog(db)

	tests := []struct {
		name     string
		region   string
		category string
		want     []string
	}{
		{name: "success: ordered by id", region: "us", category: "weapon", want: []string{"100", "300"}},
		{name: "success: other region", region: "eu", category: "weapon", want: []string{"400"}},
		{name: "success: empty category", region: "eu", category: "armor", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.ListItems(context.Background(), tt.region, tt.category)

			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, got)
			if len(tt.want) > 0 {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
