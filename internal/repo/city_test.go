package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripplanner/internal/domain"
)

func seedCatalogCity(t *testing.T, tx pgx.Tx, name, region string, featured bool, popularity int) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := tx.QueryRow(context.Background(), `
		INSERT INTO cities (name, country, region, is_featured, popularity_score, seasonal_tag)
		VALUES ($1, 'Portugal', $2, $3, $4, 'summer')
		RETURNING id::text`,
		name, region, featured, popularity,
	).Scan(&id)
	require.NoError(t, err, "seed city %q", name)
	return id
}

func cityIDs(cities []domain.City) []uuid.UUID {
	ids := make([]uuid.UUID, len(cities))
	for i, c := range cities {
		ids[i] = c.ID
	}
	return ids
}

func TestCityRepo_List_FiltersByRegionAndFeatured(t *testing.T) {
	r, tx := newTestRepos(t)
	ctx := context.Background()

	lisbon := seedCatalogCity(t, tx, "Lisbon", "test-iberia", true, 95)
	porto := seedCatalogCity(t, tx, "Porto", "test-iberia", true, 80)
	seedCatalogCity(t, tx, "Faro", "test-iberia", false, 99)
	seedCatalogCity(t, tx, "Reykjavik", "test-nordic", true, 70)

	got, err := r.Cities.List(ctx, domain.CityFilter{Region: "test-iberia", FeaturedOnly: true})

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{lisbon, porto}, cityIDs(got), "most popular first")
	assert.Equal(t, "Portugal", got[0].Country)
	assert.Equal(t, "summer", got[0].SeasonalTag)
	assert.True(t, got[0].IsFeatured)
	assert.Equal(t, 95, got[0].PopularityScore)
}

func TestCityRepo_List_RegionOnly(t *testing.T) {
	r, tx := newTestRepos(t)

	faro := seedCatalogCity(t, tx, "Faro", "test-iberia", false, 99)
	lisbon := seedCatalogCity(t, tx, "Lisbon", "test-iberia", true, 95)

	got, err := r.Cities.List(context.Background(), domain.CityFilter{Region: "test-iberia"})

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{faro, lisbon}, cityIDs(got))
}

func TestCityRepo_List_NullRegion(t *testing.T) {
	r, tx := newTestRepos(t)

	id := seedCity(t, tx, "Sintra")

	got, err := r.Cities.List(context.Background(), domain.CityFilter{})

	require.NoError(t, err)
	require.Contains(t, cityIDs(got), id)
	for _, c := range got {
		if c.ID == id {
			assert.Empty(t, c.Region)
			assert.False(t, c.IsFeatured)
		}
	}
}
