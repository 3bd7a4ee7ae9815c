package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripplanner/internal/domain"
	"github.com/pkordes/tripplanner/internal/repo"
	"github.com/pkordes/tripplanner/testutil"
)

// newTestRepos opens a transaction against the test database and returns
// every repository bound to it. The transaction is rolled back when the test
// finishes, giving free per-test isolation.
//
// Requires TEST_DATABASE_URL to be set; TestMain applies the migrations.
func newTestRepos(t *testing.T) (repo.Repos, pgx.Tx) {
	t.Helper()
	tx := testutil.BeginTx(t)
	return repo.NewRepos(tx), tx
}

// tripFixture returns a domain.Trip with sensible defaults for use in tests.
// Callers can override individual fields after calling this function.
func tripFixture() domain.Trip {
	return domain.Trip{
		Title:     "Summer in Lisbon",
		StartDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Status:    domain.TripPlanned,
	}
}

func createTrip(t *testing.T, r repo.Repos) domain.Trip {
	t.Helper()
	trip, err := r.Trips.Create(context.Background(), tripFixture())
	require.NoError(t, err)
	return trip
}

// seedCity inserts a city. The catalog has no repo writes, so tests seed it with SQL.
func seedCity(t *testing.T, tx pgx.Tx, name string) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := tx.QueryRow(context.Background(),
		`INSERT INTO cities (name, country) VALUES ($1, 'Portugal') RETURNING id::text`, name,
	).Scan(&id)
	require.NoError(t, err, "seed city %q", name)
	return id
}

// seedActivity inserts a catalog activity and returns its id.
func seedActivity(t *testing.T, tx pgx.Tx, cityID *uuid.UUID, name, category string, popularity int) uuid.UUID {
	t.Helper()
	var city *string
	if cityID != nil {
		s := cityID.String()
		city = &s
	}
	var id uuid.UUID
	err := tx.QueryRow(context.Background(), `
		INSERT INTO activities (city_id, name, category, estimated_cost, popularity_score)
		VALUES ($1::text::uuid, $2, $3, 15.50, $4)
		RETURNING id::text`,
		city, name, category, popularity,
	).Scan(&id)
	require.NoError(t, err, "seed activity %q", name)
	return id
}
