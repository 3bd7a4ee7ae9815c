package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripplanner/internal/domain"
)

func TestTripRepo_Create(t *testing.T) {
	r, tx := newTestRepos(t)
	ctx := context.Background()

	cityID := seedCity(t, tx, "Lisbon")
	budget := 1800.0
	input := tripFixture()
	input.CityID = &cityID
	input.TotalBudget = &budget

	got, err := r.Trips.Create(ctx, input)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID, "ID should be DB-generated UUID")
	assert.Equal(t, input.Title, got.Title)
	assert.True(t, got.StartDate.Equal(input.StartDate), "StartDate mismatch")
	assert.True(t, got.EndDate.Equal(input.EndDate), "EndDate mismatch")
	require.NotNil(t, got.CityID)
	assert.Equal(t, cityID, *got.CityID)
	require.NotNil(t, got.TotalBudget)
	assert.InDelta(t, 1800.0, *got.TotalBudget, 0.001)
	assert.Nil(t, got.OwnerID)
	assert.Equal(t, domain.TripPlanned, got.Status)
	assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set by DB")
	assert.False(t, got.UpdatedAt.IsZero(), "UpdatedAt should be set by DB")
}

func TestTripRepo_Create_EndBeforeStartRejectedByDB(t *testing.T) {
	r, _ := newTestRepos(t)

	input := tripFixture()
	input.EndDate = input.StartDate.AddDate(0, 0, -1)

	_, err := r.Trips.Create(context.Background(), input)

	assert.Error(t, err)
}

func TestTripRepo_GetByID(t *testing.T) {
	r, _ := newTestRepos(t)
	ctx := context.Background()

	created := createTrip(t, r)

	got, err := r.Trips.GetByID(ctx, created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Title, got.Title)
}

func TestTripRepo_GetByID_NotFound(t *testing.T) {
	r, _ := newTestRepos(t)

	_, err := r.Trips.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_ListPaged(t *testing.T) {
	r, tx := newTestRepos(t)
	ctx := context.Background()

	// Other tests may have committed nothing, but start clean inside this tx anyway.
	_, err := tx.Exec(ctx, `DELETE FROM trips`)
	require.NoError(t, err)

	for i := range 3 {
		trip := tripFixture()
		trip.Title = []string{"First Trip", "Second Trip", "Third Trip"}[i]
		trip.StartDate = trip.StartDate.AddDate(0, i, 0)
		trip.EndDate = trip.StartDate.AddDate(0, 0, 3)
		_, err := r.Trips.Create(ctx, trip)
		require.NoError(t, err)
	}

	page1, total, err := r.Trips.ListPaged(ctx, domain.PaginationParams{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page1, 2)
	// Ordered by start_date DESC: the latest trip comes first.
	assert.Equal(t, "Third Trip", page1[0].Title)
	assert.Equal(t, "Second Trip", page1[1].Title)

	page2, _, err := r.Trips.ListPaged(ctx, domain.PaginationParams{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, "First Trip", page2[0].Title)
}

func TestTripRepo_Update(t *testing.T) {
	r, _ := newTestRepos(t)
	ctx := context.Background()

	created := createTrip(t, r)
	created.Title = "Updated Title"
	created.Status = domain.TripCancelled
	created.TotalBudget = nil

	updated, err := r.Trips.Update(ctx, created)

	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Updated Title", updated.Title)
	assert.Equal(t, domain.TripCancelled, updated.Status)
	assert.Nil(t, updated.TotalBudget)
	assert.False(t, updated.UpdatedAt.IsZero())
}

func TestTripRepo_Update_NotFound(t *testing.T) {
	r, _ := newTestRepos(t)

	ghost := tripFixture()
	ghost.ID = uuid.New()

	_, err := r.Trips.Update(context.Background(), ghost)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_Delete_CascadesToItinerary(t *testing.T) {
	r, tx := newTestRepos(t)
	ctx := context.Background()

	trip := createTrip(t, r)
	activityID := seedActivity(t, tx, nil, "Tram 28", "sightseeing", 10)
	section, err := r.Sections.Create(ctx, domain.Section{TripID: trip.ID, Title: "Day 1"})
	require.NoError(t, err)
	require.NoError(t, r.Links.Insert(ctx, section.ID, []domain.ActivityLink{{ActivityID: activityID}}))

	require.NoError(t, r.Trips.Delete(ctx, trip.ID))

	_, err = r.Trips.GetByID(ctx, trip.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "trip should be gone after delete")

	var sections, links int
	require.NoError(t, tx.QueryRow(ctx, `SELECT count(*) FROM sections WHERE trip_id = $1`, trip.ID).Scan(&sections))
	require.NoError(t, tx.QueryRow(ctx, `SELECT count(*) FROM section_activities WHERE section_id = $1`, section.ID).Scan(&links))
	assert.Zero(t, sections)
	assert.Zero(t, links)
}

func TestTripRepo_Delete_NotFound(t *testing.T) {
	r, _ := newTestRepos(t)

	err := r.Trips.Delete(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
