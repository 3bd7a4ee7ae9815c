package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripplanner/internal/domain"
)

func TestSectionRepo_CreateAndList(t *testing.T) {
	r, _ := newTestRepos(t)
	ctx := context.Background()
	trip := createTrip(t, r)

	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	budget := 75.25
	second, err := r.Sections.Create(ctx, domain.Section{TripID: trip.ID, Title: "Day 2", OrderIndex: 1})
	require.NoError(t, err)
	first, err := r.Sections.Create(ctx, domain.Section{
		TripID: trip.ID, Title: "Day 1", StartDate: &day, EndDate: &day, Budget: &budget, OrderIndex: 0,
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, first.ID)
	require.NotNil(t, first.StartDate)
	assert.True(t, day.Equal(*first.StartDate))
	require.NotNil(t, first.Budget)
	assert.InDelta(t, 75.25, *first.Budget, 0.001)
	assert.Nil(t, second.StartDate)
	assert.Nil(t, second.Budget)

	got, err := r.Sections.ListByTripID(ctx, trip.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].ID, "ordered by order_index")
	assert.Equal(t, second.ID, got[1].ID)
}

func TestSectionRepo_ListByTripID_Empty(t *testing.T) {
	r, _ := newTestRepos(t)

	got, err := r.Sections.ListByTripID(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSectionRepo_Update(t *testing.T) {
	r, _ := newTestRepos(t)
	ctx := context.Background()
	trip := createTrip(t, r)

	created, err := r.Sections.Create(ctx, domain.Section{TripID: trip.ID, Title: "Day 1", OrderIndex: 0})
	require.NoError(t, err)

	created.Title = "Day One"
	created.OrderIndex = 3
	updated, err := r.Sections.Update(ctx, created)

	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Day One", updated.Title)
	assert.Equal(t, 3, updated.OrderIndex)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
}

func TestSectionRepo_Update_ScopedToTrip(t *testing.T) {
	r, _ := newTestRepos(t)
	ctx := context.Background()
	owner := createTrip(t, r)
	other := createTrip(t, r)

	sec, err := r.Sections.Create(ctx, domain.Section{TripID: owner.ID, Title: "Day 1"})
	require.NoError(t, err)

	sec.TripID = other.ID
	sec.Title = "Hijacked"
	_, err = r.Sections.Update(ctx, sec)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := r.Sections.ListByTripID(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Day 1", got[0].Title)
}

func TestSectionRepo_DeleteNotIn(t *testing.T) {
	r, _ := newTestRepos(t)
	ctx := context.Background()
	trip := createTrip(t, r)
	other := createTrip(t, r)

	var ids []uuid.UUID
	for i := range 3 {
		s, err := r.Sections.Create(ctx, domain.Section{TripID: trip.ID, Title: "Day", OrderIndex: i})
		require.NoError(t, err)
		ids = append(ids, s.ID)
	}
	_, err := r.Sections.Create(ctx, domain.Section{TripID: other.ID, Title: "Elsewhere"})
	require.NoError(t, err)

	removed, err := r.Sections.DeleteNotIn(ctx, trip.ID, []uuid.UUID{ids[1]})

	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
	got, err := r.Sections.ListByTripID(ctx, trip.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, ids[1], got[0].ID)

	untouched, err := r.Sections.ListByTripID(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, untouched, 1)
}

func TestSectionRepo_DeleteAll(t *testing.T) {
	r, _ := newTestRepos(t)
	ctx := context.Background()
	trip := createTrip(t, r)

	for i := range 2 {
		_, err := r.Sections.Create(ctx, domain.Section{TripID: trip.ID, Title: "Day", OrderIndex: i})
		require.NoError(t, err)
	}

	removed, err := r.Sections.DeleteAll(ctx, trip.ID)

	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
	got, err := r.Sections.ListByTripID(ctx, trip.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}
