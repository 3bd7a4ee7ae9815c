// Package service contains the business logic for the trip planner.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/pkordes/tripplanner/internal/domain"
	"github.com/pkordes/tripplanner/internal/repo"
)

// TripService implements business logic for Trip operations.
type TripService struct {
	trips repo.TripRepo
	tx    repo.Transactor
}

// NewTripService constructs a TripService. tx is used when a trip is created
// together with its first section.
func NewTripService(trips repo.TripRepo, tx repo.Transactor) *TripService {
	return &TripService{trips: trips, tx: tx}
}

// Create validates and persists a new trip. When nt.ActivityIDs is non-empty
// the trip gets an "Initial Itinerary" section spanning its dates with those
// activities linked in order, in the same transaction.
func (s *TripService) Create(ctx context.Context, nt domain.NewTrip) (domain.Trip, error) {
	trip := nt.Trip
	if trip.Status == "" {
		trip.Status = domain.TripPlanned
	}
	trip.Title = strings.TrimSpace(trip.Title)
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}

	if len(nt.ActivityIDs) == 0 {
		created, err := s.trips.Create(ctx, trip)
		if err != nil {
			return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
		}
		return created, nil
	}

	var created domain.Trip
	err := s.tx.WithinTx(ctx, func(r repo.Repos) error {
		if err := requireActivities(ctx, r.Activities, nt.ActivityIDs); err != nil {
			return err
		}
		t, err := r.Trips.Create(ctx, trip)
		if err != nil {
			return err
		}
		start, end := t.StartDate, t.EndDate
		section, err := r.Sections.Create(ctx, domain.Section{
			TripID:     t.ID,
			Title:      domain.InitialSectionTitle,
			StartDate:  &start,
			EndDate:    &end,
			OrderIndex: 0,
		})
		if err != nil {
			return err
		}
		links := make([]domain.LinkInput, len(nt.ActivityIDs))
		for i, id := range nt.ActivityIDs {
			links[i] = domain.LinkInput{ActivityID: id}
		}
		if _, err := replaceLinks(ctx, r.Links, section.ID, links); err != nil {
			return err
		}
		created = t
		return nil
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single trip by ID.
// Returns domain.ErrNotFound if it does not exist.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return trip, nil
}

// ListPaged returns one page of trips and the total count.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	trips, total, err := s.trips.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.ListPaged: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, total, nil
}

// Update validates and updates an existing trip.
// Returns domain.ErrValidation for invalid input and domain.ErrNotFound if
// the trip does not exist.
func (s *TripService) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if trip.Status == "" {
		trip.Status = domain.TripPlanned
	}
	trip.Title = strings.TrimSpace(trip.Title)
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}
	updated, err := s.trips.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a trip and, through the database, its whole itinerary.
func (s *TripService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.trips.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// validateTrip enforces business rules common to both Create and Update.
//   - Title must be at least 3 characters.
//   - Both dates are required and EndDate must not be before StartDate.
//   - TotalBudget, if set, must not be negative.
//   - Status must be a known value.
func validateTrip(trip domain.Trip) error {
	if utf8.RuneCountInString(trip.Title) < 3 {
		return fmt.Errorf("%w: title must be at least 3 characters", domain.ErrValidation)
	}
	if trip.StartDate.IsZero() || trip.EndDate.IsZero() {
		return fmt.Errorf("%w: start_date and end_date are required", domain.ErrValidation)
	}
	if trip.EndDate.Before(trip.StartDate) {
		return fmt.Errorf("%w: end_date must not be before start_date", domain.ErrValidation)
	}
	if trip.TotalBudget != nil && *trip.TotalBudget < 0 {
		return fmt.Errorf("%w: total_budget must not be negative", domain.ErrValidation)
	}
	if !trip.Status.Valid() {
		return fmt.Errorf("%w: status must be one of planned, completed, cancelled", domain.ErrValidation)
	}
	return nil
}
