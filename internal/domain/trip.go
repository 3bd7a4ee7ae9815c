// Package domain contains the core data types for the trip planner.
// This package has no dependencies beyond uuid and is imported by every other
// internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TripStatus is the lifecycle state of a trip.
type TripStatus string

const (
	TripPlanned   TripStatus = "planned"
	TripCompleted TripStatus = "completed"
	TripCancelled TripStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s TripStatus) Valid() bool {
	switch s {
	case TripPlanned, TripCompleted, TripCancelled:
		return true
	}
	return false
}

// Trip is the top-level planning unit. Sections belong to a trip and are
// removed with it.
type Trip struct {
	ID          uuid.UUID
	OwnerID     *uuid.UUID // nil when the trip was created without a user context
	CityID      *uuid.UUID // destination; nil until the traveller picks one
	Title       string
	StartDate   time.Time
	EndDate     time.Time
	TotalBudget *float64
	Status      TripStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewTrip carries a trip to create plus the catalog activities to seed its
// first section with. ActivityIDs may be empty.
type NewTrip struct {
	Trip        Trip
	ActivityIDs []uuid.UUID
}

// InitialSectionTitle is the title of the section created when a trip is
// created together with a list of activities.
const InitialSectionTitle = "Initial Itinerary"
