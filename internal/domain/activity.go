package domain

import (
	"time"

	"github.com/google/uuid"
)

// Activity is a catalog entry. The catalog is reference data; the itinerary
// code only reads it.
type Activity struct {
	ID                uuid.UUID
	CityID            *uuid.UUID
	Name              string
	Description       string
	Category          string
	EstimatedDuration string
	EstimatedCost     *float64
	PopularityScore   int
	CreatedAt         time.Time
}

// ActivityFilter narrows a catalog listing. Zero values mean "any".
type ActivityFilter struct {
	CityID   *uuid.UUID
	Category string
}

// ActivityLink joins a section to a catalog activity.
// A section's links are replaced wholesale on every sync.
type ActivityLink struct {
	ID         uuid.UUID
	SectionID  uuid.UUID
	ActivityID uuid.UUID
	OrderIndex int
	Notes      *string
	CreatedAt  time.Time

	// Activity is the joined catalog row; nil when not loaded.
	Activity *Activity
}

// LinkInput is one submitted activity reference inside a section.
type LinkInput struct {
	ActivityID uuid.UUID
	Notes      *string
}
