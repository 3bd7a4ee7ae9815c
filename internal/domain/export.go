package domain

import "github.com/google/uuid"

// ItineraryRow is a single row in a trip's itinerary export.
// It is a flat, denormalized view: one row per activity link, with section
// fields repeated for every link in that section. Sections with no links
// yield one row with empty activity fields.
type ItineraryRow struct {
	// Trip fields, repeated on every row.
	TripID    uuid.UUID
	TripTitle string

	// Section fields.
	SectionOrder     int
	SectionTitle     string
	SectionStartDate string // "2006-01-02"; empty when unset
	SectionEndDate   string
	SectionBudget    *float64

	// Activity fields, empty when the section has no links.
	ActivityOrder *int
	ActivityName  string
	Category      string
	EstimatedCost *float64
	Notes         string
}
