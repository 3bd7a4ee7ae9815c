package domain

import (
	"time"

	"github.com/google/uuid"
)

// Section is a sub-period of a trip (usually a day) holding an ordered list
// of activity links. OrderIndex is dense and 0-based among a trip's sections.
type Section struct {
	ID         uuid.UUID
	TripID     uuid.UUID
	Title      string
	StartDate  *time.Time
	EndDate    *time.Time
	Budget     *float64
	OrderIndex int
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Activities is only populated by itinerary reads.
	Activities []ActivityLink
}

// SectionFields are the section-level values a client submits. They are
// copied verbatim onto the row on both create and update.
type SectionFields struct {
	Title     string
	StartDate *time.Time
	EndDate   *time.Time
	Budget    *float64
}

// SectionInput is one entry of a submitted itinerary. It is either a new
// section or an existing one addressed by its durable id; the caller decides
// which when building it.
type SectionInput struct {
	id         *uuid.UUID
	Fields     SectionFields
	Activities []LinkInput
}

// NewSectionInput builds an input that will create a section.
func NewSectionInput(fields SectionFields, activities []LinkInput) SectionInput {
	return SectionInput{Fields: fields, Activities: activities}
}

// ExistingSectionInput builds an input that will update the persisted
// section with the given durable id.
func ExistingSectionInput(id uuid.UUID, fields SectionFields, activities []LinkInput) SectionInput {
	return SectionInput{id: &id, Fields: fields, Activities: activities}
}

// IsNew reports whether the input creates a section.
func (in SectionInput) IsNew() bool {
	return in.id == nil
}

// ID returns the durable id of an existing section, or uuid.Nil for a new one.
func (in SectionInput) ID() uuid.UUID {
	if in.id == nil {
		return uuid.Nil
	}
	return *in.id
}

// SyncResult describes the outcome of a successful itinerary sync.
// Sections holds the resolved sections in submission order.
type SyncResult struct {
	Sections []Section
	Created  int
	Updated  int
	Removed  int
}
