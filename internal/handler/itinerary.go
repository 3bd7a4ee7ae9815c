package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/tripplanner/internal/domain"
)

// SyncRequest is the body of PUT /trips/{tripID}/sections: the full desired
// itinerary. Array order is significant and becomes the persisted order.
type SyncRequest struct {
	Sections []SectionRequest `json:"sections" validate:"required,dive"`
}

// SectionRequest is one submitted section. ID is either a durable id returned
// by an earlier sync or GET, or absent / a client placeholder for a new section.
type SectionRequest struct {
	ID         *string             `json:"id,omitempty"`
	Title      string              `json:"title" validate:"required"`
	StartDate  *openapi_types.Date `json:"start_date,omitempty"`
	EndDate    *openapi_types.Date `json:"end_date,omitempty"`
	Budget     *float64            `json:"budget,omitempty" validate:"omitempty,gte=0"`
	Activities []LinkRequest       `json:"activities" validate:"dive"`
}

// LinkRequest references one catalog activity inside a section.
type LinkRequest struct {
	ID    openapi_types.UUID `json:"id" validate:"required"`
	Notes *string            `json:"notes,omitempty"`
}

// SyncResponse acknowledges a successful sync and returns the durable ids,
// in submission order, for the client to send back next time.
type SyncResponse struct {
	Success  bool            `json:"success"`
	Sections []SyncedSection `json:"sections"`
}

// SyncedSection is the resolved identity of one submitted section.
type SyncedSection struct {
	ID         openapi_types.UUID `json:"id"`
	OrderIndex int                `json:"order_index"`
}

// Itinerary is the body of GET /trips/{tripID}/sections.
type Itinerary struct {
	Sections []Section `json:"sections"`
}

// Section is the JSON representation of a persisted section with its links.
type Section struct {
	ID         openapi_types.UUID  `json:"id"`
	TripID     openapi_types.UUID  `json:"trip_id"`
	Title      string              `json:"title"`
	StartDate  *openapi_types.Date `json:"start_date"`
	EndDate    *openapi_types.Date `json:"end_date"`
	Budget     *float64            `json:"budget"`
	OrderIndex int                 `json:"order_index"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
	Activities []ActivityLink      `json:"activities"`
}

// ActivityLink is the JSON representation of a section's activity link.
type ActivityLink struct {
	ID         openapi_types.UUID `json:"id"`
	ActivityID openapi_types.UUID `json:"activity_id"`
	OrderIndex int                `json:"order_index"`
	Notes      *string            `json:"notes"`
	Activity   *Activity          `json:"activity,omitempty"`
}

// GetItinerary handles GET /trips/{tripID}/sections.
func (s *Server) GetItinerary(w http.ResponseWriter, r *http.Request) {
	tripID, ok := tripIDParam(w, r)
	if !ok {
		return
	}

	sections, err := s.itinerary.Get(r.Context(), tripID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "trip not found")
			return
		}
		internalError(w, r, err)
		return
	}

	out := make([]Section, len(sections))
	for i, sec := range sections {
		out[i] = sectionToResponse(sec)
	}
	writeJSON(w, http.StatusOK, Itinerary{Sections: out})
}

// SyncItinerary handles PUT /trips/{tripID}/sections.
// The client's error view is all-or-nothing: any failure is a single error
// response and the stored itinerary is left as it was.
func (s *Server) SyncItinerary(w http.ResponseWriter, r *http.Request) {
	tripID, ok := tripIDParam(w, r)
	if !ok {
		return
	}
	var body SyncRequest
	if err := decodeBody(r, &body); err != nil {
		badRequestBody(w, err.Error())
		return
	}

	inputs := make([]domain.SectionInput, len(body.Sections))
	for i, sec := range body.Sections {
		inputs[i] = requestToSectionInput(sec)
	}

	result, err := s.itinerary.Sync(r.Context(), tripID, inputs)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			validationFailed(w, err)
		case errors.Is(err, domain.ErrNotFound):
			notFound(w, "trip not found")
		case errors.Is(err, domain.ErrConflict):
			conflict(w, "another save of this itinerary is in progress")
		default:
			internalError(w, r, err)
		}
		return
	}

	resp := SyncResponse{Success: true, Sections: make([]SyncedSection, len(result.Sections))}
	for i, sec := range result.Sections {
		resp.Sections[i] = SyncedSection{ID: sec.ID, OrderIndex: sec.OrderIndex}
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- mapping helpers --------------------------------------------------------

// requestToSectionInput decides whether a submitted section is new or
// existing. Only an id that parses as a non-nil UUID addresses an existing
// section; an absent, empty, or placeholder id creates one.
func requestToSectionInput(req SectionRequest) domain.SectionInput {
	fields := domain.SectionFields{
		Title:  req.Title,
		Budget: req.Budget,
	}
	if req.StartDate != nil {
		d := req.StartDate.Time
		fields.StartDate = &d
	}
	if req.EndDate != nil {
		d := req.EndDate.Time
		fields.EndDate = &d
	}

	links := make([]domain.LinkInput, len(req.Activities))
	for i, a := range req.Activities {
		links[i] = domain.LinkInput{ActivityID: a.ID, Notes: a.Notes}
	}

	if id, ok := durableSectionID(req.ID); ok {
		return domain.ExistingSectionInput(id, fields, links)
	}
	return domain.NewSectionInput(fields, links)
}

func durableSectionID(raw *string) (uuid.UUID, bool) {
	if raw == nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(strings.TrimSpace(*raw))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

func sectionToResponse(sec domain.Section) Section {
	out := Section{
		ID:         sec.ID,
		TripID:     sec.TripID,
		Title:      sec.Title,
		StartDate:  optionalDate(sec.StartDate),
		EndDate:    optionalDate(sec.EndDate),
		Budget:     sec.Budget,
		OrderIndex: sec.OrderIndex,
		CreatedAt:  sec.CreatedAt,
		UpdatedAt:  sec.UpdatedAt,
		Activities: make([]ActivityLink, len(sec.Activities)),
	}
	for i, l := range sec.Activities {
		link := ActivityLink{
			ID:         l.ID,
			ActivityID: l.ActivityID,
			OrderIndex: l.OrderIndex,
			Notes:      l.Notes,
		}
		if l.Activity != nil {
			a := activityToResponse(*l.Activity)
			link.Activity = &a
		}
		out.Activities[i] = link
	}
	return out
}

func optionalDate(t *time.Time) *openapi_types.Date {
	if t == nil {
		return nil
	}
	return &openapi_types.Date{Time: *t}
}
