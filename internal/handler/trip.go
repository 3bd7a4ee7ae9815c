package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/tripplanner/internal/domain"
)

// TripRequest is the body of POST /trips and PUT /trips/{tripID}.
// Activities is only honoured on create.
type TripRequest struct {
	OwnerID     *openapi_types.UUID  `json:"owner_id,omitempty"`
	CityID      *openapi_types.UUID  `json:"city_id,omitempty"`
	Title       string               `json:"title" validate:"required"`
	StartDate   openapi_types.Date   `json:"start_date" validate:"required"`
	EndDate     openapi_types.Date   `json:"end_date" validate:"required"`
	TotalBudget *float64             `json:"total_budget,omitempty" validate:"omitempty,gte=0"`
	Status      *string              `json:"status,omitempty" validate:"omitempty,oneof=planned completed cancelled"`
	Activities  []openapi_types.UUID `json:"activities,omitempty"`
}

// Trip is the JSON representation of a trip.
type Trip struct {
	ID          openapi_types.UUID  `json:"id"`
	OwnerID     *openapi_types.UUID `json:"owner_id,omitempty"`
	CityID      *openapi_types.UUID `json:"city_id,omitempty"`
	Title       string              `json:"title"`
	StartDate   openapi_types.Date  `json:"start_date"`
	EndDate     openapi_types.Date  `json:"end_date"`
	TotalBudget *float64            `json:"total_budget"`
	Status      string              `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// TripList is the body of GET /trips.
type TripList struct {
	Data       []Trip     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body TripRequest
	if err := decodeBody(r, &body); err != nil {
		badRequestBody(w, err.Error())
		return
	}

	created, err := s.trips.Create(r.Context(), domain.NewTrip{
		Trip:        requestToTrip(uuid.Nil, body),
		ActivityIDs: body.Activities,
	})
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			validationFailed(w, err)
			return
		}
		internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// ListTrips handles GET /trips.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	params := domain.NewPaginationParams(queryInt(r, "page"), queryInt(r, "limit"))
	trips, total, err := s.trips.ListPaged(r.Context(), params)
	if err != nil {
		internalError(w, r, err)
		return
	}

	data := make([]Trip, len(trips))
	for i, t := range trips {
		data[i] = tripToResponse(t)
	}
	writeJSON(w, http.StatusOK, TripList{
		Data: data,
		Pagination: Pagination{
			Page:       params.Page,
			Limit:      params.Limit,
			Total:      int(total),
			TotalPages: params.TotalPages(total),
		},
	})
}

// GetTrip handles GET /trips/{tripID}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := tripIDParam(w, r)
	if !ok {
		return
	}

	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "trip not found")
			return
		}
		internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// UpdateTrip handles PUT /trips/{tripID}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := tripIDParam(w, r)
	if !ok {
		return
	}
	var body TripRequest
	if err := decodeBody(r, &body); err != nil {
		badRequestBody(w, err.Error())
		return
	}

	updated, err := s.trips.Update(r.Context(), requestToTrip(id, body))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "trip not found")
			return
		}
		if errors.Is(err, domain.ErrValidation) {
			validationFailed(w, err)
			return
		}
		internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tripToResponse(updated))
}

// DeleteTrip handles DELETE /trips/{tripID}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := tripIDParam(w, r)
	if !ok {
		return
	}

	if err := s.trips.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "trip not found")
			return
		}
		internalError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

// tripIDParam parses the {tripID} path parameter, writing a 400 if it is not a UUID.
func tripIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "tripID"))
	if err != nil {
		badParameter(w, "tripID must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

// queryInt returns the named query parameter as an int, or nil when it is
// absent or not a number.
func queryInt(r *http.Request, name string) *int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return nil
	}
	return &v
}

// requestToTrip converts a TripRequest body into a domain.Trip with the given ID.
func requestToTrip(id uuid.UUID, body TripRequest) domain.Trip {
	t := domain.Trip{
		ID:          id,
		OwnerID:     body.OwnerID,
		CityID:      body.CityID,
		Title:       body.Title,
		StartDate:   body.StartDate.Time,
		EndDate:     body.EndDate.Time,
		TotalBudget: body.TotalBudget,
	}
	if body.Status != nil {
		t.Status = domain.TripStatus(*body.Status)
	}
	return t
}

// tripToResponse converts a domain.Trip into its JSON representation.
func tripToResponse(t domain.Trip) Trip {
	return Trip{
		ID:          t.ID,
		OwnerID:     t.OwnerID,
		CityID:      t.CityID,
		Title:       t.Title,
		StartDate:   openapi_types.Date{Time: t.StartDate},
		EndDate:     openapi_types.Date{Time: t.EndDate},
		TotalBudget: t.TotalBudget,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
