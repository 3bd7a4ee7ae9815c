// Package handler implements the HTTP handlers for the trip planner API.
// All handlers are methods on Server. Methods are split into resource files
// (health.go, trip.go, itinerary.go, ...) but share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/tripplanner/internal/domain"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here, in the consumer package, lets handler tests
// inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, nt domain.NewTrip) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error)
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ItineraryServicer reads and synchronizes a trip's sections.
type ItineraryServicer interface {
	Get(ctx context.Context, tripID uuid.UUID) ([]domain.Section, error)
	Sync(ctx context.Context, tripID uuid.UUID, inputs []domain.SectionInput) (domain.SyncResult, error)
}

// ActivityServicer reads the activity catalog.
type ActivityServicer interface {
	List(ctx context.Context, filter domain.ActivityFilter) ([]domain.Activity, error)
}

// CityServicer reads the destination catalog.
type CityServicer interface {
	List(ctx context.Context, filter domain.CityFilter) ([]domain.City, error)
}

// ExportServicer flattens a trip's itinerary for export.
type ExportServicer interface {
	Export(ctx context.Context, tripID uuid.UUID) ([]domain.ItineraryRow, error)
}

// Server holds the services behind every API endpoint.
type Server struct {
	trips      TripServicer
	itinerary  ItineraryServicer
	activities ActivityServicer
	cities     CityServicer
	export     ExportServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer, itinerary ItineraryServicer, activities ActivityServicer, cities CityServicer, export ExportServicer) *Server {
	return &Server{trips: trips, itinerary: itinerary, activities: activities, cities: cities, export: export}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil, nil, nil)
}

// Routes returns the API router. Mount it at "/" in main.go.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	r.Get("/activities", s.ListActivities)
	r.Get("/cities", s.ListCities)

	r.Route("/trips", func(r chi.Router) {
		r.Post("/", s.CreateTrip)
		r.Get("/", s.ListTrips)

		r.Route("/{tripID}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Put("/", s.UpdateTrip)
			r.Delete("/", s.DeleteTrip)

			r.Get("/sections", s.GetItinerary)
			r.Put("/sections", s.SyncItinerary)

			r.Get("/export", s.GetExport)
		})
	})

	return r
}
