package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/tripplanner/internal/domain"
	"github.com/pkordes/tripplanner/internal/repo"
)

const exportDateLayout = "2006-01-02"

// ExportService flattens a trip's itinerary into export rows.
type ExportService struct {
	repos repo.Repos
}

// NewExportService constructs an ExportService backed by the provided repos.
func NewExportService(repos repo.Repos) *ExportService {
	return &ExportService{repos: repos}
}

// Export returns one ItineraryRow per activity link, in section then link
// order. Sections with no links contribute one row with empty activity fields.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *ExportService) Export(ctx context.Context, tripID uuid.UUID) ([]domain.ItineraryRow, error) {
	trip, err := s.repos.Trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	sections, err := loadItinerary(ctx, s.repos, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	rows := []domain.ItineraryRow{}
	for _, sec := range sections {
		base := domain.ItineraryRow{
			TripID:           trip.ID,
			TripTitle:        trip.Title,
			SectionOrder:     sec.OrderIndex,
			SectionTitle:     sec.Title,
			SectionStartDate: formatDate(sec.StartDate),
			SectionEndDate:   formatDate(sec.EndDate),
			SectionBudget:    sec.Budget,
		}
		if len(sec.Activities) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, l := range sec.Activities {
			row := base
			order := l.OrderIndex
			row.ActivityOrder = &order
			if l.Notes != nil {
				row.Notes = *l.Notes
			}
			if l.Activity != nil {
				row.ActivityName = l.Activity.Name
				row.Category = l.Activity.Category
				row.EstimatedCost = l.Activity.EstimatedCost
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(exportDateLayout)
}
