package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkordes/tripplanner/internal/domain"
	"github.com/pkordes/tripplanner/internal/repo"
)

// ActivityService exposes the read-only activity catalog.
type ActivityService struct {
	activities repo.ActivityRepo
}

// NewActivityService constructs an ActivityService backed by the provided ActivityRepo.
func NewActivityService(activities repo.ActivityRepo) *ActivityService {
	return &ActivityService{activities: activities}
}

// List returns catalog activities matching filter, most popular first.
// Always returns a non-nil slice.
func (s *ActivityService) List(ctx context.Context, filter domain.ActivityFilter) ([]domain.Activity, error) {
	filter.Category = strings.TrimSpace(filter.Category)
	activities, err := s.activities.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("service.ActivityService.List: %w", err)
	}
	if activities == nil {
		return []domain.Activity{}, nil
	}
	return activities, nil
}
