package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkordes/tripplanner/internal/domain"
	"github.com/pkordes/tripplanner/internal/repo"
)

// CityService exposes the read-only destination catalog.
type CityService struct {
	cities repo.CityRepo
}

// NewCityService constructs a CityService backed by the provided CityRepo.
func NewCityService(cities repo.CityRepo) *CityService {
	return &CityService{cities: cities}
}

// List returns cities matching filter, most popular first.
// Always returns a non-nil slice.
func (s *CityService) List(ctx context.Context, filter domain.CityFilter) ([]domain.City, error) {
	filter.Region = strings.TrimSpace(filter.Region)
	cities, err := s.cities.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("service.CityService.List: %w", err)
	}
	if cities == nil {
		return []domain.City{}, nil
	}
	return cities, nil
}
