package domain

import (
	"time"

	"github.com/google/uuid"
)

// City is a destination in the catalog. Trips and activities reference it by id.
type City struct {
	ID              uuid.UUID
	Name            string
	Country         string
	Region          string
	Description     string
	ImageURL        string
	BestTimeToVisit string
	SeasonalTag     string
	IsFeatured      bool
	PopularityScore int
	CreatedAt       time.Time
}

// CityFilter narrows a city listing. An empty Region matches every region.
type CityFilter struct {
	Region       string
	FeaturedOnly bool
}
