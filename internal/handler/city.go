package handler

import (
	"net/http"
	"strconv"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/tripplanner/internal/domain"
)

// City is the JSON representation of a catalog destination.
type City struct {
	ID              openapi_types.UUID `json:"id"`
	Name            string             `json:"name"`
	Country         string             `json:"country"`
	Region          string             `json:"region,omitempty"`
	Description     string             `json:"description,omitempty"`
	ImageURL        string             `json:"image_url,omitempty"`
	BestTimeToVisit string             `json:"best_time_to_visit,omitempty"`
	SeasonalTag     string             `json:"seasonal_tag,omitempty"`
	IsFeatured      bool               `json:"is_featured"`
	PopularityScore int                `json:"popularity_score"`
	CreatedAt       time.Time          `json:"created_at"`
}

// CityList is the body of GET /cities.
type CityList struct {
	Cities []City `json:"cities"`
}

// ListCities handles GET /cities.
// Supports ?region= and ?featured=true filters.
func (s *Server) ListCities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.CityFilter{Region: q.Get("region")}

	if raw := q.Get("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			badParameter(w, "featured must be true or false")
			return
		}
		filter.FeaturedOnly = featured
	}

	cities, err := s.cities.List(r.Context(), filter)
	if err != nil {
		internalError(w, r, err)
		return
	}

	out := make([]City, len(cities))
	for i, c := range cities {
		out[i] = cityToResponse(c)
	}
	writeJSON(w, http.StatusOK, CityList{Cities: out})
}

func cityToResponse(c domain.City) City {
	return City{
		ID:              c.ID,
		Name:            c.Name,
		Country:         c.Country,
		Region:          c.Region,
		Description:     c.Description,
		ImageURL:        c.ImageURL,
		BestTimeToVisit: c.BestTimeToVisit,
		SeasonalTag:     c.SeasonalTag,
		IsFeatured:      c.IsFeatured,
		PopularityScore: c.PopularityScore,
		CreatedAt:       c.CreatedAt,
	}
}
