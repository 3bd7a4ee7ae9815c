package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/tripplanner/internal/domain"
)

// Activity is the JSON representation of a catalog activity.
type Activity struct {
	ID                openapi_types.UUID  `json:"id"`
	CityID            *openapi_types.UUID `json:"city_id,omitempty"`
	Name              string              `json:"name"`
	Description       string              `json:"description,omitempty"`
	Category          string              `json:"category,omitempty"`
	EstimatedDuration string              `json:"estimated_duration,omitempty"`
	EstimatedCost     *float64            `json:"estimated_cost"`
	PopularityScore   int                 `json:"popularity_score"`
	CreatedAt         time.Time           `json:"created_at"`
}

// ActivityList is the body of GET /activities.
type ActivityList struct {
	Activities []Activity `json:"activities"`
}

// ListActivities handles GET /activities.
// Supports ?city_id= (also accepted as ?cityId=) and ?category= filters.
func (s *Server) ListActivities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.ActivityFilter{Category: q.Get("category")}

	rawCity := q.Get("city_id")
	if rawCity == "" {
		rawCity = q.Get("cityId")
	}
	if rawCity != "" {
		id, err := uuid.Parse(rawCity)
		if err != nil {
			badParameter(w, "city_id must be a UUID")
			return
		}
		filter.CityID = &id
	}

	activities, err := s.activities.List(r.Context(), filter)
	if err != nil {
		internalError(w, r, err)
		return
	}

	out := make([]Activity, len(activities))
	for i, a := range activities {
		out[i] = activityToResponse(a)
	}
	writeJSON(w, http.StatusOK, ActivityList{Activities: out})
}

func activityToResponse(a domain.Activity) Activity {
	return Activity{
		ID:                a.ID,
		CityID:            a.CityID,
		Name:              a.Name,
		Description:       a.Description,
		Category:          a.Category,
		EstimatedDuration: a.EstimatedDuration,
		EstimatedCost:     a.EstimatedCost,
		PopularityScore:   a.PopularityScore,
		CreatedAt:         a.CreatedAt,
	}
}
