package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/tripplanner/internal/domain"
)

// CityRepo reads the destination catalog.
type CityRepo interface {
	// List returns cities matching filter, most popular first.
	List(ctx context.Context, filter domain.CityFilter) ([]domain.City, error)
}

type pgCityRepo struct {
	db db
}

// NewCityRepo constructs a CityRepo backed by the provided db connection.
func NewCityRepo(db db) CityRepo {
	return &pgCityRepo{db: db}
}

const cityColumns = `id, name, country, coalesce(region, ''), description, image_url,
	best_time_to_visit, seasonal_tag, is_featured, popularity_score, created_at`

func (r *pgCityRepo) List(ctx context.Context, filter domain.CityFilter) ([]domain.City, error) {
	const q = `
		SELECT ` + cityColumns + `
		FROM cities
		WHERE (@region = '' OR region = @region)
		  AND (NOT @featured_only::boolean OR is_featured)
		ORDER BY popularity_score DESC, name`

	args := pgx.NamedArgs{"region": filter.Region, "featured_only": filter.FeaturedOnly}
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.CityRepo.List: %w", err)
	}
	defer rows.Close()

	cities := []domain.City{}
	for rows.Next() {
		c, err := scanCity(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.CityRepo.List: scan: %w", err)
		}
		cities = append(cities, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.CityRepo.List: rows: %w", err)
	}
	return cities, nil
}

func scanCity(s scanner) (domain.City, error) {
	var (
		c  domain.City
		id pgtype.UUID
	)
	err := s.Scan(&id, &c.Name, &c.Country, &c.Region, &c.Description, &c.ImageURL,
		&c.BestTimeToVisit, &c.SeasonalTag, &c.IsFeatured, &c.PopularityScore, &c.CreatedAt)
	if err != nil {
		return domain.City{}, err
	}
	c.ID = uuid.UUID(id.Bytes)
	return c, nil
}
