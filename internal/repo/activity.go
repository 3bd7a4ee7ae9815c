package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/tripplanner/internal/domain"
)

// ActivityRepo reads the activity catalog. The catalog is maintained outside
// this service, so there are no write operations.
type ActivityRepo interface {
	// List returns catalog activities matching filter, most popular first.
	List(ctx context.Context, filter domain.ActivityFilter) ([]domain.Activity, error)

	// GetByID retrieves one activity. Returns domain.ErrNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Activity, error)

	// Missing returns the subset of ids that do not exist in the catalog,
	// in the order they were given. Duplicates in ids are reported once.
	Missing(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
}

// pgActivityRepo is the Postgres implementation of ActivityRepo.
type pgActivityRepo struct {
	db db
}

// NewActivityRepo constructs an ActivityRepo backed by the provided db connection.
func NewActivityRepo(db db) ActivityRepo {
	return &pgActivityRepo{db: db}
}

const activityColumns = `id, city_id, name, description, category, estimated_duration, estimated_cost, popularity_score, created_at`

// activityColumnsPrefixed is activityColumns qualified with the "a" alias for joins.
const activityColumnsPrefixed = `a.id, a.city_id, a.name, a.description, a.category, a.estimated_duration, a.estimated_cost, a.popularity_score, a.created_at`

func (r *pgActivityRepo) List(ctx context.Context, filter domain.ActivityFilter) ([]domain.Activity, error) {
	const q = `
		SELECT ` + activityColumns + `
		FROM activities
		WHERE (@city_id::uuid IS NULL OR city_id = @city_id::uuid)
		  AND (@category = '' OR category = @category)
		ORDER BY popularity_score DESC, name`

	args := pgx.NamedArgs{"city_id": filter.CityID, "category": filter.Category}
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.ActivityRepo.List: %w", err)
	}
	defer rows.Close()

	activities := []domain.Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ActivityRepo.List: scan: %w", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ActivityRepo.List: rows: %w", err)
	}
	return activities, nil
}

func (r *pgActivityRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Activity, error) {
	const q = `SELECT ` + activityColumns + ` FROM activities WHERE id = @id`

	a, err := scanActivity(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.GetByID: %w", err)
	}
	return a, nil
}

func (r *pgActivityRepo) Missing(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	const q = `
		SELECT w.id
		FROM unnest(@ids::text[]::uuid[]) WITH ORDINALITY AS w(id, pos)
		WHERE NOT EXISTS (SELECT 1 FROM activities a WHERE a.id = w.id)
		ORDER BY w.pos`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"ids": uuidStrings(ids)})
	if err != nil {
		return nil, fmt.Errorf("repo.ActivityRepo.Missing: %w", err)
	}
	defer rows.Close()

	var missing []uuid.UUID
	seen := make(map[uuid.UUID]bool)
	for rows.Next() {
		var id pgtype.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("repo.ActivityRepo.Missing: scan: %w", err)
		}
		u := uuid.UUID(id.Bytes)
		if !seen[u] {
			seen[u] = true
			missing = append(missing, u)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ActivityRepo.Missing: rows: %w", err)
	}
	return missing, nil
}

// activityRow holds the raw scan targets for one activity so the same column
// list can be scanned standalone or as part of a join.
type activityRow struct {
	a      domain.Activity
	id     pgtype.UUID
	cityID pgtype.UUID
}

func activityScanTargets() (*activityRow, []any) {
	r := &activityRow{}
	return r, []any{&r.id, &r.cityID, &r.a.Name, &r.a.Description, &r.a.Category,
		&r.a.EstimatedDuration, &r.a.EstimatedCost, &r.a.PopularityScore, &r.a.CreatedAt}
}

func (r *activityRow) finish() domain.Activity {
	r.a.ID = uuid.UUID(r.id.Bytes)
	r.a.CityID = optionalUUID(r.cityID)
	return r.a
}

// scanActivity maps a single database row into a domain.Activity.
func scanActivity(s scanner) (domain.Activity, error) {
	row, dest := activityScanTargets()
	if err := s.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Activity{}, domain.ErrNotFound
		}
		return domain.Activity{}, err
	}
	return row.finish(), nil
}
