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

// SectionRepo defines the persistence operations for Sections.
// Every write is scoped by tripID so a section can never be moved between trips.
type SectionRepo interface {
	// Create inserts a new section and returns the persisted record with its
	// durable id.
	Create(ctx context.Context, section domain.Section) (domain.Section, error)

	// Update overwrites the fields and order index of a section, scoped to its TripID.
	// Returns domain.ErrNotFound if no section with that ID exists under that trip.
	Update(ctx context.Context, section domain.Section) (domain.Section, error)

	// ListByTripID returns all sections for a trip ordered by order_index.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Section, error)

	// DeleteNotIn removes every section of the trip whose id is not in keep and
	// returns how many were removed.
	DeleteNotIn(ctx context.Context, tripID uuid.UUID, keep []uuid.UUID) (int64, error)

	// DeleteAll removes every section of the trip and returns how many were removed.
	DeleteAll(ctx context.Context, tripID uuid.UUID) (int64, error)
}

// pgSectionRepo is the Postgres implementation of SectionRepo.
type pgSectionRepo struct {
	db db
}

// NewSectionRepo constructs a SectionRepo backed by the provided db connection.
func NewSectionRepo(db db) SectionRepo {
	return &pgSectionRepo{db: db}
}

const sectionColumns = `id, trip_id, title, start_date, end_date, budget, order_index, created_at, updated_at`

func (r *pgSectionRepo) Create(ctx context.Context, section domain.Section) (domain.Section, error) {
	const q = `
		INSERT INTO sections (trip_id, title, start_date, end_date, budget, order_index)
		VALUES (@trip_id, @title, @start_date, @end_date, @budget, @order_index)
		RETURNING ` + sectionColumns

	row := r.db.QueryRow(ctx, q, sectionArgs(section))
	result, err := scanSection(row)
	if err != nil {
		return domain.Section{}, fmt.Errorf("repo.SectionRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgSectionRepo) Update(ctx context.Context, section domain.Section) (domain.Section, error) {
	const q = `
		UPDATE sections
		SET title       = @title,
		    start_date  = @start_date,
		    end_date    = @end_date,
		    budget      = @budget,
		    order_index = @order_index,
		    updated_at  = now()
		WHERE id = @id AND trip_id = @trip_id
		RETURNING ` + sectionColumns

	args := sectionArgs(section)
	args["id"] = section.ID

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanSection(row)
	if err != nil {
		return domain.Section{}, fmt.Errorf("repo.SectionRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgSectionRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Section, error) {
	const q = `
		SELECT ` + sectionColumns + `
		FROM sections
		WHERE trip_id = @trip_id
		ORDER BY order_index, created_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.SectionRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	sections := []domain.Section{}
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.SectionRepo.ListByTripID: scan: %w", err)
		}
		sections = append(sections, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.SectionRepo.ListByTripID: rows: %w", err)
	}
	return sections, nil
}

func (r *pgSectionRepo) DeleteNotIn(ctx context.Context, tripID uuid.UUID, keep []uuid.UUID) (int64, error) {
	const q = `
		DELETE FROM sections
		WHERE trip_id = @trip_id
		  AND NOT (id = ANY (@keep::text[]::uuid[]))`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID, "keep": uuidStrings(keep)})
	if err != nil {
		return 0, fmt.Errorf("repo.SectionRepo.DeleteNotIn: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *pgSectionRepo) DeleteAll(ctx context.Context, tripID uuid.UUID) (int64, error) {
	const q = `DELETE FROM sections WHERE trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return 0, fmt.Errorf("repo.SectionRepo.DeleteAll: %w", err)
	}
	return tag.RowsAffected(), nil
}

func sectionArgs(s domain.Section) pgx.NamedArgs {
	return pgx.NamedArgs{
		"trip_id":     s.TripID,
		"title":       s.Title,
		"start_date":  s.StartDate, // nil becomes NULL
		"end_date":    s.EndDate,
		"budget":      s.Budget,
		"order_index": s.OrderIndex,
	}
}

// scanSection maps a single database row into a domain.Section.
func scanSection(s scanner) (domain.Section, error) {
	var (
		sec       domain.Section
		id        pgtype.UUID
		tripID    pgtype.UUID
		startDate pgtype.Date
		endDate   pgtype.Date
	)

	err := s.Scan(&id, &tripID, &sec.Title, &startDate, &endDate, &sec.Budget,
		&sec.OrderIndex, &sec.CreatedAt, &sec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Section{}, domain.ErrNotFound
		}
		return domain.Section{}, err
	}

	sec.ID = uuid.UUID(id.Bytes)
	sec.TripID = uuid.UUID(tripID.Bytes)
	sec.StartDate = optionalDate(startDate)
	sec.EndDate = optionalDate(endDate)
	return sec, nil
}
