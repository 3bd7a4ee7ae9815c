package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/tripplanner/internal/domain"
)

// ActivityLinkRepo defines the persistence operations for the
// section_activities join table.
type ActivityLinkRepo interface {
	// DeleteBySection removes every link of a section. No error if there are none.
	DeleteBySection(ctx context.Context, sectionID uuid.UUID) error

	// Insert adds links to a section in one statement. ActivityID, OrderIndex,
	// and Notes are taken from each element; SectionID is ignored.
	Insert(ctx context.Context, sectionID uuid.UUID, links []domain.ActivityLink) error

	// ListByTripID returns every link on the trip with its catalog activity
	// joined, ordered by section order then link order.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.ActivityLink, error)
}

// pgActivityLinkRepo is the Postgres implementation of ActivityLinkRepo.
type pgActivityLinkRepo struct {
	db db
}

// NewActivityLinkRepo constructs an ActivityLinkRepo backed by the provided db connection.
func NewActivityLinkRepo(db db) ActivityLinkRepo {
	return &pgActivityLinkRepo{db: db}
}

func (r *pgActivityLinkRepo) DeleteBySection(ctx context.Context, sectionID uuid.UUID) error {
	const q = `DELETE FROM section_activities WHERE section_id = @section_id`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"section_id": sectionID}); err != nil {
		return fmt.Errorf("repo.ActivityLinkRepo.DeleteBySection: %w", err)
	}
	return nil
}

// Insert writes all links with a single INSERT ... SELECT over parallel arrays.
func (r *pgActivityLinkRepo) Insert(ctx context.Context, sectionID uuid.UUID, links []domain.ActivityLink) error {
	if len(links) == 0 {
		return nil
	}

	const q = `
		INSERT INTO section_activities (section_id, activity_id, order_index, notes)
		SELECT @section_id, l.activity_id, l.order_index, l.notes
		FROM unnest(@activity_ids::text[]::uuid[], @order_indexes::int[], @notes::text[])
		     AS l(activity_id, order_index, notes)`

	activityIDs := make([]string, len(links))
	orders := make([]int32, len(links))
	notes := make([]*string, len(links))
	for i, l := range links {
		activityIDs[i] = l.ActivityID.String()
		orders[i] = int32(l.OrderIndex)
		notes[i] = l.Notes
	}

	args := pgx.NamedArgs{
		"section_id":    sectionID,
		"activity_ids":  activityIDs,
		"order_indexes": orders,
		"notes":         notes,
	}
	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("repo.ActivityLinkRepo.Insert: %w", err)
	}
	return nil
}

func (r *pgActivityLinkRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.ActivityLink, error) {
	const q = `
		SELECT sa.id, sa.section_id, sa.activity_id, sa.order_index, sa.notes, sa.created_at,
		       ` + activityColumnsPrefixed + `
		FROM section_activities sa
		JOIN sections s   ON s.id = sa.section_id
		JOIN activities a ON a.id = sa.activity_id
		WHERE s.trip_id = @trip_id
		ORDER BY s.order_index, sa.order_index`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.ActivityLinkRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	links := []domain.ActivityLink{}
	for rows.Next() {
		var (
			l          domain.ActivityLink
			id         pgtype.UUID
			sectionID  pgtype.UUID
			activityID pgtype.UUID
		)
		dest := []any{&id, &sectionID, &activityID, &l.OrderIndex, &l.Notes, &l.CreatedAt}
		act, actDest := activityScanTargets()
		if err := rows.Scan(append(dest, actDest...)...); err != nil {
			return nil, fmt.Errorf("repo.ActivityLinkRepo.ListByTripID: scan: %w", err)
		}
		l.ID = uuid.UUID(id.Bytes)
		l.SectionID = uuid.UUID(sectionID.Bytes)
		l.ActivityID = uuid.UUID(activityID.Bytes)
		a := act.finish()
		l.Activity = &a
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ActivityLinkRepo.ListByTripID: rows: %w", err)
	}
	return links, nil
}
