package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/tripplanner/internal/domain"
	"github.com/pkordes/tripplanner/internal/lock"
	"github.com/pkordes/tripplanner/internal/metrics"
	"github.com/pkordes/tripplanner/internal/repo"
)

// TripLocker serializes itinerary syncs per trip. Satisfied by *lock.Local
// and *lock.Redis.
type TripLocker interface {
	Acquire(ctx context.Context, key string) (lock.Release, error)
}

// SyncRecorder receives one observation per sync call. Satisfied by *metrics.Sync.
type SyncRecorder interface {
	ObserveSync(outcome string, elapsed time.Duration, created, updated, removed int)
}

// ItineraryService reconciles a trip's submitted itinerary with the
// persisted sections and activity links, and reads the itinerary back.
type ItineraryService struct {
	repos   repo.Repos
	tx      repo.Transactor
	locker  TripLocker
	timeout time.Duration
	metrics SyncRecorder
	log     *slog.Logger
}

// NewItineraryService constructs an ItineraryService. repos serves reads;
// every sync runs inside a transaction opened by tx.
//
// timeout caps one sync, lock wait excluded. Set it no longer than the lock
// TTL so a sync is cancelled before its lock can expire under it. Zero
// means no cap.
func NewItineraryService(repos repo.Repos, tx repo.Transactor, locker TripLocker, timeout time.Duration, rec SyncRecorder, log *slog.Logger) *ItineraryService {
	return &ItineraryService{repos: repos, tx: tx, locker: locker, timeout: timeout, metrics: rec, log: log}
}

// Get returns the trip's sections ordered by order index, each with its
// activity links and catalog activities.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *ItineraryService) Get(ctx context.Context, tripID uuid.UUID) ([]domain.Section, error) {
	if _, err := s.repos.Trips.GetByID(ctx, tripID); err != nil {
		return nil, fmt.Errorf("service.ItineraryService.Get: %w", err)
	}
	sections, err := loadItinerary(ctx, s.repos, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ItineraryService.Get: %w", err)
	}
	return sections, nil
}

// Sync makes the trip's persisted itinerary exactly match inputs.
//
// Inputs are processed in order: new sections are created and existing ones
// updated, each taking its position as order index, and each section's
// activity links are replaced by the submitted list. Sections of the trip
// not named by the payload are then deleted. The whole call runs in one
// transaction, so on error nothing is persisted.
//
// Returns domain.ErrValidation for a malformed payload, domain.ErrNotFound if
// the trip does not exist, and domain.ErrConflict if another sync of the same
// trip is in progress. A sync that outruns the service timeout is rolled back
// with context.DeadlineExceeded.
func (s *ItineraryService) Sync(ctx context.Context, tripID uuid.UUID, inputs []domain.SectionInput) (result domain.SyncResult, err error) {
	start := time.Now()
	defer func() {
		s.observe(ctx, tripID, start, result, err)
	}()

	if err := validateSectionInputs(inputs); err != nil {
		return domain.SyncResult{}, err
	}

	// The deadline starts before the lock is taken, so it always fires
	// before the lock's TTL runs out.
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	release, err := s.locker.Acquire(ctx, "trip:"+tripID.String())
	if err != nil {
		return domain.SyncResult{}, fmt.Errorf("service.ItineraryService.Sync: %w", err)
	}
	defer func() {
		if rerr := release(context.WithoutCancel(ctx)); rerr != nil {
			s.log.WarnContext(ctx, "release itinerary lock", "trip_id", tripID, "error", rerr)
		}
	}()

	err = s.tx.WithinTx(ctx, func(r repo.Repos) error {
		res, err := syncItinerary(ctx, r, tripID, inputs)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return domain.SyncResult{}, fmt.Errorf("service.ItineraryService.Sync: %w", err)
	}
	return result, nil
}

func (s *ItineraryService) observe(ctx context.Context, tripID uuid.UUID, start time.Time, res domain.SyncResult, err error) {
	elapsed := time.Since(start)
	outcome := syncOutcome(err)
	s.metrics.ObserveSync(outcome, elapsed, res.Created, res.Updated, res.Removed)

	if err != nil {
		s.log.WarnContext(ctx, "itinerary sync failed",
			"trip_id", tripID,
			"outcome", outcome,
			"duration_ms", elapsed.Milliseconds(),
			"error", err,
		)
		return
	}
	s.log.InfoContext(ctx, "itinerary synced",
		"trip_id", tripID,
		"sections", len(res.Sections),
		"created", res.Created,
		"updated", res.Updated,
		"removed", res.Removed,
		"duration_ms", elapsed.Milliseconds(),
	)
}

func syncOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, domain.ErrValidation):
		return metrics.OutcomeInvalid
	case errors.Is(err, domain.ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, domain.ErrConflict):
		return metrics.OutcomeConflict
	default:
		return metrics.OutcomeError
	}
}

// syncItinerary is the reconciliation itself. It must run on repositories
// bound to a single transaction.
func syncItinerary(ctx context.Context, r repo.Repos, tripID uuid.UUID, inputs []domain.SectionInput) (domain.SyncResult, error) {
	if _, err := r.Trips.GetByID(ctx, tripID); err != nil {
		return domain.SyncResult{}, err
	}
	if err := requireActivities(ctx, r.Activities, activityIDs(inputs)); err != nil {
		return domain.SyncResult{}, err
	}

	res := domain.SyncResult{Sections: make([]domain.Section, 0, len(inputs))}
	kept := make([]uuid.UUID, 0, len(inputs))

	for i, in := range inputs {
		section, err := resolveSection(ctx, r.Sections, tripID, i, in)
		if err != nil {
			return domain.SyncResult{}, err
		}
		if in.IsNew() {
			res.Created++
		} else {
			res.Updated++
		}
		kept = append(kept, section.ID)

		links, err := replaceLinks(ctx, r.Links, section.ID, in.Activities)
		if err != nil {
			return domain.SyncResult{}, err
		}
		section.Activities = links
		res.Sections = append(res.Sections, section)
	}

	removed, err := removeStaleSections(ctx, r.Sections, tripID, kept)
	if err != nil {
		return domain.SyncResult{}, err
	}
	res.Removed = int(removed)

	return res, nil
}

// resolveSection creates or updates the section for input at position order
// and returns the persisted row.
func resolveSection(ctx context.Context, sections repo.SectionRepo, tripID uuid.UUID, order int, in domain.SectionInput) (domain.Section, error) {
	row := domain.Section{
		TripID:     tripID,
		Title:      strings.TrimSpace(in.Fields.Title),
		StartDate:  in.Fields.StartDate,
		EndDate:    in.Fields.EndDate,
		Budget:     in.Fields.Budget,
		OrderIndex: order,
	}

	if in.IsNew() {
		return sections.Create(ctx, row)
	}

	row.ID = in.ID()
	updated, err := sections.Update(ctx, row)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Section{}, fmt.Errorf("%w: sections[%d]: section %s does not belong to this trip", domain.ErrValidation, order, row.ID)
	}
	return updated, err
}

// replaceLinks deletes every link of the section and inserts the submitted
// ones, numbered from 0 in list order. Empty notes are stored as NULL.
func replaceLinks(ctx context.Context, links repo.ActivityLinkRepo, sectionID uuid.UUID, inputs []domain.LinkInput) ([]domain.ActivityLink, error) {
	if err := links.DeleteBySection(ctx, sectionID); err != nil {
		return nil, err
	}

	rows := make([]domain.ActivityLink, len(inputs))
	for i, in := range inputs {
		rows[i] = domain.ActivityLink{
			SectionID:  sectionID,
			ActivityID: in.ActivityID,
			OrderIndex: i,
			Notes:      optionalNotes(in.Notes),
		}
	}
	if len(rows) == 0 {
		return rows, nil
	}
	if err := links.Insert(ctx, sectionID, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func optionalNotes(notes *string) *string {
	if notes == nil || *notes == "" {
		return nil
	}
	return notes
}

// removeStaleSections deletes the trip's sections that were not kept. An
// empty kept list means the client cleared the itinerary.
func removeStaleSections(ctx context.Context, sections repo.SectionRepo, tripID uuid.UUID, kept []uuid.UUID) (int64, error) {
	if len(kept) == 0 {
		return sections.DeleteAll(ctx, tripID)
	}
	return sections.DeleteNotIn(ctx, tripID, kept)
}

// requireActivities fails with domain.ErrValidation if any id is not in the catalog.
func requireActivities(ctx context.Context, activities repo.ActivityRepo, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	missing, err := activities.Missing(ctx, ids)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		names := make([]string, len(missing))
		for i, id := range missing {
			names[i] = id.String()
		}
		return fmt.Errorf("%w: unknown activities: %s", domain.ErrValidation, strings.Join(names, ", "))
	}
	return nil
}

func activityIDs(inputs []domain.SectionInput) []uuid.UUID {
	var ids []uuid.UUID
	for _, in := range inputs {
		for _, l := range in.Activities {
			ids = append(ids, l.ActivityID)
		}
	}
	return ids
}

// validateSectionInputs checks the payload before anything is written.
//   - Titles must be non-blank.
//   - end_date, when both dates are set, must not be before start_date.
//   - Budgets must not be negative.
//   - Activity ids must be set.
//   - An existing section may appear only once.
func validateSectionInputs(inputs []domain.SectionInput) error {
	seen := make(map[uuid.UUID]int, len(inputs))
	for i, in := range inputs {
		f := in.Fields
		if strings.TrimSpace(f.Title) == "" {
			return fmt.Errorf("%w: sections[%d]: title is required", domain.ErrValidation, i)
		}
		if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
			return fmt.Errorf("%w: sections[%d]: end_date must not be before start_date", domain.ErrValidation, i)
		}
		if f.Budget != nil && *f.Budget < 0 {
			return fmt.Errorf("%w: sections[%d]: budget must not be negative", domain.ErrValidation, i)
		}
		for j, l := range in.Activities {
			if l.ActivityID == uuid.Nil {
				return fmt.Errorf("%w: sections[%d].activities[%d]: id is required", domain.ErrValidation, i, j)
			}
		}
		if in.IsNew() {
			continue
		}
		if prev, dup := seen[in.ID()]; dup {
			return fmt.Errorf("%w: sections[%d]: section %s already submitted at sections[%d]", domain.ErrValidation, i, in.ID(), prev)
		}
		seen[in.ID()] = i
	}
	return nil
}

// loadItinerary reads sections and links and nests the links under their sections.
func loadItinerary(ctx context.Context, r repo.Repos, tripID uuid.UUID) ([]domain.Section, error) {
	sections, err := r.Sections.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	links, err := r.Links.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	index := make(map[uuid.UUID]int, len(sections))
	for i := range sections {
		sections[i].Activities = []domain.ActivityLink{}
		index[sections[i].ID] = i
	}
	for _, l := range links {
		if i, ok := index[l.SectionID]; ok {
			sections[i].Activities = append(sections[i].Activities, l)
		}
	}
	return sections, nil
}
