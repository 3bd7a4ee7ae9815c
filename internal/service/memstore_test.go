package service_test

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/tripplanner/internal/domain"
	"github.com/pkordes/tripplanner/internal/repo"
)

// memStore is an in-memory stand-in for the Postgres repositories. It also
// implements repo.Transactor: WithinTx snapshots every table and restores
// the snapshot when fn fails, the way a rolled-back transaction would.
//
// failLinkInsertAt makes the n-th (1-based) links Insert call fail, which
// lets tests break a sync half way through.
type memStore struct {
	trips      map[uuid.UUID]domain.Trip
	sections   map[uuid.UUID]domain.Section
	links      []domain.ActivityLink
	activities map[uuid.UUID]domain.Activity

	failLinkInsertAt int
	linkInserts      int
	txCount          int
}

var errInjected = errors.New("injected failure")

func newMemStore() *memStore {
	return &memStore{
		trips:      make(map[uuid.UUID]domain.Trip),
		sections:   make(map[uuid.UUID]domain.Section),
		activities: make(map[uuid.UUID]domain.Activity),
	}
}

var _ repo.Transactor = (*memStore)(nil)

func (m *memStore) repos() repo.Repos {
	return repo.Repos{
		Trips:      memTrips{m},
		Sections:   memSections{m},
		Links:      memLinks{m},
		Activities: memActivities{m},
	}
}

func (m *memStore) WithinTx(_ context.Context, fn func(repo.Repos) error) error {
	m.txCount++
	trips := maps.Clone(m.trips)
	sections := maps.Clone(m.sections)
	links := slices.Clone(m.links)

	if err := fn(m.repos()); err != nil {
		m.trips, m.sections, m.links = trips, sections, links
		return fmt.Errorf("memStore.WithinTx: %w", err)
	}
	return nil
}

// ---- seeding helpers -------------------------------------------------------

func (m *memStore) addTrip(title string) domain.Trip {
	t := domain.Trip{
		ID:        uuid.New(),
		Title:     title,
		StartDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
		Status:    domain.TripPlanned,
	}
	m.trips[t.ID] = t
	return t
}

func (m *memStore) addActivity(name string) domain.Activity {
	cost := 10.0
	a := domain.Activity{ID: uuid.New(), Name: name, Category: "sightseeing", EstimatedCost: &cost}
	m.activities[a.ID] = a
	return a
}

// tripSections returns the trip's sections ordered by order index.
func (m *memStore) tripSections(tripID uuid.UUID) []domain.Section {
	var out []domain.Section
	for _, s := range m.sections {
		if s.TripID == tripID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out
}

// sectionLinks returns the section's links ordered by order index.
func (m *memStore) sectionLinks(sectionID uuid.UUID) []domain.ActivityLink {
	var out []domain.ActivityLink
	for _, l := range m.links {
		if l.SectionID == sectionID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out
}

// ---- TripRepo --------------------------------------------------------------

type memTrips struct{ m *memStore }

func (r memTrips) Create(_ context.Context, t domain.Trip) (domain.Trip, error) {
	t.ID = uuid.New()
	t.CreatedAt = time.Now().UTC()
	t.UpdatedAt = t.CreatedAt
	r.m.trips[t.ID] = t
	return t, nil
}

func (r memTrips) GetByID(_ context.Context, id uuid.UUID) (domain.Trip, error) {
	t, ok := r.m.trips[id]
	if !ok {
		return domain.Trip{}, fmt.Errorf("memTrips.GetByID: %w", domain.ErrNotFound)
	}
	return t, nil
}

func (r memTrips) ListPaged(_ context.Context, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	all := slices.Collect(maps.Values(r.m.trips))
	sort.Slice(all, func(i, j int) bool { return all[i].StartDate.After(all[j].StartDate) })
	total := int64(len(all))
	lo := min(p.Offset(), len(all))
	hi := min(lo+p.Limit, len(all))
	return all[lo:hi], total, nil
}

func (r memTrips) Update(_ context.Context, t domain.Trip) (domain.Trip, error) {
	if _, ok := r.m.trips[t.ID]; !ok {
		return domain.Trip{}, domain.ErrNotFound
	}
	r.m.trips[t.ID] = t
	return t, nil
}

func (r memTrips) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.m.trips[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.m.trips, id)
	for sid, s := range r.m.sections {
		if s.TripID == id {
			r.m.deleteSection(sid)
		}
	}
	return nil
}

// ---- SectionRepo -----------------------------------------------------------

type memSections struct{ m *memStore }

func (r memSections) Create(_ context.Context, s domain.Section) (domain.Section, error) {
	s.ID = uuid.New()
	s.CreatedAt = time.Now().UTC()
	s.UpdatedAt = s.CreatedAt
	s.Activities = nil
	r.m.sections[s.ID] = s
	return s, nil
}

func (r memSections) Update(_ context.Context, s domain.Section) (domain.Section, error) {
	cur, ok := r.m.sections[s.ID]
	if !ok || cur.TripID != s.TripID {
		return domain.Section{}, fmt.Errorf("memSections.Update: %w", domain.ErrNotFound)
	}
	s.CreatedAt = cur.CreatedAt
	s.UpdatedAt = time.Now().UTC()
	s.Activities = nil
	r.m.sections[s.ID] = s
	return s, nil
}

func (r memSections) ListByTripID(_ context.Context, tripID uuid.UUID) ([]domain.Section, error) {
	return r.m.tripSections(tripID), nil
}

func (r memSections) DeleteNotIn(_ context.Context, tripID uuid.UUID, keep []uuid.UUID) (int64, error) {
	var n int64
	for id, s := range r.m.sections {
		if s.TripID == tripID && !slices.Contains(keep, id) {
			r.m.deleteSection(id)
			n++
		}
	}
	return n, nil
}

func (r memSections) DeleteAll(_ context.Context, tripID uuid.UUID) (int64, error) {
	var n int64
	for id, s := range r.m.sections {
		if s.TripID == tripID {
			r.m.deleteSection(id)
			n++
		}
	}
	return n, nil
}

// deleteSection removes a section and cascades to its links.
func (m *memStore) deleteSection(id uuid.UUID) {
	delete(m.sections, id)
	m.links = slices.DeleteFunc(m.links, func(l domain.ActivityLink) bool { return l.SectionID == id })
}

// ---- ActivityLinkRepo ------------------------------------------------------

type memLinks struct{ m *memStore }

func (r memLinks) DeleteBySection(_ context.Context, sectionID uuid.UUID) error {
	r.m.links = slices.DeleteFunc(r.m.links, func(l domain.ActivityLink) bool { return l.SectionID == sectionID })
	return nil
}

func (r memLinks) Insert(_ context.Context, sectionID uuid.UUID, links []domain.ActivityLink) error {
	r.m.linkInserts++
	if r.m.failLinkInsertAt > 0 && r.m.linkInserts == r.m.failLinkInsertAt {
		return errInjected
	}
	for _, l := range links {
		if _, ok := r.m.activities[l.ActivityID]; !ok {
			return fmt.Errorf("memLinks.Insert: foreign key violation on activity %s", l.ActivityID)
		}
		l.ID = uuid.New()
		l.SectionID = sectionID
		l.CreatedAt = time.Now().UTC()
		r.m.links = append(r.m.links, l)
	}
	return nil
}

func (r memLinks) ListByTripID(_ context.Context, tripID uuid.UUID) ([]domain.ActivityLink, error) {
	var out []domain.ActivityLink
	for _, s := range r.m.tripSections(tripID) {
		for _, l := range r.m.sectionLinks(s.ID) {
			a := r.m.activities[l.ActivityID]
			l.Activity = &a
			out = append(out, l)
		}
	}
	return out, nil
}

// ---- ActivityRepo ----------------------------------------------------------

type memActivities struct{ m *memStore }

func (r memActivities) List(_ context.Context, f domain.ActivityFilter) ([]domain.Activity, error) {
	var out []domain.Activity
	for _, a := range r.m.activities {
		if f.Category != "" && a.Category != f.Category {
			continue
		}
		if f.CityID != nil && (a.CityID == nil || *a.CityID != *f.CityID) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PopularityScore > out[j].PopularityScore })
	return out, nil
}

func (r memActivities) GetByID(_ context.Context, id uuid.UUID) (domain.Activity, error) {
	a, ok := r.m.activities[id]
	if !ok {
		return domain.Activity{}, domain.ErrNotFound
	}
	return a, nil
}

func (r memActivities) Missing(_ context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, id := range ids {
		if _, ok := r.m.activities[id]; !ok && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out, nil
}
