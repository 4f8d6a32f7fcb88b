package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/noah-isme/unitime-api/internal/models"
)

type memTimetableRepo struct {
	mu    sync.Mutex
	items []models.Timetable
	seq   int
}

func (m *memTimetableRepo) List(ctx context.Context, filter models.TimetableFilter) ([]models.Timetable, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Timetable
	for _, t := range m.items {
		if filter.DepartmentID != "" && t.DepartmentID != filter.DepartmentID {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		out = append(out, t)
	}
	return out, len(out), nil
}

func (m *memTimetableRepo) ListByStatus(ctx context.Context, statuses ...models.TimetableStatus) ([]models.Timetable, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Timetable
	for _, t := range m.items {
		for _, status := range statuses {
			if t.Status == status {
				out = append(out, t)
				break
			}
		}
	}
	return out, nil
}

func (m *memTimetableRepo) FindByID(ctx context.Context, id string) (*models.Timetable, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.items {
		if t.ID == id {
			cp := t
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memTimetableRepo) Create(ctx context.Context, timetable *models.Timetable) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if timetable.ID == "" {
		m.seq++
		timetable.ID = fmt.Sprintf("tt-%d", m.seq)
	}
	timetable.CreatedAt = time.Now()
	m.items = append(m.items, *timetable)
	return nil
}

func (m *memTimetableRepo) UpdateStatus(ctx context.Context, id string, status models.TimetableStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].Status = status
			m.items[i].Version++
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *memTimetableRepo) Touch(ctx context.Context, id string) error {
	return nil
}

func (m *memTimetableRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return nil
}

type memSessionRepo struct {
	mu       sync.Mutex
	items    []models.Session
	saved    [][]models.Session
	flags    []map[string]bool
	listErr  error
	bulkSize []int
}

func (m *memSessionRepo) List(ctx context.Context, filter models.SessionFilter) ([]models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []models.Session
	for _, s := range m.items {
		if len(filter.TimetableIDs) > 0 && !containsString(filter.TimetableIDs, s.TimetableID) {
			continue
		}
		if filter.LecturerID != "" && s.LecturerID != filter.LecturerID {
			continue
		}
		if filter.VenueID != "" && s.VenueID != filter.VenueID {
			continue
		}
		if filter.GroupID != "" && s.GroupID != filter.GroupID {
			continue
		}
		if filter.Day != nil && s.Day != *filter.Day {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *memSessionRepo) FindByID(ctx context.Context, id string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.items {
		if s.ID == id {
			cp := s
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memSessionRepo) Create(ctx context.Context, session *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, *session)
	return nil
}

func (m *memSessionRepo) BulkCreate(ctx context.Context, sessions []models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, sessions...)
	m.bulkSize = append(m.bulkSize, len(sessions))
	return nil
}

func (m *memSessionRepo) Update(ctx context.Context, session *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replace(*session)
	return nil
}

func (m *memSessionRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memSessionRepo) SaveResolution(ctx context.Context, moved []models.Session, flags map[string]bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range moved {
		m.replace(s)
	}
	m.applyFlags(flags)
	m.saved = append(m.saved, moved)
	m.flags = append(m.flags, flags)
	return nil
}

func (m *memSessionRepo) UpdateConflictFlags(ctx context.Context, flags map[string]bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applyFlags(flags)
	m.flags = append(m.flags, flags)
	return nil
}

func (m *memSessionRepo) replace(session models.Session) {
	for i := range m.items {
		if m.items[i].ID == session.ID {
			session.TimeSlot = ""
			m.items[i] = session
			return
		}
	}
}

func (m *memSessionRepo) applyFlags(flags map[string]bool) {
	for i := range m.items {
		if v, ok := flags[m.items[i].ID]; ok {
			m.items[i].HasConflict = v
		}
	}
}

func (m *memSessionRepo) byID(id string) models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.items {
		if s.ID == id {
			return s
		}
	}
	return models.Session{}
}

type memVenueRepo struct {
	items []models.Venue
	lists int
}

func (m *memVenueRepo) List(ctx context.Context) ([]models.Venue, error) {
	m.lists++
	out := make([]models.Venue, len(m.items))
	copy(out, m.items)
	return out, nil
}

func (m *memVenueRepo) Create(ctx context.Context, venue *models.Venue) error {
	if venue.ID == "" {
		venue.ID = fmt.Sprintf("v-%d", len(m.items)+1)
	}
	m.items = append(m.items, *venue)
	return nil
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func testVenues() []models.Venue {
	return []models.Venue{
		{ID: "v-a101", Name: "A101", Type: "lecture", Capacity: 60},
		{ID: "v-a102", Name: "A102", Type: "lecture", Capacity: 80},
		{ID: "v-l1", Name: "Lab 1", Type: "lab", Capacity: 30},
	}
}

func testSession(id, timetableID, venueID, lecturerID, groupID string, day, start, end int) models.Session {
	venue := ""
	for _, v := range testVenues() {
		if v.ID == venueID {
			venue = v.Name
		}
	}
	return models.Session{
		ID:          id,
		TimetableID: timetableID,
		ModuleID:    "mod-" + id,
		ModuleName:  "Module " + id,
		VenueID:     venueID,
		Venue:       venue,
		LecturerID:  lecturerID,
		Lecturer:    lecturerID,
		GroupID:     groupID,
		Group:       groupID,
		Day:         day,
		StartSlot:   start,
		EndSlot:     end,
	}
}

type fixture struct {
	timetables *memTimetableRepo
	sessions   *memSessionRepo
	venues     *memVenueRepo
	scopes     *ScopeLoader
	catalog    *VenueCatalogService
}

func newFixture(timetables []models.Timetable, sessions []models.Session) *fixture {
	f := &fixture{
		timetables: &memTimetableRepo{items: timetables},
		sessions:   &memSessionRepo{items: sessions},
		venues:     &memVenueRepo{items: testVenues()},
	}
	f.scopes = NewScopeLoader(f.timetables, f.sessions)
	f.catalog = NewVenueCatalogService(f.venues, f.scopes, nil, 0, nil, nil, nil)
	return f
}

func draftTimetable(id string) models.Timetable {
	return models.Timetable{ID: id, Name: "Timetable " + id, DepartmentID: "cs", Period: "2025-S1", Version: 1, Status: models.TimetableStatusDraft, DaysPerWeek: 5}
}
