package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/noah-isme/unitime-api/internal/dto"
	"github.com/noah-isme/unitime-api/internal/models"
	appErrors "github.com/noah-isme/unitime-api/pkg/errors"
)

// Scope names the session collection a detection pass runs over: one
// department timetable, or the master view across every submitted one.
type Scope struct {
	Kind        string
	TimetableID string
}

// DepartmentScope targets a single timetable.
func DepartmentScope(timetableID string) Scope {
	return Scope{Kind: dto.ScopeDepartment, TimetableID: timetableID}
}

// MasterScope targets the union of submitted and published timetables.
func MasterScope() Scope {
	return Scope{Kind: dto.ScopeMaster}
}

// IsMaster reports whether the scope spans departments.
func (s Scope) IsMaster() bool {
	return s.Kind == dto.ScopeMaster
}

// masterStatuses are the timetables the master view is assembled from.
var masterStatuses = []models.TimetableStatus{models.TimetableStatusSubmitted, models.TimetableStatusPublished}

type timetableReader interface {
	FindByID(ctx context.Context, id string) (*models.Timetable, error)
	ListByStatus(ctx context.Context, statuses ...models.TimetableStatus) ([]models.Timetable, error)
}

type sessionLister interface {
	List(ctx context.Context, filter models.SessionFilter) ([]models.Session, error)
}

// ScopeLoader resolves a scope to its timetables and sessions.
type ScopeLoader struct {
	timetables timetableReader
	sessions   sessionLister
	metrics    *MetricsService
}

// NewScopeLoader constructs a ScopeLoader.
func NewScopeLoader(timetables timetableReader, sessions sessionLister) *ScopeLoader {
	return &ScopeLoader{timetables: timetables, sessions: sessions}
}

// WithMetrics records load timings on m.
func (l *ScopeLoader) WithMetrics(m *MetricsService) *ScopeLoader {
	l.metrics = m
	return l
}

// Load returns the timetables and sessions of a scope.
func (l *ScopeLoader) Load(ctx context.Context, scope Scope) ([]models.Timetable, []models.Session, error) {
	start := time.Now()
	defer func() { l.metrics.ObserveDBQuery("scope_"+scope.Kind, time.Since(start)) }()
	if scope.IsMaster() {
		return l.master(ctx)
	}
	timetable, err := l.Timetable(ctx, scope.TimetableID)
	if err != nil {
		return nil, nil, err
	}
	sessions, err := l.sessions.List(ctx, models.SessionFilter{TimetableIDs: []string{timetable.ID}})
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sessions")
	}
	return []models.Timetable{*timetable}, sessions, nil
}

// Timetable loads one timetable, mapping a missing row to 404.
func (l *ScopeLoader) Timetable(ctx context.Context, id string) (*models.Timetable, error) {
	return findTimetable(ctx, l.timetables, id)
}

func findTimetable(ctx context.Context, repo interface {
	FindByID(ctx context.Context, id string) (*models.Timetable, error)
}, id string) (*models.Timetable, error) {
	timetable, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}
	return timetable, nil
}

func (l *ScopeLoader) master(ctx context.Context) ([]models.Timetable, []models.Session, error) {
	timetables, err := l.timetables.ListByStatus(ctx, masterStatuses...)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load master timetables")
	}
	if len(timetables) == 0 {
		return timetables, nil, nil
	}
	ids := make([]string, len(timetables))
	for i, t := range timetables {
		ids[i] = t.ID
	}
	sessions, err := l.sessions.List(ctx, models.SessionFilter{TimetableIDs: ids})
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load master sessions")
	}
	return timetables, sessions, nil
}
