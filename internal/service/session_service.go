package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/unitime-api/internal/conflict"
	"github.com/noah-isme/unitime-api/internal/dto"
	"github.com/noah-isme/unitime-api/internal/models"
	appErrors "github.com/noah-isme/unitime-api/pkg/errors"
)

type sessionRepository interface {
	List(ctx context.Context, filter models.SessionFilter) ([]models.Session, error)
	FindByID(ctx context.Context, id string) (*models.Session, error)
	Create(ctx context.Context, session *models.Session) error
	BulkCreate(ctx context.Context, sessions []models.Session) error
	Update(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, id string) error
}

type timetableToucher interface {
	Touch(ctx context.Context, id string) error
}

// SessionService authors the sessions of department timetables. Every write is
// checked against the availability oracle before it is stored.
type SessionService struct {
	repo       sessionRepository
	scopes     *ScopeLoader
	timetables timetableToucher
	mapper     *dto.SessionMapper
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewSessionService instantiates SessionService.
func NewSessionService(repo sessionRepository, scopes *ScopeLoader, timetables timetableToucher, mapper *dto.SessionMapper, validate *validator.Validate, logger *zap.Logger) *SessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if mapper == nil {
		mapper = dto.NewSessionMapper(nil, models.FiveDayWeek)
	}
	return &SessionService{repo: repo, scopes: scopes, timetables: timetables, mapper: mapper, validator: validate, logger: logger}
}

// List returns the sessions of a timetable.
func (s *SessionService) List(ctx context.Context, timetableID string, q dto.SessionQuery) ([]dto.SessionView, error) {
	timetable, err := s.scopes.Timetable(ctx, timetableID)
	if err != nil {
		return nil, err
	}
	mapper := s.mapper.WithDays(timetable.Weekdays())
	filter := models.SessionFilter{
		TimetableIDs: []string{timetable.ID},
		LecturerID:   q.LecturerID,
		VenueID:      q.VenueID,
		GroupID:      q.GroupID,
	}
	if q.Day != "" {
		day, err := mapper.Day(q.Day, nil)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
		}
		filter.Day = &day
	}
	sessions, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	return mapper.Views(sessions), nil
}

// Create adds a session to a draft timetable.
func (s *SessionService) Create(ctx context.Context, timetableID string, req dto.CreateSessionRequest) (*dto.SessionView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}
	timetable, existing, err := s.loadDraft(ctx, timetableID)
	if err != nil {
		return nil, err
	}
	mapper := s.mapper.WithDays(timetable.Weekdays())
	session, err := mapper.ToSession(timetable.ID, req.SessionInput)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	if session.ID == "" {
		session.ID = uuid.NewString()
	} else if err := s.ensureIDFree(ctx, session.ID); err != nil {
		return nil, err
	}

	clashes := conflict.NewOracle(existing).Clashes(session)
	if len(clashes) > 0 && !req.AllowConflict {
		return nil, s.conflictError(mapper, clashes)
	}
	session.HasConflict = len(clashes) > 0

	if err := s.repo.Create(ctx, &session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session")
	}
	s.touch(ctx, timetable.ID)
	view := mapper.View(session)
	return &view, nil
}

// Update rewrites a session. The session itself is excluded from the
// availability check so that it never blocks its own move.
func (s *SessionService) Update(ctx context.Context, timetableID, sessionID string, req dto.CreateSessionRequest) (*dto.SessionView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}
	timetable, existing, err := s.loadDraft(ctx, timetableID)
	if err != nil {
		return nil, err
	}
	current, err := s.find(ctx, timetable.ID, sessionID)
	if err != nil {
		return nil, err
	}

	mapper := s.mapper.WithDays(timetable.Weekdays())
	req.ID = current.ID
	session, err := mapper.ToSession(timetable.ID, req.SessionInput)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	session.CreatedAt = current.CreatedAt

	clashes := conflict.NewOracle(existing).Clashes(session)
	if len(clashes) > 0 && !req.AllowConflict {
		return nil, s.conflictError(mapper, clashes)
	}
	session.HasConflict = len(clashes) > 0

	if err := s.repo.Update(ctx, &session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update session")
	}
	s.touch(ctx, timetable.ID)
	view := mapper.View(session)
	return &view, nil
}

// Delete removes a session from a draft timetable.
func (s *SessionService) Delete(ctx context.Context, timetableID, sessionID string) error {
	timetable, _, err := s.loadDraft(ctx, timetableID)
	if err != nil {
		return err
	}
	if _, err := s.find(ctx, timetable.ID, sessionID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete session")
	}
	s.touch(ctx, timetable.ID)
	return nil
}

// BulkCreate adds several sessions in one transaction. Each item is checked
// against the stored sessions and the items accepted before it. Without
// PartialOnError the first rejected item fails the whole request.
func (s *SessionService) BulkCreate(ctx context.Context, timetableID string, req dto.BulkCreateSessionsRequest) (*dto.BulkCreateSessionsResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk session payload")
	}
	timetable, existing, err := s.loadDraft(ctx, timetableID)
	if err != nil {
		return nil, err
	}
	mapper := s.mapper.WithDays(timetable.Weekdays())

	pool := existing
	var toCreate []models.Session
	var failed []dto.BulkFailure
	for i, item := range req.Sessions {
		session, failure, err := s.bulkItem(ctx, mapper, timetable.ID, i, item, pool, req.AllowConflict)
		if err != nil {
			return nil, err
		}
		if failure != nil {
			if !req.PartialOnError {
				return nil, s.bulkError(*failure)
			}
			failed = append(failed, *failure)
			continue
		}
		toCreate = append(toCreate, session)
		pool = append(pool, session)
	}

	if len(toCreate) > 0 {
		if err := s.repo.BulkCreate(ctx, toCreate); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to bulk create sessions")
		}
		s.touch(ctx, timetable.ID)
	}
	s.logger.Info("sessions bulk created",
		zap.String("timetable_id", timetable.ID),
		zap.Int("created", len(toCreate)),
		zap.Int("failed", len(failed)),
	)
	return &dto.BulkCreateSessionsResult{Created: mapper.Views(toCreate), Failed: failed}, nil
}

// bulkItem returns either an accepted session or the reason the item was
// rejected. The error is reserved for storage failures.
func (s *SessionService) bulkItem(ctx context.Context, mapper *dto.SessionMapper, timetableID string, index int, item dto.SessionInput, pool []models.Session, allowConflict bool) (models.Session, *dto.BulkFailure, error) {
	session, err := mapper.ToSession(timetableID, item)
	if err != nil {
		return models.Session{}, &dto.BulkFailure{Index: index, Message: err.Error()}, nil
	}
	if session.ID == "" {
		session.ID = uuid.NewString()
	} else if containsSession(pool, session.ID) {
		return models.Session{}, &dto.BulkFailure{Index: index, Message: fmt.Sprintf("session id %s already exists", session.ID)}, nil
	} else if err := s.ensureIDFree(ctx, session.ID); err != nil {
		if appErrors.FromError(err).Code != appErrors.ErrConflict.Code {
			return models.Session{}, nil, err
		}
		return models.Session{}, &dto.BulkFailure{Index: index, Message: fmt.Sprintf("session id %s already exists", session.ID)}, nil
	}
	clashes := conflict.NewOracle(pool).Clashes(session)
	if len(clashes) > 0 && !allowConflict {
		return models.Session{}, &dto.BulkFailure{Index: index, Message: appErrors.ErrSessionConflict.Message, Clashes: mapper.Clashes(clashes)}, nil
	}
	session.HasConflict = len(clashes) > 0
	return session, nil, nil
}

func (s *SessionService) bulkError(failure dto.BulkFailure) error {
	base := appErrors.ErrValidation
	if len(failure.Clashes) > 0 {
		base = appErrors.ErrSessionConflict
	}
	err := appErrors.Clone(base, fmt.Sprintf("session %d: %s", failure.Index, failure.Message))
	return appErrors.WithDetails(err, []dto.BulkFailure{failure})
}

// Availability answers whether one resource is free at a time within the
// timetable.
func (s *SessionService) Availability(ctx context.Context, timetableID string, q dto.AvailabilityQuery) (*dto.AvailabilityResponse, error) {
	if err := s.validator.Struct(q); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability query")
	}
	timetables, sessions, err := s.scopes.Load(ctx, DepartmentScope(timetableID))
	if err != nil {
		return nil, err
	}
	mapper := s.mapper.WithDays(timetables[0].Weekdays())
	day, err := mapper.Day(q.Day, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	slot, err := mapper.Slot(q.TimeSlot, q.StartSlot, q.EndSlot)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	resource, ok := conflict.ParseResource(q.Resource)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown resource "+q.Resource)
	}

	// A probe carrying only the queried resource clashes on nothing else.
	probe := models.Session{ID: q.ExcludingSessionID, Day: day, StartSlot: slot.Start, EndSlot: slot.End}
	switch resource {
	case conflict.ResourceVenue:
		probe.VenueID = q.ResourceID
	case conflict.ResourceLecturer:
		probe.LecturerID = q.ResourceID
	case conflict.ResourceGroup:
		probe.GroupID = q.ResourceID
	}
	oracle := conflict.NewOracle(sessions)
	return &dto.AvailabilityResponse{
		Available: oracle.IsAvailable(resource, q.ResourceID, day, slot, q.ExcludingSessionID),
		Clashes:   mapper.Clashes(oracle.Clashes(probe)),
	}, nil
}

// loadDraft returns an editable timetable and its current sessions.
func (s *SessionService) loadDraft(ctx context.Context, timetableID string) (*models.Timetable, []models.Session, error) {
	timetables, sessions, err := s.scopes.Load(ctx, DepartmentScope(timetableID))
	if err != nil {
		return nil, nil, err
	}
	timetable := timetables[0]
	if timetable.Status != models.TimetableStatusDraft {
		return nil, nil, appErrors.Clone(appErrors.ErrTimetableLocked, "timetable is "+string(timetable.Status))
	}
	return &timetable, sessions, nil
}

func (s *SessionService) find(ctx context.Context, timetableID, sessionID string) (*models.Session, error) {
	session, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	if session.TimetableID != timetableID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
	}
	return session, nil
}

// ensureIDFree rejects client supplied ids that are already stored, in this
// timetable or any other.
func (s *SessionService) ensureIDFree(ctx context.Context, id string) error {
	_, err := s.repo.FindByID(ctx, id)
	switch {
	case err == nil:
		return appErrors.Clone(appErrors.ErrConflict, "session id already exists")
	case errors.Is(err, sql.ErrNoRows):
		return nil
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check session id")
	}
}

func (s *SessionService) conflictError(mapper *dto.SessionMapper, clashes []conflict.Clash) error {
	return appErrors.WithDetails(appErrors.ErrSessionConflict, mapper.Clashes(clashes))
}

func (s *SessionService) touch(ctx context.Context, timetableID string) {
	if s.timetables == nil {
		return
	}
	if err := s.timetables.Touch(ctx, timetableID); err != nil {
		s.logger.Warn("timetable not touched", zap.String("timetable_id", timetableID), zap.Error(err))
	}
}

func containsSession(sessions []models.Session, id string) bool {
	for _, s := range sessions {
		if s.ID == id {
			return true
		}
	}
	return false
}
