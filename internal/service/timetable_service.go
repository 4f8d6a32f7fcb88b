package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/unitime-api/internal/dto"
	"github.com/noah-isme/unitime-api/internal/models"
	appErrors "github.com/noah-isme/unitime-api/pkg/errors"
)

type timetableRepository interface {
	List(ctx context.Context, filter models.TimetableFilter) ([]models.Timetable, int, error)
	FindByID(ctx context.Context, id string) (*models.Timetable, error)
	Create(ctx context.Context, timetable *models.Timetable) error
	UpdateStatus(ctx context.Context, id string, status models.TimetableStatus) error
	Delete(ctx context.Context, id string) error
}

type scanScheduler interface {
	Schedule(timetableID, reason string) (string, error)
}

// TimetableService manages the lifecycle of department timetables.
type TimetableService struct {
	repo        timetableRepository
	scans       scanScheduler
	defaultDays models.WeekdaySet
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewTimetableService instantiates TimetableService. scans may be nil when
// master scanning is disabled.
func NewTimetableService(repo timetableRepository, scans scanScheduler, defaultDays models.WeekdaySet, validate *validator.Validate, logger *zap.Logger) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{repo: repo, scans: scans, defaultDays: defaultDays.Normalize(), validator: validate, logger: logger}
}

// List returns timetables with pagination metadata.
func (s *TimetableService) List(ctx context.Context, q dto.TimetableQuery) ([]models.Timetable, *models.Pagination, error) {
	if err := s.validator.Struct(q); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable query")
	}
	filter := models.TimetableFilter{
		DepartmentID: q.DepartmentID,
		Status:       models.TimetableStatus(strings.ToUpper(q.Status)),
		Page:         q.Page,
		PageSize:     q.PageSize,
	}
	timetables, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetables")
	}
	if timetables == nil {
		timetables = make([]models.Timetable, 0)
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return timetables, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get loads a timetable.
func (s *TimetableService) Get(ctx context.Context, id string) (*models.Timetable, error) {
	return s.get(ctx, id)
}

// Create registers a new draft timetable.
func (s *TimetableService) Create(ctx context.Context, req dto.CreateTimetableRequest) (*models.Timetable, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable payload")
	}
	days := s.defaultDays
	if req.DaysPerWeek != 0 {
		days = models.WeekdaySet(req.DaysPerWeek).Normalize()
	}
	timetable := models.Timetable{
		Name:         strings.TrimSpace(req.Name),
		DepartmentID: strings.TrimSpace(req.DepartmentID),
		Period:       strings.TrimSpace(req.Period),
		Status:       models.TimetableStatusDraft,
		Version:      1,
		DaysPerWeek:  int(days),
	}
	if err := s.repo.Create(ctx, &timetable); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create timetable")
	}
	return &timetable, nil
}

// Submit hands a draft over to the master view and schedules a master scan.
// A scan that cannot be queued is logged; the submission still stands.
func (s *TimetableService) Submit(ctx context.Context, id string) (*dto.SubmitTimetableResponse, error) {
	timetable, err := s.transition(ctx, id, models.TimetableStatusDraft, models.TimetableStatusSubmitted)
	if err != nil {
		return nil, err
	}
	resp := &dto.SubmitTimetableResponse{Timetable: *timetable}
	if s.scans != nil {
		jobID, err := s.scans.Schedule(timetable.ID, "submitted")
		if err != nil {
			s.logger.Warn("master scan not scheduled", zap.String("timetable_id", timetable.ID), zap.Error(err))
		} else {
			resp.ScanJobID = jobID
		}
	}
	return resp, nil
}

// Publish freezes a submitted timetable.
func (s *TimetableService) Publish(ctx context.Context, id string) (*models.Timetable, error) {
	return s.transition(ctx, id, models.TimetableStatusSubmitted, models.TimetableStatusPublished)
}

// Delete removes a timetable together with its sessions.
func (s *TimetableService) Delete(ctx context.Context, id string) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete timetable")
	}
	return nil
}

func (s *TimetableService) transition(ctx context.Context, id string, from, to models.TimetableStatus) (*models.Timetable, error) {
	timetable, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if timetable.Status != from {
		return nil, appErrors.Clone(appErrors.ErrTimetableLocked, "timetable is "+string(timetable.Status)+", expected "+string(from))
	}
	if err := s.repo.UpdateStatus(ctx, id, to); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update timetable status")
	}
	s.logger.Info("timetable status changed",
		zap.String("timetable_id", id),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	return s.get(ctx, id)
}

func (s *TimetableService) get(ctx context.Context, id string) (*models.Timetable, error) {
	return findTimetable(ctx, s.repo, id)
}
