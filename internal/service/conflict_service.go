package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/unitime-api/internal/conflict"
	"github.com/noah-isme/unitime-api/internal/dto"
	"github.com/noah-isme/unitime-api/internal/models"
	appErrors "github.com/noah-isme/unitime-api/pkg/errors"
)

type resolutionStore interface {
	SaveResolution(ctx context.Context, moved []models.Session, flags map[string]bool) error
	UpdateConflictFlags(ctx context.Context, flags map[string]bool) error
}

type venueCatalogSource interface {
	Catalog(ctx context.Context) (*models.VenueCatalog, error)
}

// ConflictServiceConfig tunes detection per scope.
type ConflictServiceConfig struct {
	DepartmentSeverity conflict.SeverityTable
	MasterSeverity     conflict.SeverityTable
	MasterDays         models.WeekdaySet
	PlaceholderVenue   string
	AutoResolveMode    conflict.AutoResolveMode
	MaxIterations      int
}

// ConflictService runs detection and resolution over persisted timetables.
type ConflictService struct {
	scopes    *ScopeLoader
	store     resolutionStore
	venues    venueCatalogSource
	mapper    *dto.SessionMapper
	cfg       ConflictServiceConfig
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewConflictService constructs a ConflictService.
func NewConflictService(scopes *ScopeLoader, store resolutionStore, venues venueCatalogSource, mapper *dto.SessionMapper, cfg ConflictServiceConfig, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ConflictService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if mapper == nil {
		mapper = dto.NewSessionMapper(nil, models.FiveDayWeek)
	}
	if cfg.DepartmentSeverity == nil {
		cfg.DepartmentSeverity = conflict.DepartmentSeverity()
	}
	if cfg.MasterSeverity == nil {
		cfg.MasterSeverity = conflict.MasterSeverity()
	}
	if cfg.PlaceholderVenue == "" {
		cfg.PlaceholderVenue = conflict.DefaultPlaceholderVenue
	}
	if cfg.AutoResolveMode == "" {
		cfg.AutoResolveMode = conflict.ModeSinglePass
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = conflict.DefaultMaxIterations
	}
	cfg.MasterDays = cfg.MasterDays.Normalize()
	return &ConflictService{
		scopes:    scopes,
		store:     store,
		venues:    venues,
		mapper:    mapper,
		cfg:       cfg,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// loadedScope is a workspace over a scope together with the snapshot it was
// built from, so that changes can be persisted as a diff.
type loadedScope struct {
	scope     Scope
	mapper    *dto.SessionMapper
	workspace *conflict.Workspace
	original  []models.Session
	// ownsFlags is set when this scope is the authority for has_conflict: the
	// master view, or a department timetable that is still a draft. Submitted
	// sessions carry the flags of the master scan.
	ownsFlags bool
}

// Detect runs one detection pass. Flags are stored only when the scope owns
// them, so a department view of a submitted timetable never overwrites what
// the master scan found across departments.
func (s *ConflictService) Detect(ctx context.Context, scope Scope) (*dto.ConflictReport, error) {
	loaded, err := s.load(ctx, scope, false)
	if err != nil {
		return nil, err
	}
	if loaded.ownsFlags {
		flags := changedFlags(loaded.original, loaded.workspace.Sessions())
		if err := s.store.UpdateConflictFlags(ctx, flags); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store conflict flags")
		}
	}
	report := s.report(loaded, loaded.workspace.Conflicts())
	return &report, nil
}

// Resolve applies one candidate resolution chosen from the pass identified by
// req.Revision, then persists the moved session and the fresh flags.
func (s *ConflictService) Resolve(ctx context.Context, scope Scope, req dto.ResolveConflictRequest) (*dto.ResolveConflictResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid resolution payload")
	}
	loaded, err := s.load(ctx, scope, true)
	if err != nil {
		return nil, err
	}
	if err := s.checkRevision(loaded, req.Revision); err != nil {
		return nil, err
	}

	action := s.actionOf(loaded, req.ConflictID, req.ResolutionID)
	result, err := loaded.workspace.Apply(req.ConflictID, req.ResolutionID)
	if err != nil {
		mapped := mapResolutionError(err)
		s.metrics.RecordResolution(action, appErrors.FromError(mapped).Code)
		return nil, mapped
	}

	after := loaded.workspace.Sessions()
	if err := s.store.SaveResolution(ctx, []models.Session{result.Session}, changedFlags(loaded.original, after)); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save resolution")
	}
	s.metrics.RecordResolution(action, "applied")
	s.logger.Info("conflict resolved",
		zap.String("scope", scope.Kind),
		zap.String("timetable_id", scope.TimetableID),
		zap.Int("conflict_id", req.ConflictID),
		zap.Int("resolution_id", req.ResolutionID),
		zap.String("session_id", result.Session.ID),
		zap.Int("remaining", len(result.Conflicts)),
	)

	return &dto.ResolveConflictResponse{
		Session: loaded.mapper.View(result.Session),
		Report:  s.report(loaded, result.Conflicts),
	}, nil
}

// AutoResolve applies first candidates across the whole pass identified by
// req.Revision. Successful fixes are kept even when later ones fail.
func (s *ConflictService) AutoResolve(ctx context.Context, scope Scope, req dto.AutoResolveRequest) (*dto.AutoResolveResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid auto-resolve payload")
	}
	mode := s.cfg.AutoResolveMode
	if req.Mode != "" {
		parsed, ok := conflict.ParseAutoResolveMode(req.Mode)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown auto-resolve mode")
		}
		mode = parsed
	}
	maxIterations := s.cfg.MaxIterations
	if req.MaxIterations > 0 {
		maxIterations = req.MaxIterations
	}

	loaded, err := s.load(ctx, scope, true)
	if err != nil {
		return nil, err
	}
	if err := s.checkRevision(loaded, req.Revision); err != nil {
		return nil, err
	}

	run := loaded.workspace.AutoResolve(mode, maxIterations)
	after := loaded.workspace.Sessions()
	moved := movedSessions(loaded.original, after)
	flags := changedFlags(loaded.original, after)
	if len(moved) > 0 || len(flags) > 0 {
		if err := s.store.SaveResolution(ctx, moved, flags); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save auto-resolution")
		}
	}
	for _, applied := range run.Applied {
		s.metrics.RecordResolution(applied.Action, "applied")
	}
	for _, skipped := range run.Skipped {
		s.metrics.RecordResolution(skipped.Action, "skipped")
	}
	s.logger.Info("auto-resolve finished",
		zap.String("scope", scope.Kind),
		zap.String("timetable_id", scope.TimetableID),
		zap.String("mode", string(run.Mode)),
		zap.Int("applied", len(run.Applied)),
		zap.Int("skipped", len(run.Skipped)),
		zap.Int("remaining", len(run.Remaining)),
	)

	return &dto.AutoResolveResponse{
		Mode:       run.Mode,
		Iterations: run.Iterations,
		Applied:    run.Applied,
		Skipped:    run.Skipped,
		Report:     s.report(loaded, run.Remaining),
	}, nil
}

// load builds a workspace over the scope. Department scopes must still be
// drafts when the caller intends to change them.
func (s *ConflictService) load(ctx context.Context, scope Scope, forWrite bool) (*loadedScope, error) {
	timetables, sessions, err := s.scopes.Load(ctx, scope)
	if err != nil {
		return nil, err
	}

	severity := s.cfg.MasterSeverity
	days := s.cfg.MasterDays
	ownsFlags := true
	if !scope.IsMaster() {
		timetable := timetables[0]
		ownsFlags = timetable.Status == models.TimetableStatusDraft
		if forWrite && !ownsFlags {
			return nil, appErrors.Clone(appErrors.ErrTimetableLocked, "timetable is "+string(timetable.Status)+"; resolve it from the master view")
		}
		severity = s.cfg.DepartmentSeverity
		days = timetable.Weekdays()
	}
	calendar := conflict.Calendar{
		Periods:    s.mapper.Periods().Len(),
		Days:       days,
		Timetables: make(map[string]models.WeekdaySet, len(timetables)),
	}
	for _, t := range timetables {
		calendar.Timetables[t.ID] = t.Weekdays()
	}

	var catalog *models.VenueCatalog
	if s.venues != nil {
		catalog, err = s.venues.Catalog(ctx)
		if err != nil {
			return nil, err
		}
	}

	mapper := s.mapper.WithDays(days)
	for i := range sessions {
		sessions[i] = mapper.Decorate(sessions[i])
	}
	original := make([]models.Session, len(sessions))
	copy(original, sessions)

	proposer := conflict.NewProposer(catalog, days,
		conflict.WithPlaceholderVenue(s.cfg.PlaceholderVenue),
		conflict.WithCalendar(calendar),
	)
	detector := conflict.NewDetector(conflict.WithSeverity(severity), conflict.WithProposer(proposer))
	applier := conflict.NewApplier(catalog, s.cfg.PlaceholderVenue).WithCalendar(calendar)

	start := time.Now()
	workspace := conflict.NewWorkspace(detector, applier, sessions)
	s.metrics.ObserveDetection(scope.Kind, time.Since(start), workspace.Conflicts())

	return &loadedScope{scope: scope, mapper: mapper, workspace: workspace, original: original, ownsFlags: ownsFlags}, nil
}

func (s *ConflictService) checkRevision(loaded *loadedScope, revision string) error {
	current := loaded.workspace.Revision()
	if revision != current {
		return appErrors.WithDetails(appErrors.ErrStaleConflict, map[string]string{"revision": current})
	}
	return nil
}

func (s *ConflictService) report(loaded *loadedScope, conflicts []models.Conflict) dto.ConflictReport {
	if conflicts == nil {
		conflicts = make([]models.Conflict, 0)
	}
	return dto.ConflictReport{
		Scope:       loaded.scope.Kind,
		TimetableID: loaded.scope.TimetableID,
		Revision:    loaded.workspace.Revision(),
		Conflicts:   loaded.mapper.Conflicts(conflicts),
		Summary:     dto.Summarise(conflicts),
	}
}

func (s *ConflictService) actionOf(loaded *loadedScope, conflictID, resolutionID int) models.ResolutionAction {
	for _, c := range loaded.workspace.Conflicts() {
		if c.ID != conflictID {
			continue
		}
		if r, ok := c.Resolution(resolutionID); ok {
			return r.Action
		}
	}
	return "unknown"
}

// mapResolutionError turns applier sentinels into API errors.
func mapResolutionError(err error) error {
	switch {
	case errors.Is(err, conflict.ErrConflictNotFound):
		return appErrors.Wrap(err, appErrors.ErrConflictNotFound.Code, appErrors.ErrConflictNotFound.Status, appErrors.ErrConflictNotFound.Message)
	case errors.Is(err, conflict.ErrResolutionNotFound):
		return appErrors.Wrap(err, appErrors.ErrResolutionNotFound.Code, appErrors.ErrResolutionNotFound.Status, appErrors.ErrResolutionNotFound.Message)
	case errors.Is(err, conflict.ErrUnsupportedAction):
		return appErrors.Wrap(err, appErrors.ErrResolutionNotSupported.Code, appErrors.ErrResolutionNotSupported.Status, appErrors.ErrResolutionNotSupported.Message)
	case errors.Is(err, conflict.ErrInvalidResolution):
		return appErrors.Wrap(err, appErrors.ErrInvalidResolution.Code, appErrors.ErrInvalidResolution.Status, err.Error())
	case errors.Is(err, conflict.ErrSessionNotFound):
		return appErrors.Wrap(err, appErrors.ErrStaleConflict.Code, appErrors.ErrStaleConflict.Status, appErrors.ErrStaleConflict.Message)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to apply resolution")
}

// changedFlags returns the has_conflict values that differ from the stored ones.
func changedFlags(before, after []models.Session) map[string]bool {
	stored := make(map[string]bool, len(before))
	for _, s := range before {
		stored[s.ID] = s.HasConflict
	}
	flags := make(map[string]bool)
	for _, s := range after {
		if prev, ok := stored[s.ID]; !ok || prev != s.HasConflict {
			flags[s.ID] = s.HasConflict
		}
	}
	return flags
}

// movedSessions returns sessions whose venue or placement changed.
func movedSessions(before, after []models.Session) []models.Session {
	stored := make(map[string]models.Session, len(before))
	for _, s := range before {
		stored[s.ID] = s
	}
	var moved []models.Session
	for _, s := range after {
		prev, ok := stored[s.ID]
		if !ok {
			continue
		}
		if prev.VenueID != s.VenueID || prev.Venue != s.Venue || prev.Day != s.Day || prev.StartSlot != s.StartSlot || prev.EndSlot != s.EndSlot {
			moved = append(moved, s)
		}
	}
	return moved
}
