package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/unitime-api/internal/conflict"
	"github.com/noah-isme/unitime-api/internal/dto"
	"github.com/noah-isme/unitime-api/internal/models"
	appErrors "github.com/noah-isme/unitime-api/pkg/errors"
)

var venueCatalogCacheKey = CacheKey{Namespace: "catalog", Name: "venues"}

type venueRepository interface {
	List(ctx context.Context) ([]models.Venue, error)
	Create(ctx context.Context, venue *models.Venue) error
}

// VenueCatalogService serves the venue catalog and free-venue lookups.
type VenueCatalogService struct {
	repo      venueRepository
	scopes    *ScopeLoader
	cache     *CacheService
	cacheTTL  time.Duration
	mapper    *dto.SessionMapper
	validator *validator.Validate
	logger    *zap.Logger
}

// NewVenueCatalogService constructs a VenueCatalogService. cache may be nil.
func NewVenueCatalogService(repo venueRepository, scopes *ScopeLoader, cache *CacheService, cacheTTL time.Duration, mapper *dto.SessionMapper, validate *validator.Validate, logger *zap.Logger) *VenueCatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if mapper == nil {
		mapper = dto.NewSessionMapper(nil, models.FiveDayWeek)
	}
	return &VenueCatalogService{
		repo:      repo,
		scopes:    scopes,
		cache:     cache,
		cacheTTL:  cacheTTL,
		mapper:    mapper,
		validator: validate,
		logger:    logger,
	}
}

// List returns every venue, served from cache when possible.
func (s *VenueCatalogService) List(ctx context.Context) ([]models.Venue, error) {
	var cached []models.Venue
	if hit, err := s.cache.Get(ctx, venueCatalogCacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	venues, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list venues")
	}
	if venues == nil {
		venues = make([]models.Venue, 0)
	}
	if err := s.cache.Set(ctx, venueCatalogCacheKey, venues, s.cacheTTL); err != nil {
		s.logger.Debug("venue catalog not cached", zap.Error(err))
	}
	return venues, nil
}

// Catalog returns the indexed venue catalog.
func (s *VenueCatalogService) Catalog(ctx context.Context) (*models.VenueCatalog, error) {
	venues, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return models.NewVenueCatalog(venues), nil
}

// Create adds a venue. Names are unique across the catalog.
func (s *VenueCatalogService) Create(ctx context.Context, req dto.CreateVenueRequest) (*models.Venue, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid venue payload")
	}
	catalog, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if _, exists := catalog.ByName(name); exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "venue name already exists")
	}

	venue := models.Venue{Name: name, Type: strings.TrimSpace(req.Type), Capacity: req.Capacity}
	if err := s.repo.Create(ctx, &venue); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create venue")
	}
	if err := s.cache.Invalidate(ctx, venueCatalogCacheKey); err != nil {
		s.logger.Warn("venue catalog cache not invalidated", zap.Error(err))
	}
	return &venue, nil
}

// FreeVenues lists catalog venues with no booking in the requested window.
// Bookings come from the master view plus, when q.TimetableID is set, that
// timetable's own sessions.
func (s *VenueCatalogService) FreeVenues(ctx context.Context, q dto.FreeVenuesQuery) ([]models.Venue, error) {
	if err := s.validator.Struct(q); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid free venue query")
	}
	day, err := s.mapper.Day(q.Day, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	slot, err := s.mapper.Slot(q.TimeSlot, q.StartSlot, q.EndSlot)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	_, bookings, err := s.scopes.Load(ctx, MasterScope())
	if err != nil {
		return nil, err
	}
	if q.TimetableID != "" {
		_, own, err := s.scopes.Load(ctx, DepartmentScope(q.TimetableID))
		if err != nil {
			return nil, err
		}
		bookings = mergeSessions(bookings, own)
	}

	catalog, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	free := conflict.NewOracle(bookings).FreeVenues(catalog, conflict.VenueQuery{
		Day:                day,
		Slot:               slot,
		Type:               q.Type,
		MinCapacity:        q.MinCapacity,
		ExcludingSessionID: q.ExcludingSessionID,
	})
	if free == nil {
		free = make([]models.Venue, 0)
	}
	return free, nil
}

// mergeSessions appends extra to base, skipping ids already present.
func mergeSessions(base, extra []models.Session) []models.Session {
	seen := make(map[string]struct{}, len(base))
	for _, s := range base {
		seen[s.ID] = struct{}{}
	}
	for _, s := range extra {
		if _, ok := seen[s.ID]; ok {
			continue
		}
		base = append(base, s)
	}
	return base
}
