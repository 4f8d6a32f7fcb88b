package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/unitime-api/pkg/errors"
)

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheKey addresses one cached read model. Keys sharing a namespace are
// dropped together on invalidation.
type CacheKey struct {
	Namespace string
	Name      string
}

// String renders the redis key, e.g. "catalog:venues".
func (k CacheKey) String() string {
	return k.Namespace + ":" + k.Name
}

// Pattern matches every key of the namespace.
func (k CacheKey) Pattern() string {
	return k.Namespace + ":*"
}

// CacheService is the cache-aside layer for catalog reads. Timetable sessions
// and conflict reports are never cached: they must reflect the latest edit.
type CacheService struct {
	repo       CacheRepository
	metrics    *MetricsService
	defaultTTL time.Duration
	logger     *zap.Logger
	enabled    bool
}

// NewCacheService constructs a cache service. A disabled or repo-less service
// turns every call into a miss.
func NewCacheService(repo CacheRepository, metrics *MetricsService, defaultTTL time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if defaultTTL <= 0 {
		defaultTTL = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{repo: repo, metrics: metrics, defaultTTL: defaultTTL, logger: logger, enabled: enabled}
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

// Get loads key into dest and reports whether it was a hit. Repository
// failures count as misses and are returned.
func (s *CacheService) Get(ctx context.Context, key CacheKey, dest interface{}) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	start := time.Now()
	err := s.repo.Get(ctx, key.String(), dest)
	s.metrics.RecordCacheOperation(err == nil, time.Since(start))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, appErrors.ErrCacheMiss):
		s.logger.Debug("cache miss", zap.String("namespace", key.Namespace), zap.String("key", key.String()))
		return false, nil
	default:
		s.logger.Warn("cache get failed", zap.String("key", key.String()), zap.Error(err))
		return false, err
	}
}

// Set stores value under key. ttl <= 0 uses the default TTL.
func (s *CacheService) Set(ctx context.Context, key CacheKey, value interface{}, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	start := time.Now()
	err := s.repo.Set(ctx, key.String(), value, ttl)
	s.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key.String()), zap.Error(err))
		return err
	}
	s.logger.Debug("cache stored", zap.String("key", key.String()), zap.Duration("ttl", ttl))
	return nil
}

// Invalidate drops every key in the namespace of key.
func (s *CacheService) Invalidate(ctx context.Context, key CacheKey) error {
	if !s.Enabled() {
		return nil
	}
	if err := s.repo.DeleteByPattern(ctx, key.Pattern()); err != nil {
		s.logger.Warn("cache invalidate failed", zap.String("pattern", key.Pattern()), zap.Error(err))
		return err
	}
	return nil
}
