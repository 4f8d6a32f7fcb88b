package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type brokenCacheRepo struct{}

func (brokenCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	return errors.New("connection refused")
}

func (brokenCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return errors.New("connection refused")
}

func (brokenCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	return errors.New("connection refused")
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "catalog:venues", venueCatalogCacheKey.String())
	assert.Equal(t, "catalog:*", venueCatalogCacheKey.Pattern())
}

func TestCacheServiceDisabledIsAlwaysMiss(t *testing.T) {
	cacheRepo := &memCacheRepo{}
	svc := NewCacheService(cacheRepo, nil, 0, nil, false)

	require.NoError(t, svc.Set(context.Background(), venueCatalogCacheKey, []string{"A101"}, 0))
	var out []string
	hit, err := svc.Get(context.Background(), venueCatalogCacheKey, &out)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Empty(t, cacheRepo.data)

	var nilSvc *CacheService
	assert.False(t, nilSvc.Enabled())
}

func TestCacheServiceRepositoryFailureCountsAsMiss(t *testing.T) {
	metrics := NewMetricsService()
	svc := NewCacheService(brokenCacheRepo{}, metrics, time.Minute, zap.NewNop(), true)

	var out []string
	hit, err := svc.Get(context.Background(), venueCatalogCacheKey, &out)
	require.Error(t, err)
	assert.False(t, hit)
	assert.Equal(t, uint64(1), metrics.Snapshot().CacheMisses)

	assert.Error(t, svc.Set(context.Background(), venueCatalogCacheKey, out, 0))
	assert.Error(t, svc.Invalidate(context.Background(), venueCatalogCacheKey))
}
