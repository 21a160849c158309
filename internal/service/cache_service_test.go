package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/informs-api/pkg/errors"
)

type memoryCacheRepo struct {
	items     map[string][]byte
	getErr    error
	patterns  []string
	deleteErr error
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{items: map[string][]byte{}}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	if m.getErr != nil {
		return m.getErr
	}
	raw, ok := m.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.items[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.patterns = append(m.patterns, pattern)
	if m.deleteErr != nil {
		return m.deleteErr
	}
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.items {
		if strings.HasPrefix(key, prefix) {
			delete(m.items, key)
		}
	}
	return nil
}

func TestCacheServiceRoundTrip(t *testing.T) {
	repo := newMemoryCacheRepo()
	cache := NewCacheService(repo, NewMetricsService(), time.Minute, nil, true)
	ctx := context.Background()

	var dest map[string]int
	hit, err := cache.Get(ctx, "reports:v1:analytics", &dest)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, cache.Set(ctx, "reports:v1:analytics", map[string]int{"total": 3}, 0))
	hit, err = cache.Get(ctx, "reports:v1:analytics", &dest)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 3, dest["total"])

	cache.InvalidateReports(ctx)
	assert.Equal(t, []string{"reports:*"}, repo.patterns)
	assert.Empty(t, repo.items)
}

func TestCacheServiceDisabledAndNil(t *testing.T) {
	repo := newMemoryCacheRepo()
	disabled := NewCacheService(repo, nil, 0, nil, false)
	require.NoError(t, disabled.Set(context.Background(), "k", 1, 0))
	assert.Empty(t, repo.items)

	var nilCache *CacheService
	hit, err := nilCache.Get(context.Background(), "k", new(int))
	require.NoError(t, err)
	assert.False(t, hit)
	nilCache.InvalidateReports(context.Background())
}

func TestCacheServiceGetErrorSurfaces(t *testing.T) {
	repo := newMemoryCacheRepo()
	repo.getErr = errors.New("connection refused")
	cache := NewCacheService(repo, nil, 0, nil, true)

	_, err := cache.Get(context.Background(), "k", new(int))
	assert.Error(t, err)
}

func TestReportCacheKey(t *testing.T) {
	assert.Equal(t, "reports:g3:v7:conflicts", ReportCacheKey(3, 7, "conflicts"))
}

func TestCacheServiceReportKeyMovesOnInvalidation(t *testing.T) {
	cache := NewCacheService(newMemoryCacheRepo(), nil, 0, nil, true)
	before := cache.ReportKey(1, "conflicts")

	cache.InvalidateReports(context.Background())

	after := cache.ReportKey(1, "conflicts")
	assert.NotEqual(t, before, after)
	assert.Equal(t, "reports:g1:v1:conflicts", after)

	var nilCache *CacheService
	assert.Equal(t, "reports:g0:v1:conflicts", nilCache.ReportKey(1, "conflicts"))
}
