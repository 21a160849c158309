package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/informs-api/pkg/errors"
)

const reportCachePattern = "reports:*"

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheService orchestrates cache operations and related metrics.
// A nil *CacheService is valid and behaves as a disabled cache.
type CacheService struct {
	repo       CacheRepository
	metrics    *MetricsService
	defaultTTL time.Duration
	logger     *zap.Logger
	enabled    bool
	onReports  []func()
	generation atomic.Uint64
}

// NewCacheService constructs a cache service.
func NewCacheService(repo CacheRepository, metrics *MetricsService, defaultTTL time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{repo: repo, metrics: metrics, defaultTTL: defaultTTL, logger: logger, enabled: enabled}
}

// ReportCacheKey names the cache entry of a derived view for one version
// within one report generation.
func ReportCacheKey(generation uint64, versionID int64, view string) string {
	return fmt.Sprintf("reports:g%d:v%d:%s", generation, versionID, view)
}

// ReportKey returns the cache key of a report view under the current
// generation. Take the key before loading the data it will hold: a write
// landing in between moves the generation on, so the stale result is stored
// under a key no later read asks for.
func (s *CacheService) ReportKey(versionID int64, view string) string {
	if s == nil {
		return ReportCacheKey(0, versionID, view)
	}
	return ReportCacheKey(s.generation.Load(), versionID, view)
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

// Get attempts to retrieve a cached entry. It returns true when the cache was hit.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	start := time.Now()
	err := s.repo.Get(ctx, key, dest)
	duration := time.Since(start)
	if err != nil {
		s.metrics.RecordCacheOperation(false, duration)
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return false, nil
		}
		s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return false, err
	}
	s.metrics.RecordCacheOperation(true, duration)
	return true, nil
}

// Set stores the value in cache.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	start := time.Now()
	err := s.repo.Set(ctx, key, value, ttl)
	s.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return err
}

// Invalidate removes cached values for the provided pattern.
func (s *CacheService) Invalidate(ctx context.Context, pattern string) error {
	if !s.Enabled() {
		return nil
	}
	if err := s.repo.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("cache invalidate failed", zap.String("pattern", pattern), zap.Error(err))
		return err
	}
	return nil
}

// OnReportsInvalidated registers fn to run after every successful report
// invalidation. Register hooks before serving traffic.
func (s *CacheService) OnReportsInvalidated(fn func()) {
	if s == nil || fn == nil {
		return
	}
	s.onReports = append(s.onReports, fn)
}

// InvalidateReports drops every cached report. Failures are logged only, so a
// flaky cache never fails the write that triggered it.
func (s *CacheService) InvalidateReports(ctx context.Context) {
	if s == nil {
		return
	}
	s.generation.Add(1)
	if !s.Enabled() {
		return
	}
	if err := s.Invalidate(ctx, reportCachePattern); err != nil {
		return
	}
	for _, fn := range s.onReports {
		fn()
	}
}
