package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/informs-api/internal/dto"
	"github.com/noah-isme/informs-api/internal/models"
	appErrors "github.com/noah-isme/informs-api/pkg/errors"
)

const (
	reportViewConflicts = "conflicts"
	reportViewAnalytics = "analytics"
)

type snapshotLoader interface {
	Snapshot(ctx context.Context, versionID int64) (*models.ScheduleSnapshot, error)
}

// ReportService serves the conflict and analytics views with cache integration.
type ReportService struct {
	repo     snapshotLoader
	resolver versionResolver
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewReportService constructs the service.
func NewReportService(repo snapshotLoader, resolver versionResolver, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{repo: repo, resolver: resolver, cache: cache, metrics: metrics, logger: logger}
}

// Conflicts returns the conflict report of the resolved version. The boolean indicates whether data originated from cache.
func (s *ReportService) Conflicts(ctx context.Context, versionID *int64) (*dto.ConflictReport, bool, error) {
	resolved, err := s.resolver.Resolve(ctx, versionID)
	if err != nil {
		return nil, false, err
	}
	key := s.cache.ReportKey(resolved, reportViewConflicts)

	var cached dto.ConflictReport
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, true, nil
	}

	snapshot, err := s.load(ctx, resolved)
	if err != nil {
		return nil, false, err
	}
	start := time.Now()
	report := DetectConflicts(snapshot)
	s.metrics.ObserveReport(reportViewConflicts, time.Since(start))
	s.metrics.SetConflictCount(resolved, report.TotalConflicts)

	_ = s.cache.Set(ctx, key, report, 0)
	return &report, false, nil
}

// Analytics returns the analytics summary of the resolved version. The boolean indicates whether data originated from cache.
func (s *ReportService) Analytics(ctx context.Context, versionID *int64) (*dto.Analytics, bool, error) {
	resolved, err := s.resolver.Resolve(ctx, versionID)
	if err != nil {
		return nil, false, err
	}
	key := s.cache.ReportKey(resolved, reportViewAnalytics)

	var cached dto.Analytics
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, true, nil
	}

	snapshot, err := s.load(ctx, resolved)
	if err != nil {
		return nil, false, err
	}
	start := time.Now()
	analytics := BuildAnalytics(snapshot)
	s.metrics.ObserveReport(reportViewAnalytics, time.Since(start))
	s.metrics.SetConflictCount(resolved, analytics.ConflictCount)

	_ = s.cache.Set(ctx, key, analytics, 0)
	return &analytics, false, nil
}

func (s *ReportService) load(ctx context.Context, versionID int64) (*models.ScheduleSnapshot, error) {
	start := time.Now()
	snapshot, err := s.repo.Snapshot(ctx, versionID)
	s.metrics.ObserveDBQuery("report_snapshot", time.Since(start))
	if err != nil {
		s.logger.Error("load report snapshot", zap.Int64("version_id", versionID), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to load schedule data")
	}
	return snapshot, nil
}
