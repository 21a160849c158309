package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/informs-api/internal/dto"
	"github.com/noah-isme/informs-api/pkg/jobs"
)

const reportWarmupJob = "report_warmup"

type reportViews interface {
	Conflicts(ctx context.Context, versionID *int64) (*dto.ConflictReport, bool, error)
	Analytics(ctx context.Context, versionID *int64) (*dto.Analytics, bool, error)
}

// ReportWarmer rebuilds the default version's cached reports in the
// background after they are invalidated.
type ReportWarmer struct {
	reports reportViews
	queue   *jobs.Queue
	logger  *zap.Logger
}

// NewReportWarmer wires a warmer over a dedicated job queue.
func NewReportWarmer(reports reportViews, workers int, logger *zap.Logger) *ReportWarmer {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &ReportWarmer{reports: reports, logger: logger}
	w.queue = jobs.NewQueue("report-warmup", w.handle, jobs.QueueConfig{
		Workers:    workers,
		BufferSize: 1,
		MaxRetries: 2,
		Logger:     logger,
	})
	return w
}

// Start launches the workers.
func (w *ReportWarmer) Start(ctx context.Context) {
	w.queue.Start(ctx)
}

// Stop waits for the current warm-up to finish.
func (w *ReportWarmer) Stop() {
	w.queue.Stop()
}

// Trigger schedules a warm-up. Triggers arriving while one is already queued collapse into it.
func (w *ReportWarmer) Trigger() {
	err := w.queue.TryEnqueue(jobs.Job{Type: reportWarmupJob, Key: reportWarmupJob})
	if err != nil && !errors.Is(err, jobs.ErrQueueFull) {
		w.logger.Debug("report warm-up skipped", zap.Error(err))
	}
}

func (w *ReportWarmer) handle(ctx context.Context, _ jobs.Job) error {
	report, _, err := w.reports.Conflicts(ctx, nil)
	if err != nil {
		return err
	}
	if _, _, err := w.reports.Analytics(ctx, nil); err != nil {
		return err
	}
	w.logger.Debug("reports warmed", zap.Int64("version_id", report.VersionID), zap.Int("conflicts", report.TotalConflicts))
	return nil
}
