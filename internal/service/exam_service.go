package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/informs-api/internal/models"
	appErrors "github.com/noah-isme/informs-api/pkg/errors"
)

type examRepository interface {
	List(ctx context.Context) ([]models.Exam, error)
	FindByID(ctx context.Context, id int64) (*models.Exam, error)
	Create(ctx context.Context, exam *models.Exam) error
	Update(ctx context.Context, exam *models.Exam) error
	Delete(ctx context.Context, id int64) error
}

// ExamRequest captures the writable fields of an exam.
type ExamRequest struct {
	CourseName      string `json:"course_name" validate:"required,max=200"`
	StudentCount    int    `json:"student_count" validate:"required,gt=0"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,gt=0"`
}

// ExamService handles exam workflows.
type ExamService struct {
	repo      examRepository
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewExamService creates a new exam service.
func NewExamService(repo examRepository, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ExamService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExamService{repo: repo, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// List returns every exam.
func (s *ExamService) List(ctx context.Context) ([]models.Exam, error) {
	exams, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list exams")
	}
	return exams, nil
}

// Get returns an exam by id.
func (s *ExamService) Get(ctx context.Context, id int64) (*models.Exam, error) {
	exam, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "exam not found", "failed to load exam")
	}
	return exam, nil
}

// Create adds an exam.
func (s *ExamService) Create(ctx context.Context, req ExamRequest) (*models.Exam, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid exam payload")
	}
	exam := &models.Exam{
		CourseName:      strings.TrimSpace(req.CourseName),
		StudentCount:    req.StudentCount,
		DurationMinutes: req.DurationMinutes,
	}
	if err := s.repo.Create(ctx, exam); err != nil {
		return nil, appErrors.Internal(err, "failed to create exam")
	}
	s.afterMutation(ctx, "exam.create")
	return exam, nil
}

// Update replaces an exam's fields.
func (s *ExamService) Update(ctx context.Context, id int64, req ExamRequest) (*models.Exam, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid exam payload")
	}
	exam, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	exam.CourseName = strings.TrimSpace(req.CourseName)
	exam.StudentCount = req.StudentCount
	exam.DurationMinutes = req.DurationMinutes
	if err := s.repo.Update(ctx, exam); err != nil {
		return nil, lookupError(err, "exam not found", "failed to update exam")
	}
	s.afterMutation(ctx, "exam.update")
	return exam, nil
}

// Delete removes an exam.
func (s *ExamService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "exam not found", "failed to delete exam")
	}
	s.afterMutation(ctx, "exam.delete")
	s.logger.Info("exam deleted", zap.Int64("exam_id", id))
	return nil
}

func (s *ExamService) afterMutation(ctx context.Context, operation string) {
	s.metrics.RecordMutation(operation)
	s.cache.InvalidateReports(ctx)
}
