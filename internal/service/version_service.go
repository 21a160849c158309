package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/informs-api/internal/models"
	appErrors "github.com/noah-isme/informs-api/pkg/errors"
)

type versionRepository interface {
	List(ctx context.Context) ([]models.ScheduleVersion, error)
	FindByID(ctx context.Context, id int64) (*models.ScheduleVersion, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, version *models.ScheduleVersion) error
	Update(ctx context.Context, version *models.ScheduleVersion) error
	Delete(ctx context.Context, id int64) (int64, error)
	Duplicate(ctx context.Context, sourceID int64, version *models.ScheduleVersion) (int64, error)
}

// CreateVersionRequest names a new schedule version.
type CreateVersionRequest struct {
	Name   string `json:"name" validate:"required,max=200"`
	Active *bool  `json:"active"`
}

// UpdateVersionRequest renames a version and optionally toggles its active flag.
type UpdateVersionRequest struct {
	Name   string `json:"name" validate:"required,max=200"`
	Active *bool  `json:"active"`
}

// DuplicateVersionRequest names the copy produced by Duplicate.
type DuplicateVersionRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// VersionService manages schedule versions.
type VersionService struct {
	repo      versionRepository
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewVersionService constructs the service.
func NewVersionService(repo versionRepository, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *VersionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VersionService{repo: repo, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// List returns all versions.
func (s *VersionService) List(ctx context.Context) ([]models.ScheduleVersion, error) {
	versions, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list schedule versions")
	}
	return versions, nil
}

// Get returns a version by id.
func (s *VersionService) Get(ctx context.Context, id int64) (*models.ScheduleVersion, error) {
	version, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule version not found")
		}
		return nil, appErrors.Internal(err, "failed to load schedule version")
	}
	return version, nil
}

// Create stores a version. The first version of an empty store is always active.
func (s *VersionService) Create(ctx context.Context, req CreateVersionRequest) (*models.ScheduleVersion, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid schedule version payload")
	}
	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to count schedule versions")
	}

	version := &models.ScheduleVersion{
		Name:   strings.TrimSpace(req.Name),
		Active: count == 0 || (req.Active != nil && *req.Active),
	}
	if err := s.repo.Create(ctx, version); err != nil {
		return nil, appErrors.Internal(err, "failed to create schedule version")
	}
	s.afterMutation(ctx, "version.create")
	s.logger.Info("schedule version created", zap.Int64("version_id", version.ID), zap.Bool("active", version.Active))
	return version, nil
}

// Update renames a version. Activating it deactivates every other version.
func (s *VersionService) Update(ctx context.Context, id int64, req UpdateVersionRequest) (*models.ScheduleVersion, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid schedule version payload")
	}
	version, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	version.Name = strings.TrimSpace(req.Name)
	if req.Active != nil {
		version.Active = *req.Active
	}
	if err := s.repo.Update(ctx, version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule version not found")
		}
		return nil, appErrors.Internal(err, "failed to update schedule version")
	}
	s.afterMutation(ctx, "version.update")
	return version, nil
}

// Delete removes a version and all of its schedules.
func (s *VersionService) Delete(ctx context.Context, id int64) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule version not found")
		}
		return appErrors.Internal(err, "failed to delete schedule version")
	}
	s.afterMutation(ctx, "version.delete")
	s.logger.Info("schedule version deleted", zap.Int64("version_id", id), zap.Int64("schedules_removed", removed))
	return nil
}

// Duplicate copies every schedule of sourceID into a new inactive version.
func (s *VersionService) Duplicate(ctx context.Context, sourceID int64, req DuplicateVersionRequest) (*models.ScheduleVersion, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid schedule version payload")
	}
	if _, err := s.Get(ctx, sourceID); err != nil {
		return nil, err
	}

	version := &models.ScheduleVersion{Name: strings.TrimSpace(req.Name)}
	copied, err := s.repo.Duplicate(ctx, sourceID, version)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to duplicate schedule version")
	}
	s.afterMutation(ctx, "version.duplicate")
	s.logger.Info("schedule version duplicated",
		zap.Int64("source_version_id", sourceID),
		zap.Int64("version_id", version.ID),
		zap.Int64("schedules_copied", copied),
	)
	return version, nil
}

// EnsureDefaultVersion creates the active default version when none exists.
// The boolean reports whether a version was created.
func (s *VersionService) EnsureDefaultVersion(ctx context.Context) (bool, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return false, appErrors.Internal(err, "failed to count schedule versions")
	}
	if count > 0 {
		return false, nil
	}
	version := &models.ScheduleVersion{Name: models.DefaultVersionName, Active: true}
	if err := s.repo.Create(ctx, version); err != nil {
		return false, appErrors.Internal(err, "failed to create default schedule version")
	}
	s.logger.Info("default schedule version created", zap.Int64("version_id", version.ID))
	return true, nil
}

func (s *VersionService) afterMutation(ctx context.Context, operation string) {
	s.metrics.RecordMutation(operation)
	s.cache.InvalidateReports(ctx)
}
