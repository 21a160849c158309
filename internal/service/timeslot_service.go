package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/informs-api/internal/models"
	appErrors "github.com/noah-isme/informs-api/pkg/errors"
)

type timeslotRepository interface {
	List(ctx context.Context) ([]models.TimeSlot, error)
	FindByID(ctx context.Context, id int64) (*models.TimeSlot, error)
	Create(ctx context.Context, slot *models.TimeSlot) error
	Update(ctx context.Context, slot *models.TimeSlot) error
	Delete(ctx context.Context, id int64) error
}

// TimeSlotRequest captures a timeslot. Values are stored as given.
type TimeSlotRequest struct {
	StartTime string `json:"start_time" validate:"required,max=32"`
	EndTime   string `json:"end_time" validate:"required,max=32"`
	Date      string `json:"date" validate:"required,max=32"`
}

// TimeSlotService handles timeslot workflows.
type TimeSlotService struct {
	repo      timeslotRepository
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTimeSlotService creates a new timeslot service.
func NewTimeSlotService(repo timeslotRepository, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *TimeSlotService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimeSlotService{repo: repo, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// List returns every timeslot.
func (s *TimeSlotService) List(ctx context.Context) ([]models.TimeSlot, error) {
	slots, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list timeslots")
	}
	return slots, nil
}

// Get returns a timeslot by id.
func (s *TimeSlotService) Get(ctx context.Context, id int64) (*models.TimeSlot, error) {
	slot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "timeslot not found", "failed to load timeslot")
	}
	return slot, nil
}

// Create adds a timeslot.
func (s *TimeSlotService) Create(ctx context.Context, req TimeSlotRequest) (*models.TimeSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid timeslot payload")
	}
	slot := &models.TimeSlot{
		StartTime: strings.TrimSpace(req.StartTime),
		EndTime:   strings.TrimSpace(req.EndTime),
		Date:      strings.TrimSpace(req.Date),
	}
	if err := s.repo.Create(ctx, slot); err != nil {
		return nil, appErrors.Internal(err, "failed to create timeslot")
	}
	s.afterMutation(ctx, "timeslot.create")
	return slot, nil
}

// Update replaces a timeslot's fields.
func (s *TimeSlotService) Update(ctx context.Context, id int64, req TimeSlotRequest) (*models.TimeSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid timeslot payload")
	}
	slot, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	slot.StartTime = strings.TrimSpace(req.StartTime)
	slot.EndTime = strings.TrimSpace(req.EndTime)
	slot.Date = strings.TrimSpace(req.Date)
	if err := s.repo.Update(ctx, slot); err != nil {
		return nil, lookupError(err, "timeslot not found", "failed to update timeslot")
	}
	s.afterMutation(ctx, "timeslot.update")
	return slot, nil
}

// Delete removes a timeslot.
func (s *TimeSlotService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "timeslot not found", "failed to delete timeslot")
	}
	s.afterMutation(ctx, "timeslot.delete")
	return nil
}

func (s *TimeSlotService) afterMutation(ctx context.Context, operation string) {
	s.metrics.RecordMutation(operation)
	s.cache.InvalidateReports(ctx)
}
