package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/informs-api/internal/models"
	appErrors "github.com/noah-isme/informs-api/pkg/errors"
)

type roomRepository interface {
	List(ctx context.Context) ([]models.Room, error)
	FindByID(ctx context.Context, id int64) (*models.Room, error)
	Create(ctx context.Context, room *models.Room) error
	Update(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, id int64) error
}

// RoomRequest captures the writable fields of a room.
type RoomRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Capacity int    `json:"capacity" validate:"required,gt=0"`
	Building string `json:"building" validate:"required,max=200"`
}

// RoomService handles room workflows.
type RoomService struct {
	repo      roomRepository
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRoomService creates a new room service.
func NewRoomService(repo roomRepository, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *RoomService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoomService{repo: repo, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// List returns every room.
func (s *RoomService) List(ctx context.Context) ([]models.Room, error) {
	rooms, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list rooms")
	}
	return rooms, nil
}

// Get returns a room by id.
func (s *RoomService) Get(ctx context.Context, id int64) (*models.Room, error) {
	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "room not found", "failed to load room")
	}
	return room, nil
}

// Create adds a room.
func (s *RoomService) Create(ctx context.Context, req RoomRequest) (*models.Room, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid room payload")
	}
	room := &models.Room{
		Name:     strings.TrimSpace(req.Name),
		Capacity: req.Capacity,
		Building: strings.TrimSpace(req.Building),
	}
	if err := s.repo.Create(ctx, room); err != nil {
		return nil, appErrors.Internal(err, "failed to create room")
	}
	s.afterMutation(ctx, "room.create")
	return room, nil
}

// Update replaces a room's fields.
func (s *RoomService) Update(ctx context.Context, id int64, req RoomRequest) (*models.Room, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid room payload")
	}
	room, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	room.Name = strings.TrimSpace(req.Name)
	room.Capacity = req.Capacity
	room.Building = strings.TrimSpace(req.Building)
	if err := s.repo.Update(ctx, room); err != nil {
		return nil, lookupError(err, "room not found", "failed to update room")
	}
	s.afterMutation(ctx, "room.update")
	return room, nil
}

// Delete removes a room. Schedules pointing at it are kept and drop out of the reports.
func (s *RoomService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "room not found", "failed to delete room")
	}
	s.afterMutation(ctx, "room.delete")
	s.logger.Info("room deleted", zap.Int64("room_id", id))
	return nil
}

func (s *RoomService) afterMutation(ctx context.Context, operation string) {
	s.metrics.RecordMutation(operation)
	s.cache.InvalidateReports(ctx)
}
