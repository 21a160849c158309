package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/informs-api/internal/dto"
	"github.com/noah-isme/informs-api/internal/models"
	appErrors "github.com/noah-isme/informs-api/pkg/errors"
)

type scheduleRepository interface {
	ListByVersion(ctx context.Context, versionID int64) ([]models.Schedule, error)
	FindByID(ctx context.Context, id int64) (*models.Schedule, error)
	ExistsForExam(ctx context.Context, versionID, examID, excludeID int64) (bool, error)
	Create(ctx context.Context, schedule *models.Schedule) error
	Update(ctx context.Context, schedule *models.Schedule) error
	Delete(ctx context.Context, id int64) error
	ReplaceForVersion(ctx context.Context, versionID int64, schedules []models.Schedule) error
}

type versionResolver interface {
	Resolve(ctx context.Context, requested *int64) (int64, error)
}

type versionFinder interface {
	FindByID(ctx context.Context, id int64) (*models.ScheduleVersion, error)
}

type examReader interface {
	List(ctx context.Context) ([]models.Exam, error)
	FindByID(ctx context.Context, id int64) (*models.Exam, error)
}

type roomReader interface {
	List(ctx context.Context) ([]models.Room, error)
	FindByID(ctx context.Context, id int64) (*models.Room, error)
}

type timeslotReader interface {
	List(ctx context.Context) ([]models.TimeSlot, error)
	FindByID(ctx context.Context, id int64) (*models.TimeSlot, error)
}

type studentReader interface {
	FindByID(ctx context.Context, id int64) (*models.Student, error)
}

type enrollmentReader interface {
	ListByStudent(ctx context.Context, studentID int64) ([]models.StudentExam, error)
}

// ScheduleRequest places an exam in a room and timeslot.
type ScheduleRequest struct {
	ExamID     int64 `json:"exam_id" validate:"required,gt=0"`
	RoomID     int64 `json:"room_id" validate:"required,gt=0"`
	TimeslotID int64 `json:"timeslot_id" validate:"required,gt=0"`
}

// CreateScheduleRequest adds a schedule. A nil VersionID resolves to the default version.
type CreateScheduleRequest struct {
	VersionID *int64 `json:"version_id" validate:"omitempty,gt=0"`
	ScheduleRequest
}

// ScheduleServiceParams groups constructor dependencies.
type ScheduleServiceParams struct {
	Schedules   scheduleRepository
	Versions    versionFinder
	Resolver    versionResolver
	Exams       examReader
	Rooms       roomReader
	Timeslots   timeslotReader
	Students    studentReader
	Enrollments enrollmentReader
	Cache       *CacheService
	Metrics     *MetricsService
	Validator   *validator.Validate
	Logger      *zap.Logger
}

// ScheduleService manages schedule assignments within versions.
type ScheduleService struct {
	schedules   scheduleRepository
	versions    versionFinder
	resolver    versionResolver
	exams       examReader
	rooms       roomReader
	timeslots   timeslotReader
	students    studentReader
	enrollments enrollmentReader
	cache       *CacheService
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewScheduleService constructs the service.
func NewScheduleService(params ScheduleServiceParams) *ScheduleService {
	if params.Validator == nil {
		params.Validator = validator.New()
	}
	if params.Logger == nil {
		params.Logger = zap.NewNop()
	}
	return &ScheduleService{
		schedules:   params.Schedules,
		versions:    params.Versions,
		resolver:    params.Resolver,
		exams:       params.Exams,
		rooms:       params.Rooms,
		timeslots:   params.Timeslots,
		students:    params.Students,
		enrollments: params.Enrollments,
		cache:       params.Cache,
		metrics:     params.Metrics,
		validator:   params.Validator,
		logger:      params.Logger,
	}
}

// List returns the schedules of the resolved version.
func (s *ScheduleService) List(ctx context.Context, versionID *int64) ([]models.Schedule, error) {
	resolved, err := s.resolver.Resolve(ctx, versionID)
	if err != nil {
		return nil, err
	}
	schedules, err := s.schedules.ListByVersion(ctx, resolved)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list schedules")
	}
	return schedules, nil
}

// Get returns a schedule by id.
func (s *ScheduleService) Get(ctx context.Context, id int64) (*models.Schedule, error) {
	schedule, err := s.schedules.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "schedule not found", "failed to load schedule")
	}
	return schedule, nil
}

// Create adds a schedule to the requested or resolved version.
func (s *ScheduleService) Create(ctx context.Context, req CreateScheduleRequest) (*models.Schedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid schedule payload")
	}
	versionID, err := s.resolver.Resolve(ctx, req.VersionID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureVersion(ctx, versionID); err != nil {
		return nil, err
	}
	if err := s.ensureReferences(ctx, req.ScheduleRequest); err != nil {
		return nil, err
	}
	if err := s.ensureExamFree(ctx, versionID, req.ExamID, 0); err != nil {
		return nil, err
	}

	schedule := &models.Schedule{
		VersionID:  versionID,
		ExamID:     req.ExamID,
		RoomID:     req.RoomID,
		TimeslotID: req.TimeslotID,
	}
	if err := s.schedules.Create(ctx, schedule); err != nil {
		return nil, mutationError(err, "failed to create schedule")
	}
	s.afterMutation(ctx, "schedule.create")
	return schedule, nil
}

// Update moves a schedule to another exam, room or timeslot within its version.
func (s *ScheduleService) Update(ctx context.Context, id int64, req ScheduleRequest) (*models.Schedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid schedule payload")
	}
	schedule, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureReferences(ctx, req); err != nil {
		return nil, err
	}
	if err := s.ensureExamFree(ctx, schedule.VersionID, req.ExamID, schedule.ID); err != nil {
		return nil, err
	}

	schedule.ExamID = req.ExamID
	schedule.RoomID = req.RoomID
	schedule.TimeslotID = req.TimeslotID
	if err := s.schedules.Update(ctx, schedule); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, mutationError(err, "failed to update schedule")
	}
	s.afterMutation(ctx, "schedule.update")
	return schedule, nil
}

// Delete removes a schedule.
func (s *ScheduleService) Delete(ctx context.Context, id int64) error {
	if err := s.schedules.Delete(ctx, id); err != nil {
		return lookupError(err, "schedule not found", "failed to delete schedule")
	}
	s.afterMutation(ctx, "schedule.delete")
	return nil
}

// BulkReplace swaps every schedule of the resolved version for items, in order.
// Nothing is written unless every item is valid.
func (s *ScheduleService) BulkReplace(ctx context.Context, versionID *int64, items []ScheduleRequest) ([]models.Schedule, error) {
	resolved, err := s.resolver.Resolve(ctx, versionID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureVersion(ctx, resolved); err != nil {
		return nil, err
	}

	seen := make(map[int64]int, len(items))
	for i, item := range items {
		if err := s.validator.Struct(item); err != nil {
			return nil, appErrors.Validation(err, fmt.Sprintf("invalid schedule at index %d", i))
		}
		if first, dup := seen[item.ExamID]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("exam %d appears at index %d and %d", item.ExamID, first, i))
		}
		seen[item.ExamID] = i
	}

	if len(items) > 0 {
		if err := s.ensureBulkReferences(ctx, items); err != nil {
			return nil, err
		}
	}

	schedules := make([]models.Schedule, len(items))
	for i, item := range items {
		schedules[i] = models.Schedule{VersionID: resolved, ExamID: item.ExamID, RoomID: item.RoomID, TimeslotID: item.TimeslotID}
	}
	if err := s.schedules.ReplaceForVersion(ctx, resolved, schedules); err != nil {
		return nil, mutationError(err, "failed to replace schedules")
	}
	s.afterMutation(ctx, "schedule.bulk_replace")
	s.logger.Info("schedules replaced", zap.Int64("version_id", resolved), zap.Int("count", len(schedules)))
	return schedules, nil
}

// Detailed returns the resolved version's schedules joined with exam, room and timeslot.
func (s *ScheduleService) Detailed(ctx context.Context, versionID *int64) ([]dto.DetailedSchedule, error) {
	resolved, err := s.resolver.Resolve(ctx, versionID)
	if err != nil {
		return nil, err
	}
	schedules, err := s.schedules.ListByVersion(ctx, resolved)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list schedules")
	}
	joiner, err := s.loadJoiner(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.DetailedSchedule, 0, len(schedules))
	for _, sched := range schedules {
		rows = append(rows, joiner.detail(sched))
	}
	return rows, nil
}

// StudentSchedule lists the resolved version's schedules for the exams a student is enrolled in.
func (s *ScheduleService) StudentSchedule(ctx context.Context, studentID int64, versionID *int64) (*dto.StudentSchedule, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, lookupError(err, "student not found", "failed to load student")
	}
	enrollments, err := s.enrollments.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list enrollments")
	}
	resolved, err := s.resolver.Resolve(ctx, versionID)
	if err != nil {
		return nil, err
	}
	detailed, err := s.Detailed(ctx, &resolved)
	if err != nil {
		return nil, err
	}

	enrolled := make(map[int64]struct{}, len(enrollments))
	examIDs := make([]int64, 0, len(enrollments))
	for _, e := range enrollments {
		if _, ok := enrolled[e.ExamID]; ok {
			continue
		}
		enrolled[e.ExamID] = struct{}{}
		examIDs = append(examIDs, e.ExamID)
	}

	rows := []dto.DetailedSchedule{}
	for _, row := range detailed {
		if _, ok := enrolled[row.ExamID]; ok {
			rows = append(rows, row)
		}
	}

	return &dto.StudentSchedule{
		Student:         *student,
		VersionID:       resolved,
		Schedules:       rows,
		EnrolledExamIDs: examIDs,
	}, nil
}

func (s *ScheduleService) ensureVersion(ctx context.Context, versionID int64) error {
	if _, err := s.versions.FindByID(ctx, versionID); err != nil {
		return lookupError(err, "schedule version not found", "failed to load schedule version")
	}
	return nil
}

func (s *ScheduleService) ensureReferences(ctx context.Context, req ScheduleRequest) error {
	if _, err := s.exams.FindByID(ctx, req.ExamID); err != nil {
		return lookupError(err, "exam not found", "failed to load exam")
	}
	if _, err := s.rooms.FindByID(ctx, req.RoomID); err != nil {
		return lookupError(err, "room not found", "failed to load room")
	}
	if _, err := s.timeslots.FindByID(ctx, req.TimeslotID); err != nil {
		return lookupError(err, "timeslot not found", "failed to load timeslot")
	}
	return nil
}

func (s *ScheduleService) ensureBulkReferences(ctx context.Context, items []ScheduleRequest) error {
	joiner, err := s.loadJoiner(ctx)
	if err != nil {
		return err
	}
	for i, item := range items {
		if _, ok := joiner.exams[item.ExamID]; !ok {
			return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("exam not found: %d (index %d)", item.ExamID, i))
		}
		if _, ok := joiner.rooms[item.RoomID]; !ok {
			return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("room not found: %d (index %d)", item.RoomID, i))
		}
		if _, ok := joiner.timeslots[item.TimeslotID]; !ok {
			return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("timeslot not found: %d (index %d)", item.TimeslotID, i))
		}
	}
	return nil
}

func (s *ScheduleService) ensureExamFree(ctx context.Context, versionID, examID, excludeID int64) error {
	exists, err := s.schedules.ExistsForExam(ctx, versionID, examID, excludeID)
	if err != nil {
		return appErrors.Internal(err, "failed to check schedule exam")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "exam already scheduled in this version")
	}
	return nil
}

func (s *ScheduleService) loadJoiner(ctx context.Context) (*scheduleJoiner, error) {
	exams, err := s.exams.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list exams")
	}
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list rooms")
	}
	timeslots, err := s.timeslots.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list timeslots")
	}
	return newScheduleJoiner(exams, rooms, timeslots), nil
}

func (s *ScheduleService) afterMutation(ctx context.Context, operation string) {
	s.metrics.RecordMutation(operation)
	s.cache.InvalidateReports(ctx)
}

// scheduleJoiner resolves schedule references against loaded entities.
type scheduleJoiner struct {
	exams     map[int64]models.Exam
	rooms     map[int64]models.Room
	timeslots map[int64]models.TimeSlot
}

func newScheduleJoiner(exams []models.Exam, rooms []models.Room, timeslots []models.TimeSlot) *scheduleJoiner {
	j := &scheduleJoiner{
		exams:     make(map[int64]models.Exam, len(exams)),
		rooms:     make(map[int64]models.Room, len(rooms)),
		timeslots: make(map[int64]models.TimeSlot, len(timeslots)),
	}
	for _, e := range exams {
		j.exams[e.ID] = e
	}
	for _, r := range rooms {
		j.rooms[r.ID] = r
	}
	for _, t := range timeslots {
		j.timeslots[t.ID] = t
	}
	return j
}

func (j *scheduleJoiner) detail(s models.Schedule) dto.DetailedSchedule {
	row := dto.DetailedSchedule{
		ID:         s.ID,
		VersionID:  s.VersionID,
		ExamID:     s.ExamID,
		RoomID:     s.RoomID,
		TimeslotID: s.TimeslotID,
	}
	if exam, ok := j.exams[s.ExamID]; ok {
		row.Exam = &exam
	}
	if room, ok := j.rooms[s.RoomID]; ok {
		row.Room = &room
	}
	if slot, ok := j.timeslots[s.TimeslotID]; ok {
		row.Timeslot = &slot
	}
	return row
}

// lookupError maps sql.ErrNoRows to a not-found error and anything else to an internal one.
func lookupError(err error, notFound, failure string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	return appErrors.Internal(err, failure)
}

// mutationError keeps typed errors raised by repositories and wraps the rest.
func mutationError(err error, failure string) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return appErrors.Internal(err, failure)
}
