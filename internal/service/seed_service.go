package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/informs-api/internal/models"
	appErrors "github.com/noah-isme/informs-api/pkg/errors"
)

type seedRepository interface {
	HasRooms(ctx context.Context) (bool, error)
	Apply(ctx context.Context, data models.SeedDataset) error
}

// SeedService fills an empty store with demonstration data.
type SeedService struct {
	repo   seedRepository
	cache  *CacheService
	logger *zap.Logger
}

// NewSeedService constructs the service.
func NewSeedService(repo seedRepository, cache *CacheService, logger *zap.Logger) *SeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeedService{repo: repo, cache: cache, logger: logger}
}

// Seed writes DefaultSeedDataset unless rooms already exist. It reports whether data was written.
func (s *SeedService) Seed(ctx context.Context) (bool, error) {
	seeded, err := s.repo.HasRooms(ctx)
	if err != nil {
		return false, appErrors.Internal(err, "failed to inspect store")
	}
	if seeded {
		s.logger.Debug("seed skipped, store not empty")
		return false, nil
	}

	data := DefaultSeedDataset()
	if err := s.repo.Apply(ctx, data); err != nil {
		return false, appErrors.Internal(err, "failed to seed store")
	}
	s.cache.InvalidateReports(ctx)
	s.logger.Info("store seeded",
		zap.Int("rooms", len(data.Rooms)),
		zap.Int("exams", len(data.Exams)),
		zap.Int("timeslots", len(data.TimeSlots)),
		zap.Int("students", len(data.Students)),
		zap.Int("schedules", len(data.Schedules)),
	)
	return true, nil
}

var (
	seedDates = []string{
		"2026-05-11", "2026-05-12", "2026-05-13", "2026-05-14", "2026-05-15",
		"2026-05-18", "2026-05-19", "2026-05-20", "2026-05-21", "2026-05-22",
	}
	seedPeriods = [][2]string{
		{"08:00", "10:00"},
		{"10:30", "12:30"},
		{"13:30", "15:30"},
		{"16:00", "18:00"},
	}
)

// DefaultSeedDataset returns two exam weeks of rooms, exams, students and a
// default schedule that contains conflicts and a capacity overrun.
func DefaultSeedDataset() models.SeedDataset {
	rooms := []models.Room{
		{Name: "Room 101", Capacity: 120, Building: "Science Hall"},
		{Name: "Room 202", Capacity: 80, Building: "Science Hall"},
		{Name: "Auditorium A", Capacity: 300, Building: "Main Building"},
		{Name: "Room 305", Capacity: 50, Building: "Engineering"},
		{Name: "Lab 110", Capacity: 40, Building: "Engineering"},
		{Name: "Room 401", Capacity: 200, Building: "Liberal Arts"},
		{Name: "Room 150", Capacity: 60, Building: "Business School"},
		{Name: "Lecture Hall B", Capacity: 250, Building: "Main Building"},
	}

	exams := []models.Exam{
		{CourseName: "CS 101 - Intro to Programming", StudentCount: 110, DurationMinutes: 120},
		{CourseName: "MATH 201 - Linear Algebra", StudentCount: 75, DurationMinutes: 90},
		{CourseName: "PHYS 101 - Physics I", StudentCount: 200, DurationMinutes: 120},
		{CourseName: "ENG 102 - English Composition", StudentCount: 45, DurationMinutes: 90},
		{CourseName: "CHEM 301 - Organic Chemistry", StudentCount: 35, DurationMinutes: 120},
		{CourseName: "BUS 201 - Accounting", StudentCount: 55, DurationMinutes: 90},
		{CourseName: "CS 301 - Algorithms", StudentCount: 60, DurationMinutes: 120},
		{CourseName: "MATH 101 - Calculus I", StudentCount: 180, DurationMinutes: 120},
		{CourseName: "HIST 101 - World History", StudentCount: 150, DurationMinutes: 90},
		{CourseName: "BIO 201 - Genetics", StudentCount: 70, DurationMinutes: 90},
	}

	slots := make([]models.TimeSlot, 0, len(seedDates)*len(seedPeriods))
	for _, date := range seedDates {
		for _, p := range seedPeriods {
			slots = append(slots, models.TimeSlot{StartTime: p[0], EndTime: p[1], Date: date})
		}
	}

	roster := []struct {
		name  string
		login string
		exams []int
	}{
		{"Alice Chen", "achen", []int{1, 2, 8}},
		{"Bob Martinez", "bmart", []int{1, 3, 7}},
		{"Carol Williams", "cwill", []int{2, 4, 9}},
		{"David Kim", "dkim", []int{3, 5, 10}},
		{"Emma Johnson", "ejohn", []int{1, 6, 8}},
		{"Frank Brown", "fbrown", []int{2, 7, 9}},
		{"Grace Lee", "glee", []int{3, 4, 8}},
		{"Henry Davis", "hdavis", []int{5, 6, 10}},
		{"Ivy Wilson", "iwilson", []int{1, 4, 7}},
		{"Jack Taylor", "jtaylor", []int{2, 3, 5}},
		{"Karen Moore", "kmoore", []int{6, 8, 9}},
		{"Liam Anderson", "lander", []int{1, 5, 9}},
		{"Mia Thomas", "mthomas", []int{3, 7, 10}},
		{"Noah Jackson", "njack", []int{2, 6, 8}},
		{"Olivia White", "owhite", []int{4, 5, 7}},
		{"Pete Harris", "pharris", []int{1, 3, 9}},
		{"Quinn Clark", "qclark", []int{2, 8, 10}},
		{"Ruby Lewis", "rlewis", []int{4, 6, 7}},
		{"Sam Robinson", "srobin", []int{1, 5, 10}},
		{"Tina Walker", "twalker", []int{3, 6, 9}},
	}
	students := make([]models.SeedStudent, 0, len(roster))
	for _, r := range roster {
		students = append(students, models.SeedStudent{
			Student:  models.Student{Name: r.name, Email: fmt.Sprintf("%s@univ.edu", r.login)},
			ExamRefs: r.exams,
		})
	}

	return models.SeedDataset{
		Rooms:     rooms,
		Exams:     exams,
		TimeSlots: slots,
		Students:  students,
		Version:   models.ScheduleVersion{Name: models.DefaultVersionName, Active: true},
		Schedules: []models.SeedSchedule{
			{ExamRef: 1, RoomRef: 1, TimeslotRef: 1},
			{ExamRef: 2, RoomRef: 2, TimeslotRef: 1},
			{ExamRef: 3, RoomRef: 3, TimeslotRef: 2},
			{ExamRef: 4, RoomRef: 4, TimeslotRef: 5},
			{ExamRef: 5, RoomRef: 5, TimeslotRef: 6},
			{ExamRef: 6, RoomRef: 7, TimeslotRef: 9},
			{ExamRef: 7, RoomRef: 2, TimeslotRef: 10},
			{ExamRef: 8, RoomRef: 8, TimeslotRef: 1},
			{ExamRef: 9, RoomRef: 6, TimeslotRef: 13},
			{ExamRef: 10, RoomRef: 4, TimeslotRef: 14},
		},
	}
}
