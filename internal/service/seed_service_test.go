package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/informs-api/internal/models"
)

type stubSeedRepo struct {
	hasRooms bool
	applied  []models.SeedDataset
	err      error
}

func (s *stubSeedRepo) HasRooms(ctx context.Context) (bool, error) { return s.hasRooms, s.err }

func (s *stubSeedRepo) Apply(ctx context.Context, data models.SeedDataset) error {
	s.applied = append(s.applied, data)
	return nil
}

func TestSeedServiceSeedsEmptyStore(t *testing.T) {
	repo := &stubSeedRepo{}
	svc := NewSeedService(repo, nil, nil)

	seeded, err := svc.Seed(context.Background())
	require.NoError(t, err)
	assert.True(t, seeded)
	require.Len(t, repo.applied, 1)
}

func TestSeedServiceSkipsPopulatedStore(t *testing.T) {
	repo := &stubSeedRepo{hasRooms: true}
	svc := NewSeedService(repo, nil, nil)

	seeded, err := svc.Seed(context.Background())
	require.NoError(t, err)
	assert.False(t, seeded)
	assert.Empty(t, repo.applied)
}

func TestSeedServiceSurfacesStoreErrors(t *testing.T) {
	svc := NewSeedService(&stubSeedRepo{err: errors.New("down")}, nil, nil)
	_, err := svc.Seed(context.Background())
	assert.Error(t, err)
}

// seedSnapshot assigns positional ids the way an empty database would.
func seedSnapshot(data models.SeedDataset) *models.ScheduleSnapshot {
	snap := &models.ScheduleSnapshot{VersionID: 1}
	for i, r := range data.Rooms {
		r.ID = int64(i + 1)
		snap.Rooms = append(snap.Rooms, r)
	}
	for i, e := range data.Exams {
		e.ID = int64(i + 1)
		snap.Exams = append(snap.Exams, e)
	}
	for i, ts := range data.TimeSlots {
		ts.ID = int64(i + 1)
		snap.TimeSlots = append(snap.TimeSlots, ts)
	}
	var enrollmentID int64
	for i, s := range data.Students {
		student := s.Student
		student.ID = int64(i + 1)
		snap.Students = append(snap.Students, student)
		for _, ref := range s.ExamRefs {
			enrollmentID++
			snap.Enrollments = append(snap.Enrollments, models.StudentExam{ID: enrollmentID, StudentID: student.ID, ExamID: int64(ref)})
		}
	}
	for i, s := range data.Schedules {
		snap.Schedules = append(snap.Schedules, models.Schedule{
			ID:         int64(i + 1),
			VersionID:  1,
			ExamID:     int64(s.ExamRef),
			RoomID:     int64(s.RoomRef),
			TimeslotID: int64(s.TimeslotRef),
		})
	}
	return snap
}

func TestDefaultSeedDatasetShape(t *testing.T) {
	data := DefaultSeedDataset()
	assert.Len(t, data.Rooms, 8)
	assert.Len(t, data.Exams, 10)
	assert.Len(t, data.TimeSlots, 40)
	assert.Len(t, data.Students, 20)
	assert.Len(t, data.Schedules, 10)
	assert.Equal(t, models.DefaultVersionName, data.Version.Name)
	assert.True(t, data.Version.Active)
	assert.Equal(t, models.TimeSlot{StartTime: "08:00", EndTime: "10:00", Date: "2026-05-11"}, data.TimeSlots[0])
	assert.Equal(t, models.TimeSlot{StartTime: "16:00", EndTime: "18:00", Date: "2026-05-22"}, data.TimeSlots[39])
	assert.Equal(t, "achen@univ.edu", data.Students[0].Email)
}

func TestDefaultSeedDatasetReports(t *testing.T) {
	snap := seedSnapshot(DefaultSeedDataset())

	report := DetectConflicts(snap)
	require.Equal(t, 4, report.TotalConflicts)
	names := make([]string, 0, len(report.Conflicts))
	for _, c := range report.Conflicts {
		names = append(names, c.Student.Name)
		assert.Equal(t, int64(1), c.Timeslot.ID)
	}
	assert.Equal(t, []string{"Alice Chen", "Emma Johnson", "Noah Jackson", "Quinn Clark"}, names)
	assert.Len(t, report.Conflicts[0].Exams, 3)

	analytics := BuildAnalytics(snap)
	assert.Equal(t, 10, analytics.ScheduledExams)
	assert.Equal(t, 4, analytics.ConflictCount)
	assert.Equal(t, 4, analytics.AffectedStudents)
	require.Len(t, analytics.CapacityWarnings, 1)
	assert.Equal(t, "BIO 201 - Genetics", analytics.CapacityWarnings[0].Exam)
	assert.Equal(t, "Room 305", analytics.CapacityWarnings[0].Room)
	assert.Equal(t, 70, analytics.CapacityWarnings[0].Students)
	assert.Equal(t, 50, analytics.CapacityWarnings[0].Capacity)
	require.Len(t, analytics.RoomUsage, 8)
	assert.Equal(t, 2, analytics.RoomUsage[1].Count)
	assert.Equal(t, 2, analytics.RoomUsage[3].Count)
}
