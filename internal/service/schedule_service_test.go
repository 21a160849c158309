package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/informs-api/internal/models"
	appErrors "github.com/noah-isme/informs-api/pkg/errors"
)

func TestScheduleServiceCreate(t *testing.T) {
	f := newScheduleFixture()
	ctx := context.Background()

	schedule, err := f.service.Create(ctx, CreateScheduleRequest{ScheduleRequest: ScheduleRequest{ExamID: 1, RoomID: 2, TimeslotID: 1}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), schedule.VersionID)
	assert.NotZero(t, schedule.ID)

	_, err = f.service.Create(ctx, CreateScheduleRequest{ScheduleRequest: ScheduleRequest{ExamID: 1, RoomID: 1, TimeslotID: 2}})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrConflict)
}

func TestScheduleServiceCreateMissingReferences(t *testing.T) {
	f := newScheduleFixture()
	ctx := context.Background()

	cases := []struct {
		name    string
		req     CreateScheduleRequest
		message string
	}{
		{"exam", CreateScheduleRequest{ScheduleRequest: ScheduleRequest{ExamID: 9, RoomID: 1, TimeslotID: 1}}, "exam not found"},
		{"room", CreateScheduleRequest{ScheduleRequest: ScheduleRequest{ExamID: 1, RoomID: 9, TimeslotID: 1}}, "room not found"},
		{"timeslot", CreateScheduleRequest{ScheduleRequest: ScheduleRequest{ExamID: 1, RoomID: 1, TimeslotID: 9}}, "timeslot not found"},
		{"version", CreateScheduleRequest{VersionID: int64Ptr(7), ScheduleRequest: ScheduleRequest{ExamID: 1, RoomID: 1, TimeslotID: 1}}, "schedule version not found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.Create(ctx, tc.req)
			require.Error(t, err)
			appErr := appErrors.FromError(err)
			assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
			assert.Equal(t, tc.message, appErr.Message)
		})
	}
	assert.Empty(t, f.store.schedules)
}

func TestScheduleServiceCreateValidation(t *testing.T) {
	f := newScheduleFixture()

	_, err := f.service.Create(context.Background(), CreateScheduleRequest{ScheduleRequest: ScheduleRequest{ExamID: 1}})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestScheduleServiceUpdate(t *testing.T) {
	f := newScheduleFixture()
	ctx := context.Background()

	first, err := f.service.Create(ctx, CreateScheduleRequest{ScheduleRequest: ScheduleRequest{ExamID: 1, RoomID: 2, TimeslotID: 1}})
	require.NoError(t, err)
	second, err := f.service.Create(ctx, CreateScheduleRequest{ScheduleRequest: ScheduleRequest{ExamID: 2, RoomID: 2, TimeslotID: 1}})
	require.NoError(t, err)

	moved, err := f.service.Update(ctx, second.ID, ScheduleRequest{ExamID: 2, RoomID: 1, TimeslotID: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(2), moved.TimeslotID)

	_, err = f.service.Update(ctx, second.ID, ScheduleRequest{ExamID: first.ExamID, RoomID: 1, TimeslotID: 2})
	assert.ErrorIs(t, err, appErrors.ErrConflict)

	_, err = f.service.Update(ctx, 404, ScheduleRequest{ExamID: 3, RoomID: 1, TimeslotID: 2})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestScheduleServiceDelete(t *testing.T) {
	f := newScheduleFixture()
	ctx := context.Background()

	created, err := f.service.Create(ctx, CreateScheduleRequest{ScheduleRequest: ScheduleRequest{ExamID: 1, RoomID: 2, TimeslotID: 1}})
	require.NoError(t, err)
	require.NoError(t, f.service.Delete(ctx, created.ID))
	assert.ErrorIs(t, f.service.Delete(ctx, created.ID), appErrors.ErrNotFound)
}

func TestScheduleServiceBulkReplaceEmptyLeavesOtherVersions(t *testing.T) {
	f := newScheduleFixture()
	ctx := context.Background()
	other, err := f.versions.Create(ctx, CreateVersionRequest{Name: "Other"})
	require.NoError(t, err)

	items := []ScheduleRequest{{ExamID: 1, RoomID: 1, TimeslotID: 1}, {ExamID: 2, RoomID: 2, TimeslotID: 2}}
	_, err = f.service.BulkReplace(ctx, int64Ptr(1), items)
	require.NoError(t, err)
	otherRows, err := f.service.BulkReplace(ctx, int64Ptr(other.ID), items)
	require.NoError(t, err)

	cleared, err := f.service.BulkReplace(ctx, int64Ptr(1), nil)
	require.NoError(t, err)
	assert.Empty(t, cleared)

	remaining, err := f.service.List(ctx, int64Ptr(1))
	require.NoError(t, err)
	assert.Empty(t, remaining)

	untouched, err := f.service.List(ctx, int64Ptr(other.ID))
	require.NoError(t, err)
	assert.Equal(t, otherRows, untouched)
}

func TestScheduleServiceBulkReplaceKeepsOrder(t *testing.T) {
	f := newScheduleFixture()

	rows, err := f.service.BulkReplace(context.Background(), nil, []ScheduleRequest{
		{ExamID: 3, RoomID: 2, TimeslotID: 2},
		{ExamID: 1, RoomID: 1, TimeslotID: 1},
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(3), rows[0].ExamID)
	assert.Equal(t, int64(1), rows[1].ExamID)
	assert.Less(t, rows[0].ID, rows[1].ID)
	assert.Equal(t, int64(1), rows[0].VersionID)
}

func TestScheduleServiceBulkReplaceRejectsInvalidPayload(t *testing.T) {
	f := newScheduleFixture()
	ctx := context.Background()
	_, err := f.service.BulkReplace(ctx, nil, []ScheduleRequest{{ExamID: 1, RoomID: 1, TimeslotID: 1}})
	require.NoError(t, err)

	_, err = f.service.BulkReplace(ctx, nil, []ScheduleRequest{
		{ExamID: 2, RoomID: 1, TimeslotID: 1},
		{ExamID: 2, RoomID: 2, TimeslotID: 2},
	})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = f.service.BulkReplace(ctx, nil, []ScheduleRequest{{ExamID: 2, RoomID: 8, TimeslotID: 1}})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = f.service.BulkReplace(ctx, nil, []ScheduleRequest{{ExamID: 0, RoomID: 1, TimeslotID: 1}})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	rows, err := f.service.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0].ExamID)
}

func TestScheduleServiceDetailedToleratesDeletedRoom(t *testing.T) {
	f := newScheduleFixture()
	ctx := context.Background()
	_, err := f.service.BulkReplace(ctx, nil, []ScheduleRequest{{ExamID: 1, RoomID: 1, TimeslotID: 1}})
	require.NoError(t, err)

	f.rooms.items = f.rooms.items[1:]
	rows, err := f.service.Detailed(ctx, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].Room)
	require.NotNil(t, rows[0].Exam)
	assert.Equal(t, "CS 101", rows[0].Exam.CourseName)
	require.NotNil(t, rows[0].Timeslot)
}

func TestScheduleServiceImplicitVersionMatchesExplicit(t *testing.T) {
	f := newScheduleFixture()
	ctx := context.Background()
	_, err := f.service.BulkReplace(ctx, nil, []ScheduleRequest{{ExamID: 1, RoomID: 1, TimeslotID: 1}})
	require.NoError(t, err)

	implicit, err := f.service.Detailed(ctx, nil)
	require.NoError(t, err)
	explicit, err := f.service.Detailed(ctx, int64Ptr(1))
	require.NoError(t, err)
	assert.Equal(t, explicit, implicit)

	missing, err := f.service.List(ctx, int64Ptr(55))
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestScheduleServiceStudentSchedule(t *testing.T) {
	f := newScheduleFixture()
	ctx := context.Background()
	_, err := f.service.BulkReplace(ctx, nil, []ScheduleRequest{
		{ExamID: 1, RoomID: 2, TimeslotID: 1},
		{ExamID: 2, RoomID: 2, TimeslotID: 1},
	})
	require.NoError(t, err)

	view, err := f.service.StudentSchedule(ctx, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, "Alice Chen", view.Student.Name)
	assert.Equal(t, int64(1), view.VersionID)
	assert.Equal(t, []int64{1, 3}, view.EnrolledExamIDs)
	require.Len(t, view.Schedules, 1)
	assert.Equal(t, int64(1), view.Schedules[0].Exam.ID)

	_, err = f.service.StudentSchedule(ctx, 77, nil)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestScheduleServiceStudentScheduleKeepsDeletedExams(t *testing.T) {
	f := newScheduleFixture()
	ctx := context.Background()
	_, err := f.service.BulkReplace(ctx, nil, []ScheduleRequest{
		{ExamID: 1, RoomID: 2, TimeslotID: 1},
		{ExamID: 3, RoomID: 2, TimeslotID: 2},
	})
	require.NoError(t, err)

	f.exams.items = f.exams.items[:2]

	view, err := f.service.StudentSchedule(ctx, 1, nil)
	require.NoError(t, err)
	require.Len(t, view.Schedules, 2)
	assert.Equal(t, int64(3), view.Schedules[1].ExamID)
	assert.Nil(t, view.Schedules[1].Exam)
	require.NotNil(t, view.Schedules[1].Timeslot)
	assert.Equal(t, int64(2), view.Schedules[1].Timeslot.ID)
}

func TestScheduleServiceConflictScenario(t *testing.T) {
	f := newScheduleFixture()
	ctx := context.Background()
	f.enrollments.items = []models.StudentExam{{ID: 1, StudentID: 1, ExamID: 1}, {ID: 2, StudentID: 1, ExamID: 2}}

	rows, err := f.service.BulkReplace(ctx, nil, []ScheduleRequest{
		{ExamID: 1, RoomID: 2, TimeslotID: 1},
		{ExamID: 2, RoomID: 2, TimeslotID: 1},
	})
	require.NoError(t, err)

	snapshot := func() *models.ScheduleSnapshot {
		schedules, err := f.service.List(ctx, nil)
		require.NoError(t, err)
		return &models.ScheduleSnapshot{
			VersionID:   1,
			Schedules:   schedules,
			Enrollments: f.enrollments.items,
			Exams:       f.exams.items,
			Rooms:       f.rooms.items,
			TimeSlots:   f.timeslots.items,
			Students:    f.students.items,
		}
	}
	assert.Equal(t, 1, DetectConflicts(snapshot()).TotalConflicts)

	_, err = f.service.Update(ctx, rows[1].ID, ScheduleRequest{ExamID: 2, RoomID: 2, TimeslotID: 2})
	require.NoError(t, err)
	assert.Equal(t, 0, DetectConflicts(snapshot()).TotalConflicts)
}
