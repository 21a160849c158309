package service

import (
	"context"
	"database/sql"
	"sort"

	"github.com/noah-isme/informs-api/internal/models"
	appErrors "github.com/noah-isme/informs-api/pkg/errors"
)

// memScheduleStore backs the version and schedule fakes so cascades behave like the database.
type memScheduleStore struct {
	versions     []models.ScheduleVersion
	schedules    []models.Schedule
	nextVersion  int64
	nextSchedule int64
}

func (m *memScheduleStore) versionIndex(id int64) int {
	for i, v := range m.versions {
		if v.ID == id {
			return i
		}
	}
	return -1
}

func (m *memScheduleStore) addVersion(v *models.ScheduleVersion) {
	if v.Active {
		for i := range m.versions {
			m.versions[i].Active = false
		}
	}
	m.nextVersion++
	v.ID = m.nextVersion
	m.versions = append(m.versions, *v)
}

func (m *memScheduleStore) addSchedule(s *models.Schedule) error {
	for _, existing := range m.schedules {
		if existing.VersionID == s.VersionID && existing.ExamID == s.ExamID {
			return appErrors.Clone(appErrors.ErrConflict, "exam already scheduled in this version")
		}
	}
	m.nextSchedule++
	s.ID = m.nextSchedule
	m.schedules = append(m.schedules, *s)
	return nil
}

func (m *memScheduleStore) schedulesOf(versionID int64) []models.Schedule {
	out := []models.Schedule{}
	for _, s := range m.schedules {
		if s.VersionID == versionID {
			out = append(out, s)
		}
	}
	return out
}

type memVersionRepo struct{ *memScheduleStore }

func (r memVersionRepo) List(ctx context.Context) ([]models.ScheduleVersion, error) {
	return append([]models.ScheduleVersion{}, r.versions...), nil
}

func (r memVersionRepo) FindByID(ctx context.Context, id int64) (*models.ScheduleVersion, error) {
	if i := r.versionIndex(id); i >= 0 {
		v := r.versions[i]
		return &v, nil
	}
	return nil, sql.ErrNoRows
}

func (r memVersionRepo) FindDefault(ctx context.Context) (*models.ScheduleVersion, error) {
	if len(r.versions) == 0 {
		return nil, sql.ErrNoRows
	}
	sorted := append([]models.ScheduleVersion{}, r.versions...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Active != sorted[j].Active {
			return sorted[i].Active
		}
		return sorted[i].ID < sorted[j].ID
	})
	return &sorted[0], nil
}

func (r memVersionRepo) Count(ctx context.Context) (int, error) {
	return len(r.versions), nil
}

func (r memVersionRepo) Create(ctx context.Context, v *models.ScheduleVersion) error {
	r.addVersion(v)
	return nil
}

func (r memVersionRepo) Update(ctx context.Context, v *models.ScheduleVersion) error {
	i := r.versionIndex(v.ID)
	if i < 0 {
		return sql.ErrNoRows
	}
	if v.Active {
		for j := range r.versions {
			r.versions[j].Active = false
		}
	}
	r.versions[i] = *v
	return nil
}

func (r memVersionRepo) Delete(ctx context.Context, id int64) (int64, error) {
	i := r.versionIndex(id)
	if i < 0 {
		return 0, sql.ErrNoRows
	}
	r.versions = append(r.versions[:i], r.versions[i+1:]...)
	kept := r.schedules[:0]
	var removed int64
	for _, s := range r.schedules {
		if s.VersionID == id {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	r.schedules = kept
	return removed, nil
}

func (r memVersionRepo) Duplicate(ctx context.Context, sourceID int64, v *models.ScheduleVersion) (int64, error) {
	r.addVersion(v)
	var copied int64
	for _, s := range r.schedulesOf(sourceID) {
		cp := models.Schedule{VersionID: v.ID, ExamID: s.ExamID, RoomID: s.RoomID, TimeslotID: s.TimeslotID}
		if err := r.addSchedule(&cp); err != nil {
			return 0, err
		}
		copied++
	}
	return copied, nil
}

type memScheduleRepo struct{ *memScheduleStore }

func (r memScheduleRepo) ListByVersion(ctx context.Context, versionID int64) ([]models.Schedule, error) {
	return r.schedulesOf(versionID), nil
}

func (r memScheduleRepo) FindByID(ctx context.Context, id int64) (*models.Schedule, error) {
	for _, s := range r.schedules {
		if s.ID == id {
			cp := s
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r memScheduleRepo) ExistsForExam(ctx context.Context, versionID, examID, excludeID int64) (bool, error) {
	for _, s := range r.schedules {
		if s.VersionID == versionID && s.ExamID == examID && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r memScheduleRepo) Create(ctx context.Context, s *models.Schedule) error {
	return r.addSchedule(s)
}

func (r memScheduleRepo) Update(ctx context.Context, s *models.Schedule) error {
	for i := range r.schedules {
		if r.schedules[i].ID == s.ID {
			r.schedules[i] = *s
			return nil
		}
	}
	return sql.ErrNoRows
}

func (r memScheduleRepo) Delete(ctx context.Context, id int64) error {
	for i := range r.schedules {
		if r.schedules[i].ID == id {
			r.schedules = append(r.schedules[:i], r.schedules[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (r memScheduleRepo) ReplaceForVersion(ctx context.Context, versionID int64, schedules []models.Schedule) error {
	kept := []models.Schedule{}
	for _, s := range r.schedules {
		if s.VersionID != versionID {
			kept = append(kept, s)
		}
	}
	r.schedules = kept
	for i := range schedules {
		schedules[i].VersionID = versionID
		if err := r.addSchedule(&schedules[i]); err != nil {
			return err
		}
	}
	return nil
}

type fakeExams struct{ items []models.Exam }

func (f *fakeExams) List(ctx context.Context) ([]models.Exam, error) { return f.items, nil }

func (f *fakeExams) FindByID(ctx context.Context, id int64) (*models.Exam, error) {
	for _, e := range f.items {
		if e.ID == id {
			cp := e
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

type fakeRooms struct{ items []models.Room }

func (f *fakeRooms) List(ctx context.Context) ([]models.Room, error) { return f.items, nil }

func (f *fakeRooms) FindByID(ctx context.Context, id int64) (*models.Room, error) {
	for _, r := range f.items {
		if r.ID == id {
			cp := r
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

type fakeTimeslots struct{ items []models.TimeSlot }

func (f *fakeTimeslots) List(ctx context.Context) ([]models.TimeSlot, error) { return f.items, nil }

func (f *fakeTimeslots) FindByID(ctx context.Context, id int64) (*models.TimeSlot, error) {
	for _, t := range f.items {
		if t.ID == id {
			cp := t
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

type fakeStudents struct{ items []models.Student }

func (f *fakeStudents) List(ctx context.Context) ([]models.Student, error) { return f.items, nil }

func (f *fakeStudents) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	for _, s := range f.items {
		if s.ID == id {
			cp := s
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

type fakeEnrollments struct{ items []models.StudentExam }

func (f *fakeEnrollments) ListByStudent(ctx context.Context, studentID int64) ([]models.StudentExam, error) {
	out := []models.StudentExam{}
	for _, e := range f.items {
		if e.StudentID == studentID {
			out = append(out, e)
		}
	}
	return out, nil
}

// scheduleFixture wires a ScheduleService over in-memory fakes with one active version.
type scheduleFixture struct {
	store       *memScheduleStore
	exams       *fakeExams
	rooms       *fakeRooms
	timeslots   *fakeTimeslots
	students    *fakeStudents
	enrollments *fakeEnrollments
	service     *ScheduleService
	versions    *VersionService
}

func newScheduleFixture() *scheduleFixture {
	store := &memScheduleStore{}
	store.addVersion(&models.ScheduleVersion{Name: models.DefaultVersionName, Active: true})

	f := &scheduleFixture{
		store: store,
		exams: &fakeExams{items: []models.Exam{
			{ID: 1, CourseName: "CS 101", StudentCount: 60, DurationMinutes: 120},
			{ID: 2, CourseName: "MATH 201", StudentCount: 40, DurationMinutes: 90},
			{ID: 3, CourseName: "PHYS 101", StudentCount: 200, DurationMinutes: 120},
		}},
		rooms: &fakeRooms{items: []models.Room{
			{ID: 1, Name: "Room 101", Capacity: 50, Building: "Science Hall"},
			{ID: 2, Name: "Auditorium A", Capacity: 300, Building: "Main Building"},
		}},
		timeslots: &fakeTimeslots{items: []models.TimeSlot{
			{ID: 1, StartTime: "08:00", EndTime: "10:00", Date: "2026-05-11"},
			{ID: 2, StartTime: "10:30", EndTime: "12:30", Date: "2026-05-11"},
		}},
		students: &fakeStudents{items: []models.Student{
			{ID: 1, Name: "Alice Chen", Email: "achen@univ.edu"},
		}},
		enrollments: &fakeEnrollments{items: []models.StudentExam{
			{ID: 1, StudentID: 1, ExamID: 1},
			{ID: 2, StudentID: 1, ExamID: 3},
		}},
	}
	versionRepo := memVersionRepo{store}
	f.service = NewScheduleService(ScheduleServiceParams{
		Schedules:   memScheduleRepo{store},
		Versions:    versionRepo,
		Resolver:    NewVersionResolver(versionRepo),
		Exams:       f.exams,
		Rooms:       f.rooms,
		Timeslots:   f.timeslots,
		Students:    f.students,
		Enrollments: f.enrollments,
	})
	f.versions = NewVersionService(versionRepo, nil, nil, nil, nil)
	return f
}

func int64Ptr(v int64) *int64 { return &v }

func boolPtr(v bool) *bool { return &v }
