package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/informs-api/internal/models"
)

// ReportRepository loads the inputs of the conflict and analytics views.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Snapshot reads one version's schedules and all global collections inside a
// single read-only repeatable-read transaction.
func (r *ReportRepository) Snapshot(ctx context.Context, versionID int64) (*models.ScheduleSnapshot, error) {
	snapshot := &models.ScheduleSnapshot{
		VersionID:   versionID,
		Schedules:   []models.Schedule{},
		Enrollments: []models.StudentExam{},
		Rooms:       []models.Room{},
		Exams:       []models.Exam{},
		TimeSlots:   []models.TimeSlot{},
		Students:    []models.Student{},
	}
	opts := &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	err := withTx(ctx, r.db, opts, func(tx *sqlx.Tx) error {
		queries := []struct {
			name  string
			dest  interface{}
			query string
			args  []interface{}
		}{
			{"schedules", &snapshot.Schedules, `SELECT id, version_id, exam_id, room_id, timeslot_id FROM schedules WHERE version_id = $1 ORDER BY id ASC`, []interface{}{versionID}},
			{"enrollments", &snapshot.Enrollments, `SELECT id, student_id, exam_id FROM student_exams ORDER BY id ASC`, nil},
			{"rooms", &snapshot.Rooms, `SELECT id, name, capacity, building FROM rooms ORDER BY id ASC`, nil},
			{"exams", &snapshot.Exams, `SELECT id, course_name, student_count, duration_minutes FROM exams ORDER BY id ASC`, nil},
			{"timeslots", &snapshot.TimeSlots, `SELECT id, start_time, end_time, date FROM timeslots ORDER BY id ASC`, nil},
			{"students", &snapshot.Students, `SELECT id, name, email FROM students ORDER BY id ASC`, nil},
		}
		for _, q := range queries {
			if err := tx.SelectContext(ctx, q.dest, q.query, q.args...); err != nil {
				return fmt.Errorf("snapshot %s: %w", q.name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}
