package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/informs-api/internal/models"
)

const duplicateScheduleMessage = "exam already scheduled in this version"

// ScheduleRepository provides persistence for schedules.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// ListByVersion returns the schedules of a version ordered by id.
func (r *ScheduleRepository) ListByVersion(ctx context.Context, versionID int64) ([]models.Schedule, error) {
	const query = `SELECT id, version_id, exam_id, room_id, timeslot_id FROM schedules WHERE version_id = $1 ORDER BY id ASC`
	schedules := []models.Schedule{}
	if err := r.db.SelectContext(ctx, &schedules, query, versionID); err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return schedules, nil
}

// FindByID loads a schedule by id.
func (r *ScheduleRepository) FindByID(ctx context.Context, id int64) (*models.Schedule, error) {
	const query = `SELECT id, version_id, exam_id, room_id, timeslot_id FROM schedules WHERE id = $1`
	var sched models.Schedule
	if err := r.db.GetContext(ctx, &sched, query, id); err != nil {
		return nil, err
	}
	return &sched, nil
}

// ExistsForExam reports whether the exam already has a schedule in the version, ignoring excludeID.
func (r *ScheduleRepository) ExistsForExam(ctx context.Context, versionID, examID, excludeID int64) (bool, error) {
	const query = `SELECT 1 FROM schedules WHERE version_id = $1 AND exam_id = $2 AND id <> $3 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, versionID, examID, excludeID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check schedule exam: %w", err)
	}
	return true, nil
}

// Create stores a new schedule record.
func (r *ScheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	if err := insertSchedule(ctx, r.db, schedule); err != nil {
		return translateUnique(err, duplicateScheduleMessage)
	}
	return nil
}

// Update modifies a schedule record.
func (r *ScheduleRepository) Update(ctx context.Context, schedule *models.Schedule) error {
	const query = `UPDATE schedules SET exam_id = :exam_id, room_id = :room_id, timeslot_id = :timeslot_id WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, schedule)
	if err != nil {
		return translateUnique(fmt.Errorf("update schedule: %w", err), duplicateScheduleMessage)
	}
	return expectAffected(result, "update schedule")
}

// Delete removes a schedule by id.
func (r *ScheduleRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	return expectAffected(result, "delete schedule")
}

// ReplaceForVersion deletes every schedule of the version and inserts schedules
// in order within one transaction. Inserted rows receive their ids in place.
func (r *ScheduleRepository) ReplaceForVersion(ctx context.Context, versionID int64, schedules []models.Schedule) error {
	err := withTx(ctx, r.db, nil, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM schedules WHERE version_id = $1`, versionID); err != nil {
			return fmt.Errorf("clear version schedules: %w", err)
		}
		for i := range schedules {
			schedules[i].VersionID = versionID
			if err := insertSchedule(ctx, tx, &schedules[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return translateUnique(err, duplicateScheduleMessage)
	}
	return nil
}

func insertSchedule(ctx context.Context, exec sqlx.ExtContext, schedule *models.Schedule) error {
	const query = `INSERT INTO schedules (version_id, exam_id, room_id, timeslot_id) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := exec.QueryRowxContext(ctx, query, schedule.VersionID, schedule.ExamID, schedule.RoomID, schedule.TimeslotID).Scan(&schedule.ID); err != nil {
		return fmt.Errorf("insert schedule: %w", err)
	}
	return nil
}
