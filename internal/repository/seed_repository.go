package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/informs-api/internal/models"
)

// SeedRepository writes bootstrap data.
type SeedRepository struct {
	db *sqlx.DB
}

// NewSeedRepository constructs the repository.
func NewSeedRepository(db *sqlx.DB) *SeedRepository {
	return &SeedRepository{db: db}
}

// HasRooms reports whether any room exists, which marks the store as already seeded.
func (r *SeedRepository) HasRooms(ctx context.Context) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM rooms)`); err != nil {
		return false, fmt.Errorf("check seeded rooms: %w", err)
	}
	return exists, nil
}

// Apply inserts the dataset in one transaction, resolving 1-based references to stored ids.
func (r *SeedRepository) Apply(ctx context.Context, data models.SeedDataset) error {
	return withTx(ctx, r.db, nil, func(tx *sqlx.Tx) error {
		roomIDs := make([]int64, len(data.Rooms))
		for i, room := range data.Rooms {
			const query = `INSERT INTO rooms (name, capacity, building) VALUES ($1, $2, $3) RETURNING id`
			if err := tx.QueryRowxContext(ctx, query, room.Name, room.Capacity, room.Building).Scan(&roomIDs[i]); err != nil {
				return fmt.Errorf("seed room: %w", err)
			}
		}

		examIDs := make([]int64, len(data.Exams))
		for i, exam := range data.Exams {
			const query = `INSERT INTO exams (course_name, student_count, duration_minutes) VALUES ($1, $2, $3) RETURNING id`
			if err := tx.QueryRowxContext(ctx, query, exam.CourseName, exam.StudentCount, exam.DurationMinutes).Scan(&examIDs[i]); err != nil {
				return fmt.Errorf("seed exam: %w", err)
			}
		}

		slotIDs := make([]int64, len(data.TimeSlots))
		for i, slot := range data.TimeSlots {
			const query = `INSERT INTO timeslots (start_time, end_time, date) VALUES ($1, $2, $3) RETURNING id`
			if err := tx.QueryRowxContext(ctx, query, slot.StartTime, slot.EndTime, slot.Date).Scan(&slotIDs[i]); err != nil {
				return fmt.Errorf("seed timeslot: %w", err)
			}
		}

		for _, student := range data.Students {
			var studentID int64
			const query = `INSERT INTO students (name, email) VALUES ($1, $2) RETURNING id`
			if err := tx.QueryRowxContext(ctx, query, student.Name, student.Email).Scan(&studentID); err != nil {
				return fmt.Errorf("seed student: %w", err)
			}
			for _, ref := range student.ExamRefs {
				examID, err := lookupRef(examIDs, ref, "exam")
				if err != nil {
					return err
				}
				if _, err := tx.ExecContext(ctx, `INSERT INTO student_exams (student_id, exam_id) VALUES ($1, $2)`, studentID, examID); err != nil {
					return fmt.Errorf("seed enrollment: %w", err)
				}
			}
		}

		version := data.Version
		if err := insertVersion(ctx, tx, &version); err != nil {
			return err
		}

		for _, item := range data.Schedules {
			examID, err := lookupRef(examIDs, item.ExamRef, "exam")
			if err != nil {
				return err
			}
			roomID, err := lookupRef(roomIDs, item.RoomRef, "room")
			if err != nil {
				return err
			}
			slotID, err := lookupRef(slotIDs, item.TimeslotRef, "timeslot")
			if err != nil {
				return err
			}
			schedule := models.Schedule{VersionID: version.ID, ExamID: examID, RoomID: roomID, TimeslotID: slotID}
			if err := insertSchedule(ctx, tx, &schedule); err != nil {
				return err
			}
		}
		return nil
	})
}

func lookupRef(ids []int64, ref int, kind string) (int64, error) {
	if ref < 1 || ref > len(ids) {
		return 0, fmt.Errorf("seed %s reference %d out of range", kind, ref)
	}
	return ids[ref-1], nil
}
