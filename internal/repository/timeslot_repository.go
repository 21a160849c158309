package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/informs-api/internal/models"
)

// TimeSlotRepository handles persistence for exam timeslots.
type TimeSlotRepository struct {
	db *sqlx.DB
}

// NewTimeSlotRepository creates a new repository instance.
func NewTimeSlotRepository(db *sqlx.DB) *TimeSlotRepository {
	return &TimeSlotRepository{db: db}
}

// List returns every timeslot ordered by id.
func (r *TimeSlotRepository) List(ctx context.Context) ([]models.TimeSlot, error) {
	const query = `SELECT id, start_time, end_time, date FROM timeslots ORDER BY id ASC`
	slots := []models.TimeSlot{}
	if err := r.db.SelectContext(ctx, &slots, query); err != nil {
		return nil, fmt.Errorf("list timeslots: %w", err)
	}
	return slots, nil
}

// FindByID returns a timeslot by id.
func (r *TimeSlotRepository) FindByID(ctx context.Context, id int64) (*models.TimeSlot, error) {
	const query = `SELECT id, start_time, end_time, date FROM timeslots WHERE id = $1`
	var slot models.TimeSlot
	if err := r.db.GetContext(ctx, &slot, query, id); err != nil {
		return nil, err
	}
	return &slot, nil
}

// Create persists a new timeslot and assigns its id.
func (r *TimeSlotRepository) Create(ctx context.Context, slot *models.TimeSlot) error {
	const query = `INSERT INTO timeslots (start_time, end_time, date) VALUES ($1, $2, $3) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, slot.StartTime, slot.EndTime, slot.Date).Scan(&slot.ID); err != nil {
		return fmt.Errorf("create timeslot: %w", err)
	}
	return nil
}

// Update modifies a timeslot.
func (r *TimeSlotRepository) Update(ctx context.Context, slot *models.TimeSlot) error {
	const query = `UPDATE timeslots SET start_time = :start_time, end_time = :end_time, date = :date WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, slot)
	if err != nil {
		return fmt.Errorf("update timeslot: %w", err)
	}
	return expectAffected(result, "update timeslot")
}

// Delete removes a timeslot.
func (r *TimeSlotRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM timeslots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete timeslot: %w", err)
	}
	return expectAffected(result, "delete timeslot")
}
