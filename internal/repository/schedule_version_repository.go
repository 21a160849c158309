package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/informs-api/internal/models"
)

// ScheduleVersionRepository persists schedule versions.
type ScheduleVersionRepository struct {
	db *sqlx.DB
}

// NewScheduleVersionRepository constructs repository.
func NewScheduleVersionRepository(db *sqlx.DB) *ScheduleVersionRepository {
	return &ScheduleVersionRepository{db: db}
}

// List returns every version ordered by id.
func (r *ScheduleVersionRepository) List(ctx context.Context) ([]models.ScheduleVersion, error) {
	const query = `SELECT id, name, active FROM schedule_versions ORDER BY id ASC`
	versions := []models.ScheduleVersion{}
	if err := r.db.SelectContext(ctx, &versions, query); err != nil {
		return nil, fmt.Errorf("list schedule versions: %w", err)
	}
	return versions, nil
}

// FindByID loads a version by its identifier.
func (r *ScheduleVersionRepository) FindByID(ctx context.Context, id int64) (*models.ScheduleVersion, error) {
	const query = `SELECT id, name, active FROM schedule_versions WHERE id = $1`
	var version models.ScheduleVersion
	if err := r.db.GetContext(ctx, &version, query, id); err != nil {
		return nil, err
	}
	return &version, nil
}

// FindDefault returns the active version, falling back to the lowest id.
// It returns sql.ErrNoRows when no version exists.
func (r *ScheduleVersionRepository) FindDefault(ctx context.Context) (*models.ScheduleVersion, error) {
	const query = `SELECT id, name, active FROM schedule_versions ORDER BY active DESC, id ASC LIMIT 1`
	var version models.ScheduleVersion
	if err := r.db.GetContext(ctx, &version, query); err != nil {
		return nil, err
	}
	return &version, nil
}

// Count returns the number of stored versions.
func (r *ScheduleVersionRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM schedule_versions`); err != nil {
		return 0, fmt.Errorf("count schedule versions: %w", err)
	}
	return count, nil
}

// Create inserts a version. An active version deactivates all others.
func (r *ScheduleVersionRepository) Create(ctx context.Context, version *models.ScheduleVersion) error {
	return withTx(ctx, r.db, nil, func(tx *sqlx.Tx) error {
		return insertVersion(ctx, tx, version)
	})
}

// Update renames a version and applies its active flag.
func (r *ScheduleVersionRepository) Update(ctx context.Context, version *models.ScheduleVersion) error {
	return withTx(ctx, r.db, nil, func(tx *sqlx.Tx) error {
		if version.Active {
			if _, err := tx.ExecContext(ctx, `UPDATE schedule_versions SET active = FALSE WHERE active AND id <> $1`, version.ID); err != nil {
				return fmt.Errorf("deactivate schedule versions: %w", err)
			}
		}
		result, err := tx.ExecContext(ctx, `UPDATE schedule_versions SET name = $1, active = $2 WHERE id = $3`, version.Name, version.Active, version.ID)
		if err != nil {
			return fmt.Errorf("update schedule version: %w", err)
		}
		return expectAffected(result, "update schedule version")
	})
}

// Delete removes a version together with its schedules and reports how many schedules went with it.
func (r *ScheduleVersionRepository) Delete(ctx context.Context, id int64) (int64, error) {
	var removed int64
	err := withTx(ctx, r.db, nil, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM schedules WHERE version_id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete version schedules: %w", err)
		}
		if removed, err = result.RowsAffected(); err != nil {
			return fmt.Errorf("version schedules rows affected: %w", err)
		}
		result, err = tx.ExecContext(ctx, `DELETE FROM schedule_versions WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete schedule version: %w", err)
		}
		return expectAffected(result, "delete schedule version")
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// Duplicate inserts version and copies every schedule of sourceID into it, in id order.
func (r *ScheduleVersionRepository) Duplicate(ctx context.Context, sourceID int64, version *models.ScheduleVersion) (int64, error) {
	var copied int64
	err := withTx(ctx, r.db, nil, func(tx *sqlx.Tx) error {
		if err := insertVersion(ctx, tx, version); err != nil {
			return err
		}
		const copyQuery = `INSERT INTO schedules (version_id, exam_id, room_id, timeslot_id)
SELECT $1, exam_id, room_id, timeslot_id FROM schedules WHERE version_id = $2 ORDER BY id ASC`
		result, err := tx.ExecContext(ctx, copyQuery, version.ID, sourceID)
		if err != nil {
			return fmt.Errorf("copy version schedules: %w", err)
		}
		if copied, err = result.RowsAffected(); err != nil {
			return fmt.Errorf("copied schedules rows affected: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return copied, nil
}

func insertVersion(ctx context.Context, exec sqlx.ExtContext, version *models.ScheduleVersion) error {
	if version.Active {
		if _, err := exec.ExecContext(ctx, `UPDATE schedule_versions SET active = FALSE WHERE active`); err != nil {
			return fmt.Errorf("deactivate schedule versions: %w", err)
		}
	}
	const query = `INSERT INTO schedule_versions (name, active) VALUES ($1, $2) RETURNING id`
	if err := exec.QueryRowxContext(ctx, query, version.Name, version.Active).Scan(&version.ID); err != nil {
		return fmt.Errorf("insert schedule version: %w", err)
	}
	return nil
}
