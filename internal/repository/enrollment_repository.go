package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/informs-api/internal/models"
)

// EnrollmentRepository reads student-exam enrollment links.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// List returns all enrollments in insertion order.
func (r *EnrollmentRepository) List(ctx context.Context) ([]models.StudentExam, error) {
	const query = `SELECT id, student_id, exam_id FROM student_exams ORDER BY id ASC`
	enrollments := []models.StudentExam{}
	if err := r.db.SelectContext(ctx, &enrollments, query); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}

// ListByStudent returns the enrollments of one student in insertion order.
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.StudentExam, error) {
	const query = `SELECT id, student_id, exam_id FROM student_exams WHERE student_id = $1 ORDER BY id ASC`
	enrollments := []models.StudentExam{}
	if err := r.db.SelectContext(ctx, &enrollments, query, studentID); err != nil {
		return nil, fmt.Errorf("list enrollments by student: %w", err)
	}
	return enrollments, nil
}
