package models

// Exam is a course exam. StudentCount is the expected sitting size used for
// capacity checks and is independent of enrollment rows.
type Exam struct {
	ID              int64  `db:"id" json:"id"`
	CourseName      string `db:"course_name" json:"course_name"`
	StudentCount    int    `db:"student_count" json:"student_count"`
	DurationMinutes int    `db:"duration_minutes" json:"duration_minutes"`
}
