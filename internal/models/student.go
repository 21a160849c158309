package models

// Student is an exam candidate.
type Student struct {
	ID    int64  `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email"`
}

// StudentExam links a student to an exam they sit.
type StudentExam struct {
	ID        int64 `db:"id" json:"id"`
	StudentID int64 `db:"student_id" json:"student_id"`
	ExamID    int64 `db:"exam_id" json:"exam_id"`
}
