package models

// ScheduleSnapshot is a consistent read of everything the derived views join over.
// Schedules are scoped to VersionID; every other collection is global.
type ScheduleSnapshot struct {
	VersionID   int64
	Schedules   []Schedule
	Enrollments []StudentExam
	Rooms       []Room
	Exams       []Exam
	TimeSlots   []TimeSlot
	Students    []Student
}
