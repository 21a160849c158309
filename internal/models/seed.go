package models

// SeedStudent is a student with enrollments expressed as 1-based positions into SeedDataset.Exams.
type SeedStudent struct {
	Student
	ExamRefs []int
}

// SeedSchedule references seed rows by 1-based position.
type SeedSchedule struct {
	ExamRef     int
	RoomRef     int
	TimeslotRef int
}

// SeedDataset is the bootstrap data written to an empty store.
type SeedDataset struct {
	Rooms     []Room
	Exams     []Exam
	TimeSlots []TimeSlot
	Students  []SeedStudent
	Version   ScheduleVersion
	Schedules []SeedSchedule
}
