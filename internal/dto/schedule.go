package dto

import "github.com/noah-isme/informs-api/internal/models"

// DetailedSchedule is a schedule row joined with its exam, room and timeslot.
// Missing references are rendered as null.
type DetailedSchedule struct {
	ID         int64            `json:"id"`
	VersionID  int64            `json:"version_id"`
	ExamID     int64            `json:"exam_id"`
	RoomID     int64            `json:"room_id"`
	TimeslotID int64            `json:"timeslot_id"`
	Exam       *models.Exam     `json:"exam"`
	Room       *models.Room     `json:"room"`
	Timeslot   *models.TimeSlot `json:"timeslot"`
}

// StudentSchedule lists the scheduled exams a student is enrolled in.
type StudentSchedule struct {
	Student         models.Student     `json:"student"`
	VersionID       int64              `json:"version_id"`
	Schedules       []DetailedSchedule `json:"schedules"`
	EnrolledExamIDs []int64            `json:"enrolled_exam_ids"`
}
