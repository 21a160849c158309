package dto

import "github.com/noah-isme/informs-api/internal/models"

// Conflict lists the exams one student has in the same timeslot.
type Conflict struct {
	Student  *models.Student  `json:"student"`
	Timeslot *models.TimeSlot `json:"timeslot"`
	Exams    []models.Exam    `json:"exams"`
}

// ConflictReport is the conflict view of one version.
type ConflictReport struct {
	VersionID      int64      `json:"version_id"`
	TotalConflicts int        `json:"total_conflicts"`
	Conflicts      []Conflict `json:"conflicts"`
}

// CapacityWarning flags a schedule whose exam outgrows its room.
type CapacityWarning struct {
	ScheduleID int64  `json:"schedule_id"`
	Exam       string `json:"exam"`
	Students   int    `json:"students"`
	Room       string `json:"room"`
	Capacity   int    `json:"capacity"`
}

// RoomUsage counts schedule rows assigned to a room.
type RoomUsage struct {
	RoomID int64  `json:"room_id"`
	Room   string `json:"room"`
	Count  int    `json:"count"`
}

// Analytics summarises one version.
type Analytics struct {
	VersionID        int64             `json:"version_id"`
	TotalExams       int               `json:"total_exams"`
	ScheduledExams   int               `json:"scheduled_exams"`
	TotalRooms       int               `json:"total_rooms"`
	TotalStudents    int               `json:"total_students"`
	TotalTimeslots   int               `json:"total_timeslots"`
	ConflictCount    int               `json:"conflict_count"`
	AffectedStudents int               `json:"affected_students"`
	CapacityWarnings []CapacityWarning `json:"capacity_warnings"`
	RoomUsage        []RoomUsage       `json:"room_usage"`
}
