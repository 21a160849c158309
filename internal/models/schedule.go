package models

// Schedule assigns an exam to a room and timeslot within a version.
type Schedule struct {
	ID         int64 `db:"id" json:"id"`
	VersionID  int64 `db:"version_id" json:"version_id"`
	ExamID     int64 `db:"exam_id" json:"exam_id"`
	RoomID     int64 `db:"room_id" json:"room_id"`
	TimeslotID int64 `db:"timeslot_id" json:"timeslot_id"`
}
