package models

// TimeSlot is an exam period. Times and date are stored verbatim.
type TimeSlot struct {
	ID        int64  `db:"id" json:"id"`
	StartTime string `db:"start_time" json:"start_time"`
	EndTime   string `db:"end_time" json:"end_time"`
	Date      string `db:"date" json:"date"`
}
