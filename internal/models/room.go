package models

// Room is a physical exam venue.
type Room struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Capacity int    `db:"capacity" json:"capacity"`
	Building string `db:"building" json:"building"`
}
