package models

const (
	// DefaultVersionID is returned by version resolution when no version exists.
	DefaultVersionID int64 = 1
	// DefaultVersionName names the version created at start-up on an empty store.
	DefaultVersionName = "Default Schedule"
)

// ScheduleVersion is an isolated set of schedule assignments. At most one
// version is active; the active version is the implicit target of requests
// that carry no version selector.
type ScheduleVersion struct {
	ID     int64  `db:"id" json:"id"`
	Name   string `db:"name" json:"name"`
	Active bool   `db:"active" json:"active"`
}
