package model

import "time"

// ZoneSnapshot is the last successfully computed summary for a zone.
// One row per zone, replaced wholesale on every successful tracker cycle.
type ZoneSnapshot struct {
	Zone      string    `gorm:"primaryKey;size:64"`
	Data      string    `gorm:"type:text;not null"` // serialized ZoneSummary
	UpdatedAt time.Time `gorm:"not null"`
}
