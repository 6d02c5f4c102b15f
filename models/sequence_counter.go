package models

import "time"

// SequenceCounter stores the last issued value for named, year-scoped monotonic counters.
// The value strictly increases within a year and resets to 1 when the year advances.
// Rows are created lazily on first use of a key and never deleted.
type SequenceCounter struct {
	Key       string    `gorm:"primaryKey;size:64" json:"key"`
	Year      int       `gorm:"not null" json:"year"`
	Value     int64     `gorm:"not null;default:0" json:"value"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (SequenceCounter) TableName() string { return "sequence_counters" }
