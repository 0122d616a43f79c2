package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UsageRecord tracks scans consumed by one account in the current
// billing cycle. Exactly one row exists per user; creation is an
// idempotent upsert keyed on UserID. ScansThisMonth only ever grows
// within a cycle and is reset to zero at cycle rollover.
type UsageRecord struct {
	gorm.Model
	UserID         uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	ScansThisMonth int       `gorm:"not null;default:0"`
	PurchasedScans int       `gorm:"not null;default:0"`
	CycleStart     time.Time `gorm:"not null"`
}

// ScanRecord is one completed ingredient analysis, kept for the
// "recent scans" history.
type ScanRecord struct {
	gorm.Model
	UserID      uuid.UUID `gorm:"type:uuid;index"`
	Score       int
	Explanation string
	ImageObject string
}
