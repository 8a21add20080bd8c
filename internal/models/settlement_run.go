package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	SettlementRunCommitted = "committed"
	SettlementRunNoOp      = "noop"
	SettlementRunVoided    = "voided"
)

// SettlementRun is the audit record of one committed settlement attempt.
// Written inside the settlement transaction, so a run row exists iff the
// attempt committed. Aborted attempts leave no trace by design of the
// surrounding transaction.
type SettlementRun struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	FixtureID string `gorm:"type:varchar(100);not null;index"`

	Status            string `gorm:"type:varchar(20);not null;index"`
	PredictionsScored int    `gorm:"not null;default:0"`
	StreaksUpdated    int    `gorm:"not null;default:0"`
	Upset             bool   `gorm:"not null;default:false"`

	// Cache key patterns handed to the post-commit notifier.
	CachePatterns datatypes.JSON `gorm:"type:jsonb"`

	DurationMs int64     `gorm:"not null;default:0"`
	CreatedAt  time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
}

func (SettlementRun) TableName() string {
	return "settlement_runs"
}
