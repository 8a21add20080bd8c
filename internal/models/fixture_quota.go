package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FixtureQuota is the per-fixture quota record written once per settlement.
// Overwritten on re-settlement (administrative corrections), read-only for
// everyone else; the tendency counts are kept for auditability.
type FixtureQuota struct {
	FixtureID string `gorm:"primaryKey;type:varchar(100)"`

	HomeQuota decimal.Decimal `gorm:"type:numeric(6,3);not null"`
	DrawQuota decimal.Decimal `gorm:"type:numeric(6,3);not null"`
	AwayQuota decimal.Decimal `gorm:"type:numeric(6,3);not null"`

	TotalPredictions int `gorm:"not null;default:0"`
	HomeCount        int `gorm:"not null;default:0"`
	DrawCount        int `gorm:"not null;default:0"`
	AwayCount        int `gorm:"not null;default:0"`

	ComputedAt time.Time `gorm:"type:timestamptz;not null"`
}

func (FixtureQuota) TableName() string {
	return "fixture_quotas"
}
