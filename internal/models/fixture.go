package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fixture lifecycle statuses. Ingestion owns the row; the settlement engine
// only reads status/result and writes the settlement marker and upset flag.
const (
	FixtureStatusUpcoming = "upcoming"
	FixtureStatusLive     = "live"
	FixtureStatusFinished = "finished"
	FixtureStatusVoided   = "voided"
)

type Fixture struct {
	ID          string    `gorm:"primaryKey;type:varchar(100)"`
	HomeTeam    string    `gorm:"type:text;not null"`
	AwayTeam    string    `gorm:"type:text;not null"`
	Competition string    `gorm:"type:varchar(100);index"`
	KickoffAt   time.Time `gorm:"type:timestamptz;not null;index"`
	Status      string    `gorm:"type:varchar(20);not null;default:'upcoming';index"`

	HomeScore *int `gorm:"type:int"`
	AwayScore *int `gorm:"type:int"`

	// Pre-match favorite estimate, written upstream. Optional; settlement
	// only reads it for upset flagging.
	FavoriteTendency    *string          `gorm:"type:varchar(10)"`
	FavoriteProbability *decimal.Decimal `gorm:"type:numeric(6,4)"`

	Upset     bool       `gorm:"not null;default:false"`
	SettledAt *time.Time `gorm:"type:timestamptz;index"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Fixture) TableName() string {
	return "fixtures"
}

// HasFinalResult reports whether the fixture carries a usable final score.
func (f *Fixture) HasFinalResult() bool {
	return f != nil && f.Status == FixtureStatusFinished && f.HomeScore != nil && f.AwayScore != nil
}
