package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Predictor holds display metadata plus the longitudinal streak state and
// cumulative counters. Streak columns are written only by the settlement
// engine, under a row lock: a predictor can have pending scoring work from
// multiple fixtures settling concurrently.
type Predictor struct {
	ID          string `gorm:"primaryKey;type:varchar(100)"`
	DisplayName string `gorm:"type:text;not null"`
	Provider    string `gorm:"type:varchar(100)"`

	// Current streaks. Exact and correct-tendency run as independent
	// counters; an exact hit extends both. A wrong result resets both.
	ExactStreak    int `gorm:"not null;default:0"`
	TendencyStreak int `gorm:"not null;default:0"`
	WrongStreak    int `gorm:"not null;default:0"`

	// Lifetime totals.
	TotalPoints    decimal.Decimal `gorm:"type:numeric(12,3);not null;default:0"`
	FixturesScored int64           `gorm:"not null;default:0"`
	ExactCount     int64           `gorm:"not null;default:0"`
	TendencyCount  int64           `gorm:"not null;default:0"`
	WrongCount     int64           `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Predictor) TableName() string {
	return "predictors"
}
