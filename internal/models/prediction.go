package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PredictionStatusPending = "pending"
	PredictionStatusScored  = "scored"
	PredictionStatusVoid    = "void"
)

// Prediction is one predictor's submitted scoreline for one fixture.
// Created upstream before kickoff; mutated exactly once by settlement.
// ScoredAt is the idempotency marker: null exactly until settlement has
// processed the row, never unset afterwards.
type Prediction struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	FixtureID   string `gorm:"type:varchar(100);not null;index;uniqueIndex:ux_prediction_fixture_predictor,priority:1"`
	PredictorID string `gorm:"type:varchar(100);not null;index;uniqueIndex:ux_prediction_fixture_predictor,priority:2"`

	HomeScore int    `gorm:"not null"`
	AwayScore int    `gorm:"not null"`
	Status    string `gorm:"type:varchar(20);not null;default:'pending';index"`

	TendencyPoints   *decimal.Decimal `gorm:"type:numeric(6,3)"`
	GoalDiffPoints   *decimal.Decimal `gorm:"type:numeric(6,3)"`
	ExactScorePoints *decimal.Decimal `gorm:"type:numeric(6,3)"`
	TotalPoints      *decimal.Decimal `gorm:"type:numeric(6,3)"`

	ScoredAt *time.Time `gorm:"type:timestamptz;index"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Prediction) TableName() string {
	return "predictions"
}
