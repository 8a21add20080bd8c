// Package scoring holds the pure calculators of the settlement engine:
// quota derivation from the prediction distribution, per-prediction point
// breakdowns, streak transitions and upset detection. Nothing in this
// package performs I/O; everything is deterministic given its inputs.
package scoring

import (
	"github.com/shopspring/decimal"

	"tippliga/internal/config"
)

// Tendency is the coarse outcome direction of a fixture, independent of
// the exact scoreline.
type Tendency string

const (
	TendencyHome Tendency = "home"
	TendencyDraw Tendency = "draw"
	TendencyAway Tendency = "away"
)

// TendencyOf derives the tendency from a scoreline.
func TendencyOf(home, away int) Tendency {
	switch {
	case home > away:
		return TendencyHome
	case home < away:
		return TendencyAway
	default:
		return TendencyDraw
	}
}

// Outcome classifies one prediction against the final result.
type Outcome string

const (
	OutcomeExact    Outcome = "exact"
	OutcomeTendency Outcome = "tendency"
	OutcomeWrong    Outcome = "wrong"
)

// Config carries the quota bounds and bonus constants as decimals. Built
// once from configuration and passed to the calculators explicitly.
type Config struct {
	MinQuota        decimal.Decimal
	MaxQuota        decimal.Decimal
	GoalDiffBonus   decimal.Decimal
	ExactScoreBonus decimal.Decimal
	MaxTotalPoints  decimal.Decimal
	MinFavoriteProb decimal.Decimal
}

func FromConfig(c config.ScoringConfig) Config {
	return Config{
		MinQuota:        decimal.NewFromFloat(c.MinQuota),
		MaxQuota:        decimal.NewFromFloat(c.MaxQuota),
		GoalDiffBonus:   decimal.NewFromFloat(c.GoalDiffBonus),
		ExactScoreBonus: decimal.NewFromFloat(c.ExactScoreBonus),
		MaxTotalPoints:  decimal.NewFromFloat(c.MaxTotalPoints),
		MinFavoriteProb: decimal.NewFromFloat(c.MinFavoriteProb),
	}
}

// Default returns the production constants: quotas in [2,6], +1 goal-diff
// bonus, +3 exact bonus, totals capped at 10.
func Default() Config {
	return Config{
		MinQuota:        decimal.NewFromInt(2),
		MaxQuota:        decimal.NewFromInt(6),
		GoalDiffBonus:   decimal.NewFromInt(1),
		ExactScoreBonus: decimal.NewFromInt(3),
		MaxTotalPoints:  decimal.NewFromInt(10),
		MinFavoriteProb: decimal.NewFromFloat(0.65),
	}
}
