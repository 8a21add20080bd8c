package scoring

import "github.com/shopspring/decimal"

var one = decimal.NewFromInt(1)

// IsUpset reports whether the final result contradicts a strong pre-match
// favorite. Display-only: a missing or degenerate probability (zero,
// negative, above one) simply means the fixture is never flagged.
func (c Config) IsUpset(favorite Tendency, probability decimal.Decimal, actual Tendency) bool {
	switch favorite {
	case TendencyHome, TendencyDraw, TendencyAway:
	default:
		return false
	}
	if probability.LessThanOrEqual(decimal.Zero) || probability.GreaterThan(one) {
		return false
	}
	if probability.LessThan(c.MinFavoriteProb) {
		return false
	}
	return actual != favorite
}
