package scoring

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Breakdown is one prediction's awarded points, tracked per component for
// transparency even though the exact bonus implies the goal-diff condition.
type Breakdown struct {
	Outcome          Outcome
	TendencyPoints   decimal.Decimal
	GoalDiffPoints   decimal.Decimal
	ExactScorePoints decimal.Decimal
	Total            decimal.Decimal
}

// Score computes the point breakdown for one prediction given the final
// result and the fixture's quotas. Malformed inputs (negative goal counts)
// are rejected; the coordinator turns that into a settlement abort.
func (c Config) Score(predHome, predAway, actualHome, actualAway int, quotas QuotaSet) (Breakdown, error) {
	if predHome < 0 || predAway < 0 {
		return Breakdown{}, fmt.Errorf("malformed prediction %d:%d", predHome, predAway)
	}
	if actualHome < 0 || actualAway < 0 {
		return Breakdown{}, fmt.Errorf("malformed result %d:%d", actualHome, actualAway)
	}

	predicted := TendencyOf(predHome, predAway)
	actual := TendencyOf(actualHome, actualAway)

	b := Breakdown{
		Outcome:          OutcomeWrong,
		TendencyPoints:   decimal.Zero,
		GoalDiffPoints:   decimal.Zero,
		ExactScorePoints: decimal.Zero,
	}

	if predicted == actual {
		b.Outcome = OutcomeTendency
		b.TendencyPoints = quotas.For(predicted)
		if predHome-predAway == actualHome-actualAway {
			b.GoalDiffPoints = c.GoalDiffBonus
		}
		if predHome == actualHome && predAway == actualAway {
			b.Outcome = OutcomeExact
			b.ExactScorePoints = c.ExactScoreBonus
		}
	}

	total := b.TendencyPoints.Add(b.GoalDiffPoints).Add(b.ExactScorePoints)
	if total.GreaterThan(c.MaxTotalPoints) {
		total = c.MaxTotalPoints
	}
	b.Total = total
	return b, nil
}
