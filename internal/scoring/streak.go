package scoring

import "tippliga/internal/models"

// Streak is the current run state of one predictor. Exact and correct
// tendency run as independent counters: an exact hit extends both, a merely
// correct tendency breaks the exact run, and a wrong result resets both
// while extending the wrong run.
type Streak struct {
	Exact    int
	Tendency int
	Wrong    int
}

// Next applies one fixture's outcome classification to the streak state.
func (s Streak) Next(o Outcome) Streak {
	switch o {
	case OutcomeExact:
		return Streak{Exact: s.Exact + 1, Tendency: s.Tendency + 1, Wrong: 0}
	case OutcomeTendency:
		return Streak{Exact: 0, Tendency: s.Tendency + 1, Wrong: 0}
	default:
		return Streak{Exact: 0, Tendency: 0, Wrong: s.Wrong + 1}
	}
}

// ShouldUpdateStreak is the eligibility gate: streaks move only for
// fixtures that finished with both scores present and only for predictions
// that are not void. Voided or postponed fixtures leave streaks untouched
// so administrative corrections cannot corrupt predictor history.
func ShouldUpdateStreak(fixture *models.Fixture, predictionStatus string) bool {
	if fixture == nil || !fixture.HasFinalResult() {
		return false
	}
	return predictionStatus != models.PredictionStatusVoid
}
