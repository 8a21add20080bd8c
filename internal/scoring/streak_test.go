package scoring

import (
	"testing"

	"tippliga/internal/models"
)

func TestStreakNext_Exact(t *testing.T) {
	s := Streak{Exact: 2, Tendency: 4, Wrong: 0}.Next(OutcomeExact)
	if s.Exact != 3 || s.Tendency != 5 || s.Wrong != 0 {
		t.Fatalf("streak=%+v", s)
	}
}

func TestStreakNext_TendencyBreaksExactRun(t *testing.T) {
	s := Streak{Exact: 2, Tendency: 4, Wrong: 0}.Next(OutcomeTendency)
	if s.Exact != 0 || s.Tendency != 5 || s.Wrong != 0 {
		t.Fatalf("streak=%+v", s)
	}
}

func TestStreakNext_WrongResetsEverything(t *testing.T) {
	s := Streak{Exact: 2, Tendency: 4, Wrong: 0}.Next(OutcomeWrong)
	if s.Exact != 0 || s.Tendency != 0 || s.Wrong != 1 {
		t.Fatalf("streak=%+v", s)
	}
	s = s.Next(OutcomeWrong)
	if s.Wrong != 2 {
		t.Fatalf("wrong streak=%d want 2", s.Wrong)
	}
}

func intPtr(v int) *int { return &v }

func TestShouldUpdateStreak(t *testing.T) {
	finished := &models.Fixture{
		Status:    models.FixtureStatusFinished,
		HomeScore: intPtr(2),
		AwayScore: intPtr(1),
	}
	if !ShouldUpdateStreak(finished, models.PredictionStatusScored) {
		t.Fatalf("finished fixture with scores should be eligible")
	}
	if ShouldUpdateStreak(finished, models.PredictionStatusVoid) {
		t.Fatalf("void prediction must not move streaks")
	}

	voided := &models.Fixture{
		Status:    models.FixtureStatusVoided,
		HomeScore: intPtr(2),
		AwayScore: intPtr(1),
	}
	if ShouldUpdateStreak(voided, models.PredictionStatusScored) {
		t.Fatalf("voided fixture must not move streaks")
	}

	missingScore := &models.Fixture{
		Status:    models.FixtureStatusFinished,
		HomeScore: intPtr(2),
	}
	if ShouldUpdateStreak(missingScore, models.PredictionStatusScored) {
		t.Fatalf("fixture without both scores must not move streaks")
	}

	if ShouldUpdateStreak(nil, models.PredictionStatusScored) {
		t.Fatalf("nil fixture must not move streaks")
	}
}
