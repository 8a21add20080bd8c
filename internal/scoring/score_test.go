package scoring

import (
	"testing"

	"github.com/shopspring/decimal"
)

func evenQuotas(v int64) QuotaSet {
	q := decimal.NewFromInt(v)
	return QuotaSet{Home: q, Draw: q, Away: q}
}

func TestScore_WrongTendency(t *testing.T) {
	b, err := Default().Score(2, 0, 0, 1, evenQuotas(4))
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if b.Outcome != OutcomeWrong {
		t.Fatalf("outcome=%s want wrong", b.Outcome)
	}
	if !b.Total.IsZero() {
		t.Fatalf("total=%s want 0", b.Total)
	}
}

func TestScore_TendencyOnly(t *testing.T) {
	b, err := Default().Score(2, 0, 3, 0, evenQuotas(4))
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if b.Outcome != OutcomeTendency {
		t.Fatalf("outcome=%s want tendency", b.Outcome)
	}
	if !b.TendencyPoints.Equal(decimal.NewFromInt(4)) {
		t.Fatalf("tendency points=%s want 4", b.TendencyPoints)
	}
	if !b.GoalDiffPoints.IsZero() || !b.ExactScorePoints.IsZero() {
		t.Fatalf("unexpected bonuses: %+v", b)
	}
}

func TestScore_GoalDiffBonus(t *testing.T) {
	b, err := Default().Score(2, 1, 3, 2, evenQuotas(4))
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if !b.GoalDiffPoints.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("goal diff points=%s want 1", b.GoalDiffPoints)
	}
	if !b.Total.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("total=%s want 5", b.Total)
	}
}

func TestScore_ExactImpliesTendency(t *testing.T) {
	for _, tc := range [][4]int{
		{2, 1, 2, 1},
		{0, 0, 0, 0},
		{1, 3, 1, 3},
	} {
		b, err := Default().Score(tc[0], tc[1], tc[2], tc[3], evenQuotas(3))
		if err != nil {
			t.Fatalf("err=%v", err)
		}
		if b.ExactScorePoints.IsZero() {
			t.Fatalf("exact bonus missing for %v", tc)
		}
		if b.TendencyPoints.IsZero() {
			t.Fatalf("exact without tendency points for %v", tc)
		}
	}
}

func TestScore_Bounded(t *testing.T) {
	cfg := Default()
	ten := decimal.NewFromInt(10)
	for ph := 0; ph <= 4; ph++ {
		for pa := 0; pa <= 4; pa++ {
			for ah := 0; ah <= 4; ah++ {
				for aa := 0; aa <= 4; aa++ {
					b, err := cfg.Score(ph, pa, ah, aa, evenQuotas(6))
					if err != nil {
						t.Fatalf("err=%v", err)
					}
					if b.Total.IsNegative() || b.Total.GreaterThan(ten) {
						t.Fatalf("total %s out of [0,10] for %d:%d vs %d:%d", b.Total, ph, pa, ah, aa)
					}
				}
			}
		}
	}
}

func TestScore_CapAtMaxTotal(t *testing.T) {
	cfg := Default()
	cfg.MaxQuota = decimal.NewFromInt(8)
	b, err := cfg.Score(2, 2, 2, 2, evenQuotas(8))
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	// 8 + 1 + 3 would be 12; capped at 10.
	if !b.Total.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("total=%s want 10", b.Total)
	}
}

func TestScore_UnanimousExactScoresSix(t *testing.T) {
	// Everyone predicted the same exact score and it occurred: quota is at
	// the minimum, so 2 + 1 + 3 = 6, not 10.
	cfg := Default()
	quotas := cfg.Quotas(Distribution{Home: 10})
	b, err := cfg.Score(2, 1, 2, 1, quotas)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if !b.Total.Equal(decimal.NewFromInt(6)) {
		t.Fatalf("total=%s want 6", b.Total)
	}
}

func TestScore_RejectsNegativeGoals(t *testing.T) {
	if _, err := Default().Score(-1, 0, 1, 0, evenQuotas(3)); err == nil {
		t.Fatalf("expected error for negative prediction")
	}
	if _, err := Default().Score(1, 0, -2, 0, evenQuotas(3)); err == nil {
		t.Fatalf("expected error for negative result")
	}
}

func TestTendencyOf(t *testing.T) {
	if TendencyOf(2, 1) != TendencyHome {
		t.Fatalf("2:1 should be home")
	}
	if TendencyOf(0, 0) != TendencyDraw {
		t.Fatalf("0:0 should be draw")
	}
	if TendencyOf(1, 3) != TendencyAway {
		t.Fatalf("1:3 should be away")
	}
}
