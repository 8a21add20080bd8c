package scoring

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestIsUpset_FavoriteLoses(t *testing.T) {
	cfg := Default()
	if !cfg.IsUpset(TendencyHome, decimal.NewFromFloat(0.8), TendencyAway) {
		t.Fatalf("strong favorite losing should be an upset")
	}
	if !cfg.IsUpset(TendencyHome, decimal.NewFromFloat(0.8), TendencyDraw) {
		t.Fatalf("strong favorite drawing should be an upset")
	}
}

func TestIsUpset_FavoriteWins(t *testing.T) {
	cfg := Default()
	if cfg.IsUpset(TendencyHome, decimal.NewFromFloat(0.8), TendencyHome) {
		t.Fatalf("favorite winning is not an upset")
	}
}

func TestIsUpset_WeakFavorite(t *testing.T) {
	cfg := Default()
	if cfg.IsUpset(TendencyHome, decimal.NewFromFloat(0.5), TendencyAway) {
		t.Fatalf("probability below threshold never flags")
	}
}

func TestIsUpset_DegenerateProbability(t *testing.T) {
	cfg := Default()
	for _, p := range []decimal.Decimal{
		decimal.Zero,
		decimal.NewFromFloat(-0.3),
		decimal.NewFromFloat(1.2),
	} {
		if cfg.IsUpset(TendencyHome, p, TendencyAway) {
			t.Fatalf("degenerate probability %s must never flag", p)
		}
	}
}

func TestIsUpset_UnknownFavorite(t *testing.T) {
	cfg := Default()
	if cfg.IsUpset(Tendency("banana"), decimal.NewFromFloat(0.9), TendencyAway) {
		t.Fatalf("unknown favorite tendency must never flag")
	}
}
