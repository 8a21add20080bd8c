package scoring

import "github.com/shopspring/decimal"

var ten = decimal.NewFromInt(10)

// Distribution counts how many predictions chose each tendency.
type Distribution struct {
	Home int
	Draw int
	Away int
}

func (d Distribution) Total() int {
	return d.Home + d.Draw + d.Away
}

// CountTendencies reduces a set of predicted tendencies to a Distribution.
func CountTendencies(tendencies []Tendency) Distribution {
	var d Distribution
	for _, t := range tendencies {
		switch t {
		case TendencyHome:
			d.Home++
		case TendencyDraw:
			d.Draw++
		case TendencyAway:
			d.Away++
		}
	}
	return d
}

// QuotaSet is the per-fixture quota record: one value per tendency, each
// inside [MinQuota, MaxQuota].
type QuotaSet struct {
	Home decimal.Decimal
	Draw decimal.Decimal
	Away decimal.Decimal
}

func (q QuotaSet) For(t Tendency) decimal.Decimal {
	switch t {
	case TendencyHome:
		return q.Home
	case TendencyAway:
		return q.Away
	default:
		return q.Draw
	}
}

// Quotas computes the three quota values from the prediction distribution.
// Rarer tendencies yield quotas near MaxQuota; near-universal ones converge
// toward MinQuota. An outcome nobody predicted gets exactly MaxQuota, as
// does everything when there are no predictions at all.
func (c Config) Quotas(d Distribution) QuotaSet {
	total := d.Total()
	return QuotaSet{
		Home: c.quotaFor(d.Home, total),
		Draw: c.quotaFor(d.Draw, total),
		Away: c.quotaFor(d.Away, total),
	}
}

func (c Config) quotaFor(count, total int) decimal.Decimal {
	if total == 0 || count == 0 {
		return c.MaxQuota
	}
	p := decimal.NewFromInt(int64(count)).Div(decimal.NewFromInt(int64(total)))
	// raw = max/(10*p) - max/10 + min; the formula does not self-bound, so
	// clamp on both ends.
	raw := c.MaxQuota.Div(p.Mul(ten)).Sub(c.MaxQuota.Div(ten)).Add(c.MinQuota)
	return clamp(raw, c.MinQuota, c.MaxQuota)
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}
