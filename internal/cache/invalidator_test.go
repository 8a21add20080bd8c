package cache

import "testing"

func TestFixturePatterns(t *testing.T) {
	patterns := FixturePatterns("f42", []string{"m01", "m02"})
	want := []string{
		"fixture:f42:*",
		"leaderboard:*",
		"stats:global:*",
		"predictor:m01:*",
		"predictor:m02:*",
	}
	if len(patterns) != len(want) {
		t.Fatalf("patterns=%v", patterns)
	}
	for i := range want {
		if patterns[i] != want[i] {
			t.Fatalf("pattern[%d]=%q want %q", i, patterns[i], want[i])
		}
	}
}

func TestFixturePatterns_NoPredictors(t *testing.T) {
	patterns := FixturePatterns("f1", nil)
	if len(patterns) != 3 {
		t.Fatalf("patterns=%v", patterns)
	}
}

func TestInvalidate_NilReceiverAndClient(t *testing.T) {
	var i *Invalidator
	if n := i.Invalidate(nil, []string{"x:*"}); n != 0 {
		t.Fatalf("nil invalidator deleted %d keys", n)
	}
	empty := &Invalidator{}
	if n := empty.Invalidate(nil, []string{"x:*"}); n != 0 {
		t.Fatalf("client-less invalidator deleted %d keys", n)
	}
}
