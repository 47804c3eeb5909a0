package rating

import "testing"

func TestDelta_EqualRatings(t *testing.T) {
	if got := Delta(1200, 1200); got != 16 {
		t.Fatalf("Delta(1200, 1200) = %d, want 16", got)
	}
}

func TestDelta_UpsetMovesMore(t *testing.T) {
	upset := Delta(1100, 1400)
	expected := Delta(1400, 1100)

	if upset <= expected {
		t.Fatalf("upset delta %d should exceed favourite delta %d", upset, expected)
	}
	if upset > K {
		t.Fatalf("delta %d exceeds K=%d", upset, K)
	}
	if expected < 0 {
		t.Fatalf("favourite delta %d went negative", expected)
	}
}

func TestDelta_Deterministic(t *testing.T) {
	first := Delta(1312, 1187)
	for i := 0; i < 100; i++ {
		if got := Delta(1312, 1187); got != first {
			t.Fatalf("Delta changed between calls: %d vs %d", got, first)
		}
	}
}

func TestExpected_Symmetry(t *testing.T) {
	a, b := 1250, 1420
	sum := Expected(a, b) + Expected(b, a)
	if diff := sum - 1; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("Expected(a,b) + Expected(b,a) = %v, want 1", sum)
	}
}

func TestTeamRating(t *testing.T) {
	if got := TeamRating([]int{1200}); got != 1200 {
		t.Fatalf("single rating should pass through, got %d", got)
	}
	if got := TeamRating([]int{1200, 1300}); got != 1250 {
		t.Fatalf("TeamRating([1200 1300]) = %d, want 1250", got)
	}
	if got := TeamRating([]int{1200, 1301}); got != 1251 {
		t.Fatalf("mean should round to nearest, got %d", got)
	}
	if got := TeamRating(nil); got != Initial {
		t.Fatalf("empty side defaults to Initial, got %d", got)
	}
}
