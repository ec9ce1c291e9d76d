package scoring

import (
	"testing"

	"risclens_backend/internal/intel/domain"
)

func TestScoreAllCombinations(t *testing.T) {
	// Exhaustive over the 2^6 marker combinations: the total must always be
	// the sum of the weights of the true markers, and never leave [0, 100].
	for mask := 0; mask < 1<<len(domain.MarkerNames); mask++ {
		markers := make(domain.Markers)
		wantTotal := 0
		for i, name := range domain.MarkerNames {
			if mask&(1<<i) != 0 {
				markers[name] = true
				wantTotal += Weights[name]
			}
		}

		breakdown, total := Score(markers)

		if total != wantTotal {
			t.Fatalf("mask %06b: total = %d, want %d", mask, total, wantTotal)
		}
		if total < 0 || total > 100 {
			t.Fatalf("mask %06b: total %d out of range", mask, total)
		}
		if len(breakdown) != len(domain.MarkerNames) {
			t.Fatalf("mask %06b: breakdown has %d entries", mask, len(breakdown))
		}
		for _, name := range domain.MarkerNames {
			want := 0
			if markers[name] {
				want = Weights[name]
			}
			if breakdown[name] != want {
				t.Fatalf("mask %06b: breakdown[%s] = %d, want %d", mask, name, breakdown[name], want)
			}
		}
	}
}

func TestScoreEmptyMarkers(t *testing.T) {
	breakdown, total := Score(domain.Markers{})
	if total != 0 {
		t.Fatalf("total = %d, want 0", total)
	}
	for name, v := range breakdown {
		if v != 0 {
			t.Fatalf("breakdown[%s] = %d, want 0", name, v)
		}
	}
}

func TestIndexableThreshold(t *testing.T) {
	cases := []struct {
		score int
		want  bool
	}{
		{0, false},
		{29, false},
		{30, true},
		{65, true},
		{100, true},
	}
	for _, tc := range cases {
		if got := Indexable(tc.score); got != tc.want {
			t.Fatalf("Indexable(%d) = %v, want %v", tc.score, got, tc.want)
		}
	}
}

func TestWeightsSumTo100(t *testing.T) {
	sum := 0
	for _, w := range Weights {
		sum += w
	}
	if sum != 100 {
		t.Fatalf("weights sum = %d, want 100", sum)
	}
}
