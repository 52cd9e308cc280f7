package core

import "testing"

func TestScatterDeterministic(t *testing.T) {
	type drop struct {
		x, y   int
		grains uint64
	}
	collect := func(seed int64) []drop {
		var out []drop
		Scatter(NewRNG(seed), 64, 5, 7, func(x, y int, grains uint64) {
			out = append(out, drop{x, y, grains})
		})
		return out
	}

	a, b := collect(3), collect(3)
	if len(a) != 64 || len(b) != 64 {
		t.Fatalf("expected 64 drops, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("drop %d differs between identical seeds: %v vs %v", i, a[i], b[i])
		}
		d := a[i]
		if d.x < -5 || d.x > 5 || d.y < -5 || d.y > 5 {
			t.Fatalf("drop %d outside radius: %v", i, d)
		}
		if d.grains < 1 || d.grains > 7 {
			t.Fatalf("drop %d grains out of range: %d", i, d.grains)
		}
	}
}

func TestIntRangeDegenerate(t *testing.T) {
	r := NewRNG(1)
	if got := r.IntRange(4, 4); got != 4 {
		t.Fatalf("IntRange(4,4) = %d", got)
	}
	if got := r.IntRange(9, 2); got != 9 {
		t.Fatalf("IntRange(9,2) = %d", got)
	}
	if got := r.Uint64n(0); got != 0 {
		t.Fatalf("Uint64n(0) = %d", got)
	}
}
