// rand/rand_test.go
// Copyright(c) 2022-2025 radarsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package rand

import (
	"testing"
)

func TestSeededSequencesMatch(t *testing.T) {
	a, b := MakeSeeded(42), MakeSeeded(42)
	for i := range 1000 {
		if x, y := a.Uint32(), b.Uint32(); x != y {
			t.Fatalf("sequence diverged at %d: %d vs %d", i, x, y)
		}
	}

	c := MakeSeeded(43)
	same := 0
	for range 100 {
		if a.Uint32() == c.Uint32() {
			same++
		}
	}
	if same > 5 {
		t.Errorf("different seeds produced %d identical values out of 100", same)
	}
	if a.InitialSeed() != 42 {
		t.Errorf("InitialSeed: got %d", a.InitialSeed())
	}
}

func TestRanges(t *testing.T) {
	r := MakeSeeded(1)
	for range 10000 {
		if v := r.Intn(7); v < 0 || v >= 7 {
			t.Fatalf("Intn(7) returned %d", v)
		}
		if v := r.IntRange(250, 320); v < 250 || v > 320 {
			t.Fatalf("IntRange(250, 320) returned %d", v)
		}
		if f := r.Float32(); f < 0 || f > 1 {
			t.Fatalf("Float32 returned %f", f)
		}
	}
	if v := r.IntRange(5, 5); v != 5 {
		t.Errorf("IntRange(5, 5) returned %d", v)
	}
}

func TestSampleFiltered(t *testing.T) {
	r := MakeSeeded(7)
	if SampleFiltered(r, []int{}, func(int) bool { return true }) != -1 {
		t.Errorf("Returned non-zero for empty slice")
	}
	if SampleFiltered(r, []int{0, 1, 2, 3, 4}, func(int) bool { return false }) != -1 {
		t.Errorf("Returned non-zero for fully filtered")
	}

	var counts [5]int
	for range 2000 {
		idx := SampleFiltered(r, []int{0, 1, 2, 3, 4}, func(v int) bool { return v%2 == 0 })
		counts[idx]++
	}
	if counts[1] != 0 || counts[3] != 0 {
		t.Errorf("filtered items were sampled: %v", counts)
	}
	for _, i := range []int{0, 2, 4} {
		if counts[i] < 500 {
			t.Errorf("item %d sampled only %d times: %v", i, counts[i], counts)
		}
	}
}

func TestSampleWeighted(t *testing.T) {
	r := MakeSeeded(11)
	items := []int{0, 1, 2}
	var counts [3]int
	for range 3000 {
		idx := SampleWeighted(r, items, func(v int) int { return v })
		counts[idx]++
	}
	if counts[0] != 0 {
		t.Errorf("zero-weight item sampled %d times", counts[0])
	}
	if counts[2] < counts[1] {
		t.Errorf("expected heavier item to be sampled more often: %v", counts)
	}
}
