// rand/rand.go
// Copyright(c) 2022-2025 radarsim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package rand

import (
	"time"

	"github.com/MichaelTJones/pcg"
)

///////////////////////////////////////////////////////////////////////////
// Random numbers.

// Rand is a small seedable random number generator. Simulation code never
// uses a global source so that a seed fully determines a run.
type Rand struct {
	r    *pcg.PCG32
	seed int64
}

// Make returns a Rand seeded from the current time.
func Make() *Rand {
	return MakeSeeded(time.Now().UnixNano())
}

// MakeSeeded returns a Rand whose sequence is fully determined by seed.
func MakeSeeded(seed int64) *Rand {
	r := &Rand{r: pcg.NewPCG32()}
	r.Seed(seed)
	return r
}

func (r *Rand) Seed(s int64) {
	r.seed = s
	r.r.Seed(uint64(s), 0xda3e39cb94b95bdb)
}

// InitialSeed returns the value most recently passed to Seed.
func (r *Rand) InitialSeed() int64 {
	return r.seed
}

// Intn returns a uniformly-distributed value in [0,n).
func (r *Rand) Intn(n int) int {
	return int(r.r.Bounded(uint32(n)))
}

// IntRange returns a uniformly-distributed value in [lo,hi].
func (r *Rand) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.Intn(hi-lo+1)
}

// Float32 returns a uniformly-distributed value in [0,1].
func (r *Rand) Float32() float32 {
	return float32(r.r.Random()) / (1<<32 - 1)
}

func (r *Rand) Uint32() uint32 {
	return r.r.Random()
}

// SampleSlice uniformly randomly samples an element of a non-empty slice.
func SampleSlice[T any](r *Rand, slice []T) T {
	return slice[r.Intn(len(slice))]
}

// SampleFiltered uniformly randomly samples a slice, returning the index
// of the sampled item, using provided predicate function to filter the
// items that may be sampled.  An index of -1 is returned if the slice is
// empty or the predicate returns false for all items.
func SampleFiltered[T any](r *Rand, slice []T, pred func(T) bool) int {
	idx := -1
	candidates := 0
	for i, v := range slice {
		if pred(v) {
			candidates++
			p := float32(1) / float32(candidates)
			if r.Float32() < p {
				idx = i
			}
		}
	}
	return idx
}

// SampleWeighted randomly samples an element from the given slice with the
// probability of choosing each element proportional to the value returned
// by the provided callback.
func SampleWeighted[T any](r *Rand, slice []T, weight func(T) int) int {
	// Weighted reservoir sampling...
	idx := -1
	sumWt := 0
	for i, v := range slice {
		w := weight(v)
		if w == 0 {
			continue
		}

		sumWt += w
		p := float32(w) / float32(sumWt)
		if r.Float32() < p {
			idx = i
		}
	}
	return idx
}
