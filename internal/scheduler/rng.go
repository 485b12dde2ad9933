package scheduler

import "math/rand"

// generationRNG derives a deterministic per-generation random source from a
// run's base seed so that parallelised fitness evaluation never perturbs
// the sequence the variation operators consume — the same (baseSeed,
// generation) pair always yields the same stream. Per-offspring streams are
// drawn off this one sequentially (see childRNGFrom in evolution.go), not
// re-derived from (baseSeed, generation, child).
func generationRNG(baseSeed int64, generation int) *rand.Rand {
	return rand.New(rand.NewSource(baseSeed ^ int64(generation)*2654435761))
}
