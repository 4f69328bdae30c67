package quiz

import "math/rand/v2"

// Shuffler produces shuffled copies of choice lists.
type Shuffler struct {
	rng *rand.Rand
}

// NewShuffler returns a Shuffler drawing from src, or from a randomly seeded
// PCG when src is nil.
func NewShuffler(src rand.Source) *Shuffler {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Shuffler{rng: rand.New(src)}
}

// Shuffle returns a shuffled copy of choices; the input is not modified.
func (s *Shuffler) Shuffle(choices []string) []string {
	out := make([]string, len(choices))
	copy(out, choices)
	s.rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
