package game

import "math/rand"

// ShuffleOptions returns a presentation copy of q with its options permuted
// (Fisher-Yates) and Answer remapped to the permuted position of the correct
// option. q itself is never mutated.
func ShuffleOptions(q Question, rng *rand.Rand) Question {
	shuffled := make([]string, len(q.Options))
	copy(shuffled, q.Options)

	perm := make([]int, len(q.Options)) // perm[i] = original index shown at i
	for i := range perm {
		perm[i] = i
	}

	for i := len(shuffled) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		perm[i], perm[j] = perm[j], perm[i]
	}

	out := q
	out.Options = shuffled
	for i, orig := range perm {
		if orig == q.Answer {
			out.Answer = i
			break
		}
	}
	return out
}
