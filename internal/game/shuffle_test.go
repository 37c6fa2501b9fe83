package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShuffleOptions_AnswerSurvivesEveryPermutation(t *testing.T) {
	q := Question{
		ID:      "q1",
		Type:    QuestionBasic,
		Options: []string{"a", "b", "c", "d"},
		Answer:  2,
	}

	for seed := int64(0); seed < 200; seed++ {
		rng := rand.New(rand.NewSource(seed))
		shuffled := ShuffleOptions(q, rng)

		require.Len(t, shuffled.Options, len(q.Options))
		assert.Equal(t, q.Options[q.Answer], shuffled.Options[shuffled.Answer],
			"seed %d: remapped answer points at the wrong option", seed)
		assert.ElementsMatch(t, q.Options, shuffled.Options, "seed %d: not a permutation", seed)
	}
}

func TestShuffleOptions_DeterministicUnderSeed(t *testing.T) {
	q := Question{Options: []string{"a", "b", "c", "d"}, Answer: 0}

	first := ShuffleOptions(q, rand.New(rand.NewSource(42)))
	second := ShuffleOptions(q, rand.New(rand.NewSource(42)))
	require.Equal(t, first, second)
}

func TestShuffleOptions_HandlesDuplicateOptionText(t *testing.T) {
	// two options share text; the remapped index must still track the
	// correct slot, not just equal text
	q := Question{Options: []string{"same", "same", "other"}, Answer: 2}
	for seed := int64(0); seed < 50; seed++ {
		shuffled := ShuffleOptions(q, rand.New(rand.NewSource(seed)))
		require.Equal(t, "other", shuffled.Options[shuffled.Answer])
	}
}

func TestShuffleOptions_DoesNotMutateSource(t *testing.T) {
	q := Question{Options: []string{"a", "b", "c"}, Answer: 1}
	_ = ShuffleOptions(q, rand.New(rand.NewSource(3)))
	require.Equal(t, []string{"a", "b", "c"}, q.Options)
	require.Equal(t, 1, q.Answer)
}
