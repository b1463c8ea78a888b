package common

import (
	"math/rand"
	"time"
)

// ShuffleQuestions returns a uniformly random permutation of questions
// using the Fisher-Yates shuffle. The input slice is never mutated.
// Pass a seeded rng for deterministic results; a nil rng uses a
// time-seeded source.
func ShuffleQuestions(questions []QuizQuestion, rng *rand.Rand) []QuizQuestion {
	shuffled := make([]QuizQuestion, len(questions))
	copy(shuffled, questions)

	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	for i := len(shuffled) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	return shuffled
}
