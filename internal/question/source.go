package question

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"slices"
	"sync"

	"github.com/quizarena/trivia-backend/internal/game"
)

// ErrExhausted means no question of the requested type survives the
// category/used filters. Callers may recycle their used set and retry.
var ErrExhausted = errors.New("question pool exhausted")

// Source hands out one question per call. Implementations must not return a
// question whose id is in used, and must honor the category filter when
// categories is non-empty.
type Source interface {
	Pick(t game.QuestionType, categories []string, used map[string]bool) (game.Question, error)
}

// FileSource serves questions from a flat JSON array loaded once at
// construction. Selection is uniform over the filtered candidates. Safe for
// concurrent use; rooms in different goroutines share one source.
type FileSource struct {
	questions []game.Question

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

func NewFileSource(path string, rng *rand.Rand) (*FileSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	var qs []game.Question
	if err := json.Unmarshal(data, &qs); err != nil {
		return nil, fmt.Errorf("parse question bank %s: %w", path, err)
	}
	return &FileSource{questions: qs, rng: rng}, nil
}

// NewStaticSource wraps an in-memory question list. Used by tests and demos.
func NewStaticSource(qs []game.Question, rng *rand.Rand) *FileSource {
	return &FileSource{questions: qs, rng: rng}
}

func (s *FileSource) Pick(t game.QuestionType, categories []string, used map[string]bool) (game.Question, error) {
	var candidates []game.Question
	for _, q := range s.questions {
		if q.Type != t || used[q.ID] {
			continue
		}
		if len(categories) > 0 && !slices.Contains(categories, q.Category) {
			continue
		}
		candidates = append(candidates, q)
	}
	if len(candidates) == 0 {
		return game.Question{}, ErrExhausted
	}
	s.mu.Lock()
	i := s.rng.Intn(len(candidates))
	s.mu.Unlock()
	return candidates[i], nil
}
