package game

import (
	"errors"
	"time"
)

var ErrUnknownMode = errors.New("unknown mode")

type Mode string

const (
	ModeDuel        Mode = "duel"
	ModeAlliance1v2 Mode = "alliance-1v2"
	ModeAlliance2v2 Mode = "alliance-2v2"
)

// RequiredPlayers is the fixed capacity implied by a mode.
func (m Mode) RequiredPlayers() int {
	switch m {
	case ModeDuel:
		return 2
	case ModeAlliance1v2:
		return 3
	case ModeAlliance2v2:
		return 4
	default:
		return 2
	}
}

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeDuel, ModeAlliance1v2, ModeAlliance2v2:
		return Mode(s), nil
	default:
		return "", ErrUnknownMode
	}
}

type QuestionType string

const (
	QuestionBasic  QuestionType = "basic"
	QuestionSprint QuestionType = "sprint"
)

// Question is immutable once loaded from a source. Answer indexes into
// Options. The variant a client sees is a shuffled copy produced by
// ShuffleOptions; the room stores that copy so incoming option indices are
// judged against the exact rendering the client was shown.
type Question struct {
	ID       string       `json:"id"`
	Text     string       `json:"text"`
	Type     QuestionType `json:"type"`
	Category string       `json:"category"`
	Options  []string     `json:"options"`
	Answer   int          `json:"answer"`
}

// Answer records one player's response to the current question. Time is set
// only for a correct sprint answer (elapsed since sprint start).
type Answer struct {
	Correct bool
	Time    *time.Duration
}

const WinPoints = 10

type Player struct {
	ID         string
	Name       string
	Team       int
	Score      int
	LastAnswer *Answer
}
