package room

import "errors"

var (
	ErrRoomFull           = errors.New("room-full")
	ErrRoomClosed         = errors.New("room-closed")
	ErrNoActiveQuestion   = errors.New("no-active-question")
	ErrStaleQuestion      = errors.New("stale-or-unknown-question")
	ErrUnknownPlayer      = errors.New("unknown-player")
	ErrDuplicateAnswer    = errors.New("duplicate-answer")
	ErrIneligibleSprinter = errors.New("ineligible-sprint-submission")
	ErrPoolExhausted      = errors.New("question-pool-exhausted")
	ErrNotEnoughPlayers   = errors.New("not-enough-players")
)
