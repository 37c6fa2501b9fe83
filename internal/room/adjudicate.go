package room

import (
	"go.uber.org/zap"

	"github.com/quizarena/trivia-backend/internal/game"
	"github.com/quizarena/trivia-backend/internal/types"
)

// SubmitBasicAnswer records one player's answer to the current basic
// question. Replays, stale question ids and unknown players are rejected
// with a sentinel error and no state change; the transport treats those as
// silent no-ops. When the last player answers, the window timer is
// invalidated before resolution so it can never fire a second one.
func (r *Room) SubmitBasicAnswer(playerID, questionID string, answerIndex int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current == nil {
		return ErrNoActiveQuestion
	}
	if r.current.ID != questionID || r.current.Type != game.QuestionBasic {
		return ErrStaleQuestion
	}
	p := r.findPlayerLocked(playerID)
	if p == nil {
		return ErrUnknownPlayer
	}
	if p.LastAnswer != nil {
		return ErrDuplicateAnswer
	}

	correct := answerIndex == r.current.Answer
	p.LastAnswer = &game.Answer{Correct: correct}
	r.log.Info("basic answer", zap.String("player", p.ID), zap.Bool("correct", correct))

	r.cfg.Broadcast.ToPlayer(playerID, types.EvtAnswerConfirmed, types.AnswerConfirmed{
		IsCorrect:   correct,
		QuestionID:  questionID,
		AnswerIndex: answerIndex,
	})

	for _, pl := range r.players {
		if pl.LastAnswer == nil {
			return nil
		}
	}
	r.invalidateTimersLocked()
	r.resolveBasicLocked()
	return nil
}

// SubmitSprintAnswer handles a tie-break submission. Only players who were
// correct in the basic phase may submit; a wrong answer gets a private
// reveal and changes nothing, a correct one records the latency and may
// complete the sprint.
func (r *Room) SubmitSprintAnswer(playerID, questionID string, answerIndex int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current == nil {
		return ErrNoActiveQuestion
	}
	if r.current.ID != questionID || r.current.Type != game.QuestionSprint {
		return ErrStaleQuestion
	}
	p := r.findPlayerLocked(playerID)
	if p == nil {
		return ErrUnknownPlayer
	}
	if p.LastAnswer == nil || !p.LastAnswer.Correct {
		return ErrIneligibleSprinter
	}
	if p.LastAnswer.Time != nil {
		return ErrDuplicateAnswer
	}

	if answerIndex != r.current.Answer {
		correct := r.current.Answer
		r.cfg.Broadcast.ToPlayer(playerID, types.EvtSprintAnswerResult, types.SprintAnswerResult{
			IsCorrect:     false,
			CorrectAnswer: &correct,
		})
		return nil
	}

	elapsed := r.cfg.Now().Sub(r.sprintStart)
	p.LastAnswer.Time = &elapsed
	r.log.Info("sprint answer", zap.String("player", p.ID), zap.Duration("elapsed", elapsed))

	ms := elapsed.Milliseconds()
	r.cfg.Broadcast.ToPlayer(playerID, types.EvtSprintAnswerResult, types.SprintAnswerResult{
		IsCorrect: true,
		TimeMs:    &ms,
	})
	r.cfg.Broadcast.ToRoom(r.cfg.ID, types.EvtSprintUpdate, types.SprintUpdate{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Time:       formatSeconds(elapsed),
	})

	r.maybeFinishSprintLocked()
	return nil
}
