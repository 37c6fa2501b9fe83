package room

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/quizarena/trivia-backend/internal/game"
	"github.com/quizarena/trivia-backend/internal/question"
	"github.com/quizarena/trivia-backend/internal/types"
)

// StartRound enters a fresh basic round: regenerate the map, clear every
// answer, pick and shuffle a question, broadcast it, arm the answer window.
// A question-source fault aborts the transition and leaves the room usable,
// so the call is safe to retry.
func (r *Room) StartRound() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.startRoundLocked()
}

func (r *Room) startRoundLocked() error {
	if r.closed {
		return ErrRoomClosed
	}
	if len(r.players) < 2 {
		r.log.Info("not enough players to start a round", zap.Int("players", len(r.players)))
		return ErrNotEnoughPlayers
	}
	r.invalidateTimersLocked()
	r.state = StateInProgress

	q, err := r.pickLocked(game.QuestionBasic)
	if err != nil {
		r.log.Error("basic question selection failed", zap.Error(err))
		return err
	}

	r.grid = game.GenerateMap(r.cfg.MapSize, r.cfg.MapSize, r.cfg.Mode.RequiredPlayers())
	for _, p := range r.players {
		p.LastAnswer = nil
	}

	shuffled := game.ShuffleOptions(q, r.cfg.Rng)
	r.current = &shuffled
	r.used[q.ID] = true
	r.cfg.Broadcast.ToRoom(r.cfg.ID, types.EvtNewQuestion, shuffled)
	r.log.Info("new question", zap.String("question", q.ID), zap.String("category", q.Category))

	gen := r.gen
	r.cancelTimer = r.cfg.Scheduler.AfterFunc(r.cfg.Timings.QuestionWindow, func() {
		r.questionTimeout(gen, q.ID)
	})
	return nil
}

// pickLocked applies the selection policy: filter, and on exhaustion recycle
// the used set and retry exactly once.
func (r *Room) pickLocked(t game.QuestionType) (game.Question, error) {
	q, err := r.cfg.Source.Pick(t, r.cfg.Categories, r.used)
	if errors.Is(err, question.ErrExhausted) {
		r.log.Info("question pool exhausted, recycling", zap.String("type", string(t)))
		clear(r.used)
		q, err = r.cfg.Source.Pick(t, r.cfg.Categories, r.used)
	}
	if errors.Is(err, question.ErrExhausted) {
		return game.Question{}, fmt.Errorf("%w: no %s question satisfies the filters", ErrPoolExhausted, t)
	}
	if err != nil {
		return game.Question{}, fmt.Errorf("question source: %w", err)
	}
	return q, nil
}

// questionTimeout is the 10s window expiring. gen makes a fire that lost the
// race against "all players answered" (or room teardown) a no-op.
func (r *Room) questionTimeout(gen uint64, questionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen {
		return
	}
	r.invalidateTimersLocked()

	r.cfg.Broadcast.ToRoom(r.cfg.ID, types.EvtQuestionTimeout, types.QuestionTimeout{QuestionID: questionID})
	for _, p := range r.players {
		if p.LastAnswer == nil {
			p.LastAnswer = &game.Answer{}
		}
	}
	r.resolveBasicLocked()
}

// resolveBasicLocked ends the basic phase. More than one correct answer
// escalates into a sprint; otherwise the round pays out and a fresh one is
// scheduled after the presentation pause.
func (r *Room) resolveBasicLocked() {
	var correct []*game.Player
	for _, p := range r.players {
		if p.LastAnswer != nil && p.LastAnswer.Correct {
			correct = append(correct, p)
		}
	}

	if len(correct) > 1 {
		q, err := r.pickLocked(game.QuestionSprint)
		if err != nil {
			r.log.Error("sprint question selection failed", zap.Error(err))
			return
		}
		shuffled := game.ShuffleOptions(q, r.cfg.Rng)
		r.current = &shuffled
		r.used[q.ID] = true
		r.sprintStart = r.cfg.Now()
		r.cfg.Broadcast.ToRoom(r.cfg.ID, types.EvtSprintStart, shuffled)
		r.log.Info("sprint round", zap.String("question", q.ID), zap.Int("contenders", len(correct)))
		return
	}

	for _, p := range correct {
		p.Score += game.WinPoints
	}

	scores := make([]types.ScoreView, 0, len(r.players))
	for _, p := range r.players {
		scores = append(scores, types.ScoreView{
			ID:        p.ID,
			Name:      p.Name,
			Score:     p.Score,
			IsCorrect: p.LastAnswer != nil && p.LastAnswer.Correct,
		})
	}
	r.cfg.Broadcast.ToRoom(r.cfg.ID, types.EvtBasicResult, types.BasicResult{
		Scores:        scores,
		CorrectAnswer: r.current.Answer,
	})

	r.scheduleNextRoundLocked(r.cfg.Timings.BasicPause)
}

// maybeFinishSprintLocked resolves the sprint once every eligible player
// still in the room has a recorded time. The minimum time wins; on an exact
// tie the first-seen player (join order) keeps the win.
func (r *Room) maybeFinishSprintLocked() {
	var eligible []*game.Player
	for _, p := range r.players {
		if p.LastAnswer != nil && p.LastAnswer.Correct {
			eligible = append(eligible, p)
		}
	}
	if len(eligible) == 0 {
		// Every contender left mid-sprint; nothing to rank, move on.
		r.scheduleNextRoundLocked(r.cfg.Timings.SprintPause)
		return
	}
	for _, p := range eligible {
		if p.LastAnswer.Time == nil {
			return
		}
	}

	winner := eligible[0]
	for _, p := range eligible[1:] {
		if *p.LastAnswer.Time < *winner.LastAnswer.Time {
			winner = p
		}
	}
	winner.Score += game.WinPoints

	times := make([]types.SprintTime, 0, len(eligible))
	for _, p := range eligible {
		times = append(times, types.SprintTime{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Time:       formatSeconds(*p.LastAnswer.Time),
		})
	}
	r.cfg.Broadcast.ToRoom(r.cfg.ID, types.EvtSprintResult, types.SprintResult{
		Winner:     winner.ID,
		WinnerName: winner.Name,
		Times:      times,
	})
	r.log.Info("sprint winner", zap.String("player", winner.ID), zap.String("time", formatSeconds(*winner.LastAnswer.Time)))

	r.scheduleNextRoundLocked(r.cfg.Timings.SprintPause)
}

func (r *Room) scheduleNextRoundLocked(pause time.Duration) {
	r.invalidateTimersLocked()
	r.current = nil
	gen := r.gen
	r.cancelTimer = r.cfg.Scheduler.AfterFunc(pause, func() {
		r.nextRound(gen)
	})
}

func (r *Room) nextRound(gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen {
		return
	}
	if err := r.startRoundLocked(); err != nil {
		r.log.Error("next round start failed", zap.Error(err))
	}
}

func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}
