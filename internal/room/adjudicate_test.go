package room

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quizarena/trivia-backend/internal/game"
	"github.com/quizarena/trivia-backend/internal/types"
)

// enterSprint drives a duel into a sprint: both players answer the basic
// question correctly.
func enterSprint(t *testing.T, f *fixture) game.Question {
	t.Helper()
	f.fillAndStart(t)
	q := f.currentQuestion(t, types.EvtNewQuestion)
	require.NoError(t, f.room.SubmitBasicAnswer("p1", q.ID, q.Answer))
	require.NoError(t, f.room.SubmitBasicAnswer("p2", q.ID, q.Answer))
	return f.currentQuestion(t, types.EvtSprintStart)
}

func TestSubmitBasic_RejectsReplaysAndStaleQuestions(t *testing.T) {
	f := newFixture(t, game.ModeDuel, testQuestions())
	f.fillAndStart(t)
	q := f.currentQuestion(t, types.EvtNewQuestion)

	require.ErrorIs(t, f.room.SubmitBasicAnswer("p1", "nope", 0), ErrStaleQuestion)
	require.ErrorIs(t, f.room.SubmitBasicAnswer("ghost", q.ID, 0), ErrUnknownPlayer)

	require.NoError(t, f.room.SubmitBasicAnswer("p1", q.ID, q.Answer))
	require.ErrorIs(t, f.room.SubmitBasicAnswer("p1", q.ID, q.Answer), ErrDuplicateAnswer)

	// exactly one private confirmation despite the replay
	confirms := f.bcast.named(types.EvtAnswerConfirmed)
	require.Len(t, confirms, 1)
	require.Equal(t, "p1", confirms[0].target)
	ack := confirms[0].payload.(types.AnswerConfirmed)
	require.True(t, ack.IsCorrect)
	require.Equal(t, q.ID, ack.QuestionID)
}

func TestSubmitBasic_NoActiveQuestion(t *testing.T) {
	f := newFixture(t, game.ModeDuel, testQuestions())
	require.ErrorIs(t, f.room.SubmitBasicAnswer("p1", "b1", 0), ErrNoActiveQuestion)
}

func TestSubmitSprint_IneligibleAndWrongType(t *testing.T) {
	f := newFixture(t, game.ModeDuel, testQuestions())
	f.fillAndStart(t)
	q := f.currentQuestion(t, types.EvtNewQuestion)

	// sprint submission against a basic question is stale/unknown
	require.ErrorIs(t, f.room.SubmitSprintAnswer("p1", q.ID, 0), ErrStaleQuestion)

	// p2 answers wrong, p1 right -> no sprint for a single winner, but check
	// eligibility inside an actual sprint with a 3-player room below
	require.NoError(t, f.room.SubmitBasicAnswer("p1", q.ID, q.Answer))
	require.NoError(t, f.room.SubmitBasicAnswer("p2", q.ID, (q.Answer+1)%len(q.Options)))
	require.Zero(t, f.bcast.countNamed(types.EvtSprintStart))
}

func TestSubmitSprint_BasicLosersCannotEnter(t *testing.T) {
	f := newFixture(t, game.ModeAlliance1v2, testQuestions())
	f.fillAndStart(t)
	q := f.currentQuestion(t, types.EvtNewQuestion)

	require.NoError(t, f.room.SubmitBasicAnswer("p1", q.ID, q.Answer))
	require.NoError(t, f.room.SubmitBasicAnswer("p2", q.ID, q.Answer))
	require.NoError(t, f.room.SubmitBasicAnswer("p3", q.ID, (q.Answer+1)%len(q.Options)))

	sq := f.currentQuestion(t, types.EvtSprintStart)
	require.ErrorIs(t, f.room.SubmitSprintAnswer("p3", sq.ID, sq.Answer), ErrIneligibleSprinter)
}

func TestSubmitSprint_WrongAnswerGetsPrivateReveal(t *testing.T) {
	f := newFixture(t, game.ModeDuel, testQuestions())
	sq := enterSprint(t, f)

	wrong := (sq.Answer + 1) % len(sq.Options)
	require.NoError(t, f.room.SubmitSprintAnswer("p1", sq.ID, wrong))

	replies := f.bcast.named(types.EvtSprintAnswerResult)
	require.Len(t, replies, 1)
	require.Equal(t, "p1", replies[0].target)
	res := replies[0].payload.(types.SprintAnswerResult)
	require.False(t, res.IsCorrect)
	require.NotNil(t, res.CorrectAnswer)
	require.Equal(t, sq.Answer, *res.CorrectAnswer)

	require.Zero(t, f.bcast.countNamed(types.EvtSprintUpdate), "a miss is private")
	require.Zero(t, f.bcast.countNamed(types.EvtSprintResult))

	// a wrong answer does not consume the attempt
	f.clock.Advance(1200 * time.Millisecond)
	require.NoError(t, f.room.SubmitSprintAnswer("p1", sq.ID, sq.Answer))
	require.Equal(t, 1, f.bcast.countNamed(types.EvtSprintUpdate))
}

func TestSubmitSprint_FastestEligibleWins(t *testing.T) {
	f := newFixture(t, game.ModeDuel, testQuestions())
	sq := enterSprint(t, f)

	f.clock.Advance(1200 * time.Millisecond)
	require.NoError(t, f.room.SubmitSprintAnswer("p1", sq.ID, sq.Answer))
	f.clock.Advance(600 * time.Millisecond)
	require.NoError(t, f.room.SubmitSprintAnswer("p2", sq.ID, sq.Answer))

	updates := f.bcast.named(types.EvtSprintUpdate)
	require.Len(t, updates, 2)
	require.Equal(t, "1.200", updates[0].payload.(types.SprintUpdate).Time)
	require.Equal(t, "1.800", updates[1].payload.(types.SprintUpdate).Time)

	results := f.bcast.named(types.EvtSprintResult)
	require.Len(t, results, 1)
	res := results[0].payload.(types.SprintResult)
	require.Equal(t, "p1", res.Winner)
	require.Equal(t, "alice", res.WinnerName)
	require.Len(t, res.Times, 2)

	// winner got the points, loser did not
	for _, p := range f.room.PlayerViews() {
		if p.ID == "p1" {
			require.Equal(t, 10, p.Score)
		} else {
			require.Zero(t, p.Score)
		}
	}

	// next round scheduled after the sprint pause
	require.Equal(t, DefaultSprintPause, f.sched.last().d)
}

func TestSubmitSprint_TieGoesToFirstSeen(t *testing.T) {
	f := newFixture(t, game.ModeDuel, testQuestions())
	sq := enterSprint(t, f)

	f.clock.Advance(900 * time.Millisecond)
	require.NoError(t, f.room.SubmitSprintAnswer("p2", sq.ID, sq.Answer))
	require.NoError(t, f.room.SubmitSprintAnswer("p1", sq.ID, sq.Answer))

	// identical times: join order decides, deterministically
	res := f.bcast.named(types.EvtSprintResult)[0].payload.(types.SprintResult)
	require.Equal(t, "p1", res.Winner)
}

func TestSubmitSprint_SecondSubmissionIgnored(t *testing.T) {
	f := newFixture(t, game.ModeDuel, testQuestions())
	sq := enterSprint(t, f)

	f.clock.Advance(500 * time.Millisecond)
	require.NoError(t, f.room.SubmitSprintAnswer("p1", sq.ID, sq.Answer))
	require.ErrorIs(t, f.room.SubmitSprintAnswer("p1", sq.ID, sq.Answer), ErrDuplicateAnswer)
	require.Equal(t, 1, f.bcast.countNamed(types.EvtSprintUpdate))
}

func TestSprint_EligibleLeaverUnblocksCompletion(t *testing.T) {
	f := newFixture(t, game.ModeAlliance1v2, testQuestions())
	f.fillAndStart(t)
	q := f.currentQuestion(t, types.EvtNewQuestion)

	require.NoError(t, f.room.SubmitBasicAnswer("p1", q.ID, q.Answer))
	require.NoError(t, f.room.SubmitBasicAnswer("p2", q.ID, q.Answer))
	require.NoError(t, f.room.SubmitBasicAnswer("p3", q.ID, (q.Answer+1)%len(q.Options)))
	sq := f.currentQuestion(t, types.EvtSprintStart)

	f.clock.Advance(700 * time.Millisecond)
	require.NoError(t, f.room.SubmitSprintAnswer("p1", sq.ID, sq.Answer))
	require.Zero(t, f.bcast.countNamed(types.EvtSprintResult), "p2 still owes a time")

	// the only other contender disconnects; the sprint must resolve now
	res := f.room.RemovePlayer("p2")
	require.True(t, res.Removed)

	results := f.bcast.named(types.EvtSprintResult)
	require.Len(t, results, 1)
	require.Equal(t, "p1", results[0].payload.(types.SprintResult).Winner)
}
