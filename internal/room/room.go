package room

import (
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/quizarena/trivia-backend/internal/game"
	"github.com/quizarena/trivia-backend/internal/question"
	"github.com/quizarena/trivia-backend/internal/types"
)

type State string

const (
	StateWaiting    State = "waiting"
	StateInProgress State = "in-progress"
)

const (
	DefaultQuestionWindow = 10 * time.Second
	DefaultBasicPause     = 2500 * time.Millisecond
	DefaultSprintPause    = 3 * time.Second
	DefaultMapSize        = 5

	// MinMapSize keeps every marker on its own cell regardless of mode;
	// MaxMapSize bounds the per-round grid allocation, since the requested
	// size arrives straight off the wire.
	MinMapSize = 3
	MaxMapSize = 30
)

// Timings are the scheduled-future delays of a round. Zero fields fall back
// to the defaults; tests collapse them.
type Timings struct {
	QuestionWindow time.Duration
	BasicPause     time.Duration
	SprintPause    time.Duration
}

// Config carries everything a room needs from the outside world. Scheduler,
// Broadcast, Source, Rng and Now are injection seams; tests swap them for
// deterministic fakes.
type Config struct {
	ID         string
	Name       string
	Mode       game.Mode
	Categories []string
	MapSize    int
	HostID     string

	Source    question.Source
	Broadcast Broadcaster
	Scheduler Scheduler
	Rng       *rand.Rand
	Log       *zap.Logger

	Now     func() time.Time
	Timings Timings
}

// Room is one isolated match. A single mutex is the exclusion boundary for
// all of its state: membership changes, adjudication and timer callbacks all
// run the full validate-mutate-check sequence under it, so "answer arrives"
// and "timeout fires" can never interleave on the same room.
type Room struct {
	cfg Config
	log *zap.Logger

	mu          sync.Mutex
	players     []*game.Player
	state       State
	current     *game.Question // shuffled presentation, nil between rounds
	used        map[string]bool
	sprintStart time.Time
	grid        [][]int
	closed      bool

	// gen tags the pending timer. Bumping it invalidates any callback still
	// in flight; cancelTimer stops the one that has not fired yet.
	gen         uint64
	cancelTimer func()
}

// New builds a room with the creator as its sole player (team 1).
func New(cfg Config, hostName string) *Room {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Timings.QuestionWindow == 0 {
		cfg.Timings.QuestionWindow = DefaultQuestionWindow
	}
	if cfg.Timings.BasicPause == 0 {
		cfg.Timings.BasicPause = DefaultBasicPause
	}
	if cfg.Timings.SprintPause == 0 {
		cfg.Timings.SprintPause = DefaultSprintPause
	}
	switch {
	case cfg.MapSize <= 0:
		cfg.MapSize = DefaultMapSize
	case cfg.MapSize < MinMapSize:
		cfg.MapSize = MinMapSize
	case cfg.MapSize > MaxMapSize:
		cfg.MapSize = MaxMapSize
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}

	return &Room{
		cfg:   cfg,
		log:   cfg.Log.With(zap.String("room", cfg.ID)),
		state: StateWaiting,
		used:  make(map[string]bool),
		players: []*game.Player{
			{ID: cfg.HostID, Name: hostName, Team: 1},
		},
	}
}

func (r *Room) ID() string           { return r.cfg.ID }
func (r *Room) Name() string         { return r.cfg.Name }
func (r *Room) Mode() game.Mode      { return r.cfg.Mode }
func (r *Room) MapSize() int         { return r.cfg.MapSize }
func (r *Room) Categories() []string { return r.cfg.Categories }

// AddPlayer appends a player if capacity allows. started reports that this
// join filled the room and flipped it to in-progress; the caller is expected
// to announce the start and invoke StartRound.
func (r *Room) AddPlayer(id, name string) (players []types.PlayerView, started bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, false, ErrRoomClosed
	}
	capacity := r.cfg.Mode.RequiredPlayers()
	if len(r.players) >= capacity {
		return nil, false, ErrRoomFull
	}

	r.players = append(r.players, &game.Player{
		ID:   id,
		Name: name,
		Team: len(r.players) + 1,
	})

	if len(r.players) == capacity && r.state == StateWaiting {
		r.state = StateInProgress
		started = true
	}
	return r.playerViewsLocked(), started, nil
}

// Removal describes the aftermath of a player leaving.
type Removal struct {
	Removed   bool
	Empty     bool
	GameEnded bool
	Players   []types.PlayerView
}

// RemovePlayer drops a player on disconnect. An emptied room closes and
// invalidates its timers so a late fire cannot touch disposed state. A drop
// to one player mid-game forces the room back to waiting. A leaver during a
// sprint shrinks the eligible set, so completion is re-checked right away.
func (r *Room) RemovePlayer(playerID string) Removal {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, p := range r.players {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Removal{}
	}
	r.players = append(r.players[:idx], r.players[idx+1:]...)

	if len(r.players) == 0 {
		r.invalidateTimersLocked()
		r.closed = true
		r.state = StateWaiting
		r.current = nil
		return Removal{Removed: true, Empty: true}
	}

	out := Removal{Removed: true, Players: r.playerViewsLocked()}
	if r.state == StateInProgress && len(r.players) == 1 {
		r.invalidateTimersLocked()
		r.state = StateWaiting
		r.current = nil
		out.GameEnded = true
		return out
	}

	if r.current != nil && r.current.Type == game.QuestionSprint {
		r.maybeFinishSprintLocked()
	}
	return out
}

// HasPlayer reports membership without exposing the player list.
func (r *Room) HasPlayer(playerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.players {
		if p.ID == playerID {
			return true
		}
	}
	return false
}

// Summary is the room-list projection.
func (r *Room) Summary() types.RoomSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return types.RoomSummary{
		ID:              r.cfg.ID,
		Name:            r.cfg.Name,
		PlayersCount:    len(r.players),
		RequiredPlayers: r.cfg.Mode.RequiredPlayers(),
		Status:          string(r.state),
		Mode:            string(r.cfg.Mode),
		Categories:      r.categoriesOrEmpty(),
	}
}

// PlayerViews snapshots the member list for membership broadcasts.
func (r *Room) PlayerViews() []types.PlayerView {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.playerViewsLocked()
}

func (r *Room) playerViewsLocked() []types.PlayerView {
	views := make([]types.PlayerView, 0, len(r.players))
	for _, p := range r.players {
		views = append(views, types.PlayerView{ID: p.ID, Name: p.Name, Score: p.Score, Team: p.Team})
	}
	return views
}

func (r *Room) categoriesOrEmpty() []string {
	if r.cfg.Categories == nil {
		return []string{}
	}
	return r.cfg.Categories
}

func (r *Room) findPlayerLocked(playerID string) *game.Player {
	for _, p := range r.players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// invalidateTimersLocked makes any pending or in-flight timer callback a
// no-op and stops the unfired one. Must run before a phase is ended early.
func (r *Room) invalidateTimersLocked() {
	r.gen++
	if r.cancelTimer != nil {
		r.cancelTimer()
		r.cancelTimer = nil
	}
}
