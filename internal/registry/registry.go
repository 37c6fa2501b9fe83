package registry

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quizarena/trivia-backend/internal/game"
	"github.com/quizarena/trivia-backend/internal/question"
	"github.com/quizarena/trivia-backend/internal/room"
	"github.com/quizarena/trivia-backend/internal/types"
)

var ErrRoomNotFound = errors.New("room-not-found")

// Registry owns the live room set. It is the only component that adds or
// removes rooms; everything else reaches a room through a lookup here, never
// through a cached pointer that could outlive destruction.
type Registry struct {
	source    question.Source
	broadcast room.Broadcaster
	scheduler room.Scheduler
	log       *zap.Logger

	timings room.Timings

	mu    sync.Mutex
	rooms map[string]*room.Room
	seed  *rand.Rand // seeds per-room generators and names
}

func New(source question.Source, broadcast room.Broadcaster, scheduler room.Scheduler, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		source:    source,
		broadcast: broadcast,
		scheduler: scheduler,
		log:       log,
		rooms:     make(map[string]*room.Room),
		seed:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetTimings overrides the round timings for every room created afterwards.
// Tests use this to collapse the pauses.
func (g *Registry) SetTimings(t room.Timings) { g.timings = t }

type CreateParams struct {
	PlayerName string
	RoomName   string
	Mode       string
	Categories []string
	MapSize    int
}

// CreateRoom builds a room with the requester as host and announces it. All
// faults surface to the requester as an error event, never as a panic or a
// dropped connection.
func (g *Registry) CreateRoom(playerID string, p CreateParams) (string, error) {
	mode, err := game.ParseMode(p.Mode)
	if err != nil {
		g.broadcast.ToPlayer(playerID, types.EvtError, "unknown game mode")
		return "", fmt.Errorf("create room: %w", err)
	}

	g.mu.Lock()
	id := g.newRoomIDLocked()
	name := strings.TrimSpace(p.RoomName)
	if name == "" {
		name = generateRoomName(g.seed)
	}
	rm := room.New(room.Config{
		ID:         id,
		Name:       name,
		Mode:       mode,
		Categories: p.Categories,
		MapSize:    p.MapSize,
		HostID:     playerID,
		Source:     g.source,
		Broadcast:  g.broadcast,
		Scheduler:  g.scheduler,
		Rng:        rand.New(rand.NewSource(g.seed.Int63())),
		Log:        g.log,
		Timings:    g.timings,
	}, p.PlayerName)
	g.rooms[id] = rm
	g.mu.Unlock()

	g.broadcast.Subscribe(playerID, id)
	g.broadcast.ToPlayer(playerID, types.EvtRoomCreated, types.RoomCreated{
		RoomID:      id,
		PlayerCount: mode.RequiredPlayers(),
		Name:        name,
		Categories:  rm.Summary().Categories,
	})
	g.broadcastRoomList()
	g.log.Info("room created",
		zap.String("room", id),
		zap.String("host", playerID),
		zap.String("mode", string(mode)))
	return id, nil
}

// JoinRoom admits a player. Filling the room flips it to in-progress and
// kicks off the first round.
func (g *Registry) JoinRoom(playerID, roomID, playerName string) error {
	rm, ok := g.lookup(roomID)
	if !ok {
		g.broadcast.ToPlayer(playerID, types.EvtError, "room does not exist")
		return fmt.Errorf("join %s: %w", roomID, ErrRoomNotFound)
	}

	players, started, err := rm.AddPlayer(playerID, playerName)
	if err != nil {
		msg := "room is full"
		if errors.Is(err, room.ErrRoomClosed) {
			msg = "room does not exist"
		}
		g.broadcast.ToPlayer(playerID, types.EvtError, msg)
		return fmt.Errorf("join %s: %w", roomID, err)
	}

	g.broadcast.Subscribe(playerID, roomID)
	g.broadcast.ToRoom(roomID, types.EvtPlayerJoined, types.PlayerJoined{
		Players:    players,
		Categories: rm.Summary().Categories,
	})
	g.broadcast.ToPlayer(playerID, types.EvtRoomJoined, types.RoomJoined{
		RoomID:     roomID,
		Name:       rm.Name(),
		Players:    players,
		IsHost:     false,
		MapSize:    rm.MapSize(),
		Categories: rm.Summary().Categories,
	})
	g.broadcastRoomList()

	if started {
		g.broadcast.ToRoom(roomID, types.EvtGameStarted, nil)
		g.log.Info("game started", zap.String("room", roomID))
		if err := rm.StartRound(); err != nil {
			g.log.Error("first round failed to start", zap.String("room", roomID), zap.Error(err))
		}
	}
	return nil
}

// StartGame lets a room member (re)start the round loop, mirroring the
// host-initiated start in the UI. Non-members get an error event.
func (g *Registry) StartGame(playerID, roomID string) error {
	rm, ok := g.lookup(roomID)
	if !ok {
		g.broadcast.ToPlayer(playerID, types.EvtError, "room does not exist")
		return fmt.Errorf("start %s: %w", roomID, ErrRoomNotFound)
	}
	if !rm.HasPlayer(playerID) {
		g.broadcast.ToPlayer(playerID, types.EvtError, "you are not a member of this room")
		return fmt.Errorf("start %s: player %s not a member", roomID, playerID)
	}
	return rm.StartRound()
}

// SubmitBasicAnswer routes an answer to its room. Rejections are logged and
// otherwise ignored; network retries must not disrupt other players.
func (g *Registry) SubmitBasicAnswer(playerID, roomID, questionID string, answerIndex int) {
	rm, ok := g.lookup(roomID)
	if !ok {
		g.log.Debug("answer for unknown room", zap.String("room", roomID))
		return
	}
	if err := rm.SubmitBasicAnswer(playerID, questionID, answerIndex); err != nil {
		g.log.Debug("basic answer rejected",
			zap.String("room", roomID), zap.String("player", playerID), zap.Error(err))
	}
}

func (g *Registry) SubmitSprintAnswer(playerID, roomID, questionID string, answerIndex int) {
	rm, ok := g.lookup(roomID)
	if !ok {
		g.log.Debug("sprint answer for unknown room", zap.String("room", roomID))
		return
	}
	if err := rm.SubmitSprintAnswer(playerID, questionID, answerIndex); err != nil {
		g.log.Debug("sprint answer rejected",
			zap.String("room", roomID), zap.String("player", playerID), zap.Error(err))
	}
}

// DropPlayer handles a disconnect: remove the player from whichever room
// holds them, tear down an emptied room, and end a game left with one
// player.
func (g *Registry) DropPlayer(playerID string) {
	g.mu.Lock()
	snapshot := make(map[string]*room.Room, len(g.rooms))
	for id, rm := range g.rooms {
		snapshot[id] = rm
	}
	g.mu.Unlock()

	for id, rm := range snapshot {
		res := rm.RemovePlayer(playerID)
		if !res.Removed {
			continue
		}
		g.broadcast.Unsubscribe(playerID, id)
		g.log.Info("player left", zap.String("room", id), zap.String("player", playerID))

		if res.Empty {
			g.mu.Lock()
			delete(g.rooms, id)
			g.mu.Unlock()
			g.log.Info("room destroyed", zap.String("room", id))
			g.broadcastRoomList()
			continue
		}

		g.broadcast.ToRoom(id, types.EvtPlayerLeft, types.PlayerLeft{PlayerID: playerID})
		g.broadcast.ToRoom(id, types.EvtScoreUpdate, types.ScoreUpdate{Scores: res.Players})
		if res.GameEnded {
			g.broadcast.ToRoom(id, types.EvtGameEnded, types.GameEnded{Reason: "only one player remains"})
			g.log.Info("game ended early", zap.String("room", id))
		}
	}
}

// ListRooms is the pure projection shown in the lobby browser.
func (g *Registry) ListRooms() []types.RoomSummary {
	g.mu.Lock()
	defer g.mu.Unlock()
	list := make([]types.RoomSummary, 0, len(g.rooms))
	for _, rm := range g.rooms {
		list = append(list, rm.Summary())
	}
	return list
}

func (g *Registry) lookup(roomID string) (*room.Room, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	rm, ok := g.rooms[roomID]
	return rm, ok
}

func (g *Registry) broadcastRoomList() {
	g.broadcast.ToAll(types.EvtRoomListUpdate, g.ListRooms())
}

// newRoomIDLocked derives a short join code from a uuid and regenerates on
// the improbable collision.
func (g *Registry) newRoomIDLocked() string {
	for {
		id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
		if _, taken := g.rooms[id]; !taken {
			return id
		}
		g.log.Warn("room id collision, regenerating", zap.String("id", id))
	}
}
