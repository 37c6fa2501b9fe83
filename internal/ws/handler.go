package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quizarena/trivia-backend/internal/registry"
	"github.com/quizarena/trivia-backend/internal/types"
)

const writeTimeout = 3 * time.Second

// readTimeout bounds every single read so a half-open socket cannot park a
// player in a room forever. A var so tests can shorten it.
var readTimeout = 30 * time.Second

// Handler upgrades the connection, registers the client with the hub and
// pumps events both ways until the socket closes. A disconnect, clean or
// not, drops the player from whichever room holds them.
func Handler(h *Hub, reg *registry.Registry, log *zap.Logger) http.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			log.Warn("websocket accept failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		clientID := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
		c := h.register(clientID)
		defer func() {
			reg.DropPlayer(clientID)
			h.unregister(clientID)
		}()

		log.Info("client connected", zap.String("client", clientID))

		// Writer goroutine drains the hub outbox onto the socket.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for msg := range c.outbox {
				payload, err := json.Marshal(msg)
				if err != nil {
					log.Error("marshal server message", zap.Error(err))
					continue
				}
				ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
			// The outbox only closes on unregister or a slow-client drop.
			// Close the socket either way so the read loop ends and the
			// player is removed from their room, not left as a ghost.
			conn.Close(websocket.StatusPolicyViolation, "outbox closed")
		}()

		h.ToPlayer(clientID, types.EvtConnectionConfirmed, types.ConnectionConfirmed{
			Status:    "connected",
			SocketID:  clientID,
			Timestamp: time.Now().UnixMilli(),
		})

		for {
			ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
			_, data, err := conn.Read(ctx)
			cancel()
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					log.Debug("read ended", zap.String("client", clientID), zap.Error(err))
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				h.ToPlayer(clientID, types.EvtError, "malformed message")
				continue
			}
			dispatch(h, reg, log, clientID, cm)
		}
	}
}

// dispatch maps one client event onto a core operation. Invalid payloads on
// user-initiated actions get an error event; malformed answers are dropped
// silently so a retried or stale submission never disturbs a round.
func dispatch(h *Hub, reg *registry.Registry, log *zap.Logger, clientID string, cm types.ClientMessage) {
	switch cm.Event {
	case types.EvtRequestRoomList:
		h.ToPlayer(clientID, types.EvtRoomListUpdate, reg.ListRooms())

	case types.EvtCreateRoom:
		var req types.CreateRoomRequest
		if err := json.Unmarshal(cm.Data, &req); err != nil || req.PlayerName == "" {
			h.ToPlayer(clientID, types.EvtError, "player name is required")
			return
		}
		if _, err := reg.CreateRoom(clientID, registry.CreateParams{
			PlayerName: req.PlayerName,
			RoomName:   req.RoomName,
			Mode:       req.Mode,
			Categories: req.Categories,
			MapSize:    req.MapSize,
		}); err != nil {
			log.Warn("create room failed", zap.String("client", clientID), zap.Error(err))
		}

	case types.EvtJoinRoom:
		var req types.JoinRoomRequest
		if err := json.Unmarshal(cm.Data, &req); err != nil || req.RoomID == "" || req.PlayerName == "" {
			h.ToPlayer(clientID, types.EvtError, "room id and player name are required")
			return
		}
		if err := reg.JoinRoom(clientID, req.RoomID, req.PlayerName); err != nil {
			log.Info("join room rejected", zap.String("client", clientID), zap.Error(err))
		}

	case types.EvtStartGame:
		var req types.StartGameRequest
		if err := json.Unmarshal(cm.Data, &req); err != nil || req.RoomID == "" {
			h.ToPlayer(clientID, types.EvtError, "room id is required")
			return
		}
		if err := reg.StartGame(clientID, req.RoomID); err != nil {
			log.Info("start game rejected", zap.String("client", clientID), zap.Error(err))
		}

	case types.EvtAnswer:
		var req types.AnswerRequest
		if err := json.Unmarshal(cm.Data, &req); err != nil || req.RoomID == "" || req.QuestionID == "" {
			log.Debug("malformed answer", zap.String("client", clientID))
			return
		}
		reg.SubmitBasicAnswer(clientID, req.RoomID, req.QuestionID, req.AnswerIndex)

	case types.EvtSprintAnswer:
		var req types.AnswerRequest
		if err := json.Unmarshal(cm.Data, &req); err != nil || req.RoomID == "" || req.QuestionID == "" {
			log.Debug("malformed sprint answer", zap.String("client", clientID))
			return
		}
		reg.SubmitSprintAnswer(clientID, req.RoomID, req.QuestionID, req.AnswerIndex)

	default:
		h.ToPlayer(clientID, types.EvtError, "unknown event")
	}
}
