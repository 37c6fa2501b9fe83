package types

import (
	"encoding/json"

	"github.com/quizarena/trivia-backend/internal/game"
)

// Event names, client -> server.
const (
	EvtCreateRoom      = "create-room"
	EvtJoinRoom        = "join-room"
	EvtStartGame       = "start-game"
	EvtRequestRoomList = "request-room-list"
	EvtAnswer          = "answer"
	EvtSprintAnswer    = "sprint-answer"
)

// Event names, server -> client.
const (
	EvtConnectionConfirmed = "connection-confirmed"
	EvtRoomCreated         = "room-created"
	EvtRoomJoined          = "room-joined"
	EvtPlayerJoined        = "player-joined"
	EvtRoomListUpdate      = "room-list-update"
	EvtGameStarted         = "game-started"
	EvtNewQuestion         = "new-question"
	EvtAnswerConfirmed     = "answer-confirmed"
	EvtQuestionTimeout     = "question-timeout"
	EvtBasicResult         = "basic-result"
	EvtSprintStart         = "sprint-start"
	EvtSprintAnswerResult  = "sprint-answer-result"
	EvtSprintUpdate        = "sprint-update"
	EvtSprintResult        = "sprint-result"
	EvtScoreUpdate         = "score-update"
	EvtPlayerLeft          = "player-left"
	EvtGameEnded           = "game-ended"
	EvtError               = "error"
)

// ClientMessage is the envelope for everything a client sends.
type ClientMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// ServerMessage is the envelope for everything the server sends.
type ServerMessage struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

type CreateRoomRequest struct {
	PlayerName string   `json:"playerName"`
	RoomName   string   `json:"roomName,omitempty"`
	Mode       string   `json:"mode"`
	Categories []string `json:"categories,omitempty"`
	MapSize    int      `json:"mapSize,omitempty"`
}

type JoinRoomRequest struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
}

type StartGameRequest struct {
	RoomID string `json:"roomId"`
}

type AnswerRequest struct {
	RoomID      string `json:"roomId"`
	QuestionID  string `json:"questionId"`
	AnswerIndex int    `json:"answerIndex"`
}

type ConnectionConfirmed struct {
	Status    string `json:"status"`
	SocketID  string `json:"socketId"`
	Timestamp int64  `json:"timestamp"`
}

type PlayerView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
	Team  int    `json:"team"`
}

type RoomCreated struct {
	RoomID      string   `json:"roomId"`
	PlayerCount int      `json:"playerCount"`
	Name        string   `json:"name"`
	Categories  []string `json:"categories"`
}

type RoomJoined struct {
	RoomID     string       `json:"roomId"`
	Name       string       `json:"name"`
	Players    []PlayerView `json:"players"`
	IsHost     bool         `json:"isHost"`
	MapSize    int          `json:"mapSize"`
	Categories []string     `json:"categories"`
}

type PlayerJoined struct {
	Players    []PlayerView `json:"players"`
	Categories []string     `json:"categories"`
}

type RoomSummary struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	PlayersCount    int      `json:"playersCount"`
	RequiredPlayers int      `json:"requiredPlayers"`
	Status          string   `json:"status"`
	Mode            string   `json:"mode"`
	Categories      []string `json:"categories"`
}

// QuestionView carries the shuffled presentation of a question on
// new-question and sprint-start; its Answer index refers to the shuffled
// options, which is also the index adjudication compares against.
type QuestionView = game.Question

type AnswerConfirmed struct {
	IsCorrect   bool   `json:"isCorrect"`
	QuestionID  string `json:"questionId"`
	AnswerIndex int    `json:"answerIndex"`
}

type QuestionTimeout struct {
	QuestionID string `json:"questionId"`
}

type ScoreView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Score     int    `json:"score"`
	IsCorrect bool   `json:"isCorrect"`
}

type BasicResult struct {
	Scores        []ScoreView `json:"scores"`
	CorrectAnswer int         `json:"correctAnswer"`
}

type SprintAnswerResult struct {
	IsCorrect bool `json:"isCorrect"`
	// TimeMs is set on a correct submission, CorrectAnswer on a wrong one.
	TimeMs        *int64 `json:"time,omitempty"`
	CorrectAnswer *int   `json:"correctAnswer,omitempty"`
}

type SprintUpdate struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Time       string `json:"time"` // seconds, 3 decimals
}

type SprintTime struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Time       string `json:"time"` // seconds, 3 decimals
}

type SprintResult struct {
	Winner     string       `json:"winner"`
	WinnerName string       `json:"winnerName"`
	Times      []SprintTime `json:"times"`
}

type ScoreUpdate struct {
	Scores []PlayerView `json:"scores"`
}

type PlayerLeft struct {
	PlayerID string `json:"playerId"`
}

type GameEnded struct {
	Reason string `json:"reason"`
}
