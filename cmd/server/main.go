package main

import (
	"math/rand"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/quizarena/trivia-backend/internal/config"
	"github.com/quizarena/trivia-backend/internal/httpapi"
	"github.com/quizarena/trivia-backend/internal/question"
	"github.com/quizarena/trivia-backend/internal/registry"
	"github.com/quizarena/trivia-backend/internal/room"
	"github.com/quizarena/trivia-backend/internal/ws"
)

func main() {
	_ = godotenv.Load() // .env is optional
	cfg := config.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	source, err := question.NewFileSource(cfg.QuestionsPath, rng)
	if err != nil {
		log.Fatal("loading question bank", zap.Error(err))
	}

	hub := ws.NewHub(log)
	reg := registry.New(source, hub, room.NewScheduler(), log)

	handler := httpapi.SetupRoutes(reg, hub, log)

	log.Info("listening", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
