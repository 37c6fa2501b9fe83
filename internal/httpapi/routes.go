package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/quizarena/trivia-backend/internal/registry"
	"github.com/quizarena/trivia-backend/internal/ws"
)

func SetupRoutes(reg *registry.Registry, hub *ws.Hub, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/rooms", ListRooms(reg))
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(hub, reg, log))
	return r
}
