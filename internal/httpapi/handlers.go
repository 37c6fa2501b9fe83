package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/quizarena/trivia-backend/internal/registry"
)

// ListRooms exposes the lobby-browser projection over plain HTTP, mirroring
// the room-list-update event for clients that poll before connecting.
func ListRooms(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(reg.ListRooms())
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
