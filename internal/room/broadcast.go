package room

// Broadcaster delivers named events to connected clients. The core only
// calls it; delivery, buffering and slow-client policy belong to the
// transport implementation.
type Broadcaster interface {
	ToAll(event string, payload any)
	ToRoom(roomID, event string, payload any)
	ToPlayer(playerID, event string, payload any)

	// Subscribe/Unsubscribe maintain a room's delivery group.
	Subscribe(playerID, roomID string)
	Unsubscribe(playerID, roomID string)
}
