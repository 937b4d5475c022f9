package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is one live connection. It is created when the socket connects,
// learns its user key on the first join/create, and is discarded on
// disconnect. A session is exclusively owned by its connection task.
type Session struct {
	ID        string    `json:"id"`
	UserKey   string    `json:"userKey"`
	CreatedAt time.Time `json:"createdAt"`

	rooms map[string]struct{}
}

func NewSession() *Session {
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		rooms:     make(map[string]struct{}),
	}
}

func (s *Session) JoinRoom(roomID string) {
	s.rooms[roomID] = struct{}{}
}

func (s *Session) LeaveRoom(roomID string) {
	delete(s.rooms, roomID)
}

func (s *Session) InRoom(roomID string) bool {
	_, ok := s.rooms[roomID]
	return ok
}

func (s *Session) Rooms() []string {
	out := make([]string, 0, len(s.rooms))
	for id := range s.rooms {
		out = append(out, id)
	}
	return out
}
