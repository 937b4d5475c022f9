package domain

import (
	"errors"
)

// MaxParticipants is the hard cap on distinct user keys per room. A room is a
// two-party conversation channel; a third key is always rejected.
const MaxParticipants = 2

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomFull        = errors.New("room is full, only two users are allowed")
	ErrSessionNotFound = errors.New("session not found")
)

// Participant ties a user key to the connection currently speaking for it.
type Participant struct {
	SessionID string `json:"sessionId"`
	UserKey   string `json:"userKey"`
}

// AdmitResult is the outcome of asking a room to seat a user key.
type AdmitResult int

const (
	Accepted AdmitResult = iota
	// AlreadyMember means the key was already seated; the stored session id
	// has been refreshed to the admitting connection (reconnect case).
	AlreadyMember
	RoomFull
)

func (r AdmitResult) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case AlreadyMember:
		return "already_member"
	case RoomFull:
		return "room_full"
	default:
		return "unknown"
	}
}

// Room holds the ordered participant list of one conversation. Rooms exist
// only while someone occupies them; there is no persistent room storage.
type Room struct {
	ID           string        `json:"id"`
	Participants []Participant `json:"participants"`
}

func NewRoom(id string) *Room {
	return &Room{
		ID:           id,
		Participants: make([]Participant, 0, MaxParticipants),
	}
}

// Admit seats userKey under sessionID. Re-admitting a seated key is a
// membership no-op that refreshes its session id.
func (r *Room) Admit(userKey, sessionID string) AdmitResult {
	for i, p := range r.Participants {
		if p.UserKey == userKey {
			r.Participants[i].SessionID = sessionID
			return AlreadyMember
		}
	}

	if len(r.Participants) >= MaxParticipants {
		return RoomFull
	}

	r.Participants = append(r.Participants, Participant{
		SessionID: sessionID,
		UserKey:   userKey,
	})
	return Accepted
}

// RemoveSession drops the participant seated under sessionID, if any,
// returning the removed entry.
func (r *Room) RemoveSession(sessionID string) (Participant, bool) {
	for i, p := range r.Participants {
		if p.SessionID == sessionID {
			r.Participants = append(r.Participants[:i], r.Participants[i+1:]...)
			return p, true
		}
	}
	return Participant{}, false
}

func (r *Room) HasUser(userKey string) bool {
	for _, p := range r.Participants {
		if p.UserKey == userKey {
			return true
		}
	}
	return false
}

func (r *Room) Empty() bool {
	return len(r.Participants) == 0
}

// UserKeys returns the participant keys in seating order.
func (r *Room) UserKeys() []string {
	keys := make([]string, 0, len(r.Participants))
	for _, p := range r.Participants {
		keys = append(keys, p.UserKey)
	}
	return keys
}
