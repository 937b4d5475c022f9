package presence

import (
	"sort"
	"sync"

	"github.com/berkay1532/Wisper-Server/internal/domain"
)

// Registry is the process-wide presence map. Every mutation goes through one
// mutex so concurrent admits racing against the two-member cap are
// linearizable. A secondary userKey→rooms index, updated in the same critical
// section, makes lookup by key O(1) instead of a scan across all rooms.
type Registry struct {
	mu     sync.Mutex
	rooms  map[string]*domain.Room
	byUser map[string]map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		rooms:  make(map[string]*domain.Room),
		byUser: make(map[string]map[string]struct{}),
	}
}

func (r *Registry) Admit(roomID, userKey, sessionID string) domain.AdmitResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		room = domain.NewRoom(roomID)
		r.rooms[roomID] = room
	}

	result := room.Admit(userKey, sessionID)
	switch result {
	case domain.Accepted:
		r.indexAdd(userKey, roomID)
	case domain.RoomFull:
		// Never leave a room record behind for a rejected first admit.
		if room.Empty() {
			delete(r.rooms, roomID)
		}
	}

	return result
}

func (r *Registry) Remove(sessionID string) []domain.Presence {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed []domain.Presence
	for roomID, room := range r.rooms {
		p, ok := room.RemoveSession(sessionID)
		if !ok {
			continue
		}

		removed = append(removed, domain.Presence{RoomID: roomID, UserKey: p.UserKey})
		r.indexRemove(p.UserKey, roomID)

		if room.Empty() {
			delete(r.rooms, roomID)
		}
	}

	sort.Slice(removed, func(i, j int) bool { return removed[i].RoomID < removed[j].RoomID })
	return removed
}

func (r *Registry) IsPresent(roomID, userKey string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	return ok && room.HasUser(userKey)
}

func (r *Registry) MembersOf(roomID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return nil
	}
	return room.UserKeys()
}

func (r *Registry) ParticipantsOf(roomID string) []domain.Participant {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return nil
	}

	out := make([]domain.Participant, len(room.Participants))
	copy(out, room.Participants)
	return out
}

func (r *Registry) RoomsOf(userKey string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	rooms, ok := r.byUser[userKey]
	if !ok {
		return nil
	}

	out := make([]string, 0, len(rooms))
	for id := range rooms {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) indexAdd(userKey, roomID string) {
	rooms, ok := r.byUser[userKey]
	if !ok {
		rooms = make(map[string]struct{})
		r.byUser[userKey] = rooms
	}
	rooms[roomID] = struct{}{}
}

func (r *Registry) indexRemove(userKey, roomID string) {
	rooms, ok := r.byUser[userKey]
	if !ok {
		return
	}
	delete(rooms, roomID)
	if len(rooms) == 0 {
		delete(r.byUser, userKey)
	}
}
