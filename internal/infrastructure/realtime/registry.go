package realtime

import (
	"sync"
)

// Sender is the minimal view the registry needs of a live session: a stable
// session id, the authenticated identity behind it, and the ability to push
// a payload. Keeping it an interface lets tests exercise room bookkeeping
// without real websockets.
type Sender interface {
	SessionID() string
	Identity() string
	Send(payload []byte) error
}

// Registry tracks which live sessions are subscribed to which listing room.
// It is process-local shared state: nothing is persisted, and a restart
// drops all membership (clients re-join on reconnect).
//
// Membership is connection-scoped — the same identity connected from two
// devices yields two independent memberships in a room.
type Registry struct {
	mu           sync.RWMutex
	sessions     map[string]Sender            // sessionID -> sender
	rooms        map[string]map[string]Sender // listingID -> sessionID -> sender
	sessionRooms map[string]map[string]struct{}
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions:     make(map[string]Sender),
		rooms:        make(map[string]map[string]Sender),
		sessionRooms: make(map[string]map[string]struct{}),
	}
}

// Attach registers a live session so it can later join rooms.
func (r *Registry) Attach(s Sender) {
	r.mu.Lock()
	r.sessions[s.SessionID()] = s
	r.sessionRooms[s.SessionID()] = make(map[string]struct{})
	r.mu.Unlock()
}

// Detach removes a session and all of its room memberships.
func (r *Registry) Detach(s Sender) {
	r.mu.Lock()
	r.detachLocked(s.SessionID())
	r.mu.Unlock()
}

// Join subscribes the session to the listing room. Joining an unknown
// (already detached) session is a no-op.
func (r *Registry) Join(listingID string, s Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sid := s.SessionID()
	if _, ok := r.sessions[sid]; !ok {
		return
	}

	room := r.rooms[listingID]
	if room == nil {
		room = make(map[string]Sender)
		r.rooms[listingID] = room
	}
	room[sid] = s
	r.sessionRooms[sid][listingID] = struct{}{}
}

// Leave unsubscribes the session from the listing room.
func (r *Registry) Leave(listingID string, s Sender) {
	r.mu.Lock()
	r.leaveLocked(listingID, s.SessionID())
	r.mu.Unlock()
}

// Broadcast delivers payload to every session joined to the listing room
// except those belonging to excludeUserID. Delivery is best-effort and
// fire-and-forget: failed sends are skipped, the recipient catches up on
// its next fetch. Returns the number of sessions delivered to.
func (r *Registry) Broadcast(listingID string, payload []byte, excludeUserID string) int {
	r.mu.RLock()
	room := r.rooms[listingID]
	targets := make([]Sender, 0, len(room))
	for _, s := range room {
		if excludeUserID != "" && s.Identity() == excludeUserID {
			continue
		}
		targets = append(targets, s)
	}
	r.mu.RUnlock()

	delivered := 0
	for _, s := range targets {
		if err := s.Send(payload); err == nil {
			delivered++
		}
	}
	return delivered
}

// RoomSize reports how many sessions are currently joined to the room.
func (r *Registry) RoomSize(listingID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[listingID])
}

// IdentityInRoom reports whether any session of the given user is joined
// to the listing room.
func (r *Registry) IdentityInRoom(listingID, userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.rooms[listingID] {
		if s.Identity() == userID {
			return true
		}
	}
	return false
}

// Close clears all registry state.
func (r *Registry) Close() {
	r.mu.Lock()
	r.sessions = make(map[string]Sender)
	r.rooms = make(map[string]map[string]Sender)
	r.sessionRooms = make(map[string]map[string]struct{})
	r.mu.Unlock()
}

func (r *Registry) detachLocked(sessionID string) {
	if _, ok := r.sessions[sessionID]; !ok {
		return
	}
	delete(r.sessions, sessionID)
	for listingID := range r.sessionRooms[sessionID] {
		r.leaveLocked(listingID, sessionID)
	}
	delete(r.sessionRooms, sessionID)
}

func (r *Registry) leaveLocked(listingID, sessionID string) {
	room := r.rooms[listingID]
	if room == nil {
		return
	}
	delete(room, sessionID)
	if len(room) == 0 {
		delete(r.rooms, listingID)
	}
	if memberships, ok := r.sessionRooms[sessionID]; ok {
		delete(memberships, listingID)
	}
}
