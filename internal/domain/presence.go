package domain

// Presence names one (room, user) seat held by a session.
type Presence struct {
	RoomID  string `json:"roomId"`
	UserKey string `json:"userKey"`
}

// PresenceRegistry tracks which user keys currently occupy which rooms.
// Implementations must serialize mutations: concurrent admits racing against
// the two-member cap have to be linearizable.
type PresenceRegistry interface {
	// Admit seats userKey in roomID under sessionID, creating the room
	// lazily. AlreadyMember refreshes the stored session id.
	Admit(roomID, userKey, sessionID string) AdmitResult

	// Remove unseats the session from every room it occupies and reports
	// what was removed. Rooms left empty are discarded.
	Remove(sessionID string) []Presence

	IsPresent(roomID, userKey string) bool

	// MembersOf returns the user keys seated in roomID, in seating order.
	MembersOf(roomID string) []string

	// ParticipantsOf returns the (session, key) pairs seated in roomID.
	ParticipantsOf(roomID string) []Participant

	// RoomsOf returns every room userKey currently occupies.
	RoomsOf(userKey string) []string
}
