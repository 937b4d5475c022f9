package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomAdmitCapsAtTwoUsers(t *testing.T) {
	room := NewRoom("chat-1")

	assert.Equal(t, Accepted, room.Admit("alicepk", "s1"))
	assert.Equal(t, Accepted, room.Admit("bobpk", "s2"))
	assert.Equal(t, RoomFull, room.Admit("evepk", "s3"))

	require.Len(t, room.Participants, 2)
	assert.ElementsMatch(t, []string{"alicepk", "bobpk"}, room.UserKeys())
}

func TestRoomReAdmitRefreshesSession(t *testing.T) {
	room := NewRoom("chat-1")

	require.Equal(t, Accepted, room.Admit("alicepk", "s1"))
	require.Equal(t, AlreadyMember, room.Admit("alicepk", "s2"))

	// Membership unchanged, but the seat now belongs to the new session.
	require.Len(t, room.Participants, 1)
	assert.Equal(t, "s2", room.Participants[0].SessionID)

	_, ok := room.RemoveSession("s1")
	assert.False(t, ok, "old session should no longer hold the seat")
}

func TestRoomReAdmitDoesNotConsumeSecondSeat(t *testing.T) {
	room := NewRoom("chat-1")

	require.Equal(t, Accepted, room.Admit("alicepk", "s1"))
	require.Equal(t, AlreadyMember, room.Admit("alicepk", "s2"))
	assert.Equal(t, Accepted, room.Admit("bobpk", "s3"))
}

func TestRoomRemoveSession(t *testing.T) {
	room := NewRoom("chat-1")
	room.Admit("alicepk", "s1")
	room.Admit("bobpk", "s2")

	p, ok := room.RemoveSession("s1")
	require.True(t, ok)
	assert.Equal(t, "alicepk", p.UserKey)

	assert.False(t, room.HasUser("alicepk"))
	assert.True(t, room.HasUser("bobpk"))
	assert.False(t, room.Empty())

	room.RemoveSession("s2")
	assert.True(t, room.Empty())
}

func TestRoomRemoveUnknownSession(t *testing.T) {
	room := NewRoom("chat-1")
	room.Admit("alicepk", "s1")

	_, ok := room.RemoveSession("nope")
	assert.False(t, ok)
	assert.True(t, room.HasUser("alicepk"))
}
