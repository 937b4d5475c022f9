package ws

import (
	"encoding/json"
	"testing"

	"github.com/berkay1532/Wisper-Server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOnlineUsersNeverNil(t *testing.T) {
	ev := NewOnlineUsers(nil)

	raw, err := json.Marshal(ev)
	require.NoError(t, err)

	// Clients get an empty list, never null.
	assert.JSONEq(t, `{"event":"online users","data":[]}`, string(raw))
}

func TestNewReceiveChatFlattensPayloads(t *testing.T) {
	ev := NewReceiveChat(domain.ChatHistory{
		ChatID: "chat-1",
		Messages: []domain.QueuedMessage{
			{ChatID: "chat-1", Payload: "first"},
			{ChatID: "chat-1", Payload: "second"},
		},
	})

	payload, ok := ev.Data.(ChatHistoryPayload)
	require.True(t, ok)
	assert.Equal(t, ReceiveChat, ev.Event)
	assert.Equal(t, "chat-1", payload.ChatID)
	assert.Equal(t, []string{"first", "second"}, payload.Messages)
}

func TestServerEventWireShape(t *testing.T) {
	ev := NewReceiveMessage("chat-1", "alicepk", "bobpk", "hi")

	raw, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"event": "receive message",
		"data": {"message":"hi","senderPk":"alicepk","receiverPk":"bobpk","chatId":"chat-1"}
	}`, string(raw))
}
