package ws

import (
	"context"
	"testing"
	"time"

	"github.com/berkay1532/Wisper-Server/internal/domain"
	"github.com/berkay1532/Wisper-Server/internal/infrastructure/presence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCore(t *testing.T) (*Core, *fakeQueue) {
	t.Helper()

	queue := newFakeQueue()
	core := NewCore(presence.NewRegistry(), queue, nil, nopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go core.Run(ctx)

	return core, queue
}

func connect(core *Core) *Client {
	cl := NewClient(nil)
	core.Register() <- cl
	return cl
}

func join(core *Core, cl *Client, chatID, userKey string, creating bool) {
	kind := CommandJoinChat
	if creating {
		kind = CommandCreateChat
	}
	core.Commands() <- &Command{Kind: kind, Client: cl, ChatID: chatID, UserKey: userKey}
}

func TestCoreJoinAnnouncesAndReplies(t *testing.T) {
	core, _ := newTestCore(t)

	alice := connect(core)
	bob := connect(core)

	join(core, alice, "chat-1", "alicepk", true)
	ev := mustEvent(t, alice.Message, OnlineUsers)
	assert.Equal(t, []string{"alicepk"}, ev.Data)

	join(core, bob, "chat-1", "bobpk", false)

	// The earlier occupant hears about the newcomer.
	online := mustEvent(t, alice.Message, UserOnline)
	assert.Equal(t, "bobpk", online.Data)

	// The newcomer gets the current member list.
	ev = mustEvent(t, bob.Message, OnlineUsers)
	assert.ElementsMatch(t, []string{"alicepk", "bobpk"}, ev.Data)
}

func TestCoreLiveRelayWhenReceiverPresent(t *testing.T) {
	core, queue := newTestCore(t)

	alice := connect(core)
	bob := connect(core)
	join(core, alice, "chat-1", "alicepk", true)
	join(core, bob, "chat-1", "bobpk", false)
	mustEvent(t, bob.Message, OnlineUsers)

	core.Commands() <- &Command{
		Kind:   CommandSendMessage,
		Client: alice,
		ChatID: "chat-1",
		Message: MessagePayload{
			Payload:     "hello",
			SenderKey:   "alicepk",
			ReceiverKey: "bobpk",
			ChatID:      "chat-1",
		},
	}

	ev := mustEvent(t, bob.Message, ReceiveMessage)
	payload, ok := ev.Data.(MessagePayload)
	require.True(t, ok)
	assert.Equal(t, "hello", payload.Payload)
	assert.Equal(t, "alicepk", payload.SenderKey)

	// The sender never echoes back to itself, and nothing hits the queue.
	noEvent(t, alice.Message, ReceiveMessage)
	assert.Empty(t, queue.enqueuedMessages())
}

func TestCoreQueuesWhenReceiverOffline(t *testing.T) {
	core, queue := newTestCore(t)

	alice := connect(core)
	join(core, alice, "chat-1", "alicepk", true)
	mustEvent(t, alice.Message, OnlineUsers)

	core.Commands() <- &Command{
		Kind:   CommandSendMessage,
		Client: alice,
		ChatID: "chat-1",
		Message: MessagePayload{
			Payload:     "see you later",
			SenderKey:   "alicepk",
			ReceiverKey: "bobpk",
			ChatID:      "chat-1",
		},
	}

	require.Eventually(t, func() bool {
		return len(queue.enqueuedMessages()) == 1
	}, time.Second, 10*time.Millisecond)

	msg := queue.enqueuedMessages()[0]
	assert.Equal(t, "bobpk", msg.ReceiverKey)
	assert.Equal(t, "see you later", msg.Payload)
}

func TestCoreThirdUserRejected(t *testing.T) {
	core, _ := newTestCore(t)

	alice := connect(core)
	bob := connect(core)
	eve := connect(core)
	join(core, alice, "chat-1", "alicepk", true)
	join(core, bob, "chat-1", "bobpk", false)
	mustEvent(t, bob.Message, OnlineUsers)

	join(core, eve, "chat-1", "evepk", false)

	ev := mustEvent(t, eve.Message, JoinError)
	payload, ok := ev.Data.(ErrorPayload)
	require.True(t, ok)
	assert.Contains(t, payload.Message, "full")

	// Existing members never hear about the rejected attempt.
	noEvent(t, alice.Message, UserOnline)
}

func TestCoreRejectsInvalidUserKey(t *testing.T) {
	core, _ := newTestCore(t)

	alice := connect(core)
	join(core, alice, "chat-1", "a b", false)

	mustEvent(t, alice.Message, JoinError)
}

func TestCoreReconnectDoesNotReannounce(t *testing.T) {
	core, _ := newTestCore(t)

	alice := connect(core)
	bob := connect(core)
	join(core, alice, "chat-1", "alicepk", true)
	join(core, bob, "chat-1", "bobpk", false)
	mustEvent(t, alice.Message, UserOnline)

	// Same key, new connection.
	bob2 := connect(core)
	join(core, bob2, "chat-1", "bobpk", false)

	ev := mustEvent(t, bob2.Message, OnlineUsers)
	assert.ElementsMatch(t, []string{"alicepk", "bobpk"}, ev.Data)
	noEvent(t, alice.Message, UserOnline)
}

func TestCoreDisconnectBroadcastsOffline(t *testing.T) {
	core, _ := newTestCore(t)

	alice := connect(core)
	bob := connect(core)
	join(core, alice, "chat-1", "alicepk", true)
	join(core, bob, "chat-1", "bobpk", false)
	mustEvent(t, alice.Message, UserOnline)

	core.Unregister() <- bob

	ev := mustEvent(t, alice.Message, UserOffline)
	assert.Equal(t, "bobpk", ev.Data)
}

func TestCoreDrainsPendingOnJoin(t *testing.T) {
	core, queue := newTestCore(t)

	queue.prime("bobpk", domain.ChatHistory{
		ChatID: "chat-1",
		Messages: []domain.QueuedMessage{
			{ChatID: "chat-1", SenderKey: "alicepk", ReceiverKey: "bobpk", Payload: "first"},
			{ChatID: "chat-1", SenderKey: "alicepk", ReceiverKey: "bobpk", Payload: "second"},
		},
	})

	bob := connect(core)
	join(core, bob, "chat-1", "bobpk", false)

	ev := mustEvent(t, bob.Message, ReceiveChat)
	payload, ok := ev.Data.(ChatHistoryPayload)
	require.True(t, ok)
	assert.Equal(t, "chat-1", payload.ChatID)
	assert.Equal(t, []string{"first", "second"}, payload.Messages)
}

func TestCoreTypingPassthrough(t *testing.T) {
	core, _ := newTestCore(t)

	alice := connect(core)
	bob := connect(core)
	join(core, alice, "chat-1", "alicepk", true)
	join(core, bob, "chat-1", "bobpk", false)
	mustEvent(t, alice.Message, UserOnline)

	core.Commands() <- &Command{Kind: CommandTyping, Client: alice, ChatID: "chat-1", UserKey: "alicepk"}
	ev := mustEvent(t, bob.Message, UserTyping)
	assert.Equal(t, "alicepk", ev.Data)

	core.Commands() <- &Command{Kind: CommandStopTyping, Client: alice, ChatID: "chat-1", UserKey: "alicepk"}
	ev = mustEvent(t, bob.Message, UserStoppedTyping)
	assert.Equal(t, "alicepk", ev.Data)

	// Typing never reaches the party that typed.
	noEvent(t, alice.Message, UserTyping)
}

func TestCoreSignResultPassthrough(t *testing.T) {
	core, _ := newTestCore(t)

	alice := connect(core)
	bob := connect(core)
	join(core, alice, "chat-1", "alicepk", true)
	join(core, bob, "chat-1", "bobpk", false)
	mustEvent(t, alice.Message, UserOnline)

	core.Commands() <- &Command{
		Kind:   CommandSignResult,
		Client: alice,
		ChatID: "chat-1",
		Sign:   SignResultPayload{ChatID: "chat-1", SenderKey: "alicepk", SignResult: "ok"},
	}

	ev := mustEvent(t, bob.Message, ReceiveSignResult)
	payload, ok := ev.Data.(SignResultPayload)
	require.True(t, ok)
	assert.Equal(t, "ok", payload.SignResult)
}

func TestCoreIgnoresCommandsFromUnknownSession(t *testing.T) {
	core, queue := newTestCore(t)

	ghost := NewClient(nil) // never registered
	core.Commands() <- &Command{
		Kind:   CommandSendMessage,
		Client: ghost,
		Message: MessagePayload{
			Payload: "boo", SenderKey: "ghostpk", ReceiverKey: "bobpk", ChatID: "chat-1",
		},
	}

	noEvent(t, ghost.Message, ReceiveMessage)
	assert.Empty(t, queue.enqueuedMessages())
}

func TestClientDeliverAfterCloseIsDropped(t *testing.T) {
	cl := NewClient(nil)
	require.True(t, cl.Deliver(NewUserOnline("alicepk")))

	cl.closeMessages()
	assert.False(t, cl.Deliver(NewUserOnline("bobpk")))
}
