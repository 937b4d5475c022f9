package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrQueueUnavailable = errors.New("message queue is not connected")
	ErrMessageParse     = errors.New("malformed queued message")
)

// QueuedMessage is a message held for an offline recipient. It lives in the
// recipient's durable queue until a drain pass hands it off, then it is gone.
type QueuedMessage struct {
	ChatID      string    `json:"chatId"`
	SenderKey   string    `json:"senderKey"`
	ReceiverKey string    `json:"receiverKey"`
	Payload     string    `json:"payload"`
	EnqueuedAt  time.Time `json:"enqueuedAt"`
}

// ChatHistory is one drained batch: every message waiting under a single chat
// id, in the order it was enqueued.
type ChatHistory struct {
	ChatID   string          `json:"chatId"`
	Messages []QueuedMessage `json:"messages"`
}

// MessageQueue is the durable per-recipient queue abstraction. One logical
// queue exists per user key; its name is a pure function of that key, so every
// process addressing the same recipient agrees on it.
type MessageQueue interface {
	// Enqueue persists msg to the queue of msg.ReceiverKey, creating the
	// queue if needed. Returns ErrQueueUnavailable when the broker channel
	// is down.
	Enqueue(ctx context.Context, msg QueuedMessage) error

	// Drain runs one bounded consumption pass over receiverKey's queue and
	// returns everything it acknowledged, grouped by chat id. Malformed
	// records are rejected without requeue and do not fail the pass. Drain
	// is a single pass, not a subscription.
	Drain(ctx context.Context, receiverKey string) ([]ChatHistory, error)
}
