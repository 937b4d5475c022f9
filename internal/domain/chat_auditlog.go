package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ChatEventType string

const (
	EventUserJoined     ChatEventType = "user_joined"
	EventUserOffline    ChatEventType = "user_offline"
	EventRoomOpened     ChatEventType = "room_opened"
	EventRoomFull       ChatEventType = "room_full_rejected"
	EventMessageQueued  ChatEventType = "message_queued"
	EventMessageDrained ChatEventType = "messages_drained"
)

type ChatAuditLog struct {
	ID        string         `bson:"_id" json:"id"`
	ChatID    string         `bson:"chat_id" json:"chatId"`
	EventType ChatEventType  `bson:"event_type" json:"eventType"`
	Timestamp time.Time      `bson:"timestamp" json:"timestamp"`
	Metadata  map[string]any `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

type ChatAuditRepository interface {
	Log(ctx context.Context, log *ChatAuditLog) error
	GetByChatID(ctx context.Context, chatID string, limit int) ([]ChatAuditLog, error)
	DeleteOlderThan(ctx context.Context, before time.Time) error
	EnsureIndexes(ctx context.Context) error
}

func NewUserJoinedLog(chatID, userKey string, memberCount int) *ChatAuditLog {
	return &ChatAuditLog{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		EventType: EventUserJoined,
		Timestamp: time.Now(),
		Metadata: map[string]any{
			"user_key":     userKey,
			"member_count": memberCount,
		},
	}
}

func NewUserOfflineLog(chatID, userKey string) *ChatAuditLog {
	return &ChatAuditLog{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		EventType: EventUserOffline,
		Timestamp: time.Now(),
		Metadata: map[string]any{
			"user_key": userKey,
		},
	}
}

func NewRoomOpenedLog(chatID, creatorKey string) *ChatAuditLog {
	return &ChatAuditLog{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		EventType: EventRoomOpened,
		Timestamp: time.Now(),
		Metadata: map[string]any{
			"creator_key": creatorKey,
		},
	}
}

func NewRoomFullRejectionLog(chatID, userKey string) *ChatAuditLog {
	return &ChatAuditLog{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		EventType: EventRoomFull,
		Timestamp: time.Now(),
		Metadata: map[string]any{
			"user_key": userKey,
		},
	}
}

func NewMessageQueuedLog(chatID, receiverKey string) *ChatAuditLog {
	return &ChatAuditLog{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		EventType: EventMessageQueued,
		Timestamp: time.Now(),
		Metadata: map[string]any{
			"receiver_key": receiverKey,
		},
	}
}

func NewMessagesDrainedLog(receiverKey string, chats, messages int) *ChatAuditLog {
	return &ChatAuditLog{
		ID:        uuid.NewString(),
		EventType: EventMessageDrained,
		Timestamp: time.Now(),
		Metadata: map[string]any{
			"receiver_key":  receiverKey,
			"chat_count":    chats,
			"message_count": messages,
		},
	}
}
