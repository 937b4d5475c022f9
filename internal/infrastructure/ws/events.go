package ws

import "github.com/berkay1532/Wisper-Server/internal/domain"

// ServerEvent is the frame sent to clients.
type ServerEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Payload structs
type MessagePayload struct {
	Payload     string `json:"message"`
	SenderKey   string `json:"senderPk"`
	ReceiverKey string `json:"receiverPk"`
	ChatID      string `json:"chatId"`
}

type ChatHistoryPayload struct {
	ChatID   string   `json:"chat_id"`
	Messages []string `json:"messages"`
}

type SignResultPayload struct {
	ChatID     string `json:"chatId"`
	SenderKey  string `json:"senderPk"`
	SignResult string `json:"signResult"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func NewOnlineUsers(userKeys []string) *ServerEvent {
	if userKeys == nil {
		userKeys = []string{}
	}
	return &ServerEvent{
		Event: OnlineUsers,
		Data:  userKeys,
	}
}

func NewUserOnline(userKey string) *ServerEvent {
	return &ServerEvent{
		Event: UserOnline,
		Data:  userKey,
	}
}

func NewUserOffline(userKey string) *ServerEvent {
	return &ServerEvent{
		Event: UserOffline,
		Data:  userKey,
	}
}

func NewJoinError(reason string) *ServerEvent {
	return &ServerEvent{
		Event: JoinError,
		Data:  ErrorPayload{Message: reason},
	}
}

func NewReceiveMessage(chatID, senderKey, receiverKey, payload string) *ServerEvent {
	return &ServerEvent{
		Event: ReceiveMessage,
		Data: MessagePayload{
			Payload:     payload,
			SenderKey:   senderKey,
			ReceiverKey: receiverKey,
			ChatID:      chatID,
		},
	}
}

// NewReceiveChat carries one drained chat history: every message that was
// waiting under a single chat id, oldest first.
func NewReceiveChat(history domain.ChatHistory) *ServerEvent {
	messages := make([]string, 0, len(history.Messages))
	for _, m := range history.Messages {
		messages = append(messages, m.Payload)
	}
	return &ServerEvent{
		Event: ReceiveChat,
		Data: ChatHistoryPayload{
			ChatID:   history.ChatID,
			Messages: messages,
		},
	}
}

func NewUserTyping(userKey string) *ServerEvent {
	return &ServerEvent{
		Event: UserTyping,
		Data:  userKey,
	}
}

func NewUserStoppedTyping(userKey string) *ServerEvent {
	return &ServerEvent{
		Event: UserStoppedTyping,
		Data:  userKey,
	}
}

func NewReceiveSignResult(chatID, senderKey, signResult string) *ServerEvent {
	return &ServerEvent{
		Event: ReceiveSignResult,
		Data: SignResultPayload{
			ChatID:     chatID,
			SenderKey:  senderKey,
			SignResult: signResult,
		},
	}
}
