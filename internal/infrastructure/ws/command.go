package ws

import (
	"encoding/json"
	"fmt"
)

type CommandKind int

const (
	CommandJoinChat CommandKind = iota
	CommandCreateChat
	CommandSendMessage
	CommandTyping
	CommandStopTyping
	CommandSignResult
)

// Command is one inbound client event, already parsed and bound to the
// session that sent it.
type Command struct {
	Kind   CommandKind
	Client *Client

	ChatID  string
	UserKey string

	// send message
	Message MessagePayload

	// sign result
	Sign SignResultPayload
}

type clientFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type roomUserPayload struct {
	ChatID  string `json:"chatId"`
	UserKey string `json:"pubkey"`
}

// parseFrame turns a raw websocket frame into a Command. Unknown or malformed
// frames error out without touching any state.
func parseFrame(raw []byte) (*Command, error) {
	var frame clientFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return nil, fmt.Errorf("malformed frame: %w", err)
	}

	switch frame.Event {
	case JoinChat, CreateChat, Typing, StopTyping:
		var p roomUserPayload
		if err := json.Unmarshal(frame.Data, &p); err != nil {
			return nil, fmt.Errorf("malformed %q payload: %w", frame.Event, err)
		}

		kind := map[string]CommandKind{
			JoinChat:   CommandJoinChat,
			CreateChat: CommandCreateChat,
			Typing:     CommandTyping,
			StopTyping: CommandStopTyping,
		}[frame.Event]

		return &Command{Kind: kind, ChatID: p.ChatID, UserKey: p.UserKey}, nil

	case SendMessage:
		var p MessagePayload
		if err := json.Unmarshal(frame.Data, &p); err != nil {
			return nil, fmt.Errorf("malformed %q payload: %w", frame.Event, err)
		}
		return &Command{Kind: CommandSendMessage, ChatID: p.ChatID, Message: p}, nil

	case SignResult:
		var p SignResultPayload
		if err := json.Unmarshal(frame.Data, &p); err != nil {
			return nil, fmt.Errorf("malformed %q payload: %w", frame.Event, err)
		}
		return &Command{Kind: CommandSignResult, ChatID: p.ChatID, Sign: p}, nil

	default:
		return nil, fmt.Errorf("unknown event %q", frame.Event)
	}
}
