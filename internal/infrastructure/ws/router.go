package ws

import (
	"context"

	"github.com/berkay1532/Wisper-Server/internal/domain"
	"github.com/berkay1532/Wisper-Server/internal/infrastructure/logging"
	"github.com/berkay1532/Wisper-Server/internal/infrastructure/metrics"
)

// Router decides, per outgoing message, between live relay and durable
// enqueue. Presence is checked first; if the receiver holds a seat in the
// chat, the payload goes straight to the other participants' transports.
// There is a window between the presence check and the write where the
// receiver can vanish; a relay into that window is dropped silently.
type Router struct {
	registry domain.PresenceRegistry
	queue    domain.MessageQueue
	deliver  func(sessionID string, ev *ServerEvent) bool
	logger   logging.Logger
}

func NewRouter(
	registry domain.PresenceRegistry,
	queue domain.MessageQueue,
	deliver func(sessionID string, ev *ServerEvent) bool,
	logger logging.Logger,
) *Router {
	return &Router{
		registry: registry,
		queue:    queue,
		deliver:  deliver,
		logger:   logger,
	}
}

// Route relays p live when its receiver is present in the chat, otherwise
// persists it. The returned bool reports whether the message was enqueued.
func (r *Router) Route(ctx context.Context, p MessagePayload, senderSessionID string) (bool, error) {
	if r.registry.IsPresent(p.ChatID, p.ReceiverKey) {
		ev := NewReceiveMessage(p.ChatID, p.SenderKey, p.ReceiverKey, p.Payload)

		// Fire-and-forget: no acknowledgment is required from the
		// recipient transport.
		for _, part := range r.registry.ParticipantsOf(p.ChatID) {
			if part.SessionID == senderSessionID {
				continue
			}
			r.deliver(part.SessionID, ev)
		}

		metrics.MessagesRelayed.Inc()
		r.logger.Debug(logging.WebSocket, logging.Relay, "message relayed live", map[logging.ExtraKey]any{
			logging.ChatID: p.ChatID,
		})
		return false, nil
	}

	err := r.queue.Enqueue(ctx, domain.QueuedMessage{
		ChatID:      p.ChatID,
		SenderKey:   p.SenderKey,
		ReceiverKey: p.ReceiverKey,
		Payload:     p.Payload,
	})
	if err != nil {
		return false, err
	}

	return true, nil
}
