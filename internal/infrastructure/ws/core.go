package ws

import (
	"context"
	"errors"

	"github.com/berkay1532/Wisper-Server/internal/domain"
	"github.com/berkay1532/Wisper-Server/internal/infrastructure/logging"
	"github.com/berkay1532/Wisper-Server/internal/infrastructure/metrics"
	"github.com/berkay1532/Wisper-Server/internal/infrastructure/validate"
)

// AuditSink receives audit entries for the durable audit trail. Publishing is
// best-effort; a failed publish never fails the event that produced it.
type AuditSink interface {
	Publish(ctx context.Context, entry *domain.ChatAuditLog) error
}

// Core is the session lifecycle manager. All register/unregister/command
// events funnel through one run loop, so room mutations and the two-member
// cap are handled one event at a time. Only queue drains leave the loop.
type Core struct {
	registry domain.PresenceRegistry
	queue    domain.MessageQueue
	router   *Router
	audit    AuditSink
	logger   logging.Logger

	register   chan *Client
	unregister chan *Client
	commands   chan *Command

	sessions map[string]*Client

	validateUserKey validate.Validator
	validateChatID  validate.Validator
}

func NewCore(registry domain.PresenceRegistry, queue domain.MessageQueue, audit AuditSink, logger logging.Logger) *Core {
	c := &Core{
		registry:        registry,
		queue:           queue,
		audit:           audit,
		logger:          logger,
		register:        make(chan *Client),
		unregister:      make(chan *Client),
		commands:        make(chan *Command, 256),
		sessions:        make(map[string]*Client),
		validateUserKey: validate.UserKey(),
		validateChatID:  validate.ChatID(),
	}

	c.router = NewRouter(registry, queue, c.deliverTo, logger)

	return c
}

func (c *Core) Register() chan<- *Client {
	return c.register
}

func (c *Core) Unregister() chan<- *Client {
	return c.unregister
}

func (c *Core) Commands() chan<- *Command {
	return c.commands
}

func (c *Core) Run(ctx context.Context) {
	for {
		select {
		case cl := <-c.register:
			c.handleConnect(cl)

		case cl := <-c.unregister:
			c.handleDisconnect(cl)

		case cmd := <-c.commands:
			c.handleCommand(ctx, cmd)

		case <-ctx.Done():
			return
		}
	}
}

func (c *Core) handleConnect(cl *Client) {
	c.sessions[cl.Session.ID] = cl
	metrics.SessionsActive.Inc()

	c.logger.Info(logging.WebSocket, logging.Lifecycle, "user connected", map[logging.ExtraKey]any{
		logging.SessionID: cl.Session.ID,
	})
}

func (c *Core) handleDisconnect(cl *Client) {
	if _, ok := c.sessions[cl.Session.ID]; !ok {
		// Stale session: already torn down, nothing to do.
		return
	}
	delete(c.sessions, cl.Session.ID)
	metrics.SessionsActive.Dec()

	removed := c.registry.Remove(cl.Session.ID)
	for _, p := range removed {
		c.broadcastToOthers(p.RoomID, cl.Session.ID, NewUserOffline(p.UserKey))
		c.publishAudit(domain.NewUserOfflineLog(p.RoomID, p.UserKey))
	}

	cl.closeMessages()

	c.logger.Info(logging.WebSocket, logging.Lifecycle, "user disconnected", map[logging.ExtraKey]any{
		logging.SessionID: cl.Session.ID,
		"rooms_left":      len(removed),
	})
}

func (c *Core) handleCommand(ctx context.Context, cmd *Command) {
	if cmd.Client == nil {
		return
	}
	if _, ok := c.sessions[cmd.Client.Session.ID]; !ok {
		// Command from a session that already disconnected: no-op.
		return
	}

	switch cmd.Kind {
	case CommandJoinChat:
		c.handleAdmit(ctx, cmd, false)

	case CommandCreateChat:
		c.handleAdmit(ctx, cmd, true)

	case CommandSendMessage:
		c.handleSend(ctx, cmd)

	case CommandTyping:
		c.broadcastToOthers(cmd.ChatID, cmd.Client.Session.ID, NewUserTyping(cmd.UserKey))

	case CommandStopTyping:
		c.broadcastToOthers(cmd.ChatID, cmd.Client.Session.ID, NewUserStoppedTyping(cmd.UserKey))

	case CommandSignResult:
		c.broadcastToOthers(cmd.ChatID, cmd.Client.Session.ID,
			NewReceiveSignResult(cmd.Sign.ChatID, cmd.Sign.SenderKey, cmd.Sign.SignResult))
	}
}

// handleAdmit drives the join/create transition: presence admit, pending
// message drain, online-list reply and online broadcast.
func (c *Core) handleAdmit(ctx context.Context, cmd *Command, creating bool) {
	cl := cmd.Client

	if err := c.validateUserKey(cmd.UserKey); err != nil {
		cl.Deliver(NewJoinError(err.Error()))
		return
	}
	if err := c.validateChatID(cmd.ChatID); err != nil {
		cl.Deliver(NewJoinError(err.Error()))
		return
	}

	result := c.registry.Admit(cmd.ChatID, cmd.UserKey, cl.Session.ID)

	switch result {
	case domain.RoomFull:
		cl.Deliver(NewJoinError("Chat is full. Only two users are allowed."))
		c.publishAudit(domain.NewRoomFullRejectionLog(cmd.ChatID, cmd.UserKey))
		c.logger.Info(logging.Presence, logging.Lifecycle, "join rejected, room full", map[logging.ExtraKey]any{
			logging.ChatID:  cmd.ChatID,
			logging.UserKey: cmd.UserKey,
		})
		return

	case domain.AlreadyMember:
		// Reconnect case: membership unchanged, session id refreshed.
		// No online broadcast goes out.
		cl.Session.UserKey = cmd.UserKey
		cl.Session.JoinRoom(cmd.ChatID)
		cl.Deliver(NewOnlineUsers(c.registry.MembersOf(cmd.ChatID)))

	case domain.Accepted:
		cl.Session.UserKey = cmd.UserKey
		cl.Session.JoinRoom(cmd.ChatID)

		c.broadcastToOthers(cmd.ChatID, cl.Session.ID, NewUserOnline(cmd.UserKey))
		cl.Deliver(NewOnlineUsers(c.registry.MembersOf(cmd.ChatID)))

		if creating && len(c.registry.MembersOf(cmd.ChatID)) == 1 {
			c.publishAudit(domain.NewRoomOpenedLog(cmd.ChatID, cmd.UserKey))
		}
		c.publishAudit(domain.NewUserJoinedLog(cmd.ChatID, cmd.UserKey, len(c.registry.MembersOf(cmd.ChatID))))

		c.logger.Info(logging.Presence, logging.Lifecycle, "user joined chat", map[logging.ExtraKey]any{
			logging.ChatID:    cmd.ChatID,
			logging.UserKey:   cmd.UserKey,
			logging.SessionID: cl.Session.ID,
		})
	}

	// Both fresh joins and reconnects pick up whatever queued up while the
	// user was away.
	go c.drainFor(ctx, cl, cmd.UserKey)
}

func (c *Core) handleSend(ctx context.Context, cmd *Command) {
	queued, err := c.router.Route(ctx, cmd.Message, cmd.Client.Session.ID)
	if err != nil {
		// The message is considered undelivered; the failure stays inside
		// this event.
		sub := logging.Enqueue
		if errors.Is(err, domain.ErrQueueUnavailable) {
			sub = logging.ExternalService
		}
		c.logger.Error(logging.RabbitMQ, sub, "failed to route message", map[logging.ExtraKey]any{
			logging.ChatID:       cmd.Message.ChatID,
			logging.ErrorMessage: err.Error(),
		})
		return
	}

	if queued {
		c.publishAudit(domain.NewMessageQueuedLog(cmd.Message.ChatID, cmd.Message.ReceiverKey))
	}
}

// drainFor runs one drain pass for userKey and feeds the batches to cl.
// It runs off the event loop; delivery to a session that disconnected
// mid-drain is dropped.
func (c *Core) drainFor(ctx context.Context, cl *Client, userKey string) {
	history, err := c.queue.Drain(ctx, userKey)
	if err != nil {
		c.logger.Error(logging.RabbitMQ, logging.Drain, "drain failed", map[logging.ExtraKey]any{
			logging.UserKey:      userKey,
			logging.ErrorMessage: err.Error(),
		})
		return
	}

	total := 0
	for _, h := range history {
		total += len(h.Messages)
		cl.Deliver(NewReceiveChat(h))
	}

	if total > 0 {
		c.publishAudit(domain.NewMessagesDrainedLog(userKey, len(history), total))
	}
}

func (c *Core) broadcastToOthers(roomID, senderSessionID string, ev *ServerEvent) {
	for _, p := range c.registry.ParticipantsOf(roomID) {
		if p.SessionID == senderSessionID {
			continue
		}
		c.deliverTo(p.SessionID, ev)
	}
}

func (c *Core) deliverTo(sessionID string, ev *ServerEvent) bool {
	cl, ok := c.sessions[sessionID]
	if !ok {
		return false
	}
	return cl.Deliver(ev)
}

func (c *Core) publishAudit(entry *domain.ChatAuditLog) {
	if c.audit == nil {
		return
	}
	if err := c.audit.Publish(context.Background(), entry); err != nil {
		c.logger.Warn(logging.RabbitMQ, logging.Audit, "failed to publish audit entry", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
	}
}
