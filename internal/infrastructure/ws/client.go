package ws

import (
	"sync"

	"github.com/berkay1532/Wisper-Server/internal/domain"
	"github.com/berkay1532/Wisper-Server/internal/infrastructure/logging"
	"github.com/gorilla/websocket"
)

// Client is one live connection and its session. The connection task owns it
// exclusively until disconnect.
type Client struct {
	conn    *websocket.Conn
	Session *domain.Session
	Message chan *ServerEvent

	mu     sync.Mutex
	closed bool
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		conn:    conn,
		Session: domain.NewSession(),
		Message: make(chan *ServerEvent, 64), // buffered to avoid dead-locks on slow clients
	}
}

// Deliver hands an event to the client's write pump. Delivery to a session
// that is already tearing down is silently dropped; live relay is
// fire-and-forget.
func (c *Client) Deliver(ev *ServerEvent) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.Message <- ev:
		return true
	default:
		// Slow consumer with a full buffer: drop rather than stall the core.
		return false
	}
}

func (c *Client) closeMessages() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.Message)
	}
}

// ReadPump parses inbound frames into commands for the core. It exits when
// the socket errors or closes, which triggers the disconnect transition.
func (c *Client) ReadPump(core *Core, logger logging.Logger) {
	defer func() {
		core.Unregister() <- c
		_ = c.conn.Close()
	}()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn(logging.WebSocket, logging.Lifecycle, "ws read error", map[logging.ExtraKey]any{
					logging.SessionID:    c.Session.ID,
					logging.ErrorMessage: err.Error(),
				})
			}
			break
		}

		cmd, err := parseFrame(raw)
		if err != nil {
			// A bad frame fails this event only, never the session.
			logger.Warn(logging.WebSocket, logging.Lifecycle, "dropping malformed frame", map[logging.ExtraKey]any{
				logging.SessionID:    c.Session.ID,
				logging.ErrorMessage: err.Error(),
			})
			continue
		}

		cmd.Client = c
		core.Commands() <- cmd
	}
}

// WritePump serializes events to the socket until the message channel closes.
func (c *Client) WritePump(logger logging.Logger) {
	defer func() {
		_ = c.conn.Close()
	}()

	for ev := range c.Message {
		if err := c.conn.WriteJSON(ev); err != nil {
			logger.Warn(logging.WebSocket, logging.Lifecycle, "ws write error", map[logging.ExtraKey]any{
				logging.SessionID:    c.Session.ID,
				logging.ErrorMessage: err.Error(),
			})
			break
		}
	}
}
