package chat

import (
	"errors"
	"net/http"

	"github.com/berkay1532/Wisper-Server/internal/infrastructure/json"
	"github.com/berkay1532/Wisper-Server/internal/infrastructure/logging"
	"github.com/berkay1532/Wisper-Server/internal/infrastructure/sign"
	"github.com/berkay1532/Wisper-Server/internal/infrastructure/validate"
	"github.com/berkay1532/Wisper-Server/internal/infrastructure/ws"
	"github.com/gorilla/websocket"
)

type Handler struct {
	core     *ws.Core
	signer   *sign.Signer
	logger   logging.Logger
	upgrader websocket.Upgrader

	validateUserKey validate.Validator
}

func NewHandler(core *ws.Core, signer *sign.Signer, logger logging.Logger, allowedOrigins []string) *Handler {
	allowAll := false
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		origins[o] = struct{}{}
	}

	return &Handler{
		core:   core,
		signer: signer,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowAll {
					return true
				}
				_, ok := origins[r.Header.Get("Origin")]
				return ok
			},
		},
		validateUserKey: validate.UserKey(),
	}
}

// AttachHandler upgrades the connection and starts one session. Everything
// after the upgrade happens over the socket protocol.
func (h *Handler) AttachHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn(logging.WebSocket, logging.Lifecycle, "websocket upgrade failed", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
			logging.ClientIp:     r.RemoteAddr,
		})
		return
	}

	client := ws.NewClient(conn)
	h.core.Register() <- client

	go client.WritePump(h.logger)
	go client.ReadPump(h.core, h.logger)
}

// MintChatHandler mints a signed chat id for a pair of user keys.
func (h *Handler) MintChatHandler(w http.ResponseWriter, r *http.Request) {
	if h.signer == nil {
		json.WriteError(w, http.StatusServiceUnavailable, errors.New("signer disabled"), "Chat id signing is not configured")
		return
	}

	var req mintChatRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	if err := h.validateUserKey(req.SenderKey); err != nil {
		json.WriteValidationError(w, err)
		return
	}
	if err := h.validateUserKey(req.ReceiverKey); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	chatID, err := h.signer.MintChatID(req.SenderKey, req.ReceiverKey)
	if err != nil {
		h.logger.Error(logging.Internal, logging.ExternalService, "failed to mint chat id", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
		json.WriteInternalError(w, err)
		return
	}

	json.Write(w, http.StatusCreated, mintChatResponse{
		ChatID:      chatID,
		SenderKey:   req.SenderKey,
		ReceiverKey: req.ReceiverKey,
	})
}
