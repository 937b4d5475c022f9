package health

import (
	"net/http"
	"time"

	"github.com/berkay1532/Wisper-Server/internal/infrastructure/json"
)

var startTime = time.Now()

// BrokerChecker reports whether the shared broker connection is usable.
type BrokerChecker interface {
	Connected() bool
}

type Handler struct {
	broker BrokerChecker
}

func NewHandler(broker BrokerChecker) *Handler {
	return &Handler{broker: broker}
}

// GetHealth reports liveness plus broker connectivity. A lost broker makes
// the service degraded (live-only relay), not dead.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	brokerUp := h.broker != nil && h.broker.Connected()
	if !brokerUp {
		status = "degraded"
	}

	json.Write(w, http.StatusOK, healthResponse{
		Status:    status,
		Broker:    brokerUp,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(startTime).Round(time.Second).String(),
	})
}
