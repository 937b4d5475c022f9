package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBroker struct {
	connected bool
}

func (s stubBroker) Connected() bool { return s.connected }

func getHealth(t *testing.T, h *Handler) (int, map[string]any) {
	t.Helper()

	r := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	h.GetHealth(w, r)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestGetHealthBrokerUp(t *testing.T) {
	code, body := getHealth(t, NewHandler(stubBroker{connected: true}))

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["broker"])
	assert.NotEmpty(t, body["uptime"])
}

func TestGetHealthBrokerDown(t *testing.T) {
	code, body := getHealth(t, NewHandler(stubBroker{connected: false}))

	// A dead broker degrades the service but does not kill it; live relay
	// still works.
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, false, body["broker"])
}

func TestGetHealthNilBroker(t *testing.T) {
	code, body := getHealth(t, NewHandler(nil))

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "degraded", body["status"])
}
