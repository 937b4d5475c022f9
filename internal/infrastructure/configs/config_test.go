package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, uint16(8080), cfg.HTTP.Port)
	assert.Equal(t, "wisper", cfg.Rabbit.Queue)
	assert.Equal(t, time.Second, cfg.Rabbit.DrainWindow)
	assert.Equal(t, "wisper_audit", cfg.Rabbit.AuditQueue)
	assert.False(t, cfg.Mongo.Enabled)
	assert.Empty(t, cfg.Sign.Secret)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
http:
  port: 9999
rabbit:
  queue: "custom"
  drain_window: 250ms
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, uint16(9999), cfg.HTTP.Port)
	assert.Equal(t, "custom", cfg.Rabbit.Queue)
	assert.Equal(t, 250*time.Millisecond, cfg.Rabbit.DrainWindow)

	// Untouched keys keep their defaults.
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("RABBIT_URL", "amqp://env-host:5672/")
	t.Setenv("RABBIT_DRAIN_WINDOW_MS", "500")
	t.Setenv("MONGODB_URI", "mongodb://env-mongo:27017")
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "amqp://env-host:5672/", cfg.Rabbit.URI)
	assert.Equal(t, 500*time.Millisecond, cfg.Rabbit.DrainWindow)
	assert.Equal(t, "env-secret", cfg.Sign.Secret)

	// Pointing at a mongo instance switches the audit trail on.
	assert.True(t, cfg.Mongo.Enabled)
	assert.Equal(t, "mongodb://env-mongo:27017", cfg.Mongo.URI)
}
