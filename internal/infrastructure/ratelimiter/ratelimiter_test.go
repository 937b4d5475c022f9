package ratelimiter

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowConsumesBurst(t *testing.T) {
	rl := New(Options{MaxRatePerSecond: 1, MaxBurst: 3})

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("src"), "request %d should pass", i)
	}
	assert.False(t, rl.Allow("src"))
}

func TestSourcesAreIndependent(t *testing.T) {
	rl := New(Options{MaxRatePerSecond: 1, MaxBurst: 1})

	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))
}

func TestTokensRefillOverTime(t *testing.T) {
	rl := New(Options{MaxRatePerSecond: 100, MaxBurst: 1})

	assert.True(t, rl.Allow("src"))
	assert.False(t, rl.Allow("src"))

	time.Sleep(30 * time.Millisecond)
	assert.True(t, rl.Allow("src"))
}

func TestRemainingNeverExceedsBurst(t *testing.T) {
	rl := New(Options{MaxRatePerSecond: 1000, MaxBurst: 5})

	assert.Equal(t, 5, rl.Remaining("src"))
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 5, rl.Remaining("src"))
}

func TestGetSourceKeyPrefersHeader(t *testing.T) {
	rl := New(Options{MaxRatePerSecond: 1, SourceHeaderKey: "X-Forwarded-For"})

	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	assert.Equal(t, "10.0.0.1:1234", rl.GetSourceKey(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.7")
	assert.Equal(t, "203.0.113.7", rl.GetSourceKey(r))
}

func TestDefaultsApplied(t *testing.T) {
	rl := New(Options{MaxRatePerSecond: 10})
	assert.Equal(t, 10, rl.GetMaxBurst())
}
