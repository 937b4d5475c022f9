package ws

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/berkay1532/Wisper-Server/internal/domain"
	"github.com/berkay1532/Wisper-Server/internal/infrastructure/logging"
)

// mustEvent pulls events off a client's message channel until one with the
// wanted name shows up, skipping everything else.
func mustEvent(t *testing.T, ch <-chan *ServerEvent, event string) *ServerEvent {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Event == event {
				return ev
			}
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
	t.Fatalf("expected event %q not received", event)
	return nil
}

// noEvent asserts that no event with the given name arrives within the
// window. Other events are discarded.
func noEvent(t *testing.T, ch <-chan *ServerEvent, event string) {
	t.Helper()

	deadline := time.Now().Add(100 * time.Millisecond)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev != nil && ev.Event == event {
				t.Fatalf("unexpected event %q: %+v", event, ev)
			}
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
}

// fakeQueue is an in-memory stand-in for the durable queue. Drain hands back
// the primed history once, then nothing.
type fakeQueue struct {
	mu       sync.Mutex
	enqueued []domain.QueuedMessage
	pending  map[string][]domain.ChatHistory
	drains   []string

	enqueueErr error
}

func newFakeQueue() *fakeQueue {
	return &fakeQueue{pending: make(map[string][]domain.ChatHistory)}
}

func (q *fakeQueue) Enqueue(_ context.Context, msg domain.QueuedMessage) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.enqueueErr != nil {
		return q.enqueueErr
	}
	q.enqueued = append(q.enqueued, msg)
	return nil
}

func (q *fakeQueue) Drain(_ context.Context, receiverKey string) ([]domain.ChatHistory, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.drains = append(q.drains, receiverKey)
	history := q.pending[receiverKey]
	delete(q.pending, receiverKey)
	return history, nil
}

func (q *fakeQueue) prime(receiverKey string, history ...domain.ChatHistory) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending[receiverKey] = history
}

func (q *fakeQueue) enqueuedMessages() []domain.QueuedMessage {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]domain.QueuedMessage, len(q.enqueued))
	copy(out, q.enqueued)
	return out
}

// nopLogger keeps test output quiet.
type nopLogger struct{}

func (nopLogger) Init() {}
func (nopLogger) Debug(logging.Category, logging.SubCategory, string, map[logging.ExtraKey]any) {}
func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Info(logging.Category, logging.SubCategory, string, map[logging.ExtraKey]any) {}
func (nopLogger) Infof(string, ...any) {}
func (nopLogger) Warn(logging.Category, logging.SubCategory, string, map[logging.ExtraKey]any) {}
func (nopLogger) Warnf(string, ...any) {}
func (nopLogger) Error(logging.Category, logging.SubCategory, string, map[logging.ExtraKey]any) {}
func (nopLogger) Errorf(string, ...any) {}
func (nopLogger) Fatal(logging.Category, logging.SubCategory, string, map[logging.ExtraKey]any) {}
func (nopLogger) Fatalf(string, ...any) {}
