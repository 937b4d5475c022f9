package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/berkay1532/Wisper-Server/internal/domain"
	"github.com/berkay1532/Wisper-Server/internal/infrastructure/contracts"
	"github.com/berkay1532/Wisper-Server/internal/infrastructure/logging"
	"github.com/berkay1532/Wisper-Server/internal/infrastructure/metrics"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const DefaultDrainWindow = time.Second

// UserQueue is the durable per-recipient queue client. One instance serves
// the whole process.
type UserQueue struct {
	rabbitmq *RabbitMQ
	base     string
	window   time.Duration
	logger   logging.Logger
}

func NewUserQueue(rabbitmq *RabbitMQ, base string, window time.Duration, logger logging.Logger) *UserQueue {
	if window <= 0 {
		window = DefaultDrainWindow
	}

	return &UserQueue{
		rabbitmq: rabbitmq,
		base:     base,
		window:   window,
		logger:   logger,
	}
}

// Enqueue persists msg to its receiver's durable queue, creating the queue if
// this is the first message ever held for that recipient.
func (q *UserQueue) Enqueue(ctx context.Context, msg domain.QueuedMessage) error {
	if !q.rabbitmq.Connected() {
		metrics.EnqueueFailures.Inc()
		return domain.ErrQueueUnavailable
	}

	queueName := UserQueueName(q.base, msg.ReceiverKey)
	if err := q.rabbitmq.DeclareQueue(queueName); err != nil {
		metrics.EnqueueFailures.Inc()
		return err
	}

	if msg.EnqueuedAt.IsZero() {
		msg.EnqueuedAt = time.Now()
	}

	body, err := json.Marshal(contracts.QueuedMessageRecord{
		ChatID:      msg.ChatID,
		SenderKey:   msg.SenderKey,
		ReceiverKey: msg.ReceiverKey,
		Payload:     msg.Payload,
		EnqueuedAt:  msg.EnqueuedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal queued message: %w", err)
	}

	if err := q.rabbitmq.PublishToQueue(ctx, queueName, body); err != nil {
		metrics.EnqueueFailures.Inc()
		return fmt.Errorf("failed to publish to %s: %w", queueName, err)
	}

	metrics.MessagesEnqueued.Inc()
	q.logger.Info(logging.RabbitMQ, logging.Enqueue, "message queued for offline recipient", map[logging.ExtraKey]any{
		logging.ChatID:    msg.ChatID,
		logging.QueueName: queueName,
	})

	return nil
}

// Drain runs one bounded consumption pass over receiverKey's queue. The pass
// stays open for the aggregation window so near-simultaneous arrivals come
// back as one batch, then the consumer is cancelled. It is not a
// subscription: anything enqueued after the window closes waits for the next
// drain.
func (q *UserQueue) Drain(ctx context.Context, receiverKey string) ([]domain.ChatHistory, error) {
	if !q.rabbitmq.Connected() {
		return nil, domain.ErrQueueUnavailable
	}

	queueName := UserQueueName(q.base, receiverKey)
	if err := q.rabbitmq.DeclareQueue(queueName); err != nil {
		return nil, err
	}

	ch, err := q.rabbitmq.ConsumerChannel()
	if err != nil {
		return nil, err
	}
	defer ch.Close()

	tag := "drain-" + uuid.NewString()
	deliveries, err := ch.Consume(
		queueName, // queue
		tag,       // consumer tag
		false,     // auto-ack: handoff is acknowledged per message
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return nil, fmt.Errorf("failed to consume %s: %w", queueName, err)
	}

	history := q.collect(deliveries)

	// Stop the broker from pushing more; already-buffered deliveries were
	// either handled inside the window or will be redelivered after close.
	if err := ch.Cancel(tag, false); err != nil {
		q.logger.Warn(logging.RabbitMQ, logging.Drain, "failed to cancel drain consumer", map[logging.ExtraKey]any{
			logging.QueueName:    queueName,
			logging.ErrorMessage: err.Error(),
		})
	}

	total := 0
	for _, h := range history {
		total += len(h.Messages)
	}
	if total > 0 {
		q.logger.Info(logging.RabbitMQ, logging.Drain, "drained pending messages", map[logging.ExtraKey]any{
			logging.QueueName: queueName,
			"chats":           len(history),
			"messages":        total,
		})
	}

	return history, nil
}

// collect accumulates deliveries until the aggregation window elapses. The
// window is deliberately not cancellable mid-pass: once started it runs to
// completion before emission.
func (q *UserQueue) collect(deliveries <-chan amqp.Delivery) []domain.ChatHistory {
	var (
		order  []string
		groups = make(map[string][]domain.QueuedMessage)
	)

	timeout := time.After(q.window)
	for {
		select {
		case d, ok := <-deliveries:
			if !ok {
				return buildHistory(order, groups)
			}

			msg, err := parseRecord(d.Body)
			if err != nil {
				// Poison message: drop it rather than loop on it.
				metrics.MalformedDropped.Inc()
				q.logger.Warn(logging.RabbitMQ, logging.Drain, "dropping malformed queued record", map[logging.ExtraKey]any{
					logging.ErrorMessage: err.Error(),
				})
				_ = d.Reject(false)
				continue
			}

			if _, seen := groups[msg.ChatID]; !seen {
				order = append(order, msg.ChatID)
			}
			groups[msg.ChatID] = append(groups[msg.ChatID], msg)

			metrics.MessagesDrained.Inc()
			_ = d.Ack(false)

		case <-timeout:
			return buildHistory(order, groups)
		}
	}
}

func buildHistory(order []string, groups map[string][]domain.QueuedMessage) []domain.ChatHistory {
	history := make([]domain.ChatHistory, 0, len(order))
	for _, chatID := range order {
		history = append(history, domain.ChatHistory{
			ChatID:   chatID,
			Messages: groups[chatID],
		})
	}
	return history
}

func parseRecord(body []byte) (domain.QueuedMessage, error) {
	var record contracts.QueuedMessageRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return domain.QueuedMessage{}, fmt.Errorf("%w: %v", domain.ErrMessageParse, err)
	}

	if record.ChatID == "" || record.ReceiverKey == "" {
		return domain.QueuedMessage{}, fmt.Errorf("%w: missing chat or receiver", domain.ErrMessageParse)
	}

	return domain.QueuedMessage{
		ChatID:      record.ChatID,
		SenderKey:   record.SenderKey,
		ReceiverKey: record.ReceiverKey,
		Payload:     record.Payload,
		EnqueuedAt:  record.EnqueuedAt,
	}, nil
}
