package events

import (
	"context"
	"encoding/json"

	"github.com/berkay1532/Wisper-Server/internal/domain"
	"github.com/berkay1532/Wisper-Server/internal/infrastructure/contracts"
	"github.com/berkay1532/Wisper-Server/internal/infrastructure/logging"
	"github.com/berkay1532/Wisper-Server/internal/infrastructure/messaging"
)

// AuditConsumer drains the audit queue into the audit repository. It is a
// long-lived subscription, unlike the per-recipient message drains.
type AuditConsumer struct {
	rabbitmq   *messaging.RabbitMQ
	queue      string
	repository domain.ChatAuditRepository
	logger     logging.Logger
}

func NewAuditConsumer(
	rabbitmq *messaging.RabbitMQ,
	queue string,
	repository domain.ChatAuditRepository,
	logger logging.Logger,
) *AuditConsumer {
	return &AuditConsumer{
		rabbitmq:   rabbitmq,
		queue:      queue,
		repository: repository,
		logger:     logger,
	}
}

func (c *AuditConsumer) Listen(ctx context.Context) error {
	if err := c.rabbitmq.DeclareQueue(c.queue); err != nil {
		return err
	}

	ch, err := c.rabbitmq.ConsumerChannel()
	if err != nil {
		return err
	}
	defer ch.Close()

	deliveries, err := ch.Consume(
		c.queue, // queue
		"audit", // consumer tag
		false,   // auto-ack
		false,   // exclusive
		false,   // no-local
		false,   // no-wait
		nil,     // args
	)
	if err != nil {
		return err
	}

	for {
		select {
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}

			var record contracts.AuditRecord
			if err := json.Unmarshal(d.Body, &record); err != nil {
				c.logger.Warn(logging.RabbitMQ, logging.Audit, "dropping malformed audit record", map[logging.ExtraKey]any{
					logging.ErrorMessage: err.Error(),
				})
				_ = d.Reject(false)
				continue
			}

			var entry domain.ChatAuditLog
			if err := json.Unmarshal(record.Data, &entry); err != nil {
				c.logger.Warn(logging.RabbitMQ, logging.Audit, "dropping malformed audit entry", map[logging.ExtraKey]any{
					logging.ErrorMessage: err.Error(),
				})
				_ = d.Reject(false)
				continue
			}

			if err := c.repository.Log(ctx, &entry); err != nil {
				c.logger.Error(logging.Mongo, logging.Audit, "failed to store audit entry", map[logging.ExtraKey]any{
					logging.ErrorMessage: err.Error(),
				})
				// Requeue once the store recovers.
				_ = d.Nack(false, true)
				continue
			}

			_ = d.Ack(false)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
