package events

import (
	"context"
	"encoding/json"

	"github.com/berkay1532/Wisper-Server/internal/domain"
	"github.com/berkay1532/Wisper-Server/internal/infrastructure/contracts"
	"github.com/berkay1532/Wisper-Server/internal/infrastructure/messaging"
)

// AuditPublisher pushes audit entries onto the durable audit queue. Writing
// them to storage is the consumer's job; a relay process never blocks on
// mongo.
type AuditPublisher struct {
	rabbitmq *messaging.RabbitMQ
	queue    string
}

func NewAuditPublisher(rabbitmq *messaging.RabbitMQ, queue string) (*AuditPublisher, error) {
	if err := rabbitmq.DeclareQueue(queue); err != nil {
		return nil, err
	}

	return &AuditPublisher{
		rabbitmq: rabbitmq,
		queue:    queue,
	}, nil
}

func (p *AuditPublisher) Publish(ctx context.Context, entry *domain.ChatAuditLog) error {
	if !p.rabbitmq.Connected() {
		return domain.ErrQueueUnavailable
	}

	entryJSON, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	body, err := json.Marshal(contracts.AuditRecord{
		OwnerKey: entry.ChatID,
		Data:     entryJSON,
	})
	if err != nil {
		return err
	}

	return p.rabbitmq.PublishToQueue(ctx, p.queue, body)
}
