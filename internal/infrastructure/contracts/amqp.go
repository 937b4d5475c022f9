package contracts

import "time"

// QueuedMessageRecord is the self-describing AMQP body stored in a
// recipient's durable queue. Field names follow the wire format the clients
// already speak.
type QueuedMessageRecord struct {
	ChatID      string    `json:"chatId"`
	SenderKey   string    `json:"senderPk"`
	ReceiverKey string    `json:"receiverPk"`
	Payload     string    `json:"message"`
	EnqueuedAt  time.Time `json:"enqueuedAt"`
}

// AuditRecord wraps an audit event for the audit queue.
type AuditRecord struct {
	OwnerKey string `json:"ownerKey"`
	Data     []byte `json:"data"`
}
