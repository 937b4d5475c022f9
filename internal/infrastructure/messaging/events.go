package messaging

import "fmt"

// UserQueueName derives the durable queue name for a recipient. It is a pure
// function of the key: every process computing the name for the same key
// agrees on it.
func UserQueueName(base, receiverKey string) string {
	return fmt.Sprintf("%s_%s", base, receiverKey)
}
