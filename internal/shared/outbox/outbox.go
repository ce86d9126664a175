package outbox

import "time"

// Message is an outbox row persisted together with the state change that
// produced it. The worker relay reads pending rows and publishes them to the
// message bus, then marks them sent.
type Message struct {
	ID           string
	EventType    string
	PartitionKey string
	Payload      []byte
	Status       string // pending, published, failed
	CreatedAt    time.Time
	SentAt       *time.Time
}

const (
	StatusPending   = "pending"
	StatusPublished = "published"
	StatusFailed    = "failed"
)
