package ports

import (
	"context"
	"time"

	"propshare/contexts/trading-core/marketplace-service/domain/entities"
	"propshare/internal/shared/events"
	"propshare/internal/shared/outbox"
)

type OrderRepository interface {
	NextOrderID(ctx context.Context) (uint64, error)
	SaveOrder(ctx context.Context, order entities.Order) error
	GetOrder(ctx context.Context, orderID uint64) (entities.Order, error)
	ListOpenOrdersByProperty(ctx context.Context, propertyID uint64) ([]entities.Order, error)
	ListExpiredOpenOrders(ctx context.Context, height uint64) ([]entities.Order, error)
	GetStats(ctx context.Context, propertyID uint64) (entities.MarketStats, error)
	SaveStats(ctx context.Context, stats entities.MarketStats) error
	GetFeeBps(ctx context.Context) (uint64, error)
	SetFeeBps(ctx context.Context, bps uint64) error
}

// ShareLedger is the capability reference the marketplace holds on property
// ledgers: whitelist queries plus custody moves. It deliberately excludes
// locking and supply mutation.
type ShareLedger interface {
	IsWhitelisted(ctx context.Context, propertyID uint64, principal string) (bool, error)
	AvailableOf(ctx context.Context, propertyID uint64, principal string) (uint64, error)
	EscrowTransfer(ctx context.Context, propertyID uint64, from string, to string, amount uint64) error
}

// Funds is the platform funds-transfer primitive. Transfer is all-or-nothing.
type Funds interface {
	Balance(ctx context.Context, account string) (uint64, error)
	Transfer(ctx context.Context, from string, to string, amount uint64) error
}

type AccessControl interface {
	IsAdmin(ctx context.Context, principal string) (bool, error)
}

type Heights interface {
	CurrentHeight(ctx context.Context) (uint64, error)
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// EventEnvelope reuses the canonical cross-module envelope contract.
type EventEnvelope = events.Envelope

// OutboxMessage is a row ready to relay from the module outbox.
type OutboxMessage = outbox.Message

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, event EventEnvelope) error
}

// OutboxRepository models worker-side outbox polling/acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error
}

// EventPublisher publishes canonical envelopes to a topic.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}
