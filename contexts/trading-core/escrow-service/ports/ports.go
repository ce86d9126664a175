package ports

import (
	"context"
	"time"

	"propshare/contexts/trading-core/escrow-service/domain/entities"
	"propshare/internal/shared/events"
	"propshare/internal/shared/outbox"
)

type Repository interface {
	NextEscrowID(ctx context.Context) (uint64, error)
	SaveEscrow(ctx context.Context, escrow entities.Escrow) error
	GetEscrow(ctx context.Context, escrowID uint64) (entities.Escrow, error)
	ListByProperty(ctx context.Context, propertyID uint64) ([]entities.Escrow, error)
	ListExpiredActive(ctx context.Context, height uint64) ([]entities.Escrow, error)
}

// ShareLedger is the custody capability the escrow module holds on property
// ledgers. Funding and release move shares through escrow custody only.
type ShareLedger interface {
	EscrowTransfer(ctx context.Context, propertyID uint64, from string, to string, amount uint64) error
}

type Funds interface {
	Balance(ctx context.Context, account string) (uint64, error)
	Transfer(ctx context.Context, from string, to string, amount uint64) error
}

type AccessControl interface {
	IsAdmin(ctx context.Context, principal string) (bool, error)
	IsKycVerifier(ctx context.Context, principal string) (bool, error)
	IsArbiter(ctx context.Context, principal string) (bool, error)
}

type Heights interface {
	CurrentHeight(ctx context.Context) (uint64, error)
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type EventEnvelope = events.Envelope

type OutboxMessage = outbox.Message

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, event EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}
