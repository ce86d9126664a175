package ports

import (
	"context"
	"time"

	"propshare/contexts/governance-core/governance-service/domain/entities"
	"propshare/internal/shared/events"
	"propshare/internal/shared/outbox"
)

type Repository interface {
	NextProposalID(ctx context.Context) (uint64, error)
	SaveProposal(ctx context.Context, proposal entities.Proposal) error
	GetProposal(ctx context.Context, proposalID uint64) (entities.Proposal, error)
	ListProposalsByProperty(ctx context.Context, propertyID uint64) ([]entities.Proposal, error)
	ListActivePastEnd(ctx context.Context, height uint64) ([]entities.Proposal, error)

	GetVote(ctx context.Context, proposalID uint64, voter string) (entities.Vote, bool, error)
	SaveVote(ctx context.Context, vote entities.Vote) error
	ListVotesByProposal(ctx context.Context, proposalID uint64) ([]entities.Vote, error)

	GetDelegation(ctx context.Context, delegator string, propertyID uint64) (entities.Delegation, bool, error)
	SaveDelegation(ctx context.Context, delegation entities.Delegation) error
	DeleteDelegation(ctx context.Context, delegator string, propertyID uint64) error
}

// ShareLedger is the capability the governance module holds on property
// ledgers: balance and supply queries plus the lock primitive. The wiring
// layer binds the module's own principal as the lock authority.
type ShareLedger interface {
	BalanceOf(ctx context.Context, propertyID uint64, principal string) (uint64, error)
	TotalSupply(ctx context.Context, propertyID uint64) (uint64, error)
	LockShares(ctx context.Context, propertyID uint64, principal string, amount uint64) error
	UnlockShares(ctx context.Context, propertyID uint64, principal string, amount uint64) error
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
