package ports

import (
	"context"

	"propshare/contexts/property-core/share-ledger-service/domain/entities"
)

type Repository interface {
	GetLedger(ctx context.Context, propertyID uint64) (entities.Ledger, bool, error)
	SaveLedger(ctx context.Context, ledger entities.Ledger) error
	GetHolding(ctx context.Context, propertyID uint64, principal string) (entities.Holding, bool, error)
	// SaveHoldings persists the given rows atomically; transfers write the
	// debit and credit legs in one call.
	SaveHoldings(ctx context.Context, holdings ...entities.Holding) error
	ListHoldings(ctx context.Context, propertyID uint64) ([]entities.Holding, error)
}

type AccessControl interface {
	IsAdmin(ctx context.Context, principal string) (bool, error)
	IsKycVerifier(ctx context.Context, principal string) (bool, error)
}

type Heights interface {
	CurrentHeight(ctx context.Context) (uint64, error)
}
