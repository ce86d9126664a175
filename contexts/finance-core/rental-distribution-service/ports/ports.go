package ports

import (
	"context"

	"propshare/contexts/finance-core/rental-distribution-service/domain/entities"
)

type Repository interface {
	GetDeposit(ctx context.Context, propertyID uint64, year uint32, month uint32) (entities.RentalDeposit, bool, error)
	SaveDeposit(ctx context.Context, deposit entities.RentalDeposit) error
	ListDeposits(ctx context.Context, propertyID uint64) ([]entities.RentalDeposit, error)
	GetClaim(ctx context.Context, propertyID uint64, year uint32, month uint32, investor string) (entities.Claim, bool, error)
	SaveClaim(ctx context.Context, claim entities.Claim) error
	GetFeeStructure(ctx context.Context) (entities.FeeStructure, error)
	SaveFeeStructure(ctx context.Context, fees entities.FeeStructure) error
}

// ShareLedger is the read-only capability this module holds on property
// ledgers. Entitlement is always computed from live balances.
type ShareLedger interface {
	BalanceOf(ctx context.Context, propertyID uint64, principal string) (uint64, error)
	TotalSupply(ctx context.Context, propertyID uint64) (uint64, error)
}

type Funds interface {
	Balance(ctx context.Context, account string) (uint64, error)
	Transfer(ctx context.Context, from string, to string, amount uint64) error
}

type AccessControl interface {
	IsAdmin(ctx context.Context, principal string) (bool, error)
	IsPropertyManager(ctx context.Context, principal string) (bool, error)
}

type Heights interface {
	CurrentHeight(ctx context.Context) (uint64, error)
}
