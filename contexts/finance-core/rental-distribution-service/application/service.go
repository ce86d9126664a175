package application

import (
	"context"
	"log/slog"
	"strings"

	"propshare/contexts/finance-core/rental-distribution-service/domain/entities"
	domainerrors "propshare/contexts/finance-core/rental-distribution-service/domain/errors"
	"propshare/contexts/finance-core/rental-distribution-service/ports"
)

// Service distributes rental income. One deposit per period; entitlement is
// recomputed from live balances on every claim, with the stored claim acting
// as a cumulative baseline.
type Service struct {
	Repo    ports.Repository
	Ledger  ports.ShareLedger
	Funds   ports.Funds
	Access  ports.AccessControl
	Heights ports.Heights

	// CustodyAccount holds deposited income until claimed or withdrawn.
	CustodyAccount string

	Logger *slog.Logger
}

// DepositRentalIncome records one period's gross income, debits it from the
// property manager into custody and fixes the period's fee split.
func (s Service) DepositRentalIncome(ctx context.Context, caller string, propertyID uint64, year uint32, month uint32, grossIncome uint64) (entities.RentalDeposit, error) {
	caller = strings.TrimSpace(caller)
	if caller == "" {
		return entities.RentalDeposit{}, domainerrors.ErrNotAuthorized
	}
	if month < 1 || month > 12 || year == 0 {
		return entities.RentalDeposit{}, domainerrors.ErrInvalidPeriodInput
	}
	if grossIncome == 0 {
		return entities.RentalDeposit{}, domainerrors.ErrInvalidAmount
	}
	isManager, err := s.Access.IsPropertyManager(ctx, caller)
	if err != nil {
		return entities.RentalDeposit{}, err
	}
	if !isManager {
		return entities.RentalDeposit{}, domainerrors.ErrNotAuthorized
	}
	if _, exists, err := s.Repo.GetDeposit(ctx, propertyID, year, month); err != nil {
		return entities.RentalDeposit{}, err
	} else if exists {
		return entities.RentalDeposit{}, domainerrors.ErrAlreadyDeposited
	}
	fees, err := s.Repo.GetFeeStructure(ctx)
	if err != nil {
		return entities.RentalDeposit{}, err
	}
	balance, err := s.Funds.Balance(ctx, caller)
	if err != nil {
		return entities.RentalDeposit{}, err
	}
	if balance < grossIncome {
		return entities.RentalDeposit{}, domainerrors.ErrInsufficientFunds
	}
	height, err := s.Heights.CurrentHeight(ctx)
	if err != nil {
		return entities.RentalDeposit{}, err
	}

	managementFee := grossIncome * fees.ManagementFeeBps / 10000
	platformFee := grossIncome * fees.PlatformFeeBps / 10000
	maintenanceReserve := grossIncome * fees.MaintenanceReserveBps / 10000

	if err := s.Funds.Transfer(ctx, caller, s.CustodyAccount, grossIncome); err != nil {
		return entities.RentalDeposit{}, err
	}
	deposit := entities.RentalDeposit{
		PropertyID:         propertyID,
		Year:               year,
		Month:              month,
		GrossIncome:        grossIncome,
		ManagementFee:      managementFee,
		PlatformFee:        platformFee,
		MaintenanceReserve: maintenanceReserve,
		NetDistributable:   grossIncome - managementFee - platformFee - maintenanceReserve,
		DepositedBy:        caller,
		DepositHeight:      height,
	}
	if err := s.Repo.SaveDeposit(ctx, deposit); err != nil {
		return entities.RentalDeposit{}, err
	}

	ResolveLogger(s.Logger).Info("rental income deposited",
		"event", "rental_income_deposited",
		"module", "finance-core/rental-distribution-service",
		"layer", "application",
		"property_id", propertyID,
		"year", year,
		"month", month,
		"gross_income", grossIncome,
		"net_distributable", deposit.NetDistributable,
		"deposited_by", caller,
	)
	return deposit, nil
}

// ClaimRentalIncome pays the caller their outstanding entitlement for one
// period. Entitlement is floor(net * balance / supply) against the caller's
// current balance; the stored claim holds the cumulative baseline so repeat
// claims only pay the difference.
func (s Service) ClaimRentalIncome(ctx context.Context, caller string, propertyID uint64, year uint32, month uint32) (uint64, error) {
	caller = strings.TrimSpace(caller)
	if caller == "" {
		return 0, domainerrors.ErrNotAuthorized
	}
	deposit, exists, err := s.Repo.GetDeposit(ctx, propertyID, year, month)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, domainerrors.ErrInvalidPeriod
	}
	balance, err := s.Ledger.BalanceOf(ctx, propertyID, caller)
	if err != nil {
		return 0, err
	}
	supply, err := s.Ledger.TotalSupply(ctx, propertyID)
	if err != nil {
		return 0, err
	}
	if supply == 0 {
		return 0, domainerrors.ErrNothingToClaim
	}
	investorPortion := deposit.NetDistributable * balance / supply

	claim, _, err := s.Repo.GetClaim(ctx, propertyID, year, month, caller)
	if err != nil {
		return 0, err
	}
	if investorPortion <= claim.AmountClaimed {
		return 0, domainerrors.ErrNothingToClaim
	}
	claimable := investorPortion - claim.AmountClaimed

	height, err := s.Heights.CurrentHeight(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.Funds.Transfer(ctx, s.CustodyAccount, caller, claimable); err != nil {
		return 0, err
	}
	// The new baseline is the full portion, not baseline+claimable; equal
	// here, but the portion is the authoritative figure.
	claim.PropertyID = propertyID
	claim.Year = year
	claim.Month = month
	claim.Investor = caller
	claim.AmountClaimed = investorPortion
	claim.ClaimHeight = height
	if err := s.Repo.SaveClaim(ctx, claim); err != nil {
		return 0, err
	}
	deposit.TotalClaimed += claimable
	if err := s.Repo.SaveDeposit(ctx, deposit); err != nil {
		return 0, err
	}

	ResolveLogger(s.Logger).Info("rental income claimed",
		"event", "rental_income_claimed",
		"module", "finance-core/rental-distribution-service",
		"layer", "application",
		"property_id", propertyID,
		"year", year,
		"month", month,
		"investor", caller,
		"amount", claimable,
	)
	return claimable, nil
}

// SetFeeStructure is admin-only and rejects splits summing past 10000 bps.
func (s Service) SetFeeStructure(ctx context.Context, caller string, fees entities.FeeStructure) error {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return err
	}
	if fees.Sum() > 10000 {
		return domainerrors.ErrFeeSumTooHigh
	}
	if err := s.Repo.SaveFeeStructure(ctx, fees); err != nil {
		return err
	}
	ResolveLogger(s.Logger).Info("fee structure updated",
		"event", "fee_structure_updated",
		"module", "finance-core/rental-distribution-service",
		"layer", "application",
		"management_fee_bps", fees.ManagementFeeBps,
		"platform_fee_bps", fees.PlatformFeeBps,
		"maintenance_reserve_bps", fees.MaintenanceReserveBps,
	)
	return nil
}

// WithdrawFees pays one period's accumulated fees out of custody to the
// calling admin, exactly once per period.
func (s Service) WithdrawFees(ctx context.Context, caller string, propertyID uint64, year uint32, month uint32) (uint64, error) {
	caller = strings.TrimSpace(caller)
	if err := s.requireAdmin(ctx, caller); err != nil {
		return 0, err
	}
	deposit, exists, err := s.Repo.GetDeposit(ctx, propertyID, year, month)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, domainerrors.ErrInvalidPeriod
	}
	if deposit.FeesWithdrawn {
		return 0, domainerrors.ErrFeesAlreadyWithdrawn
	}
	amount := deposit.ManagementFee + deposit.PlatformFee + deposit.MaintenanceReserve
	if amount == 0 {
		return 0, domainerrors.ErrNothingToClaim
	}
	if err := s.Funds.Transfer(ctx, s.CustodyAccount, caller, amount); err != nil {
		return 0, err
	}
	deposit.FeesWithdrawn = true
	if err := s.Repo.SaveDeposit(ctx, deposit); err != nil {
		return 0, err
	}

	ResolveLogger(s.Logger).Info("period fees withdrawn",
		"event", "period_fees_withdrawn",
		"module", "finance-core/rental-distribution-service",
		"layer", "application",
		"property_id", propertyID,
		"year", year,
		"month", month,
		"amount", amount,
		"withdrawn_by", caller,
	)
	return amount, nil
}

func (s Service) GetDeposit(ctx context.Context, propertyID uint64, year uint32, month uint32) (entities.RentalDeposit, error) {
	deposit, exists, err := s.Repo.GetDeposit(ctx, propertyID, year, month)
	if err != nil {
		return entities.RentalDeposit{}, err
	}
	if !exists {
		return entities.RentalDeposit{}, domainerrors.ErrInvalidPeriod
	}
	return deposit, nil
}

func (s Service) Deposits(ctx context.Context, propertyID uint64) ([]entities.RentalDeposit, error) {
	return s.Repo.ListDeposits(ctx, propertyID)
}

func (s Service) ClaimedAmount(ctx context.Context, propertyID uint64, year uint32, month uint32, investor string) (uint64, error) {
	claim, _, err := s.Repo.GetClaim(ctx, propertyID, year, month, strings.TrimSpace(investor))
	if err != nil {
		return 0, err
	}
	return claim.AmountClaimed, nil
}

func (s Service) FeeStructure(ctx context.Context) (entities.FeeStructure, error) {
	return s.Repo.GetFeeStructure(ctx)
}

func (s Service) requireAdmin(ctx context.Context, caller string) error {
	caller = strings.TrimSpace(caller)
	if caller == "" {
		return domainerrors.ErrNotAuthorized
	}
	isAdmin, err := s.Access.IsAdmin(ctx, caller)
	if err != nil {
		return err
	}
	if !isAdmin {
		return domainerrors.ErrNotAuthorized
	}
	return nil
}
