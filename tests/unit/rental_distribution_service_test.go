package unit

import (
	"context"
	"errors"
	"testing"

	"propshare/internal/app/bootstrap"

	rentalerrors "propshare/contexts/finance-core/rental-distribution-service/domain/errors"
	rentalhttp "propshare/contexts/finance-core/rental-distribution-service/transport/http"
)

func depositRent(t *testing.T, p *platform, manager string, gross uint64) rentalhttp.DepositResponse {
	t.Helper()
	deposit, err := p.rental.Handler.DepositHandler(context.Background(), manager, rentalhttp.DepositRequest{
		PropertyID:  1,
		Year:        2026,
		Month:       8,
		GrossIncome: gross,
	})
	if err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	return deposit
}

func TestDepositSplitsFeesFromGrossIncome(t *testing.T) {
	p := newPlatform(t)
	p.initLedger(t, 1, 1000)
	p.grantRole(t, "manager", "property_manager")
	p.money.Mint("manager", 100000)

	deposit := depositRent(t, p, "manager", 100000)
	if deposit.ManagementFee != 8000 {
		t.Fatalf("expected management fee 8000, got %d", deposit.ManagementFee)
	}
	if deposit.PlatformFee != 2000 {
		t.Fatalf("expected platform fee 2000, got %d", deposit.PlatformFee)
	}
	if deposit.MaintenanceReserve != 5000 {
		t.Fatalf("expected maintenance reserve 5000, got %d", deposit.MaintenanceReserve)
	}
	if deposit.NetDistributable != 85000 {
		t.Fatalf("expected net 85000, got %d", deposit.NetDistributable)
	}
	if got := p.fundsBalance(t, bootstrap.DistributionCustody); got != 100000 {
		t.Fatalf("expected gross income in custody, got %d", got)
	}
	if got := p.fundsBalance(t, "manager"); got != 0 {
		t.Fatalf("expected manager drained, got %d", got)
	}
}

func TestDepositGuards(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()
	p.initLedger(t, 1, 1000)
	p.grantRole(t, "manager", "property_manager")
	p.money.Mint("manager", 200000)

	_, err := p.rental.Handler.DepositHandler(ctx, "mallory", rentalhttp.DepositRequest{
		PropertyID:  1,
		Year:        2026,
		Month:       8,
		GrossIncome: 1000,
	})
	if !errors.Is(err, rentalerrors.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for non-manager, got %v", err)
	}

	_, err = p.rental.Handler.DepositHandler(ctx, "manager", rentalhttp.DepositRequest{
		PropertyID:  1,
		Year:        2026,
		Month:       13,
		GrossIncome: 1000,
	})
	if !errors.Is(err, rentalerrors.ErrInvalidPeriodInput) {
		t.Fatalf("expected ErrInvalidPeriodInput for month 13, got %v", err)
	}

	depositRent(t, p, "manager", 100000)
	_, err = p.rental.Handler.DepositHandler(ctx, "manager", rentalhttp.DepositRequest{
		PropertyID:  1,
		Year:        2026,
		Month:       8,
		GrossIncome: 50000,
	})
	if !errors.Is(err, rentalerrors.ErrAlreadyDeposited) {
		t.Fatalf("expected ErrAlreadyDeposited, got %v", err)
	}
}

func TestClaimPaysProRataShare(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()
	p.initLedger(t, 1, 1000)
	p.fundInvestor(t, 1, "alice", 100)
	p.grantRole(t, "manager", "property_manager")
	p.money.Mint("manager", 100000)

	depositRent(t, p, "manager", 100000)

	// 100 of 1000 shares entitles alice to a tenth of the 85000 net.
	claim, err := p.rental.Handler.ClaimHandler(ctx, "alice", rentalhttp.ClaimRequest{
		PropertyID: 1,
		Year:       2026,
		Month:      8,
	})
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if claim.Amount != 8500 {
		t.Fatalf("expected claim 8500, got %d", claim.Amount)
	}
	if got := p.fundsBalance(t, "alice"); got != 8500 {
		t.Fatalf("expected alice paid 8500, got %d", got)
	}

	_, err = p.rental.Handler.ClaimHandler(ctx, "alice", rentalhttp.ClaimRequest{
		PropertyID: 1,
		Year:       2026,
		Month:      8,
	})
	if !errors.Is(err, rentalerrors.ErrNothingToClaim) {
		t.Fatalf("expected ErrNothingToClaim on repeat claim, got %v", err)
	}

	_, err = p.rental.Handler.ClaimHandler(ctx, "alice", rentalhttp.ClaimRequest{
		PropertyID: 1,
		Year:       2026,
		Month:      9,
	})
	if !errors.Is(err, rentalerrors.ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod for missing deposit, got %v", err)
	}
}

func TestClaimGrowsWithAcquiredShares(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()
	p.initLedger(t, 1, 1000)
	p.fundInvestor(t, 1, "alice", 100)
	p.grantRole(t, "manager", "property_manager")
	p.money.Mint("manager", 100000)

	depositRent(t, p, "manager", 100000)
	if _, err := p.rental.Handler.ClaimHandler(ctx, "alice", rentalhttp.ClaimRequest{
		PropertyID: 1,
		Year:       2026,
		Month:      8,
	}); err != nil {
		t.Fatalf("first claim failed: %v", err)
	}

	// Alice doubles her position; the baseline only pays the difference.
	p.fundInvestor(t, 1, "alice", 100)
	claim, err := p.rental.Handler.ClaimHandler(ctx, "alice", rentalhttp.ClaimRequest{
		PropertyID: 1,
		Year:       2026,
		Month:      8,
	})
	if err != nil {
		t.Fatalf("second claim failed: %v", err)
	}
	if claim.Amount != 8500 {
		t.Fatalf("expected incremental claim 8500, got %d", claim.Amount)
	}
}

func TestWithdrawFeesOncePerPeriod(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()
	p.initLedger(t, 1, 1000)
	p.grantRole(t, "manager", "property_manager")
	p.money.Mint("manager", 100000)

	depositRent(t, p, "manager", 100000)

	_, err := p.rental.Handler.WithdrawFeesHandler(ctx, "mallory", rentalhttp.WithdrawFeesRequest{
		PropertyID: 1,
		Year:       2026,
		Month:      8,
	})
	if !errors.Is(err, rentalerrors.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}

	withdrawn, err := p.rental.Handler.WithdrawFeesHandler(ctx, platformOwner, rentalhttp.WithdrawFeesRequest{
		PropertyID: 1,
		Year:       2026,
		Month:      8,
	})
	if err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if withdrawn.Amount != 15000 {
		t.Fatalf("expected 15000 in fees, got %d", withdrawn.Amount)
	}
	if got := p.fundsBalance(t, platformOwner); got != 15000 {
		t.Fatalf("expected fees paid to admin, got %d", got)
	}

	_, err = p.rental.Handler.WithdrawFeesHandler(ctx, platformOwner, rentalhttp.WithdrawFeesRequest{
		PropertyID: 1,
		Year:       2026,
		Month:      8,
	})
	if !errors.Is(err, rentalerrors.ErrFeesAlreadyWithdrawn) {
		t.Fatalf("expected ErrFeesAlreadyWithdrawn, got %v", err)
	}
}

func TestSetFeeStructureValidatesSum(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()

	err := p.rental.Handler.SetFeeStructureHandler(ctx, platformOwner, rentalhttp.FeeStructureRequest{
		ManagementFeeBps:      6000,
		PlatformFeeBps:        3000,
		MaintenanceReserveBps: 2000,
	})
	if !errors.Is(err, rentalerrors.ErrFeeSumTooHigh) {
		t.Fatalf("expected ErrFeeSumTooHigh, got %v", err)
	}

	if err := p.rental.Handler.SetFeeStructureHandler(ctx, platformOwner, rentalhttp.FeeStructureRequest{
		ManagementFeeBps:      1000,
		PlatformFeeBps:        200,
		MaintenanceReserveBps: 300,
	}); err != nil {
		t.Fatalf("set fee structure failed: %v", err)
	}
	fees, err := p.rental.Handler.FeeStructureHandler(ctx)
	if err != nil {
		t.Fatalf("read fee structure failed: %v", err)
	}
	if fees.ManagementFeeBps != 1000 || fees.PlatformFeeBps != 200 || fees.MaintenanceReserveBps != 300 {
		t.Fatalf("unexpected fee structure: %+v", fees)
	}
}
