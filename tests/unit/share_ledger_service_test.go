package unit

import (
	"context"
	"errors"
	"testing"

	"propshare/internal/app/bootstrap"

	ledgererrors "propshare/contexts/property-core/share-ledger-service/domain/errors"
	ledgerhttp "propshare/contexts/property-core/share-ledger-service/transport/http"
)

func TestInitializeMintsSupplyToTreasury(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()
	p.initLedger(t, 1, 1000)

	if got := p.balance(t, 1, platformOwner); got != 1000 {
		t.Fatalf("expected treasury balance 1000, got %d", got)
	}
	supply, err := p.ledger.Service.TotalSupply(ctx, 1)
	if err != nil {
		t.Fatalf("total supply failed: %v", err)
	}
	if supply != 1000 {
		t.Fatalf("expected supply 1000, got %d", supply)
	}
	whitelisted, err := p.ledger.Service.IsWhitelisted(ctx, 1, platformOwner)
	if err != nil {
		t.Fatalf("whitelist check failed: %v", err)
	}
	if !whitelisted {
		t.Fatalf("expected treasury to be whitelisted on initialize")
	}
}

func TestInitializeRequiresAdminAndRunsOnce(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()

	_, err := p.ledger.Handler.InitializeHandler(ctx, "mallory", ledgerhttp.InitializeLedgerRequest{
		PropertyID:  1,
		Name:        "Test Property",
		Symbol:      "TPROP",
		TotalShares: 1000,
	})
	if !errors.Is(err, ledgererrors.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}

	p.initLedger(t, 1, 1000)
	_, err = p.ledger.Handler.InitializeHandler(ctx, platformOwner, ledgerhttp.InitializeLedgerRequest{
		PropertyID:  1,
		Name:        "Test Property",
		Symbol:      "TPROP",
		TotalShares: 1000,
	})
	if !errors.Is(err, ledgererrors.ErrAlreadyInitialized) {
		t.Fatalf("expected ErrAlreadyInitialized, got %v", err)
	}
}

func TestTransferEnforcesWhitelistAndMinimum(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()
	p.initLedger(t, 1, 1000)

	err := p.ledger.Handler.TransferHandler(ctx, platformOwner, 1, ledgerhttp.TransferRequest{
		Sender:    platformOwner,
		Recipient: "alice",
		Amount:    100,
	})
	if !errors.Is(err, ledgererrors.ErrNotWhitelisted) {
		t.Fatalf("expected ErrNotWhitelisted, got %v", err)
	}

	if err := p.ledger.Handler.SetMinInvestmentHandler(ctx, platformOwner, 1, ledgerhttp.MinInvestmentRequest{Amount: 50}); err != nil {
		t.Fatalf("set min investment failed: %v", err)
	}
	p.whitelist(t, 1, "alice")
	err = p.ledger.Handler.TransferHandler(ctx, platformOwner, 1, ledgerhttp.TransferRequest{
		Sender:    platformOwner,
		Recipient: "alice",
		Amount:    10,
	})
	if !errors.Is(err, ledgererrors.ErrBelowMinimum) {
		t.Fatalf("expected ErrBelowMinimum, got %v", err)
	}

	if err := p.ledger.Handler.TransferHandler(ctx, platformOwner, 1, ledgerhttp.TransferRequest{
		Sender:    platformOwner,
		Recipient: "alice",
		Amount:    100,
	}); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	if got := p.balance(t, 1, "alice"); got != 100 {
		t.Fatalf("expected alice balance 100, got %d", got)
	}
	if got := p.balance(t, 1, platformOwner); got != 900 {
		t.Fatalf("expected treasury balance 900, got %d", got)
	}
}

func TestTransferRequiresCallerToBeSender(t *testing.T) {
	p := newPlatform(t)
	p.initLedger(t, 1, 1000)
	p.fundInvestor(t, 1, "alice", 100)
	p.whitelist(t, 1, "mallory")

	err := p.ledger.Handler.TransferHandler(context.Background(), "mallory", 1, ledgerhttp.TransferRequest{
		Sender:    "alice",
		Recipient: "mallory",
		Amount:    50,
	})
	if !errors.Is(err, ledgererrors.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized moving someone else's shares, got %v", err)
	}
}

func TestLockSharesRestrictedToAuthority(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()
	p.initLedger(t, 1, 1000)
	p.fundInvestor(t, 1, "alice", 200)

	err := p.ledger.Service.LockShares(ctx, "mallory", 1, "alice", 100)
	if !errors.Is(err, ledgererrors.ErrNotLockAuthority) {
		t.Fatalf("expected ErrNotLockAuthority, got %v", err)
	}

	if err := p.ledger.Service.LockShares(ctx, bootstrap.GovernancePrincipal, 1, "alice", 150); err != nil {
		t.Fatalf("lock failed: %v", err)
	}
	locked, err := p.ledger.Service.LockedOf(ctx, 1, "alice")
	if err != nil {
		t.Fatalf("locked lookup failed: %v", err)
	}
	if locked != 150 {
		t.Fatalf("expected 150 locked, got %d", locked)
	}

	// Locked shares cannot leave the account.
	err = p.ledger.Handler.TransferHandler(ctx, "alice", 1, ledgerhttp.TransferRequest{
		Sender:    "alice",
		Recipient: platformOwner,
		Amount:    100,
	})
	if !errors.Is(err, ledgererrors.ErrSharesLocked) {
		t.Fatalf("expected ErrSharesLocked, got %v", err)
	}

	if err := p.ledger.Service.UnlockShares(ctx, bootstrap.GovernancePrincipal, 1, "alice", 150); err != nil {
		t.Fatalf("unlock failed: %v", err)
	}
	err = p.ledger.Service.UnlockShares(ctx, bootstrap.GovernancePrincipal, 1, "alice", 1)
	if !errors.Is(err, ledgererrors.ErrInsufficientLocked) {
		t.Fatalf("expected ErrInsufficientLocked, got %v", err)
	}
}

func TestBurnShrinksSupply(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()
	p.initLedger(t, 1, 1000)

	err := p.ledger.Handler.BurnHandler(ctx, "mallory", 1, ledgerhttp.BurnRequest{Amount: 100})
	if !errors.Is(err, ledgererrors.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for non-admin burn, got %v", err)
	}

	if err := p.ledger.Handler.BurnHandler(ctx, platformOwner, 1, ledgerhttp.BurnRequest{Amount: 100}); err != nil {
		t.Fatalf("burn failed: %v", err)
	}
	supply, err := p.ledger.Service.TotalSupply(ctx, 1)
	if err != nil {
		t.Fatalf("total supply failed: %v", err)
	}
	if supply != 900 {
		t.Fatalf("expected supply 900 after burn, got %d", supply)
	}
	if got := p.balance(t, 1, platformOwner); got != 900 {
		t.Fatalf("expected treasury balance 900 after burn, got %d", got)
	}
}

func TestSelfTransferRejected(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()
	p.initLedger(t, 1, 1000)

	// The treasury is whitelisted and holds the full supply, so only the
	// sender == recipient guard stands between this and minting.
	err := p.ledger.Handler.TransferHandler(ctx, platformOwner, 1, ledgerhttp.TransferRequest{
		Sender:    platformOwner,
		Recipient: platformOwner,
		Amount:    100,
	})
	if !errors.Is(err, ledgererrors.ErrSelfTransfer) {
		t.Fatalf("expected ErrSelfTransfer, got %v", err)
	}

	err = p.ledger.Service.EscrowTransfer(ctx, 1, platformOwner, platformOwner, 100)
	if !errors.Is(err, ledgererrors.ErrSelfTransfer) {
		t.Fatalf("expected ErrSelfTransfer on custody move, got %v", err)
	}

	if got := p.balance(t, 1, platformOwner); got != 1000 {
		t.Fatalf("expected treasury balance unchanged at 1000, got %d", got)
	}
	supply, err := p.ledger.Service.TotalSupply(ctx, 1)
	if err != nil {
		t.Fatalf("total supply failed: %v", err)
	}
	if supply != 1000 {
		t.Fatalf("expected supply unchanged at 1000, got %d", supply)
	}
}

func TestSupplyConservedAcrossTransfers(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()
	p.initLedger(t, 1, 1000)
	p.fundInvestor(t, 1, "alice", 300)
	p.fundInvestor(t, 1, "bob", 200)

	if err := p.ledger.Handler.TransferHandler(ctx, "alice", 1, ledgerhttp.TransferRequest{
		Sender:    "alice",
		Recipient: "bob",
		Amount:    50,
	}); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	holders, err := p.ledger.Service.Holders(ctx, 1)
	if err != nil {
		t.Fatalf("holders failed: %v", err)
	}
	var total uint64
	for _, holding := range holders {
		total += holding.Balance
	}
	if total != 1000 {
		t.Fatalf("expected holder balances to sum to supply 1000, got %d", total)
	}
	if got := p.balance(t, 1, "bob"); got != 250 {
		t.Fatalf("expected bob balance 250, got %d", got)
	}
}
