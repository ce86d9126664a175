package unit

import (
	"context"
	"errors"
	"testing"

	"propshare/internal/app/bootstrap"

	escrowerrors "propshare/contexts/trading-core/escrow-service/domain/errors"
	escrowhttp "propshare/contexts/trading-core/escrow-service/transport/http"
)

func openSharePurchase(t *testing.T, p *platform, buyer string) escrowhttp.EscrowResponse {
	t.Helper()
	escrow, err := p.escrow.Handler.InitiateSharePurchaseHandler(context.Background(), buyer, escrowhttp.SharePurchaseRequest{
		PropertyID:       1,
		ShareQuantity:    10,
		PricePerShare:    5,
		ExpirationHeight: 50,
	})
	if err != nil {
		t.Fatalf("initiate share purchase failed: %v", err)
	}
	return escrow
}

func TestSharePurchaseEscrowRoundTrip(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()
	p.initLedger(t, 1, 1000)
	p.fundInvestor(t, 1, "seller", 100)
	p.whitelist(t, 1, "buyer")
	p.money.Mint("buyer", 50)
	p.grantRole(t, "verifier", "kyc_verifier")

	escrow := openSharePurchase(t, p, "buyer")
	if escrow.Amount != 50 {
		t.Fatalf("expected escrow amount 50, got %d", escrow.Amount)
	}
	if escrow.Status != "pending" {
		t.Fatalf("expected pending escrow, got %s", escrow.Status)
	}
	if got := p.fundsBalance(t, bootstrap.EscrowCustody); got != 50 {
		t.Fatalf("expected deposit in custody, got %d", got)
	}
	if got := p.fundsBalance(t, "buyer"); got != 0 {
		t.Fatalf("expected buyer drained, got %d", got)
	}

	if err := p.escrow.Handler.FundSharesHandler(ctx, "seller", escrow.EscrowID); err != nil {
		t.Fatalf("fund shares failed: %v", err)
	}
	if got := p.balance(t, 1, bootstrap.EscrowCustody); got != 10 {
		t.Fatalf("expected 10 shares in custody, got %d", got)
	}
	err := p.escrow.Handler.FundSharesHandler(ctx, "seller", escrow.EscrowID)
	if !errors.Is(err, escrowerrors.ErrSharesAlreadyFunded) {
		t.Fatalf("expected ErrSharesAlreadyFunded, got %v", err)
	}

	if _, err := p.escrow.Handler.VerifyHandler(ctx, "verifier", escrow.EscrowID); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	released, err := p.escrow.Handler.ReleaseFundsHandler(ctx, platformOwner, escrow.EscrowID)
	if err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if released.Status != "completed" {
		t.Fatalf("expected completed escrow, got %s", released.Status)
	}
	if got := p.balance(t, 1, "buyer"); got != 10 {
		t.Fatalf("expected buyer to hold 10 shares, got %d", got)
	}
	if got := p.fundsBalance(t, platformOwner); got != 50 {
		t.Fatalf("expected payment retained by platform, got %d", got)
	}
	if got := p.fundsBalance(t, bootstrap.EscrowCustody); got != 0 {
		t.Fatalf("expected custody drained, got %d", got)
	}
}

func TestReleaseRequiresVerificationAndFundedShares(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()
	p.initLedger(t, 1, 1000)
	p.whitelist(t, 1, "buyer")
	p.money.Mint("buyer", 50)

	escrow := openSharePurchase(t, p, "buyer")

	_, err := p.escrow.Handler.ReleaseFundsHandler(ctx, platformOwner, escrow.EscrowID)
	if !errors.Is(err, escrowerrors.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition before verification, got %v", err)
	}

	_, err = p.escrow.Handler.VerifyHandler(ctx, "mallory", escrow.EscrowID)
	if !errors.Is(err, escrowerrors.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for unverified caller, got %v", err)
	}
	if _, err := p.escrow.Handler.VerifyHandler(ctx, platformOwner, escrow.EscrowID); err != nil {
		t.Fatalf("admin verify failed: %v", err)
	}

	_, err = p.escrow.Handler.ReleaseFundsHandler(ctx, platformOwner, escrow.EscrowID)
	if !errors.Is(err, escrowerrors.ErrSharesNotFunded) {
		t.Fatalf("expected ErrSharesNotFunded, got %v", err)
	}
}

func TestRefundReturnsDepositAndShares(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()
	p.initLedger(t, 1, 1000)
	p.fundInvestor(t, 1, "seller", 100)
	p.whitelist(t, 1, "buyer")
	p.money.Mint("buyer", 50)

	escrow := openSharePurchase(t, p, "buyer")
	if err := p.escrow.Handler.FundSharesHandler(ctx, "seller", escrow.EscrowID); err != nil {
		t.Fatalf("fund shares failed: %v", err)
	}

	refunded, err := p.escrow.Handler.RefundBuyerHandler(ctx, platformOwner, escrow.EscrowID)
	if err != nil {
		t.Fatalf("refund failed: %v", err)
	}
	if refunded.Status != "refunded" {
		t.Fatalf("expected refunded escrow, got %s", refunded.Status)
	}
	if got := p.fundsBalance(t, "buyer"); got != 50 {
		t.Fatalf("expected deposit returned, got %d", got)
	}
	if got := p.balance(t, 1, "seller"); got != 100 {
		t.Fatalf("expected funded shares returned to depositor, got %d", got)
	}

	_, err = p.escrow.Handler.RefundBuyerHandler(ctx, platformOwner, escrow.EscrowID)
	if !errors.Is(err, escrowerrors.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition on second refund, got %v", err)
	}
}

func TestDisputeAndResolution(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()
	p.initLedger(t, 1, 1000)
	p.whitelist(t, 1, "buyer")
	p.money.Mint("buyer", 200)
	p.grantRole(t, "judge", "arbiter")

	escrow, err := p.escrow.Handler.InitiatePropertySaleHandler(ctx, "buyer", escrowhttp.PropertySaleRequest{
		PropertyID:       1,
		Seller:           "seller",
		Amount:           200,
		ExpirationHeight: 50,
	})
	if err != nil {
		t.Fatalf("initiate property sale failed: %v", err)
	}

	_, err = p.escrow.Handler.DisputeHandler(ctx, "mallory", escrow.EscrowID, escrowhttp.DisputeRequest{Arbiter: "judge"})
	if !errors.Is(err, escrowerrors.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for outsider dispute, got %v", err)
	}
	_, err = p.escrow.Handler.DisputeHandler(ctx, "buyer", escrow.EscrowID, escrowhttp.DisputeRequest{Arbiter: "mallory"})
	if !errors.Is(err, escrowerrors.ErrNotArbiter) {
		t.Fatalf("expected ErrNotArbiter for unqualified arbiter, got %v", err)
	}

	disputed, err := p.escrow.Handler.DisputeHandler(ctx, "buyer", escrow.EscrowID, escrowhttp.DisputeRequest{Arbiter: "judge"})
	if err != nil {
		t.Fatalf("dispute failed: %v", err)
	}
	if disputed.Status != "disputed" {
		t.Fatalf("expected disputed escrow, got %s", disputed.Status)
	}

	_, err = p.escrow.Handler.ResolveDisputeHandler(ctx, platformOwner, escrow.EscrowID, escrowhttp.ResolveDisputeRequest{ReleaseToBuyer: false})
	if !errors.Is(err, escrowerrors.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for non-assigned resolver, got %v", err)
	}

	resolved, err := p.escrow.Handler.ResolveDisputeHandler(ctx, "judge", escrow.EscrowID, escrowhttp.ResolveDisputeRequest{ReleaseToBuyer: false})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved.Status != "completed" {
		t.Fatalf("expected completed escrow, got %s", resolved.Status)
	}
	if got := p.fundsBalance(t, "seller"); got != 200 {
		t.Fatalf("expected seller paid 200, got %d", got)
	}
}

func TestCancelExpiredEscrowRefunds(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()
	p.initLedger(t, 1, 1000)
	p.whitelist(t, 1, "buyer")
	p.money.Mint("buyer", 50)

	escrow, err := p.escrow.Handler.InitiateSharePurchaseHandler(ctx, "buyer", escrowhttp.SharePurchaseRequest{
		PropertyID:       1,
		ShareQuantity:    10,
		PricePerShare:    5,
		ExpirationHeight: 5,
	})
	if err != nil {
		t.Fatalf("initiate share purchase failed: %v", err)
	}

	_, err = p.escrow.Handler.CancelExpiredHandler(ctx, escrow.EscrowID)
	if !errors.Is(err, escrowerrors.ErrEscrowNotExpired) {
		t.Fatalf("expected ErrEscrowNotExpired before expiry, got %v", err)
	}

	p.heights.Advance(10)
	cancelled, err := p.escrow.Handler.CancelExpiredHandler(ctx, escrow.EscrowID)
	if err != nil {
		t.Fatalf("cancel expired failed: %v", err)
	}
	if cancelled.Status != "refunded" {
		t.Fatalf("expected refunded escrow, got %s", cancelled.Status)
	}
	if got := p.fundsBalance(t, "buyer"); got != 50 {
		t.Fatalf("expected deposit back with buyer, got %d", got)
	}
}

func TestEscrowExpirerRefundsInBulk(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()
	p.initLedger(t, 1, 1000)
	p.whitelist(t, 1, "buyer")
	p.money.Mint("buyer", 100)

	first, err := p.escrow.Handler.InitiateSharePurchaseHandler(ctx, "buyer", escrowhttp.SharePurchaseRequest{
		PropertyID:       1,
		ShareQuantity:    10,
		PricePerShare:    5,
		ExpirationHeight: 5,
	})
	if err != nil {
		t.Fatalf("initiate first escrow failed: %v", err)
	}
	second, err := p.escrow.Handler.InitiateSharePurchaseHandler(ctx, "buyer", escrowhttp.SharePurchaseRequest{
		PropertyID:       1,
		ShareQuantity:    10,
		PricePerShare:    5,
		ExpirationHeight: 8,
	})
	if err != nil {
		t.Fatalf("initiate second escrow failed: %v", err)
	}

	p.heights.Advance(10)
	if err := p.escrow.Expirer.RunOnce(ctx); err != nil {
		t.Fatalf("expirer run failed: %v", err)
	}

	for _, id := range []uint64{first.EscrowID, second.EscrowID} {
		got, err := p.escrow.Handler.GetEscrowHandler(ctx, id)
		if err != nil {
			t.Fatalf("get escrow %d failed: %v", id, err)
		}
		if got.Status != "refunded" {
			t.Fatalf("expected escrow %d refunded, got %s", id, got.Status)
		}
	}
	if got := p.fundsBalance(t, "buyer"); got != 100 {
		t.Fatalf("expected both deposits back, got %d", got)
	}
}
