package unit

import (
	"context"
	"errors"
	"testing"

	"propshare/internal/app/bootstrap"

	marketerrors "propshare/contexts/trading-core/marketplace-service/domain/errors"
	markethttp "propshare/contexts/trading-core/marketplace-service/transport/http"
)

func TestSellOrderEscrowsSharesOnCreation(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()
	p.initLedger(t, 1, 1000)
	p.fundInvestor(t, 1, "seller", 100)

	order, err := p.market.Handler.CreateSellOrderHandler(ctx, "seller", markethttp.CreateOrderRequest{
		PropertyID:       1,
		Quantity:         10,
		PricePerShare:    100,
		ExpirationHeight: 50,
	})
	if err != nil {
		t.Fatalf("create sell order failed: %v", err)
	}
	if order.TotalPrice != 1000 {
		t.Fatalf("expected total price 1000, got %d", order.TotalPrice)
	}
	if order.Status != "open" {
		t.Fatalf("expected open order, got %s", order.Status)
	}
	if got := p.balance(t, 1, "seller"); got != 90 {
		t.Fatalf("expected 10 shares escrowed, seller balance %d", got)
	}
	if got := p.balance(t, 1, bootstrap.MarketplaceCustody); got != 10 {
		t.Fatalf("expected 10 shares in custody, got %d", got)
	}
}

func TestFillSellOrderSplitsProceedsAndFee(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()
	p.initLedger(t, 1, 1000)
	p.fundInvestor(t, 1, "seller", 100)
	p.whitelist(t, 1, "buyer")
	p.money.Mint("buyer", 1000)

	order, err := p.market.Handler.CreateSellOrderHandler(ctx, "seller", markethttp.CreateOrderRequest{
		PropertyID:       1,
		Quantity:         10,
		PricePerShare:    100,
		ExpirationHeight: 50,
	})
	if err != nil {
		t.Fatalf("create sell order failed: %v", err)
	}

	filled, err := p.market.Handler.FillSellOrderHandler(ctx, "buyer", order.OrderID)
	if err != nil {
		t.Fatalf("fill failed: %v", err)
	}
	if filled.Status != "filled" {
		t.Fatalf("expected filled status, got %s", filled.Status)
	}

	// 250 bps of 1000 is a 25 fee, 975 seller proceeds.
	if got := p.fundsBalance(t, "seller"); got != 975 {
		t.Fatalf("expected seller proceeds 975, got %d", got)
	}
	if got := p.fundsBalance(t, bootstrap.MarketplaceFees); got != 25 {
		t.Fatalf("expected fee account 25, got %d", got)
	}
	if got := p.fundsBalance(t, "buyer"); got != 0 {
		t.Fatalf("expected buyer fully spent, got %d", got)
	}
	if got := p.balance(t, 1, "buyer"); got != 10 {
		t.Fatalf("expected buyer to hold 10 shares, got %d", got)
	}
	if got := p.balance(t, 1, bootstrap.MarketplaceCustody); got != 0 {
		t.Fatalf("expected custody emptied, got %d", got)
	}

	stats, err := p.market.Handler.MarketStatsHandler(ctx, 1)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	// Volume counts shares traded, not money moved.
	if stats.LastTradePrice != 100 || stats.TradingVolume != 10 {
		t.Fatalf("unexpected stats: price %d volume %d", stats.LastTradePrice, stats.TradingVolume)
	}

	_, err = p.market.Handler.FillSellOrderHandler(ctx, "buyer", order.OrderID)
	if !errors.Is(err, marketerrors.ErrOrderNotOpen) {
		t.Fatalf("expected ErrOrderNotOpen on second fill, got %v", err)
	}
}

func TestFillSellOrderGuards(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()
	p.initLedger(t, 1, 1000)
	p.fundInvestor(t, 1, "seller", 100)

	order, err := p.market.Handler.CreateSellOrderHandler(ctx, "seller", markethttp.CreateOrderRequest{
		PropertyID:       1,
		Quantity:         10,
		PricePerShare:    100,
		ExpirationHeight: 50,
	})
	if err != nil {
		t.Fatalf("create sell order failed: %v", err)
	}

	_, err = p.market.Handler.FillSellOrderHandler(ctx, "outsider", order.OrderID)
	if !errors.Is(err, marketerrors.ErrNotWhitelisted) {
		t.Fatalf("expected ErrNotWhitelisted, got %v", err)
	}

	p.whitelist(t, 1, "buyer")
	_, err = p.market.Handler.FillSellOrderHandler(ctx, "buyer", order.OrderID)
	if !errors.Is(err, marketerrors.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	if got := p.balance(t, 1, bootstrap.MarketplaceCustody); got != 10 {
		t.Fatalf("expected escrow untouched after failed fill, got %d", got)
	}
}

func TestCancelOrderReleasesEscrow(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()
	p.initLedger(t, 1, 1000)
	p.fundInvestor(t, 1, "seller", 100)

	order, err := p.market.Handler.CreateSellOrderHandler(ctx, "seller", markethttp.CreateOrderRequest{
		PropertyID:       1,
		Quantity:         10,
		PricePerShare:    100,
		ExpirationHeight: 50,
	})
	if err != nil {
		t.Fatalf("create sell order failed: %v", err)
	}

	_, err = p.market.Handler.CancelOrderHandler(ctx, "mallory", order.OrderID)
	if !errors.Is(err, marketerrors.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}

	cancelled, err := p.market.Handler.CancelOrderHandler(ctx, "seller", order.OrderID)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != "cancelled" {
		t.Fatalf("expected cancelled status, got %s", cancelled.Status)
	}
	if got := p.balance(t, 1, "seller"); got != 100 {
		t.Fatalf("expected shares back with seller, got %d", got)
	}
}

func TestOrderExpirerCancelsStaleOrders(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()
	p.initLedger(t, 1, 1000)
	p.fundInvestor(t, 1, "seller", 100)

	order, err := p.market.Handler.CreateSellOrderHandler(ctx, "seller", markethttp.CreateOrderRequest{
		PropertyID:       1,
		Quantity:         10,
		PricePerShare:    100,
		ExpirationHeight: 5,
	})
	if err != nil {
		t.Fatalf("create sell order failed: %v", err)
	}

	p.heights.Advance(10)
	if err := p.market.OrderExpirer.RunOnce(ctx); err != nil {
		t.Fatalf("expirer run failed: %v", err)
	}

	got, err := p.market.Handler.GetOrderHandler(ctx, order.OrderID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if got.Status != "cancelled" {
		t.Fatalf("expected stale order cancelled, got %s", got.Status)
	}
	if balance := p.balance(t, 1, "seller"); balance != 100 {
		t.Fatalf("expected escrow returned on expiry, got %d", balance)
	}
}

func TestBuyOrderRoundTrip(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()
	p.initLedger(t, 1, 1000)
	p.fundInvestor(t, 1, "seller", 100)
	p.whitelist(t, 1, "buyer")
	p.money.Mint("buyer", 1000)

	order, err := p.market.Handler.CreateBuyOrderHandler(ctx, "buyer", markethttp.CreateOrderRequest{
		PropertyID:       1,
		Quantity:         10,
		PricePerShare:    100,
		ExpirationHeight: 50,
	})
	if err != nil {
		t.Fatalf("create buy order failed: %v", err)
	}
	if got := p.fundsBalance(t, bootstrap.MarketplaceCustody); got != 1000 {
		t.Fatalf("expected funds escrowed in custody, got %d", got)
	}

	if _, err := p.market.Handler.FillBuyOrderHandler(ctx, "seller", order.OrderID); err != nil {
		t.Fatalf("fill buy order failed: %v", err)
	}
	if got := p.balance(t, 1, "buyer"); got != 10 {
		t.Fatalf("expected buyer to hold 10 shares, got %d", got)
	}
	if got := p.fundsBalance(t, "seller"); got != 975 {
		t.Fatalf("expected seller proceeds 975, got %d", got)
	}
	if got := p.fundsBalance(t, bootstrap.MarketplaceFees); got != 25 {
		t.Fatalf("expected fee account 25, got %d", got)
	}
	stats, err := p.market.Handler.MarketStatsHandler(ctx, 1)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.TradingVolume != 10 {
		t.Fatalf("expected volume 10 shares, got %d", stats.TradingVolume)
	}
}

func TestPlatformFeeManagement(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()

	err := p.market.Handler.SetPlatformFeeHandler(ctx, "mallory", markethttp.PlatformFeeRequest{FeeBps: 100})
	if !errors.Is(err, marketerrors.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
	err = p.market.Handler.SetPlatformFeeHandler(ctx, platformOwner, markethttp.PlatformFeeRequest{FeeBps: 1500})
	if !errors.Is(err, marketerrors.ErrFeeTooHigh) {
		t.Fatalf("expected ErrFeeTooHigh above 1000 bps, got %v", err)
	}
	if err := p.market.Handler.SetPlatformFeeHandler(ctx, platformOwner, markethttp.PlatformFeeRequest{FeeBps: 500}); err != nil {
		t.Fatalf("set fee failed: %v", err)
	}
	fee, err := p.market.Handler.PlatformFeeHandler(ctx)
	if err != nil {
		t.Fatalf("read fee failed: %v", err)
	}
	if fee.FeeBps != 500 {
		t.Fatalf("expected fee 500 bps, got %d", fee.FeeBps)
	}

	_, err = p.market.Handler.WithdrawPlatformFeesHandler(ctx, platformOwner)
	if !errors.Is(err, marketerrors.ErrNothingToWithdraw) {
		t.Fatalf("expected ErrNothingToWithdraw, got %v", err)
	}
}

func TestWithdrawPlatformFeesMovesCollectedFees(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()
	p.initLedger(t, 1, 1000)
	p.fundInvestor(t, 1, "seller", 100)
	p.whitelist(t, 1, "buyer")
	p.money.Mint("buyer", 1000)

	order, err := p.market.Handler.CreateSellOrderHandler(ctx, "seller", markethttp.CreateOrderRequest{
		PropertyID:       1,
		Quantity:         10,
		PricePerShare:    100,
		ExpirationHeight: 50,
	})
	if err != nil {
		t.Fatalf("create sell order failed: %v", err)
	}
	if _, err := p.market.Handler.FillSellOrderHandler(ctx, "buyer", order.OrderID); err != nil {
		t.Fatalf("fill failed: %v", err)
	}

	_, err = p.market.Handler.WithdrawPlatformFeesHandler(ctx, "mallory")
	if !errors.Is(err, marketerrors.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}

	withdrawn, err := p.market.Handler.WithdrawPlatformFeesHandler(ctx, platformOwner)
	if err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if withdrawn.Amount != 25 {
		t.Fatalf("expected 25 withdrawn, got %d", withdrawn.Amount)
	}
	if got := p.fundsBalance(t, bootstrap.MarketplaceFees); got != 0 {
		t.Fatalf("expected fee account drained, got %d", got)
	}
}
