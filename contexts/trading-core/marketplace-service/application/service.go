package application

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"propshare/contexts/trading-core/marketplace-service/domain/entities"
	domainerrors "propshare/contexts/trading-core/marketplace-service/domain/errors"
	"propshare/contexts/trading-core/marketplace-service/ports"
	"propshare/internal/shared/events"
)

// MaxFeeBps caps the configurable platform fee at 10%.
const MaxFeeBps = 1000

// Service runs the order book. Sell orders escrow shares, buy orders escrow
// funds; every guard runs before the first asset moves.
type Service struct {
	Orders  ports.OrderRepository
	Ledger  ports.ShareLedger
	Funds   ports.Funds
	Access  ports.AccessControl
	Heights ports.Heights
	Outbox  ports.OutboxWriter
	IDGen   ports.IDGenerator

	// CustodyAccount holds escrowed shares and funds for open orders.
	CustodyAccount string
	// FeeAccount accumulates platform fees until withdrawn.
	FeeAccount string

	Logger *slog.Logger
}

type CreateOrderInput struct {
	PropertyID       uint64
	Quantity         uint64
	PricePerShare    uint64
	ExpirationHeight uint64
}

// CreateSellOrder lists shares for sale and escrows them into marketplace
// custody in the same operation.
func (s Service) CreateSellOrder(ctx context.Context, caller string, input CreateOrderInput) (entities.Order, error) {
	order, err := s.prepareOrder(ctx, caller, entities.OrderTypeSell, input)
	if err != nil {
		return entities.Order{}, err
	}
	available, err := s.Ledger.AvailableOf(ctx, input.PropertyID, caller)
	if err != nil {
		return entities.Order{}, err
	}
	if available < input.Quantity {
		return entities.Order{}, domainerrors.ErrInvalidOrderInput
	}

	if err := s.Ledger.EscrowTransfer(ctx, input.PropertyID, caller, s.CustodyAccount, input.Quantity); err != nil {
		return entities.Order{}, err
	}
	if err := s.Orders.SaveOrder(ctx, order); err != nil {
		return entities.Order{}, err
	}
	s.appendOrderEvent(ctx, "marketplace.order.created", order)
	s.logOrder("sell order created", "order_created", order)
	return order, nil
}

// CreateBuyOrder places a bid and escrows the full purchase price.
func (s Service) CreateBuyOrder(ctx context.Context, caller string, input CreateOrderInput) (entities.Order, error) {
	order, err := s.prepareOrder(ctx, caller, entities.OrderTypeBuy, input)
	if err != nil {
		return entities.Order{}, err
	}
	balance, err := s.Funds.Balance(ctx, caller)
	if err != nil {
		return entities.Order{}, err
	}
	if balance < order.TotalPrice {
		return entities.Order{}, domainerrors.ErrInsufficientFunds
	}

	if err := s.Funds.Transfer(ctx, caller, s.CustodyAccount, order.TotalPrice); err != nil {
		return entities.Order{}, err
	}
	if err := s.Orders.SaveOrder(ctx, order); err != nil {
		return entities.Order{}, err
	}
	s.appendOrderEvent(ctx, "marketplace.order.created", order)
	s.logOrder("buy order created", "order_created", order)
	return order, nil
}

// FillSellOrder settles a sell order: the caller is the buyer, pays the total
// price plus nothing extra, and the platform fee comes out of the seller's
// proceeds. Shares leave custody last, after both fund legs are checked.
func (s Service) FillSellOrder(ctx context.Context, caller string, orderID uint64) (entities.Order, error) {
	caller = strings.TrimSpace(caller)
	if caller == "" {
		return entities.Order{}, domainerrors.ErrNotAuthorized
	}
	order, err := s.openOrder(ctx, orderID, entities.OrderTypeSell)
	if err != nil {
		return entities.Order{}, err
	}
	whitelisted, err := s.Ledger.IsWhitelisted(ctx, order.PropertyID, caller)
	if err != nil {
		return entities.Order{}, err
	}
	if !whitelisted {
		return entities.Order{}, domainerrors.ErrNotWhitelisted
	}
	fee, proceeds, err := s.splitFee(ctx, order.TotalPrice)
	if err != nil {
		return entities.Order{}, err
	}
	balance, err := s.Funds.Balance(ctx, caller)
	if err != nil {
		return entities.Order{}, err
	}
	if balance < order.TotalPrice {
		return entities.Order{}, domainerrors.ErrInsufficientFunds
	}

	if err := s.Funds.Transfer(ctx, caller, order.Trader, proceeds); err != nil {
		return entities.Order{}, err
	}
	if fee > 0 {
		if err := s.Funds.Transfer(ctx, caller, s.FeeAccount, fee); err != nil {
			return entities.Order{}, err
		}
	}
	if err := s.Ledger.EscrowTransfer(ctx, order.PropertyID, s.CustodyAccount, caller, order.Quantity); err != nil {
		return entities.Order{}, err
	}

	order.Status = entities.OrderStatusFilled
	if err := s.Orders.SaveOrder(ctx, order); err != nil {
		return entities.Order{}, err
	}
	if err := s.recordTrade(ctx, order); err != nil {
		return entities.Order{}, err
	}
	s.appendOrderEvent(ctx, "marketplace.order.filled", order)
	s.logFill(order, caller, fee)
	return order, nil
}

// FillBuyOrder settles a buy order: the caller is the seller, delivers shares
// from their own balance, and receives the escrowed funds minus the platform
// fee.
func (s Service) FillBuyOrder(ctx context.Context, caller string, orderID uint64) (entities.Order, error) {
	caller = strings.TrimSpace(caller)
	if caller == "" {
		return entities.Order{}, domainerrors.ErrNotAuthorized
	}
	order, err := s.openOrder(ctx, orderID, entities.OrderTypeBuy)
	if err != nil {
		return entities.Order{}, err
	}
	whitelisted, err := s.Ledger.IsWhitelisted(ctx, order.PropertyID, order.Trader)
	if err != nil {
		return entities.Order{}, err
	}
	if !whitelisted {
		return entities.Order{}, domainerrors.ErrNotWhitelisted
	}
	available, err := s.Ledger.AvailableOf(ctx, order.PropertyID, caller)
	if err != nil {
		return entities.Order{}, err
	}
	if available < order.Quantity {
		return entities.Order{}, domainerrors.ErrInvalidOrderInput
	}
	fee, proceeds, err := s.splitFee(ctx, order.TotalPrice)
	if err != nil {
		return entities.Order{}, err
	}

	if err := s.Ledger.EscrowTransfer(ctx, order.PropertyID, caller, order.Trader, order.Quantity); err != nil {
		return entities.Order{}, err
	}
	if err := s.Funds.Transfer(ctx, s.CustodyAccount, caller, proceeds); err != nil {
		return entities.Order{}, err
	}
	if fee > 0 {
		if err := s.Funds.Transfer(ctx, s.CustodyAccount, s.FeeAccount, fee); err != nil {
			return entities.Order{}, err
		}
	}

	order.Status = entities.OrderStatusFilled
	if err := s.Orders.SaveOrder(ctx, order); err != nil {
		return entities.Order{}, err
	}
	if err := s.recordTrade(ctx, order); err != nil {
		return entities.Order{}, err
	}
	s.appendOrderEvent(ctx, "marketplace.order.filled", order)
	s.logFill(order, caller, fee)
	return order, nil
}

// CancelOrder returns the escrowed asset to the trader. Only the trader may
// cancel, and only while the order is still open.
func (s Service) CancelOrder(ctx context.Context, caller string, orderID uint64) (entities.Order, error) {
	caller = strings.TrimSpace(caller)
	order, err := s.Orders.GetOrder(ctx, orderID)
	if err != nil {
		return entities.Order{}, err
	}
	if caller == "" || caller != order.Trader {
		return entities.Order{}, domainerrors.ErrNotAuthorized
	}
	if order.Status != entities.OrderStatusOpen {
		return entities.Order{}, domainerrors.ErrOrderNotOpen
	}

	if err := s.releaseEscrow(ctx, order); err != nil {
		return entities.Order{}, err
	}
	order.Status = entities.OrderStatusCancelled
	if err := s.Orders.SaveOrder(ctx, order); err != nil {
		return entities.Order{}, err
	}
	s.appendOrderEvent(ctx, "marketplace.order.cancelled", order)
	s.logOrder("order cancelled", "order_cancelled", order)
	return order, nil
}

// ExpireOpenOrders cancels every open order whose expiration height has been
// reached, returning escrow to traders. Workers call this on a schedule.
func (s Service) ExpireOpenOrders(ctx context.Context) (int, error) {
	height, err := s.Heights.CurrentHeight(ctx)
	if err != nil {
		return 0, err
	}
	expired, err := s.Orders.ListExpiredOpenOrders(ctx, height)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, order := range expired {
		if err := s.releaseEscrow(ctx, order); err != nil {
			return count, err
		}
		order.Status = entities.OrderStatusCancelled
		if err := s.Orders.SaveOrder(ctx, order); err != nil {
			return count, err
		}
		s.appendOrderEvent(ctx, "marketplace.order.expired", order)
		count++
	}
	if count > 0 {
		ResolveLogger(s.Logger).Info("expired orders cancelled",
			"event", "orders_expired",
			"module", "trading-core/marketplace-service",
			"layer", "application",
			"count", count,
			"height", height,
		)
	}
	return count, nil
}

// SetPlatformFee is admin-only and rejects rates above MaxFeeBps.
func (s Service) SetPlatformFee(ctx context.Context, caller string, bps uint64) error {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return err
	}
	if bps > MaxFeeBps {
		return domainerrors.ErrFeeTooHigh
	}
	if err := s.Orders.SetFeeBps(ctx, bps); err != nil {
		return err
	}
	ResolveLogger(s.Logger).Info("platform fee updated",
		"event", "platform_fee_updated",
		"module", "trading-core/marketplace-service",
		"layer", "application",
		"fee_bps", bps,
		"updated_by", strings.TrimSpace(caller),
	)
	return nil
}

// WithdrawPlatformFees moves the accumulated fee balance to the caller, who
// must be an admin.
func (s Service) WithdrawPlatformFees(ctx context.Context, caller string) (uint64, error) {
	caller = strings.TrimSpace(caller)
	if err := s.requireAdmin(ctx, caller); err != nil {
		return 0, err
	}
	amount, err := s.Funds.Balance(ctx, s.FeeAccount)
	if err != nil {
		return 0, err
	}
	if amount == 0 {
		return 0, domainerrors.ErrNothingToWithdraw
	}
	if err := s.Funds.Transfer(ctx, s.FeeAccount, caller, amount); err != nil {
		return 0, err
	}
	ResolveLogger(s.Logger).Info("platform fees withdrawn",
		"event", "platform_fees_withdrawn",
		"module", "trading-core/marketplace-service",
		"layer", "application",
		"amount", amount,
		"withdrawn_by", caller,
	)
	return amount, nil
}

func (s Service) GetOrder(ctx context.Context, orderID uint64) (entities.Order, error) {
	return s.Orders.GetOrder(ctx, orderID)
}

func (s Service) OpenOrders(ctx context.Context, propertyID uint64) ([]entities.Order, error) {
	return s.Orders.ListOpenOrdersByProperty(ctx, propertyID)
}

func (s Service) MarketStats(ctx context.Context, propertyID uint64) (entities.MarketStats, error) {
	stats, err := s.Orders.GetStats(ctx, propertyID)
	if err != nil {
		return entities.MarketStats{}, err
	}
	stats.PropertyID = propertyID
	return stats, nil
}

func (s Service) PlatformFeeBps(ctx context.Context) (uint64, error) {
	return s.Orders.GetFeeBps(ctx)
}

func (s Service) prepareOrder(ctx context.Context, caller string, orderType entities.OrderType, input CreateOrderInput) (entities.Order, error) {
	caller = strings.TrimSpace(caller)
	if caller == "" {
		return entities.Order{}, domainerrors.ErrNotAuthorized
	}
	if input.Quantity == 0 || input.PricePerShare == 0 {
		return entities.Order{}, domainerrors.ErrInvalidOrderInput
	}
	whitelisted, err := s.Ledger.IsWhitelisted(ctx, input.PropertyID, caller)
	if err != nil {
		return entities.Order{}, err
	}
	if !whitelisted {
		return entities.Order{}, domainerrors.ErrNotWhitelisted
	}
	height, err := s.Heights.CurrentHeight(ctx)
	if err != nil {
		return entities.Order{}, err
	}
	if input.ExpirationHeight <= height {
		return entities.Order{}, domainerrors.ErrInvalidExpiration
	}
	id, err := s.Orders.NextOrderID(ctx)
	if err != nil {
		return entities.Order{}, err
	}
	return entities.Order{
		ID:               id,
		PropertyID:       input.PropertyID,
		Trader:           caller,
		Type:             orderType,
		Quantity:         input.Quantity,
		PricePerShare:    input.PricePerShare,
		TotalPrice:       input.Quantity * input.PricePerShare,
		ExpirationHeight: input.ExpirationHeight,
		Status:           entities.OrderStatusOpen,
		CreatedHeight:    height,
	}, nil
}

// openOrder loads an order and verifies it is open, unexpired, and of the
// expected type.
func (s Service) openOrder(ctx context.Context, orderID uint64, orderType entities.OrderType) (entities.Order, error) {
	order, err := s.Orders.GetOrder(ctx, orderID)
	if err != nil {
		return entities.Order{}, err
	}
	if order.Type != orderType {
		return entities.Order{}, domainerrors.ErrWrongOrderType
	}
	if order.Status != entities.OrderStatusOpen {
		return entities.Order{}, domainerrors.ErrOrderNotOpen
	}
	height, err := s.Heights.CurrentHeight(ctx)
	if err != nil {
		return entities.Order{}, err
	}
	if height >= order.ExpirationHeight {
		return entities.Order{}, domainerrors.ErrOrderExpired
	}
	return order, nil
}

func (s Service) releaseEscrow(ctx context.Context, order entities.Order) error {
	switch order.Type {
	case entities.OrderTypeSell:
		return s.Ledger.EscrowTransfer(ctx, order.PropertyID, s.CustodyAccount, order.Trader, order.Quantity)
	case entities.OrderTypeBuy:
		return s.Funds.Transfer(ctx, s.CustodyAccount, order.Trader, order.TotalPrice)
	default:
		return domainerrors.ErrWrongOrderType
	}
}

func (s Service) splitFee(ctx context.Context, totalPrice uint64) (fee uint64, proceeds uint64, err error) {
	bps, err := s.Orders.GetFeeBps(ctx)
	if err != nil {
		return 0, 0, err
	}
	fee = totalPrice * bps / 10000
	return fee, totalPrice - fee, nil
}

func (s Service) recordTrade(ctx context.Context, order entities.Order) error {
	stats, err := s.Orders.GetStats(ctx, order.PropertyID)
	if err != nil {
		return err
	}
	stats.PropertyID = order.PropertyID
	stats.LastTradePrice = order.PricePerShare
	stats.TradingVolume += order.Quantity
	return s.Orders.SaveStats(ctx, stats)
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

type orderEventPayload struct {
	OrderID       uint64 `json:"order_id"`
	PropertyID    uint64 `json:"property_id"`
	Trader        string `json:"trader"`
	OrderType     string `json:"order_type"`
	Quantity      uint64 `json:"quantity"`
	PricePerShare uint64 `json:"price_per_share"`
	TotalPrice    uint64 `json:"total_price"`
	Status        string `json:"status"`
}

func (s Service) appendOrderEvent(ctx context.Context, eventType string, order entities.Order) {
	if s.Outbox == nil || s.IDGen == nil {
		return
	}
	logger := ResolveLogger(s.Logger)
	eventID, err := s.IDGen.NewID(ctx)
	if err != nil {
		logger.Error("outbox event id generation failed",
			"event", "outbox_append_failed",
			"module", "trading-core/marketplace-service",
			"layer", "application",
			"error", err,
		)
		return
	}
	envelope, err := events.New(eventID, eventType, "order", strconv.FormatUint(order.ID, 10), time.Now(), orderEventPayload{
		OrderID:       order.ID,
		PropertyID:    order.PropertyID,
		Trader:        order.Trader,
		OrderType:     string(order.Type),
		Quantity:      order.Quantity,
		PricePerShare: order.PricePerShare,
		TotalPrice:    order.TotalPrice,
		Status:        string(order.Status),
	})
	if err != nil {
		logger.Error("outbox payload marshal failed",
			"event", "outbox_append_failed",
			"module", "trading-core/marketplace-service",
			"layer", "application",
			"error", err,
		)
		return
	}
	envelope.SourceService = "marketplace-service"
	envelope.PartitionKey = strconv.FormatUint(order.PropertyID, 10)
	if err := s.Outbox.AppendOutbox(ctx, envelope); err != nil {
		logger.Error("outbox append failed",
			"event", "outbox_append_failed",
			"module", "trading-core/marketplace-service",
			"layer", "application",
			"order_id", order.ID,
			"error", err,
		)
	}
}

func (s Service) logOrder(msg string, event string, order entities.Order) {
	ResolveLogger(s.Logger).Info(msg,
		"event", event,
		"module", "trading-core/marketplace-service",
		"layer", "application",
		"order_id", order.ID,
		"property_id", order.PropertyID,
		"trader", order.Trader,
		"order_type", order.Type,
		"quantity", order.Quantity,
		"price_per_share", order.PricePerShare,
	)
}

func (s Service) logFill(order entities.Order, counterparty string, fee uint64) {
	ResolveLogger(s.Logger).Info("order filled",
		"event", "order_filled",
		"module", "trading-core/marketplace-service",
		"layer", "application",
		"order_id", order.ID,
		"property_id", order.PropertyID,
		"trader", order.Trader,
		"counterparty", counterparty,
		"total_price", order.TotalPrice,
		"platform_fee", fee,
	)
}
