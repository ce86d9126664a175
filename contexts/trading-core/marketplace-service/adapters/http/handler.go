package httpadapter

import (
	"context"
	"log/slog"

	"propshare/contexts/trading-core/marketplace-service/application"
	"propshare/contexts/trading-core/marketplace-service/domain/entities"
	httptransport "propshare/contexts/trading-core/marketplace-service/transport/http"
)

type Handler struct {
	Marketplace application.Service
	Logger      *slog.Logger
}

func (h Handler) CreateSellOrderHandler(ctx context.Context, caller string, req httptransport.CreateOrderRequest) (httptransport.OrderResponse, error) {
	order, err := h.Marketplace.CreateSellOrder(ctx, caller, toCreateInput(req))
	if err != nil {
		return httptransport.OrderResponse{}, err
	}
	return toOrderResponse(order), nil
}

func (h Handler) CreateBuyOrderHandler(ctx context.Context, caller string, req httptransport.CreateOrderRequest) (httptransport.OrderResponse, error) {
	order, err := h.Marketplace.CreateBuyOrder(ctx, caller, toCreateInput(req))
	if err != nil {
		return httptransport.OrderResponse{}, err
	}
	return toOrderResponse(order), nil
}

func (h Handler) FillSellOrderHandler(ctx context.Context, caller string, orderID uint64) (httptransport.OrderResponse, error) {
	order, err := h.Marketplace.FillSellOrder(ctx, caller, orderID)
	if err != nil {
		return httptransport.OrderResponse{}, err
	}
	return toOrderResponse(order), nil
}

func (h Handler) FillBuyOrderHandler(ctx context.Context, caller string, orderID uint64) (httptransport.OrderResponse, error) {
	order, err := h.Marketplace.FillBuyOrder(ctx, caller, orderID)
	if err != nil {
		return httptransport.OrderResponse{}, err
	}
	return toOrderResponse(order), nil
}

func (h Handler) CancelOrderHandler(ctx context.Context, caller string, orderID uint64) (httptransport.OrderResponse, error) {
	order, err := h.Marketplace.CancelOrder(ctx, caller, orderID)
	if err != nil {
		return httptransport.OrderResponse{}, err
	}
	return toOrderResponse(order), nil
}

func (h Handler) GetOrderHandler(ctx context.Context, orderID uint64) (httptransport.OrderResponse, error) {
	order, err := h.Marketplace.GetOrder(ctx, orderID)
	if err != nil {
		return httptransport.OrderResponse{}, err
	}
	return toOrderResponse(order), nil
}

func (h Handler) OpenOrdersHandler(ctx context.Context, propertyID uint64) (httptransport.OrdersResponse, error) {
	orders, err := h.Marketplace.OpenOrders(ctx, propertyID)
	if err != nil {
		return httptransport.OrdersResponse{}, err
	}
	items := make([]httptransport.OrderResponse, 0, len(orders))
	for _, order := range orders {
		items = append(items, toOrderResponse(order))
	}
	return httptransport.OrdersResponse{PropertyID: propertyID, Orders: items}, nil
}

func (h Handler) MarketStatsHandler(ctx context.Context, propertyID uint64) (httptransport.MarketStatsResponse, error) {
	stats, err := h.Marketplace.MarketStats(ctx, propertyID)
	if err != nil {
		return httptransport.MarketStatsResponse{}, err
	}
	return httptransport.MarketStatsResponse{
		PropertyID:     stats.PropertyID,
		LastTradePrice: stats.LastTradePrice,
		TradingVolume:  stats.TradingVolume,
	}, nil
}

func (h Handler) SetPlatformFeeHandler(ctx context.Context, caller string, req httptransport.PlatformFeeRequest) error {
	return h.Marketplace.SetPlatformFee(ctx, caller, req.FeeBps)
}

func (h Handler) PlatformFeeHandler(ctx context.Context) (httptransport.PlatformFeeResponse, error) {
	bps, err := h.Marketplace.PlatformFeeBps(ctx)
	if err != nil {
		return httptransport.PlatformFeeResponse{}, err
	}
	return httptransport.PlatformFeeResponse{FeeBps: bps}, nil
}

func (h Handler) WithdrawPlatformFeesHandler(ctx context.Context, caller string) (httptransport.WithdrawFeesResponse, error) {
	amount, err := h.Marketplace.WithdrawPlatformFees(ctx, caller)
	if err != nil {
		return httptransport.WithdrawFeesResponse{}, err
	}
	return httptransport.WithdrawFeesResponse{Amount: amount}, nil
}

func toCreateInput(req httptransport.CreateOrderRequest) application.CreateOrderInput {
	return application.CreateOrderInput{
		PropertyID:       req.PropertyID,
		Quantity:         req.Quantity,
		PricePerShare:    req.PricePerShare,
		ExpirationHeight: req.ExpirationHeight,
	}
}

func toOrderResponse(order entities.Order) httptransport.OrderResponse {
	return httptransport.OrderResponse{
		OrderID:          order.ID,
		PropertyID:       order.PropertyID,
		Trader:           order.Trader,
		OrderType:        string(order.Type),
		Quantity:         order.Quantity,
		PricePerShare:    order.PricePerShare,
		TotalPrice:       order.TotalPrice,
		ExpirationHeight: order.ExpirationHeight,
		Status:           string(order.Status),
		CreatedHeight:    order.CreatedHeight,
	}
}
