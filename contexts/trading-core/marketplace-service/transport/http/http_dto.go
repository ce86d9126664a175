package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateOrderRequest struct {
	PropertyID       uint64 `json:"property_id"`
	Quantity         uint64 `json:"quantity"`
	PricePerShare    uint64 `json:"price_per_share"`
	ExpirationHeight uint64 `json:"expiration_height"`
}

type OrderResponse struct {
	OrderID          uint64 `json:"order_id"`
	PropertyID       uint64 `json:"property_id"`
	Trader           string `json:"trader"`
	OrderType        string `json:"order_type"`
	Quantity         uint64 `json:"quantity"`
	PricePerShare    uint64 `json:"price_per_share"`
	TotalPrice       uint64 `json:"total_price"`
	ExpirationHeight uint64 `json:"expiration_height"`
	Status           string `json:"status"`
	CreatedHeight    uint64 `json:"created_height"`
}

type OrdersResponse struct {
	PropertyID uint64          `json:"property_id"`
	Orders     []OrderResponse `json:"orders"`
}

type MarketStatsResponse struct {
	PropertyID     uint64 `json:"property_id"`
	LastTradePrice uint64 `json:"last_trade_price"`
	TradingVolume  uint64 `json:"trading_volume"`
}

type PlatformFeeRequest struct {
	FeeBps uint64 `json:"fee_bps"`
}

type PlatformFeeResponse struct {
	FeeBps uint64 `json:"fee_bps"`
}

type WithdrawFeesResponse struct {
	Amount uint64 `json:"amount"`
}
