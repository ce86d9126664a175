package entities

type OrderType string

const (
	OrderTypeSell OrderType = "sell"
	OrderTypeBuy  OrderType = "buy"
)

type OrderStatus string

const (
	OrderStatusOpen      OrderStatus = "open"
	OrderStatusFilled    OrderStatus = "filled"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is one side of a prospective trade. Once Filled or Cancelled the
// record is immutable.
type Order struct {
	ID               uint64
	PropertyID       uint64
	Trader           string
	Type             OrderType
	Quantity         uint64
	PricePerShare    uint64
	TotalPrice       uint64
	ExpirationHeight uint64
	Status           OrderStatus
	CreatedHeight    uint64
}

// MarketStats aggregates per-property trade activity.
type MarketStats struct {
	PropertyID     uint64
	LastTradePrice uint64
	TradingVolume  uint64
}
