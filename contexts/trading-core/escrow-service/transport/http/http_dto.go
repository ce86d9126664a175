package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SharePurchaseRequest struct {
	PropertyID       uint64 `json:"property_id"`
	ShareQuantity    uint64 `json:"share_quantity"`
	PricePerShare    uint64 `json:"price_per_share"`
	ExpirationHeight uint64 `json:"expiration_height"`
}

type PropertySaleRequest struct {
	PropertyID       uint64 `json:"property_id"`
	Seller           string `json:"seller"`
	Amount           uint64 `json:"amount"`
	ExpirationHeight uint64 `json:"expiration_height"`
}

type DisputeRequest struct {
	Arbiter string `json:"arbiter"`
}

type ResolveDisputeRequest struct {
	ReleaseToBuyer bool `json:"release_to_buyer"`
}

type EscrowResponse struct {
	EscrowID         uint64 `json:"escrow_id"`
	EscrowType       string `json:"escrow_type"`
	PropertyID       uint64 `json:"property_id"`
	Buyer            string `json:"buyer"`
	Seller           string `json:"seller,omitempty"`
	Amount           uint64 `json:"amount"`
	ShareQuantity    uint64 `json:"share_quantity,omitempty"`
	Status           string `json:"status"`
	SharesFunded     bool   `json:"shares_funded"`
	Arbiter          string `json:"arbiter,omitempty"`
	CreatedHeight    uint64 `json:"created_height"`
	ExpirationHeight uint64 `json:"expiration_height"`
}

type EscrowsResponse struct {
	PropertyID uint64           `json:"property_id"`
	Escrows    []EscrowResponse `json:"escrows"`
}
