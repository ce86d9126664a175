package entities

type EscrowType string

const (
	EscrowTypeSharePurchase EscrowType = "share_purchase"
	EscrowTypePropertySale  EscrowType = "property_sale"
)

type EscrowStatus string

const (
	EscrowStatusPending   EscrowStatus = "pending"
	EscrowStatusVerified  EscrowStatus = "verified"
	EscrowStatusCompleted EscrowStatus = "completed"
	EscrowStatusRefunded  EscrowStatus = "refunded"
	EscrowStatusDisputed  EscrowStatus = "disputed"
)

// Escrow is one bilateral custody record. Funds sit in custody from creation
// until a terminal transition; shares sit in custody from funding until
// release or refund.
type Escrow struct {
	ID               uint64
	Type             EscrowType
	PropertyID       uint64
	Buyer            string
	Seller           string
	Amount           uint64
	ShareQuantity    uint64
	Status           EscrowStatus
	SharesFunded     bool
	SharesDepositor  string
	Arbiter          string
	CreatedHeight    uint64
	ExpirationHeight uint64
}

// Terminal reports whether no further transition is possible.
func (e Escrow) Terminal() bool {
	return e.Status == EscrowStatusCompleted || e.Status == EscrowStatusRefunded
}
