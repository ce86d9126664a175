package entities

// Ledger is the supply-side record of one property's share class.
type Ledger struct {
	PropertyID    uint64
	Name          string
	Symbol        string
	Decimals      uint8
	TotalSupply   uint64
	MinInvestment uint64
	Treasury      string
	MetadataURI   string
	CreatedHeight uint64
	Initialized   bool
}

// Holding is one principal's position on one property ledger.
// Invariant: Locked <= Balance.
type Holding struct {
	PropertyID  uint64
	Principal   string
	Balance     uint64
	Locked      uint64
	Whitelisted bool
}

// Available is the transferable part of the balance.
func (h Holding) Available() uint64 {
	if h.Locked > h.Balance {
		return 0
	}
	return h.Balance - h.Locked
}
