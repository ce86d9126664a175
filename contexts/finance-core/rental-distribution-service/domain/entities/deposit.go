package entities

// FeeStructure holds the basis-point splits taken from every gross deposit.
// The sum of the three rates never exceeds 10000.
type FeeStructure struct {
	ManagementFeeBps      uint64
	PlatformFeeBps        uint64
	MaintenanceReserveBps uint64
}

func (f FeeStructure) Sum() uint64 {
	return f.ManagementFeeBps + f.PlatformFeeBps + f.MaintenanceReserveBps
}

// RentalDeposit is keyed by (property, year, month); at most one exists per
// period.
type RentalDeposit struct {
	PropertyID         uint64
	Year               uint32
	Month              uint32
	GrossIncome        uint64
	ManagementFee      uint64
	PlatformFee        uint64
	MaintenanceReserve uint64
	NetDistributable   uint64
	DepositedBy        string
	DepositHeight      uint64
	TotalClaimed       uint64
	FeesWithdrawn      bool
}

// Claim stores the cumulative amount an investor has drawn from one period.
type Claim struct {
	PropertyID    uint64
	Year          uint32
	Month         uint32
	Investor      string
	AmountClaimed uint64
	ClaimHeight   uint64
}
