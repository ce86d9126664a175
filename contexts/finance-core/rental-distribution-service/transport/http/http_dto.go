package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type DepositRequest struct {
	PropertyID  uint64 `json:"property_id"`
	Year        uint32 `json:"year"`
	Month       uint32 `json:"month"`
	GrossIncome uint64 `json:"gross_income"`
}

type DepositResponse struct {
	PropertyID         uint64 `json:"property_id"`
	Year               uint32 `json:"year"`
	Month              uint32 `json:"month"`
	GrossIncome        uint64 `json:"gross_income"`
	ManagementFee      uint64 `json:"management_fee"`
	PlatformFee        uint64 `json:"platform_fee"`
	MaintenanceReserve uint64 `json:"maintenance_reserve"`
	NetDistributable   uint64 `json:"net_distributable"`
	DepositedBy        string `json:"deposited_by"`
	DepositHeight      uint64 `json:"deposit_height"`
	TotalClaimed       uint64 `json:"total_claimed"`
	FeesWithdrawn      bool   `json:"fees_withdrawn"`
}

type DepositsResponse struct {
	PropertyID uint64            `json:"property_id"`
	Deposits   []DepositResponse `json:"deposits"`
}

type ClaimRequest struct {
	PropertyID uint64 `json:"property_id"`
	Year       uint32 `json:"year"`
	Month      uint32 `json:"month"`
}

type ClaimResponse struct {
	PropertyID uint64 `json:"property_id"`
	Year       uint32 `json:"year"`
	Month      uint32 `json:"month"`
	Investor   string `json:"investor"`
	Amount     uint64 `json:"amount"`
}

type FeeStructureRequest struct {
	ManagementFeeBps      uint64 `json:"management_fee_bps"`
	PlatformFeeBps        uint64 `json:"platform_fee_bps"`
	MaintenanceReserveBps uint64 `json:"maintenance_reserve_bps"`
}

type FeeStructureResponse struct {
	ManagementFeeBps      uint64 `json:"management_fee_bps"`
	PlatformFeeBps        uint64 `json:"platform_fee_bps"`
	MaintenanceReserveBps uint64 `json:"maintenance_reserve_bps"`
}

type WithdrawFeesRequest struct {
	PropertyID uint64 `json:"property_id"`
	Year       uint32 `json:"year"`
	Month      uint32 `json:"month"`
}

type WithdrawFeesResponse struct {
	Amount uint64 `json:"amount"`
}
