package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type InitializeLedgerRequest struct {
	PropertyID    uint64 `json:"property_id"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	TotalShares   uint64 `json:"total_shares"`
	MinInvestment uint64 `json:"min_investment"`
	MetadataURI   string `json:"metadata_uri,omitempty"`
}

type LedgerResponse struct {
	PropertyID    uint64 `json:"property_id"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	Decimals      uint8  `json:"decimals"`
	TotalSupply   uint64 `json:"total_supply"`
	MinInvestment uint64 `json:"min_investment"`
	Treasury      string `json:"treasury"`
	MetadataURI   string `json:"metadata_uri,omitempty"`
	CreatedHeight uint64 `json:"created_height"`
}

type TransferRequest struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount"`
	Memo      string `json:"memo,omitempty"`
}

type WhitelistRequest struct {
	Principal string `json:"principal"`
}

type BurnRequest struct {
	Amount uint64 `json:"amount"`
}

type MinInvestmentRequest struct {
	Amount uint64 `json:"amount"`
}

type HoldingResponse struct {
	PropertyID  uint64 `json:"property_id"`
	Principal   string `json:"principal"`
	Balance     uint64 `json:"balance"`
	Locked      uint64 `json:"locked"`
	Available   uint64 `json:"available"`
	Whitelisted bool   `json:"whitelisted"`
}

type HoldersResponse struct {
	PropertyID uint64            `json:"property_id"`
	Holders    []HoldingResponse `json:"holders"`
}
