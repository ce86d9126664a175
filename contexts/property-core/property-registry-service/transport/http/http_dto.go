package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreatePropertyRequest struct {
	Address     string `json:"address"`
	TotalValue  uint64 `json:"total_value"`
	TotalShares uint64 `json:"total_shares"`
	Manager     string `json:"manager"`
	MetadataURI string `json:"metadata_uri,omitempty"`
	LegalEntity string `json:"legal_entity,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type UpdateValuationRequest struct {
	TotalValue uint64 `json:"total_value"`
}

type TransferManagementRequest struct {
	NewManager string `json:"new_manager"`
}

type PropertyResponse struct {
	ID                uint64 `json:"id"`
	Address           string `json:"address"`
	TotalValue        uint64 `json:"total_value"`
	TotalShares       uint64 `json:"total_shares"`
	ShareLedgerLinked bool   `json:"share_ledger_linked"`
	Manager           string `json:"manager"`
	CreationHeight    uint64 `json:"creation_height"`
	Status            string `json:"status"`
	MetadataURI       string `json:"metadata_uri,omitempty"`
	LegalEntity       string `json:"legal_entity,omitempty"`
}

type PropertyListResponse struct {
	Items []PropertyResponse `json:"items"`
}
