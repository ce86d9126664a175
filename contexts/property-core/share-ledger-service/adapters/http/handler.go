package httpadapter

import (
	"context"
	"log/slog"

	"propshare/contexts/property-core/share-ledger-service/application"
	"propshare/contexts/property-core/share-ledger-service/domain/entities"
	httptransport "propshare/contexts/property-core/share-ledger-service/transport/http"
)

type Handler struct {
	Ledger application.Service
	Logger *slog.Logger
}

func (h Handler) InitializeHandler(ctx context.Context, caller string, req httptransport.InitializeLedgerRequest) (httptransport.LedgerResponse, error) {
	ledger, err := h.Ledger.Initialize(ctx, caller, application.InitializeInput{
		PropertyID:    req.PropertyID,
		Name:          req.Name,
		Symbol:        req.Symbol,
		TotalShares:   req.TotalShares,
		MinInvestment: req.MinInvestment,
		MetadataURI:   req.MetadataURI,
	})
	if err != nil {
		return httptransport.LedgerResponse{}, err
	}
	return toLedgerResponse(ledger), nil
}

func (h Handler) TransferHandler(ctx context.Context, caller string, propertyID uint64, req httptransport.TransferRequest) error {
	return h.Ledger.Transfer(ctx, caller, propertyID, req.Sender, req.Recipient, req.Amount, req.Memo)
}

func (h Handler) AddToWhitelistHandler(ctx context.Context, caller string, propertyID uint64, req httptransport.WhitelistRequest) error {
	return h.Ledger.AddToWhitelist(ctx, caller, propertyID, req.Principal)
}

func (h Handler) RemoveFromWhitelistHandler(ctx context.Context, caller string, propertyID uint64, req httptransport.WhitelistRequest) error {
	return h.Ledger.RemoveFromWhitelist(ctx, caller, propertyID, req.Principal)
}

func (h Handler) BurnHandler(ctx context.Context, caller string, propertyID uint64, req httptransport.BurnRequest) error {
	return h.Ledger.Burn(ctx, caller, propertyID, req.Amount)
}

func (h Handler) SetMinInvestmentHandler(ctx context.Context, caller string, propertyID uint64, req httptransport.MinInvestmentRequest) error {
	return h.Ledger.SetMinInvestment(ctx, caller, propertyID, req.Amount)
}

func (h Handler) GetLedgerHandler(ctx context.Context, propertyID uint64) (httptransport.LedgerResponse, error) {
	ledger, err := h.Ledger.GetLedger(ctx, propertyID)
	if err != nil {
		return httptransport.LedgerResponse{}, err
	}
	return toLedgerResponse(ledger), nil
}

func (h Handler) GetHoldingHandler(ctx context.Context, propertyID uint64, principal string) (httptransport.HoldingResponse, error) {
	balance, err := h.Ledger.BalanceOf(ctx, propertyID, principal)
	if err != nil {
		return httptransport.HoldingResponse{}, err
	}
	locked, err := h.Ledger.LockedOf(ctx, propertyID, principal)
	if err != nil {
		return httptransport.HoldingResponse{}, err
	}
	whitelisted, err := h.Ledger.IsWhitelisted(ctx, propertyID, principal)
	if err != nil {
		return httptransport.HoldingResponse{}, err
	}
	return httptransport.HoldingResponse{
		PropertyID:  propertyID,
		Principal:   principal,
		Balance:     balance,
		Locked:      locked,
		Available:   balance - locked,
		Whitelisted: whitelisted,
	}, nil
}

func (h Handler) HoldersHandler(ctx context.Context, propertyID uint64) (httptransport.HoldersResponse, error) {
	holdings, err := h.Ledger.Holders(ctx, propertyID)
	if err != nil {
		return httptransport.HoldersResponse{}, err
	}
	items := make([]httptransport.HoldingResponse, 0, len(holdings))
	for _, holding := range holdings {
		items = append(items, httptransport.HoldingResponse{
			PropertyID:  holding.PropertyID,
			Principal:   holding.Principal,
			Balance:     holding.Balance,
			Locked:      holding.Locked,
			Available:   holding.Available(),
			Whitelisted: holding.Whitelisted,
		})
	}
	return httptransport.HoldersResponse{PropertyID: propertyID, Holders: items}, nil
}

func toLedgerResponse(ledger entities.Ledger) httptransport.LedgerResponse {
	return httptransport.LedgerResponse{
		PropertyID:    ledger.PropertyID,
		Name:          ledger.Name,
		Symbol:        ledger.Symbol,
		Decimals:      ledger.Decimals,
		TotalSupply:   ledger.TotalSupply,
		MinInvestment: ledger.MinInvestment,
		Treasury:      ledger.Treasury,
		MetadataURI:   ledger.MetadataURI,
		CreatedHeight: ledger.CreatedHeight,
	}
}
