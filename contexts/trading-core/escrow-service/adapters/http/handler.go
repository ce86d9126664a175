package httpadapter

import (
	"context"
	"log/slog"

	"propshare/contexts/trading-core/escrow-service/application"
	"propshare/contexts/trading-core/escrow-service/domain/entities"
	httptransport "propshare/contexts/trading-core/escrow-service/transport/http"
)

type Handler struct {
	Escrow application.Service
	Logger *slog.Logger
}

func (h Handler) InitiateSharePurchaseHandler(ctx context.Context, caller string, req httptransport.SharePurchaseRequest) (httptransport.EscrowResponse, error) {
	escrow, err := h.Escrow.InitiateSharePurchase(ctx, caller, application.SharePurchaseInput{
		PropertyID:       req.PropertyID,
		ShareQuantity:    req.ShareQuantity,
		PricePerShare:    req.PricePerShare,
		ExpirationHeight: req.ExpirationHeight,
	})
	if err != nil {
		return httptransport.EscrowResponse{}, err
	}
	return toEscrowResponse(escrow), nil
}

func (h Handler) InitiatePropertySaleHandler(ctx context.Context, caller string, req httptransport.PropertySaleRequest) (httptransport.EscrowResponse, error) {
	escrow, err := h.Escrow.InitiatePropertySale(ctx, caller, application.PropertySaleInput{
		PropertyID:       req.PropertyID,
		Seller:           req.Seller,
		Amount:           req.Amount,
		ExpirationHeight: req.ExpirationHeight,
	})
	if err != nil {
		return httptransport.EscrowResponse{}, err
	}
	return toEscrowResponse(escrow), nil
}

func (h Handler) FundSharesHandler(ctx context.Context, caller string, escrowID uint64) error {
	return h.Escrow.FundEscrowShares(ctx, caller, escrowID)
}

func (h Handler) VerifyHandler(ctx context.Context, caller string, escrowID uint64) (httptransport.EscrowResponse, error) {
	escrow, err := h.Escrow.VerifyEscrow(ctx, caller, escrowID)
	if err != nil {
		return httptransport.EscrowResponse{}, err
	}
	return toEscrowResponse(escrow), nil
}

func (h Handler) ReleaseFundsHandler(ctx context.Context, caller string, escrowID uint64) (httptransport.EscrowResponse, error) {
	escrow, err := h.Escrow.ReleaseFunds(ctx, caller, escrowID)
	if err != nil {
		return httptransport.EscrowResponse{}, err
	}
	return toEscrowResponse(escrow), nil
}

func (h Handler) RefundBuyerHandler(ctx context.Context, caller string, escrowID uint64) (httptransport.EscrowResponse, error) {
	escrow, err := h.Escrow.RefundBuyer(ctx, caller, escrowID)
	if err != nil {
		return httptransport.EscrowResponse{}, err
	}
	return toEscrowResponse(escrow), nil
}

func (h Handler) DisputeHandler(ctx context.Context, caller string, escrowID uint64, req httptransport.DisputeRequest) (httptransport.EscrowResponse, error) {
	escrow, err := h.Escrow.DisputeEscrow(ctx, caller, escrowID, req.Arbiter)
	if err != nil {
		return httptransport.EscrowResponse{}, err
	}
	return toEscrowResponse(escrow), nil
}

func (h Handler) ResolveDisputeHandler(ctx context.Context, caller string, escrowID uint64, req httptransport.ResolveDisputeRequest) (httptransport.EscrowResponse, error) {
	escrow, err := h.Escrow.ResolveDispute(ctx, caller, escrowID, req.ReleaseToBuyer)
	if err != nil {
		return httptransport.EscrowResponse{}, err
	}
	return toEscrowResponse(escrow), nil
}

func (h Handler) CancelExpiredHandler(ctx context.Context, escrowID uint64) (httptransport.EscrowResponse, error) {
	escrow, err := h.Escrow.CancelExpiredEscrow(ctx, escrowID)
	if err != nil {
		return httptransport.EscrowResponse{}, err
	}
	return toEscrowResponse(escrow), nil
}

func (h Handler) GetEscrowHandler(ctx context.Context, escrowID uint64) (httptransport.EscrowResponse, error) {
	escrow, err := h.Escrow.GetEscrow(ctx, escrowID)
	if err != nil {
		return httptransport.EscrowResponse{}, err
	}
	return toEscrowResponse(escrow), nil
}

func (h Handler) EscrowsByPropertyHandler(ctx context.Context, propertyID uint64) (httptransport.EscrowsResponse, error) {
	escrows, err := h.Escrow.EscrowsByProperty(ctx, propertyID)
	if err != nil {
		return httptransport.EscrowsResponse{}, err
	}
	items := make([]httptransport.EscrowResponse, 0, len(escrows))
	for _, escrow := range escrows {
		items = append(items, toEscrowResponse(escrow))
	}
	return httptransport.EscrowsResponse{PropertyID: propertyID, Escrows: items}, nil
}

func toEscrowResponse(escrow entities.Escrow) httptransport.EscrowResponse {
	return httptransport.EscrowResponse{
		EscrowID:         escrow.ID,
		EscrowType:       string(escrow.Type),
		PropertyID:       escrow.PropertyID,
		Buyer:            escrow.Buyer,
		Seller:           escrow.Seller,
		Amount:           escrow.Amount,
		ShareQuantity:    escrow.ShareQuantity,
		Status:           string(escrow.Status),
		SharesFunded:     escrow.SharesFunded,
		Arbiter:          escrow.Arbiter,
		CreatedHeight:    escrow.CreatedHeight,
		ExpirationHeight: escrow.ExpirationHeight,
	}
}
