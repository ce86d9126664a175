package httpadapter

import (
	"context"
	"log/slog"

	"propshare/contexts/finance-core/rental-distribution-service/application"
	"propshare/contexts/finance-core/rental-distribution-service/domain/entities"
	httptransport "propshare/contexts/finance-core/rental-distribution-service/transport/http"
)

type Handler struct {
	Distribution application.Service
	Logger       *slog.Logger
}

func (h Handler) DepositHandler(ctx context.Context, caller string, req httptransport.DepositRequest) (httptransport.DepositResponse, error) {
	deposit, err := h.Distribution.DepositRentalIncome(ctx, caller, req.PropertyID, req.Year, req.Month, req.GrossIncome)
	if err != nil {
		return httptransport.DepositResponse{}, err
	}
	return toDepositResponse(deposit), nil
}

func (h Handler) ClaimHandler(ctx context.Context, caller string, req httptransport.ClaimRequest) (httptransport.ClaimResponse, error) {
	amount, err := h.Distribution.ClaimRentalIncome(ctx, caller, req.PropertyID, req.Year, req.Month)
	if err != nil {
		return httptransport.ClaimResponse{}, err
	}
	return httptransport.ClaimResponse{
		PropertyID: req.PropertyID,
		Year:       req.Year,
		Month:      req.Month,
		Investor:   caller,
		Amount:     amount,
	}, nil
}

func (h Handler) GetDepositHandler(ctx context.Context, propertyID uint64, year uint32, month uint32) (httptransport.DepositResponse, error) {
	deposit, err := h.Distribution.GetDeposit(ctx, propertyID, year, month)
	if err != nil {
		return httptransport.DepositResponse{}, err
	}
	return toDepositResponse(deposit), nil
}

func (h Handler) DepositsHandler(ctx context.Context, propertyID uint64) (httptransport.DepositsResponse, error) {
	deposits, err := h.Distribution.Deposits(ctx, propertyID)
	if err != nil {
		return httptransport.DepositsResponse{}, err
	}
	items := make([]httptransport.DepositResponse, 0, len(deposits))
	for _, deposit := range deposits {
		items = append(items, toDepositResponse(deposit))
	}
	return httptransport.DepositsResponse{PropertyID: propertyID, Deposits: items}, nil
}

func (h Handler) SetFeeStructureHandler(ctx context.Context, caller string, req httptransport.FeeStructureRequest) error {
	return h.Distribution.SetFeeStructure(ctx, caller, entities.FeeStructure{
		ManagementFeeBps:      req.ManagementFeeBps,
		PlatformFeeBps:        req.PlatformFeeBps,
		MaintenanceReserveBps: req.MaintenanceReserveBps,
	})
}

func (h Handler) FeeStructureHandler(ctx context.Context) (httptransport.FeeStructureResponse, error) {
	fees, err := h.Distribution.FeeStructure(ctx)
	if err != nil {
		return httptransport.FeeStructureResponse{}, err
	}
	return httptransport.FeeStructureResponse{
		ManagementFeeBps:      fees.ManagementFeeBps,
		PlatformFeeBps:        fees.PlatformFeeBps,
		MaintenanceReserveBps: fees.MaintenanceReserveBps,
	}, nil
}

func (h Handler) WithdrawFeesHandler(ctx context.Context, caller string, req httptransport.WithdrawFeesRequest) (httptransport.WithdrawFeesResponse, error) {
	amount, err := h.Distribution.WithdrawFees(ctx, caller, req.PropertyID, req.Year, req.Month)
	if err != nil {
		return httptransport.WithdrawFeesResponse{}, err
	}
	return httptransport.WithdrawFeesResponse{Amount: amount}, nil
}

func toDepositResponse(deposit entities.RentalDeposit) httptransport.DepositResponse {
	return httptransport.DepositResponse{
		PropertyID:         deposit.PropertyID,
		Year:               deposit.Year,
		Month:              deposit.Month,
		GrossIncome:        deposit.GrossIncome,
		ManagementFee:      deposit.ManagementFee,
		PlatformFee:        deposit.PlatformFee,
		MaintenanceReserve: deposit.MaintenanceReserve,
		NetDistributable:   deposit.NetDistributable,
		DepositedBy:        deposit.DepositedBy,
		DepositHeight:      deposit.DepositHeight,
		TotalClaimed:       deposit.TotalClaimed,
		FeesWithdrawn:      deposit.FeesWithdrawn,
	}
}
