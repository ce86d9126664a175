package httpadapter

import (
	"context"
	"log/slog"

	"propshare/contexts/property-core/property-registry-service/application"
	"propshare/contexts/property-core/property-registry-service/domain/entities"
	httptransport "propshare/contexts/property-core/property-registry-service/transport/http"
)

type Handler struct {
	Registry application.Service
	Logger   *slog.Logger
}

func (h Handler) CreatePropertyHandler(ctx context.Context, caller string, req httptransport.CreatePropertyRequest) (httptransport.PropertyResponse, error) {
	property, err := h.Registry.CreateProperty(ctx, caller, application.CreatePropertyInput{
		Address:     req.Address,
		TotalValue:  req.TotalValue,
		TotalShares: req.TotalShares,
		Manager:     req.Manager,
		MetadataURI: req.MetadataURI,
		LegalEntity: req.LegalEntity,
	})
	if err != nil {
		return httptransport.PropertyResponse{}, err
	}
	return toPropertyResponse(property), nil
}

func (h Handler) UpdateStatusHandler(ctx context.Context, caller string, propertyID uint64, req httptransport.UpdateStatusRequest) error {
	return h.Registry.UpdateStatus(ctx, caller, propertyID, entities.PropertyStatus(req.Status))
}

func (h Handler) LinkShareLedgerHandler(ctx context.Context, caller string, propertyID uint64) error {
	return h.Registry.LinkShareLedger(ctx, caller, propertyID)
}

func (h Handler) UpdateValuationHandler(ctx context.Context, caller string, propertyID uint64, req httptransport.UpdateValuationRequest) error {
	return h.Registry.UpdateValuation(ctx, caller, propertyID, req.TotalValue)
}

func (h Handler) TransferManagementHandler(ctx context.Context, caller string, propertyID uint64, req httptransport.TransferManagementRequest) error {
	return h.Registry.TransferManagement(ctx, caller, propertyID, req.NewManager)
}

func (h Handler) GetPropertyHandler(ctx context.Context, propertyID uint64) (httptransport.PropertyResponse, error) {
	property, err := h.Registry.GetProperty(ctx, propertyID)
	if err != nil {
		return httptransport.PropertyResponse{}, err
	}
	return toPropertyResponse(property), nil
}

func (h Handler) ListPropertiesHandler(ctx context.Context) (httptransport.PropertyListResponse, error) {
	properties, err := h.Registry.ListProperties(ctx)
	if err != nil {
		return httptransport.PropertyListResponse{}, err
	}
	items := make([]httptransport.PropertyResponse, 0, len(properties))
	for _, property := range properties {
		items = append(items, toPropertyResponse(property))
	}
	return httptransport.PropertyListResponse{Items: items}, nil
}

func toPropertyResponse(property entities.Property) httptransport.PropertyResponse {
	return httptransport.PropertyResponse{
		ID:                property.ID,
		Address:           property.Address,
		TotalValue:        property.TotalValue,
		TotalShares:       property.TotalShares,
		ShareLedgerLinked: property.ShareLedgerLinked,
		Manager:           property.Manager,
		CreationHeight:    property.CreationHeight,
		Status:            string(property.Status),
		MetadataURI:       property.MetadataURI,
		LegalEntity:       property.LegalEntity,
	}
}
