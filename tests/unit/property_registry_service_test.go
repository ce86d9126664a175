package unit

import (
	"context"
	"errors"
	"testing"

	registryerrors "propshare/contexts/property-core/property-registry-service/domain/errors"
	registryhttp "propshare/contexts/property-core/property-registry-service/transport/http"
)

func createProperty(t *testing.T, p *platform, manager string) registryhttp.PropertyResponse {
	t.Helper()
	property, err := p.registry.Handler.CreatePropertyHandler(context.Background(), platformOwner, registryhttp.CreatePropertyRequest{
		Address:     "12 Harbor Street",
		TotalValue:  500000,
		TotalShares: 1000,
		Manager:     manager,
	})
	if err != nil {
		t.Fatalf("create property failed: %v", err)
	}
	return property
}

func TestCreatePropertyRequiresAdmin(t *testing.T) {
	p := newPlatform(t)

	_, err := p.registry.Handler.CreatePropertyHandler(context.Background(), "mallory", registryhttp.CreatePropertyRequest{
		Address:     "12 Harbor Street",
		TotalValue:  500000,
		TotalShares: 1000,
		Manager:     "manager-1",
	})
	if !errors.Is(err, registryerrors.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}

	property := createProperty(t, p, "manager-1")
	if property.ID == 0 {
		t.Fatalf("expected assigned property id")
	}
	if property.Status != "active" {
		t.Fatalf("expected new property to be active, got %s", property.Status)
	}
}

func TestCreatePropertyRejectsBadInput(t *testing.T) {
	p := newPlatform(t)

	_, err := p.registry.Handler.CreatePropertyHandler(context.Background(), platformOwner, registryhttp.CreatePropertyRequest{
		Address:     "",
		TotalValue:  500000,
		TotalShares: 1000,
		Manager:     "manager-1",
	})
	if !errors.Is(err, registryerrors.ErrInvalidPropertyData) {
		t.Fatalf("expected ErrInvalidPropertyData for empty address, got %v", err)
	}
}

func TestUpdateStatusByManagerAndAdmin(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()
	property := createProperty(t, p, "manager-1")

	err := p.registry.Handler.UpdateStatusHandler(ctx, "mallory", property.ID, registryhttp.UpdateStatusRequest{Status: "maintenance"})
	if !errors.Is(err, registryerrors.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}

	if err := p.registry.Handler.UpdateStatusHandler(ctx, "manager-1", property.ID, registryhttp.UpdateStatusRequest{Status: "maintenance"}); err != nil {
		t.Fatalf("manager status update failed: %v", err)
	}
	err = p.registry.Handler.UpdateStatusHandler(ctx, platformOwner, property.ID, registryhttp.UpdateStatusRequest{Status: "condemned"})
	if !errors.Is(err, registryerrors.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	got, err := p.registry.Handler.GetPropertyHandler(ctx, property.ID)
	if err != nil {
		t.Fatalf("get property failed: %v", err)
	}
	if got.Status != "maintenance" {
		t.Fatalf("expected maintenance status, got %s", got.Status)
	}
}

func TestLinkShareLedgerIsOneShot(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()
	property := createProperty(t, p, "manager-1")

	if err := p.registry.Handler.LinkShareLedgerHandler(ctx, platformOwner, property.ID); err != nil {
		t.Fatalf("link ledger failed: %v", err)
	}
	err := p.registry.Handler.LinkShareLedgerHandler(ctx, platformOwner, property.ID)
	if !errors.Is(err, registryerrors.ErrLedgerAlreadyLinked) {
		t.Fatalf("expected ErrLedgerAlreadyLinked, got %v", err)
	}
}

func TestValuationAndManagementTransfer(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()
	property := createProperty(t, p, "manager-1")

	if err := p.registry.Handler.UpdateValuationHandler(ctx, "manager-1", property.ID, registryhttp.UpdateValuationRequest{TotalValue: 650000}); err != nil {
		t.Fatalf("valuation update failed: %v", err)
	}
	err := p.registry.Handler.UpdateValuationHandler(ctx, platformOwner, property.ID, registryhttp.UpdateValuationRequest{TotalValue: 0})
	if !errors.Is(err, registryerrors.ErrInvalidPropertyData) {
		t.Fatalf("expected ErrInvalidPropertyData for zero valuation, got %v", err)
	}

	err = p.registry.Handler.TransferManagementHandler(ctx, "manager-1", property.ID, registryhttp.TransferManagementRequest{NewManager: "manager-2"})
	if !errors.Is(err, registryerrors.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for manager-initiated transfer, got %v", err)
	}
	if err := p.registry.Handler.TransferManagementHandler(ctx, platformOwner, property.ID, registryhttp.TransferManagementRequest{NewManager: "manager-2"}); err != nil {
		t.Fatalf("management transfer failed: %v", err)
	}

	got, err := p.registry.Handler.GetPropertyHandler(ctx, property.ID)
	if err != nil {
		t.Fatalf("get property failed: %v", err)
	}
	if got.Manager != "manager-2" {
		t.Fatalf("expected manager-2, got %s", got.Manager)
	}
	if got.TotalValue != 650000 {
		t.Fatalf("expected valuation 650000, got %d", got.TotalValue)
	}

	_, err = p.registry.Handler.GetPropertyHandler(ctx, 999)
	if !errors.Is(err, registryerrors.ErrPropertyNotFound) {
		t.Fatalf("expected ErrPropertyNotFound, got %v", err)
	}
}
