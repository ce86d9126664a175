package application

import (
	"context"
	"log/slog"
	"strings"

	"propshare/contexts/property-core/property-registry-service/domain/entities"
	domainerrors "propshare/contexts/property-core/property-registry-service/domain/errors"
	"propshare/contexts/property-core/property-registry-service/ports"
)

type Service struct {
	Repo    ports.Repository
	Access  ports.AccessControl
	Heights ports.Heights
	Logger  *slog.Logger
}

type CreatePropertyInput struct {
	Address     string
	TotalValue  uint64
	TotalShares uint64
	Manager     string
	MetadataURI string
	LegalEntity string
}

func (s Service) CreateProperty(ctx context.Context, caller string, input CreatePropertyInput) (entities.Property, error) {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return entities.Property{}, err
	}
	if strings.TrimSpace(input.Address) == "" || input.TotalValue == 0 || input.TotalShares == 0 {
		return entities.Property{}, domainerrors.ErrInvalidPropertyData
	}
	if strings.TrimSpace(input.Manager) == "" {
		return entities.Property{}, domainerrors.ErrInvalidPropertyData
	}

	id, err := s.Repo.NextID(ctx)
	if err != nil {
		return entities.Property{}, err
	}
	height, err := s.Heights.CurrentHeight(ctx)
	if err != nil {
		return entities.Property{}, err
	}

	property := entities.Property{
		ID:             id,
		Address:        strings.TrimSpace(input.Address),
		TotalValue:     input.TotalValue,
		TotalShares:    input.TotalShares,
		Manager:        strings.TrimSpace(input.Manager),
		CreationHeight: height,
		Status:         entities.PropertyStatusActive,
		MetadataURI:    strings.TrimSpace(input.MetadataURI),
		LegalEntity:    strings.TrimSpace(input.LegalEntity),
	}
	if err := s.Repo.SaveProperty(ctx, property); err != nil {
		return entities.Property{}, err
	}
	s.logger().Info("property registered",
		"event", "registry_property_created",
		"module", "property-core/property-registry-service",
		"layer", "application",
		"property_id", property.ID,
		"manager", property.Manager,
		"total_shares", property.TotalShares,
	)
	return property, nil
}

// UpdateStatus is allowed for admins and the property's manager.
func (s Service) UpdateStatus(ctx context.Context, caller string, propertyID uint64, status entities.PropertyStatus) error {
	if !status.Valid() {
		return domainerrors.ErrInvalidStatus
	}
	property, err := s.Repo.GetProperty(ctx, propertyID)
	if err != nil {
		return err
	}
	if err := s.requireAdminOrManager(ctx, caller, property); err != nil {
		return err
	}
	property.Status = status
	if err := s.Repo.SaveProperty(ctx, property); err != nil {
		return err
	}
	s.logger().Info("property status updated",
		"event", "registry_status_updated",
		"module", "property-core/property-registry-service",
		"layer", "application",
		"property_id", propertyID,
		"status", string(status),
		"updated_by", strings.TrimSpace(caller),
	)
	return nil
}

// LinkShareLedger marks the property's ledger as created. One-shot.
func (s Service) LinkShareLedger(ctx context.Context, caller string, propertyID uint64) error {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return err
	}
	property, err := s.Repo.GetProperty(ctx, propertyID)
	if err != nil {
		return err
	}
	if property.ShareLedgerLinked {
		return domainerrors.ErrLedgerAlreadyLinked
	}
	property.ShareLedgerLinked = true
	return s.Repo.SaveProperty(ctx, property)
}

func (s Service) UpdateValuation(ctx context.Context, caller string, propertyID uint64, totalValue uint64) error {
	if totalValue == 0 {
		return domainerrors.ErrInvalidPropertyData
	}
	property, err := s.Repo.GetProperty(ctx, propertyID)
	if err != nil {
		return err
	}
	if err := s.requireAdminOrManager(ctx, caller, property); err != nil {
		return err
	}
	property.TotalValue = totalValue
	return s.Repo.SaveProperty(ctx, property)
}

func (s Service) TransferManagement(ctx context.Context, caller string, propertyID uint64, newManager string) error {
	if err := s.requireAdmin(ctx, caller); err != nil {
		return err
	}
	if strings.TrimSpace(newManager) == "" {
		return domainerrors.ErrInvalidPropertyData
	}
	property, err := s.Repo.GetProperty(ctx, propertyID)
	if err != nil {
		return err
	}
	property.Manager = strings.TrimSpace(newManager)
	return s.Repo.SaveProperty(ctx, property)
}

func (s Service) GetProperty(ctx context.Context, propertyID uint64) (entities.Property, error) {
	return s.Repo.GetProperty(ctx, propertyID)
}

func (s Service) ListProperties(ctx context.Context) ([]entities.Property, error) {
	return s.Repo.ListProperties(ctx)
}

func (s Service) requireAdmin(ctx context.Context, caller string) error {
	isAdmin, err := s.Access.IsAdmin(ctx, strings.TrimSpace(caller))
	if err != nil {
		return err
	}
	if !isAdmin {
		return domainerrors.ErrNotAuthorized
	}
	return nil
}

func (s Service) requireAdminOrManager(ctx context.Context, caller string, property entities.Property) error {
	caller = strings.TrimSpace(caller)
	if caller != "" && caller == property.Manager {
		return nil
	}
	isAdmin, err := s.Access.IsAdmin(ctx, caller)
	if err != nil {
		return err
	}
	if !isAdmin {
		return domainerrors.ErrNotAuthorized
	}
	return nil
}

func (s Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
