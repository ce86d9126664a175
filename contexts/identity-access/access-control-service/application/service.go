package application

import (
	"context"
	"log/slog"
	"strings"

	"propshare/contexts/identity-access/access-control-service/domain/entities"
	domainerrors "propshare/contexts/identity-access/access-control-service/domain/errors"
	"propshare/contexts/identity-access/access-control-service/ports"
)

// Service enforces role administration rules. Only a current admin may grant
// or revoke, and the contract owner's admin role can never be removed.
type Service struct {
	Repo    ports.Repository
	Heights ports.Heights
	Logger  *slog.Logger
}

func (s Service) GrantRole(ctx context.Context, caller string, principal string, role entities.Role) error {
	logger := ResolveLogger(s.Logger)
	caller = strings.TrimSpace(caller)
	principal = strings.TrimSpace(principal)
	if caller == "" || principal == "" {
		return domainerrors.ErrInvalidPrincipal
	}
	if !role.Valid() {
		return domainerrors.ErrUnknownRole
	}
	if err := s.requireAdmin(ctx, caller); err != nil {
		return err
	}

	held, err := s.Repo.HasGrant(ctx, principal, role)
	if err != nil {
		return err
	}
	if held {
		return domainerrors.ErrAlreadyHasRole
	}

	height, err := s.Heights.CurrentHeight(ctx)
	if err != nil {
		return err
	}
	if err := s.Repo.SaveGrant(ctx, entities.RoleGrant{
		Principal:     principal,
		Role:          role,
		GrantedBy:     caller,
		GrantedHeight: height,
	}); err != nil {
		return err
	}
	logger.Info("role granted",
		"event", "access_role_granted",
		"module", "identity-access/access-control-service",
		"layer", "application",
		"principal", principal,
		"role", string(role),
		"granted_by", caller,
	)
	return nil
}

func (s Service) RevokeRole(ctx context.Context, caller string, principal string, role entities.Role) error {
	logger := ResolveLogger(s.Logger)
	caller = strings.TrimSpace(caller)
	principal = strings.TrimSpace(principal)
	if caller == "" || principal == "" {
		return domainerrors.ErrInvalidPrincipal
	}
	if !role.Valid() {
		return domainerrors.ErrUnknownRole
	}
	if err := s.requireAdmin(ctx, caller); err != nil {
		return err
	}
	if err := s.guardOwnerAdmin(ctx, principal, role); err != nil {
		return err
	}

	held, err := s.Repo.HasGrant(ctx, principal, role)
	if err != nil {
		return err
	}
	if !held {
		return domainerrors.ErrDoesNotHaveRole
	}
	if err := s.Repo.DeleteGrant(ctx, principal, role); err != nil {
		return err
	}
	logger.Info("role revoked",
		"event", "access_role_revoked",
		"module", "identity-access/access-control-service",
		"layer", "application",
		"principal", principal,
		"role", string(role),
		"revoked_by", caller,
	)
	return nil
}

// RenounceRole lets a principal drop its own role. The owner cannot renounce
// admin, which keeps the platform from locking itself out.
func (s Service) RenounceRole(ctx context.Context, caller string, role entities.Role) error {
	caller = strings.TrimSpace(caller)
	if caller == "" {
		return domainerrors.ErrInvalidPrincipal
	}
	if !role.Valid() {
		return domainerrors.ErrUnknownRole
	}
	if err := s.guardOwnerAdmin(ctx, caller, role); err != nil {
		return err
	}

	held, err := s.Repo.HasGrant(ctx, caller, role)
	if err != nil {
		return err
	}
	if !held {
		return domainerrors.ErrDoesNotHaveRole
	}
	if err := s.Repo.DeleteGrant(ctx, caller, role); err != nil {
		return err
	}
	ResolveLogger(s.Logger).Info("role renounced",
		"event", "access_role_renounced",
		"module", "identity-access/access-control-service",
		"layer", "application",
		"principal", caller,
		"role", string(role),
	)
	return nil
}

// TransferOwnership grants admin to the new owner and moves the owner pointer
// in one operation. The previous owner keeps admin unless separately revoked.
func (s Service) TransferOwnership(ctx context.Context, caller string, newOwner string) error {
	caller = strings.TrimSpace(caller)
	newOwner = strings.TrimSpace(newOwner)
	if caller == "" || newOwner == "" {
		return domainerrors.ErrInvalidPrincipal
	}

	owner, err := s.Repo.Owner(ctx)
	if err != nil {
		return err
	}
	if caller != owner {
		return domainerrors.ErrNotOwner
	}

	held, err := s.Repo.HasGrant(ctx, newOwner, entities.RoleAdmin)
	if err != nil {
		return err
	}
	if !held {
		height, err := s.Heights.CurrentHeight(ctx)
		if err != nil {
			return err
		}
		if err := s.Repo.SaveGrant(ctx, entities.RoleGrant{
			Principal:     newOwner,
			Role:          entities.RoleAdmin,
			GrantedBy:     caller,
			GrantedHeight: height,
		}); err != nil {
			return err
		}
	}
	if err := s.Repo.SetOwner(ctx, newOwner); err != nil {
		return err
	}
	ResolveLogger(s.Logger).Info("ownership transferred",
		"event", "access_ownership_transferred",
		"module", "identity-access/access-control-service",
		"layer", "application",
		"previous_owner", owner,
		"new_owner", newOwner,
	)
	return nil
}

func (s Service) HasRole(ctx context.Context, principal string, role entities.Role) (bool, error) {
	if !role.Valid() {
		return false, domainerrors.ErrUnknownRole
	}
	return s.Repo.HasGrant(ctx, strings.TrimSpace(principal), role)
}

func (s Service) IsAdmin(ctx context.Context, principal string) (bool, error) {
	return s.Repo.HasGrant(ctx, strings.TrimSpace(principal), entities.RoleAdmin)
}

func (s Service) IsPropertyManager(ctx context.Context, principal string) (bool, error) {
	return s.Repo.HasGrant(ctx, strings.TrimSpace(principal), entities.RolePropertyManager)
}

func (s Service) IsKycVerifier(ctx context.Context, principal string) (bool, error) {
	return s.Repo.HasGrant(ctx, strings.TrimSpace(principal), entities.RoleKYCVerifier)
}

func (s Service) IsArbiter(ctx context.Context, principal string) (bool, error) {
	return s.Repo.HasGrant(ctx, strings.TrimSpace(principal), entities.RoleArbiter)
}

func (s Service) Owner(ctx context.Context) (string, error) {
	return s.Repo.Owner(ctx)
}

func (s Service) ListRoles(ctx context.Context, principal string) ([]entities.RoleGrant, error) {
	return s.Repo.ListGrants(ctx, strings.TrimSpace(principal))
}

func (s Service) requireAdmin(ctx context.Context, caller string) error {
	isAdmin, err := s.Repo.HasGrant(ctx, caller, entities.RoleAdmin)
	if err != nil {
		return err
	}
	if !isAdmin {
		return domainerrors.ErrNotAuthorized
	}
	return nil
}

func (s Service) guardOwnerAdmin(ctx context.Context, principal string, role entities.Role) error {
	if role != entities.RoleAdmin {
		return nil
	}
	owner, err := s.Repo.Owner(ctx)
	if err != nil {
		return err
	}
	if principal == owner {
		return domainerrors.ErrOwnerAdminProtected
	}
	return nil
}
