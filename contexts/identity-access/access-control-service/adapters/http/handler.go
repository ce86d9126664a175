package httpadapter

import (
	"context"
	"log/slog"

	"propshare/contexts/identity-access/access-control-service/application"
	"propshare/contexts/identity-access/access-control-service/domain/entities"
	httptransport "propshare/contexts/identity-access/access-control-service/transport/http"
)

type Handler struct {
	Access application.Service
	Logger *slog.Logger
}

func (h Handler) GrantRoleHandler(ctx context.Context, caller string, req httptransport.RoleChangeRequest) error {
	return h.Access.GrantRole(ctx, caller, req.Principal, entities.Role(req.Role))
}

func (h Handler) RevokeRoleHandler(ctx context.Context, caller string, req httptransport.RoleChangeRequest) error {
	return h.Access.RevokeRole(ctx, caller, req.Principal, entities.Role(req.Role))
}

func (h Handler) RenounceRoleHandler(ctx context.Context, caller string, req httptransport.RenounceRoleRequest) error {
	return h.Access.RenounceRole(ctx, caller, entities.Role(req.Role))
}

func (h Handler) TransferOwnershipHandler(ctx context.Context, caller string, req httptransport.TransferOwnershipRequest) error {
	return h.Access.TransferOwnership(ctx, caller, req.NewOwner)
}

func (h Handler) ListRolesHandler(ctx context.Context, principal string) (httptransport.RolesResponse, error) {
	grants, err := h.Access.ListRoles(ctx, principal)
	if err != nil {
		return httptransport.RolesResponse{}, err
	}
	items := make([]httptransport.RoleGrantItem, 0, len(grants))
	for _, grant := range grants {
		items = append(items, httptransport.RoleGrantItem{
			Principal:     grant.Principal,
			Role:          string(grant.Role),
			GrantedBy:     grant.GrantedBy,
			GrantedHeight: grant.GrantedHeight,
		})
	}
	return httptransport.RolesResponse{Principal: principal, Roles: items}, nil
}

func (h Handler) CheckRoleHandler(ctx context.Context, principal string, role string) (httptransport.CheckRoleResponse, error) {
	held, err := h.Access.HasRole(ctx, principal, entities.Role(role))
	if err != nil {
		return httptransport.CheckRoleResponse{}, err
	}
	return httptransport.CheckRoleResponse{Principal: principal, Role: role, Held: held}, nil
}

func (h Handler) OwnerHandler(ctx context.Context) (httptransport.OwnerResponse, error) {
	owner, err := h.Access.Owner(ctx)
	if err != nil {
		return httptransport.OwnerResponse{}, err
	}
	return httptransport.OwnerResponse{Owner: owner}, nil
}
