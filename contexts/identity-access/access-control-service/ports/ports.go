package ports

import (
	"context"

	"propshare/contexts/identity-access/access-control-service/domain/entities"
)

type Repository interface {
	HasGrant(ctx context.Context, principal string, role entities.Role) (bool, error)
	SaveGrant(ctx context.Context, grant entities.RoleGrant) error
	DeleteGrant(ctx context.Context, principal string, role entities.Role) error
	ListGrants(ctx context.Context, principal string) ([]entities.RoleGrant, error)
	Owner(ctx context.Context) (string, error)
	SetOwner(ctx context.Context, principal string) error
}

type Heights interface {
	CurrentHeight(ctx context.Context) (uint64, error)
}
