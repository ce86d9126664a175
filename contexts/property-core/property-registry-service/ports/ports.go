package ports

import (
	"context"

	"propshare/contexts/property-core/property-registry-service/domain/entities"
)

type Repository interface {
	NextID(ctx context.Context) (uint64, error)
	SaveProperty(ctx context.Context, property entities.Property) error
	GetProperty(ctx context.Context, propertyID uint64) (entities.Property, error)
	ListProperties(ctx context.Context) ([]entities.Property, error)
}

type AccessControl interface {
	IsAdmin(ctx context.Context, principal string) (bool, error)
}

type Heights interface {
	CurrentHeight(ctx context.Context) (uint64, error)
}
