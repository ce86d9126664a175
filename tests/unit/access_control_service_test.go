package unit

import (
	"context"
	"errors"
	"testing"

	accesserrors "propshare/contexts/identity-access/access-control-service/domain/errors"
	accesshttp "propshare/contexts/identity-access/access-control-service/transport/http"
)

func TestOwnerBootstrapAndRoleLifecycle(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()

	owner, err := p.access.Handler.OwnerHandler(ctx)
	if err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}
	if owner.Owner != platformOwner {
		t.Fatalf("expected owner %s, got %s", platformOwner, owner.Owner)
	}
	check, err := p.access.Handler.CheckRoleHandler(ctx, platformOwner, "admin")
	if err != nil {
		t.Fatalf("check role failed: %v", err)
	}
	if !check.Held {
		t.Fatalf("expected owner to hold admin on bootstrap")
	}

	p.grantRole(t, "alice", "property_manager")
	check, err = p.access.Handler.CheckRoleHandler(ctx, "alice", "property_manager")
	if err != nil {
		t.Fatalf("check role failed: %v", err)
	}
	if !check.Held {
		t.Fatalf("expected alice to hold property_manager")
	}

	err = p.access.Handler.GrantRoleHandler(ctx, platformOwner, accesshttp.RoleChangeRequest{
		Principal: "alice",
		Role:      "property_manager",
	})
	if !errors.Is(err, accesserrors.ErrAlreadyHasRole) {
		t.Fatalf("expected ErrAlreadyHasRole on duplicate grant, got %v", err)
	}

	if err := p.access.Handler.RevokeRoleHandler(ctx, platformOwner, accesshttp.RoleChangeRequest{
		Principal: "alice",
		Role:      "property_manager",
	}); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	check, err = p.access.Handler.CheckRoleHandler(ctx, "alice", "property_manager")
	if err != nil {
		t.Fatalf("check role failed: %v", err)
	}
	if check.Held {
		t.Fatalf("expected role revoked")
	}
}

func TestNonAdminCannotGrant(t *testing.T) {
	p := newPlatform(t)

	err := p.access.Handler.GrantRoleHandler(context.Background(), "mallory", accesshttp.RoleChangeRequest{
		Principal: "mallory",
		Role:      "admin",
	})
	if !errors.Is(err, accesserrors.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
}

func TestOwnerAdminProtection(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()
	p.grantRole(t, "second-admin", "admin")

	err := p.access.Handler.RevokeRoleHandler(ctx, "second-admin", accesshttp.RoleChangeRequest{
		Principal: platformOwner,
		Role:      "admin",
	})
	if !errors.Is(err, accesserrors.ErrOwnerAdminProtected) {
		t.Fatalf("expected ErrOwnerAdminProtected on revoking owner admin, got %v", err)
	}

	err = p.access.Handler.RenounceRoleHandler(ctx, platformOwner, accesshttp.RenounceRoleRequest{Role: "admin"})
	if !errors.Is(err, accesserrors.ErrOwnerAdminProtected) {
		t.Fatalf("expected ErrOwnerAdminProtected on owner renouncing admin, got %v", err)
	}
}

func TestTransferOwnershipMovesAdminProtection(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()

	err := p.access.Handler.TransferOwnershipHandler(ctx, "mallory", accesshttp.TransferOwnershipRequest{NewOwner: "mallory"})
	if !errors.Is(err, accesserrors.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	if err := p.access.Handler.TransferOwnershipHandler(ctx, platformOwner, accesshttp.TransferOwnershipRequest{NewOwner: "new-owner"}); err != nil {
		t.Fatalf("transfer ownership failed: %v", err)
	}

	owner, err := p.access.Handler.OwnerHandler(ctx)
	if err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}
	if owner.Owner != "new-owner" {
		t.Fatalf("expected new owner, got %s", owner.Owner)
	}
	check, err := p.access.Handler.CheckRoleHandler(ctx, "new-owner", "admin")
	if err != nil {
		t.Fatalf("check role failed: %v", err)
	}
	if !check.Held {
		t.Fatalf("expected new owner to hold admin after transfer")
	}
}
