package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"propshare/contexts/identity-access/access-control-service/domain/entities"
)

type grantKey struct {
	principal string
	role      entities.Role
}

type Store struct {
	mu     sync.RWMutex
	grants map[grantKey]entities.RoleGrant
	owner  string
}

// NewStore seeds the immutable platform owner with an admin grant.
func NewStore(owner string) *Store {
	owner = strings.TrimSpace(owner)
	store := &Store{
		grants: make(map[grantKey]entities.RoleGrant),
		owner:  owner,
	}
	if owner != "" {
		store.grants[grantKey{principal: owner, role: entities.RoleAdmin}] = entities.RoleGrant{
			Principal: owner,
			Role:      entities.RoleAdmin,
			GrantedBy: owner,
		}
	}
	return store
}

func (s *Store) HasGrant(_ context.Context, principal string, role entities.Role) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.grants[grantKey{principal: strings.TrimSpace(principal), role: role}]
	return ok, nil
}

func (s *Store) SaveGrant(_ context.Context, grant entities.RoleGrant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grants[grantKey{principal: strings.TrimSpace(grant.Principal), role: grant.Role}] = grant
	return nil
}

func (s *Store) DeleteGrant(_ context.Context, principal string, role entities.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.grants, grantKey{principal: strings.TrimSpace(principal), role: role})
	return nil
}

func (s *Store) ListGrants(_ context.Context, principal string) ([]entities.RoleGrant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	principal = strings.TrimSpace(principal)
	items := make([]entities.RoleGrant, 0)
	for key, grant := range s.grants {
		if key.principal == principal {
			items = append(items, grant)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Role < items[j].Role })
	return items, nil
}

func (s *Store) Owner(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.owner, nil
}

func (s *Store) SetOwner(_ context.Context, principal string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owner = strings.TrimSpace(principal)
	return nil
}
