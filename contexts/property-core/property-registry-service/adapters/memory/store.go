package memory

import (
	"context"
	"sort"
	"sync"

	"propshare/contexts/property-core/property-registry-service/domain/entities"
	domainerrors "propshare/contexts/property-core/property-registry-service/domain/errors"
)

type Store struct {
	mu         sync.RWMutex
	properties map[uint64]entities.Property
	nextID     uint64
}

func NewStore() *Store {
	return &Store{
		properties: make(map[uint64]entities.Property),
		nextID:     1,
	}
}

func (s *Store) NextID(_ context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	return id, nil
}

func (s *Store) SaveProperty(_ context.Context, property entities.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.properties[property.ID] = property
	return nil
}

func (s *Store) GetProperty(_ context.Context, propertyID uint64) (entities.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	property, ok := s.properties[propertyID]
	if !ok {
		return entities.Property{}, domainerrors.ErrPropertyNotFound
	}
	return property, nil
}

func (s *Store) ListProperties(_ context.Context) ([]entities.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Property, 0, len(s.properties))
	for _, property := range s.properties {
		items = append(items, property)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}
