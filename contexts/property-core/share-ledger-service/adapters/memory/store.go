package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"propshare/contexts/property-core/share-ledger-service/domain/entities"
)

type holdingKey struct {
	propertyID uint64
	principal  string
}

type Store struct {
	mu       sync.RWMutex
	ledgers  map[uint64]entities.Ledger
	holdings map[holdingKey]entities.Holding
}

func NewStore() *Store {
	return &Store{
		ledgers:  make(map[uint64]entities.Ledger),
		holdings: make(map[holdingKey]entities.Holding),
	}
}

func (s *Store) GetLedger(_ context.Context, propertyID uint64) (entities.Ledger, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ledger, ok := s.ledgers[propertyID]
	return ledger, ok, nil
}

func (s *Store) SaveLedger(_ context.Context, ledger entities.Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledgers[ledger.PropertyID] = ledger
	return nil
}

func (s *Store) GetHolding(_ context.Context, propertyID uint64, principal string) (entities.Holding, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	holding, ok := s.holdings[holdingKey{propertyID: propertyID, principal: strings.TrimSpace(principal)}]
	if !ok {
		return entities.Holding{PropertyID: propertyID, Principal: strings.TrimSpace(principal)}, false, nil
	}
	return holding, true, nil
}

func (s *Store) SaveHoldings(_ context.Context, holdings ...entities.Holding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, holding := range holdings {
		key := holdingKey{propertyID: holding.PropertyID, principal: strings.TrimSpace(holding.Principal)}
		s.holdings[key] = holding
	}
	return nil
}

func (s *Store) ListHoldings(_ context.Context, propertyID uint64) ([]entities.Holding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Holding, 0)
	for key, holding := range s.holdings {
		if key.propertyID == propertyID {
			items = append(items, holding)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Principal < items[j].Principal })
	return items, nil
}
