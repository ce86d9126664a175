package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"propshare/contexts/finance-core/rental-distribution-service/domain/entities"
)

type periodKey struct {
	propertyID uint64
	year       uint32
	month      uint32
}

type claimKey struct {
	periodKey
	investor string
}

type Store struct {
	mu       sync.RWMutex
	deposits map[periodKey]entities.RentalDeposit
	claims   map[claimKey]entities.Claim
	fees     entities.FeeStructure
}

func NewStore(fees entities.FeeStructure) *Store {
	return &Store{
		deposits: make(map[periodKey]entities.RentalDeposit),
		claims:   make(map[claimKey]entities.Claim),
		fees:     fees,
	}
}

func (s *Store) GetDeposit(_ context.Context, propertyID uint64, year uint32, month uint32) (entities.RentalDeposit, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	deposit, ok := s.deposits[periodKey{propertyID: propertyID, year: year, month: month}]
	return deposit, ok, nil
}

func (s *Store) SaveDeposit(_ context.Context, deposit entities.RentalDeposit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := periodKey{propertyID: deposit.PropertyID, year: deposit.Year, month: deposit.Month}
	s.deposits[key] = deposit
	return nil
}

func (s *Store) ListDeposits(_ context.Context, propertyID uint64) ([]entities.RentalDeposit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.RentalDeposit, 0)
	for key, deposit := range s.deposits {
		if key.propertyID == propertyID {
			items = append(items, deposit)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Year != items[j].Year {
			return items[i].Year < items[j].Year
		}
		return items[i].Month < items[j].Month
	})
	return items, nil
}

func (s *Store) GetClaim(_ context.Context, propertyID uint64, year uint32, month uint32, investor string) (entities.Claim, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key := claimKey{
		periodKey: periodKey{propertyID: propertyID, year: year, month: month},
		investor:  strings.TrimSpace(investor),
	}
	claim, ok := s.claims[key]
	return claim, ok, nil
}

func (s *Store) SaveClaim(_ context.Context, claim entities.Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := claimKey{
		periodKey: periodKey{propertyID: claim.PropertyID, year: claim.Year, month: claim.Month},
		investor:  strings.TrimSpace(claim.Investor),
	}
	s.claims[key] = claim
	return nil
}

func (s *Store) GetFeeStructure(_ context.Context) (entities.FeeStructure, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fees, nil
}

func (s *Store) SaveFeeStructure(_ context.Context, fees entities.FeeStructure) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fees = fees
	return nil
}
