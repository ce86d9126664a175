package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"propshare/contexts/trading-core/escrow-service/domain/entities"
	domainerrors "propshare/contexts/trading-core/escrow-service/domain/errors"
	"propshare/contexts/trading-core/escrow-service/ports"
	"propshare/internal/shared/outbox"
)

type Store struct {
	mu      sync.RWMutex
	nextID  uint64
	escrows map[uint64]entities.Escrow
	outbox  []ports.OutboxMessage
}

func NewStore() *Store {
	return &Store{
		nextID:  1,
		escrows: make(map[uint64]entities.Escrow),
	}
}

func (s *Store) NextEscrowID(_ context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	return id, nil
}

func (s *Store) SaveEscrow(_ context.Context, escrow entities.Escrow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.escrows[escrow.ID] = escrow
	return nil
}

func (s *Store) GetEscrow(_ context.Context, escrowID uint64) (entities.Escrow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	escrow, ok := s.escrows[escrowID]
	if !ok {
		return entities.Escrow{}, domainerrors.ErrEscrowNotFound
	}
	return escrow, nil
}

func (s *Store) ListByProperty(_ context.Context, propertyID uint64) ([]entities.Escrow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Escrow, 0)
	for _, escrow := range s.escrows {
		if escrow.PropertyID == propertyID {
			items = append(items, escrow)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *Store) ListExpiredActive(_ context.Context, height uint64) ([]entities.Escrow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Escrow, 0)
	for _, escrow := range s.escrows {
		if !escrow.Terminal() && height >= escrow.ExpirationHeight {
			items = append(items, escrow)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *Store) AppendOutbox(_ context.Context, event ports.EventEnvelope) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outbox = append(s.outbox, ports.OutboxMessage{
		ID:           event.EventID,
		EventType:    event.EventType,
		PartitionKey: event.PartitionKey,
		Payload:      payload,
		Status:       outbox.StatusPending,
		CreatedAt:    time.Now().UTC(),
	})
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]ports.OutboxMessage, 0)
	for _, row := range s.outbox {
		if row.Status != outbox.StatusPending {
			continue
		}
		items = append(items, row)
		if limit > 0 && len(items) >= limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkOutboxSent(_ context.Context, outboxID string, sentAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.outbox {
		if s.outbox[i].ID == outboxID {
			s.outbox[i].Status = outbox.StatusPublished
			at := sentAt
			s.outbox[i].SentAt = &at
			return nil
		}
	}
	return nil
}

// UUIDGenerator issues random event identifiers.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
