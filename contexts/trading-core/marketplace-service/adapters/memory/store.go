package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"propshare/contexts/trading-core/marketplace-service/domain/entities"
	domainerrors "propshare/contexts/trading-core/marketplace-service/domain/errors"
	"propshare/contexts/trading-core/marketplace-service/ports"
	"propshare/internal/shared/outbox"
)

type Store struct {
	mu     sync.RWMutex
	nextID uint64
	orders map[uint64]entities.Order
	stats  map[uint64]entities.MarketStats
	feeBps uint64
	outbox []ports.OutboxMessage
}

func NewStore(defaultFeeBps uint64) *Store {
	return &Store{
		nextID: 1,
		orders: make(map[uint64]entities.Order),
		stats:  make(map[uint64]entities.MarketStats),
		feeBps: defaultFeeBps,
	}
}

func (s *Store) NextOrderID(_ context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	return id, nil
}

func (s *Store) SaveOrder(_ context.Context, order entities.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = order
	return nil
}

func (s *Store) GetOrder(_ context.Context, orderID uint64) (entities.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order, ok := s.orders[orderID]
	if !ok {
		return entities.Order{}, domainerrors.ErrOrderNotFound
	}
	return order, nil
}

func (s *Store) ListOpenOrdersByProperty(_ context.Context, propertyID uint64) ([]entities.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Order, 0)
	for _, order := range s.orders {
		if order.PropertyID == propertyID && order.Status == entities.OrderStatusOpen {
			items = append(items, order)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *Store) ListExpiredOpenOrders(_ context.Context, height uint64) ([]entities.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Order, 0)
	for _, order := range s.orders {
		if order.Status == entities.OrderStatusOpen && height >= order.ExpirationHeight {
			items = append(items, order)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *Store) GetStats(_ context.Context, propertyID uint64) (entities.MarketStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats[propertyID], nil
}

func (s *Store) SaveStats(_ context.Context, stats entities.MarketStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats[stats.PropertyID] = stats
	return nil
}

func (s *Store) GetFeeBps(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.feeBps, nil
}

func (s *Store) SetFeeBps(_ context.Context, bps uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feeBps = bps
	return nil
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
