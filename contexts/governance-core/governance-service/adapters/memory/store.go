package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"propshare/contexts/governance-core/governance-service/domain/entities"
	domainerrors "propshare/contexts/governance-core/governance-service/domain/errors"
	"propshare/contexts/governance-core/governance-service/ports"
	"propshare/internal/shared/outbox"
)

type voteKey struct {
	proposalID uint64
	voter      string
}

type delegationKey struct {
	delegator  string
	propertyID uint64
}

type Store struct {
	mu          sync.RWMutex
	nextID      uint64
	proposals   map[uint64]entities.Proposal
	votes       map[voteKey]entities.Vote
	delegations map[delegationKey]entities.Delegation
	outbox      []ports.OutboxMessage
}

func NewStore() *Store {
	return &Store{
		nextID:      1,
		proposals:   make(map[uint64]entities.Proposal),
		votes:       make(map[voteKey]entities.Vote),
		delegations: make(map[delegationKey]entities.Delegation),
	}
}

func (s *Store) NextProposalID(_ context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	return id, nil
}

func (s *Store) SaveProposal(_ context.Context, proposal entities.Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proposals[proposal.ID] = proposal
	return nil
}

func (s *Store) GetProposal(_ context.Context, proposalID uint64) (entities.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	proposal, ok := s.proposals[proposalID]
	if !ok {
		return entities.Proposal{}, domainerrors.ErrProposalNotFound
	}
	return proposal, nil
}

func (s *Store) ListProposalsByProperty(_ context.Context, propertyID uint64) ([]entities.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Proposal, 0)
	for _, proposal := range s.proposals {
		if proposal.PropertyID == propertyID {
			items = append(items, proposal)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *Store) ListActivePastEnd(_ context.Context, height uint64) ([]entities.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Proposal, 0)
	for _, proposal := range s.proposals {
		if proposal.Status == entities.ProposalStatusActive && height >= proposal.EndHeight {
			items = append(items, proposal)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *Store) GetVote(_ context.Context, proposalID uint64, voter string) (entities.Vote, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vote, ok := s.votes[voteKey{proposalID: proposalID, voter: strings.TrimSpace(voter)}]
	return vote, ok, nil
}

func (s *Store) SaveVote(_ context.Context, vote entities.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.votes[voteKey{proposalID: vote.ProposalID, voter: strings.TrimSpace(vote.Voter)}] = vote
	return nil
}

func (s *Store) ListVotesByProposal(_ context.Context, proposalID uint64) ([]entities.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Vote, 0)
	for key, vote := range s.votes {
		if key.proposalID == proposalID {
			items = append(items, vote)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Voter < items[j].Voter })
	return items, nil
}

func (s *Store) GetDelegation(_ context.Context, delegator string, propertyID uint64) (entities.Delegation, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	delegation, ok := s.delegations[delegationKey{delegator: strings.TrimSpace(delegator), propertyID: propertyID}]
	return delegation, ok, nil
}

func (s *Store) SaveDelegation(_ context.Context, delegation entities.Delegation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := delegationKey{delegator: strings.TrimSpace(delegation.Delegator), propertyID: delegation.PropertyID}
	s.delegations[key] = delegation
	return nil
}

func (s *Store) DeleteDelegation(_ context.Context, delegator string, propertyID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.delegations, delegationKey{delegator: strings.TrimSpace(delegator), propertyID: propertyID})
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
