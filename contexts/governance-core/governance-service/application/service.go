package application

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"propshare/contexts/governance-core/governance-service/domain/entities"
	domainerrors "propshare/contexts/governance-core/governance-service/domain/errors"
	"propshare/contexts/governance-core/governance-service/ports"
	"propshare/internal/shared/events"
)

// Service runs share-weighted governance. Voting power is the voter's own
// balance at vote time, locked in the ledger until the proposal reaches a
// terminal state.
type Service struct {
	Repo    ports.Repository
	Ledger  ports.ShareLedger
	Access  ports.AccessControl
	Heights ports.Heights
	Outbox  ports.OutboxWriter
	IDGen   ports.IDGenerator

	VotingPeriodBlocks uint64
	QuorumBps          uint64
	ThresholdBps       uint64

	Logger *slog.Logger
}

type CreateProposalInput struct {
	PropertyID       uint64
	Title            string
	Description      string
	ExecutionPayload string
}

// CreateProposal requires the proposer to hold at least thresholdBps of the
// property's supply. The voting window opens immediately.
func (s Service) CreateProposal(ctx context.Context, caller string, input CreateProposalInput) (entities.Proposal, error) {
	caller = strings.TrimSpace(caller)
	if caller == "" {
		return entities.Proposal{}, domainerrors.ErrInvalidPrincipal
	}
	if strings.TrimSpace(input.Title) == "" {
		return entities.Proposal{}, domainerrors.ErrInvalidProposalInput
	}
	supply, err := s.Ledger.TotalSupply(ctx, input.PropertyID)
	if err != nil {
		return entities.Proposal{}, err
	}
	proposerShares, err := s.Ledger.BalanceOf(ctx, input.PropertyID, caller)
	if err != nil {
		return entities.Proposal{}, err
	}
	if proposerShares < supply*s.ThresholdBps/10000 {
		return entities.Proposal{}, domainerrors.ErrBelowThreshold
	}
	height, err := s.Heights.CurrentHeight(ctx)
	if err != nil {
		return entities.Proposal{}, err
	}
	id, err := s.Repo.NextProposalID(ctx)
	if err != nil {
		return entities.Proposal{}, err
	}

	proposal := entities.Proposal{
		ID:               id,
		PropertyID:       input.PropertyID,
		Proposer:         caller,
		Title:            strings.TrimSpace(input.Title),
		Description:      strings.TrimSpace(input.Description),
		StartHeight:      height,
		EndHeight:        height + s.VotingPeriodBlocks,
		Status:           entities.ProposalStatusActive,
		ExecutionPayload: strings.TrimSpace(input.ExecutionPayload),
	}
	if err := s.Repo.SaveProposal(ctx, proposal); err != nil {
		return entities.Proposal{}, err
	}
	s.appendProposalEvent(ctx, "governance.proposal.created", proposal)
	s.logProposal("proposal created", "proposal_created", proposal)
	return proposal, nil
}

// CastVote locks the caller's full balance as voting power and records the
// vote. The property id must match the proposal's ledger, which blocks
// cross-property vote injection.
func (s Service) CastVote(ctx context.Context, caller string, proposalID uint64, propertyID uint64, choice entities.VoteChoice) (entities.Vote, error) {
	caller = strings.TrimSpace(caller)
	if caller == "" {
		return entities.Vote{}, domainerrors.ErrInvalidPrincipal
	}
	if !choice.Valid() {
		return entities.Vote{}, domainerrors.ErrInvalidChoice
	}
	proposal, err := s.Repo.GetProposal(ctx, proposalID)
	if err != nil {
		return entities.Vote{}, err
	}
	if proposal.PropertyID != propertyID {
		return entities.Vote{}, domainerrors.ErrLedgerMismatch
	}
	if proposal.Status != entities.ProposalStatusActive {
		return entities.Vote{}, domainerrors.ErrProposalNotActive
	}
	height, err := s.Heights.CurrentHeight(ctx)
	if err != nil {
		return entities.Vote{}, err
	}
	if height >= proposal.EndHeight {
		return entities.Vote{}, domainerrors.ErrVotingClosed
	}
	if _, voted, err := s.Repo.GetVote(ctx, proposalID, caller); err != nil {
		return entities.Vote{}, err
	} else if voted {
		return entities.Vote{}, domainerrors.ErrAlreadyVoted
	}
	power, err := s.Ledger.BalanceOf(ctx, proposal.PropertyID, caller)
	if err != nil {
		return entities.Vote{}, err
	}
	if power == 0 {
		return entities.Vote{}, domainerrors.ErrNoVotingPower
	}

	if err := s.Ledger.LockShares(ctx, proposal.PropertyID, caller, power); err != nil {
		return entities.Vote{}, err
	}
	vote := entities.Vote{
		ProposalID:  proposalID,
		Voter:       caller,
		Choice:      choice,
		VotingPower: power,
		VoteHeight:  height,
	}
	if err := s.Repo.SaveVote(ctx, vote); err != nil {
		return entities.Vote{}, err
	}

	switch choice {
	case entities.VoteChoiceYes:
		proposal.YesVotes += power
	case entities.VoteChoiceNo:
		proposal.NoVotes += power
	case entities.VoteChoiceAbstain:
		proposal.AbstainVotes += power
	}
	proposal.TotalVotes += power
	if err := s.Repo.SaveProposal(ctx, proposal); err != nil {
		return entities.Vote{}, err
	}

	ResolveLogger(s.Logger).Info("vote cast",
		"event", "vote_cast",
		"module", "governance-core/governance-service",
		"layer", "application",
		"proposal_id", proposalID,
		"voter", caller,
		"choice", choice,
		"voting_power", power,
	)
	return vote, nil
}

// ExecuteProposal records execution after the voting window, gated by quorum
// and simple majority. The execution payload is not applied here; downstream
// collaborators consume the emitted event.
func (s Service) ExecuteProposal(ctx context.Context, caller string, proposalID uint64) (entities.Proposal, error) {
	caller = strings.TrimSpace(caller)
	if caller == "" {
		return entities.Proposal{}, domainerrors.ErrInvalidPrincipal
	}
	proposal, err := s.Repo.GetProposal(ctx, proposalID)
	if err != nil {
		return entities.Proposal{}, err
	}
	if proposal.Status == entities.ProposalStatusExecuted {
		return entities.Proposal{}, domainerrors.ErrAlreadyExecuted
	}
	if proposal.Status != entities.ProposalStatusActive && proposal.Status != entities.ProposalStatusPassed {
		return entities.Proposal{}, domainerrors.ErrProposalNotActive
	}
	height, err := s.Heights.CurrentHeight(ctx)
	if err != nil {
		return entities.Proposal{}, err
	}
	if height < proposal.EndHeight {
		return entities.Proposal{}, domainerrors.ErrVotingStillOpen
	}
	supply, err := s.Ledger.TotalSupply(ctx, proposal.PropertyID)
	if err != nil {
		return entities.Proposal{}, err
	}
	if proposal.TotalVotes < supply*s.QuorumBps/10000 {
		return entities.Proposal{}, domainerrors.ErrQuorumNotMet
	}
	if proposal.YesVotes <= proposal.NoVotes {
		return entities.Proposal{}, domainerrors.ErrProposalRejected
	}

	proposal.Status = entities.ProposalStatusExecuted
	if err := s.releaseVoteLocks(ctx, &proposal); err != nil {
		return entities.Proposal{}, err
	}
	if err := s.Repo.SaveProposal(ctx, proposal); err != nil {
		return entities.Proposal{}, err
	}
	s.appendProposalEvent(ctx, "governance.proposal.executed", proposal)
	s.logProposal("proposal executed", "proposal_executed", proposal)
	return proposal, nil
}

// CancelProposal is open to the proposer and admins while the proposal is
// active. Voter locks are released immediately.
func (s Service) CancelProposal(ctx context.Context, caller string, proposalID uint64) (entities.Proposal, error) {
	caller = strings.TrimSpace(caller)
	if caller == "" {
		return entities.Proposal{}, domainerrors.ErrInvalidPrincipal
	}
	proposal, err := s.Repo.GetProposal(ctx, proposalID)
	if err != nil {
		return entities.Proposal{}, err
	}
	if proposal.Status != entities.ProposalStatusActive {
		return entities.Proposal{}, domainerrors.ErrProposalNotActive
	}
	if caller != proposal.Proposer {
		isAdmin, err := s.Access.IsAdmin(ctx, caller)
		if err != nil {
			return entities.Proposal{}, err
		}
		if !isAdmin {
			return entities.Proposal{}, domainerrors.ErrNotAuthorized
		}
	}

	proposal.Status = entities.ProposalStatusCancelled
	if err := s.releaseVoteLocks(ctx, &proposal); err != nil {
		return entities.Proposal{}, err
	}
	if err := s.Repo.SaveProposal(ctx, proposal); err != nil {
		return entities.Proposal{}, err
	}
	s.appendProposalEvent(ctx, "governance.proposal.closed", proposal)
	s.logProposal("proposal cancelled", "proposal_cancelled", proposal)
	return proposal, nil
}

// CloseEndedProposals settles every active proposal past its end height to
// Passed or Failed and releases voter locks. Workers call this on a schedule.
func (s Service) CloseEndedProposals(ctx context.Context) (int, error) {
	height, err := s.Heights.CurrentHeight(ctx)
	if err != nil {
		return 0, err
	}
	ended, err := s.Repo.ListActivePastEnd(ctx, height)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, proposal := range ended {
		supply, err := s.Ledger.TotalSupply(ctx, proposal.PropertyID)
		if err != nil {
			return count, err
		}
		if proposal.TotalVotes >= supply*s.QuorumBps/10000 && proposal.YesVotes > proposal.NoVotes {
			proposal.Status = entities.ProposalStatusPassed
		} else {
			proposal.Status = entities.ProposalStatusFailed
		}
		if err := s.releaseVoteLocks(ctx, &proposal); err != nil {
			return count, err
		}
		if err := s.Repo.SaveProposal(ctx, proposal); err != nil {
			return count, err
		}
		s.appendProposalEvent(ctx, "governance.proposal.closed", proposal)
		count++
	}
	return count, nil
}

// DelegateVote records a delegation. Tallying never consults it; the record
// exists for off-platform coordination and transparency.
func (s Service) DelegateVote(ctx context.Context, caller string, propertyID uint64, delegate string) (entities.Delegation, error) {
	caller = strings.TrimSpace(caller)
	delegate = strings.TrimSpace(delegate)
	if caller == "" || delegate == "" || caller == delegate {
		return entities.Delegation{}, domainerrors.ErrInvalidPrincipal
	}
	height, err := s.Heights.CurrentHeight(ctx)
	if err != nil {
		return entities.Delegation{}, err
	}
	delegation := entities.Delegation{
		Delegator:       caller,
		PropertyID:      propertyID,
		Delegate:        delegate,
		DelegatedHeight: height,
	}
	if err := s.Repo.SaveDelegation(ctx, delegation); err != nil {
		return entities.Delegation{}, err
	}
	return delegation, nil
}

func (s Service) RevokeDelegation(ctx context.Context, caller string, propertyID uint64) error {
	caller = strings.TrimSpace(caller)
	if caller == "" {
		return domainerrors.ErrInvalidPrincipal
	}
	if _, found, err := s.Repo.GetDelegation(ctx, caller, propertyID); err != nil {
		return err
	} else if !found {
		return domainerrors.ErrNoDelegation
	}
	return s.Repo.DeleteDelegation(ctx, caller, propertyID)
}

func (s Service) GetDelegation(ctx context.Context, delegator string, propertyID uint64) (entities.Delegation, error) {
	delegation, found, err := s.Repo.GetDelegation(ctx, strings.TrimSpace(delegator), propertyID)
	if err != nil {
		return entities.Delegation{}, err
	}
	if !found {
		return entities.Delegation{}, domainerrors.ErrNoDelegation
	}
	return delegation, nil
}

func (s Service) GetProposal(ctx context.Context, proposalID uint64) (entities.Proposal, error) {
	return s.Repo.GetProposal(ctx, proposalID)
}

func (s Service) ProposalsByProperty(ctx context.Context, propertyID uint64) ([]entities.Proposal, error) {
	return s.Repo.ListProposalsByProperty(ctx, propertyID)
}

func (s Service) GetVote(ctx context.Context, proposalID uint64, voter string) (entities.Vote, bool, error) {
	return s.Repo.GetVote(ctx, proposalID, strings.TrimSpace(voter))
}

func (s Service) VotesByProposal(ctx context.Context, proposalID uint64) ([]entities.Vote, error) {
	return s.Repo.ListVotesByProposal(ctx, proposalID)
}

// releaseVoteLocks unlocks each voter's locked power exactly once per
// proposal, guarded by the SharesReleased flag.
func (s Service) releaseVoteLocks(ctx context.Context, proposal *entities.Proposal) error {
	if proposal.SharesReleased {
		return nil
	}
	votes, err := s.Repo.ListVotesByProposal(ctx, proposal.ID)
	if err != nil {
		return err
	}
	for _, vote := range votes {
		if err := s.Ledger.UnlockShares(ctx, proposal.PropertyID, vote.Voter, vote.VotingPower); err != nil {
			return err
		}
	}
	proposal.SharesReleased = true
	return nil
}

type proposalEventPayload struct {
	ProposalID   uint64 `json:"proposal_id"`
	PropertyID   uint64 `json:"property_id"`
	Proposer     string `json:"proposer"`
	Title        string `json:"title"`
	Status       string `json:"status"`
	YesVotes     uint64 `json:"yes_votes"`
	NoVotes      uint64 `json:"no_votes"`
	AbstainVotes uint64 `json:"abstain_votes"`
	TotalVotes   uint64 `json:"total_votes"`
	EndHeight    uint64 `json:"end_height"`
}

func (s Service) appendProposalEvent(ctx context.Context, eventType string, proposal entities.Proposal) {
	if s.Outbox == nil || s.IDGen == nil {
		return
	}
	logger := ResolveLogger(s.Logger)
	eventID, err := s.IDGen.NewID(ctx)
	if err != nil {
		logger.Error("outbox event id generation failed",
			"event", "outbox_append_failed",
			"module", "governance-core/governance-service",
			"layer", "application",
			"error", err,
		)
		return
	}
	envelope, err := events.New(eventID, eventType, "proposal", strconv.FormatUint(proposal.ID, 10), time.Now(), proposalEventPayload{
		ProposalID:   proposal.ID,
		PropertyID:   proposal.PropertyID,
		Proposer:     proposal.Proposer,
		Title:        proposal.Title,
		Status:       string(proposal.Status),
		YesVotes:     proposal.YesVotes,
		NoVotes:      proposal.NoVotes,
		AbstainVotes: proposal.AbstainVotes,
		TotalVotes:   proposal.TotalVotes,
		EndHeight:    proposal.EndHeight,
	})
	if err != nil {
		logger.Error("outbox payload marshal failed",
			"event", "outbox_append_failed",
			"module", "governance-core/governance-service",
			"layer", "application",
			"error", err,
		)
		return
	}
	envelope.SourceService = "governance-service"
	envelope.PartitionKey = strconv.FormatUint(proposal.PropertyID, 10)
	if err := s.Outbox.AppendOutbox(ctx, envelope); err != nil {
		logger.Error("outbox append failed",
			"event", "outbox_append_failed",
			"module", "governance-core/governance-service",
			"layer", "application",
			"proposal_id", proposal.ID,
			"error", err,
		)
	}
}

func (s Service) logProposal(msg string, event string, proposal entities.Proposal) {
	ResolveLogger(s.Logger).Info(msg,
		"event", event,
		"module", "governance-core/governance-service",
		"layer", "application",
		"proposal_id", proposal.ID,
		"property_id", proposal.PropertyID,
		"proposer", proposal.Proposer,
		"status", proposal.Status,
		"end_height", proposal.EndHeight,
	)
}
