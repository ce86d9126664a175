package httpadapter

import (
	"context"
	"log/slog"

	"propshare/contexts/governance-core/governance-service/application"
	"propshare/contexts/governance-core/governance-service/domain/entities"
	httptransport "propshare/contexts/governance-core/governance-service/transport/http"
)

type Handler struct {
	Governance application.Service
	Logger     *slog.Logger
}

func (h Handler) CreateProposalHandler(ctx context.Context, caller string, req httptransport.CreateProposalRequest) (httptransport.ProposalResponse, error) {
	proposal, err := h.Governance.CreateProposal(ctx, caller, application.CreateProposalInput{
		PropertyID:       req.PropertyID,
		Title:            req.Title,
		Description:      req.Description,
		ExecutionPayload: req.ExecutionPayload,
	})
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	return toProposalResponse(proposal), nil
}

func (h Handler) CastVoteHandler(ctx context.Context, caller string, proposalID uint64, req httptransport.CastVoteRequest) (httptransport.VoteResponse, error) {
	vote, err := h.Governance.CastVote(ctx, caller, proposalID, req.PropertyID, entities.VoteChoice(req.Choice))
	if err != nil {
		return httptransport.VoteResponse{}, err
	}
	return toVoteResponse(vote), nil
}

func (h Handler) ExecuteProposalHandler(ctx context.Context, caller string, proposalID uint64) (httptransport.ProposalResponse, error) {
	proposal, err := h.Governance.ExecuteProposal(ctx, caller, proposalID)
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	return toProposalResponse(proposal), nil
}

func (h Handler) CancelProposalHandler(ctx context.Context, caller string, proposalID uint64) (httptransport.ProposalResponse, error) {
	proposal, err := h.Governance.CancelProposal(ctx, caller, proposalID)
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	return toProposalResponse(proposal), nil
}

func (h Handler) GetProposalHandler(ctx context.Context, proposalID uint64) (httptransport.ProposalResponse, error) {
	proposal, err := h.Governance.GetProposal(ctx, proposalID)
	if err != nil {
		return httptransport.ProposalResponse{}, err
	}
	return toProposalResponse(proposal), nil
}

func (h Handler) ProposalsByPropertyHandler(ctx context.Context, propertyID uint64) (httptransport.ProposalsResponse, error) {
	proposals, err := h.Governance.ProposalsByProperty(ctx, propertyID)
	if err != nil {
		return httptransport.ProposalsResponse{}, err
	}
	items := make([]httptransport.ProposalResponse, 0, len(proposals))
	for _, proposal := range proposals {
		items = append(items, toProposalResponse(proposal))
	}
	return httptransport.ProposalsResponse{PropertyID: propertyID, Proposals: items}, nil
}

func (h Handler) VotesByProposalHandler(ctx context.Context, proposalID uint64) (httptransport.VotesResponse, error) {
	votes, err := h.Governance.VotesByProposal(ctx, proposalID)
	if err != nil {
		return httptransport.VotesResponse{}, err
	}
	items := make([]httptransport.VoteResponse, 0, len(votes))
	for _, vote := range votes {
		items = append(items, toVoteResponse(vote))
	}
	return httptransport.VotesResponse{ProposalID: proposalID, Votes: items}, nil
}

func (h Handler) DelegateHandler(ctx context.Context, caller string, req httptransport.DelegateRequest) (httptransport.DelegationResponse, error) {
	delegation, err := h.Governance.DelegateVote(ctx, caller, req.PropertyID, req.Delegate)
	if err != nil {
		return httptransport.DelegationResponse{}, err
	}
	return toDelegationResponse(delegation), nil
}

func (h Handler) RevokeDelegationHandler(ctx context.Context, caller string, propertyID uint64) error {
	return h.Governance.RevokeDelegation(ctx, caller, propertyID)
}

func (h Handler) GetDelegationHandler(ctx context.Context, delegator string, propertyID uint64) (httptransport.DelegationResponse, error) {
	delegation, err := h.Governance.GetDelegation(ctx, delegator, propertyID)
	if err != nil {
		return httptransport.DelegationResponse{}, err
	}
	return toDelegationResponse(delegation), nil
}

func toProposalResponse(proposal entities.Proposal) httptransport.ProposalResponse {
	return httptransport.ProposalResponse{
		ProposalID:       proposal.ID,
		PropertyID:       proposal.PropertyID,
		Proposer:         proposal.Proposer,
		Title:            proposal.Title,
		Description:      proposal.Description,
		StartHeight:      proposal.StartHeight,
		EndHeight:        proposal.EndHeight,
		Status:           string(proposal.Status),
		YesVotes:         proposal.YesVotes,
		NoVotes:          proposal.NoVotes,
		AbstainVotes:     proposal.AbstainVotes,
		TotalVotes:       proposal.TotalVotes,
		ExecutionPayload: proposal.ExecutionPayload,
	}
}

func toVoteResponse(vote entities.Vote) httptransport.VoteResponse {
	return httptransport.VoteResponse{
		ProposalID:  vote.ProposalID,
		Voter:       vote.Voter,
		Choice:      string(vote.Choice),
		VotingPower: vote.VotingPower,
		VoteHeight:  vote.VoteHeight,
	}
}

func toDelegationResponse(delegation entities.Delegation) httptransport.DelegationResponse {
	return httptransport.DelegationResponse{
		Delegator:       delegation.Delegator,
		PropertyID:      delegation.PropertyID,
		Delegate:        delegation.Delegate,
		DelegatedHeight: delegation.DelegatedHeight,
	}
}
