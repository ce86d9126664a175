package unit

import (
	"context"
	"errors"
	"testing"

	goverrors "propshare/contexts/governance-core/governance-service/domain/errors"
	govhttp "propshare/contexts/governance-core/governance-service/transport/http"
)

func createProposal(t *testing.T, p *platform, proposer string) govhttp.ProposalResponse {
	t.Helper()
	proposal, err := p.gov.Handler.CreateProposalHandler(context.Background(), proposer, govhttp.CreateProposalRequest{
		PropertyID: 1,
		Title:      "Repaint the lobby",
	})
	if err != nil {
		t.Fatalf("create proposal failed: %v", err)
	}
	return proposal
}

func TestCreateProposalRequiresThreshold(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()
	p.initLedger(t, 1, 1000)
	p.fundInvestor(t, 1, "minnow", 9)
	p.fundInvestor(t, 1, "whale", 100)

	// 100 bps of a 1000 supply means 10 shares to propose.
	_, err := p.gov.Handler.CreateProposalHandler(ctx, "minnow", govhttp.CreateProposalRequest{
		PropertyID: 1,
		Title:      "Repaint the lobby",
	})
	if !errors.Is(err, goverrors.ErrBelowThreshold) {
		t.Fatalf("expected ErrBelowThreshold, got %v", err)
	}

	proposal := createProposal(t, p, "whale")
	if proposal.Status != "active" {
		t.Fatalf("expected active proposal, got %s", proposal.Status)
	}
	if proposal.EndHeight != proposal.StartHeight+votingPeriodBlocks {
		t.Fatalf("unexpected voting window: start %d end %d", proposal.StartHeight, proposal.EndHeight)
	}
}

func TestCastVoteLocksBalance(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()
	p.initLedger(t, 1, 1000)
	p.fundInvestor(t, 1, "whale", 300)

	proposal := createProposal(t, p, "whale")

	vote, err := p.gov.Handler.CastVoteHandler(ctx, "whale", proposal.ProposalID, govhttp.CastVoteRequest{
		PropertyID: 1,
		Choice:     "yes",
	})
	if err != nil {
		t.Fatalf("cast vote failed: %v", err)
	}
	if vote.VotingPower != 300 {
		t.Fatalf("expected full balance as power, got %d", vote.VotingPower)
	}

	locked, err := p.ledger.Service.LockedOf(ctx, 1, "whale")
	if err != nil {
		t.Fatalf("locked lookup failed: %v", err)
	}
	if locked != 300 {
		t.Fatalf("expected 300 locked while voting, got %d", locked)
	}

	_, err = p.gov.Handler.CastVoteHandler(ctx, "whale", proposal.ProposalID, govhttp.CastVoteRequest{
		PropertyID: 1,
		Choice:     "no",
	})
	if !errors.Is(err, goverrors.ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted, got %v", err)
	}
	_, err = p.gov.Handler.CastVoteHandler(ctx, "whale", proposal.ProposalID, govhttp.CastVoteRequest{
		PropertyID: 2,
		Choice:     "yes",
	})
	if !errors.Is(err, goverrors.ErrLedgerMismatch) {
		t.Fatalf("expected ErrLedgerMismatch, got %v", err)
	}
	_, err = p.gov.Handler.CastVoteHandler(ctx, "nobody", proposal.ProposalID, govhttp.CastVoteRequest{
		PropertyID: 1,
		Choice:     "yes",
	})
	if !errors.Is(err, goverrors.ErrNoVotingPower) {
		t.Fatalf("expected ErrNoVotingPower, got %v", err)
	}
}

func TestExecuteProposalGates(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()
	p.initLedger(t, 1, 1000)
	p.fundInvestor(t, 1, "whale", 300)

	proposal := createProposal(t, p, "whale")
	if _, err := p.gov.Handler.CastVoteHandler(ctx, "whale", proposal.ProposalID, govhttp.CastVoteRequest{
		PropertyID: 1,
		Choice:     "yes",
	}); err != nil {
		t.Fatalf("cast vote failed: %v", err)
	}

	_, err := p.gov.Handler.ExecuteProposalHandler(ctx, "whale", proposal.ProposalID)
	if !errors.Is(err, goverrors.ErrVotingStillOpen) {
		t.Fatalf("expected ErrVotingStillOpen, got %v", err)
	}

	p.heights.Advance(votingPeriodBlocks)
	executed, err := p.gov.Handler.ExecuteProposalHandler(ctx, "whale", proposal.ProposalID)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if executed.Status != "executed" {
		t.Fatalf("expected executed proposal, got %s", executed.Status)
	}

	locked, err := p.ledger.Service.LockedOf(ctx, 1, "whale")
	if err != nil {
		t.Fatalf("locked lookup failed: %v", err)
	}
	if locked != 0 {
		t.Fatalf("expected locks released on execution, got %d", locked)
	}

	_, err = p.gov.Handler.ExecuteProposalHandler(ctx, "whale", proposal.ProposalID)
	if !errors.Is(err, goverrors.ErrAlreadyExecuted) {
		t.Fatalf("expected ErrAlreadyExecuted, got %v", err)
	}
}

func TestExecuteProposalQuorumAndMajority(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()
	p.initLedger(t, 1, 1000)
	p.fundInvestor(t, 1, "minnow", 100)
	p.fundInvestor(t, 1, "whale", 300)

	// Quorum at 2000 bps of 1000 supply needs 200 votes. A lone
	// 100-share voter falls short.
	proposal := createProposal(t, p, "whale")
	if _, err := p.gov.Handler.CastVoteHandler(ctx, "minnow", proposal.ProposalID, govhttp.CastVoteRequest{
		PropertyID: 1,
		Choice:     "yes",
	}); err != nil {
		t.Fatalf("cast vote failed: %v", err)
	}
	p.heights.Advance(votingPeriodBlocks)
	_, err := p.gov.Handler.ExecuteProposalHandler(ctx, "whale", proposal.ProposalID)
	if !errors.Is(err, goverrors.ErrQuorumNotMet) {
		t.Fatalf("expected ErrQuorumNotMet, got %v", err)
	}

	rejected := createProposal(t, p, "whale")
	if _, err := p.gov.Handler.CastVoteHandler(ctx, "whale", rejected.ProposalID, govhttp.CastVoteRequest{
		PropertyID: 1,
		Choice:     "no",
	}); err != nil {
		t.Fatalf("cast vote failed: %v", err)
	}
	p.heights.Advance(votingPeriodBlocks)
	_, err = p.gov.Handler.ExecuteProposalHandler(ctx, "whale", rejected.ProposalID)
	if !errors.Is(err, goverrors.ErrProposalRejected) {
		t.Fatalf("expected ErrProposalRejected, got %v", err)
	}
}

func TestProposalCloserSettlesEndedProposals(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()
	p.initLedger(t, 1, 1000)
	p.fundInvestor(t, 1, "whale", 300)

	proposal := createProposal(t, p, "whale")
	if _, err := p.gov.Handler.CastVoteHandler(ctx, "whale", proposal.ProposalID, govhttp.CastVoteRequest{
		PropertyID: 1,
		Choice:     "yes",
	}); err != nil {
		t.Fatalf("cast vote failed: %v", err)
	}

	p.heights.Advance(votingPeriodBlocks)
	if err := p.gov.Closer.RunOnce(ctx); err != nil {
		t.Fatalf("closer run failed: %v", err)
	}

	got, err := p.gov.Handler.GetProposalHandler(ctx, proposal.ProposalID)
	if err != nil {
		t.Fatalf("get proposal failed: %v", err)
	}
	if got.Status != "passed" {
		t.Fatalf("expected passed proposal, got %s", got.Status)
	}
	locked, err := p.ledger.Service.LockedOf(ctx, 1, "whale")
	if err != nil {
		t.Fatalf("locked lookup failed: %v", err)
	}
	if locked != 0 {
		t.Fatalf("expected locks released on close, got %d", locked)
	}
}

func TestCancelProposalRestrictedAndReleasesLocks(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()
	p.initLedger(t, 1, 1000)
	p.fundInvestor(t, 1, "whale", 300)

	proposal := createProposal(t, p, "whale")
	if _, err := p.gov.Handler.CastVoteHandler(ctx, "whale", proposal.ProposalID, govhttp.CastVoteRequest{
		PropertyID: 1,
		Choice:     "yes",
	}); err != nil {
		t.Fatalf("cast vote failed: %v", err)
	}

	_, err := p.gov.Handler.CancelProposalHandler(ctx, "mallory", proposal.ProposalID)
	if !errors.Is(err, goverrors.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}

	cancelled, err := p.gov.Handler.CancelProposalHandler(ctx, "whale", proposal.ProposalID)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != "cancelled" {
		t.Fatalf("expected cancelled proposal, got %s", cancelled.Status)
	}
	locked, err := p.ledger.Service.LockedOf(ctx, 1, "whale")
	if err != nil {
		t.Fatalf("locked lookup failed: %v", err)
	}
	if locked != 0 {
		t.Fatalf("expected locks released on cancel, got %d", locked)
	}
}

func TestDelegationLifecycle(t *testing.T) {
	p := newPlatform(t)
	ctx := context.Background()

	_, err := p.gov.Handler.DelegateHandler(ctx, "alice", govhttp.DelegateRequest{
		PropertyID: 1,
		Delegate:   "alice",
	})
	if !errors.Is(err, goverrors.ErrInvalidPrincipal) {
		t.Fatalf("expected ErrInvalidPrincipal for self-delegation, got %v", err)
	}

	delegation, err := p.gov.Handler.DelegateHandler(ctx, "alice", govhttp.DelegateRequest{
		PropertyID: 1,
		Delegate:   "bob",
	})
	if err != nil {
		t.Fatalf("delegate failed: %v", err)
	}
	if delegation.Delegate != "bob" {
		t.Fatalf("expected delegate bob, got %s", delegation.Delegate)
	}

	got, err := p.gov.Handler.GetDelegationHandler(ctx, "alice", 1)
	if err != nil {
		t.Fatalf("get delegation failed: %v", err)
	}
	if got.Delegate != "bob" {
		t.Fatalf("expected stored delegate bob, got %s", got.Delegate)
	}

	if err := p.gov.Handler.RevokeDelegationHandler(ctx, "alice", 1); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	err = p.gov.Handler.RevokeDelegationHandler(ctx, "alice", 1)
	if !errors.Is(err, goverrors.ErrNoDelegation) {
		t.Fatalf("expected ErrNoDelegation on second revoke, got %v", err)
	}
}
