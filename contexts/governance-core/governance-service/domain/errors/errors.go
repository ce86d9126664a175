package errors

import "errors"

var (
	ErrProposalNotFound     = errors.New("proposal not found")
	ErrInvalidProposalInput = errors.New("invalid proposal input")
	ErrBelowThreshold       = errors.New("proposer shares below creation threshold")
	ErrProposalNotActive    = errors.New("proposal is not active")
	ErrVotingClosed         = errors.New("voting period has ended")
	ErrVotingStillOpen      = errors.New("voting period has not ended")
	ErrAlreadyVoted         = errors.New("voter has already voted on proposal")
	ErrInvalidChoice        = errors.New("invalid vote choice")
	ErrNoVotingPower        = errors.New("voter holds no shares")
	ErrLedgerMismatch       = errors.New("property does not match proposal ledger")
	ErrQuorumNotMet         = errors.New("participation below quorum")
	ErrProposalRejected     = errors.New("yes votes do not exceed no votes")
	ErrAlreadyExecuted      = errors.New("proposal already executed")
	ErrNotAuthorized        = errors.New("caller is not authorized")
	ErrNoDelegation         = errors.New("no delegation recorded")
	ErrInvalidPrincipal     = errors.New("principal must not be empty")
)
