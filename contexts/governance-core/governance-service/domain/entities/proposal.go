package entities

type ProposalStatus string

const (
	ProposalStatusActive    ProposalStatus = "active"
	ProposalStatusPassed    ProposalStatus = "passed"
	ProposalStatusFailed    ProposalStatus = "failed"
	ProposalStatusExecuted  ProposalStatus = "executed"
	ProposalStatusCancelled ProposalStatus = "cancelled"
)

type VoteChoice string

const (
	VoteChoiceYes     VoteChoice = "yes"
	VoteChoiceNo      VoteChoice = "no"
	VoteChoiceAbstain VoteChoice = "abstain"
)

func (c VoteChoice) Valid() bool {
	switch c {
	case VoteChoiceYes, VoteChoiceNo, VoteChoiceAbstain:
		return true
	default:
		return false
	}
}

// Proposal tallies are denominated in shares. SharesReleased guards the
// one-time unlock of voter shares on the first terminal transition.
type Proposal struct {
	ID               uint64
	PropertyID       uint64
	Proposer         string
	Title            string
	Description      string
	StartHeight      uint64
	EndHeight        uint64
	Status           ProposalStatus
	YesVotes         uint64
	NoVotes          uint64
	AbstainVotes     uint64
	TotalVotes       uint64
	ExecutionPayload string
	SharesReleased   bool
}

// Terminal reports whether the proposal can transition no further.
func (p Proposal) Terminal() bool {
	switch p.Status {
	case ProposalStatusExecuted, ProposalStatusCancelled, ProposalStatusFailed:
		return true
	default:
		return false
	}
}

// Vote is keyed by (proposal, voter); key presence is the double-vote guard.
type Vote struct {
	ProposalID  uint64
	Voter       string
	Choice      VoteChoice
	VotingPower uint64
	VoteHeight  uint64
}

// Delegation is recorded for transparency; tallying always uses the caller's
// own balance.
type Delegation struct {
	Delegator       string
	PropertyID      uint64
	Delegate        string
	DelegatedHeight uint64
}
