package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateProposalRequest struct {
	PropertyID       uint64 `json:"property_id"`
	Title            string `json:"title"`
	Description      string `json:"description,omitempty"`
	ExecutionPayload string `json:"execution_payload,omitempty"`
}

type ProposalResponse struct {
	ProposalID       uint64 `json:"proposal_id"`
	PropertyID       uint64 `json:"property_id"`
	Proposer         string `json:"proposer"`
	Title            string `json:"title"`
	Description      string `json:"description,omitempty"`
	StartHeight      uint64 `json:"start_height"`
	EndHeight        uint64 `json:"end_height"`
	Status           string `json:"status"`
	YesVotes         uint64 `json:"yes_votes"`
	NoVotes          uint64 `json:"no_votes"`
	AbstainVotes     uint64 `json:"abstain_votes"`
	TotalVotes       uint64 `json:"total_votes"`
	ExecutionPayload string `json:"execution_payload,omitempty"`
}

type ProposalsResponse struct {
	PropertyID uint64             `json:"property_id"`
	Proposals  []ProposalResponse `json:"proposals"`
}

type CastVoteRequest struct {
	PropertyID uint64 `json:"property_id"`
	Choice     string `json:"choice"`
}

type VoteResponse struct {
	ProposalID  uint64 `json:"proposal_id"`
	Voter       string `json:"voter"`
	Choice      string `json:"choice"`
	VotingPower uint64 `json:"voting_power"`
	VoteHeight  uint64 `json:"vote_height"`
}

type VotesResponse struct {
	ProposalID uint64         `json:"proposal_id"`
	Votes      []VoteResponse `json:"votes"`
}

type DelegateRequest struct {
	PropertyID uint64 `json:"property_id"`
	Delegate   string `json:"delegate"`
}

type DelegationResponse struct {
	Delegator       string `json:"delegator"`
	PropertyID      uint64 `json:"property_id"`
	Delegate        string `json:"delegate"`
	DelegatedHeight uint64 `json:"delegated_height"`
}
