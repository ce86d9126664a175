package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	goverrors "propshare/contexts/governance-core/governance-service/domain/errors"
	govhttp "propshare/contexts/governance-core/governance-service/transport/http"
)

func (s *Server) registerGovernanceRoutes() {
	s.mux.HandleFunc("POST /api/governance/v1/proposals", s.handleCreateProposal)
	s.mux.HandleFunc("GET /api/governance/v1/proposals/{proposal_id}", s.handleGetProposal)
	s.mux.HandleFunc("POST /api/governance/v1/proposals/{proposal_id}/votes", s.handleCastVote)
	s.mux.HandleFunc("GET /api/governance/v1/proposals/{proposal_id}/votes", s.handleVotesByProposal)
	s.mux.HandleFunc("POST /api/governance/v1/proposals/{proposal_id}/execute", s.handleExecuteProposal)
	s.mux.HandleFunc("POST /api/governance/v1/proposals/{proposal_id}/cancel", s.handleCancelProposal)
	s.mux.HandleFunc("GET /api/governance/v1/properties/{property_id}/proposals", s.handleProposalsByProperty)
	s.mux.HandleFunc("POST /api/governance/v1/delegations", s.handleDelegateVote)
	s.mux.HandleFunc("DELETE /api/governance/v1/delegations/{property_id}", s.handleRevokeDelegation)
	s.mux.HandleFunc("GET /api/governance/v1/delegations/{delegator}/{property_id}", s.handleGetDelegation)
}

func (s *Server) handleCreateProposal(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeGovernanceError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	var req govhttp.CreateProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGovernanceError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.governance.Handler.CreateProposalHandler(r.Context(), caller, req)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetProposal(w http.ResponseWriter, r *http.Request) {
	proposalID, ok := parsePathUint(r, "proposal_id")
	if !ok {
		writeGovernanceError(w, http.StatusBadRequest, "invalid_proposal_id", "proposal_id must be an integer")
		return
	}
	resp, err := s.governance.Handler.GetProposalHandler(r.Context(), proposalID)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeGovernanceError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	proposalID, ok := parsePathUint(r, "proposal_id")
	if !ok {
		writeGovernanceError(w, http.StatusBadRequest, "invalid_proposal_id", "proposal_id must be an integer")
		return
	}
	var req govhttp.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGovernanceError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.governance.Handler.CastVoteHandler(r.Context(), caller, proposalID, req)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleVotesByProposal(w http.ResponseWriter, r *http.Request) {
	proposalID, ok := parsePathUint(r, "proposal_id")
	if !ok {
		writeGovernanceError(w, http.StatusBadRequest, "invalid_proposal_id", "proposal_id must be an integer")
		return
	}
	resp, err := s.governance.Handler.VotesByProposalHandler(r.Context(), proposalID)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExecuteProposal(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeGovernanceError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	proposalID, ok := parsePathUint(r, "proposal_id")
	if !ok {
		writeGovernanceError(w, http.StatusBadRequest, "invalid_proposal_id", "proposal_id must be an integer")
		return
	}
	resp, err := s.governance.Handler.ExecuteProposalHandler(r.Context(), caller, proposalID)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCancelProposal(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeGovernanceError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	proposalID, ok := parsePathUint(r, "proposal_id")
	if !ok {
		writeGovernanceError(w, http.StatusBadRequest, "invalid_proposal_id", "proposal_id must be an integer")
		return
	}
	resp, err := s.governance.Handler.CancelProposalHandler(r.Context(), caller, proposalID)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProposalsByProperty(w http.ResponseWriter, r *http.Request) {
	propertyID, ok := parsePathUint(r, "property_id")
	if !ok {
		writeGovernanceError(w, http.StatusBadRequest, "invalid_property_id", "property_id must be an integer")
		return
	}
	resp, err := s.governance.Handler.ProposalsByPropertyHandler(r.Context(), propertyID)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDelegateVote(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeGovernanceError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	var req govhttp.DelegateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGovernanceError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.governance.Handler.DelegateHandler(r.Context(), caller, req)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleRevokeDelegation(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeGovernanceError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	propertyID, ok := parsePathUint(r, "property_id")
	if !ok {
		writeGovernanceError(w, http.StatusBadRequest, "invalid_property_id", "property_id must be an integer")
		return
	}
	if err := s.governance.Handler.RevokeDelegationHandler(r.Context(), caller, propertyID); err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleGetDelegation(w http.ResponseWriter, r *http.Request) {
	propertyID, ok := parsePathUint(r, "property_id")
	if !ok {
		writeGovernanceError(w, http.StatusBadRequest, "invalid_property_id", "property_id must be an integer")
		return
	}
	resp, err := s.governance.Handler.GetDelegationHandler(r.Context(), r.PathValue("delegator"), propertyID)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeGovernanceDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, goverrors.ErrProposalNotFound),
		errors.Is(err, goverrors.ErrNoDelegation):
		writeGovernanceError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, goverrors.ErrNotAuthorized):
		writeGovernanceError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, goverrors.ErrInvalidProposalInput),
		errors.Is(err, goverrors.ErrInvalidChoice),
		errors.Is(err, goverrors.ErrInvalidPrincipal),
		errors.Is(err, goverrors.ErrLedgerMismatch):
		writeGovernanceError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, goverrors.ErrProposalNotActive),
		errors.Is(err, goverrors.ErrVotingClosed),
		errors.Is(err, goverrors.ErrVotingStillOpen),
		errors.Is(err, goverrors.ErrAlreadyVoted),
		errors.Is(err, goverrors.ErrAlreadyExecuted):
		writeGovernanceError(w, http.StatusConflict, "invalid_state", err.Error())
	case errors.Is(err, goverrors.ErrBelowThreshold),
		errors.Is(err, goverrors.ErrNoVotingPower),
		errors.Is(err, goverrors.ErrQuorumNotMet),
		errors.Is(err, goverrors.ErrProposalRejected):
		writeGovernanceError(w, http.StatusUnprocessableEntity, "unprocessable", err.Error())
	default:
		writeGovernanceError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeGovernanceError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, govhttp.ErrorResponse{Code: code, Message: message})
}
