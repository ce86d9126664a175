package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	escrowerrors "propshare/contexts/trading-core/escrow-service/domain/errors"
	escrowhttp "propshare/contexts/trading-core/escrow-service/transport/http"
)

func (s *Server) registerEscrowRoutes() {
	s.mux.HandleFunc("POST /api/escrow/v1/escrows/share-purchase", s.handleInitiateSharePurchase)
	s.mux.HandleFunc("POST /api/escrow/v1/escrows/property-sale", s.handleInitiatePropertySale)
	s.mux.HandleFunc("POST /api/escrow/v1/escrows/{escrow_id}/fund-shares", s.handleFundEscrowShares)
	s.mux.HandleFunc("POST /api/escrow/v1/escrows/{escrow_id}/verify", s.handleVerifyEscrow)
	s.mux.HandleFunc("POST /api/escrow/v1/escrows/{escrow_id}/release", s.handleReleaseFunds)
	s.mux.HandleFunc("POST /api/escrow/v1/escrows/{escrow_id}/refund", s.handleRefundBuyer)
	s.mux.HandleFunc("POST /api/escrow/v1/escrows/{escrow_id}/dispute", s.handleDisputeEscrow)
	s.mux.HandleFunc("POST /api/escrow/v1/escrows/{escrow_id}/resolve", s.handleResolveDispute)
	s.mux.HandleFunc("POST /api/escrow/v1/escrows/{escrow_id}/cancel-expired", s.handleCancelExpiredEscrow)
	s.mux.HandleFunc("GET /api/escrow/v1/escrows/{escrow_id}", s.handleGetEscrow)
	s.mux.HandleFunc("GET /api/escrow/v1/properties/{property_id}/escrows", s.handleEscrowsByProperty)
}

func (s *Server) handleInitiateSharePurchase(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeEscrowError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	var req escrowhttp.SharePurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEscrowError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.escrow.Handler.InitiateSharePurchaseHandler(r.Context(), caller, req)
	if err != nil {
		writeEscrowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleInitiatePropertySale(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeEscrowError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	var req escrowhttp.PropertySaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEscrowError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.escrow.Handler.InitiatePropertySaleHandler(r.Context(), caller, req)
	if err != nil {
		writeEscrowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleFundEscrowShares(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeEscrowError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	escrowID, ok := parsePathUint(r, "escrow_id")
	if !ok {
		writeEscrowError(w, http.StatusBadRequest, "invalid_escrow_id", "escrow_id must be an integer")
		return
	}
	if err := s.escrow.Handler.FundSharesHandler(r.Context(), caller, escrowID); err != nil {
		writeEscrowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleVerifyEscrow(w http.ResponseWriter, r *http.Request) {
	s.handleEscrowAction(w, r, s.escrow.Handler.VerifyHandler)
}

func (s *Server) handleReleaseFunds(w http.ResponseWriter, r *http.Request) {
	s.handleEscrowAction(w, r, s.escrow.Handler.ReleaseFundsHandler)
}

func (s *Server) handleRefundBuyer(w http.ResponseWriter, r *http.Request) {
	s.handleEscrowAction(w, r, s.escrow.Handler.RefundBuyerHandler)
}

func (s *Server) handleEscrowAction(
	w http.ResponseWriter,
	r *http.Request,
	action func(ctx context.Context, caller string, escrowID uint64) (escrowhttp.EscrowResponse, error),
) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeEscrowError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	escrowID, ok := parsePathUint(r, "escrow_id")
	if !ok {
		writeEscrowError(w, http.StatusBadRequest, "invalid_escrow_id", "escrow_id must be an integer")
		return
	}
	resp, err := action(r.Context(), caller, escrowID)
	if err != nil {
		writeEscrowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDisputeEscrow(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeEscrowError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	escrowID, ok := parsePathUint(r, "escrow_id")
	if !ok {
		writeEscrowError(w, http.StatusBadRequest, "invalid_escrow_id", "escrow_id must be an integer")
		return
	}
	var req escrowhttp.DisputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEscrowError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.escrow.Handler.DisputeHandler(r.Context(), caller, escrowID, req)
	if err != nil {
		writeEscrowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResolveDispute(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeEscrowError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	escrowID, ok := parsePathUint(r, "escrow_id")
	if !ok {
		writeEscrowError(w, http.StatusBadRequest, "invalid_escrow_id", "escrow_id must be an integer")
		return
	}
	var req escrowhttp.ResolveDisputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEscrowError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.escrow.Handler.ResolveDisputeHandler(r.Context(), caller, escrowID, req)
	if err != nil {
		writeEscrowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCancelExpiredEscrow(w http.ResponseWriter, r *http.Request) {
	escrowID, ok := parsePathUint(r, "escrow_id")
	if !ok {
		writeEscrowError(w, http.StatusBadRequest, "invalid_escrow_id", "escrow_id must be an integer")
		return
	}
	resp, err := s.escrow.Handler.CancelExpiredHandler(r.Context(), escrowID)
	if err != nil {
		writeEscrowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetEscrow(w http.ResponseWriter, r *http.Request) {
	escrowID, ok := parsePathUint(r, "escrow_id")
	if !ok {
		writeEscrowError(w, http.StatusBadRequest, "invalid_escrow_id", "escrow_id must be an integer")
		return
	}
	resp, err := s.escrow.Handler.GetEscrowHandler(r.Context(), escrowID)
	if err != nil {
		writeEscrowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEscrowsByProperty(w http.ResponseWriter, r *http.Request) {
	propertyID, ok := parsePathUint(r, "property_id")
	if !ok {
		writeEscrowError(w, http.StatusBadRequest, "invalid_property_id", "property_id must be an integer")
		return
	}
	resp, err := s.escrow.Handler.EscrowsByPropertyHandler(r.Context(), propertyID)
	if err != nil {
		writeEscrowDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeEscrowDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, escrowerrors.ErrEscrowNotFound):
		writeEscrowError(w, http.StatusNotFound, "escrow_not_found", err.Error())
	case errors.Is(err, escrowerrors.ErrNotAuthorized),
		errors.Is(err, escrowerrors.ErrNotArbiter):
		writeEscrowError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, escrowerrors.ErrInvalidEscrowInput),
		errors.Is(err, escrowerrors.ErrInvalidExpiration):
		writeEscrowError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, escrowerrors.ErrEscrowExpired),
		errors.Is(err, escrowerrors.ErrEscrowNotExpired),
		errors.Is(err, escrowerrors.ErrInvalidTransition),
		errors.Is(err, escrowerrors.ErrSharesAlreadyFunded),
		errors.Is(err, escrowerrors.ErrWrongEscrowType):
		writeEscrowError(w, http.StatusConflict, "invalid_state", err.Error())
	case errors.Is(err, escrowerrors.ErrSharesNotFunded),
		errors.Is(err, escrowerrors.ErrNoSellerRecorded),
		errors.Is(err, escrowerrors.ErrInsufficientFunds):
		writeEscrowError(w, http.StatusUnprocessableEntity, "unprocessable", err.Error())
	default:
		writeEscrowError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeEscrowError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, escrowhttp.ErrorResponse{Code: code, Message: message})
}
