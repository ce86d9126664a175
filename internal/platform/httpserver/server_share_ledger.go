package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	ledgererrors "propshare/contexts/property-core/share-ledger-service/domain/errors"
	ledgerhttp "propshare/contexts/property-core/share-ledger-service/transport/http"
)

func (s *Server) registerShareLedgerRoutes() {
	s.mux.HandleFunc("POST /api/ledger/v1/ledgers", s.handleInitializeLedger)
	s.mux.HandleFunc("GET /api/ledger/v1/ledgers/{property_id}", s.handleGetLedger)
	s.mux.HandleFunc("POST /api/ledger/v1/ledgers/{property_id}/transfer", s.handleTransferShares)
	s.mux.HandleFunc("POST /api/ledger/v1/ledgers/{property_id}/whitelist", s.handleAddToWhitelist)
	s.mux.HandleFunc("DELETE /api/ledger/v1/ledgers/{property_id}/whitelist", s.handleRemoveFromWhitelist)
	s.mux.HandleFunc("POST /api/ledger/v1/ledgers/{property_id}/burn", s.handleBurnShares)
	s.mux.HandleFunc("POST /api/ledger/v1/ledgers/{property_id}/min-investment", s.handleSetMinInvestment)
	s.mux.HandleFunc("GET /api/ledger/v1/ledgers/{property_id}/holders", s.handleHolders)
	s.mux.HandleFunc("GET /api/ledger/v1/ledgers/{property_id}/holdings/{principal}", s.handleGetHolding)
}

func (s *Server) handleInitializeLedger(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	var req ledgerhttp.InitializeLedgerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.ledger.Handler.InitializeHandler(r.Context(), caller, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetLedger(w http.ResponseWriter, r *http.Request) {
	propertyID, ok := parsePathUint(r, "property_id")
	if !ok {
		writeLedgerError(w, http.StatusBadRequest, "invalid_property_id", "property_id must be an integer")
		return
	}
	resp, err := s.ledger.Handler.GetLedgerHandler(r.Context(), propertyID)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTransferShares(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	propertyID, ok := parsePathUint(r, "property_id")
	if !ok {
		writeLedgerError(w, http.StatusBadRequest, "invalid_property_id", "property_id must be an integer")
		return
	}
	var req ledgerhttp.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.ledger.Handler.TransferHandler(r.Context(), caller, propertyID, req); err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleAddToWhitelist(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	propertyID, ok := parsePathUint(r, "property_id")
	if !ok {
		writeLedgerError(w, http.StatusBadRequest, "invalid_property_id", "property_id must be an integer")
		return
	}
	var req ledgerhttp.WhitelistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.ledger.Handler.AddToWhitelistHandler(r.Context(), caller, propertyID, req); err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleRemoveFromWhitelist(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	propertyID, ok := parsePathUint(r, "property_id")
	if !ok {
		writeLedgerError(w, http.StatusBadRequest, "invalid_property_id", "property_id must be an integer")
		return
	}
	var req ledgerhttp.WhitelistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.ledger.Handler.RemoveFromWhitelistHandler(r.Context(), caller, propertyID, req); err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleBurnShares(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	propertyID, ok := parsePathUint(r, "property_id")
	if !ok {
		writeLedgerError(w, http.StatusBadRequest, "invalid_property_id", "property_id must be an integer")
		return
	}
	var req ledgerhttp.BurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.ledger.Handler.BurnHandler(r.Context(), caller, propertyID, req); err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleSetMinInvestment(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	propertyID, ok := parsePathUint(r, "property_id")
	if !ok {
		writeLedgerError(w, http.StatusBadRequest, "invalid_property_id", "property_id must be an integer")
		return
	}
	var req ledgerhttp.MinInvestmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.ledger.Handler.SetMinInvestmentHandler(r.Context(), caller, propertyID, req); err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleHolders(w http.ResponseWriter, r *http.Request) {
	propertyID, ok := parsePathUint(r, "property_id")
	if !ok {
		writeLedgerError(w, http.StatusBadRequest, "invalid_property_id", "property_id must be an integer")
		return
	}
	resp, err := s.ledger.Handler.HoldersHandler(r.Context(), propertyID)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetHolding(w http.ResponseWriter, r *http.Request) {
	propertyID, ok := parsePathUint(r, "property_id")
	if !ok {
		writeLedgerError(w, http.StatusBadRequest, "invalid_property_id", "property_id must be an integer")
		return
	}
	resp, err := s.ledger.Handler.GetHoldingHandler(r.Context(), propertyID, r.PathValue("principal"))
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeLedgerDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledgererrors.ErrLedgerNotFound):
		writeLedgerError(w, http.StatusNotFound, "ledger_not_found", err.Error())
	case errors.Is(err, ledgererrors.ErrAlreadyInitialized):
		writeLedgerError(w, http.StatusConflict, "already_initialized", err.Error())
	case errors.Is(err, ledgererrors.ErrNotAuthorized),
		errors.Is(err, ledgererrors.ErrNotLockAuthority):
		writeLedgerError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, ledgererrors.ErrInvalidPrincipal),
		errors.Is(err, ledgererrors.ErrInvalidAmount),
		errors.Is(err, ledgererrors.ErrSelfTransfer):
		writeLedgerError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, ledgererrors.ErrNotWhitelisted):
		writeLedgerError(w, http.StatusForbidden, "not_whitelisted", err.Error())
	case errors.Is(err, ledgererrors.ErrBelowMinimum):
		writeLedgerError(w, http.StatusUnprocessableEntity, "below_minimum", err.Error())
	case errors.Is(err, ledgererrors.ErrSharesLocked),
		errors.Is(err, ledgererrors.ErrInsufficientLocked):
		writeLedgerError(w, http.StatusConflict, "shares_locked", err.Error())
	default:
		writeLedgerError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeLedgerError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, ledgerhttp.ErrorResponse{Code: code, Message: message})
}
