package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	rentalerrors "propshare/contexts/finance-core/rental-distribution-service/domain/errors"
	rentalhttp "propshare/contexts/finance-core/rental-distribution-service/transport/http"
)

func (s *Server) registerRentalRoutes() {
	s.mux.HandleFunc("POST /api/rental/v1/deposits", s.handleDepositRentalIncome)
	s.mux.HandleFunc("POST /api/rental/v1/claims", s.handleClaimRentalIncome)
	s.mux.HandleFunc("GET /api/rental/v1/properties/{property_id}/deposits", s.handleListDeposits)
	s.mux.HandleFunc("GET /api/rental/v1/properties/{property_id}/deposits/{year}/{month}", s.handleGetDeposit)
	s.mux.HandleFunc("POST /api/rental/v1/fees", s.handleSetFeeStructure)
	s.mux.HandleFunc("GET /api/rental/v1/fees", s.handleFeeStructure)
	s.mux.HandleFunc("POST /api/rental/v1/fees/withdraw", s.handleWithdrawRentalFees)
}

func (s *Server) handleDepositRentalIncome(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeRentalError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	var req rentalhttp.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRentalError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.distribution.Handler.DepositHandler(r.Context(), caller, req)
	if err != nil {
		writeRentalDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleClaimRentalIncome(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeRentalError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	var req rentalhttp.ClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRentalError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.distribution.Handler.ClaimHandler(r.Context(), caller, req)
	if err != nil {
		writeRentalDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListDeposits(w http.ResponseWriter, r *http.Request) {
	propertyID, ok := parsePathUint(r, "property_id")
	if !ok {
		writeRentalError(w, http.StatusBadRequest, "invalid_property_id", "property_id must be an integer")
		return
	}
	resp, err := s.distribution.Handler.DepositsHandler(r.Context(), propertyID)
	if err != nil {
		writeRentalDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetDeposit(w http.ResponseWriter, r *http.Request) {
	propertyID, ok := parsePathUint(r, "property_id")
	if !ok {
		writeRentalError(w, http.StatusBadRequest, "invalid_property_id", "property_id must be an integer")
		return
	}
	year, ok := parsePathUint32(r, "year")
	if !ok {
		writeRentalError(w, http.StatusBadRequest, "invalid_year", "year must be an integer")
		return
	}
	month, ok := parsePathUint32(r, "month")
	if !ok {
		writeRentalError(w, http.StatusBadRequest, "invalid_month", "month must be an integer")
		return
	}
	resp, err := s.distribution.Handler.GetDepositHandler(r.Context(), propertyID, year, month)
	if err != nil {
		writeRentalDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetFeeStructure(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeRentalError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	var req rentalhttp.FeeStructureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRentalError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.distribution.Handler.SetFeeStructureHandler(r.Context(), caller, req); err != nil {
		writeRentalDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleFeeStructure(w http.ResponseWriter, r *http.Request) {
	resp, err := s.distribution.Handler.FeeStructureHandler(r.Context())
	if err != nil {
		writeRentalDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWithdrawRentalFees(w http.ResponseWriter, r *http.Request) {
	caller := resolvePrincipal(r)
	if caller == "" {
		writeRentalError(w, http.StatusUnauthorized, "missing_principal", "X-Principal header is required")
		return
	}
	var req rentalhttp.WithdrawFeesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRentalError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.distribution.Handler.WithdrawFeesHandler(r.Context(), caller, req)
	if err != nil {
		writeRentalDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeRentalDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, rentalerrors.ErrInvalidPeriod):
		writeRentalError(w, http.StatusNotFound, "period_not_found", err.Error())
	case errors.Is(err, rentalerrors.ErrNotAuthorized):
		writeRentalError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, rentalerrors.ErrInvalidPeriodInput),
		errors.Is(err, rentalerrors.ErrInvalidAmount),
		errors.Is(err, rentalerrors.ErrFeeSumTooHigh):
		writeRentalError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, rentalerrors.ErrAlreadyDeposited),
		errors.Is(err, rentalerrors.ErrFeesAlreadyWithdrawn):
		writeRentalError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, rentalerrors.ErrNothingToClaim),
		errors.Is(err, rentalerrors.ErrInsufficientFunds):
		writeRentalError(w, http.StatusUnprocessableEntity, "unprocessable", err.Error())
	default:
		writeRentalError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeRentalError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, rentalhttp.ErrorResponse{Code: code, Message: message})
}
