package errors

import "errors"

var (
	ErrEscrowNotFound      = errors.New("escrow not found")
	ErrInvalidEscrowInput  = errors.New("invalid escrow input")
	ErrInvalidExpiration   = errors.New("expiration must be above current height")
	ErrEscrowExpired       = errors.New("escrow is expired")
	ErrEscrowNotExpired    = errors.New("escrow has not expired yet")
	ErrInvalidTransition   = errors.New("invalid escrow state transition")
	ErrNotAuthorized       = errors.New("caller is not authorized")
	ErrNotArbiter          = errors.New("assigned principal lacks the arbiter role")
	ErrSharesNotFunded     = errors.New("escrowed shares have not been funded")
	ErrSharesAlreadyFunded = errors.New("escrowed shares are already funded")
	ErrWrongEscrowType     = errors.New("operation does not match escrow type")
	ErrNoSellerRecorded    = errors.New("no seller recorded on escrow")
	ErrInsufficientFunds   = errors.New("insufficient funds for deposit")
)
