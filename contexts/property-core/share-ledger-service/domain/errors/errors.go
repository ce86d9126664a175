package errors

import "errors"

var (
	ErrLedgerNotFound     = errors.New("share ledger not found")
	ErrAlreadyInitialized = errors.New("share ledger already initialized")
	ErrNotAuthorized      = errors.New("caller is not authorized")
	ErrNotLockAuthority   = errors.New("caller is not the locking authority")
	ErrInvalidPrincipal   = errors.New("invalid principal")
	ErrInvalidAmount      = errors.New("invalid share amount")
	ErrSelfTransfer       = errors.New("sender and recipient must differ")
	ErrNotWhitelisted     = errors.New("recipient is not whitelisted")
	ErrBelowMinimum       = errors.New("amount is below minimum investment")
	ErrSharesLocked       = errors.New("available balance is insufficient")
	ErrInsufficientLocked = errors.New("locked balance is insufficient")
)
