package errors

import "errors"

var (
	ErrInvalidPeriod        = errors.New("no deposit recorded for period")
	ErrInvalidPeriodInput   = errors.New("invalid period input")
	ErrAlreadyDeposited     = errors.New("deposit already exists for period")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrNothingToClaim       = errors.New("nothing to claim for period")
	ErrNotAuthorized        = errors.New("caller is not authorized")
	ErrFeeSumTooHigh        = errors.New("fee basis points exceed 10000")
	ErrFeesAlreadyWithdrawn = errors.New("fees already withdrawn for period")
	ErrInsufficientFunds    = errors.New("insufficient funds for deposit")
)
