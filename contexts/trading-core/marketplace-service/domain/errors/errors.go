package errors

import "errors"

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderNotOpen      = errors.New("order is not open")
	ErrOrderExpired      = errors.New("order is expired")
	ErrWrongOrderType    = errors.New("operation does not match order type")
	ErrInvalidOrderInput = errors.New("invalid order input")
	ErrInvalidExpiration = errors.New("expiration must be above current height")
	ErrNotWhitelisted    = errors.New("trader is not whitelisted")
	ErrNotAuthorized     = errors.New("caller is not authorized")
	ErrFeeTooHigh        = errors.New("platform fee exceeds maximum")
	ErrInsufficientFunds = errors.New("insufficient funds for fill")
	ErrNothingToWithdraw = errors.New("no platform fees to withdraw")
)
