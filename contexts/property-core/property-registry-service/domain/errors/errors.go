package errors

import "errors"

var (
	ErrPropertyNotFound    = errors.New("property not found")
	ErrInvalidPropertyData = errors.New("invalid property data")
	ErrInvalidStatus       = errors.New("invalid property status")
	ErrNotAuthorized       = errors.New("caller is not authorized")
	ErrLedgerAlreadyLinked = errors.New("share ledger already linked")
)
