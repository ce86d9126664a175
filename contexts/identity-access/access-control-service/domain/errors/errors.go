package errors

import "errors"

var (
	ErrNotAuthorized       = errors.New("caller is not authorized")
	ErrInvalidPrincipal    = errors.New("invalid principal")
	ErrUnknownRole         = errors.New("unknown role")
	ErrAlreadyHasRole      = errors.New("principal already holds role")
	ErrDoesNotHaveRole     = errors.New("principal does not hold role")
	ErrOwnerAdminProtected = errors.New("owner admin role cannot be removed")
	ErrNotOwner            = errors.New("caller is not the contract owner")
)
