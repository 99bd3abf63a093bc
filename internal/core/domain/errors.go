package domain

import "errors"

// Common domain errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInternalServer = errors.New("internal server error")
)

// Catalog errors
var (
	ErrBookNotFound  = errors.New("book not found")
	ErrDuplicateCode = errors.New("isbn already exists")
)

// Ledger errors
var (
	ErrLoanNotFound      = errors.New("loan not found")
	ErrBookUnavailable   = errors.New("book is not available")
	ErrInvalidLoan       = errors.New("loan is closed or does not exist")
	ErrTransientConflict = errors.New("transient conflict, command may be retried")
)

// Identity errors
var (
	ErrBorrowerNotFound   = errors.New("borrower not found")
	ErrDuplicateContact   = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrTokenRevoked       = errors.New("token revoked")
)
