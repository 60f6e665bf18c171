package common

import "errors"

// Ledger error taxonomy. Every error here is local to the failing operation
// and leaves the store untouched, except ErrStorageUnavailable which is
// fatal to the current operation.
var (
	// Validation errors: defective user input, reported verbatim.
	ErrInvalidContact             = errors.New("contact number must be exactly 10 digits")
	ErrInvalidEmail               = errors.New("invalid email format")
	ErrWeakPassword               = errors.New("password must contain at least 8 characters, including uppercase, lowercase, a number, and a special character")
	ErrInsufficientInitialBalance = errors.New("initial balance must be at least 2000")
	ErrInvalidAmount              = errors.New("amount must be greater than zero")

	// Conflict: recoverable by regenerating the account number and retrying.
	ErrDuplicateAccountNumber = errors.New("account number already exists")

	ErrAccountNotFound      = errors.New("account not found")
	ErrAuthenticationFailed = errors.New("invalid account number or password")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrSameAccountTransfer  = errors.New("cannot transfer money to the same account")

	ErrStorageUnavailable = errors.New("storage unavailable")
)
