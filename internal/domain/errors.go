package domain

import "errors"

var (
	// ErrAccountNotFound - the account id does not reference a provisioned account.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidTransaction - malformed kind, amount or description.
	ErrInvalidTransaction = errors.New("invalid transaction")

	// ErrLimitExceeded - the debit would push the balance below -credit_limit.
	ErrLimitExceeded = errors.New("credit limit exceeded")

	// ErrStorageUnavailable - the durable store is unreachable or the operation
	// timed out. Never conflated with ErrAccountNotFound.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
