package domain

import (
	"errors"
	"fmt"
)

// Closed set of error kinds the ledger engine can surface. Callers switch on
// these with errors.Is / errors.As, never on message text.
var (
	ErrInvalidAmount   = errors.New("amount must be greater than zero")
	ErrSameAccount     = errors.New("origin and destination accounts cannot be the same")
	ErrAccountNotFound = errors.New("account not found")
)

// AccountNotActiveError reports an operation against a CLOSED or BLOCKED
// account, carrying the status for the caller's message.
type AccountNotActiveError struct {
	AccountNumber string
	Status        AccountStatus
}

func (e *AccountNotActiveError) Error() string {
	return fmt.Sprintf("account %s is not active (status %s)", e.AccountNumber, e.Status)
}

// InsufficientFundsError carries the figures needed for a precise message.
type InsufficientFundsError struct {
	AccountNumber  string
	Requested      Money
	Available      Money
	Balance        Money
	OverdraftLimit Money
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf(
		"insufficient funds on account %s: requested %s, available %s (balance %s, limit %s)",
		e.AccountNumber, e.Requested, e.Available, e.Balance, e.OverdraftLimit,
	)
}

// PersistenceError wraps infrastructure failures of the atomic unit (lock
// timeout, connection loss, constraint violation). The transaction is rolled
// back before this surfaces; callers may retry as a fresh request.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
