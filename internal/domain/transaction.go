package domain

import (
	"fmt"
	"time"
)

type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
	TransactionTypeTransfer   TransactionType = "TRANSFER"
)

// Transaction is one committed money movement. Rows are append-only: the
// ledger never updates or deletes them. Amount is the requested pre-fee
// amount, not the total debited.
type Transaction struct {
	ID                       int64
	Type                     TransactionType
	Amount                   Money
	OriginAccountNumber      *string
	DestinationAccountNumber *string
	Description              string
	CreatedAt                time.Time
}

// TransactionDraft is the not-yet-persisted form the engine hands to the log.
type TransactionDraft struct {
	Type                     TransactionType
	Amount                   Money
	OriginAccountNumber      *string
	DestinationAccountNumber *string
	Description              string
}

// Validate enforces the shape invariant: DEPOSIT has destination only,
// WITHDRAWAL has origin only, TRANSFER has both and they differ.
func (d TransactionDraft) Validate() error {
	if !d.Amount.IsPositive() {
		return ErrInvalidAmount
	}

	switch d.Type {
	case TransactionTypeDeposit:
		if d.OriginAccountNumber != nil || d.DestinationAccountNumber == nil {
			return fmt.Errorf("deposit transaction must carry a destination account only")
		}
	case TransactionTypeWithdrawal:
		if d.OriginAccountNumber == nil || d.DestinationAccountNumber != nil {
			return fmt.Errorf("withdrawal transaction must carry an origin account only")
		}
	case TransactionTypeTransfer:
		if d.OriginAccountNumber == nil || d.DestinationAccountNumber == nil {
			return fmt.Errorf("transfer transaction must carry origin and destination accounts")
		}
		if *d.OriginAccountNumber == *d.DestinationAccountNumber {
			return ErrSameAccount
		}
	default:
		return fmt.Errorf("unknown transaction type %q", d.Type)
	}

	return nil
}
