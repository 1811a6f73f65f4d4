package repo_interfaces

import (
	"context"

	"github.com/contabank/ledger-core/internal/domain"
)

// LedgerTx is the view of the store inside one atomic unit. Reads through
// AccountForUpdate hold a row lock until the enclosing transaction commits or
// rolls back, so concurrent movements on one account are serialized.
type LedgerTx interface {
	AccountForUpdate(ctx context.Context, accountNumber string) (domain.Account, error)
	UpdateBalance(ctx context.Context, accountNumber string, newBalance domain.Money) error
	AppendTransaction(ctx context.Context, draft domain.TransactionDraft) (domain.Transaction, error)
}

// LedgerStore supplies atomic units of work and the read side of the
// transaction log.
type LedgerStore interface {
	// WithinTx runs fn inside one database transaction: every mutation fn
	// performs commits together or not at all.
	WithinTx(ctx context.Context, fn func(tx LedgerTx) error) error

	TransactionsByAccount(ctx context.Context, accountNumber string, limit int) ([]domain.Transaction, error)
}
