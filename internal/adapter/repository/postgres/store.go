package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/contabank/ledger-core/internal/adapter/repository/repo_interfaces"
	"github.com/contabank/ledger-core/internal/domain"
	"github.com/contabank/ledger-core/internal/logger"
)

// Store is the postgres-backed account store and transaction log.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) WithinTx(ctx context.Context, fn func(tx repo_interfaces.LedgerTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &domain.PersistenceError{Op: "begin transaction", Err: err}
	}

	if err := fn(&ledgerTx{tx: tx}); err != nil {
		_ = tx.Rollback()
		if isSerializationFailure(err) {
			logger.Error("ledger store transaction aborted as serialization victim", err, nil)
			return &domain.PersistenceError{Op: "serialize transaction", Err: err}
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return &domain.PersistenceError{Op: "commit transaction", Err: err}
	}
	return nil
}

func (s *Store) TransactionsByAccount(ctx context.Context, accountNumber string, limit int) ([]domain.Transaction, error) {
	const query = `
SELECT id, transaction_type, amount, origin_account_number, destination_account_number, description, created_at
FROM transactions
WHERE origin_account_number = $1 OR destination_account_number = $1
ORDER BY id DESC
LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, accountNumber, limit)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list transactions", Err: err}
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		var (
			record      domain.Transaction
			origin      sql.NullString
			destination sql.NullString
			description sql.NullString
		)
		if err := rows.Scan(
			&record.ID,
			&record.Type,
			&record.Amount,
			&origin,
			&destination,
			&description,
			&record.CreatedAt,
		); err != nil {
			return nil, &domain.PersistenceError{Op: "scan transaction", Err: err}
		}
		if origin.Valid {
			value := origin.String
			record.OriginAccountNumber = &value
		}
		if destination.Valid {
			value := destination.String
			record.DestinationAccountNumber = &value
		}
		record.Description = description.String
		transactions = append(transactions, record)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.PersistenceError{Op: "list transactions", Err: err}
	}

	return transactions, nil
}

type ledgerTx struct {
	tx *sql.Tx
}

// AccountForUpdate locks the account row for the remainder of the enclosing
// transaction. Only the accounts row is locked; the extension tables hang off
// a LEFT JOIN and are never written by the engine.
func (t *ledgerTx) AccountForUpdate(ctx context.Context, accountNumber string) (domain.Account, error) {
	const query = `
SELECT a.id,
       a.client_id,
       a.account_number,
       a.account_type,
       a.status,
       a.balance,
       a.opened_at,
       a.updated_at,
       c.overdraft_limit,
       c.maintenance_fee_rate,
       s.yield_rate,
       i.risk_profile,
       i.minimum_balance,
       i.base_yield_rate
FROM accounts a
LEFT JOIN checking_accounts c ON c.account_id = a.id
LEFT JOIN savings_accounts s ON s.account_id = a.id
LEFT JOIN investment_accounts i ON i.account_id = a.id
WHERE a.account_number = $1
FOR UPDATE OF a`

	var (
		account            domain.Account
		overdraftLimit     sql.NullString
		maintenanceFeeRate sql.NullString
		yieldRate          sql.NullString
		riskProfile        sql.NullString
		minimumBalance     sql.NullString
		baseYieldRate      sql.NullString
	)

	if err := t.tx.QueryRowContext(ctx, query, accountNumber).Scan(
		&account.ID,
		&account.ClientID,
		&account.AccountNumber,
		&account.Type,
		&account.Status,
		&account.Balance,
		&account.OpenedAt,
		&account.UpdatedAt,
		&overdraftLimit,
		&maintenanceFeeRate,
		&yieldRate,
		&riskProfile,
		&minimumBalance,
		&baseYieldRate,
	); err != nil {
		if err == sql.ErrNoRows {
			return domain.Account{}, domain.ErrAccountNotFound
		}
		return domain.Account{}, &domain.PersistenceError{Op: "fetch account", Err: err}
	}

	switch account.Type {
	case domain.AccountTypeChecking:
		details := &domain.CheckingDetails{}
		if err := assignMoney(&details.OverdraftLimit, overdraftLimit); err != nil {
			return domain.Account{}, err
		}
		if err := assignRate(&details.MaintenanceFeeRate, maintenanceFeeRate); err != nil {
			return domain.Account{}, err
		}
		account.Checking = details
	case domain.AccountTypeSavings:
		details := &domain.SavingsDetails{}
		if err := assignRate(&details.YieldRate, yieldRate); err != nil {
			return domain.Account{}, err
		}
		account.Savings = details
	case domain.AccountTypeInvestment:
		details := &domain.InvestmentDetails{RiskProfile: riskProfile.String}
		if err := assignMoney(&details.MinimumBalance, minimumBalance); err != nil {
			return domain.Account{}, err
		}
		if err := assignRate(&details.BaseYieldRate, baseYieldRate); err != nil {
			return domain.Account{}, err
		}
		account.Investment = details
	}

	return account, nil
}

func (t *ledgerTx) UpdateBalance(ctx context.Context, accountNumber string, newBalance domain.Money) error {
	const query = `
UPDATE accounts
SET balance = $2::numeric,
    updated_at = NOW()
WHERE account_number = $1`

	result, err := t.tx.ExecContext(ctx, query, accountNumber, newBalance)
	if err != nil {
		return &domain.PersistenceError{Op: "update balance", Err: err}
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return &domain.PersistenceError{Op: "update balance rows affected", Err: err}
	}
	if rows == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (t *ledgerTx) AppendTransaction(ctx context.Context, draft domain.TransactionDraft) (domain.Transaction, error) {
	if err := draft.Validate(); err != nil {
		return domain.Transaction{}, fmt.Errorf("transaction draft invalid: %w", err)
	}

	const query = `
INSERT INTO transactions (
	transaction_type,
	amount,
	origin_account_number,
	destination_account_number,
	description
) VALUES ($1, $2::numeric, $3, $4, $5)
RETURNING id, created_at`

	var (
		id        int64
		createdAt time.Time
	)

	if err := t.tx.QueryRowContext(
		ctx,
		query,
		draft.Type,
		draft.Amount,
		draft.OriginAccountNumber,
		draft.DestinationAccountNumber,
		draft.Description,
	).Scan(&id, &createdAt); err != nil {
		return domain.Transaction{}, &domain.PersistenceError{Op: "append transaction", Err: err}
	}

	return domain.Transaction{
		ID:                       id,
		Type:                     draft.Type,
		Amount:                   draft.Amount,
		OriginAccountNumber:      draft.OriginAccountNumber,
		DestinationAccountNumber: draft.DestinationAccountNumber,
		Description:              draft.Description,
		CreatedAt:                createdAt,
	}, nil
}

func assignMoney(dst *domain.Money, src sql.NullString) error {
	if !src.Valid {
		*dst = domain.ZeroMoney()
		return nil
	}
	value, err := domain.NewMoney(src.String)
	if err != nil {
		return &domain.PersistenceError{Op: "scan account extension", Err: err}
	}
	*dst = value
	return nil
}

func assignRate(dst *decimal.Decimal, src sql.NullString) error {
	if !src.Valid {
		*dst = decimal.Zero
		return nil
	}
	value, err := decimal.NewFromString(src.String)
	if err != nil {
		return &domain.PersistenceError{Op: "scan account extension", Err: err}
	}
	*dst = value
	return nil
}

// isSerializationFailure reports deadlock victims and serialization aborts so
// they surface as retryable persistence failures rather than domain errors.
func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}
