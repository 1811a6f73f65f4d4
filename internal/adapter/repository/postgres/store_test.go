package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/contabank/ledger-core/internal/adapter/repository/repo_interfaces"
	"github.com/contabank/ledger-core/internal/domain"
)

var accountColumns = []string{
	"id", "client_id", "account_number", "account_type", "status", "balance",
	"opened_at", "updated_at",
	"overdraft_limit", "maintenance_fee_rate",
	"yield_rate",
	"risk_profile", "minimum_balance", "base_yield_rate",
}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	return NewStore(db), mock, func() { _ = db.Close() }
}

func checkingRow(number string, balance string, limit string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(accountColumns).AddRow(
		"a0a0a0a0", "c1c1c1c1", number, "CHECKING", "ACTIVE", balance,
		now, now,
		limit, "0.01500",
		nil,
		nil, nil, nil,
	)
}

func TestWithinTxCommitsOnSuccess(t *testing.T) {
	store, mock, closeFn := newMockStore(t)
	defer closeFn()

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := store.WithinTx(context.Background(), func(tx repo_interfaces.LedgerTx) error {
		return nil
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTxRollsBackAndPassesDomainErrorThrough(t *testing.T) {
	store, mock, closeFn := newMockStore(t)
	defer closeFn()

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := store.WithinTx(context.Background(), func(tx repo_interfaces.LedgerTx) error {
		return domain.ErrAccountNotFound
	})
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTxWrapsBeginFailure(t *testing.T) {
	store, mock, closeFn := newMockStore(t)
	defer closeFn()

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	err := store.WithinTx(context.Background(), func(tx repo_interfaces.LedgerTx) error {
		t.Fatal("fn must not run when begin fails")
		return nil
	})

	var persistence *domain.PersistenceError
	assert.ErrorAs(t, err, &persistence)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTxWrapsCommitFailure(t *testing.T) {
	store, mock, closeFn := newMockStore(t)
	defer closeFn()

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("broken pipe"))

	err := store.WithinTx(context.Background(), func(tx repo_interfaces.LedgerTx) error {
		return nil
	})

	var persistence *domain.PersistenceError
	assert.ErrorAs(t, err, &persistence)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountForUpdateChecking(t *testing.T) {
	store, mock, closeFn := newMockStore(t)
	defer closeFn()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE OF a").
		WithArgs("12345678-2").
		WillReturnRows(checkingRow("12345678-2", "1200.00", "500.00"))
	mock.ExpectCommit()

	err := store.WithinTx(context.Background(), func(tx repo_interfaces.LedgerTx) error {
		account, err := tx.AccountForUpdate(context.Background(), "12345678-2")
		assert.NoError(t, err)
		assert.Equal(t, domain.AccountTypeChecking, account.Type)
		assert.Equal(t, "1200.00", account.Balance.String())
		if assert.NotNil(t, account.Checking) {
			assert.Equal(t, "500.00", account.Checking.OverdraftLimit.String())
		}
		assert.Equal(t, "1700.00", account.AvailableFunds().String())
		return nil
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountForUpdateSavingsHasNoLimit(t *testing.T) {
	store, mock, closeFn := newMockStore(t)
	defer closeFn()

	now := time.Now()
	rows := sqlmock.NewRows(accountColumns).AddRow(
		"a0a0a0a0", "c1c1c1c1", "11111111-8", "SAVINGS", "ACTIVE", "1200.00",
		now, now,
		nil, nil,
		"0.00500",
		nil, nil, nil,
	)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE OF a").
		WithArgs("11111111-8").
		WillReturnRows(rows)
	mock.ExpectCommit()

	err := store.WithinTx(context.Background(), func(tx repo_interfaces.LedgerTx) error {
		account, err := tx.AccountForUpdate(context.Background(), "11111111-8")
		assert.NoError(t, err)
		assert.NotNil(t, account.Savings)
		assert.Nil(t, account.Checking)
		assert.Equal(t, "0.00", account.OverdraftLimit().String())
		return nil
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountForUpdateNotFound(t *testing.T) {
	store, mock, closeFn := newMockStore(t)
	defer closeFn()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE OF a").
		WithArgs("33333333-4").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := store.WithinTx(context.Background(), func(tx repo_interfaces.LedgerTx) error {
		_, err := tx.AccountForUpdate(context.Background(), "33333333-4")
		return err
	})
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBalance(t *testing.T) {
	store, mock, closeFn := newMockStore(t)
	defer closeFn()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE accounts").
		WithArgs("12345678-2", "700.00").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.WithinTx(context.Background(), func(tx repo_interfaces.LedgerTx) error {
		return tx.UpdateBalance(context.Background(), "12345678-2", domain.MustMoney("700.00"))
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBalanceMissingAccount(t *testing.T) {
	store, mock, closeFn := newMockStore(t)
	defer closeFn()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE accounts").
		WithArgs("33333333-4", "700.00").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := store.WithinTx(context.Background(), func(tx repo_interfaces.LedgerTx) error {
		return tx.UpdateBalance(context.Background(), "33333333-4", domain.MustMoney("700.00"))
	})
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendTransaction(t *testing.T) {
	store, mock, closeFn := newMockStore(t)
	defer closeFn()

	createdAt := time.Now()
	destination := "12345678-2"

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO transactions").
		WithArgs("DEPOSIT", "380.00", nil, destination, "salary").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(41), createdAt))
	mock.ExpectCommit()

	err := store.WithinTx(context.Background(), func(tx repo_interfaces.LedgerTx) error {
		record, err := tx.AppendTransaction(context.Background(), domain.TransactionDraft{
			Type:                     domain.TransactionTypeDeposit,
			Amount:                   domain.MustMoney("380.00"),
			DestinationAccountNumber: &destination,
			Description:              "salary",
		})
		assert.NoError(t, err)
		assert.Equal(t, int64(41), record.ID)
		assert.Equal(t, createdAt, record.CreatedAt)
		return nil
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendTransactionRejectsInvalidDraft(t *testing.T) {
	store, mock, closeFn := newMockStore(t)
	defer closeFn()

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := store.WithinTx(context.Background(), func(tx repo_interfaces.LedgerTx) error {
		_, err := tx.AppendTransaction(context.Background(), domain.TransactionDraft{
			Type:   domain.TransactionTypeDeposit,
			Amount: domain.MustMoney("380.00"),
			// missing destination
		})
		return err
	})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionsByAccount(t *testing.T) {
	store, mock, closeFn := newMockStore(t)
	defer closeFn()

	origin := "12345678-2"
	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "transaction_type", "amount", "origin_account_number",
		"destination_account_number", "description", "created_at",
	}).
		AddRow(int64(2), "WITHDRAWAL", "30.00", origin, nil, "", now).
		AddRow(int64(1), "DEPOSIT", "100.00", nil, origin, "opening deposit", now.Add(-time.Hour))

	mock.ExpectQuery("FROM transactions").
		WithArgs(origin, 10).
		WillReturnRows(rows)

	transactions, err := store.TransactionsByAccount(context.Background(), origin, 10)
	assert.NoError(t, err)
	assert.Len(t, transactions, 2)
	assert.Equal(t, domain.TransactionTypeWithdrawal, transactions[0].Type)
	assert.Nil(t, transactions[0].DestinationAccountNumber)
	if assert.NotNil(t, transactions[1].DestinationAccountNumber) {
		assert.Equal(t, origin, *transactions[1].DestinationAccountNumber)
	}
	assert.Equal(t, "100.00", transactions[1].Amount.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
