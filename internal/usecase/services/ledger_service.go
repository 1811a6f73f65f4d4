package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/contabank/ledger-core/internal/adapter/http/models"
	"github.com/contabank/ledger-core/internal/adapter/repository/repo_interfaces"
	"github.com/contabank/ledger-core/internal/domain"
	"github.com/contabank/ledger-core/internal/events"
	"github.com/contabank/ledger-core/internal/logger"
)

// LedgerService executes the three money movements. It holds no state of its
// own and is safe to call from any number of request goroutines; same-account
// serialization is delegated to the store's row locks.
type LedgerService struct {
	store     repo_interfaces.LedgerStore
	fees      *FeePolicy
	publisher events.Publisher
}

// NewLedgerService wires the engine. publisher may be nil; events are then
// skipped entirely.
func NewLedgerService(store repo_interfaces.LedgerStore, fees *FeePolicy, publisher events.Publisher) *LedgerService {
	return &LedgerService{
		store:     store,
		fees:      fees,
		publisher: publisher,
	}
}

func (s *LedgerService) Deposit(ctx context.Context, req models.DepositRequest) (models.DepositResponse, error) {
	logger.Info("ledger service deposit request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return models.DepositResponse{}, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, err.Error())
	}

	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		return models.DepositResponse{}, err
	}

	accountNumber := strings.TrimSpace(req.AccountNumber)

	var (
		response models.DepositResponse
		record   domain.Transaction
	)
	err = s.store.WithinTx(ctx, func(tx repo_interfaces.LedgerTx) error {
		account, err := tx.AccountForUpdate(ctx, accountNumber)
		if err != nil {
			return err
		}
		if !account.IsActive() {
			return &domain.AccountNotActiveError{AccountNumber: account.AccountNumber, Status: account.Status}
		}

		previous := account.Balance
		current := previous.Add(amount)
		if err := tx.UpdateBalance(ctx, account.AccountNumber, current); err != nil {
			return err
		}

		destination := account.AccountNumber
		record, err = tx.AppendTransaction(ctx, domain.TransactionDraft{
			Type:                     domain.TransactionTypeDeposit,
			Amount:                   amount,
			DestinationAccountNumber: &destination,
			Description:              strings.TrimSpace(req.Description),
		})
		if err != nil {
			return err
		}

		response = models.DepositResponse{
			AccountNumber:   account.AccountNumber,
			PreviousBalance: previous,
			AmountDeposited: amount,
			CurrentBalance:  current,
			TransactionID:   record.ID,
			Timestamp:       record.CreatedAt,
		}
		return nil
	})
	if err != nil {
		logger.Error("ledger service deposit failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return models.DepositResponse{}, err
	}

	s.publishCompleted(ctx, record, domain.ZeroMoney())

	logger.Info("ledger service deposit success", logger.Fields{
		"accountNumber": accountNumber,
		"transactionId": record.ID,
	})
	return response, nil
}

func (s *LedgerService) Withdraw(ctx context.Context, req models.WithdrawalRequest) (models.WithdrawalResponse, error) {
	logger.Info("ledger service withdrawal request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return models.WithdrawalResponse{}, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, err.Error())
	}

	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		return models.WithdrawalResponse{}, err
	}

	accountNumber := strings.TrimSpace(req.AccountNumber)
	fee := s.fees.WithdrawalFee(amount)
	totalDebit := amount.Add(fee)

	var (
		response models.WithdrawalResponse
		record   domain.Transaction
	)
	err = s.store.WithinTx(ctx, func(tx repo_interfaces.LedgerTx) error {
		account, err := tx.AccountForUpdate(ctx, accountNumber)
		if err != nil {
			return err
		}
		if !account.IsActive() {
			return &domain.AccountNotActiveError{AccountNumber: account.AccountNumber, Status: account.Status}
		}

		available := account.AvailableFunds()
		if totalDebit.GreaterThan(available) {
			return &domain.InsufficientFundsError{
				AccountNumber:  account.AccountNumber,
				Requested:      totalDebit,
				Available:      available,
				Balance:        account.Balance,
				OverdraftLimit: account.OverdraftLimit(),
			}
		}

		previous := account.Balance
		current := previous.Sub(totalDebit)
		if err := tx.UpdateBalance(ctx, account.AccountNumber, current); err != nil {
			return err
		}

		origin := account.AccountNumber
		record, err = tx.AppendTransaction(ctx, domain.TransactionDraft{
			Type:                domain.TransactionTypeWithdrawal,
			Amount:              amount,
			OriginAccountNumber: &origin,
			Description:         strings.TrimSpace(req.Description),
		})
		if err != nil {
			return err
		}

		response = models.WithdrawalResponse{
			AccountNumber:   account.AccountNumber,
			PreviousBalance: previous,
			AmountWithdrawn: amount,
			FeeApplied:      fee,
			CurrentBalance:  current,
			TransactionID:   record.ID,
			Timestamp:       record.CreatedAt,
		}
		return nil
	})
	if err != nil {
		logger.Error("ledger service withdrawal failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return models.WithdrawalResponse{}, err
	}

	s.publishCompleted(ctx, record, fee)

	logger.Info("ledger service withdrawal success", logger.Fields{
		"accountNumber": accountNumber,
		"transactionId": record.ID,
		"feeApplied":    fee.String(),
	})
	return response, nil
}

func (s *LedgerService) Transfer(ctx context.Context, req models.TransferRequest) (models.TransferResponse, error) {
	logger.Info("ledger service transfer request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return models.TransferResponse{}, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, err.Error())
	}

	originNumber := strings.TrimSpace(req.OriginAccountNumber)
	destinationNumber := strings.TrimSpace(req.DestinationAccountNumber)
	if originNumber == destinationNumber {
		return models.TransferResponse{}, domain.ErrSameAccount
	}

	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		return models.TransferResponse{}, err
	}

	fee := s.fees.TransferFee(amount)
	totalDebit := amount.Add(fee)

	var (
		response models.TransferResponse
		record   domain.Transaction
	)
	err = s.store.WithinTx(ctx, func(tx repo_interfaces.LedgerTx) error {
		origin, destination, err := fetchPairLocked(ctx, tx, originNumber, destinationNumber)
		if err != nil {
			return err
		}

		if !origin.IsActive() {
			return &domain.AccountNotActiveError{AccountNumber: origin.AccountNumber, Status: origin.Status}
		}
		if !destination.IsActive() {
			return &domain.AccountNotActiveError{AccountNumber: destination.AccountNumber, Status: destination.Status}
		}

		available := origin.AvailableFunds()
		if totalDebit.GreaterThan(available) {
			return &domain.InsufficientFundsError{
				AccountNumber:  origin.AccountNumber,
				Requested:      totalDebit,
				Available:      available,
				Balance:        origin.Balance,
				OverdraftLimit: origin.OverdraftLimit(),
			}
		}

		originPrevious := origin.Balance
		destinationPrevious := destination.Balance
		originCurrent := originPrevious.Sub(totalDebit)
		destinationCurrent := destinationPrevious.Add(amount)

		if err := tx.UpdateBalance(ctx, origin.AccountNumber, originCurrent); err != nil {
			return err
		}
		if err := tx.UpdateBalance(ctx, destination.AccountNumber, destinationCurrent); err != nil {
			return err
		}

		originRef := origin.AccountNumber
		destinationRef := destination.AccountNumber
		record, err = tx.AppendTransaction(ctx, domain.TransactionDraft{
			Type:                     domain.TransactionTypeTransfer,
			Amount:                   amount,
			OriginAccountNumber:      &originRef,
			DestinationAccountNumber: &destinationRef,
			Description:              strings.TrimSpace(req.Description),
		})
		if err != nil {
			return err
		}

		response = models.TransferResponse{
			Origin: models.TransferLeg{
				AccountNumber:   origin.AccountNumber,
				PreviousBalance: originPrevious,
				CurrentBalance:  originCurrent,
			},
			Destination: models.TransferLeg{
				AccountNumber:   destination.AccountNumber,
				PreviousBalance: destinationPrevious,
				CurrentBalance:  destinationCurrent,
			},
			AmountTransferred: amount,
			FeeApplied:        fee,
			TransactionID:     record.ID,
			Timestamp:         record.CreatedAt,
		}
		return nil
	})
	if err != nil {
		logger.Error("ledger service transfer failed", err, logger.Fields{
			"originAccountNumber":      originNumber,
			"destinationAccountNumber": destinationNumber,
		})
		return models.TransferResponse{}, err
	}

	s.publishCompleted(ctx, record, fee)

	logger.Info("ledger service transfer success", logger.Fields{
		"originAccountNumber":      originNumber,
		"destinationAccountNumber": destinationNumber,
		"transactionId":            record.ID,
		"feeApplied":               fee.String(),
	})
	return response, nil
}

// Statement reads the append-only log for one account, newest first.
func (s *LedgerService) Statement(ctx context.Context, accountNumber string, limit int) (models.StatementResponse, error) {
	trimmed := strings.TrimSpace(accountNumber)
	if err := domain.ValidateAccountNumber(trimmed); err != nil {
		return models.StatementResponse{}, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, err.Error())
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	transactions, err := s.store.TransactionsByAccount(ctx, trimmed, limit)
	if err != nil {
		logger.Error("ledger service statement failed", err, logger.Fields{
			"accountNumber": trimmed,
		})
		return models.StatementResponse{}, err
	}

	entries := make([]models.StatementEntry, 0, len(transactions))
	for _, record := range transactions {
		entry := models.StatementEntry{
			TransactionID: record.ID,
			Type:          string(record.Type),
			Amount:        record.Amount,
			Description:   record.Description,
			Timestamp:     record.CreatedAt,
		}
		if record.OriginAccountNumber != nil {
			entry.OriginAccountNumber = *record.OriginAccountNumber
		}
		if record.DestinationAccountNumber != nil {
			entry.DestinationAccountNumber = *record.DestinationAccountNumber
		}
		entries = append(entries, entry)
	}

	return models.StatementResponse{AccountNumber: trimmed, Entries: entries}, nil
}

// fetchPairLocked acquires both row locks in ascending account-number order
// so opposite-direction transfers between the same pair cannot deadlock.
func fetchPairLocked(ctx context.Context, tx repo_interfaces.LedgerTx, originNumber, destinationNumber string) (domain.Account, domain.Account, error) {
	first, second := originNumber, destinationNumber
	if second < first {
		first, second = second, first
	}

	fetched := make(map[string]domain.Account, 2)
	for _, number := range []string{first, second} {
		account, err := tx.AccountForUpdate(ctx, number)
		if err != nil {
			if number == originNumber {
				return domain.Account{}, domain.Account{}, fmt.Errorf("origin account %s: %w", number, err)
			}
			return domain.Account{}, domain.Account{}, fmt.Errorf("destination account %s: %w", number, err)
		}
		fetched[number] = account
	}

	return fetched[originNumber], fetched[destinationNumber], nil
}

func (s *LedgerService) publishCompleted(ctx context.Context, record domain.Transaction, fee domain.Money) {
	if s.publisher == nil {
		return
	}

	event := events.TransactionCompleted{
		EventID:       uuid.NewString(),
		TransactionID: record.ID,
		Type:          string(record.Type),
		Amount:        record.Amount.String(),
		Fee:           fee.String(),
		OccurredAt:    record.CreatedAt,
	}
	if record.OriginAccountNumber != nil {
		event.OriginAccountNumber = *record.OriginAccountNumber
	}
	if record.DestinationAccountNumber != nil {
		event.DestinationAccountNumber = *record.DestinationAccountNumber
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Error("ledger service publish transaction event failed", err, logger.Fields{
			"transactionId": record.ID,
		})
	}
}
