package models

import (
	"errors"
	"strings"
	"time"

	"github.com/contabank/ledger-core/internal/domain"
)

// Amounts travel as decimal strings so the core owns amount parsing and the
// InvalidAmount kind; nothing ever round-trips through a float64.

type DepositRequest struct {
	AccountNumber string `json:"accountNumber"`
	Amount        string `json:"amount"`
	Description   string `json:"description,omitempty"`
}

func (r DepositRequest) Validate() error {
	return validateAccountNumbers(
		numberField{"accountNumber", r.AccountNumber},
	)
}

type DepositResponse struct {
	AccountNumber   string       `json:"accountNumber"`
	PreviousBalance domain.Money `json:"previousBalance"`
	AmountDeposited domain.Money `json:"amountDeposited"`
	CurrentBalance  domain.Money `json:"currentBalance"`
	TransactionID   int64        `json:"transactionId"`
	Timestamp       time.Time    `json:"timestamp"`
}

type WithdrawalRequest struct {
	AccountNumber string `json:"accountNumber"`
	Amount        string `json:"amount"`
	Description   string `json:"description,omitempty"`
}

func (r WithdrawalRequest) Validate() error {
	return validateAccountNumbers(
		numberField{"accountNumber", r.AccountNumber},
	)
}

type WithdrawalResponse struct {
	AccountNumber   string       `json:"accountNumber"`
	PreviousBalance domain.Money `json:"previousBalance"`
	AmountWithdrawn domain.Money `json:"amountWithdrawn"`
	FeeApplied      domain.Money `json:"feeApplied"`
	CurrentBalance  domain.Money `json:"currentBalance"`
	TransactionID   int64        `json:"transactionId"`
	Timestamp       time.Time    `json:"timestamp"`
}

type TransferRequest struct {
	OriginAccountNumber      string `json:"originAccountNumber"`
	DestinationAccountNumber string `json:"destinationAccountNumber"`
	Amount                   string `json:"amount"`
	Description              string `json:"description,omitempty"`
}

func (r TransferRequest) Validate() error {
	return validateAccountNumbers(
		numberField{"originAccountNumber", r.OriginAccountNumber},
		numberField{"destinationAccountNumber", r.DestinationAccountNumber},
	)
}

type TransferLeg struct {
	AccountNumber   string       `json:"accountNumber"`
	PreviousBalance domain.Money `json:"previousBalance"`
	CurrentBalance  domain.Money `json:"currentBalance"`
}

type TransferResponse struct {
	Origin            TransferLeg  `json:"origin"`
	Destination       TransferLeg  `json:"destination"`
	AmountTransferred domain.Money `json:"amountTransferred"`
	FeeApplied        domain.Money `json:"feeApplied"`
	TransactionID     int64        `json:"transactionId"`
	Timestamp         time.Time    `json:"timestamp"`
}

type StatementEntry struct {
	TransactionID            int64        `json:"transactionId"`
	Type                     string       `json:"type"`
	Amount                   domain.Money `json:"amount"`
	OriginAccountNumber      string       `json:"originAccountNumber,omitempty"`
	DestinationAccountNumber string       `json:"destinationAccountNumber,omitempty"`
	Description              string       `json:"description,omitempty"`
	Timestamp                time.Time    `json:"timestamp"`
}

type StatementResponse struct {
	AccountNumber string           `json:"accountNumber"`
	Entries       []StatementEntry `json:"entries"`
}

type numberField struct {
	name  string
	value string
}

func validateAccountNumbers(fields ...numberField) error {
	var errs []string
	for _, field := range fields {
		if err := domain.ValidateAccountNumber(field.value); err != nil {
			errs = append(errs, field.name+": "+err.Error())
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
