package controller

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/contabank/ledger-core/internal/commons"
	"github.com/contabank/ledger-core/internal/domain"
	"github.com/contabank/ledger-core/internal/logger"
)

const (
	codeValidation        = "VALIDATION"
	codeInvalidAmount     = "INVALID_AMOUNT"
	codeSameAccount       = "SAME_ACCOUNT"
	codeAccountNotFound   = "ACCOUNT_NOT_FOUND"
	codeAccountNotActive  = "ACCOUNT_NOT_ACTIVE"
	codeInsufficientFunds = "INSUFFICIENT_FUNDS"
	codePersistence       = "PERSISTENCE_FAILURE"
	codeInternal          = "INTERNAL"
)

// respondDomainError translates an error kind into status, code and message.
// The switch is on typed errors, never on message text.
func respondDomainError[T any](w http.ResponseWriter, r *http.Request, err error, start time.Time) {
	status, code, message := classify(err)

	logError(r, err, logger.Fields{"code": code})
	response := commons.ErrorResponse[T](code, message, err.Error())
	writeJSON(w, status, response)
	logResponse(r, status, response, start)
}

func classify(err error) (int, string, string) {
	var notActive *domain.AccountNotActiveError
	var insufficient *domain.InsufficientFundsError
	var persistence *domain.PersistenceError

	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest, codeInvalidAmount, "amount must be greater than zero"
	case errors.Is(err, domain.ErrSameAccount):
		return http.StatusBadRequest, codeSameAccount, "origin and destination accounts cannot be the same"
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, codeAccountNotFound, "account not found"
	case errors.As(err, &notActive):
		return http.StatusConflict, codeAccountNotActive,
			fmt.Sprintf("account is not active (status %s)", notActive.Status)
	case errors.As(err, &insufficient):
		return http.StatusUnprocessableEntity, codeInsufficientFunds,
			fmt.Sprintf("insufficient funds: available %s (balance %s, limit %s)",
				insufficient.Available, insufficient.Balance, insufficient.OverdraftLimit)
	case errors.As(err, &persistence):
		return http.StatusServiceUnavailable, codePersistence, "unable to process the transaction right now"
	default:
		return http.StatusInternalServerError, codeInternal, "unexpected error"
	}
}
