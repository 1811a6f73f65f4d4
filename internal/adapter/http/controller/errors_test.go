package controller

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/contabank/ledger-core/internal/domain"
)

func TestClassifyErrorKinds(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid amount", domain.ErrInvalidAmount, http.StatusBadRequest, codeInvalidAmount},
		{"wrapped invalid amount", fmt.Errorf("deposit: %w", domain.ErrInvalidAmount), http.StatusBadRequest, codeInvalidAmount},
		{"same account", domain.ErrSameAccount, http.StatusBadRequest, codeSameAccount},
		{"not found", domain.ErrAccountNotFound, http.StatusNotFound, codeAccountNotFound},
		{"wrapped not found", fmt.Errorf("origin account: %w", domain.ErrAccountNotFound), http.StatusNotFound, codeAccountNotFound},
		{
			"not active",
			&domain.AccountNotActiveError{AccountNumber: "12345678-2", Status: domain.AccountStatusBlocked},
			http.StatusConflict, codeAccountNotActive,
		},
		{
			"insufficient funds",
			&domain.InsufficientFundsError{
				AccountNumber:  "12345678-2",
				Requested:      domain.MustMoney("1505.00"),
				Available:      domain.MustMoney("1200.00"),
				Balance:        domain.MustMoney("1200.00"),
				OverdraftLimit: domain.MustMoney("0.00"),
			},
			http.StatusUnprocessableEntity, codeInsufficientFunds,
		},
		{
			"persistence",
			&domain.PersistenceError{Op: "commit transaction", Err: errors.New("broken pipe")},
			http.StatusServiceUnavailable, codePersistence,
		},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, codeInternal},
	}

	for _, tc := range cases {
		status, code, _ := classify(tc.err)
		if status != tc.wantStatus {
			t.Fatalf("%s: expected status %d, got %d", tc.name, tc.wantStatus, status)
		}
		if code != tc.wantCode {
			t.Fatalf("%s: expected code %s, got %s", tc.name, tc.wantCode, code)
		}
	}
}
