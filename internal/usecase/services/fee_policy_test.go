package services

import (
	"testing"

	"github.com/contabank/ledger-core/internal/domain"
)

func TestWithdrawalFeeThreshold(t *testing.T) {
	policy := DefaultFeePolicy()

	cases := []struct {
		amount string
		want   string
	}{
		{"500.00", "0.00"},
		{"1000.00", "0.00"}, // boundary pays no fee
		{"1000.01", "5.00"},
		{"1500.00", "5.00"},
	}

	for _, tc := range cases {
		got := policy.WithdrawalFee(domain.MustMoney(tc.amount)).String()
		if got != tc.want {
			t.Fatalf("withdrawal fee for %s: expected %s, got %s", tc.amount, tc.want, got)
		}
	}
}

func TestTransferFeeThreshold(t *testing.T) {
	policy := DefaultFeePolicy()

	cases := []struct {
		amount string
		want   string
	}{
		{"5000.00", "0.00"}, // boundary pays no fee
		{"5000.01", "10.00"},
		{"6000.00", "10.00"},
	}

	for _, tc := range cases {
		got := policy.TransferFee(domain.MustMoney(tc.amount)).String()
		if got != tc.want {
			t.Fatalf("transfer fee for %s: expected %s, got %s", tc.amount, tc.want, got)
		}
	}
}

func TestDepositFeeAlwaysZero(t *testing.T) {
	policy := DefaultFeePolicy()

	for _, amount := range []string{"0.01", "1000.01", "1000000.00"} {
		if got := policy.DepositFee(domain.MustMoney(amount)); !got.IsZero() {
			t.Fatalf("deposit fee for %s: expected zero, got %s", amount, got)
		}
	}
}
