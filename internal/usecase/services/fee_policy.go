package services

import (
	"github.com/contabank/ledger-core/internal/domain"
)

// FeePolicy computes flat transaction fees. The comparisons are strict:
// an amount exactly at a threshold pays no fee.
type FeePolicy struct {
	withdrawalFee       domain.Money
	withdrawalThreshold domain.Money
	transferFee         domain.Money
	transferThreshold   domain.Money
}

func NewFeePolicy(
	withdrawalFee domain.Money,
	withdrawalThreshold domain.Money,
	transferFee domain.Money,
	transferThreshold domain.Money,
) *FeePolicy {
	return &FeePolicy{
		withdrawalFee:       withdrawalFee,
		withdrawalThreshold: withdrawalThreshold,
		transferFee:         transferFee,
		transferThreshold:   transferThreshold,
	}
}

// DefaultFeePolicy carries the bank's standing fee table: 5.00 on withdrawals
// above 1000.00 and 10.00 on transfers above 5000.00.
func DefaultFeePolicy() *FeePolicy {
	return NewFeePolicy(
		domain.MustMoney("5.00"),
		domain.MustMoney("1000.00"),
		domain.MustMoney("10.00"),
		domain.MustMoney("5000.00"),
	)
}

func (p *FeePolicy) DepositFee(amount domain.Money) domain.Money {
	return domain.ZeroMoney()
}

func (p *FeePolicy) WithdrawalFee(amount domain.Money) domain.Money {
	if amount.GreaterThan(p.withdrawalThreshold) {
		return p.withdrawalFee
	}
	return domain.ZeroMoney()
}

func (p *FeePolicy) TransferFee(amount domain.Money) domain.Money {
	if amount.GreaterThan(p.transferThreshold) {
		return p.transferFee
	}
	return domain.ZeroMoney()
}
