package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeChecking   AccountType = "CHECKING"
	AccountTypeSavings    AccountType = "SAVINGS"
	AccountTypeInvestment AccountType = "INVESTMENT"
)

type AccountStatus string

const (
	AccountStatusActive  AccountStatus = "ACTIVE"
	AccountStatusClosed  AccountStatus = "CLOSED"
	AccountStatusBlocked AccountStatus = "BLOCKED"
)

// CheckingDetails is the extension record for CHECKING accounts. The
// overdraft limit participates in available-funds checks; the maintenance fee
// rate is applied by the (external) account-management workflow.
type CheckingDetails struct {
	OverdraftLimit     Money
	MaintenanceFeeRate decimal.Decimal
}

type SavingsDetails struct {
	YieldRate decimal.Decimal
}

type InvestmentDetails struct {
	RiskProfile    string
	MinimumBalance Money
	BaseYieldRate  decimal.Decimal
}

// Account is a balance-bearing account row with its type-specific extension.
// Exactly one extension pointer is non-nil, matching Type.
type Account struct {
	ID            string
	ClientID      string
	AccountNumber string
	Type          AccountType
	Status        AccountStatus
	Balance       Money
	OpenedAt      time.Time
	UpdatedAt     time.Time

	Checking   *CheckingDetails
	Savings    *SavingsDetails
	Investment *InvestmentDetails
}

func (a Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// OverdraftLimit is zero for any non-CHECKING account.
func (a Account) OverdraftLimit() Money {
	if a.Type == AccountTypeChecking && a.Checking != nil {
		return a.Checking.OverdraftLimit
	}
	return ZeroMoney()
}

// AvailableFunds is balance plus overdraft limit.
func (a Account) AvailableFunds() Money {
	return a.Balance.Add(a.OverdraftLimit())
}

const accountBaseLength = 8

// ComputeCheckDigit runs the weighted alternating-doubling checksum over an
// 8-digit base: starting from the rightmost digit, every second digit is
// doubled (minus 9 when the double exceeds 9) and the check digit completes
// the sum to the next multiple of 10.
func ComputeCheckDigit(base string) (int, error) {
	if len(base) != accountBaseLength || !digitsOnly(base) {
		return 0, fmt.Errorf("account number base must be exactly %d digits", accountBaseLength)
	}

	sum := 0
	double := true
	for i := len(base) - 1; i >= 0; i-- {
		digit := int(base[i] - '0')
		if double {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		double = !double
	}

	return (10 - sum%10) % 10, nil
}

// NewAccountNumber renders a full "NNNNNNNN-D" number from an 8-digit base.
func NewAccountNumber(base string) (string, error) {
	digit, err := ComputeCheckDigit(base)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d", base, digit), nil
}

// ValidateAccountNumber checks the "NNNNNNNN-D" format and the check digit.
func ValidateAccountNumber(number string) error {
	trimmed := strings.TrimSpace(number)
	parts := strings.Split(trimmed, "-")
	if len(parts) != 2 || len(parts[1]) != 1 || !digitsOnly(parts[1]) {
		return fmt.Errorf("account number must have format NNNNNNNN-D")
	}

	expected, err := ComputeCheckDigit(parts[0])
	if err != nil {
		return err
	}
	if int(parts[1][0]-'0') != expected {
		return fmt.Errorf("account number %s has an invalid check digit", trimmed)
	}
	return nil
}

func digitsOnly(value string) bool {
	for _, ch := range value {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return len(value) > 0
}
