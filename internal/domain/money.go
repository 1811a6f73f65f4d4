package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a fixed-scale (2 fractional digits) decimal currency value.
// Every balance and amount in the ledger flows through it; nothing in this
// package ever converts to a binary float.
type Money struct {
	value decimal.Decimal
}

var zeroMoney = Money{value: decimal.Zero}

func ZeroMoney() Money {
	return zeroMoney
}

// NewMoney parses a decimal string such as "1200.00" or "-305.5".
func NewMoney(value string) (Money, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Money{}, fmt.Errorf("money value is required")
	}

	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return Money{}, fmt.Errorf("money value must be numeric: %w", err)
	}
	if !d.Equal(d.Truncate(2)) {
		return Money{}, fmt.Errorf("money value %q has more than 2 decimal places", trimmed)
	}

	return Money{value: d}, nil
}

// MoneyFromCents builds a Money from an integer number of minor units.
func MoneyFromCents(cents int64) Money {
	return Money{value: decimal.New(cents, -2)}
}

// MustMoney panics on a malformed value. Intended for constants and tests.
func MustMoney(value string) Money {
	m, err := NewMoney(value)
	if err != nil {
		panic(err)
	}
	return m
}

// ParseAmount parses a transaction amount. Amounts must be strictly positive;
// malformed or non-positive input fails with ErrInvalidAmount.
func ParseAmount(value string) (Money, error) {
	m, err := NewMoney(value)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if !m.IsPositive() {
		return Money{}, ErrInvalidAmount
	}
	return m, nil
}

func (m Money) Add(other Money) Money {
	return Money{value: m.value.Add(other.value)}
}

func (m Money) Sub(other Money) Money {
	return Money{value: m.value.Sub(other.value)}
}

// MulRate multiplies by a decimal rate (e.g. 0.005 for 0.5%) and rounds
// half-up to 2 decimal places.
func (m Money) MulRate(rate decimal.Decimal) Money {
	return Money{value: m.value.Mul(rate).Round(2)}
}

func (m Money) Cmp(other Money) int {
	return m.value.Cmp(other.value)
}

func (m Money) Equal(other Money) bool {
	return m.value.Equal(other.value)
}

func (m Money) GreaterThan(other Money) bool {
	return m.value.GreaterThan(other.value)
}

func (m Money) LessThan(other Money) bool {
	return m.value.LessThan(other.value)
}

func (m Money) IsPositive() bool {
	return m.value.IsPositive()
}

func (m Money) IsNegative() bool {
	return m.value.IsNegative()
}

func (m Money) IsZero() bool {
	return m.value.IsZero()
}

// String renders with exactly 2 decimal places.
func (m Money) String() string {
	return m.value.StringFixed(2)
}

func (m Money) Decimal() decimal.Decimal {
	return m.value
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "null" {
		return nil
	}
	parsed, err := NewMoney(raw)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value implements driver.Valuer; balances persist as numeric text.
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}

// Scan implements sql.Scanner for numeric columns read as text or bytes.
func (m *Money) Scan(src any) error {
	switch typed := src.(type) {
	case nil:
		*m = ZeroMoney()
		return nil
	case []byte:
		return m.scanString(string(typed))
	case string:
		return m.scanString(typed)
	case int64:
		*m = Money{value: decimal.NewFromInt(typed)}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Money", src)
	}
}

func (m *Money) scanString(raw string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("scan money: %w", err)
	}
	m.value = d
	return nil
}
