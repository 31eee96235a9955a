package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrTooManyDecimals = errors.New("amount has too many decimal places")
	ErrNotPositive     = errors.New("amount must be positive")
)

// Parse validates a currency amount string: well-formed decimal with at most
// two fractional digits. The backend enforces balance rules; the client only
// rejects input it should never send.
func Parse(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if amount.Exponent() < -2 {
		return decimal.Zero, ErrTooManyDecimals
	}
	return amount, nil
}

// ParsePositive is Parse restricted to strictly positive amounts, the form
// every deposit/withdraw/airdrop input takes.
func ParsePositive(raw string) (decimal.Decimal, error) {
	amount, err := Parse(raw)
	if err != nil {
		return decimal.Zero, err
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, ErrNotPositive
	}
	return amount, nil
}

func ValidatePositive(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrNotPositive
	}
	if amount.Exponent() < -2 {
		return ErrTooManyDecimals
	}
	return nil
}

// Format renders an amount with exactly two decimal places for display.
func Format(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
