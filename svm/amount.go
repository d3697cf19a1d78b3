package svm

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal amount string into atomic units
// (amount × 10^decimals), rounded half-up. The result is always a
// non-negative integer decimal string; fractional atomic units never exist.
func ParseAmount(amount string, decimals uint8) (string, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return "", fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if d.IsNegative() {
		return "", fmt.Errorf("amount must not be negative: %s", amount)
	}
	atomic := d.Shift(int32(decimals)).Round(0)
	return atomic.String(), nil
}
