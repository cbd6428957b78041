package repository

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency columns are stored as TEXT holding fixed-point values so sqlite
// never coerces them through binary floating point.

func parseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid stored amount %q: %w", s, err)
	}
	return d, nil
}
