package charge

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"escrow-charge/internal/errors"
)

// Limits on accepted numbers. Comparing or printing a decimal rescales its
// coefficient, so an exponent like 1e100000000 would expand to a
// hundred-million-digit integer.
const (
	maxNumberText = 64
	maxDigits     = 30
	maxExponent   = 32
	minExponent   = -32
)

// ParseAmount parses a milestone amount; non-numeric or out-of-range text is an InvalidAmount error
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := parseNumber(s)
	if err != nil {
		return decimal.Decimal{}, errors.Wrap(errors.TypeInvalidAmount, "milestone amount is not a number", err)
	}
	return d, nil
}

// ParseBudget parses a project budget; non-numeric or out-of-range text is an InvalidBudget error
func ParseBudget(s string) (decimal.Decimal, error) {
	d, err := parseNumber(s)
	if err != nil {
		return decimal.Decimal{}, errors.Wrap(errors.TypeInvalidBudget, "project budget is not a number", err)
	}
	return d, nil
}

func parseNumber(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if len(s) > maxNumberText {
		return decimal.Decimal{}, fmt.Errorf("number is longer than %d characters", maxNumberText)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if err := checkRange(d); err != nil {
		return decimal.Decimal{}, err
	}
	return d, nil
}

// checkRange bounds the exponent and coefficient size of d
func checkRange(d decimal.Decimal) error {
	if exp := d.Exponent(); exp > maxExponent || exp < minExponent {
		return fmt.Errorf("exponent %d is outside [%d, %d]", exp, minExponent, maxExponent)
	}
	if n := len(new(big.Int).Abs(d.Coefficient()).String()); n > maxDigits {
		return fmt.Errorf("%d significant digits exceed the limit of %d", n, maxDigits)
	}
	return nil
}
