/*
Package coin defines the value held by accounts and custody instances.

The ledger knows a single denomination, so a value is just a non-negative
integer. All arithmetic is checked: an operation that would overflow or go
below zero returns an error instead of wrapping around.
*/
package coin

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/iov-one/custody/errors"
)

// MaxAmount is the largest value an account can hold.
const MaxAmount Amount = math.MaxUint64

// Amount is a non-negative quantity of the ledger's native unit.
type Amount uint64

// IsZero returns true if there is no value.
func (a Amount) IsZero() bool {
	return a == 0
}

// IsPositive returns true if the amount holds any value.
func (a Amount) IsPositive() bool {
	return a > 0
}

// Add combines two amounts. Returns ErrOverflow if the result would not fit.
func (a Amount) Add(b Amount) (Amount, error) {
	sum := a + b
	if sum < a {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d + %d", a, b)
	}
	return sum, nil
}

// Subtract takes given value away. Returns ErrInsufficientFunds if the
// result would be negative.
func (a Amount) Subtract(b Amount) (Amount, error) {
	if b > a {
		return 0, errors.Wrapf(errors.ErrInsufficientFunds, "%d - %d", a, b)
	}
	return a - b, nil
}

// Compare returns 1 if a is larger, -1 if b is larger and 0 if equal.
func (a Amount) Compare(b Amount) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}

// Validate returns an error if the amount cannot be used to move funds.
// A zero amount is not a valid transfer value.
func (a Amount) Validate() error {
	if a == 0 {
		return errors.Wrap(errors.ErrAmount, "zero amount")
	}
	return nil
}

func (a Amount) String() string {
	return strconv.FormatUint(uint64(a), 10)
}

// ParseAmount decodes a decimal representation of an amount.
func ParseAmount(s string) (Amount, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrAmount, "invalid amount %q", s)
	}
	return Amount(n), nil
}

// Sum adds all given amounts together.
func Sum(amounts ...Amount) (Amount, error) {
	var total Amount
	for _, a := range amounts {
		var err error
		if total, err = total.Add(a); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// UnmarshalJSON accepts both a JSON number and a decimal string. Strings
// allow values that do not fit into a float without loss.
func (a *Amount) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		s = string(raw)
	}
	n, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = n
	return nil
}
