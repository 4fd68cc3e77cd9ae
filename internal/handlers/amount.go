package handlers

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/AnokSystem/anok-pedido-flow/internal/pricing"
)

// Amount is a decimal request field. It accepts a JSON number, a string
// using either "." or "," as decimal separator, or null. Malformed values
// (including NaN and infinities) fail decoding with pricing.ErrInvalidAmount.
type Amount struct {
	Value decimal.Decimal
	Set   bool
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*a = Amount{}
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
		if strings.TrimSpace(s) == "" {
			*a = Amount{}
			return nil
		}
	}
	d, err := pricing.ParseAmount(s)
	if err != nil {
		return err
	}
	*a = Amount{Value: d, Set: true}
	return nil
}

// Null returns the amount as a NullDecimal, invalid when absent.
func (a Amount) Null() decimal.NullDecimal {
	if !a.Set {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(a.Value)
}
