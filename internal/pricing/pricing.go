// Package pricing turns selected products, quantities and optional area
// dimensions into line item values and order totals.
//
// All amounts are decimal.Decimal so that values such as 0.20 × 1000 are exact.
// No rounding happens here; rounding to cents is a presentation concern.
package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Input limits. Quantities, prices and dimensions carry at most AmountScale
// decimal places, discounts at most DiscountScale. The integer digit limits
// match the numeric(14,4) and numeric(10,4) columns that store them.
const (
	AmountScale      = 4
	DiscountScale    = 2
	AmountDigits     = 10
	DimensionDigits  = 6
	maxAmountLength  = 64
	maxExponentScale = 32
)

// fits reports whether d has at most intDigits integer digits and at most
// scale significant decimal places. The exponent is bounded before any
// rescaling so huge exponents are rejected without materializing them.
func fits(d decimal.Decimal, intDigits, scale int) bool {
	exp := int(d.Exponent())
	if exp > intDigits || exp < -maxExponentScale {
		return false
	}
	if d.NumDigits()+exp > intDigits+maxExponentScale {
		return false
	}
	if !d.Truncate(int32(scale)).Equal(d) {
		return false
	}
	limit := decimal.New(1, int32(intDigits))
	return d.Abs().LessThan(limit)
}

// Line holds the inputs of a single line item valuation.
type Line struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Unit      Unit
	Width     decimal.NullDecimal
	Height    decimal.NullDecimal
}

// hasDimensions reports whether both width and height are present and positive.
func (l Line) hasDimensions() bool {
	return l.Width.Valid && l.Width.Decimal.IsPositive() &&
		l.Height.Valid && l.Height.Decimal.IsPositive()
}

// AreaApplied reports whether the area multiplier takes part in the valuation.
func (l Line) AreaApplied() bool {
	return l.Unit.IsArea() && l.hasDimensions()
}

// ItemValue computes the monetary value of a line.
//
// Area priced lines with both dimensions present are valued as
// quantity × unitPrice × width × height. Every other line, including an area
// line whose width or height is missing or not positive, is valued as
// quantity × unitPrice.
func ItemValue(l Line) decimal.Decimal {
	return l.Quantity.Mul(UnitValue(l))
}

// UnitValue is the value of one unit of quantity of the line: the unit price,
// multiplied by width × height when the area multiplier applies.
func UnitValue(l Line) decimal.Decimal {
	if l.AreaApplied() {
		return l.UnitPrice.Mul(l.Width.Decimal).Mul(l.Height.Decimal)
	}
	return l.UnitPrice
}

// Valued is implemented by anything carrying a computed line total.
type Valued interface {
	LineTotal() decimal.Decimal
}

// Subtotal sums the line totals of items.
func Subtotal[V Valued](items []V) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

// OrderTotal applies a single percentage discount to the sum of the line totals:
// subtotal × (1 − discountPercent/100). An empty collection totals zero.
// discountPercent is not range checked here; see Calculator.Order.
func OrderTotal[V Valued](items []V, discountPercent decimal.Decimal) decimal.Decimal {
	return applyDiscount(Subtotal(items), discountPercent)
}

func applyDiscount(subtotal, discountPercent decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(discountPercent.Div(hundred))
	return subtotal.Mul(factor)
}

// Totals is the order level breakdown returned by Calculator.Order.
type Totals struct {
	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	Total           decimal.Decimal `json:"total"`
}

// Calculator is the validating front of ItemValue and OrderTotal. The zero
// value keeps the flat fallback for area lines without dimensions.
type Calculator struct {
	// RequireDimensions rejects area lines without positive width and height
	// with ErrMissingDimensions instead of pricing them per piece.
	RequireDimensions bool
}

// Validate checks a line against the preconditions of ItemValue.
func (c Calculator) Validate(l Line) error {
	if !l.Quantity.IsPositive() {
		return fmt.Errorf("%w: quantity must be greater than zero", ErrInvalidQuantity)
	}
	if !fits(l.Quantity, AmountDigits, AmountScale) {
		return fmt.Errorf("%w: quantity allows %d integer digits and %d decimals", ErrInvalidAmount, AmountDigits, AmountScale)
	}
	if err := ValidateUnitPrice(l.UnitPrice); err != nil {
		return err
	}
	if !l.Unit.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidUnit, l.Unit)
	}
	for name, d := range map[string]decimal.NullDecimal{"width": l.Width, "height": l.Height} {
		if !d.Valid {
			continue
		}
		if d.Decimal.IsNegative() {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidAmount, name)
		}
		if !fits(d.Decimal, DimensionDigits, AmountScale) {
			return fmt.Errorf("%w: %s allows %d integer digits and %d decimals", ErrInvalidAmount, name, DimensionDigits, AmountScale)
		}
	}
	if c.RequireDimensions && l.Unit.IsArea() && !l.hasDimensions() {
		return fmt.Errorf("%w: area priced items need width and height", ErrMissingDimensions)
	}
	return nil
}

// Item validates l and returns its value.
func (c Calculator) Item(l Line) (decimal.Decimal, error) {
	if err := c.Validate(l); err != nil {
		return decimal.Zero, err
	}
	return ItemValue(l), nil
}

// Order validates the discount and returns the full breakdown for items.
func (c Calculator) Order(lineTotals []decimal.Decimal, discountPercent decimal.Decimal) (Totals, error) {
	if err := ValidateDiscount(discountPercent); err != nil {
		return Totals{}, err
	}
	subtotal := decimal.Zero
	for _, v := range lineTotals {
		subtotal = subtotal.Add(v)
	}
	total := applyDiscount(subtotal, discountPercent)
	return Totals{
		Subtotal:        subtotal,
		DiscountPercent: discountPercent,
		DiscountAmount:  subtotal.Sub(total),
		Total:           total,
	}, nil
}

// ValidateDiscount checks that d is a percentage in [0, 100] with at most
// DiscountScale decimal places.
func ValidateDiscount(d decimal.Decimal) error {
	if !fits(d, 3, DiscountScale) || d.IsNegative() || d.GreaterThan(hundred) {
		return fmt.Errorf("%w: discount must be between 0 and 100 with at most %d decimals", ErrInvalidDiscount, DiscountScale)
	}
	return nil
}

// ValidateUnitPrice checks that d is a non-negative price that fits the
// stored precision.
func ValidateUnitPrice(d decimal.Decimal) error {
	if d.IsNegative() {
		return fmt.Errorf("%w: unit price must not be negative", ErrInvalidUnitPrice)
	}
	if !fits(d, AmountDigits, AmountScale) {
		return fmt.Errorf("%w: unit price allows %d integer digits and %d decimals", ErrInvalidAmount, AmountDigits, AmountScale)
	}
	return nil
}

// ParseAmount parses a user supplied decimal. Both "12.5" and "12,5" are
// accepted. Empty, non-numeric, NaN and infinite input fail with ErrInvalidAmount,
// and so do values with more than AmountDigits integer digits or more than
// AmountScale decimal places. Field specific limits are left to Calculator
// and ValidateDiscount.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty value", ErrInvalidAmount)
	}
	if len(s) > maxAmountLength {
		return decimal.Zero, fmt.Errorf("%w: value too long", ErrInvalidAmount)
	}
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if !fits(d, AmountDigits, AmountScale) {
		return decimal.Zero, fmt.Errorf("%w: %q is out of range", ErrInvalidAmount, s)
	}
	return d, nil
}

// ParseOptionalAmount is ParseAmount for optional fields: empty input yields
// an invalid (absent) NullDecimal.
func ParseOptionalAmount(s string) (decimal.NullDecimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := ParseAmount(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}
