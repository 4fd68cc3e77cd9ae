package pricing

import "errors"

// Sentinel errors returned by the validating entry points of this package.
// ItemValue and OrderTotal never return errors; they assume validated input.
var (
	ErrInvalidQuantity   = errors.New("invalid_quantity")
	ErrInvalidUnitPrice  = errors.New("invalid_unit_price")
	ErrMissingDimensions = errors.New("missing_dimensions")
	ErrInvalidDiscount   = errors.New("invalid_discount")
	ErrInvalidAmount     = errors.New("invalid_amount")
	ErrInvalidUnit       = errors.New("invalid_unit")
)

// Code returns the machine readable code of a pricing error, or "" when err
// does not wrap one of the sentinels above.
func Code(err error) string {
	for _, e := range []error{
		ErrInvalidQuantity,
		ErrInvalidUnitPrice,
		ErrMissingDimensions,
		ErrInvalidDiscount,
		ErrInvalidAmount,
		ErrInvalidUnit,
	} {
		if errors.Is(err, e) {
			return e.Error()
		}
	}
	return ""
}
