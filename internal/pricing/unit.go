package pricing

import (
	"fmt"
	"strings"
)

// Unit is the unit of measure a product is sold by. It decides the pricing mode
// of the line items that reference the product.
type Unit string

const (
	UnitPiece  Unit = "piece"
	UnitArea   Unit = "area"
	UnitWeight Unit = "weight"
	UnitVolume Unit = "volume"
	UnitBox    Unit = "box"
)

// Units lists every supported unit of measure in display order.
var Units = []Unit{UnitPiece, UnitArea, UnitWeight, UnitVolume, UnitBox}

// Valid reports whether u belongs to the closed set of units.
func (u Unit) Valid() bool {
	switch u {
	case UnitPiece, UnitArea, UnitWeight, UnitVolume, UnitBox:
		return true
	}
	return false
}

// IsArea reports whether items of this unit are priced per unit of area.
func (u Unit) IsArea() bool {
	return u == UnitArea
}

// ParseUnit normalizes s and returns the matching Unit.
func ParseUnit(s string) (Unit, error) {
	u := Unit(strings.ToLower(strings.TrimSpace(s)))
	if !u.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidUnit, s)
	}
	return u, nil
}
