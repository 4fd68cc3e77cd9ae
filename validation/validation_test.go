package validation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBasicValidators(t *testing.T) {
	v := Violations{}
	Required("name", "  ", v)
	Email("email", "not-an-email", v)
	MinLength("password", "short", 8, v)
	PositiveDecimal("quantity", decimal.Zero, v)
	NonNegativeDecimal("unit_price", decimal.NewFromInt(-1), v)
	RangeDecimal("discount", decimal.NewFromInt(101), decimal.Zero, decimal.NewFromInt(100), v)

	assert.Equal(t, Violations{
		"name":       "required",
		"email":      "invalid_email",
		"password":   "too_short",
		"quantity":   "must_be_positive",
		"unit_price": "must_not_be_negative",
		"discount":   "out_of_range",
	}, v)
}

func TestAddKeepsFirstViolation(t *testing.T) {
	v := Violations{}
	v.Add("code", "required")
	v.Add("code", "too_short")
	assert.Equal(t, "required", v["code"])
}

func TestStruct(t *testing.T) {
	type item struct {
		ProductID uint `json:"product_id" validate:"required"`
	}
	type req struct {
		ClientID uint   `json:"client_id" validate:"required"`
		Kind     string `json:"kind" validate:"omitempty,oneof=order quote"`
		Items    []item `json:"items" validate:"required,min=1,dive"`
	}

	v := Struct(req{Kind: "invoice", Items: []item{{}}})
	assert.Equal(t, "required", v["client_id"])
	assert.Equal(t, "out_of_range", v["kind"])
	assert.Equal(t, "required", v["items[0].product_id"])

	assert.True(t, Struct(req{ClientID: 1, Items: []item{{ProductID: 2}}}).Empty())
}
