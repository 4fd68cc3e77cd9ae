package services

import (
	"errors"

	"github.com/AnokSystem/anok-pedido-flow/internal/pricing"
)

// Sentinel errors. The message doubles as the API error code.
var (
	ErrNotFound           = errors.New("not_found")
	ErrClientNotFound     = errors.New("client_not_found")
	ErrProductNotFound    = errors.New("product_not_found")
	ErrProductInactive    = errors.New("product_inactive")
	ErrItemNotFound       = errors.New("item_not_found")
	ErrOrderLocked        = errors.New("order_locked")
	ErrNotAQuote          = errors.New("not_a_quote")
	ErrInvalidStatus      = errors.New("invalid_status")
	ErrInvalidKind        = errors.New("invalid_kind")
	ErrEmailTaken         = errors.New("email_taken")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrWrongPassword      = errors.New("wrong_password")
	ErrCodeTaken          = errors.New("code_already_exists")
)

var sentinels = []error{
	ErrNotFound,
	ErrClientNotFound,
	ErrProductNotFound,
	ErrProductInactive,
	ErrItemNotFound,
	ErrOrderLocked,
	ErrNotAQuote,
	ErrInvalidStatus,
	ErrInvalidKind,
	ErrEmailTaken,
	ErrInvalidCredentials,
	ErrWrongPassword,
	ErrCodeTaken,
}

// Code returns the API error code for err, covering both service and pricing
// errors, or "" for unexpected errors.
func Code(err error) string {
	for _, e := range sentinels {
		if errors.Is(err, e) {
			return e.Error()
		}
	}
	return pricing.Code(err)
}
