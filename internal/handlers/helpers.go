// Package handlers exposes the JSON API over HTTP.
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/AnokSystem/anok-pedido-flow/auth"
	"github.com/AnokSystem/anok-pedido-flow/gate"
	"github.com/AnokSystem/anok-pedido-flow/httpx"
	"github.com/AnokSystem/anok-pedido-flow/internal/pricing"
	"github.com/AnokSystem/anok-pedido-flow/internal/services"
	"github.com/AnokSystem/anok-pedido-flow/validation"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func currentUser(r *http.Request) uint {
	uid, _ := auth.UserIDFromContext(r.Context())
	return uid
}

// decodeJSON reads the request body into dst and answers 400 (or 422 for
// malformed amounts) when it cannot.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.Decode(r, dst); err != nil {
		if errors.Is(err, pricing.ErrInvalidAmount) {
			httpx.Error(w, r, http.StatusUnprocessableEntity, pricing.ErrInvalidAmount.Error(), nil)
			return false
		}
		httpx.Error(w, r, http.StatusBadRequest, "invalid_json", nil)
		return false
	}
	return true
}

// invalid answers 400 validation_failed when v has violations.
func invalid(w http.ResponseWriter, r *http.Request, v validation.Violations) bool {
	if v.Empty() {
		return false
	}
	httpx.Error(w, r, http.StatusBadRequest, "validation_failed", v)
	return true
}

func pathUint(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue(name), 10, 64)
	if err != nil || id == 0 {
		httpx.Error(w, r, http.StatusNotFound, "not_found", nil)
		return 0, false
	}
	return uint(id), true
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		httpx.Error(w, r, http.StatusNotFound, "not_found", nil)
		return uuid.Nil, false
	}
	return id, true
}

// page reads the page and limit query parameters.
func page(r *http.Request) (pageNum, limit int) {
	q := r.URL.Query()
	pageNum, _ = strconv.Atoi(q.Get("page"))
	if pageNum < 1 {
		pageNum = 1
	}
	limit, _ = strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return pageNum, limit
}

func likePattern(q string) string {
	return "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
}

// listResponse is the envelope of every paginated list.
type listResponse[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

func newList[T any](items []T, total int64, pageNum, limit int) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{Items: items, Total: total, Page: pageNum, Limit: limit}
}

// statusFor maps an API error code to its HTTP status.
func statusFor(code string) int {
	switch code {
	case "not_found":
		return http.StatusNotFound
	case "invalid_credentials":
		return http.StatusUnauthorized
	case "order_locked", "invalid_status", "not_a_quote", "email_taken", "code_already_exists":
		return http.StatusConflict
	case "wrong_password", "invalid_kind":
		return http.StatusBadRequest
	case "":
		return http.StatusInternalServerError
	}
	// Pricing errors and references to unknown or inactive clients, products and items.
	return http.StatusUnprocessableEntity
}

// serviceError writes the response for an error returned by a service.
// Authorization failures are reported as not found.
func serviceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, gate.ErrUnauthorized) {
		httpx.Error(w, r, http.StatusNotFound, "not_found", nil)
		return
	}
	code := services.Code(err)
	status := statusFor(code)
	if status == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		code = "internal_error"
	}
	var details any
	if code != "" && err.Error() != code {
		details = err.Error()
	}
	if status == http.StatusInternalServerError {
		details = nil
	}
	httpx.Error(w, r, status, code, details)
}
