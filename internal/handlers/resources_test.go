package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnokSystem/anok-pedido-flow/internal/models"
	"github.com/AnokSystem/anok-pedido-flow/internal/pricing"
)

func TestAuth_SignupLogin(t *testing.T) {
	env := newEnv(t, pricing.Calculator{})

	rr := env.do(http.MethodPost, "/auth/signup", map[string]string{"email": "new@example.com", "password": "longenough"}, 0)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.NotEmpty(t, rr.Result().Cookies())
	assert.NotContains(t, rr.Body.String(), "longenough")

	rr = env.do(http.MethodPost, "/auth/signup", map[string]string{"email": "new@example.com", "password": "longenough"}, 0)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "email_taken", errorCode(t, rr))

	rr = env.do(http.MethodPost, "/auth/signup", map[string]string{"email": "short@example.com", "password": "123"}, 0)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(http.MethodPost, "/auth/login", map[string]string{"email": "NEW@example.com", "password": "longenough"}, 0)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = env.do(http.MethodPost, "/auth/login", map[string]string{"email": "new@example.com", "password": "wrong-one"}, 0)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "invalid_credentials", errorCode(t, rr))
}

func TestProfile_ChangePassword(t *testing.T) {
	env := newEnv(t, pricing.Calculator{})

	rr := env.do(http.MethodGet, "/profile", nil, env.uid)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "owner@example.com", decode[models.User](t, rr).Email)

	rr = env.do(http.MethodPut, "/profile/password", map[string]string{
		"current_password": "secret123", "new_password": "newsecret1", "confirm_password": "different",
	}, env.uid)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(http.MethodPut, "/profile/password", map[string]string{
		"current_password": "nope-nope", "new_password": "newsecret1", "confirm_password": "newsecret1",
	}, env.uid)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "wrong_password", errorCode(t, rr))

	rr = env.do(http.MethodPut, "/profile/password", map[string]string{
		"current_password": "secret123", "new_password": "newsecret1", "confirm_password": "newsecret1",
	}, env.uid)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestClients_CRUD(t *testing.T) {
	env := newEnv(t, pricing.Calculator{})

	c := env.createClient(map[string]any{"name": "Gráfica Sul", "email": "sul@example.com", "state": "rs", "special_discount": "5"})
	assert.Equal(t, "RS", c.State)
	require.True(t, c.SpecialDiscount.Valid)
	requireDecimal(t, "5", c.SpecialDiscount.Decimal)

	rr := env.do(http.MethodPost, "/clients", map[string]any{"name": "Bad", "special_discount": 150}, env.uid)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "invalid_discount", errorCode(t, rr))

	rr = env.do(http.MethodPost, "/clients", map[string]any{"name": "Fine", "special_discount": "12.345"}, env.uid)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "invalid_discount", errorCode(t, rr))

	rr = env.do(http.MethodPost, "/clients", map[string]any{"email": "nameless@example.com"}, env.uid)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "validation_failed", errorCode(t, rr))

	rr = env.do(http.MethodPost, "/clients", `{"name":"X","unknown":1}`, env.uid)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid_json", errorCode(t, rr))

	path := fmt.Sprintf("/clients/%d", c.ID)
	rr = env.do(http.MethodPut, path, map[string]any{"name": "Gráfica Sul Ltda"}, env.uid)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	updated := decode[models.Client](t, rr)
	assert.Equal(t, "Gráfica Sul Ltda", updated.Name)
	assert.False(t, updated.SpecialDiscount.Valid)

	rr = env.do(http.MethodGet, "/clients?q=sul", nil, env.uid)
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[listResponse[models.Client]](t, rr)
	assert.EqualValues(t, 1, list.Total)

	other := env.otherUser()
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, path, nil, other).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodDelete, path, nil, other).Code)
	rr = env.do(http.MethodGet, "/clients", nil, other)
	assert.EqualValues(t, 0, decode[listResponse[models.Client]](t, rr).Total)

	assert.Equal(t, http.StatusNoContent, env.do(http.MethodDelete, path, nil, env.uid).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, path, nil, env.uid).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/clients/abc", nil, env.uid).Code)
}

func TestProducts_CRUD(t *testing.T) {
	env := newEnv(t, pricing.Calculator{})

	p := env.createProduct("ban-01", "area", "60,00")
	assert.Equal(t, "BAN-01", p.Code)
	assert.Equal(t, pricing.UnitArea, p.Unit)
	assert.True(t, p.Active)
	requireDecimal(t, "60", p.UnitPrice)

	rr := env.do(http.MethodPost, "/products", map[string]any{"code": "BAN-01", "name": "Dup", "unit": "piece", "unit_price": "1"}, env.uid)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "code_already_exists", errorCode(t, rr))

	rr = env.do(http.MethodPost, "/products", map[string]any{"code": "H1", "name": "Hour", "unit": "hour", "unit_price": "1"}, env.uid)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "invalid_unit", errorCode(t, rr))

	rr = env.do(http.MethodPost, "/products", map[string]any{"code": "N1", "name": "Neg", "unit": "piece", "unit_price": "-1"}, env.uid)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "invalid_unit_price", errorCode(t, rr))

	rr = env.do(http.MethodPost, "/products", map[string]any{"code": "N2", "name": "NaN", "unit": "piece", "unit_price": "NaN"}, env.uid)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "invalid_amount", errorCode(t, rr))

	rr = env.do(http.MethodPost, "/products", `{"code":"N4","name":"Huge","unit":"piece","unit_price":1e50000000}`, env.uid)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "invalid_amount", errorCode(t, rr))

	rr = env.do(http.MethodPost, "/products", map[string]any{"code": "N5", "name": "Fine", "unit": "piece", "unit_price": "0.12345"}, env.uid)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "invalid_amount", errorCode(t, rr))

	rr = env.do(http.MethodPost, "/products", map[string]any{"code": "N3", "name": "No price", "unit": "piece"}, env.uid)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	path := fmt.Sprintf("/products/%d", p.ID)
	rr = env.do(http.MethodPut, path, map[string]any{"code": "BAN-01", "name": "Banner", "unit": "area", "unit_price": "65", "active": false}, env.uid)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	updated := decode[models.Product](t, rr)
	assert.False(t, updated.Active)
	requireDecimal(t, "65", updated.UnitPrice)

	rr = env.do(http.MethodGet, "/products?active=false", nil, env.uid)
	assert.EqualValues(t, 1, decode[listResponse[models.Product]](t, rr).Total)
	rr = env.do(http.MethodGet, "/products?active=true", nil, env.uid)
	assert.EqualValues(t, 0, decode[listResponse[models.Product]](t, rr).Total)

	other := env.otherUser()
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodPut, path, map[string]any{"code": "X", "name": "X", "unit": "piece", "unit_price": "1"}, other).Code)

	// A deleted product frees its code.
	assert.Equal(t, http.StatusNoContent, env.do(http.MethodDelete, path, nil, env.uid).Code)
	env.createProduct("BAN-01", "area", "70")
}

func TestSettings(t *testing.T) {
	env := newEnv(t, pricing.Calculator{})

	rr := env.do(http.MethodGet, "/settings", nil, env.uid)
	require.Equal(t, http.StatusOK, rr.Code)
	cs := decode[models.CompanySettings](t, rr)
	assert.Equal(t, models.DefaultOrderPrefix, cs.OrderPrefix)

	rr = env.do(http.MethodPut, "/settings", map[string]string{"name": "Anok", "order_prefix": "pd", "state": "sp"}, env.uid)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	cs = decode[models.CompanySettings](t, rr)
	assert.Equal(t, "PD", cs.OrderPrefix)
	assert.Equal(t, models.DefaultQuotePrefix, cs.QuotePrefix)
	assert.Equal(t, "SP", cs.State)

	rr = env.do(http.MethodGet, "/orders/next-number", nil, env.uid)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "PD-0001", decode[map[string]string](t, rr)["number"])

	rr = env.do(http.MethodPut, "/settings", map[string]string{"order_prefix": "P D"}, env.uid)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestErrorMessagesFollowLanguage(t *testing.T) {
	env := newEnv(t, pricing.Calculator{})
	rr := env.do(http.MethodGet, "/clients/999", nil, env.uid)
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), "Registro não encontrado"))
}
