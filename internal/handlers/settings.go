package handlers

import (
	"net/http"

	"github.com/AnokSystem/anok-pedido-flow/httpx"
	"github.com/AnokSystem/anok-pedido-flow/internal/services"
	"github.com/AnokSystem/anok-pedido-flow/validation"
)

// SettingsHandler serves the company settings used on printed orders and
// for order numbering.
type SettingsHandler struct {
	settings *services.SettingsService
}

func NewSettingsHandler(settings *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

type settingsInput struct {
	Name        string `json:"name" validate:"max=255"`
	Document    string `json:"document" validate:"max=20"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone" validate:"max=50"`
	Address     string `json:"address" validate:"max=500"`
	City        string `json:"city" validate:"max=100"`
	State       string `json:"state" validate:"omitempty,len=2"`
	PostalCode  string `json:"postal_code" validate:"max=20"`
	OrderPrefix string `json:"order_prefix" validate:"omitempty,alphanum,max=10"`
	QuotePrefix string `json:"quote_prefix" validate:"omitempty,alphanum,max=10"`
	LogoURL     string `json:"logo_url" validate:"omitempty,url"`
}

func (h *SettingsHandler) Show(w http.ResponseWriter, r *http.Request) {
	cs, err := h.settings.Get(r.Context(), currentUser(r))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cs)
}

func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in settingsInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if invalid(w, r, validation.Struct(in)) {
		return
	}
	cs, err := h.settings.Update(r.Context(), currentUser(r), services.SettingsInput(in))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cs)
}
