package handlers

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/AnokSystem/anok-pedido-flow/gate"
	"github.com/AnokSystem/anok-pedido-flow/httpx"
	"github.com/AnokSystem/anok-pedido-flow/internal/models"
	"github.com/AnokSystem/anok-pedido-flow/internal/policy"
	"github.com/AnokSystem/anok-pedido-flow/internal/pricing"
	"github.com/AnokSystem/anok-pedido-flow/validation"
)

type ClientHandler struct {
	db   *gorm.DB
	gate *gate.Gate[uint]
}

func NewClientHandler(db *gorm.DB, g *gate.Gate[uint]) *ClientHandler {
	return &ClientHandler{db: db, gate: g}
}

type clientInput struct {
	Name            string `json:"name" validate:"required,max=255"`
	Email           string `json:"email" validate:"omitempty,email"`
	Phone           string `json:"phone" validate:"max=50"`
	Document        string `json:"document" validate:"max=20"`
	Address         string `json:"address" validate:"max=500"`
	City            string `json:"city" validate:"max=100"`
	State           string `json:"state" validate:"omitempty,len=2"`
	PostalCode      string `json:"postal_code" validate:"max=20"`
	Notes           string `json:"notes"`
	SpecialDiscount Amount `json:"special_discount"`
}

func (in clientInput) apply(c *models.Client) {
	c.Name = strings.TrimSpace(in.Name)
	c.Email = strings.TrimSpace(in.Email)
	c.Phone = strings.TrimSpace(in.Phone)
	c.Document = strings.TrimSpace(in.Document)
	c.Address = strings.TrimSpace(in.Address)
	c.City = strings.TrimSpace(in.City)
	c.State = strings.ToUpper(strings.TrimSpace(in.State))
	c.PostalCode = strings.TrimSpace(in.PostalCode)
	c.Notes = strings.TrimSpace(in.Notes)
	c.SpecialDiscount = in.SpecialDiscount.Null()
}

// read decodes and validates a client payload. A special discount outside
// [0, 100] is answered with 422 invalid_discount.
func (h *ClientHandler) read(w http.ResponseWriter, r *http.Request) (clientInput, bool) {
	var in clientInput
	if !decodeJSON(w, r, &in) {
		return in, false
	}
	if invalid(w, r, validation.Struct(in)) {
		return in, false
	}
	if in.SpecialDiscount.Set {
		if err := pricing.ValidateDiscount(in.SpecialDiscount.Value); err != nil {
			httpx.Error(w, r, http.StatusUnprocessableEntity, pricing.Code(err), validation.Violations{"special_discount": "out_of_range"})
			return in, false
		}
	}
	return in, true
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	uid := currentUser(r)
	if err := h.gate.Authorize(r.Context(), uid, gate.ActionList, policy.ResourceClient, nil); err != nil {
		serviceError(w, r, err)
		return
	}
	pageNum, limit := page(r)
	q := h.db.WithContext(r.Context()).Model(&models.Client{}).Where("user_id = ?", uid)
	if term := r.URL.Query().Get("q"); strings.TrimSpace(term) != "" {
		like := likePattern(term)
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR document LIKE ?", like, like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		serviceError(w, r, err)
		return
	}
	var clients []models.Client
	if err := q.Order("name").Limit(limit).Offset((pageNum - 1) * limit).Find(&clients).Error; err != nil {
		serviceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, newList(clients, total, pageNum, limit))
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid := currentUser(r)
	if err := h.gate.Authorize(r.Context(), uid, gate.ActionCreate, policy.ResourceClient, nil); err != nil {
		serviceError(w, r, err)
		return
	}
	in, ok := h.read(w, r)
	if !ok {
		return
	}
	client := models.Client{UserID: uid}
	in.apply(&client)
	if err := h.db.WithContext(r.Context()).Omit("User").Create(&client).Error; err != nil {
		serviceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, client)
}

// load fetches client {id} and checks that the user may perform action on it.
func (h *ClientHandler) load(w http.ResponseWriter, r *http.Request, action gate.Action) (*models.Client, bool) {
	id, ok := pathUint(w, r, "id")
	if !ok {
		return nil, false
	}
	var client models.Client
	err := h.db.WithContext(r.Context()).First(&client, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httpx.Error(w, r, http.StatusNotFound, "not_found", nil)
		return nil, false
	}
	if err != nil {
		serviceError(w, r, err)
		return nil, false
	}
	if err := h.gate.Authorize(r.Context(), currentUser(r), action, policy.ResourceClient, &client); err != nil {
		serviceError(w, r, err)
		return nil, false
	}
	return &client, true
}

func (h *ClientHandler) View(w http.ResponseWriter, r *http.Request) {
	client, ok := h.load(w, r, gate.ActionView)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, client)
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	client, ok := h.load(w, r, gate.ActionUpdate)
	if !ok {
		return
	}
	in, ok := h.read(w, r)
	if !ok {
		return
	}
	in.apply(client)
	if err := h.db.WithContext(r.Context()).Omit("User", "Orders").Save(client).Error; err != nil {
		serviceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, client)
}

func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	client, ok := h.load(w, r, gate.ActionDelete)
	if !ok {
		return
	}
	if err := h.db.WithContext(r.Context()).Delete(client).Error; err != nil {
		serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

