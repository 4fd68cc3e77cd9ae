package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/AnokSystem/anok-pedido-flow/gate"
	"github.com/AnokSystem/anok-pedido-flow/httpx"
	"github.com/AnokSystem/anok-pedido-flow/internal/models"
	"github.com/AnokSystem/anok-pedido-flow/internal/policy"
	"github.com/AnokSystem/anok-pedido-flow/internal/pricing"
	"github.com/AnokSystem/anok-pedido-flow/internal/services"
	"github.com/AnokSystem/anok-pedido-flow/validation"
)

type ProductHandler struct {
	db   *gorm.DB
	gate *gate.Gate[uint]
}

func NewProductHandler(db *gorm.DB, g *gate.Gate[uint]) *ProductHandler {
	return &ProductHandler{db: db, gate: g}
}

type productInput struct {
	Code        string `json:"code" validate:"required,max=50"`
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
	Unit        string `json:"unit" validate:"required"`
	UnitPrice   Amount `json:"unit_price"`
	Category    string `json:"category" validate:"max=100"`
	Active      *bool  `json:"active"`
}

// read decodes and validates a product payload. Unknown units and negative
// prices are answered with 422 and the pricing error code.
func (h *ProductHandler) read(w http.ResponseWriter, r *http.Request) (productInput, pricing.Unit, bool) {
	var in productInput
	if !decodeJSON(w, r, &in) {
		return in, "", false
	}
	v := validation.Struct(in)
	if !in.UnitPrice.Set {
		v.Add("unit_price", "required")
	}
	if invalid(w, r, v) {
		return in, "", false
	}
	unit, err := pricing.ParseUnit(in.Unit)
	if err != nil {
		httpx.Error(w, r, http.StatusUnprocessableEntity, pricing.Code(err), validation.Violations{"unit": "invalid_unit"})
		return in, "", false
	}
	if err := pricing.ValidateUnitPrice(in.UnitPrice.Value); err != nil {
		reason := "out_of_range"
		if errors.Is(err, pricing.ErrInvalidUnitPrice) {
			reason = "must_not_be_negative"
		}
		httpx.Error(w, r, http.StatusUnprocessableEntity, pricing.Code(err), validation.Violations{"unit_price": reason})
		return in, "", false
	}
	return in, unit, true
}

func (in productInput) apply(p *models.Product, unit pricing.Unit) {
	p.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	p.Name = strings.TrimSpace(in.Name)
	p.Description = strings.TrimSpace(in.Description)
	p.Unit = unit
	p.UnitPrice = in.UnitPrice.Value
	p.Category = strings.TrimSpace(in.Category)
	if in.Active != nil {
		p.Active = *in.Active
	}
}

// codeTaken reports whether another live product of the owner uses code.
func (h *ProductHandler) codeTaken(tx *gorm.DB, p *models.Product) (bool, error) {
	var count int64
	q := tx.Model(&models.Product{}).Where("user_id = ? AND code = ?", p.UserID, p.Code)
	if p.ID != 0 {
		q = q.Where("id <> ?", p.ID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// save writes p unless its code is already used by another product.
func (h *ProductHandler) save(r *http.Request, p *models.Product) error {
	return h.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		taken, err := h.codeTaken(tx, p)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: %s", services.ErrCodeTaken, p.Code)
		}
		return tx.Omit("User").Save(p).Error
	})
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	uid := currentUser(r)
	if err := h.gate.Authorize(r.Context(), uid, gate.ActionList, policy.ResourceProduct, nil); err != nil {
		serviceError(w, r, err)
		return
	}
	pageNum, limit := page(r)
	params := r.URL.Query()
	q := h.db.WithContext(r.Context()).Model(&models.Product{}).Where("user_id = ?", uid)
	if term := params.Get("q"); strings.TrimSpace(term) != "" {
		like := likePattern(term)
		q = q.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ?", like, like)
	}
	if cat := strings.TrimSpace(params.Get("category")); cat != "" {
		q = q.Where("category = ?", cat)
	}
	switch params.Get("active") {
	case "true", "1":
		q = q.Where("active = ?", true)
	case "false", "0":
		q = q.Where("active = ?", false)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		serviceError(w, r, err)
		return
	}
	var products []models.Product
	if err := q.Order("name").Limit(limit).Offset((pageNum - 1) * limit).Find(&products).Error; err != nil {
		serviceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, newList(products, total, pageNum, limit))
}

// Units lists the supported units of measure.
func (h *ProductHandler) Units(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, pricing.Units)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid := currentUser(r)
	if err := h.gate.Authorize(r.Context(), uid, gate.ActionCreate, policy.ResourceProduct, nil); err != nil {
		serviceError(w, r, err)
		return
	}
	in, unit, ok := h.read(w, r)
	if !ok {
		return
	}
	product := models.Product{UserID: uid, Active: true}
	in.apply(&product, unit)
	if err := h.save(r, &product); err != nil {
		serviceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, product)
}

// load fetches product {id} and checks that the user may perform action on it.
func (h *ProductHandler) load(w http.ResponseWriter, r *http.Request, action gate.Action) (*models.Product, bool) {
	id, ok := pathUint(w, r, "id")
	if !ok {
		return nil, false
	}
	var product models.Product
	err := h.db.WithContext(r.Context()).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httpx.Error(w, r, http.StatusNotFound, "not_found", nil)
		return nil, false
	}
	if err != nil {
		serviceError(w, r, err)
		return nil, false
	}
	if err := h.gate.Authorize(r.Context(), currentUser(r), action, policy.ResourceProduct, &product); err != nil {
		serviceError(w, r, err)
		return nil, false
	}
	return &product, true
}

func (h *ProductHandler) View(w http.ResponseWriter, r *http.Request) {
	product, ok := h.load(w, r, gate.ActionView)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

// Update changes a product. Lines already added to orders keep the unit and
// price they were created with.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	product, ok := h.load(w, r, gate.ActionUpdate)
	if !ok {
		return
	}
	in, unit, ok := h.read(w, r)
	if !ok {
		return
	}
	in.apply(product, unit)
	if err := h.save(r, product); err != nil {
		serviceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	product, ok := h.load(w, r, gate.ActionDelete)
	if !ok {
		return
	}
	if err := h.db.WithContext(r.Context()).Delete(product).Error; err != nil {
		serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
