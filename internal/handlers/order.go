package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AnokSystem/anok-pedido-flow/httpx"
	"github.com/AnokSystem/anok-pedido-flow/internal/models"
	"github.com/AnokSystem/anok-pedido-flow/internal/services"
	"github.com/AnokSystem/anok-pedido-flow/validation"
)

const dateLayout = "2006-01-02"

type OrderHandler struct {
	orders *services.OrderService
}

func NewOrderHandler(orders *services.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type itemInput struct {
	ItemID    *uuid.UUID `json:"item_id"`
	ProductID uint       `json:"product_id"`
	Quantity  Amount     `json:"quantity"`
	Width     Amount     `json:"width"`
	Height    Amount     `json:"height"`
	Notes     string     `json:"notes" validate:"max=500"`
}

func (in itemInput) toService() services.ItemInput {
	return services.ItemInput{
		ItemID:    in.ItemID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity.Value,
		Width:     in.Width.Null(),
		Height:    in.Height.Null(),
		Notes:     strings.TrimSpace(in.Notes),
	}
}

type orderInput struct {
	Kind            string      `json:"kind" validate:"omitempty,oneof=order quote"`
	Number          string      `json:"number" validate:"max=30"`
	ClientID        uint        `json:"client_id" validate:"required"`
	DiscountPercent Amount      `json:"discount_percent"`
	DeliveryDate    string      `json:"delivery_date"`
	Notes           string      `json:"notes"`
	Items           []itemInput `json:"items" validate:"dive"`
}

// orderResponse adds the discount amount to the stored order fields.
type orderResponse struct {
	*models.Order
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

func respond(o *models.Order) orderResponse {
	return orderResponse{Order: o, DiscountAmount: o.DiscountAmount()}
}

// parseDate accepts a calendar date or an RFC 3339 timestamp.
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// read decodes an order payload into the service input.
func (h *OrderHandler) read(w http.ResponseWriter, r *http.Request) (services.OrderInput, bool) {
	var in orderInput
	if !decodeJSON(w, r, &in) {
		return services.OrderInput{}, false
	}
	v := validation.Struct(in)
	delivery, err := parseDate(in.DeliveryDate)
	if err != nil {
		v.Add("delivery_date", "invalid")
	}
	if invalid(w, r, v) {
		return services.OrderInput{}, false
	}
	out := services.OrderInput{
		Kind:            models.OrderKind(in.Kind),
		Number:          in.Number,
		ClientID:        in.ClientID,
		DiscountPercent: in.DiscountPercent.Null(),
		DeliveryDate:    delivery,
		Notes:           in.Notes,
		Items:           make([]services.ItemInput, 0, len(in.Items)),
	}
	for _, it := range in.Items {
		out.Items = append(out.Items, it.toService())
	}
	return out, true
}

// NextNumber answers the number the next order (or quote with ?kind=quote)
// would receive.
func (h *OrderHandler) NextNumber(w http.ResponseWriter, r *http.Request) {
	kind := models.OrderKind(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = models.KindOrder
	}
	number, err := h.orders.NextNumber(r.Context(), currentUser(r), kind)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"kind": string(kind), "number": number})
}

// Preview prices an order payload without saving it.
func (h *OrderHandler) Preview(w http.ResponseWriter, r *http.Request) {
	in, ok := h.read(w, r)
	if !ok {
		return
	}
	o, err := h.orders.Preview(r.Context(), currentUser(r), in)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, respond(o))
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.read(w, r)
	if !ok {
		return
	}
	o, err := h.orders.Create(r.Context(), currentUser(r), in)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, respond(o))
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pageNum, limit := page(r)
	f := services.OrderFilter{
		Kind:   models.OrderKind(q.Get("kind")),
		Status: models.OrderStatus(q.Get("status")),
		Query:  q.Get("q"),
		Page:   pageNum,
		Limit:  limit,
	}
	if raw := q.Get("client_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			httpx.Error(w, r, http.StatusBadRequest, "validation_failed", validation.Violations{"client_id": "invalid"})
			return
		}
		f.ClientID = uint(id)
	}
	orders, total, err := h.orders.List(r.Context(), currentUser(r), f)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, newList(orders, total, pageNum, limit))
}

func (h *OrderHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	o, err := h.orders.Get(r.Context(), currentUser(r), id)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, respond(o))
}

// Update replaces the client, discount, notes and items of an order.
// Items carrying an item_id keep their stored unit and price.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	in, ok := h.read(w, r)
	if !ok {
		return
	}
	o, err := h.orders.Update(r.Context(), currentUser(r), id, in)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, respond(o))
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.orders.Delete(r.Context(), currentUser(r), id); err != nil {
		serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *OrderHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var in itemInput
	if !decodeJSON(w, r, &in) {
		return
	}
	v := validation.Struct(in)
	if in.ProductID == 0 {
		v.Add("product_id", "required")
	}
	if invalid(w, r, v) {
		return
	}
	in.ItemID = nil
	o, err := h.orders.AddItem(r.Context(), currentUser(r), id, in.toService())
	if err != nil {
		serviceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, respond(o))
}

func (h *OrderHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	itemID, ok := pathUUID(w, r, "itemID")
	if !ok {
		return
	}
	o, err := h.orders.RemoveItem(r.Context(), currentUser(r), id, itemID)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, respond(o))
}

type statusInput struct {
	Status string `json:"status" validate:"required"`
}

func (h *OrderHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var in statusInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if invalid(w, r, validation.Struct(in)) {
		return
	}
	o, err := h.orders.SetStatus(r.Context(), currentUser(r), id, models.OrderStatus(in.Status))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, respond(o))
}

// Convert turns an approved quote into a new order.
func (h *OrderHandler) Convert(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	o, err := h.orders.ConvertQuote(r.Context(), currentUser(r), id)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, respond(o))
}
