package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/AnokSystem/anok-pedido-flow/internal/pricing"
)

// OrderKind distinguishes firm orders from quotes. Both share the same table
// and numbering scheme with different prefixes.
type OrderKind string

const (
	KindOrder OrderKind = "order"
	KindQuote OrderKind = "quote"
)

// Valid reports whether k is a known kind.
func (k OrderKind) Valid() bool {
	return k == KindOrder || k == KindQuote
}

// OrderStatus represents the lifecycle state of an order or quote.
type OrderStatus string

const (
	StatusPending      OrderStatus = "pending"
	StatusApproved     OrderStatus = "approved"
	StatusInProduction OrderStatus = "in_production"
	StatusCompleted    OrderStatus = "completed"
	StatusCancelled    OrderStatus = "cancelled"
)

// Statuses lists every status in lifecycle order.
var Statuses = []OrderStatus{StatusPending, StatusApproved, StatusInProduction, StatusCompleted, StatusCancelled}

var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:      {StatusApproved, StatusCancelled},
	StatusApproved:     {StatusInProduction, StatusCancelled},
	StatusInProduction: {StatusCompleted, StatusCancelled},
}

// Quotes never go to production; they complete by being converted.
var quoteTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:  {StatusApproved, StatusCancelled},
	StatusApproved: {StatusCancelled},
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsFinal reports whether no further transition is possible from s.
func (s OrderStatus) IsFinal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Order is a customer order or quote. Its ID is a server generated UUID;
// Number is a display label and is not unique.
// Implements the Ownable interface for ownership-based authorization.
type Order struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// UserID is the owner of this order (for multi-tenant isolation)
	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"-"`

	Kind   OrderKind   `gorm:"size:10;not null;index" json:"kind"`
	Number string      `gorm:"size:30;not null" json:"number"`
	Status OrderStatus `gorm:"size:20;not null" json:"status"`

	ClientID uint    `gorm:"index;not null" json:"client_id"`
	Client   *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`

	// SourceQuoteID links an order to the quote it was converted from.
	SourceQuoteID *uuid.UUID `gorm:"type:uuid" json:"source_quote_id,omitempty"`

	DiscountPercent decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"discount_percent"`
	Subtotal        decimal.Decimal `gorm:"type:numeric;not null" json:"subtotal"`
	Total           decimal.Decimal `gorm:"type:numeric;not null" json:"total"`

	DeliveryDate *time.Time `json:"delivery_date,omitempty"`
	Notes        string     `gorm:"type:text" json:"notes,omitempty"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// BeforeCreate assigns a UUID when none was set.
func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// GetUserID implements the Ownable interface for authorization.
func (o *Order) GetUserID() uint {
	return o.UserID
}

// IsQuote reports whether o is a quote.
func (o *Order) IsQuote() bool {
	return o.Kind == KindQuote
}

// CanEdit reports whether the item set may still change.
func (o *Order) CanEdit() bool {
	return o.Status == StatusPending || o.Status == StatusApproved
}

// CanTransition reports whether o may move to next.
func (o *Order) CanTransition(next OrderStatus) bool {
	table := orderTransitions
	if o.IsQuote() {
		table = quoteTransitions
	}
	for _, s := range table[o.Status] {
		if s == next {
			return true
		}
	}
	return false
}

// Recalculate recomputes Subtotal and Total from the full item set. Items are
// expected to be priced already (see OrderItem.Reprice).
func (o *Order) Recalculate() {
	o.Subtotal = pricing.Subtotal(o.Items)
	o.Total = pricing.OrderTotal(o.Items, o.DiscountPercent)
}

// AfterFind recomputes the totals when the items were loaded with the order.
// Stored totals are a copy for reporting; the items stay authoritative.
func (o *Order) AfterFind(*gorm.DB) error {
	if o.Items != nil {
		o.Recalculate()
	}
	return nil
}

// DiscountAmount is the part of the subtotal taken off by the discount.
func (o *Order) DiscountAmount() decimal.Decimal {
	return o.Subtotal.Sub(o.Total)
}

// OrderItem is one line of an order. Unit and UnitPrice are copied from the
// product when the line is added and never follow later product changes.
type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	OrderID uuid.UUID `gorm:"type:uuid;index;not null" json:"order_id"`

	ProductID   uint   `gorm:"index;not null" json:"product_id"`
	ProductCode string `gorm:"size:50" json:"product_code,omitempty"`
	Description string `gorm:"size:500;not null" json:"description"`

	Unit      pricing.Unit        `gorm:"size:20;not null" json:"unit"`
	Quantity  decimal.Decimal     `gorm:"type:numeric(14,4);not null" json:"quantity"`
	UnitPrice decimal.Decimal     `gorm:"type:numeric(14,4);not null" json:"unit_price"`
	Width     decimal.NullDecimal `gorm:"type:numeric(10,4)" json:"width"`
	Height    decimal.NullDecimal `gorm:"type:numeric(10,4)" json:"height"`

	// Derived: value for one unit of quantity, and quantity × UnitValue.
	UnitValue decimal.Decimal `gorm:"type:numeric;not null" json:"unit_value"`
	Total     decimal.Decimal `gorm:"type:numeric;not null" json:"line_total"`

	Notes    string `gorm:"size:500" json:"notes,omitempty"`
	Position int    `gorm:"default:0" json:"position"`
}

// BeforeCreate assigns a UUID when none was set.
func (it *OrderItem) BeforeCreate(*gorm.DB) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	return nil
}

// Line returns the pricing inputs of the item.
func (it OrderItem) Line() pricing.Line {
	return pricing.Line{
		Quantity:  it.Quantity,
		UnitPrice: it.UnitPrice,
		Unit:      it.Unit,
		Width:     it.Width,
		Height:    it.Height,
	}
}

// LineTotal implements pricing.Valued.
func (it OrderItem) LineTotal() decimal.Decimal {
	return it.Total
}

// Reprice recomputes UnitValue and Total from the stored inputs.
func (it *OrderItem) Reprice() {
	l := it.Line()
	it.UnitValue = pricing.UnitValue(l)
	it.Total = pricing.ItemValue(l)
}

// AfterFind reprices the item from its inputs, which are stored at their
// full precision, so loaded values never drift from ItemValue.
func (it *OrderItem) AfterFind(*gorm.DB) error {
	it.Reprice()
	return nil
}
