package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AnokSystem/anok-pedido-flow/internal/models"
	"github.com/AnokSystem/anok-pedido-flow/internal/pricing"
)

// ItemInput describes one line of an order as submitted by the user.
// ItemID, when set, refers to an existing line of the order being edited
// whose unit and unit price snapshot is kept.
type ItemInput struct {
	ItemID    *uuid.UUID
	ProductID uint
	Quantity  decimal.Decimal
	Width     decimal.NullDecimal
	Height    decimal.NullDecimal
	Notes     string
}

// Draft is an order under construction, held in memory until saved. Every
// change recomputes the totals from the full item set.
type Draft struct {
	calc     pricing.Calculator
	discount decimal.Decimal
	items    []models.OrderItem
}

// NewDraft returns an empty draft with the given discount percentage.
func NewDraft(calc pricing.Calculator, discountPercent decimal.Decimal) (*Draft, error) {
	if err := pricing.ValidateDiscount(discountPercent); err != nil {
		return nil, err
	}
	return &Draft{calc: calc, discount: discountPercent}, nil
}

// Add appends a line for product p. Unit and unit price are copied from the
// product as they are now.
func (d *Draft) Add(p *models.Product, in ItemInput) (*models.OrderItem, error) {
	if p == nil {
		return nil, ErrProductNotFound
	}
	it := models.OrderItem{
		ProductID:   p.ID,
		ProductCode: p.Code,
		Description: p.Name,
		Unit:        p.Unit,
		UnitPrice:   p.UnitPrice,
	}
	return d.add(it, in)
}

// Keep appends a line reusing the ID and snapshot of an existing item with
// new quantity, dimensions and notes.
func (d *Draft) Keep(existing models.OrderItem, in ItemInput) (*models.OrderItem, error) {
	it := models.OrderItem{
		ID:          existing.ID,
		CreatedAt:   existing.CreatedAt,
		ProductID:   existing.ProductID,
		ProductCode: existing.ProductCode,
		Description: existing.Description,
		Unit:        existing.Unit,
		UnitPrice:   existing.UnitPrice,
	}
	return d.add(it, in)
}

func (d *Draft) add(it models.OrderItem, in ItemInput) (*models.OrderItem, error) {
	it.Quantity = in.Quantity
	it.Notes = in.Notes
	if it.Unit.IsArea() {
		it.Width, it.Height = in.Width, in.Height
	}
	if err := d.calc.Validate(it.Line()); err != nil {
		return nil, fmt.Errorf("item %d: %w", len(d.items)+1, err)
	}
	it.Reprice()
	it.Position = len(d.items)
	d.items = append(d.items, it)
	return &d.items[len(d.items)-1], nil
}

// Remove drops the line at index i and renumbers the remaining positions.
func (d *Draft) Remove(i int) error {
	if i < 0 || i >= len(d.items) {
		return ErrItemNotFound
	}
	d.items = append(d.items[:i], d.items[i+1:]...)
	for j := range d.items {
		d.items[j].Position = j
	}
	return nil
}

// SetDiscount changes the discount percentage.
func (d *Draft) SetDiscount(discountPercent decimal.Decimal) error {
	if err := pricing.ValidateDiscount(discountPercent); err != nil {
		return err
	}
	d.discount = discountPercent
	return nil
}

// Items returns a copy of the lines.
func (d *Draft) Items() []models.OrderItem {
	return append([]models.OrderItem(nil), d.items...)
}

// Len returns the number of lines.
func (d *Draft) Len() int { return len(d.items) }

// Totals recomputes the order totals from every line.
func (d *Draft) Totals() pricing.Totals {
	lineTotals := make([]decimal.Decimal, len(d.items))
	for i, it := range d.items {
		lineTotals[i] = it.Total
	}
	// Discount was validated when set.
	t, _ := d.calc.Order(lineTotals, d.discount)
	return t
}

// ApplyTo replaces the items and discount of o with the draft's and
// recomputes its totals.
func (d *Draft) ApplyTo(o *models.Order) {
	o.Items = d.Items()
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
	}
	o.DiscountPercent = d.discount
	o.Recalculate()
}
