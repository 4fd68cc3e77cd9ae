package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AnokSystem/anok-pedido-flow/gate"
	"github.com/AnokSystem/anok-pedido-flow/internal/models"
	"github.com/AnokSystem/anok-pedido-flow/internal/policy"
	"github.com/AnokSystem/anok-pedido-flow/internal/pricing"
)

// OrderInput is the editable part of an order or quote.
// A DiscountPercent left invalid (absent) takes the client's special discount.
type OrderInput struct {
	Kind            models.OrderKind
	Number          string
	ClientID        uint
	DiscountPercent decimal.NullDecimal
	DeliveryDate    *time.Time
	Notes           string
	Items           []ItemInput
}

// OrderFilter narrows List results.
type OrderFilter struct {
	Kind     models.OrderKind
	Status   models.OrderStatus
	ClientID uint
	Query    string
	Page     int
	Limit    int
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func (f *OrderFilter) normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultPageSize
	}
	if f.Limit > maxPageSize {
		f.Limit = maxPageSize
	}
}

// OrderService creates, prices and transitions orders and quotes.
type OrderService struct {
	db       *gorm.DB
	gate     *gate.Gate[uint]
	calc     pricing.Calculator
	settings *SettingsService
}

func NewOrderService(db *gorm.DB, g *gate.Gate[uint], calc pricing.Calculator, settings *SettingsService) *OrderService {
	return &OrderService{db: db, gate: g, calc: calc, settings: settings}
}

// NextNumber returns the number the next order of kind would get: the
// configured prefix and the count of the owner's orders of that kind plus one.
// Two concurrent callers may get the same number; it is a display label only.
func (s *OrderService) NextNumber(ctx context.Context, userID uint, kind models.OrderKind) (string, error) {
	return s.nextNumber(s.db.WithContext(ctx), userID, kind)
}

func (s *OrderService) nextNumber(tx *gorm.DB, userID uint, kind models.OrderKind) (string, error) {
	if !kind.Valid() {
		return "", ErrInvalidKind
	}
	cs, err := s.settings.load(tx, userID)
	if err != nil {
		return "", err
	}
	var count int64
	if err := tx.Model(&models.Order{}).Where("user_id = ? AND kind = ?", userID, kind).Count(&count).Error; err != nil {
		return "", err
	}
	return pricing.SequentialNumber(cs.Prefix(kind), int(count)+1), nil
}

// Preview prices in without saving anything.
func (s *OrderService) Preview(ctx context.Context, userID uint, in OrderInput) (*models.Order, error) {
	tx := s.db.WithContext(ctx)
	client, err := s.client(tx, userID, in.ClientID)
	if err != nil {
		return nil, err
	}
	o := &models.Order{UserID: userID, Kind: kindOrDefault(in.Kind), Status: models.StatusPending, ClientID: client.ID, Client: client}
	if !o.Kind.Valid() {
		return nil, ErrInvalidKind
	}
	if err := s.fill(tx, userID, o, client, in, nil); err != nil {
		return nil, err
	}
	return o, nil
}

// Create saves a new order or quote in status pending.
func (s *OrderService) Create(ctx context.Context, userID uint, in OrderInput) (*models.Order, error) {
	if err := s.gate.Authorize(ctx, userID, gate.ActionCreate, policy.ResourceOrder, nil); err != nil {
		return nil, err
	}
	var o *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		client, err := s.client(tx, userID, in.ClientID)
		if err != nil {
			return err
		}
		kind := kindOrDefault(in.Kind)
		if !kind.Valid() {
			return ErrInvalidKind
		}
		o = &models.Order{UserID: userID, Kind: kind, Status: models.StatusPending, ClientID: client.ID}
		if err := s.fill(tx, userID, o, client, in, nil); err != nil {
			return err
		}
		if o.Number = strings.TrimSpace(in.Number); o.Number == "" {
			if o.Number, err = s.nextNumber(tx, userID, kind); err != nil {
				return err
			}
		}
		if err := tx.Omit("Client", "User").Create(o).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		o.Client = client
		return nil
	})
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Info().Str("order_id", o.ID.String()).Str("number", o.Number).
		Str("total", o.Total.String()).Msg("order created")
	return o, nil
}

// Get returns an order with its client and items.
func (s *OrderService) Get(ctx context.Context, userID uint, id uuid.UUID) (*models.Order, error) {
	return s.find(s.db.WithContext(ctx), userID, id, gate.ActionView)
}

// List returns a page of the owner's orders, newest first, and the total count.
func (s *OrderService) List(ctx context.Context, userID uint, f OrderFilter) ([]models.Order, int64, error) {
	if err := s.gate.Authorize(ctx, userID, gate.ActionList, policy.ResourceOrder, nil); err != nil {
		return nil, 0, err
	}
	f.normalize()
	q := s.db.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)
	if f.Kind != "" {
		q = q.Where("kind = ?", f.Kind)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ClientID != 0 {
		q = q.Where("client_id = ?", f.ClientID)
	}
	if term := strings.ToLower(strings.TrimSpace(f.Query)); term != "" {
		q = q.Where("LOWER(number) LIKE ?", "%"+term+"%")
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var orders []models.Order
	err := q.Preload("Client").Preload("Items", itemsByPosition).Order("created_at DESC").
		Limit(f.Limit).Offset((f.Page - 1) * f.Limit).Find(&orders).Error
	return orders, total, err
}

// Update replaces the client, discount, notes and the whole item set of an
// editable order. Old items are deleted and the new set inserted in the same
// transaction; totals are recomputed from scratch.
func (s *OrderService) Update(ctx context.Context, userID uint, id uuid.UUID, in OrderInput) (*models.Order, error) {
	var o *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if o, err = s.editable(tx, userID, id); err != nil {
			return err
		}
		client, err := s.client(tx, userID, in.ClientID)
		if err != nil {
			return err
		}
		existing := o.Items
		o.ClientID, o.Client = client.ID, client
		if err := s.fill(tx, userID, o, client, in, existing); err != nil {
			return err
		}
		if n := strings.TrimSpace(in.Number); n != "" {
			o.Number = n
		}
		return s.replaceItems(tx, o)
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// AddItem appends one line to an editable order.
func (s *OrderService) AddItem(ctx context.Context, userID uint, id uuid.UUID, in ItemInput) (*models.Order, error) {
	return s.mutateItems(ctx, userID, id, func(tx *gorm.DB, o *models.Order, d *Draft) error {
		p, err := s.product(tx, userID, in.ProductID)
		if err != nil {
			return err
		}
		_, err = d.Add(p, in)
		return err
	})
}

// RemoveItem deletes one line of an editable order.
func (s *OrderService) RemoveItem(ctx context.Context, userID uint, id, itemID uuid.UUID) (*models.Order, error) {
	return s.mutateItems(ctx, userID, id, func(_ *gorm.DB, o *models.Order, d *Draft) error {
		for i, it := range o.Items {
			if it.ID == itemID {
				return d.Remove(i)
			}
		}
		return ErrItemNotFound
	})
}

// mutateItems loads the current item set of an editable order into a draft,
// lets fn change it and saves the result with recomputed totals.
func (s *OrderService) mutateItems(ctx context.Context, userID uint, id uuid.UUID, fn func(*gorm.DB, *models.Order, *Draft) error) (*models.Order, error) {
	var o *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if o, err = s.editable(tx, userID, id); err != nil {
			return err
		}
		d, err := NewDraft(s.calc, o.DiscountPercent)
		if err != nil {
			return err
		}
		for _, it := range o.Items {
			it.Reprice()
			d.items = append(d.items, it)
		}
		if err := fn(tx, o, d); err != nil {
			return err
		}
		d.ApplyTo(o)
		return s.replaceItems(tx, o)
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Delete soft deletes an order.
func (s *OrderService) Delete(ctx context.Context, userID uint, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := s.find(tx, userID, id, gate.ActionDelete)
		if err != nil {
			return err
		}
		return tx.Delete(o).Error
	})
}

// SetStatus moves an order along its lifecycle.
func (s *OrderService) SetStatus(ctx context.Context, userID uint, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	var o *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if o, err = s.find(tx, userID, id, gate.ActionUpdate); err != nil {
			return err
		}
		if !o.CanTransition(status) {
			return fmt.Errorf("%w: %s to %s", ErrInvalidStatus, o.Status, status)
		}
		o.Status = status
		return tx.Model(o).Update("status", status).Error
	})
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Info().Str("order_id", o.ID.String()).Str("status", string(status)).Msg("order status changed")
	return o, nil
}

// ConvertQuote turns an approved quote into a new pending order with its own
// order number. The quote is marked completed and linked from the order.
func (s *OrderService) ConvertQuote(ctx context.Context, userID uint, id uuid.UUID) (*models.Order, error) {
	var order *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		quote, err := s.find(tx, userID, id, gate.ActionUpdate)
		if err != nil {
			return err
		}
		if !quote.IsQuote() {
			return ErrNotAQuote
		}
		if quote.Status != models.StatusApproved {
			return fmt.Errorf("%w: quote is %s", ErrInvalidStatus, quote.Status)
		}
		number, err := s.nextNumber(tx, userID, models.KindOrder)
		if err != nil {
			return err
		}
		order = &models.Order{
			UserID:          userID,
			Kind:            models.KindOrder,
			Number:          number,
			Status:          models.StatusPending,
			ClientID:        quote.ClientID,
			SourceQuoteID:   &quote.ID,
			DiscountPercent: quote.DiscountPercent,
			DeliveryDate:    quote.DeliveryDate,
			Notes:           quote.Notes,
		}
		for _, it := range quote.Items {
			it.ID, it.OrderID = uuid.Nil, uuid.Nil
			it.CreatedAt, it.UpdatedAt = time.Time{}, time.Time{}
			order.Items = append(order.Items, it)
		}
		order.Recalculate()
		if err := tx.Omit("Client", "User").Create(order).Error; err != nil {
			return fmt.Errorf("create order from quote: %w", err)
		}
		order.Client = quote.Client
		return tx.Model(quote).Update("status", models.StatusCompleted).Error
	})
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Info().Str("quote_id", id.String()).Str("order_id", order.ID.String()).Msg("quote converted")
	return order, nil
}

// fill resolves the discount, builds the item set from in and applies it to o.
func (s *OrderService) fill(tx *gorm.DB, userID uint, o *models.Order, client *models.Client, in OrderInput, existing []models.OrderItem) error {
	discount := client.Discount()
	if in.DiscountPercent.Valid {
		discount = in.DiscountPercent.Decimal
	}
	d, err := NewDraft(s.calc, discount)
	if err != nil {
		return err
	}
	kept := make(map[uuid.UUID]bool)
	for _, item := range in.Items {
		if item.ItemID != nil {
			prev, ok := findItem(existing, *item.ItemID)
			if !ok || kept[prev.ID] {
				return fmt.Errorf("%w: %s", ErrItemNotFound, item.ItemID)
			}
			kept[prev.ID] = true
			if _, err := d.Keep(prev, item); err != nil {
				return err
			}
			continue
		}
		p, err := s.product(tx, userID, item.ProductID)
		if err != nil {
			return err
		}
		if _, err := d.Add(p, item); err != nil {
			return err
		}
	}
	o.DeliveryDate = in.DeliveryDate
	o.Notes = strings.TrimSpace(in.Notes)
	d.ApplyTo(o)
	return nil
}

func findItem(items []models.OrderItem, id uuid.UUID) (models.OrderItem, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return models.OrderItem{}, false
}

// replaceItems deletes every stored line of o, inserts o.Items and saves the
// order columns. Kept lines are reinserted under their previous ID.
func (s *OrderService) replaceItems(tx *gorm.DB, o *models.Order) error {
	if err := tx.Where("order_id = ?", o.ID).Delete(&models.OrderItem{}).Error; err != nil {
		return fmt.Errorf("delete items: %w", err)
	}
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
	}
	if len(o.Items) > 0 {
		if err := tx.Create(&o.Items).Error; err != nil {
			return fmt.Errorf("insert items: %w", err)
		}
	}
	return tx.Model(o).Omit(clause.Associations).Select(
		"client_id", "number", "discount_percent", "subtotal", "total", "delivery_date", "notes",
	).Updates(o).Error
}

func itemsByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// find loads an order with client and items and checks that userID may
// perform action on it. Orders of other users are reported as not found.
func (s *OrderService) find(tx *gorm.DB, userID uint, id uuid.UUID, action gate.Action) (*models.Order, error) {
	var o models.Order
	err := tx.Preload("Client").Preload("Items", itemsByPosition).
		First(&o, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.gate.Authorize(tx.Statement.Context, userID, action, policy.ResourceOrder, &o); err != nil {
		return nil, ErrNotFound
	}
	return &o, nil
}

func (s *OrderService) editable(tx *gorm.DB, userID uint, id uuid.UUID) (*models.Order, error) {
	o, err := s.find(tx, userID, id, gate.ActionUpdate)
	if err != nil {
		return nil, err
	}
	if !o.CanEdit() {
		return nil, fmt.Errorf("%w: status %s", ErrOrderLocked, o.Status)
	}
	return o, nil
}

func (s *OrderService) client(tx *gorm.DB, userID, clientID uint) (*models.Client, error) {
	var c models.Client
	err := tx.Where("id = ? AND user_id = ?", clientID, userID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *OrderService) product(tx *gorm.DB, userID, productID uint) (*models.Product, error) {
	var p models.Product
	err := tx.Where("id = ? AND user_id = ?", productID, userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrProductNotFound, productID)
	}
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return nil, fmt.Errorf("%w: %s", ErrProductInactive, p.Code)
	}
	return &p, nil
}

func kindOrDefault(k models.OrderKind) models.OrderKind {
	if k == "" {
		return models.KindOrder
	}
	return k
}
