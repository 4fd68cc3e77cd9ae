package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/AnokSystem/anok-pedido-flow/internal/pricing"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestGetUserID(t *testing.T) {
	assert.Equal(t, uint(42), (&Product{UserID: 42}).GetUserID())
	assert.Equal(t, uint(123), (&Client{UserID: 123}).GetUserID())
	assert.Equal(t, uint(456), (&Order{UserID: 456}).GetUserID())
	assert.Equal(t, uint(7), (&CompanySettings{UserID: 7}).GetUserID())
}

func TestClient_FullAddress(t *testing.T) {
	tests := []struct {
		name   string
		client Client
		want   string
	}{
		{
			name:   "full address",
			client: Client{Address: "Rua A, 10", City: "Curitiba", State: "PR", PostalCode: "80000-000"},
			want:   "Rua A, 10\nCuritiba - PR, 80000-000",
		},
		{"only city", Client{City: "Curitiba"}, "Curitiba"},
		{"address and city", Client{Address: "Rua A, 10", City: "Curitiba"}, "Rua A, 10\nCuritiba"},
		{"empty", Client{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.client.FullAddress())
		})
	}
}

func TestClient_Discount(t *testing.T) {
	var nilClient *Client
	assert.True(t, nilClient.Discount().IsZero())
	assert.True(t, (&Client{}).Discount().IsZero())
	c := &Client{SpecialDiscount: decimal.NewNullDecimal(dec("12.5"))}
	assert.True(t, dec("12.5").Equal(c.Discount()))
}

func TestCompanySettings_Prefix(t *testing.T) {
	var s CompanySettings
	assert.Equal(t, "PED", s.Prefix(KindOrder))
	assert.Equal(t, "ORC", s.Prefix(KindQuote))
	s.OrderPrefix, s.QuotePrefix = " op ", "qt"
	assert.Equal(t, "OP", s.Prefix(KindOrder))
	assert.Equal(t, "QT", s.Prefix(KindQuote))
}

func TestOrder_Status(t *testing.T) {
	tests := []struct {
		name    string
		status  OrderStatus
		canEdit bool
		final   bool
	}{
		{"pending", StatusPending, true, false},
		{"approved", StatusApproved, true, false},
		{"in production", StatusInProduction, false, false},
		{"completed", StatusCompleted, false, true},
		{"cancelled", StatusCancelled, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Order{Status: tt.status}
			assert.Equal(t, tt.canEdit, o.CanEdit())
			assert.Equal(t, tt.final, tt.status.IsFinal())
			assert.True(t, tt.status.Valid())
		})
	}
	assert.False(t, OrderStatus("shipped").Valid())
}

func TestOrder_CanTransition(t *testing.T) {
	o := &Order{Kind: KindOrder, Status: StatusPending}
	assert.True(t, o.CanTransition(StatusApproved))
	assert.True(t, o.CanTransition(StatusCancelled))
	assert.False(t, o.CanTransition(StatusCompleted))

	o.Status = StatusInProduction
	assert.True(t, o.CanTransition(StatusCompleted))

	o.Status = StatusCancelled
	assert.False(t, o.CanTransition(StatusPending))

	q := &Order{Kind: KindQuote, Status: StatusApproved}
	assert.False(t, q.CanTransition(StatusInProduction))
	assert.True(t, q.CanTransition(StatusCancelled))
}

func TestOrder_Recalculate(t *testing.T) {
	items := []OrderItem{
		{Unit: pricing.UnitArea, Quantity: dec("1"), UnitPrice: dec("60.00"),
			Width: decimal.NewNullDecimal(dec("2")), Height: decimal.NewNullDecimal(dec("1.5"))},
		{Unit: pricing.UnitPiece, Quantity: dec("1000"), UnitPrice: dec("0.20")},
	}
	for i := range items {
		items[i].Reprice()
	}
	assert.True(t, dec("180").Equal(items[0].UnitValue))
	assert.True(t, dec("180").Equal(items[0].Total))
	assert.True(t, dec("0.2").Equal(items[1].UnitValue))
	assert.True(t, dec("200").Equal(items[1].Total))

	o := &Order{Items: items, DiscountPercent: dec("10")}
	o.Recalculate()
	assert.True(t, dec("380").Equal(o.Subtotal))
	assert.True(t, dec("342").Equal(o.Total))
	assert.True(t, dec("38").Equal(o.DiscountAmount()))

	o.Items = o.Items[:1]
	o.Recalculate()
	assert.True(t, dec("162").Equal(o.Total))

	o.Items = nil
	o.Recalculate()
	assert.True(t, o.Total.IsZero())
}

func TestOrder_PersistsWithUUID(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(All()...))

	o := &Order{
		UserID: 1, Kind: KindOrder, Number: "PED-0001", Status: StatusPending, ClientID: 1,
		DiscountPercent: dec("5"),
		Items: []OrderItem{{ProductID: 1, Description: "Banner", Unit: pricing.UnitArea,
			Quantity: dec("2"), UnitPrice: dec("35.5"),
			Width: decimal.NewNullDecimal(dec("1.2")), Height: decimal.NewNullDecimal(dec("0.8"))}},
	}
	o.Items[0].Reprice()
	o.Recalculate()
	require.NoError(t, db.Create(o).Error)
	require.NotEqual(t, uuid.Nil, o.ID)
	require.NotEqual(t, uuid.Nil, o.Items[0].ID)

	var got Order
	require.NoError(t, db.Preload("Items").First(&got, "id = ?", o.ID).Error)
	require.Len(t, got.Items, 1)
	assert.True(t, dec("68.16").Equal(got.Items[0].Total), got.Items[0].Total.String())
	assert.True(t, dec("64.752").Equal(got.Total), got.Total.String())
	assert.True(t, got.Items[0].Width.Valid)
}

func TestOrder_ReloadRepricesItems(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(All()...))

	o := &Order{
		UserID: 1, Kind: KindOrder, Number: "PED-0001", Status: StatusPending, ClientID: 1,
		DiscountPercent: dec("12.34"),
		Items: []OrderItem{{ProductID: 1, Description: "Banner", Unit: pricing.UnitArea,
			Quantity: dec("1.0001"), UnitPrice: dec("1.0001"),
			Width: decimal.NewNullDecimal(dec("1.0001")), Height: decimal.NewNullDecimal(dec("1.0001"))}},
	}
	o.Items[0].Reprice()
	o.Recalculate()
	require.NoError(t, db.Create(o).Error)

	// Stored copies are overwritten; the loaded values follow the inputs.
	require.NoError(t, db.Model(&OrderItem{}).Where("id = ?", o.Items[0].ID).UpdateColumn("total", 1).Error)
	require.NoError(t, db.Model(&Order{}).Where("id = ?", o.ID).UpdateColumn("total", 1).Error)

	var got Order
	require.NoError(t, db.Preload("Items").First(&got, "id = ?", o.ID).Error)
	require.Len(t, got.Items, 1)
	line := got.Items[0]
	assert.True(t, dec("1.0004000600040001").Equal(line.Total), line.Total.String())
	assert.True(t, pricing.ItemValue(line.Line()).Equal(line.Total))
	assert.True(t, pricing.OrderTotal(got.Items, got.DiscountPercent).Equal(got.Total), got.Total.String())
	assert.True(t, dec("12.34").Equal(got.DiscountPercent))

	var bare Order
	require.NoError(t, db.First(&bare, "id = ?", o.ID).Error)
	assert.Nil(t, bare.Items)
	assert.True(t, dec("1").Equal(bare.Total), "without items the stored total is kept")
}
