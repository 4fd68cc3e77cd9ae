package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/AnokSystem/anok-pedido-flow/internal/models"
	"github.com/AnokSystem/anok-pedido-flow/internal/policy"
	"github.com/AnokSystem/anok-pedido-flow/internal/pricing"
)

type fixture struct {
	db       *gorm.DB
	orders   *OrderService
	settings *SettingsService
	users    *UserService
	user     *models.User
	client   *models.Client
	banner   *models.Product
	pen      *models.Product
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func nd(s string) decimal.NullDecimal { return decimal.NewNullDecimal(dec(s)) }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func newFixture(t *testing.T, calc pricing.Calculator) *fixture {
	t.Helper()
	db := newTestDB(t)
	g := policy.NewGate()
	settings := NewSettingsService(db, g, "", "")
	f := &fixture{
		db:       db,
		settings: settings,
		orders:   NewOrderService(db, g, calc, settings),
		users:    NewUserService(db, settings),
	}
	user, err := f.users.Signup(context.Background(), "Owner@Example.com", "secret123", "Owner")
	require.NoError(t, err)
	f.user = user
	f.client = f.addClient(t, user.ID, decimal.NullDecimal{})
	f.banner = f.addProduct(t, user.ID, "BAN", pricing.UnitArea, "60.00")
	f.pen = f.addProduct(t, user.ID, "PEN", pricing.UnitPiece, "0.20")
	return f
}

func (f *fixture) addClient(t *testing.T, userID uint, discount decimal.NullDecimal) *models.Client {
	t.Helper()
	c := &models.Client{UserID: userID, Name: "Cliente", SpecialDiscount: discount}
	require.NoError(t, f.db.Create(c).Error)
	return c
}

func (f *fixture) addProduct(t *testing.T, userID uint, code string, unit pricing.Unit, price string) *models.Product {
	t.Helper()
	p := &models.Product{UserID: userID, Code: code, Name: code + " product", Unit: unit, UnitPrice: dec(price), Active: true}
	require.NoError(t, f.db.Create(p).Error)
	return p
}

func (f *fixture) secondUser(t *testing.T) *models.User {
	t.Helper()
	u, err := f.users.Signup(context.Background(), "other@example.com", "secret123", "Other")
	require.NoError(t, err)
	return u
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got)
}
