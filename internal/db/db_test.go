package db

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/AnokSystem/anok-pedido-flow/internal/config"
	"github.com/AnokSystem/anok-pedido-flow/internal/models"
)

func memoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	d, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := d.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, Migrate(d, nil))
	return d
}

func TestSeedIdempotent(t *testing.T) {
	d := memoryDB(t)
	require.NoError(t, Seed(d))
	require.NoError(t, Seed(d))

	var users, products, clients, settings int64
	d.Model(&models.User{}).Where("email = ?", DemoEmail).Count(&users)
	d.Model(&models.Product{}).Count(&products)
	d.Model(&models.Client{}).Count(&clients)
	d.Model(&models.CompanySettings{}).Count(&settings)
	assert.EqualValues(t, 1, users)
	assert.EqualValues(t, len(demoProducts), products)
	assert.EqualValues(t, 1, clients)
	assert.EqualValues(t, 1, settings)

	var p models.Product
	require.NoError(t, d.Where("code = ?", "CAN-PER").First(&p).Error)
	assert.Equal(t, "0.2", p.UnitPrice.String())
	assert.True(t, p.Active)
}

func TestConnectSQLite(t *testing.T) {
	cfg := config.DatabaseConfig{Driver: DriverSQLite, SQLitePath: "file::memory:"}
	conn, err := Connect(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, Ping(context.Background(), conn))
	require.NoError(t, Migrate(conn, &config.Config{Database: cfg}))
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestNormalizeDSN(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{`"postgres://u:p@h:5432/db?sslmode=disable"`, "postgres://u:p@h:5432/db?sslmode=disable"},
		{"host=h  user=u\tdbname=d", "host=h user=u dbname=d sslmode=disable"},
		{"host=h user=u dbname=d sslmode=require", "host=h user=u dbname=d sslmode=require"},
		{"not a dsn", "not a dsn"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeDSN(tt.in), tt.in)
	}
}

func TestToURLDSN(t *testing.T) {
	got := ToURLDSN("host=db port=5432 user=app password=secret dbname=pedidos sslmode=disable")
	assert.Equal(t, "postgres://app:secret@db:5432/pedidos?sslmode=disable", got)
	assert.Equal(t, "host=db", ToURLDSN("host=db"))
	assert.Equal(t, "postgres://x", ToURLDSN("postgres://x"))
}

func TestMaskDSN(t *testing.T) {
	assert.Equal(t, "host=h password=*** user=u", MaskDSN("host=h password=secret user=u"))
	assert.Equal(t, "postgres://u:***@h/db", MaskDSN("postgres://u:secret@h/db"))
}
