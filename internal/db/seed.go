package db

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/AnokSystem/anok-pedido-flow/internal/models"
	"github.com/AnokSystem/anok-pedido-flow/internal/pricing"
)

// Demo account created by Seed.
const (
	DemoEmail    = "demo@pedidos.local"
	DemoPassword = "demo12345"
)

var demoProducts = []struct {
	Code, Name, Category string
	Unit                 pricing.Unit
	Price                string
}{
	{"BAN-LONA", "Banner em lona 440g", "Impressão", pricing.UnitArea, "60.00"},
	{"ADE-VINIL", "Adesivo vinil recortado", "Impressão", pricing.UnitArea, "85.50"},
	{"CAR-VIS", "Cartão de visita (cento)", "Gráfica", pricing.UnitBox, "45.00"},
	{"CAN-PER", "Caneta personalizada", "Brindes", pricing.UnitPiece, "0.20"},
	{"TIN-LIT", "Tinta acrílica", "Insumos", pricing.UnitVolume, "32.90"},
}

// Seed inserts a demo user with company settings, a client and a product
// catalog. Existing rows are left untouched so it can run repeatedly.
func Seed(conn *gorm.DB) error {
	return conn.Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.Where("email = ?", DemoEmail).First(&user).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			hash, herr := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
			if herr != nil {
				return herr
			}
			user = models.User{Email: DemoEmail, Name: "Demo", Password: string(hash)}
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("seed user: %w", err)
			}
		case err != nil:
			return err
		}

		settings := models.CompanySettings{
			UserID:      user.ID,
			Name:        "Gráfica Demo",
			OrderPrefix: models.DefaultOrderPrefix,
			QuotePrefix: models.DefaultQuotePrefix,
		}
		if err := tx.Where(models.CompanySettings{UserID: user.ID}).FirstOrCreate(&settings).Error; err != nil {
			return fmt.Errorf("seed settings: %w", err)
		}

		client := models.Client{
			UserID:          user.ID,
			Name:            "Cliente Exemplo",
			Email:           "cliente@exemplo.com",
			City:            "Curitiba",
			State:           "PR",
			SpecialDiscount: decimal.NewNullDecimal(decimal.NewFromInt(5)),
		}
		if err := tx.Where(models.Client{UserID: user.ID, Name: client.Name}).FirstOrCreate(&client).Error; err != nil {
			return fmt.Errorf("seed client: %w", err)
		}

		for _, dp := range demoProducts {
			p := models.Product{
				UserID:    user.ID,
				Code:      dp.Code,
				Name:      dp.Name,
				Category:  dp.Category,
				Unit:      dp.Unit,
				UnitPrice: decimal.RequireFromString(dp.Price),
				Active:    true,
			}
			if err := tx.Where(models.Product{UserID: user.ID, Code: dp.Code}).FirstOrCreate(&p).Error; err != nil {
				return fmt.Errorf("seed product %s: %w", dp.Code, err)
			}
		}
		return nil
	})
}
