package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/AnokSystem/anok-pedido-flow/internal/pricing"
)

// Product represents something the company sells.
// Implements the Ownable interface for ownership-based authorization.
type Product struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// UserID is the owner of this product (for multi-tenant isolation)
	UserID uint `gorm:"index:idx_product_user_code;not null" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"-"`

	// Code is unique per owner among live products; enforced by the service.
	Code        string          `gorm:"size:50;not null;index:idx_product_user_code" json:"code"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	Unit        pricing.Unit    `gorm:"size:20;not null" json:"unit"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(14,4);not null" json:"unit_price"`

	Category string `gorm:"size:100" json:"category,omitempty"`
	Active   bool   `gorm:"not null" json:"active"`
}

// GetUserID implements the Ownable interface for authorization.
func (p *Product) GetUserID() uint {
	return p.UserID
}

// IsAreaPriced reports whether items of this product are priced by area.
func (p *Product) IsAreaPriced() bool {
	return p.Unit.IsArea()
}
