package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Client represents a customer.
// Implements the Ownable interface for ownership-based authorization.
type Client struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// UserID is the owner of this client (for multi-tenant isolation)
	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"-"`

	Name     string `gorm:"size:255;not null" json:"name"`
	Email    string `gorm:"size:255" json:"email,omitempty"`
	Phone    string `gorm:"size:50" json:"phone,omitempty"`
	Document string `gorm:"size:20" json:"document,omitempty"` // CNPJ or CPF

	Address    string `gorm:"size:500" json:"address,omitempty"`
	City       string `gorm:"size:100" json:"city,omitempty"`
	State      string `gorm:"size:2" json:"state,omitempty"`
	PostalCode string `gorm:"size:20" json:"postal_code,omitempty"`

	Notes string `gorm:"type:text" json:"notes,omitempty"`

	// SpecialDiscount is an optional percentage in [0, 100] applied to the
	// orders of this client.
	SpecialDiscount decimal.NullDecimal `gorm:"type:numeric(5,2)" json:"special_discount"`

	Orders []Order `gorm:"foreignKey:ClientID" json:"orders,omitempty"`
}

// GetUserID implements the Ownable interface for authorization.
func (c *Client) GetUserID() uint {
	return c.UserID
}

// Discount returns the special discount, or zero when none is set.
func (c *Client) Discount() decimal.Decimal {
	if c == nil || !c.SpecialDiscount.Valid {
		return decimal.Zero
	}
	return c.SpecialDiscount.Decimal
}

// FullAddress returns the formatted full address.
func (c *Client) FullAddress() string {
	var lines []string
	if c.Address != "" {
		lines = append(lines, c.Address)
	}
	city := c.City
	if c.State != "" {
		if city != "" {
			city += " - "
		}
		city += c.State
	}
	if c.PostalCode != "" {
		if city != "" {
			city += ", "
		}
		city += c.PostalCode
	}
	if city != "" {
		lines = append(lines, city)
	}
	return strings.Join(lines, "\n")
}
