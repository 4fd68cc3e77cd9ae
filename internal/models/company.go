package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Default numbering prefixes used when a company has not configured its own.
const (
	DefaultOrderPrefix = "PED"
	DefaultQuotePrefix = "ORC"
)

// CompanySettings represents the user's company information printed on
// orders and quotes.
type CompanySettings struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// UserID is the owner of these settings
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"-"`

	Name     string `gorm:"size:255;not null" json:"name"`
	Document string `gorm:"size:20" json:"document,omitempty"` // CNPJ or CPF
	Email    string `gorm:"size:255" json:"email,omitempty"`
	Phone    string `gorm:"size:50" json:"phone,omitempty"`

	Address    string `gorm:"size:500" json:"address,omitempty"`
	City       string `gorm:"size:100" json:"city,omitempty"`
	State      string `gorm:"size:2" json:"state,omitempty"`
	PostalCode string `gorm:"size:20" json:"postal_code,omitempty"`

	// Numbering
	OrderPrefix string `gorm:"size:10;not null" json:"order_prefix"`
	QuotePrefix string `gorm:"size:10;not null" json:"quote_prefix"`

	LogoURL string `gorm:"size:500" json:"logo_url,omitempty"`
}

// GetUserID implements the Ownable interface.
func (c *CompanySettings) GetUserID() uint {
	return c.UserID
}

// Prefix returns the numbering prefix configured for kind.
func (c *CompanySettings) Prefix(kind OrderKind) string {
	if kind == KindQuote {
		return prefixOr(c.QuotePrefix, DefaultQuotePrefix)
	}
	return prefixOr(c.OrderPrefix, DefaultOrderPrefix)
}

func prefixOr(p, def string) string {
	if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
		return p
	}
	return def
}
