package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/AnokSystem/anok-pedido-flow/gate"
	"github.com/AnokSystem/anok-pedido-flow/internal/models"
	"github.com/AnokSystem/anok-pedido-flow/internal/policy"
)

// SettingsInput holds the editable company settings.
type SettingsInput struct {
	Name        string
	Document    string
	Email       string
	Phone       string
	Address     string
	City        string
	State       string
	PostalCode  string
	OrderPrefix string
	QuotePrefix string
	LogoURL     string
}

// SettingsService reads and writes the per user company settings. A row with
// default prefixes is created the first time settings are needed.
type SettingsService struct {
	db          *gorm.DB
	gate        *gate.Gate[uint]
	orderPrefix string
	quotePrefix string
}

// NewSettingsService uses orderPrefix and quotePrefix for lazily created
// settings; empty values fall back to PED and ORC.
func NewSettingsService(db *gorm.DB, g *gate.Gate[uint], orderPrefix, quotePrefix string) *SettingsService {
	if orderPrefix == "" {
		orderPrefix = models.DefaultOrderPrefix
	}
	if quotePrefix == "" {
		quotePrefix = models.DefaultQuotePrefix
	}
	return &SettingsService{db: db, gate: g, orderPrefix: orderPrefix, quotePrefix: quotePrefix}
}

// Get returns the settings of userID, creating defaults if needed.
func (s *SettingsService) Get(ctx context.Context, userID uint) (*models.CompanySettings, error) {
	if err := s.gate.Authorize(ctx, userID, gate.ActionView, policy.ResourceSettings, nil); err != nil {
		return nil, err
	}
	cs, err := s.load(s.db.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Authorize(ctx, userID, gate.ActionView, policy.ResourceSettings, cs); err != nil {
		return nil, err
	}
	return cs, nil
}

// Update overwrites the settings of userID with in. Empty prefixes keep the
// current ones.
func (s *SettingsService) Update(ctx context.Context, userID uint, in SettingsInput) (*models.CompanySettings, error) {
	var cs *models.CompanySettings
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if cs, err = s.load(tx, userID); err != nil {
			return err
		}
		if err := s.gate.Authorize(ctx, userID, gate.ActionUpdate, policy.ResourceSettings, cs); err != nil {
			return err
		}
		cs.Name = strings.TrimSpace(in.Name)
		cs.Document = strings.TrimSpace(in.Document)
		cs.Email = strings.TrimSpace(in.Email)
		cs.Phone = strings.TrimSpace(in.Phone)
		cs.Address = strings.TrimSpace(in.Address)
		cs.City = strings.TrimSpace(in.City)
		cs.State = strings.ToUpper(strings.TrimSpace(in.State))
		cs.PostalCode = strings.TrimSpace(in.PostalCode)
		cs.LogoURL = strings.TrimSpace(in.LogoURL)
		if p := strings.ToUpper(strings.TrimSpace(in.OrderPrefix)); p != "" {
			cs.OrderPrefix = p
		}
		if p := strings.ToUpper(strings.TrimSpace(in.QuotePrefix)); p != "" {
			cs.QuotePrefix = p
		}
		return tx.Omit("User").Save(cs).Error
	})
	if err != nil {
		return nil, err
	}
	return cs, nil
}

// load returns the settings of userID within tx, creating them with the
// default prefixes on first use.
func (s *SettingsService) load(tx *gorm.DB, userID uint) (*models.CompanySettings, error) {
	var cs models.CompanySettings
	res := tx.Where("user_id = ?", userID).Limit(1).Find(&cs)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected > 0 {
		return &cs, nil
	}
	cs = models.CompanySettings{UserID: userID, OrderPrefix: s.orderPrefix, QuotePrefix: s.quotePrefix}
	if err := tx.Omit("User").Create(&cs).Error; err != nil {
		return nil, err
	}
	return &cs, nil
}
