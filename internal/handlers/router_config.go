package handlers

import (
	"gorm.io/gorm"

	"github.com/AnokSystem/anok-pedido-flow/gate"
	"github.com/AnokSystem/anok-pedido-flow/internal/policy"
	"github.com/AnokSystem/anok-pedido-flow/internal/pricing"
	"github.com/AnokSystem/anok-pedido-flow/internal/services"
)

// RouterConfig holds the configured handlers and the services they share.
type RouterConfig struct {
	Gate *gate.Gate[uint]

	AuthHandler      *AuthHandler
	ProfileHandler   *ProfileHandler
	ClientHandler    *ClientHandler
	ProductHandler   *ProductHandler
	OrderHandler     *OrderHandler
	SettingsHandler  *SettingsHandler
	DashboardHandler *DashboardHandler

	Users    *services.UserService
	Orders   *services.OrderService
	Settings *services.SettingsService
}

// Options tune the pricing and numbering behavior of the services.
type Options struct {
	Calculator  pricing.Calculator
	OrderPrefix string
	QuotePrefix string
}

// NewRouterConfig wires the ownership gate, services and handlers on db.
func NewRouterConfig(db *gorm.DB, opts Options) *RouterConfig {
	g := policy.NewGate()

	settings := services.NewSettingsService(db, g, opts.OrderPrefix, opts.QuotePrefix)
	users := services.NewUserService(db, settings)
	orders := services.NewOrderService(db, g, opts.Calculator, settings)

	return &RouterConfig{
		Gate:             g,
		AuthHandler:      NewAuthHandler(users),
		ProfileHandler:   NewProfileHandler(users),
		ClientHandler:    NewClientHandler(db, g),
		ProductHandler:   NewProductHandler(db, g),
		OrderHandler:     NewOrderHandler(orders),
		SettingsHandler:  NewSettingsHandler(settings),
		DashboardHandler: NewDashboardHandler(services.NewDashboardService(db)),
		Users:            users,
		Orders:           orders,
		Settings:         settings,
	}
}
