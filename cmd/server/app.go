package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/AnokSystem/anok-pedido-flow/auth"
	"github.com/AnokSystem/anok-pedido-flow/httpx"
	"github.com/AnokSystem/anok-pedido-flow/i18n"
	"github.com/AnokSystem/anok-pedido-flow/internal/db"
	"github.com/AnokSystem/anok-pedido-flow/internal/handlers"
	"github.com/AnokSystem/anok-pedido-flow/internal/logging"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux       *http.ServeMux
	db        *gorm.DB
	routerCfg *handlers.RouterConfig
	handler   http.Handler
}

// NewApp creates a new application with all routes configured.
func NewApp(conn *gorm.DB, routerCfg *handlers.RouterConfig, logger zerolog.Logger) *App {
	app := &App{
		mux:       http.NewServeMux(),
		db:        conn,
		routerCfg: routerCfg,
	}
	app.setupRoutes()
	// The session is resolved first so the request log carries the user id.
	app.handler = auth.Middleware(
		logging.Middleware(logger)(
			logging.Recover(
				i18n.Middleware(app.mux))))
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// setupRoutes configures all application routes. Every resource accepts the
// REST verbs and the POST forms used by HTML clients.
func (a *App) setupRoutes() {
	// ─────────────────────────────────────────────────────────────────────────
	// Public routes (no auth required)
	// ─────────────────────────────────────────────────────────────────────────
	ah := a.routerCfg.AuthHandler
	a.mux.HandleFunc("GET /healthz", a.health)
	a.mux.HandleFunc("POST /signup", ah.Signup)
	a.mux.HandleFunc("POST /login", ah.Login)
	a.mux.HandleFunc("POST /logout", ah.Logout)
	a.mux.HandleFunc("GET /units", a.routerCfg.ProductHandler.Units)

	// ─────────────────────────────────────────────────────────────────────────
	// Authenticated routes
	// ─────────────────────────────────────────────────────────────────────────
	prh := a.routerCfg.ProfileHandler
	a.handle("GET /profile", prh.Show)
	a.handle("POST /profile", prh.Update)
	a.handle("PUT /profile", prh.Update)
	a.handle("POST /profile/password", prh.ChangePassword)

	a.handle("GET /dashboard", a.routerCfg.DashboardHandler.Show)

	sh := a.routerCfg.SettingsHandler
	a.handle("GET /settings", sh.Show)
	a.handle("POST /settings", sh.Update)
	a.handle("PUT /settings", sh.Update)

	ch := a.routerCfg.ClientHandler
	a.handle("GET /clients", ch.List)
	a.handle("POST /clients", ch.Create)
	a.handle("GET /clients/{id}", ch.View)
	a.handle("POST /clients/{id}", ch.Update)
	a.handle("PUT /clients/{id}", ch.Update)
	a.handle("POST /clients/{id}/delete", ch.Delete)
	a.handle("DELETE /clients/{id}", ch.Delete)

	ph := a.routerCfg.ProductHandler
	a.handle("GET /products", ph.List)
	a.handle("POST /products", ph.Create)
	a.handle("GET /products/{id}", ph.View)
	a.handle("POST /products/{id}", ph.Update)
	a.handle("PUT /products/{id}", ph.Update)
	a.handle("POST /products/{id}/delete", ph.Delete)
	a.handle("DELETE /products/{id}", ph.Delete)

	oh := a.routerCfg.OrderHandler
	a.handle("GET /orders", oh.List)
	a.handle("POST /orders", oh.Create)
	a.handle("GET /orders/next-number", oh.NextNumber)
	a.handle("POST /orders/preview", oh.Preview)
	a.handle("GET /orders/{id}", oh.View)
	a.handle("POST /orders/{id}", oh.Update)
	a.handle("PUT /orders/{id}", oh.Update)
	a.handle("POST /orders/{id}/delete", oh.Delete)
	a.handle("DELETE /orders/{id}", oh.Delete)
	a.handle("POST /orders/{id}/items", oh.AddItem)
	a.handle("POST /orders/{id}/items/{itemID}/delete", oh.RemoveItem)
	a.handle("DELETE /orders/{id}/items/{itemID}", oh.RemoveItem)
	a.handle("POST /orders/{id}/status", oh.SetStatus)
	a.handle("POST /orders/{id}/convert", oh.Convert)
}

// handle registers fn behind auth.RequireAuth.
func (a *App) handle(pattern string, fn http.HandlerFunc) {
	a.mux.Handle(pattern, auth.RequireAuth(fn))
}

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := db.Ping(ctx, a.db); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("health check failed")
		httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
