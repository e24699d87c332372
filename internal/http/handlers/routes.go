package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	applog "pflegebox/internal/log"
)

// LoginLimit caps admin login attempts per client and window.
type LoginLimit struct {
	Max    int
	Window time.Duration
}

var DefaultLoginLimit = LoginLimit{Max: 5, Window: 10 * time.Minute}

// Register mounts every route of the service on app.
func Register(app *fiber.App, d *Deps, ll LoginLimit) {
	if ll.Max <= 0 {
		ll = DefaultLoginLimit
	}
	requireAdmin := RequireAdmin(d.Auth)

	// Configurator
	app.Get("/api/catalog", d.CatalogHandler.List)
	app.Get("/api/configurator", d.ConfiguratorHandler.View)
	app.Delete("/api/configurator", d.ConfiguratorHandler.Reset)
	app.Post("/api/configurator/care-grade", d.ConfiguratorHandler.SetCareGrade)
	app.Post("/api/configurator/items", d.ConfiguratorHandler.AddItem)
	app.Put("/api/configurator/items", d.ConfiguratorHandler.SetQuantity)
	app.Post("/api/configurator/submit", d.ConfiguratorHandler.Submit)
	app.Post("/api/submit", d.OrderHandler.Submit)

	// Documents
	app.All("/api/finalize", d.DocumentHandler.Finalize)

	// Admin API (login throttled)
	app.Post("/api/admin/login", limiter.New(limiter.Config{
		Max:        ll.Max,
		Expiration: ll.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|admin-login"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return fail(c, fiber.StatusTooManyRequests, "too many attempts, please try again later")
		},
	}), d.AuthHandler.Login)
	app.Post("/api/admin/logout", d.AuthHandler.Logout)
	app.Get("/api/admin/session", d.AuthHandler.Session)
	app.Get("/api/admin/customers", requireAdmin, d.AdminHandler.ListCustomers)
	app.Get("/api/admin/orders", requireAdmin, d.AdminHandler.ListOrders)
	app.Get("/api/admin/orders/:id", requireAdmin, d.AdminHandler.GetOrder)

	// Admin pages
	app.Get("/admin/login", d.AuthHandler.LoginForm)
	app.Post("/admin/logout", d.AuthHandler.LogoutPage)
	app.Get("/admin", RequireAdminPage(d.Auth), d.AdminHandler.Page)

	// Ops
	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := d.DB.PingContext(c.UserContext()); err != nil {
			applog.Error(c, "healthz.db", err, nil)
			return fail(c, fiber.StatusServiceUnavailable, "database unavailable")
		}
		return ok(c, nil)
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
