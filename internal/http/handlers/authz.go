package handlers

import (
	"github.com/gofiber/fiber/v2"

	"pflegebox/internal/domain"
	applog "pflegebox/internal/log"
	"pflegebox/internal/services"
)

// AdminCookie carries the signed admin session token.
const AdminCookie = "pb_admin"

// adminSession verifies the admin cookie on every call; there is no
// server-side session state to consult.
func adminSession(c *fiber.Ctx, auth *services.AuthService) (*domain.AdminSession, bool) {
	tok := c.Cookies(AdminCookie)
	if tok == "" {
		return nil, false
	}
	s, err := auth.Verify(tok)
	if err != nil {
		applog.Security(c, "access.denied.admin", map[string]any{"reason": err.Error()})
		return nil, false
	}
	return s, true
}

// RequireAdmin guards the admin JSON API with a 401.
func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, ok := adminSession(c, auth)
		if !ok {
			return fail(c, fiber.StatusUnauthorized, "unauthorized")
		}
		c.Locals("admin", s)
		return c.Next()
	}
}

// RequireAdminPage guards admin HTML pages by redirecting to the login form.
func RequireAdminPage(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, ok := adminSession(c, auth)
		if !ok {
			return c.Redirect("/admin/login")
		}
		c.Locals("admin", s)
		return c.Next()
	}
}
