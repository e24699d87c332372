package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"pflegebox/internal/log"
	"pflegebox/internal/services"
	"pflegebox/internal/validate"
)

type AuthHandler struct {
	Auth   *services.AuthService
	Secure bool
}

type loginRequest struct {
	Password string `json:"password" form:"password"`
}

func (h *AuthHandler) setCookie(c *fiber.Ctx, value string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     AdminCookie,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   h.Secure,
	})
}

func (h *AuthHandler) clearCookie(c *fiber.Ctx) {
	h.setCookie(c, "", time.Now().Add(-1*time.Hour))
}

// GET /admin/login
func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	if _, ok := adminSession(c, h.Auth); ok {
		return c.Redirect("/admin")
	}
	return render(c, "admin_login", fiber.Map{"Err": ""})
}

// POST /api/admin/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !validate.Password(req.Password) {
		log.Security(c, "admin.login.fail", map[string]any{"reason": "bad_password_format"})
		return fail(c, fiber.StatusUnauthorized, "invalid password")
	}

	tok, exp, err := h.Auth.Login(req.Password)
	switch {
	case errors.Is(err, services.ErrNotConfigured):
		log.Error(c, "admin.login.config", err, nil)
		return fail(c, fiber.StatusInternalServerError, "admin login is not configured")
	case err != nil:
		log.Security(c, "admin.login.fail", nil)
		return fail(c, fiber.StatusUnauthorized, "invalid password")
	}

	h.setCookie(c, tok, exp)
	log.Audit(c, "admin.login.success", map[string]any{"expires": exp.UTC().Format(time.RFC3339)})
	return ok(c, nil)
}

// POST /api/admin/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.clearCookie(c)
	log.Audit(c, "admin.logout", nil)
	return ok(c, nil)
}

// POST /admin/logout
func (h *AuthHandler) LogoutPage(c *fiber.Ctx) error {
	h.clearCookie(c)
	log.Audit(c, "admin.logout", nil)
	return c.Redirect("/admin/login")
}

// GET /api/admin/session answers 401 when nobody is logged in; clients treat
// that as the logged-out state rather than an error.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	s, loggedIn := adminSession(c, h.Auth)
	if !loggedIn {
		return fail(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return ok(c, fiber.Map{"role": s.Role, "expiresAt": s.ExpiresAt.UTC().Format(time.RFC3339)})
}
