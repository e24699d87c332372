package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"pflegebox/internal/domain"
	applog "pflegebox/internal/log"
	"pflegebox/internal/services"
	"pflegebox/internal/validate"
)

// ConfiguratorCookie identifies the configurator session and its draft cart.
const ConfiguratorCookie = "pb_cfg"

type ConfiguratorHandler struct {
	Configurator *services.ConfiguratorService
	Secure       bool
}

func (h *ConfiguratorHandler) ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies(ConfiguratorCookie)
	if _, valid := validate.ID(sid); !valid {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     ConfiguratorCookie,
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   h.Secure,
		})
	}
	return sid
}

type careGradeRequest struct {
	CareGrade domain.CareGrade `json:"careGrade"`
}

type itemRequest struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Quantity  *int   `json:"quantity"`
}

type configuratorSubmitRequest struct {
	Customer validate.CustomerInput `json:"customer"`
}

func (h *ConfiguratorHandler) respond(c *fiber.Ctx, v services.ConfiguratorView, err error) error {
	var ve *validate.Error
	switch {
	case err == nil:
		return ok(c, fiber.Map{"cart": v})
	case errors.Is(err, domain.ErrBudgetExceeded):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"ok": false, "error": err.Error(), "cart": v})
	case errors.Is(err, services.ErrCareGradeRequired):
		return fail(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &ve):
		applog.Security(c, "validation.fail", map[string]any{"field": ve.Field})
		return fail(c, fiber.StatusBadRequest, ve.Error())
	}
	applog.Error(c, "configurator.store.fail", err, nil)
	return fail(c, fiber.StatusInternalServerError, "could not update your care box")
}

// GET /api/configurator
func (h *ConfiguratorHandler) View(c *fiber.Ctx) error {
	v, err := h.Configurator.View(c.UserContext(), h.ensureSID(c))
	return h.respond(c, v, err)
}

// POST /api/configurator/care-grade
func (h *ConfiguratorHandler) SetCareGrade(c *fiber.Ctx) error {
	var req careGradeRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	v, err := h.Configurator.SetCareGrade(c.UserContext(), h.ensureSID(c), req.CareGrade)
	return h.respond(c, v, err)
}

func parseItem(c *fiber.Ctx) (itemRequest, bool) {
	var req itemRequest
	if err := c.BodyParser(&req); err != nil {
		return req, false
	}
	pid, okID := validate.ID(req.ProductID)
	size, okSize := validate.Size(req.Size)
	if !okID || !okSize {
		applog.Security(c, "validation.fail", map[string]any{"field": "item"})
		return req, false
	}
	req.ProductID, req.Size = pid, size
	return req, true
}

// POST /api/configurator/items adds one unit.
func (h *ConfiguratorHandler) AddItem(c *fiber.Ctx) error {
	req, valid := parseItem(c)
	if !valid {
		return fail(c, fiber.StatusBadRequest, "invalid item")
	}
	v, err := h.Configurator.AddItem(c.UserContext(), h.ensureSID(c), req.ProductID, req.Size)
	return h.respond(c, v, err)
}

// PUT /api/configurator/items sets a line's quantity; 0 removes it.
func (h *ConfiguratorHandler) SetQuantity(c *fiber.Ctx) error {
	req, valid := parseItem(c)
	if !valid || req.Quantity == nil || *req.Quantity > validate.MaxQuantity {
		return fail(c, fiber.StatusBadRequest, "invalid item")
	}
	v, err := h.Configurator.SetQuantity(c.UserContext(), h.ensureSID(c), req.ProductID, req.Size, *req.Quantity)
	return h.respond(c, v, err)
}

// DELETE /api/configurator
func (h *ConfiguratorHandler) Reset(c *fiber.Ctx) error {
	if err := h.Configurator.Reset(c.UserContext(), h.ensureSID(c)); err != nil {
		applog.Error(c, "configurator.reset.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, "could not reset your care box")
	}
	return ok(c, nil)
}

// POST /api/configurator/submit
func (h *ConfiguratorHandler) Submit(c *fiber.Ctx) error {
	var req configuratorSubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	rec, err := h.Configurator.Submit(c.UserContext(), h.ensureSID(c), req.Customer)
	if err != nil {
		return submitFailed(c, err)
	}
	return submitted(c, rec)
}
