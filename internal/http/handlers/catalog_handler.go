package handlers

import (
	"github.com/gofiber/fiber/v2"

	"pflegebox/internal/services"
)

type CatalogHandler struct {
	Catalog *services.CatalogService
}

// GET /api/catalog
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	return ok(c, fiber.Map{"data": h.Catalog.List()})
}
