package handlers

import (
	"errors"
	"mime"

	"github.com/gofiber/fiber/v2"

	applog "pflegebox/internal/log"
	"pflegebox/internal/services"
)

type DocumentHandler struct {
	Docs *services.DocumentService
}

type finalizeRequest struct {
	PDFBase64 string `json:"pdfBase64"`
	Filename  string `json:"filename"`
}

// Finalize serves /api/finalize for every method; only POST is accepted.
func (h *DocumentHandler) Finalize(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		c.Set(fiber.HeaderAllow, fiber.MethodPost)
		return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{"ok": false, "error": "Method Not Allowed"})
	}
	var req finalizeRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	raw, err := h.Docs.Decode(req.PDFBase64)
	if errors.Is(err, services.ErrNoDocument) {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	if err != nil {
		applog.Error(c, "document.decode.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	out, result, err := h.Docs.Flatten(raw)
	if err != nil {
		applog.Error(c, "document.flatten.fail", err, map[string]any{"bytes": len(raw)})
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	name := services.AttachmentName(req.Filename)
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	applog.Info(c, "document.flatten", map[string]any{"bytes_in": len(raw), "bytes_out": len(out), "filename": name, "result": result})
	return c.Send(out)
}
