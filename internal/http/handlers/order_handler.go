package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"pflegebox/internal/domain"
	applog "pflegebox/internal/log"
	"pflegebox/internal/services"
	"pflegebox/internal/validate"
)

type OrderHandler struct {
	Order *services.OrderService
}

// POST /api/submit
func (h *OrderHandler) Submit(c *fiber.Ctx) error {
	var sub validate.Submission
	if err := c.BodyParser(&sub); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"reason": "bad_body"})
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	rec, err := h.Order.Submit(c.UserContext(), &sub)
	if err != nil {
		return submitFailed(c, err)
	}
	return submitted(c, rec)
}

func submitted(c *fiber.Ctx, rec domain.OrderReceipt) error {
	applog.Audit(c, "order.submit", map[string]any{
		"order_id":     rec.OrderID,
		"order_number": rec.OrderNumber,
		"customer_id":  rec.CustomerID,
	})
	return ok(c, fiber.Map{
		"customerId":  rec.CustomerID,
		"orderId":     rec.OrderID,
		"orderNumber": rec.OrderNumber,
		"createdAt":   rec.CreatedAt,
	})
}

// submitFailed maps submission errors. Store failures answer 400 with the
// underlying message, like validation failures; nothing was persisted
// either way.
func submitFailed(c *fiber.Ctx, err error) error {
	var ve *validate.Error
	if errors.As(err, &ve) {
		applog.Security(c, "order.submit.invalid", map[string]any{"field": ve.Field, "reason": ve.Msg})
		return fail(c, fiber.StatusBadRequest, ve.Error())
	}
	applog.Error(c, "order.submit.fail", err, nil)
	return fail(c, fiber.StatusBadRequest, err.Error())
}
