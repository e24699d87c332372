package handlers

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "pflegebox/internal/log"
	"pflegebox/internal/services"
	"pflegebox/internal/validate"
)

type AdminHandler struct {
	Customers *services.CustomerService
	Orders    *services.OrderService
}

// GET /admin
func (h *AdminHandler) Page(c *fiber.Ctx) error {
	customerID := c.Query("customerId")
	if customerID != "" {
		if _, ok := validate.ID(customerID); !ok {
			customerID = ""
		}
	}
	customers, err := h.Customers.List(c.UserContext())
	if err != nil {
		applog.Error(c, "admin.customers.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Kunden konnten nicht geladen werden."})
	}
	orders, err := h.Orders.List(c.UserContext(), customerID)
	if err != nil {
		applog.Error(c, "admin.orders.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Bestellungen konnten nicht geladen werden."})
	}
	return render(c, "admin", fiber.Map{"Customers": customers, "Orders": orders, "CustomerID": customerID})
}

// GET /api/admin/customers
func (h *AdminHandler) ListCustomers(c *fiber.Ctx) error {
	customers, err := h.Customers.List(c.UserContext())
	if err != nil {
		applog.Error(c, "admin.customers.list.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	return ok(c, fiber.Map{"customers": customers})
}

// GET /api/admin/orders?customerId=
func (h *AdminHandler) ListOrders(c *fiber.Ctx) error {
	customerID := c.Query("customerId")
	if customerID != "" {
		if _, valid := validate.ID(customerID); !valid {
			applog.Security(c, "validation.fail", map[string]any{"field": "customerId"})
			return fail(c, fiber.StatusBadRequest, "invalid customerId")
		}
	}
	orders, err := h.Orders.List(c.UserContext(), customerID)
	if err != nil {
		applog.Error(c, "admin.orders.list.fail", err, nil)
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	return ok(c, fiber.Map{"orders": orders})
}

// GET /api/admin/orders/:id
func (h *AdminHandler) GetOrder(c *fiber.Ctx) error {
	id, valid := validate.ID(c.Params("id"))
	if !valid {
		return fail(c, fiber.StatusNotFound, "order not found")
	}
	o, items, err := h.Orders.Get(c.UserContext(), id)
	if errors.Is(err, sql.ErrNoRows) {
		return fail(c, fiber.StatusNotFound, "order not found")
	}
	if err != nil {
		applog.Error(c, "admin.orders.get.fail", err, map[string]any{"order_id": id})
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	cust, err := h.Customers.Get(c.UserContext(), o.CustomerID)
	if err != nil {
		applog.Error(c, "admin.orders.get.fail", err, map[string]any{"order_id": id, "customer_id": o.CustomerID})
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	return ok(c, fiber.Map{"order": o, "items": items, "customer": cust})
}
