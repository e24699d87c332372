package handlers

import "github.com/gofiber/fiber/v2"

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if s := c.Locals("admin"); s != nil {
		data["Admin"] = s
	}
	return c.Render(tmpl, data)
}

// ok writes a successful JSON result. Extra keys sit next to "ok".
func ok(c *fiber.Ctx, data fiber.Map) error {
	out := fiber.Map{"ok": true}
	for k, v := range data {
		out[k] = v
	}
	return c.JSON(out)
}

// fail writes {"ok": false, "error": msg} with status.
func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"ok": false, "error": msg})
}
