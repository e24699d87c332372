package handlers

import (
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	applog "pflegebox/internal/log"
)

const friendlyError = "Etwas ist schiefgelaufen. Bitte versuchen Sie es erneut."

type AppOptions struct {
	Views fiber.Views
	// BodyLimit caps request bodies; finalize uploads are base64 PDFs.
	BodyLimit int
	// RateLimit is the per-IP request budget per minute.
	RateLimit  int
	LoginLimit LoginLimit
	AccessLog  io.Writer
}

// NewApp builds the fiber app with the middleware stack and every route.
func NewApp(d *Deps, o AppOptions) *fiber.App {
	if o.BodyLimit <= 0 {
		o.BodyLimit = 8 << 20
	}
	if o.RateLimit <= 0 {
		o.RateLimit = 120
	}
	if o.AccessLog == nil {
		o.AccessLog = os.Stdout
	}

	app := fiber.New(fiber.Config{
		Views:        o.Views,
		BodyLimit:    o.BodyLimit,
		ErrorHandler: ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{Output: o.AccessLog}))
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        o.RateLimit,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := c.Path()
			return p == "/healthz" || p == "/metrics"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return fail(c, fiber.StatusTooManyRequests, "rate limit exceeded, retry soon")
		},
	}))

	Register(app, d, o.LoginLimit)

	app.Use(func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})
	return app
}

// ErrorHandler logs server errors and answers without leaking internals:
// JSON under /api, the error page everywhere else.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := friendlyError
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		code, msg = fe.Code, fe.Message
	}
	if code >= fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
	}
	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(code).JSON(fiber.Map{"ok": false, "error": msg})
	}
	if rerr := c.Status(code).Render("notfound", fiber.Map{"Message": msg}); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}
