package handlers

import (
	"errors"

	applog "bergambar/internal/log"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler is the app-wide fiber error handler. Client errors show the
// not-found page; anything else gets a generic message with no details.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Something went wrong. Please try again."
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < 500 {
		code, msg = fe.Code, "Page not found"
		if fe.Code == fiber.StatusRequestEntityTooLarge {
			msg = "That request was too large."
		}
	}
	applog.Error(c, "server.error", err, map[string]any{"status": code})
	if rerr := notFound(c, code, msg); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}

// CSRFFailed answers a request whose CSRF token is missing or stale.
func CSRFFailed(c *fiber.Ctx, err error) error {
	applog.Security(c, "csrf.fail", map[string]any{"form_present": c.FormValue("csrf") != ""})
	return notFound(c, fiber.StatusForbidden, "Security check failed. Please refresh and try again.")
}
