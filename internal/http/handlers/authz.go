package handlers

import (
	applog "bergambar/internal/log"
	"bergambar/internal/services"

	"github.com/gofiber/fiber/v2"
)

// LoadUser attaches the signed-in user, if any, to the request so
// templates and handlers see one consistent session value.
func LoadUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := auth.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	}
}

// RequireUser enforces that a user is logged in; otherwise redirect to login.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if viewer(c) != nil {
			return c.Next()
		}
		sid := c.Cookies("sid")
		if sid == "" {
			return c.Redirect("/login")
		}
		u, err := auth.CurrentUser(sid)
		if err != nil || u == nil {
			applog.Security(c, "access.denied.session", map[string]any{"path": c.Path()})
			return c.Redirect("/login")
		}
		c.Locals("user", u)
		return c.Next()
	}
}
