package handlers

import (
	"errors"
	"strconv"

	"bergambar/internal/domain"
	applog "bergambar/internal/log"

	"github.com/gofiber/fiber/v2"
)

const layout = "layouts/main"

// viewer is the signed-in user for this request, or nil.
func viewer(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}

func viewerID(c *fiber.Ctx) int64 {
	if u := viewer(c); u != nil {
		return u.ID
	}
	return 0
}

func bind(c *fiber.Ctx, data fiber.Map) fiber.Map {
	if data == nil {
		data = fiber.Map{}
	}
	// Always a typed *domain.User so template funcs never see an untyped nil.
	data["Viewer"] = viewer(c)
	// Pick up the token the CSRF middleware put into Locals
	tok, _ := c.Locals("CSRFToken").(string)
	if tok == "" {
		tok = c.Cookies("csrf_")
	}
	data["CSRFToken"] = tok
	return data
}

// render draws a full page inside the main layout.
func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	return c.Render(tmpl, bind(c, data), layout)
}

// partial draws a fragment with no layout.
func partial(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	return c.Render(tmpl, bind(c, data))
}

// notFound renders the friendly error page with status.
func notFound(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).Render("notfound", bind(c, fiber.Map{"Message": msg}), layout)
}

// fail maps a service error onto a response and logs it under action.
func fail(c *fiber.Ctx, action string, err error, fields map[string]any) error {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return c.Redirect("/login")
	case errors.Is(err, domain.ErrNotFound):
		return notFound(c, fiber.StatusNotFound, "Page not found")
	case errors.Is(err, domain.ErrForbidden):
		applog.Security(c, "access.denied."+action, fields)
		return notFound(c, fiber.StatusForbidden, "Access denied")
	case errors.Is(err, domain.ErrConflict):
		return notFound(c, fiber.StatusConflict, "This can't be done right now because other records depend on it.")
	}
	applog.Error(c, action+".fail", err, fields)
	return notFound(c, fiber.StatusInternalServerError, "Something went wrong. Please try again.")
}

// back is the Referer when it points into this site, otherwise fallback.
func back(c *fiber.Ctx, fallback string) string {
	ref := c.Get(fiber.HeaderReferer)
	if ref == "" {
		return fallback
	}
	base := c.BaseURL()
	if len(ref) >= len(base) && ref[:len(base)] == base {
		if rest := ref[len(base):]; rest != "" && rest[0] == '/' {
			return rest
		}
	}
	return fallback
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
