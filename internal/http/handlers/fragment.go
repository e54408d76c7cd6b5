package handlers

import (
	"context"
	"errors"
	"strings"

	"bergambar/internal/domain"
	applog "bergambar/internal/log"
	"bergambar/internal/services"
	"bergambar/internal/viewstate"

	"github.com/gofiber/fiber/v2"
)

// shell renders a page in its Loading state: the layout, a heading and a
// skeleton that the browser replaces with the fragment at src.
func shell(c *fiber.Ctx, title, src, skeleton string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["Title"] = title
	data["Fragment"] = src
	data["Skeleton"] = skeleton
	return render(c, "shell", data)
}

// settle mounts a request-scoped page, waits for the fetch and unmounts it.
// The request budget plays the part of the page lifetime.
func settle[T any](c *fiber.Ctx, ld Loader, ctrl *viewstate.Controller[T], fetch viewstate.Fetcher[T]) (viewstate.View[T], error) {
	ctx := c.UserContext()
	if ld.Budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ld.Budget)
		defer cancel()
	}
	return viewstate.Load(ctx, ctrl, services.Delay(ld.Delay, fetch))
}

// fragment settles fetch and renders tmpl with the view under "View".
func fragment[T any](c *fiber.Ctx, ld Loader, ctrl *viewstate.Controller[T], tmpl string, data fiber.Map, fetch viewstate.Fetcher[T]) error {
	v, err := settle(c, ld, ctrl, fetch)
	if err != nil {
		applog.Info(c, "view.discarded", map[string]any{"view": tmpl})
		return c.SendStatus(fiber.StatusRequestTimeout)
	}
	if data == nil {
		data = fiber.Map{}
	}
	data["View"] = v
	data["Retry"] = pageURL(c.OriginalURL())
	c.Status(viewStatus(c, tmpl, v.State, v.Err))
	return partial(c, tmpl, data)
}

// pageURL maps a fragment URL back to the page that hosts it, so a retry
// link still lands on a full page when scripts are off.
func pageURL(fragmentURL string) string {
	u := strings.TrimPrefix(fragmentURL, "/partials")
	if u == "/home" || strings.HasPrefix(u, "/home?") {
		return "/" + strings.TrimPrefix(u, "/home")
	}
	if u == "" || u[0] != '/' {
		return "/" + u
	}
	return u
}

func viewStatus(c *fiber.Ctx, view string, st viewstate.State, err error) int {
	switch st {
	case viewstate.NotFound:
		return fiber.StatusNotFound
	case viewstate.Failed:
		switch {
		case errors.Is(err, domain.ErrUnauthenticated):
			return fiber.StatusUnauthorized
		case errors.Is(err, domain.ErrForbidden):
			applog.Security(c, "access.denied.view", map[string]any{"view": view})
			return fiber.StatusForbidden
		}
		applog.Error(c, "view.failed", err, map[string]any{"view": view})
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusOK
}
