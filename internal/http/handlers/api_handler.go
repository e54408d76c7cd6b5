package handlers

import (
	"context"
	"errors"

	"bergambar/internal/domain"
	applog "bergambar/internal/log"
	"bergambar/internal/validate"
	"bergambar/internal/viewstate"

	"github.com/gofiber/fiber/v2"
)

// APIHandler serves the read side as JSON. Each response carries the
// settled view state next to its data.
type APIHandler struct {
	Artists     ArtistSource
	Commissions CommissionStore
	Orders      OrderSource
	Chats       ChatStore
	Load        Loader
}

func respond[T any](c *fiber.Ctx, ld Loader, ctrl *viewstate.Controller[T], fetch viewstate.Fetcher[T]) error {
	v, err := settle(c, ld, ctrl, fetch)
	if err != nil {
		applog.Info(c, "view.discarded", map[string]any{"api": c.Path()})
		return c.SendStatus(fiber.StatusRequestTimeout)
	}
	body := fiber.Map{"state": v.State.String()}
	switch v.State {
	case viewstate.Populated, viewstate.Empty:
		body["data"] = v.Data
		return c.JSON(body)
	case viewstate.NotFound:
		body["error"] = "not found"
		return c.Status(fiber.StatusNotFound).JSON(body)
	}
	body["error"] = apiMessage(v.Err)
	return c.Status(viewStatus(c, c.Path(), v.State, v.Err)).JSON(body)
}

func apiStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

func apiMessage(err error) string {
	switch apiStatus(err) {
	case fiber.StatusUnauthorized:
		return "sign in required"
	case fiber.StatusForbidden:
		return "forbidden"
	case fiber.StatusNotFound:
		return "not found"
	case fiber.StatusConflict:
		return "conflict"
	}
	return "temporarily unavailable, retry soon"
}

func (h *APIHandler) ListArtists(c *fiber.Ctx) error {
	return respond(c, h.Load, viewstate.List[domain.Artist](h.Load.Opts),
		func(ctx context.Context) ([]domain.Artist, error) { return h.Artists.List(ctx) })
}

func (h *APIHandler) GetArtist(c *fiber.Ctx) error {
	id, _ := validate.ID(c.Params("id"))
	return respond(c, h.Load, viewstate.Detail[domain.Artist](h.Load.Opts),
		func(ctx context.Context) (domain.Artist, error) {
			if id == 0 {
				return domain.Artist{}, domain.ErrNotFound
			}
			return h.Artists.Get(ctx, id)
		})
}

func (h *APIHandler) ListCommissions(c *fiber.Ctx) error {
	vid := viewerID(c)
	return respond(c, h.Load, viewstate.List[domain.Commission](h.Load.Opts),
		func(ctx context.Context) ([]domain.Commission, error) { return h.Commissions.List(ctx, vid) })
}

func (h *APIHandler) GetCommission(c *fiber.Ctx) error {
	id, _ := validate.ID(c.Params("id"))
	vid := viewerID(c)
	return respond(c, h.Load, viewstate.Detail[domain.Commission](h.Load.Opts),
		func(ctx context.Context) (domain.Commission, error) {
			if id == 0 {
				return domain.Commission{}, domain.ErrNotFound
			}
			return h.Commissions.Get(ctx, id, vid)
		})
}

func (h *APIHandler) ListOrders(c *fiber.Ctx) error {
	vid := viewerID(c)
	return respond(c, h.Load, viewstate.List[domain.Order](h.Load.Opts),
		func(ctx context.Context) ([]domain.Order, error) { return h.Orders.List(ctx, vid) })
}

func (h *APIHandler) ListChats(c *fiber.Ctx) error {
	vid := viewerID(c)
	return respond(c, h.Load, viewstate.List[domain.ChatSummary](h.Load.Opts),
		func(ctx context.Context) ([]domain.ChatSummary, error) { return h.Chats.Summaries(ctx, vid) })
}

// Session reports the current user, or null when signed out.
func (h *APIHandler) Session(c *fiber.Ctx) error {
	u := viewer(c)
	if u == nil {
		return c.JSON(fiber.Map{"user": nil})
	}
	pub := *u
	pub.Hash = ""
	return c.JSON(fiber.Map{"user": pub})
}
