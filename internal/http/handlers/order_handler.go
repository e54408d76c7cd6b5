package handlers

import (
	"context"

	"bergambar/internal/domain"
	"bergambar/internal/validate"
	"bergambar/internal/viewstate"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	Orders OrderSource
	Load   Loader
}

func (h *OrderHandler) History(c *fiber.Ctx) error {
	return shell(c, "My Orders", "/partials/orders", "rows", nil)
}

func (h *OrderHandler) HistoryPartial(c *fiber.Ctx) error {
	vid := viewerID(c)
	return fragment(c, h.Load, viewstate.List[domain.Order](h.Load.Opts), "partials/orders", nil,
		func(ctx context.Context) ([]domain.Order, error) { return h.Orders.List(ctx, vid) })
}

func (h *OrderHandler) View(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, fiber.StatusNotFound, "Order Not Found")
	}
	return shell(c, "Order #"+itoa(id), "/partials/orders/"+itoa(id), "detail", nil)
}

func (h *OrderHandler) ViewPartial(c *fiber.Ctx) error {
	id, _ := validate.ID(c.Params("id"))
	vid := viewerID(c)
	return fragment(c, h.Load, viewstate.Detail[domain.Order](h.Load.Opts), "partials/order", nil,
		func(ctx context.Context) (domain.Order, error) {
			if id == 0 {
				return domain.Order{}, domain.ErrNotFound
			}
			return h.Orders.Get(ctx, vid, id)
		})
}
