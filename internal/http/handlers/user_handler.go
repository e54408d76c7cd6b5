package handlers

import (
	"context"

	"bergambar/internal/domain"
	"bergambar/internal/validate"
	"bergambar/internal/viewstate"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	Users ProfileSource
	Load  Loader
}

func (h *UserHandler) Profile(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, fiber.StatusNotFound, "User Not Found")
	}
	return shell(c, "Profile", "/partials/users/"+itoa(id), "profile", nil)
}

func (h *UserHandler) ProfilePartial(c *fiber.Ctx) error {
	id, _ := validate.ID(c.Params("id"))
	vid := viewerID(c)
	return fragment(c, h.Load, viewstate.Detail[domain.Profile](h.Load.Opts), "partials/profile", nil,
		func(ctx context.Context) (domain.Profile, error) {
			if id == 0 {
				return domain.Profile{}, domain.ErrNotFound
			}
			return h.Users.Profile(ctx, id, vid)
		})
}
