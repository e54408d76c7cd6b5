package handlers

import (
	"context"
	"errors"

	"bergambar/internal/domain"
	applog "bergambar/internal/log"
	"bergambar/internal/services"
	"bergambar/internal/validate"
	"bergambar/internal/viewstate"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type ArtistHandler struct {
	Artists ArtistSource
	Load    Loader
}

func (h *ArtistHandler) List(c *fiber.Ctx) error {
	return shell(c, "Artists", "/partials/artists", "artists", nil)
}

func (h *ArtistHandler) ListPartial(c *fiber.Ctx) error {
	return fragment(c, h.Load, viewstate.List[domain.Artist](h.Load.Opts), "partials/artists", nil,
		func(ctx context.Context) ([]domain.Artist, error) { return h.Artists.List(ctx) })
}

func (h *ArtistHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, fiber.StatusNotFound, "Artist Not Found")
	}
	return shell(c, "Artist", "/partials/artists/"+itoa(id), "profile", nil)
}

func (h *ArtistHandler) DetailPartial(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		id = 0 // settles as NotFound
	}
	vid := viewerID(c)
	return fragment(c, h.Load, viewstate.Detail[services.ArtistPage](h.Load.Opts), "partials/artist", nil,
		func(ctx context.Context) (services.ArtistPage, error) {
			if id == 0 {
				return services.ArtistPage{}, domain.ErrNotFound
			}
			return h.Artists.Detail(ctx, id, vid)
		})
}

func (h *ArtistHandler) EditForm(c *fiber.Ctx) error {
	a, err := h.owned(c)
	if err != nil {
		return fail(c, "artist.edit", err, map[string]any{"artist": c.Params("id")})
	}
	in := domain.ArtistInput{PortfolioLink: a.PortfolioLink, Bio: a.User.Bio}
	return render(c, "artist_form", fiber.Map{"Title": "Edit Profile", "Artist": a, "Form": in, "Errors": map[string]string{}})
}

func (h *ArtistHandler) Update(c *fiber.Ctx) error {
	a, err := h.owned(c)
	if err != nil {
		return fail(c, "artist.edit", err, map[string]any{"artist": c.Params("id")})
	}
	var in domain.ArtistInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("bad form")
	}
	err = h.Artists.Update(c.UserContext(), viewer(c), a.ID, in)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return c.Status(fiber.StatusUnprocessableEntity).Render("artist_form", bind(c, fiber.Map{
			"Title": "Edit Profile", "Artist": a, "Form": in, "Errors": validate.Messages(err),
		}), layout)
	}
	if err != nil {
		return fail(c, "artist.update", err, map[string]any{"artist": a.ID})
	}
	applog.Audit(c, "artist.update", map[string]any{"artist": a.ID})
	return c.Redirect("/artists/" + itoa(a.ID))
}

// owned loads the artist in the route and checks the viewer is that artist.
func (h *ArtistHandler) owned(c *fiber.Ctx) (domain.Artist, error) {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return domain.Artist{}, domain.ErrNotFound
	}
	a, err := h.Artists.Get(c.UserContext(), id)
	if err != nil {
		return domain.Artist{}, err
	}
	if !domain.Owns(viewer(c), a.UserID) {
		return domain.Artist{}, domain.ErrForbidden
	}
	return a, nil
}
