package handlers

import (
	"context"
	"errors"
	"strconv"

	"bergambar/internal/domain"
	applog "bergambar/internal/log"
	"bergambar/internal/validate"
	"bergambar/internal/viewstate"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// featured is how many commissions the home page grid shows.
const featured = 6

var statuses = []string{"pending", "in_progress", "completed"}

type CommissionHandler struct {
	Commissions CommissionStore
	Load        Loader
}

func (h *CommissionHandler) Home(c *fiber.Ctx) error {
	return render(c, "home", fiber.Map{"Title": "Home", "Fragment": "/partials/home", "Skeleton": "cards"})
}

func (h *CommissionHandler) HomePartial(c *fiber.Ctx) error {
	vid := viewerID(c)
	return fragment(c, h.Load, viewstate.List[domain.Commission](h.Load.Opts), "partials/commissions", fiber.Map{"Featured": true},
		func(ctx context.Context) ([]domain.Commission, error) {
			list, err := h.Commissions.List(ctx, vid)
			if len(list) > featured {
				list = list[:featured]
			}
			return list, err
		})
}

func (h *CommissionHandler) List(c *fiber.Ctx) error {
	return shell(c, "Commissions", "/partials/commissions", "cards", fiber.Map{"CanCreate": viewer(c) != nil})
}

func (h *CommissionHandler) ListPartial(c *fiber.Ctx) error {
	vid := viewerID(c)
	return fragment(c, h.Load, viewstate.List[domain.Commission](h.Load.Opts), "partials/commissions", nil,
		func(ctx context.Context) ([]domain.Commission, error) { return h.Commissions.List(ctx, vid) })
}

func (h *CommissionHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, fiber.StatusNotFound, "Commission Not Found")
	}
	return shell(c, "Commission", "/partials/commissions/"+itoa(id), "detail", nil)
}

func (h *CommissionHandler) DetailPartial(c *fiber.Ctx) error {
	id, _ := validate.ID(c.Params("id"))
	vid := viewerID(c)
	return fragment(c, h.Load, viewstate.Detail[domain.Commission](h.Load.Opts), "partials/commission", nil,
		func(ctx context.Context) (domain.Commission, error) {
			if id == 0 {
				return domain.Commission{}, domain.ErrNotFound
			}
			return h.Commissions.Get(ctx, id, vid)
		})
}

func (h *CommissionHandler) CreateForm(c *fiber.Ctx) error {
	return h.form(c, fiber.StatusOK, "Create Commission", "/commissions/create",
		domain.CommissionInput{PublicStatus: "pending"}, nil)
}

func (h *CommissionHandler) Create(c *fiber.Ctx) error {
	var in domain.CommissionInput
	if err := c.BodyParser(&in); err != nil {
		return h.form(c, fiber.StatusUnprocessableEntity, "Create Commission", "/commissions/create", in,
			map[string]string{"TotalPrice": "Must be a whole number."})
	}
	id, err := h.Commissions.Create(c.UserContext(), viewer(c), in)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return h.form(c, fiber.StatusUnprocessableEntity, "Create Commission", "/commissions/create", in, validate.Messages(err))
	}
	if err != nil {
		return fail(c, "commission.create", err, nil)
	}
	applog.Audit(c, "commission.create", map[string]any{"commission": id})
	return c.Redirect("/commissions/" + itoa(id))
}

func (h *CommissionHandler) EditForm(c *fiber.Ctx) error {
	cm, err := h.owned(c)
	if err != nil {
		return fail(c, "commission.edit", err, map[string]any{"commission": c.Params("id")})
	}
	in := domain.CommissionInput{
		Title: cm.Title, Description: cm.Description, TotalPrice: cm.TotalPrice,
		PublicStatus: cm.PublicStatus, Image: cm.Image,
	}
	return h.form(c, fiber.StatusOK, "Edit Commission", "/commissions/"+itoa(cm.ID)+"/edit", in, nil)
}

func (h *CommissionHandler) Update(c *fiber.Ctx) error {
	cm, err := h.owned(c)
	if err != nil {
		return fail(c, "commission.edit", err, map[string]any{"commission": c.Params("id")})
	}
	action := "/commissions/" + itoa(cm.ID) + "/edit"
	var in domain.CommissionInput
	if err := c.BodyParser(&in); err != nil {
		return h.form(c, fiber.StatusUnprocessableEntity, "Edit Commission", action, in,
			map[string]string{"TotalPrice": "Must be a whole number."})
	}
	err = h.Commissions.Update(c.UserContext(), viewer(c), cm.ID, in)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return h.form(c, fiber.StatusUnprocessableEntity, "Edit Commission", action, in, validate.Messages(err))
	}
	if err != nil {
		return fail(c, "commission.update", err, map[string]any{"commission": cm.ID})
	}
	applog.Audit(c, "commission.update", map[string]any{"commission": cm.ID})
	return c.Redirect("/commissions/" + itoa(cm.ID))
}

// DeleteConfirm is the explicit confirmation step before a delete.
func (h *CommissionHandler) DeleteConfirm(c *fiber.Ctx) error {
	cm, err := h.owned(c)
	if err != nil {
		return fail(c, "commission.delete", err, map[string]any{"commission": c.Params("id")})
	}
	return render(c, "commission_delete", fiber.Map{"Title": "Delete Commission", "Commission": cm})
}

func (h *CommissionHandler) Delete(c *fiber.Ctx) error {
	cm, err := h.owned(c)
	if err != nil {
		return fail(c, "commission.delete", err, map[string]any{"commission": c.Params("id")})
	}
	err = h.Commissions.Delete(c.UserContext(), viewer(c), cm.ID)
	if errors.Is(err, domain.ErrConflict) {
		return c.Status(fiber.StatusConflict).Render("commission_delete", bind(c, fiber.Map{
			"Title": "Delete Commission", "Commission": cm,
			"Err": "This commission has orders and can't be deleted.",
		}), layout)
	}
	if err != nil {
		return fail(c, "commission.delete", err, map[string]any{"commission": cm.ID})
	}
	applog.Audit(c, "commission.delete", map[string]any{"commission": cm.ID})
	return c.Redirect("/commissions")
}

// Love sets the viewer's love when the form carries "loved", and toggles
// it otherwise. JSON callers get the new count back.
func (h *CommissionHandler) Love(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, fiber.StatusNotFound, "Commission Not Found")
	}
	vid := viewerID(c)

	var (
		res domain.LoveResult
		err error
	)
	if raw := c.FormValue("loved"); raw != "" {
		loved, perr := strconv.ParseBool(raw)
		if perr != nil {
			return c.Status(fiber.StatusBadRequest).SendString("bad loved value")
		}
		res, err = h.Commissions.SetLove(c.UserContext(), vid, id, loved)
	} else {
		res, err = h.Commissions.ToggleLove(c.UserContext(), vid, id)
	}

	wantsJSON := c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMEApplicationJSON
	if err != nil {
		if wantsJSON {
			return c.Status(apiStatus(err)).JSON(fiber.Map{"error": apiMessage(err)})
		}
		return fail(c, "commission.love", err, map[string]any{"commission": id})
	}
	applog.Audit(c, "commission.love", map[string]any{"commission": id, "loved": res.Loved})
	if wantsJSON {
		return c.JSON(res)
	}
	return c.Redirect(back(c, "/commissions/"+itoa(id)))
}

func (h *CommissionHandler) form(c *fiber.Ctx, status int, title, action string, in domain.CommissionInput, errs map[string]string) error {
	if errs == nil {
		errs = map[string]string{}
	}
	return c.Status(status).Render("commission_form", bind(c, fiber.Map{
		"Title": title, "Action": action, "Form": in, "Errors": errs, "Statuses": statuses,
	}), layout)
}

// owned loads the commission in the route and checks the viewer posted it.
func (h *CommissionHandler) owned(c *fiber.Ctx) (domain.Commission, error) {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return domain.Commission{}, domain.ErrNotFound
	}
	cm, err := h.Commissions.Get(c.UserContext(), id, viewerID(c))
	if err != nil {
		return domain.Commission{}, err
	}
	if !domain.Owns(viewer(c), cm.UserID) {
		return domain.Commission{}, domain.ErrForbidden
	}
	return cm, nil
}
