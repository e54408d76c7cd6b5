package handlers

import (
	"errors"
	"time"

	"bergambar/internal/domain"
	"bergambar/internal/log"
	"bergambar/internal/services"
	"bergambar/internal/validate"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false,
		})
	}
	return sid
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{"Title": "Log in", "Err": ""})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	email := c.FormValue("email")
	pass := c.FormValue("password")
	badLogin := func(reason string) error {
		f := map[string]any{"email": email}
		if reason != "" {
			f["reason"] = reason
		}
		log.Security(c, "auth.login.fail", f)
		return c.Status(fiber.StatusUnauthorized).Render("login", bind(c, fiber.Map{
			"Title": "Log in", "Err": "Invalid email or password", "Email": email,
		}), layout)
	}
	if _, ok := validate.Email(email); !ok {
		return badLogin("bad_format")
	}
	if len(pass) == 0 || len(pass) > 64 {
		return badLogin("bad_password_format")
	}

	// Fresh session id on every login.
	c.Request().Header.DelCookie("sid")
	sid := ensureSID(c)
	if _, err := h.Auth.Login(sid, email, pass); err != nil {
		return badLogin("")
	}

	log.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.Redirect("/")
}

func (h *AuthHandler) RegisterForm(c *fiber.Ctx) error {
	return render(c, "register", fiber.Map{"Title": "Sign up", "Form": domain.RegisterInput{}, "Errors": map[string]string{}})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in domain.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("bad form")
	}
	again := func(errs map[string]string) error {
		in.Password = ""
		return c.Status(fiber.StatusUnprocessableEntity).Render("register", bind(c, fiber.Map{
			"Title": "Sign up", "Form": in, "Errors": errs,
		}), layout)
	}

	c.Request().Header.DelCookie("sid")
	sid := ensureSID(c)
	_, err := h.Auth.Register(sid, in)
	var verrs validator.ValidationErrors
	switch {
	case err == nil:
	case errors.As(err, &verrs):
		return again(validate.Messages(err))
	case errors.Is(err, services.ErrEmailTaken):
		log.Security(c, "auth.register.fail", map[string]any{"reason": "email_taken"})
		return again(map[string]string{"Email": err.Error()})
	case errors.Is(err, services.ErrUsernameTaken):
		return again(map[string]string{"Username": err.Error()})
	case errors.Is(err, services.ErrWeakPassword):
		return again(map[string]string{"Password": err.Error()})
	default:
		return fail(c, "auth.register", err, nil)
	}

	log.Audit(c, "auth.register.success", map[string]any{"email": in.Email})
	return c.Redirect("/")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	_ = h.Auth.Logout(sid)
	// Expire cookie
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	log.Audit(c, "auth.logout", map[string]any{"sid": sid})
	return c.Redirect("/")
}
