package handlers

import (
	"time"

	applog "bergambar/internal/log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Routes registers every page, fragment, form and API route, then the
// catch-all not-found page. Global middleware and static files are the
// caller's job and must be registered first.
func (d *Deps) Routes(app *fiber.App) {
	member := RequireUser(d.Auth)
	ah, ch, oh, mh, uh := d.ArtistHandler, d.CommissionHandler, d.OrderHandler, d.ChatHandler, d.UserHandler

	// Pages: the shell in its Loading state.
	app.Get("/", ch.Home)
	app.Get("/artists", ah.List)
	app.Get("/artists/:id", ah.Detail)
	app.Get("/commissions", ch.List)
	app.Get("/commissions/create", member, ch.CreateForm)
	app.Post("/commissions/create", member, ch.Create)
	app.Get("/commissions/:id", ch.Detail)
	app.Get("/orders", member, oh.History)
	app.Get("/orders/:id", member, oh.View)
	app.Get("/chat", member, mh.Inbox)
	app.Get("/chat/:id", member, mh.Thread)
	app.Get("/users/:id", uh.Profile)

	// Fragments: the settled view.
	p := app.Group("/partials")
	p.Get("/home", ch.HomePartial)
	p.Get("/artists", ah.ListPartial)
	p.Get("/artists/:id", ah.DetailPartial)
	p.Get("/commissions", ch.ListPartial)
	p.Get("/commissions/:id", ch.DetailPartial)
	p.Get("/orders", oh.HistoryPartial)
	p.Get("/orders/:id", oh.ViewPartial)
	p.Get("/chat", mh.InboxPartial)
	p.Get("/chat/:id", mh.ThreadPartial)
	p.Get("/users/:id", uh.ProfilePartial)

	// Owner forms.
	app.Get("/commissions/:id/edit", member, ch.EditForm)
	app.Post("/commissions/:id/edit", member, ch.Update)
	app.Get("/commissions/:id/delete", member, ch.DeleteConfirm)
	app.Post("/commissions/:id/delete", member, ch.Delete)
	app.Post("/commissions/:id/love", ch.Love)
	app.Get("/artists/:id/edit", member, ah.EditForm)
	app.Post("/artists/:id/edit", member, ah.Update)
	app.Post("/chat/:id", member, mh.Send)

	// Auth routes (login/register throttled)
	au := d.AuthHandler
	app.Get("/login", au.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("login", bind(c, fiber.Map{
				"Title": "Log in", "Err": "Too many attempts. Please try again later.",
			}), layout)
		},
	}), au.Login)
	app.Get("/register", au.RegisterForm)
	app.Post("/register", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.register.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).SendString("Too many attempts. Please try again later.")
		},
	}), au.Register)
	app.Post("/logout", au.Logout)

	// API
	api := app.Group("/api/v1")
	api.Get("/artists", d.APIHandler.ListArtists)
	api.Get("/artists/:id", d.APIHandler.GetArtist)
	api.Get("/commissions", d.APIHandler.ListCommissions)
	api.Get("/commissions/:id", d.APIHandler.GetCommission)
	api.Get("/orders", d.APIHandler.ListOrders)
	api.Get("/chats", d.APIHandler.ListChats)
	api.Get("/session", d.APIHandler.Session)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return notFound(c, fiber.StatusNotFound, "Page not found")
	})
}
