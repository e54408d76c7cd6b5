package handlers

import (
	"context"
	"errors"

	"bergambar/internal/domain"
	applog "bergambar/internal/log"
	"bergambar/internal/validate"
	"bergambar/internal/viewstate"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type ChatHandler struct {
	Chats ChatStore
	Load  Loader
}

func (h *ChatHandler) Inbox(c *fiber.Ctx) error {
	return shell(c, "Messages", "/partials/chat", "chats", nil)
}

func (h *ChatHandler) InboxPartial(c *fiber.Ctx) error {
	vid := viewerID(c)
	return fragment(c, h.Load, viewstate.List[domain.ChatSummary](h.Load.Opts), "partials/chats", nil,
		func(ctx context.Context) ([]domain.ChatSummary, error) { return h.Chats.Summaries(ctx, vid) })
}

func (h *ChatHandler) Thread(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, fiber.StatusNotFound, "Conversation Not Found")
	}
	return shell(c, "Conversation", "/partials/chat/"+itoa(id), "rows", nil)
}

func (h *ChatHandler) ThreadPartial(c *fiber.Ctx) error {
	id, _ := validate.ID(c.Params("id"))
	vid := viewerID(c)
	return fragment(c, h.Load, viewstate.Detail[domain.Thread](h.Load.Opts), "partials/thread", nil,
		func(ctx context.Context) (domain.Thread, error) {
			if id == 0 {
				return domain.Thread{}, domain.ErrNotFound
			}
			return h.Chats.Thread(ctx, vid, id)
		})
}

func (h *ChatHandler) Send(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, fiber.StatusNotFound, "Conversation Not Found")
	}
	var in domain.MessageInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("bad form")
	}
	err := h.Chats.Send(c.UserContext(), viewerID(c), id, in)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		// Empty messages are dropped; the thread is shown again unchanged.
		return c.Redirect("/chat/" + itoa(id))
	}
	if err != nil {
		return fail(c, "chat.send", err, map[string]any{"to": id})
	}
	applog.Audit(c, "chat.send", map[string]any{"to": id})
	return c.Redirect("/chat/" + itoa(id))
}
