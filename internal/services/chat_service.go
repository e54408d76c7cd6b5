package services

import (
	"context"
	"time"

	"bergambar/internal/domain"
	"bergambar/internal/format"
	"bergambar/internal/repos"
	"bergambar/internal/validate"
)

type ChatService struct {
	Chats *repos.ChatRepo
	Users *repos.UserRepo
	// Now is the clock relative times are measured against. Defaults to time.Now.
	Now func() time.Time
}

func (s *ChatService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Summaries returns the viewer's inbox with humanized last-message times.
func (s *ChatService) Summaries(ctx context.Context, viewerID int64) ([]domain.ChatSummary, error) {
	if viewerID == 0 {
		return nil, domain.ErrUnauthenticated
	}
	rows, err := s.Chats.Summaries(ctx, viewerID)
	if err != nil {
		return nil, translate(err, "list chats")
	}
	now := s.now()
	out := make([]domain.ChatSummary, 0, len(rows))
	for _, r := range rows {
		sum := r.ChatSummary
		if t, err := time.Parse(time.RFC3339, r.LastAt); err == nil {
			sum.LastMessageTime = format.Relative(t, now)
		} else {
			sum.LastMessageTime = r.LastAt
		}
		out = append(out, sum)
	}
	return out, nil
}

// Thread returns the conversation between the viewer and counterpartID.
func (s *ChatService) Thread(ctx context.Context, viewerID, counterpartID int64) (domain.Thread, error) {
	if viewerID == 0 {
		return domain.Thread{}, domain.ErrUnauthenticated
	}
	if viewerID == counterpartID {
		return domain.Thread{}, domain.ErrNotFound
	}
	u, err := s.Users.ByID(ctx, counterpartID)
	if err != nil {
		return domain.Thread{}, translate(err, "get counterpart")
	}
	msgs, err := s.Chats.Thread(ctx, viewerID, counterpartID)
	if err != nil {
		return domain.Thread{}, translate(err, "load thread")
	}
	with := *u
	with.Hash, with.Email = "", ""
	return domain.Thread{With: with, Messages: msgs}, nil
}

// Send posts a message from the viewer to counterpartID.
func (s *ChatService) Send(ctx context.Context, viewerID, counterpartID int64, in domain.MessageInput) error {
	if viewerID == 0 {
		return domain.ErrUnauthenticated
	}
	if viewerID == counterpartID {
		return domain.ErrNotFound
	}
	if _, err := s.Users.ByID(ctx, counterpartID); err != nil {
		return translate(err, "get counterpart")
	}
	if err := validate.Struct(&in); err != nil {
		return err
	}
	_, err := s.Chats.Send(ctx, viewerID, counterpartID, in.Body)
	return translate(err, "send message")
}
