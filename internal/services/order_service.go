package services

import (
	"context"

	"bergambar/internal/domain"
	"bergambar/internal/repos"
)

type OrderService struct {
	Repo *repos.OrderRepo
}

// List returns the viewer's purchases, newest first.
func (s *OrderService) List(ctx context.Context, viewerID int64) ([]domain.Order, error) {
	if viewerID == 0 {
		return nil, domain.ErrUnauthenticated
	}
	out, err := s.Repo.ListByBuyer(ctx, viewerID)
	return out, translate(err, "list orders")
}

// Get returns an order the viewer bought or sold. Any other order is
// reported as not found so its existence is not disclosed.
func (s *OrderService) Get(ctx context.Context, viewerID, id int64) (domain.Order, error) {
	if viewerID == 0 {
		return domain.Order{}, domain.ErrUnauthenticated
	}
	o, err := s.Repo.Get(ctx, id)
	if err != nil {
		return domain.Order{}, translate(err, "get order")
	}
	if o.BuyerID != viewerID && o.Commission.User.ID != viewerID {
		return domain.Order{}, domain.ErrNotFound
	}
	return *o, nil
}
