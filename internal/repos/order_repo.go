package repos

import (
	"context"

	"bergambar/internal/domain"

	"github.com/jmoiron/sqlx"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// orderSelect carries the commission title and the artist who posted it.
var orderSelect = `
	SELECT o.id, o.commission_id, o.buyer_id, o.total_price, o.status, o.created_at,
	       COALESCE(c.title,'') AS "commission.title",
	       ` + userAs("commission.user") + `
	FROM orders o
	JOIN commissions c ON c.id = o.commission_id
	JOIN users u ON u.id = c.user_id`

// ListByBuyer returns the orders placed by buyerID, newest first.
func (r *OrderRepo) ListByBuyer(ctx context.Context, buyerID int64) ([]domain.Order, error) {
	out := []domain.Order{}
	err := r.db.SelectContext(ctx, &out, orderSelect+`
		WHERE o.buyer_id = ?
		ORDER BY datetime(o.created_at) DESC, o.id DESC`, buyerID)
	return out, err
}

func (r *OrderRepo) Get(ctx context.Context, id int64) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.GetContext(ctx, &o, orderSelect+` WHERE o.id = ?`, id); err != nil {
		return nil, err
	}
	return &o, nil
}
