package repos

import (
	"context"
	"database/sql"

	"bergambar/internal/domain"

	"github.com/jmoiron/sqlx"
)

type CommissionRepo struct{ db *sqlx.DB }

func NewCommissionRepo(db *sqlx.DB) *CommissionRepo { return &CommissionRepo{db: db} }

// CommissionFields is the editable part of a commission.
type CommissionFields struct {
	Title        string
	Description  string
	TotalPrice   int64
	PublicStatus string
	Image        string
}

// commissionSelect expects the viewer id as its first bind argument; 0
// means anonymous and never matches a love.
var commissionSelect = `
	SELECT c.id, COALESCE(c.title,'') AS title, c.description, c.user_id,
	       c.total_price, c.public_status, COALESCE(c.image,'') AS image, c.loved_count,
	       EXISTS(SELECT 1 FROM loves l WHERE l.commission_id = c.id AND l.user_id = ?) AS loved_by_viewer,
	       ` + userAs("user") + `
	FROM commissions c
	JOIN users u ON u.id = c.user_id`

// List returns all commissions, newest first.
func (r *CommissionRepo) List(ctx context.Context, viewerID int64) ([]domain.Commission, error) {
	out := []domain.Commission{}
	err := r.db.SelectContext(ctx, &out, commissionSelect+` ORDER BY c.id DESC`, viewerID)
	return out, err
}

// ListByUser returns the commissions posted by userID, newest first.
func (r *CommissionRepo) ListByUser(ctx context.Context, viewerID, userID int64) ([]domain.Commission, error) {
	out := []domain.Commission{}
	err := r.db.SelectContext(ctx, &out, commissionSelect+` WHERE c.user_id = ? ORDER BY c.id DESC`, viewerID, userID)
	return out, err
}

// ListByArtist returns up to limit recent commissions of an artist.
func (r *CommissionRepo) ListByArtist(ctx context.Context, viewerID, artistID int64, limit int) ([]domain.Commission, error) {
	if limit <= 0 {
		limit = 6
	}
	out := []domain.Commission{}
	err := r.db.SelectContext(ctx, &out, commissionSelect+`
		JOIN artists a ON a.user_id = c.user_id
		WHERE a.id = ?
		ORDER BY c.id DESC
		LIMIT ?`, viewerID, artistID, limit)
	return out, err
}

func (r *CommissionRepo) Get(ctx context.Context, viewerID, id int64) (*domain.Commission, error) {
	var c domain.Commission
	if err := r.db.GetContext(ctx, &c, commissionSelect+` WHERE c.id = ?`, viewerID, id); err != nil {
		return nil, err
	}
	return &c, nil
}

// Owner returns the user id that posted commission id.
func (r *CommissionRepo) Owner(ctx context.Context, id int64) (int64, error) {
	var uid int64
	err := r.db.GetContext(ctx, &uid, `SELECT user_id FROM commissions WHERE id = ?`, id)
	return uid, err
}

func (r *CommissionRepo) Create(ctx context.Context, userID int64, f CommissionFields) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO commissions(user_id, title, description, total_price, public_status, image)
		VALUES(?, ?, ?, ?, ?, ?)`,
		userID, nullIfEmpty(f.Title), f.Description, f.TotalPrice, f.PublicStatus, nullIfEmpty(f.Image))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Update rewrites the editable fields. sql.ErrNoRows when id is unknown.
func (r *CommissionRepo) Update(ctx context.Context, id int64, f CommissionFields) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE commissions
		SET title = ?, description = ?, total_price = ?, public_status = ?, image = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		nullIfEmpty(f.Title), f.Description, f.TotalPrice, f.PublicStatus, nullIfEmpty(f.Image), id)
	if err != nil {
		return err
	}
	return affected(res)
}

// CountOrders returns how many orders reference commission id.
func (r *CommissionRepo) CountOrders(ctx context.Context, id int64) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM orders WHERE commission_id = ?`, id)
	return n, err
}

// Delete removes a commission and its loves. sql.ErrNoRows when id is unknown.
func (r *CommissionRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM commissions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(res)
}

// SetLove records (loved=true) or removes the viewer's love and keeps
// loved_count in step. Repeating the same call changes nothing.
func (r *CommissionRepo) SetLove(ctx context.Context, commissionID, userID int64, loved bool) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := tx.GetContext(ctx, &exists, `SELECT 1 FROM commissions WHERE id = ?`, commissionID); err != nil {
		return 0, err
	}

	var res sql.Result
	if loved {
		res, err = tx.ExecContext(ctx, `
			INSERT INTO loves(commission_id, user_id) VALUES(?, ?)
			ON CONFLICT(commission_id, user_id) DO NOTHING`, commissionID, userID)
	} else {
		res, err = tx.ExecContext(ctx, `DELETE FROM loves WHERE commission_id = ? AND user_id = ?`, commissionID, userID)
	}
	if err != nil {
		return 0, err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		delta := 1
		if !loved {
			delta = -1
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE commissions SET loved_count = MAX(loved_count + ?, 0) WHERE id = ?`, delta, commissionID); err != nil {
			return 0, err
		}
	}

	var count int
	if err := tx.GetContext(ctx, &count, `SELECT loved_count FROM commissions WHERE id = ?`, commissionID); err != nil {
		return 0, err
	}
	return count, tx.Commit()
}

// Loved reports whether userID currently loves commissionID.
func (r *CommissionRepo) Loved(ctx context.Context, commissionID, userID int64) (bool, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM loves WHERE commission_id = ? AND user_id = ?`, commissionID, userID)
	return n > 0, err
}

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
