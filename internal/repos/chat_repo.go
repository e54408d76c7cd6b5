package repos

import (
	"context"

	"bergambar/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ChatRepo struct{ db *sqlx.DB }

func NewChatRepo(db *sqlx.DB) *ChatRepo { return &ChatRepo{db: db} }

// SummaryRow is one inbox line before its timestamp is humanized.
type SummaryRow struct {
	domain.ChatSummary
	LastAt string `db:"last_at"`
}

// Summaries returns one row per counterpart the user has exchanged messages
// with, most recent conversation first.
func (r *ChatRepo) Summaries(ctx context.Context, userID int64) ([]SummaryRow, error) {
	out := []SummaryRow{}
	err := r.db.SelectContext(ctx, &out, `
		WITH latest AS (
		  SELECT CASE WHEN sender_id = ? THEN recipient_id ELSE sender_id END AS other_id,
		         MAX(id) AS message_id
		  FROM messages
		  WHERE sender_id = ? OR recipient_id = ?
		  GROUP BY other_id
		)
		SELECT u.id, u.name, COALESCE(u.username,'') AS username,
		       COALESCE(u.profile_picture,'') AS profile_picture,
		       m.body AS last_message, m.created_at AS last_at
		FROM latest
		JOIN messages m ON m.id = latest.message_id
		JOIN users u ON u.id = latest.other_id
		ORDER BY m.id DESC`, userID, userID, userID)
	return out, err
}

// Thread returns the messages between a and b, oldest first.
func (r *ChatRepo) Thread(ctx context.Context, a, b int64) ([]domain.Message, error) {
	out := []domain.Message{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, sender_id, recipient_id, body, created_at
		FROM messages
		WHERE (sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)
		ORDER BY id`, a, b, b, a)
	return out, err
}

// Send stores a message stamped with the current UTC time.
func (r *ChatRepo) Send(ctx context.Context, from, to int64, body string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO messages(sender_id, recipient_id, body, created_at)
		VALUES(?, ?, ?, strftime('%Y-%m-%dT%H:%M:%SZ','now'))`, from, to, body)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
