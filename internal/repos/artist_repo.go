package repos

import (
	"context"

	"bergambar/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ArtistRepo struct{ db *sqlx.DB }

func NewArtistRepo(db *sqlx.DB) *ArtistRepo { return &ArtistRepo{db: db} }

var artistSelect = `
	SELECT a.id, a.user_id, COALESCE(a.portfolio_link,'') AS portfolio_link,
	       a.is_verified, a.rating,
	       ` + userAs("user") + `,
	       COALESCE(u.bio,'') AS "user.bio", u.email AS "user.email",
	       (SELECT COUNT(*) FROM commissions c WHERE c.user_id = a.user_id) AS commissions_count,
	       (SELECT COUNT(*) FROM services s WHERE s.artist_id = a.id) AS services_count
	FROM artists a
	JOIN users u ON u.id = a.user_id`

// List returns every artist, best rated first.
func (r *ArtistRepo) List(ctx context.Context) ([]domain.Artist, error) {
	out := []domain.Artist{}
	err := r.db.SelectContext(ctx, &out, artistSelect+` ORDER BY a.rating DESC, a.id`)
	return out, err
}

// Get returns one artist with its services.
func (r *ArtistRepo) Get(ctx context.Context, id int64) (*domain.Artist, error) {
	var a domain.Artist
	if err := r.db.GetContext(ctx, &a, artistSelect+` WHERE a.id = ?`, id); err != nil {
		return nil, err
	}
	a.Services = []domain.Service{}
	if err := r.db.SelectContext(ctx, &a.Services, `
		SELECT id, artist_id, title, description, price, service_type
		FROM services WHERE artist_id = ? ORDER BY id`, id); err != nil {
		return nil, err
	}
	return &a, nil
}

// IDByUser returns the artist id of a user, sql.ErrNoRows when the user is
// not an artist.
func (r *ArtistRepo) IDByUser(ctx context.Context, userID int64) (int64, error) {
	var id int64
	err := r.db.GetContext(ctx, &id, `SELECT id FROM artists WHERE user_id = ?`, userID)
	return id, err
}

// Update writes the artist's editable profile: the portfolio link on the
// artist row and the bio on the user row.
func (r *ArtistRepo) Update(ctx context.Context, id int64, portfolio, bio string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var userID int64
	if err := tx.GetContext(ctx, &userID, `SELECT user_id FROM artists WHERE id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE artists SET portfolio_link = ? WHERE id = ?`, nullIfEmpty(portfolio), id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE users SET bio = ? WHERE id = ?`, nullIfEmpty(bio), userID); err != nil {
		return err
	}
	return tx.Commit()
}
