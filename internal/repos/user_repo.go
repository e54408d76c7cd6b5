package repos

import (
	"context"

	"bergambar/internal/domain"

	"github.com/jmoiron/sqlx"
)

// userCols selects a full users row. Nullable text columns are coalesced so
// they scan into plain strings.
const userCols = `u.id, u.name, COALESCE(u.username,'') AS username,
	COALESCE(u.profile_picture,'') AS profile_picture, COALESCE(u.bio,'') AS bio,
	u.email, u.password_hash`

// userAs selects the public columns of u into a nested struct named prefix.
func userAs(prefix string) string {
	return `u.id AS "` + prefix + `.id", u.name AS "` + prefix + `.name",
	COALESCE(u.username,'') AS "` + prefix + `.username",
	COALESCE(u.profile_picture,'') AS "` + prefix + `.profile_picture"`
}

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users u WHERE LOWER(u.email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := r.DB.GetContext(ctx, &u, `SELECT `+userCols+` FROM users u WHERE u.id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UsernameTaken reports whether a user already has username (case-insensitive).
func (r *UserRepo) UsernameTaken(username string) (bool, error) {
	var n int
	err := r.DB.Get(&n, `SELECT COUNT(*) FROM users WHERE LOWER(username)=LOWER(?)`, username)
	return n > 0, err
}

// Create inserts a user and returns its id. hash is the bcrypt hash.
func (r *UserRepo) Create(name, username, email, hash string) (int64, error) {
	res, err := r.DB.Exec(`INSERT INTO users(name,username,email,password_hash) VALUES(?,?,?,?)`,
		name, nullIfEmpty(username), email, hash)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *UserRepo) UpdateBio(ctx context.Context, userID int64, bio string) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE users SET bio=? WHERE id=?`, nullIfEmpty(bio), userID)
	return err
}

func (r *UserRepo) BindSession(sid string, userID int64) error {
	_, err := r.DB.Exec(`INSERT INTO sessions(id,user_id,last_seen) 
                          VALUES(?,?,CURRENT_TIMESTAMP)
                          ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id,last_seen=CURRENT_TIMESTAMP`, sid, userID)
	return err
}

func (r *UserRepo) SessionUser(sid string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
      SELECT `+userCols+`
      FROM sessions s 
      JOIN users u ON u.id=s.user_id
      WHERE s.id=?`, sid)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) UnbindSession(sid string) error {
	_, err := r.DB.Exec(`UPDATE sessions SET user_id=NULL,last_seen=CURRENT_TIMESTAMP WHERE id=?`, sid)
	return err
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
