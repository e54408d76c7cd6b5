package domain

type User struct {
	ID             int64  `db:"id" json:"id"`
	Name           string `db:"name" json:"name"`
	Username       string `db:"username" json:"username,omitempty"`
	ProfilePicture string `db:"profile_picture" json:"profile_picture,omitempty"`
	Bio            string `db:"bio" json:"bio,omitempty"`
	Email          string `db:"email" json:"email"`
	Hash           string `db:"password_hash" json:"-"`
}

// DisplayName is the username when set, otherwise the full name.
func (u User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.Name
}

// Owns reports whether viewer is the owner identified by ownerID.
// An anonymous viewer owns nothing.
func Owns(viewer *User, ownerID int64) bool {
	return viewer != nil && viewer.ID != 0 && viewer.ID == ownerID
}
