package services

import (
	"context"
	"database/sql"
	"errors"

	"bergambar/internal/domain"
	"bergambar/internal/repos"
)

type UserService struct {
	Users       *repos.UserRepo
	Artists     *repos.ArtistRepo
	Commissions *repos.CommissionRepo
}

// Profile is the public view of a user: no email, no hash.
func (s *UserService) Profile(ctx context.Context, id, viewerID int64) (domain.Profile, error) {
	u, err := s.Users.ByID(ctx, id)
	if err != nil {
		return domain.Profile{}, translate(err, "get user")
	}
	u.Hash, u.Email = "", ""

	p := domain.Profile{User: *u}
	artistID, err := s.Artists.IDByUser(ctx, id)
	switch {
	case err == nil:
		p.ArtistID = artistID
	case !errors.Is(err, sql.ErrNoRows):
		return domain.Profile{}, translate(err, "get artist id")
	}

	p.Commissions, err = s.Commissions.ListByUser(ctx, viewerID, id)
	if err != nil {
		return domain.Profile{}, translate(err, "list user commissions")
	}
	return p, nil
}
