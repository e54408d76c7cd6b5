package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"bergambar/internal/domain"
	"bergambar/internal/repos"
	"bergambar/internal/validate"
)

// recentWork is how many of an artist's commissions the detail page shows.
const recentWork = 6

type ArtistService struct {
	Artists     *repos.ArtistRepo
	Commissions *repos.CommissionRepo
}

// ArtistPage is everything the artist detail view needs.
type ArtistPage struct {
	Artist domain.Artist
	Recent []domain.Commission
}

func (s *ArtistService) List(ctx context.Context) ([]domain.Artist, error) {
	out, err := s.Artists.List(ctx)
	return out, translate(err, "list artists")
}

func (s *ArtistService) Get(ctx context.Context, id int64) (domain.Artist, error) {
	a, err := s.Artists.Get(ctx, id)
	if err != nil {
		return domain.Artist{}, translate(err, "get artist")
	}
	return *a, nil
}

// Detail loads the artist and their recent commissions concurrently.
func (s *ArtistService) Detail(ctx context.Context, id, viewerID int64) (ArtistPage, error) {
	var page ArtistPage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := s.Get(gctx, id)
		page.Artist = a
		return err
	})
	g.Go(func() error {
		recent, err := s.Commissions.ListByArtist(gctx, viewerID, id, recentWork)
		page.Recent = recent
		return translate(err, "list recent work")
	})
	if err := g.Wait(); err != nil {
		return ArtistPage{}, err
	}
	return page, nil
}

// Update edits the artist profile. Only the artist's own user may do so.
func (s *ArtistService) Update(ctx context.Context, viewer *domain.User, id int64, in domain.ArtistInput) error {
	if err := requireViewer(viewer); err != nil {
		return err
	}
	a, err := s.Artists.Get(ctx, id)
	if err != nil {
		return translate(err, "get artist")
	}
	if !domain.Owns(viewer, a.UserID) {
		return domain.ErrForbidden
	}
	if err := validate.Struct(&in); err != nil {
		return err
	}
	return translate(s.Artists.Update(ctx, id, in.PortfolioLink, in.Bio), "update artist")
}
