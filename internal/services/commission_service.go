package services

import (
	"context"

	"bergambar/internal/domain"
	"bergambar/internal/repos"
	"bergambar/internal/validate"
)

type CommissionService struct {
	Repo *repos.CommissionRepo
}

func (s *CommissionService) List(ctx context.Context, viewerID int64) ([]domain.Commission, error) {
	out, err := s.Repo.List(ctx, viewerID)
	return out, translate(err, "list commissions")
}

func (s *CommissionService) ListByUser(ctx context.Context, userID, viewerID int64) ([]domain.Commission, error) {
	out, err := s.Repo.ListByUser(ctx, viewerID, userID)
	return out, translate(err, "list commissions by user")
}

func (s *CommissionService) Get(ctx context.Context, id, viewerID int64) (domain.Commission, error) {
	c, err := s.Repo.Get(ctx, viewerID, id)
	if err != nil {
		return domain.Commission{}, translate(err, "get commission")
	}
	return *c, nil
}

func (s *CommissionService) Create(ctx context.Context, viewer *domain.User, in domain.CommissionInput) (int64, error) {
	if err := requireViewer(viewer); err != nil {
		return 0, err
	}
	if err := validate.Struct(&in); err != nil {
		return 0, err
	}
	id, err := s.Repo.Create(ctx, viewer.ID, fields(in))
	return id, translate(err, "create commission")
}

// Update rewrites a commission the viewer owns.
func (s *CommissionService) Update(ctx context.Context, viewer *domain.User, id int64, in domain.CommissionInput) error {
	if err := s.authorize(ctx, viewer, id); err != nil {
		return err
	}
	if err := validate.Struct(&in); err != nil {
		return err
	}
	return translate(s.Repo.Update(ctx, id, fields(in)), "update commission")
}

// Delete removes a commission the viewer owns. Commissions that already
// have orders are kept and ErrConflict is returned.
func (s *CommissionService) Delete(ctx context.Context, viewer *domain.User, id int64) error {
	if err := s.authorize(ctx, viewer, id); err != nil {
		return err
	}
	n, err := s.Repo.CountOrders(ctx, id)
	if err != nil {
		return translate(err, "count orders")
	}
	if n > 0 {
		return domain.ErrConflict
	}
	return translate(s.Repo.Delete(ctx, id), "delete commission")
}

// ToggleLove flips the viewer's love on a commission.
func (s *CommissionService) ToggleLove(ctx context.Context, viewerID, id int64) (domain.LoveResult, error) {
	if viewerID == 0 {
		return domain.LoveResult{}, domain.ErrUnauthenticated
	}
	loved, err := s.Repo.Loved(ctx, id, viewerID)
	if err != nil {
		return domain.LoveResult{}, translate(err, "read love")
	}
	return s.SetLove(ctx, viewerID, id, !loved)
}

// SetLove sets the viewer's love to loved. Repeating it is a no-op.
func (s *CommissionService) SetLove(ctx context.Context, viewerID, id int64, loved bool) (domain.LoveResult, error) {
	if viewerID == 0 {
		return domain.LoveResult{}, domain.ErrUnauthenticated
	}
	n, err := s.Repo.SetLove(ctx, id, viewerID, loved)
	if err != nil {
		return domain.LoveResult{}, translate(err, "set love")
	}
	return domain.LoveResult{CommissionID: id, Loved: loved, Count: n}, nil
}

func (s *CommissionService) authorize(ctx context.Context, viewer *domain.User, id int64) error {
	if err := requireViewer(viewer); err != nil {
		return err
	}
	owner, err := s.Repo.Owner(ctx, id)
	if err != nil {
		return translate(err, "get commission owner")
	}
	if !domain.Owns(viewer, owner) {
		return domain.ErrForbidden
	}
	return nil
}

func fields(in domain.CommissionInput) repos.CommissionFields {
	return repos.CommissionFields{
		Title:        in.Title,
		Description:  in.Description,
		TotalPrice:   in.TotalPrice,
		PublicStatus: in.PublicStatus,
		Image:        in.Image,
	}
}
