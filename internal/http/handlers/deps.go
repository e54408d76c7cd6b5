package handlers

import (
	"context"
	"time"

	"bergambar/internal/config"
	"bergambar/internal/domain"
	"bergambar/internal/repos"
	"bergambar/internal/services"
	"bergambar/internal/viewstate"

	"github.com/jmoiron/sqlx"
)

// The handlers depend on these narrow views of the services so tests can
// swap in fakes.

type ArtistSource interface {
	List(ctx context.Context) ([]domain.Artist, error)
	Get(ctx context.Context, id int64) (domain.Artist, error)
	Detail(ctx context.Context, id, viewerID int64) (services.ArtistPage, error)
	Update(ctx context.Context, viewer *domain.User, id int64, in domain.ArtistInput) error
}

type CommissionStore interface {
	List(ctx context.Context, viewerID int64) ([]domain.Commission, error)
	Get(ctx context.Context, id, viewerID int64) (domain.Commission, error)
	Create(ctx context.Context, viewer *domain.User, in domain.CommissionInput) (int64, error)
	Update(ctx context.Context, viewer *domain.User, id int64, in domain.CommissionInput) error
	Delete(ctx context.Context, viewer *domain.User, id int64) error
	ToggleLove(ctx context.Context, viewerID, id int64) (domain.LoveResult, error)
	SetLove(ctx context.Context, viewerID, id int64, loved bool) (domain.LoveResult, error)
}

type OrderSource interface {
	List(ctx context.Context, viewerID int64) ([]domain.Order, error)
	Get(ctx context.Context, viewerID, id int64) (domain.Order, error)
}

type ChatStore interface {
	Summaries(ctx context.Context, viewerID int64) ([]domain.ChatSummary, error)
	Thread(ctx context.Context, viewerID, counterpartID int64) (domain.Thread, error)
	Send(ctx context.Context, viewerID, counterpartID int64, in domain.MessageInput) error
}

type ProfileSource interface {
	Profile(ctx context.Context, id, viewerID int64) (domain.Profile, error)
}

// Loader carries the fetch policy every fragment settles with.
type Loader struct {
	Opts  viewstate.Options
	Delay time.Duration
	// Budget bounds the whole settle. When it runs out the page is treated
	// as gone and the result is discarded.
	Budget time.Duration
}

type Deps struct {
	Auth              *services.AuthService
	AuthHandler       *AuthHandler
	ArtistHandler     *ArtistHandler
	CommissionHandler *CommissionHandler
	OrderHandler      *OrderHandler
	ChatHandler       *ChatHandler
	UserHandler       *UserHandler
	APIHandler        *APIHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService) *Deps {
	userRepo := repos.NewUserRepo(db)
	artistRepo := repos.NewArtistRepo(db)
	commRepo := repos.NewCommissionRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	chatRepo := repos.NewChatRepo(db)

	artistSvc := &services.ArtistService{Artists: artistRepo, Commissions: commRepo}
	commSvc := &services.CommissionService{Repo: commRepo}
	orderSvc := &services.OrderService{Repo: orderRepo}
	chatSvc := &services.ChatService{Chats: chatRepo, Users: userRepo}
	userSvc := &services.UserService{Users: userRepo, Artists: artistRepo, Commissions: commRepo}

	ld := Loader{
		Opts: viewstate.Options{
			Timeout: cfg.FetchTimeout,
			Retries: cfg.FetchRetries,
			Backoff: cfg.FetchBackoff,
		},
		Delay:  cfg.FetchDelay,
		Budget: cfg.PageBudget(),
	}

	return &Deps{
		Auth:              auth,
		AuthHandler:       &AuthHandler{Auth: auth},
		ArtistHandler:     &ArtistHandler{Artists: artistSvc, Load: ld},
		CommissionHandler: &CommissionHandler{Commissions: commSvc, Load: ld},
		OrderHandler:      &OrderHandler{Orders: orderSvc, Load: ld},
		ChatHandler:       &ChatHandler{Chats: chatSvc, Load: ld},
		UserHandler:       &UserHandler{Users: userSvc, Load: ld},
		APIHandler: &APIHandler{
			Artists: artistSvc, Commissions: commSvc, Orders: orderSvc, Chats: chatSvc, Load: ld,
		},
	}
}
