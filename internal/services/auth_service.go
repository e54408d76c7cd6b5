package services

import (
	"errors"
	"strings"

	"bergambar/internal/domain"
	"bergambar/internal/repos"
	"bergambar/internal/validate"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrBadCreds      = errors.New("invalid email or password")
	ErrEmailTaken    = errors.New("an account with that email already exists")
	ErrUsernameTaken = errors.New("that username is taken")
	ErrWeakPassword  = errors.New("password must be 8-64 characters with upper, lower, digit and symbol")
)

type AuthService struct {
	Users *repos.UserRepo
}

func (s *AuthService) Login(sid, email, password string) (*domain.User, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

// Register validates in, creates the account and signs it in on sid.
func (s *AuthService) Register(sid string, in domain.RegisterInput) (*domain.User, error) {
	if err := validate.Struct(&in); err != nil {
		return nil, err
	}
	if !validate.Password(in.Password) {
		return nil, ErrWeakPassword
	}
	if _, err := s.Users.ByEmail(in.Email); err == nil {
		return nil, ErrEmailTaken
	}
	if in.Username != "" {
		taken, err := s.Users.UsernameTaken(in.Username)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "check username")
		}
		if taken {
			return nil, ErrUsernameTaken
		}
	}
	h, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "hash password")
	}
	id, err := s.Users.Create(in.Name, in.Username, strings.ToLower(in.Email), string(h))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "create user")
	}
	if err := s.Users.BindSession(sid, id); err != nil {
		return nil, pkgerrors.Wrap(err, "bind session")
	}
	return &domain.User{ID: id, Name: in.Name, Username: in.Username, Email: in.Email}, nil
}

func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	return s.Users.SessionUser(sid)
}
