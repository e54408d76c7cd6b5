package services

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/pkg/errors"

	"bergambar/internal/domain"
)

// translate maps a repository error onto the domain sentinels. Anything
// else is wrapped with what was being attempted.
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.Wrap(domain.ErrNotFound, what)
	}
	return errors.Wrap(err, what)
}

// Delay wraps fetch so it starts only after d has passed, or fails with the
// context's error if ctx ends first. A zero d returns fetch unchanged.
func Delay[T any](d time.Duration, fetch func(context.Context) (T, error)) func(context.Context) (T, error) {
	if d <= 0 {
		return fetch
	}
	return func(ctx context.Context) (T, error) {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case <-t.C:
		}
		return fetch(ctx)
	}
}

func requireViewer(viewer *domain.User) error {
	if viewer == nil || viewer.ID == 0 {
		return domain.ErrUnauthenticated
	}
	return nil
}
