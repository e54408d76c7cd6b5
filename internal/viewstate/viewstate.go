// Package viewstate implements the lifecycle every page follows: a page is
// mounted in Loading, its fetch settles into Populated, Empty, NotFound or
// Failed, and a result that arrives after the page is gone is dropped.
package viewstate

import (
	"context"
	"errors"
	"sync"
	"time"

	"bergambar/internal/domain"
)

type State int

const (
	Loading State = iota
	Populated
	Empty
	NotFound
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Populated:
		return "populated"
	case Empty:
		return "empty"
	case NotFound:
		return "not_found"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// ErrUnmounted is returned by Settle when the caller's context ended before
// the fetch settled. The result must not be applied to any view.
var ErrUnmounted = errors.New("viewstate: page unmounted before fetch settled")

type View[T any] struct {
	State State
	Data  T
	Err   error
}

func (v View[T]) IsLoading() bool   { return v.State == Loading }
func (v View[T]) IsPopulated() bool { return v.State == Populated }
func (v View[T]) IsEmpty() bool     { return v.State == Empty }
func (v View[T]) IsNotFound() bool  { return v.State == NotFound }
func (v View[T]) IsFailed() bool    { return v.State == Failed }

type Fetcher[T any] func(ctx context.Context) (T, error)

type Options struct {
	// Timeout bounds a single attempt. Zero means no per-attempt bound.
	Timeout time.Duration
	// Retries is the number of extra attempts after a transient failure.
	Retries int
	// Backoff is the pause before a retry.
	Backoff time.Duration
}

type Controller[T any] struct {
	opts  Options
	empty func(T) bool
}

// List returns a controller for collection pages: no items is Empty.
func List[E any](opts Options) *Controller[[]E] {
	return &Controller[[]E]{opts: opts, empty: func(xs []E) bool { return len(xs) == 0 }}
}

// Detail returns a controller for single-entity pages: domain.ErrNotFound
// from the fetch is NotFound.
func Detail[T any](opts Options) *Controller[T] {
	return &Controller[T]{opts: opts, empty: func(T) bool { return false }}
}

// Settle runs fetch until it yields a settled view. NotFound is terminal and
// never retried. When ctx ends first the view is Loading and err is
// ErrUnmounted.
func (c *Controller[T]) Settle(ctx context.Context, fetch Fetcher[T]) (View[T], error) {
	var lastErr error
	for attempt := 0; attempt <= c.opts.Retries; attempt++ {
		if attempt > 0 && c.opts.Backoff > 0 {
			select {
			case <-ctx.Done():
				return View[T]{State: Loading}, ErrUnmounted
			case <-time.After(c.opts.Backoff):
			}
		}
		data, err := c.attempt(ctx, fetch)
		if ctx.Err() != nil {
			return View[T]{State: Loading}, ErrUnmounted
		}
		switch {
		case err == nil:
			if c.empty(data) {
				return View[T]{State: Empty, Data: data}, nil
			}
			return View[T]{State: Populated, Data: data}, nil
		case errors.Is(err, domain.ErrNotFound):
			return View[T]{State: NotFound}, nil
		case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrUnauthenticated):
			return View[T]{State: Failed, Err: err}, nil
		}
		lastErr = err
	}
	return View[T]{State: Failed, Err: lastErr}, nil
}

func (c *Controller[T]) attempt(ctx context.Context, fetch Fetcher[T]) (T, error) {
	if c.opts.Timeout <= 0 {
		return fetch(ctx)
	}
	actx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()
	return fetch(actx)
}

// Page holds one mounted view. Every Mount starts a new generation; a fetch
// that settles for an older generation, or after Unmount, is discarded.
type Page[T any] struct {
	ctrl *Controller[T]

	mu      sync.Mutex
	view    View[T]
	mounted bool
	gen     uint64
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewPage[T any](ctrl *Controller[T]) *Page[T] {
	return &Page[T]{ctrl: ctrl, view: View[T]{State: Loading}}
}

// Mount enters Loading and starts fetch in the background. The returned
// channel closes once the fetch has settled or been discarded.
func (p *Page[T]) Mount(ctx context.Context, fetch Fetcher[T]) <-chan struct{} {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.gen++
	gen := p.gen
	p.mounted = true
	p.view = View[T]{State: Loading}
	mctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	done := make(chan struct{})
	p.done = done
	p.mu.Unlock()

	go func() {
		defer close(done)
		v, err := p.ctrl.Settle(mctx, fetch)
		p.apply(gen, v, err)
	}()
	return done
}

func (p *Page[T]) apply(gen uint64, v View[T], err error) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil || !p.mounted || gen != p.gen {
		return false
	}
	p.view = v
	return true
}

// Unmount cancels any pending fetch. The view is frozen from here on.
func (p *Page[T]) Unmount() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mounted = false
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

// Await blocks until the current fetch settles or ctx ends, then returns
// the view.
func (p *Page[T]) Await(ctx context.Context) (View[T], error) {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			return p.View(), ErrUnmounted
		}
	}
	v := p.View()
	if v.IsLoading() {
		return v, ErrUnmounted
	}
	return v, nil
}

func (p *Page[T]) View() View[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view
}

// Load mounts a fresh page, waits for it and unmounts. It is the
// request-scoped form used by fragment handlers.
func Load[T any](ctx context.Context, ctrl *Controller[T], fetch Fetcher[T]) (View[T], error) {
	p := NewPage(ctrl)
	p.Mount(ctx, fetch)
	defer p.Unmount()
	return p.Await(ctx)
}
