// Package session runs generation jobs one at a time per user: starting a new run
// cancels the one in flight, and a superseded run never replaces newer state.
package session

import (
	"context"
	"errors"
	"sync"
)

var ErrSuperseded = errors.New("superseded by a newer run")

type Runner[T any] struct {
	mu      sync.Mutex
	seq     uint64
	cancel  context.CancelFunc
	current T
	ok      bool
}

// Run cancels any in-flight run, then calls fn. If another Run starts before fn returns,
// the result is dropped and ErrSuperseded returned. A successful result becomes Current.
func (r *Runner[T]) Run(ctx context.Context, fn func(ctx context.Context) (T, error)) (T, error) {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	r.seq++
	seq := r.seq
	r.cancel = cancel
	r.mu.Unlock()
	defer cancel()

	v, err := fn(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	var zero T
	if seq != r.seq {
		return zero, ErrSuperseded
	}
	r.cancel = nil
	if err != nil {
		return zero, err
	}
	r.current, r.ok = v, true
	return v, nil
}

// Cancel stops the in-flight run, if any. Its Run returns the cancellation error of fn.
func (r *Runner[T]) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
	}
}

// Current returns the result of the last successful run.
func (r *Runner[T]) Current() (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current, r.ok
}
