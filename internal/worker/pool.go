// Package worker bounds how many CPU-heavy extractions run at once so a
// single large upload cannot starve concurrent requests.
package worker

import "context"

// Pool is a fixed-size slot pool. The zero value is unusable; create one
// with New.
type Pool struct {
	slots chan struct{}
}

// New creates a pool with the given number of slots; sizes below one are
// lifted to one.
func New(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{slots: make(chan struct{}, size)}
}

// Do runs fn once a slot is free and returns its error. If ctx expires
// while waiting for a slot or while fn runs, Do returns the context error
// instead; the slot is released when fn eventually finishes.
func (p *Pool) Do(ctx context.Context, fn func() error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case p.slots <- struct{}{}:
	}

	done := make(chan error, 1)
	go func() {
		defer func() { <-p.slots }()
		done <- fn()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}
