package monitor

import (
	"context"
	"time"
)

// Outcome tags how a bounded call finished.
type Outcome int

// Tagged outcomes for bounded calls.
const (
	OutcomeOK Outcome = iota
	OutcomeTimeout
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeTimeout:
		return "timeout"
	default:
		return "error"
	}
}

// withTimeout runs fn bounded by d and collapses "the deadline fired"
// and "fn itself failed" into distinct tags so callers branch on the
// tag instead of inspecting error identity. fn receives a context that
// is cancelled when the deadline fires; a well-behaved fn returns
// promptly after cancellation, but the wrapper does not wait for it.
func withTimeout[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, Outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		done <- result{value: v, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			var zero T
			return zero, OutcomeError, r.err
		}
		return r.value, OutcomeOK, nil
	case <-ctx.Done():
		var zero T
		return zero, OutcomeTimeout, ctx.Err()
	}
}
