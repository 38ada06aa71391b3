package monitor

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWithTimeout_OK(t *testing.T) {
	t.Parallel()

	v, outcome, err := withTimeout(context.Background(), time.Second, func(context.Context) (int, error) {
		return 42, nil
	})
	if outcome != OutcomeOK || err != nil || v != 42 {
		t.Errorf("got (%d, %v, %v)", v, outcome, err)
	}
}

func TestWithTimeout_Error(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	_, outcome, err := withTimeout(context.Background(), time.Second, func(context.Context) (int, error) {
		return 0, boom
	})
	if outcome != OutcomeError || !errors.Is(err, boom) {
		t.Errorf("got (%v, %v)", outcome, err)
	}
}

func TestWithTimeout_DeadlineFires(t *testing.T) {
	t.Parallel()

	started := time.Now()
	_, outcome, err := withTimeout(context.Background(), 10*time.Millisecond, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})
	if outcome != OutcomeTimeout {
		t.Fatalf("outcome = %v, want timeout", outcome)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v", err)
	}
	if elapsed := time.Since(started); elapsed > time.Second {
		t.Errorf("wrapper waited %v for the slow call", elapsed)
	}
}

func TestWithTimeout_ParentCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, outcome, _ := withTimeout(ctx, time.Minute, func(context.Context) (int, error) {
		time.Sleep(50 * time.Millisecond)
		return 1, nil
	})
	if outcome != OutcomeTimeout {
		t.Errorf("outcome = %v, want timeout tag for cancelled parent", outcome)
	}
}
