package session

import (
	"context"
	"errors"
	"testing"
)

func TestRunnerSupersedes(t *testing.T) {
	var r Runner[string]
	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := r.Run(context.Background(), func(ctx context.Context) (string, error) {
			close(started)
			<-ctx.Done()
			return "stale", ctx.Err()
		})
		done <- err
	}()
	<-started

	v, err := r.Run(context.Background(), func(ctx context.Context) (string, error) {
		return "fresh", nil
	})
	if err != nil || v != "fresh" {
		t.Fatalf("second run = %q, %v", v, err)
	}
	if err := <-done; !errors.Is(err, ErrSuperseded) {
		t.Errorf("first run error = %v, want ErrSuperseded", err)
	}
	if cur, ok := r.Current(); !ok || cur != "fresh" {
		t.Errorf("Current = %q, %v", cur, ok)
	}
}

func TestRunnerStaleSuccessDropped(t *testing.T) {
	var r Runner[int]
	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		// ignores cancellation and succeeds late
		_, err := r.Run(context.Background(), func(ctx context.Context) (int, error) {
			close(started)
			<-release
			return 1, nil
		})
		done <- err
	}()
	<-started
	if _, err := r.Run(context.Background(), func(ctx context.Context) (int, error) { return 2, nil }); err != nil {
		t.Fatal(err)
	}
	close(release)
	if err := <-done; !errors.Is(err, ErrSuperseded) {
		t.Errorf("late run error = %v, want ErrSuperseded", err)
	}
	if cur, _ := r.Current(); cur != 2 {
		t.Errorf("Current = %d, want 2", cur)
	}
}

func TestRunnerErrorKeepsCurrent(t *testing.T) {
	var r Runner[int]
	if _, ok := r.Current(); ok {
		t.Errorf("Current before any run: ok")
	}
	r.Run(context.Background(), func(ctx context.Context) (int, error) { return 7, nil })
	boom := errors.New("boom")
	if _, err := r.Run(context.Background(), func(ctx context.Context) (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Errorf("error = %v, want boom", err)
	}
	if cur, ok := r.Current(); !ok || cur != 7 {
		t.Errorf("Current = %d, %v, want 7", cur, ok)
	}
}

func TestRunnerCancel(t *testing.T) {
	var r Runner[int]
	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := r.Run(context.Background(), func(ctx context.Context) (int, error) {
			close(started)
			<-ctx.Done()
			return 0, ctx.Err()
		})
		done <- err
	}()
	<-started
	r.Cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
