package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"testing"
	"time"
)

func TestNotifyOnceReleasesSignalAfterFirstDelivery(t *testing.T) {
	ctx, stop := notifyOnce(context.Background(), syscall.SIGUSR1)
	defer stop()

	// Keep SIGUSR1 from reaching the default handler once notifyOnce lets go.
	guard := make(chan os.Signal, 4)
	signal.Notify(guard, syscall.SIGUSR1)
	defer signal.Stop(guard)

	if err := syscall.Kill(os.Getpid(), syscall.SIGUSR1); err != nil {
		t.Fatalf("send signal: %v", err)
	}
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("expected the first signal to cancel the context")
	}
	if ctx.Err() != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", ctx.Err())
	}

	// stop is idempotent after the watcher has already released the signal.
	stop()
	stop()
}

func TestNotifyOnceFollowsParent(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	ctx, stop := notifyOnce(parent, syscall.SIGUSR2)
	defer stop()
	cancel()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("expected parent cancellation to propagate")
	}
}
