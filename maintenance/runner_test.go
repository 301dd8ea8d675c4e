package maintenance

import (
	"context"
	"log/slog"
	"testing"
	"time"

	sandlodb "github.com/AndreaPrestia/sandlo-db"
)

func TestRunnerLifecycle(t *testing.T) {
	db := newTTLStore(t, 5)
	r := NewRunner(db, 10*time.Millisecond, 10*time.Millisecond, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	// interval changes are picked up by the running tickers
	r.SetTTLInterval(5 * time.Millisecond)
	r.SetMemoryInterval(5 * time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("runner returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("runner did not stop after cancel")
	}
}

func TestRunnerSweepsWhileRunning(t *testing.T) {
	db := newTTLStore(t, 5)
	r := NewRunner(db, 5*time.Millisecond, 5*time.Millisecond, slog.Default())
	r.sweeper.now = func() time.Time { return time.Now().Add(10 * time.Minute) }

	if _, err := sandlodb.Add(db, &message{Body: "stale"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = r.Run(ctx) }()

	deadline := time.After(time.Second)
	for len(db.Types()) != 0 {
		select {
		case <-deadline:
			t.Fatalf("runner did not sweep the expired record")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
