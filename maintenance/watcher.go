// File: maintenance/watcher.go

package maintenance

import (
	"context"
	"log/slog"
	"time"

	sandlodb "github.com/AndreaPrestia/sandlo-db"
)

// Watcher pulls a store back under its memory budget while nothing is being
// inserted. Inserts evict inline, but updates that grow records can leave
// an idle store over budget with no insert in sight; the watcher runs the
// same sweep on a timer.
type Watcher struct {
	db       *sandlodb.DB
	interval time.Duration
	reload   chan time.Duration
	log      *slog.Logger
}

// NewWatcher builds a watcher ticking at the given interval. A zero or
// negative interval falls back to one minute, a nil logger to
// slog.Default.
func NewWatcher(db *sandlodb.DB, interval time.Duration, logger *slog.Logger) *Watcher {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		db:       db,
		interval: interval,
		reload:   make(chan time.Duration, 1),
		log:      logger,
	}
}

// SetInterval changes the tick period of a running watcher. Values at or
// below zero are ignored.
func (w *Watcher) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-w.reload:
	default:
	}
	select {
	case w.reload <- d:
	default:
	}
}

// Run ticks until ctx is cancelled. Every tick runs one Check.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case d := <-w.reload:
			w.interval = d
			ticker.Reset(d)
			w.log.Info("memory watch interval changed", "interval", d.String())
		case <-ticker.C:
			if n := w.Check(); n > 0 {
				w.log.Info("memory watch evicted entities", "count", n, "bytes", w.db.SizeInBytes())
			}
		}
	}
}

// Check runs one eviction pass and returns the number of records removed.
// Under budget it is a no-op.
func (w *Watcher) Check() int {
	return w.db.Shrink()
}
