// File: maintenance/runner.go

// Package maintenance runs the periodic upkeep a live store needs: a TTL
// sweep that deletes expired records and a memory watch that pulls the
// store back under its byte budget. Both drive the store purely through its
// public surface, so hosts that prefer their own scheduling can reimplement
// either on top of Types, GetBy, RemoveMany and Shrink.
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	sandlodb "github.com/AndreaPrestia/sandlo-db"
)

// Runner supervises one Sweeper and one Watcher as a unit.
type Runner struct {
	sweeper *Sweeper
	watcher *Watcher
}

// NewRunner wires a sweeper ticking every ttlInterval and a watcher ticking
// every memoryInterval to db.
func NewRunner(db *sandlodb.DB, ttlInterval, memoryInterval time.Duration, logger *slog.Logger) *Runner {
	return &Runner{
		sweeper: NewSweeper(db, ttlInterval, logger),
		watcher: NewWatcher(db, memoryInterval, logger),
	}
}

// Run blocks until ctx is cancelled, then stops both drivers and returns.
func (r *Runner) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return r.sweeper.Run(ctx) })
	g.Go(func() error { return r.watcher.Run(ctx) })
	return g.Wait()
}

// SetTTLInterval adjusts the sweeper period while running.
func (r *Runner) SetTTLInterval(d time.Duration) { r.sweeper.SetInterval(d) }

// SetMemoryInterval adjusts the watcher period while running.
func (r *Runner) SetMemoryInterval(d time.Duration) { r.watcher.SetInterval(d) }
