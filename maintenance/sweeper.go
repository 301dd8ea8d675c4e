// File: maintenance/sweeper.go

package maintenance

import (
	"context"
	"log/slog"
	"reflect"
	"time"

	sandlodb "github.com/AndreaPrestia/sandlo-db"
)

// Sweeper deletes records older than the store's TTL. Age is measured from
// Created, so updating a record does not extend its life.
type Sweeper struct {
	db       *sandlodb.DB
	interval time.Duration
	reload   chan time.Duration
	log      *slog.Logger
	now      func() time.Time
}

// NewSweeper builds a sweeper ticking at the given interval. A zero or
// negative interval falls back to one minute, a nil logger to
// slog.Default.
func NewSweeper(db *sandlodb.DB, interval time.Duration, logger *slog.Logger) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		db:       db,
		interval: interval,
		reload:   make(chan time.Duration, 1),
		log:      logger,
		now:      time.Now,
	}
}

// SetInterval changes the tick period of a running sweeper. Values at or
// below zero are ignored.
func (s *Sweeper) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-s.reload:
	default:
	}
	select {
	case s.reload <- d:
	default:
	}
}

// Run ticks until ctx is cancelled. Every tick runs one Sweep; failures are
// logged and the loop keeps going.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case d := <-s.reload:
			s.interval = d
			ticker.Reset(d)
			s.log.Info("ttl sweep interval changed", "interval", d.String())
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.log.Info("ttl sweep removed expired entities", "count", n)
			}
		}
	}
}

// Sweep deletes every record whose age exceeds the store TTL and returns
// the number removed. On a store without a TTL it is a no-op. A batch can
// miss when a concurrent caller removes one of the matched records first;
// the miss is logged, the type is skipped and the next tick retries.
func (s *Sweeper) Sweep() int {
	ttl := s.db.EntityTTL()
	if ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-ttl).UnixMilli()
	removed := 0
	for _, t := range s.db.Types() {
		n, err := s.sweepType(t, cutoff)
		if err != nil {
			s.log.Error("ttl sweep failed", "type", t.String(), "error", err)
			continue
		}
		removed += n
	}
	return removed
}

func (s *Sweeper) sweepType(t reflect.Type, cutoff int64) (int, error) {
	expired, err := s.db.GetBy(t, func(e sandlodb.Entity) bool {
		return e.Meta().Created <= cutoff
	})
	if err != nil {
		return 0, err
	}
	if len(expired) == 0 {
		return 0, nil
	}
	return s.db.RemoveMany(expired, t)
}
