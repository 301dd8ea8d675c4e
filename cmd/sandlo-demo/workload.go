// File: cmd/sandlo-demo/workload.go

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sandlodb "github.com/AndreaPrestia/sandlo-db"
)

// Event is a sample record for the demo workload.
type Event struct {
	sandlodb.Metadata
	Source  string `json:"source"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Session is a second record type so the sweeps have more than one
// collection to walk.
type Session struct {
	sandlodb.Metadata
	User   string `json:"user"`
	Active bool   `json:"active"`
}

// runWorkload writes a steady trickle of records so the TTL sweep, the
// memory watch and the diagnostics endpoints all have something to show.
func runWorkload(ctx context.Context, db *sandlodb.DB, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	levels := []string{"debug", "info", "warn", "error"}
	var lastSession *Session
	i := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			i++
			_, err := sandlodb.Add(db, &Event{
				Source:  "demo",
				Level:   levels[i%len(levels)],
				Message: fmt.Sprintf("synthetic event %d", i),
			})
			if err != nil {
				logger.Error("workload add failed", "error", err)
				continue
			}
			switch {
			case i%5 == 0:
				s, err := sandlodb.Add(db, &Session{User: fmt.Sprintf("user-%d", i/5), Active: true})
				if err == nil {
					lastSession = s
				}
			case i%5 == 2 && lastSession != nil:
				// Update through a copy: the stored record stays shared
				// with readers until the store swaps it out.
				closed := &Session{Metadata: lastSession.Metadata, User: lastSession.User, Active: false}
				if _, err := sandlodb.Update(db, closed); err != nil && !errors.Is(err, sandlodb.ErrNotFound) {
					logger.Error("workload update failed", "error", err)
				}
				lastSession = nil
			}
			if i%40 == 0 {
				st := db.Stats()
				logger.Info("store snapshot",
					"entities", st.Entities,
					"types", st.Types,
					"bytes", st.Bytes,
					"evictions", st.Evictions)
			}
		}
	}
}
