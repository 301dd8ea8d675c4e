package sandlodb

import (
	"reflect"
	"sort"
)

// evictLocked reclaims space when the projected total, the current byte
// count plus the incoming record's size, reaches the configured budget.
// Collections are swept one at a time, each in ascending last-update order.
// A slot is removed when dropping it lands the projected total under
// budget; the sweep of a collection stops at the first slot too small for
// that, and the whole pass stops once the total is under budget. The pass
// is best effort and never fails: with a tight budget and a large newcomer
// the store can stay over budget.
//
// Callers hold db.mu. The incoming record is not yet stored, so it cannot
// evict itself.
func (db *DB) evictLocked(incoming int64) int {
	max := db.opts.MaxMemoryAllocationBytes
	if max <= 0 {
		return 0
	}
	if float64(db.sizeBytes+incoming) < max {
		return 0
	}
	evicted := 0
	for t := range db.collections {
		ordered := oldestFirst(db.collections[t])
		for _, victim := range ordered {
			projected := float64(db.sizeBytes + incoming)
			if projected < max {
				return evicted
			}
			if projected-float64(victim.sizeBytes) >= max {
				break
			}
			db.dropSlotLocked(t, victim)
			evicted++
		}
	}
	return evicted
}

// oldestFirst copies col sorted by ascending last-update time. The sort is
// stable so records updated in the same millisecond keep insertion order.
func oldestFirst(col []*slot) []*slot {
	ordered := make([]*slot, len(col))
	copy(ordered, col)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].lastUpdate < ordered[j].lastUpdate
	})
	return ordered
}

// dropSlotLocked removes victim from the collection for t by identity and
// counts the eviction. Callers hold db.mu.
func (db *DB) dropSlotLocked(t reflect.Type, victim *slot) {
	for i, s := range db.collections[t] {
		if s == victim {
			db.removeAtLocked(t, i)
			db.evictions++
			return
		}
	}
}

// Shrink runs one eviction pass outside any insert and returns the number
// of records removed. Inserts evict inline, but updates that grow records
// can leave an idle store over budget; hosts cover that by calling Shrink
// on a timer, usually through maintenance.Watcher.
func (db *DB) Shrink() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.evictLocked(0)
}
