package sandlodb

import "reflect"

// Stats is a point-in-time snapshot of store occupancy.
type Stats struct {
	Entities   int     `json:"entities"`
	Types      int     `json:"types"`
	Bytes      int64   `json:"bytes"`
	MaxBytes   float64 `json:"max_bytes"`
	TTLMinutes int     `json:"ttl_minutes"`
	Evictions  uint64  `json:"evictions"`
}

// Types returns the type tags that currently hold at least one record.
// Order is unspecified. Tags disappear as soon as their last record is
// removed or evicted.
func (db *DB) Types() []reflect.Type {
	db.mu.Lock()
	defer db.mu.Unlock()
	out := make([]reflect.Type, 0, len(db.collections))
	for t := range db.collections {
		out = append(out, t)
	}
	return out
}

// SizeInBytes returns the summed cached size of every stored record.
func (db *DB) SizeInBytes() int64 {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.sizeBytes
}

// Stats gathers all occupancy counters under one lock acquisition.
func (db *DB) Stats() Stats {
	db.mu.Lock()
	defer db.mu.Unlock()
	entities := 0
	for _, col := range db.collections {
		entities += len(col)
	}
	return Stats{
		Entities:   entities,
		Types:      len(db.collections),
		Bytes:      db.sizeBytes,
		MaxBytes:   db.opts.MaxMemoryAllocationBytes,
		TTLMinutes: db.opts.EntityTTLMinutes,
		Evictions:  db.evictions,
	}
}
