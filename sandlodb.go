// Package sandlodb is an embeddable in-memory store for typed records.
//
// A record is any struct that embeds Metadata; the store assigns its id and
// timestamps. Records of one Go type form one ordered collection, every
// record's serialized size is measured and cached, and when an insert would
// push the total past the configured budget the oldest records are evicted
// first. All operations, queries included, share one store-wide lock,
// trading parallelism for strict operation ordering.
//
// The typed surface is the package-level generic functions below. The DB
// methods mirror them with a reflect.Type tag in place of the type
// parameter and serve hosts that discover types only at runtime, such as
// the TTL sweeper in package maintenance.
package sandlodb

import (
	"fmt"

	"github.com/google/uuid"
)

// Add stores entity, assigning a fresh id and setting both timestamps. It
// returns the same pointer with the metadata filled in. When a memory
// budget is configured the eviction sweep runs before the append, so the
// newcomer is never evicted by its own insert.
func Add[E Entity](db *DB, entity E) (E, error) {
	var zero E
	if isNilEntity(entity) {
		return zero, fmt.Errorf("%w: entity must not be nil", ErrInvalidArgument)
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := db.addLocked(typeTag[E](), entity); err != nil {
		return zero, err
	}
	return entity, nil
}

// AddMany stores a batch in input order under one lock acquisition. Every
// element is checked up front: one nil or unserializable element fails the
// whole batch and nothing is stored. An empty batch succeeds and stores
// nothing.
func AddMany[E Entity](db *DB, entities []E) ([]E, error) {
	if entities == nil {
		return nil, fmt.Errorf("%w: entities must not be nil", ErrInvalidArgument)
	}
	for i, e := range entities {
		if isNilEntity(e) {
			return nil, fmt.Errorf("%w: entities[%d] must not be nil", ErrInvalidArgument, i)
		}
		if _, err := db.sizeOf(e); err != nil {
			return nil, fmt.Errorf("%w: cannot size entities[%d]: %v", ErrInvalidArgument, i, err)
		}
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	t := typeTag[E]()
	for _, e := range entities {
		if err := db.addLocked(t, e); err != nil {
			return nil, err
		}
	}
	return entities, nil
}

// Update replaces the stored record carrying entity's id. Created is kept
// from the stored version, Updated is refreshed and the cached size is
// re-measured. The id must be set and must be stored.
func Update[E Entity](db *DB, entity E) (E, error) {
	var zero E
	if isNilEntity(entity) {
		return zero, fmt.Errorf("%w: entity must not be nil", ErrInvalidArgument)
	}
	if entity.Meta().ID == uuid.Nil {
		return zero, fmt.Errorf("%w: entity id must be set", ErrInvalidArgument)
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := db.updateLocked(typeTag[E](), entity); err != nil {
		return zero, err
	}
	return entity, nil
}

// UpdateMany applies a batch of updates under one lock acquisition. Every
// target is resolved before the first write, so one unknown id fails the
// batch with the store untouched. When two elements carry the same id the
// later one wins.
func UpdateMany[E Entity](db *DB, entities []E) ([]E, error) {
	if entities == nil {
		return nil, fmt.Errorf("%w: entities must not be nil", ErrInvalidArgument)
	}
	if len(entities) == 0 {
		return entities, nil
	}
	for i, e := range entities {
		if isNilEntity(e) {
			return nil, fmt.Errorf("%w: entities[%d] must not be nil", ErrInvalidArgument, i)
		}
		if e.Meta().ID == uuid.Nil {
			return nil, fmt.Errorf("%w: entities[%d] id must be set", ErrInvalidArgument, i)
		}
		if _, err := db.sizeOf(e); err != nil {
			return nil, fmt.Errorf("%w: cannot size entities[%d]: %v", ErrInvalidArgument, i, err)
		}
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	t := typeTag[E]()
	col, ok := db.collections[t]
	if !ok {
		return nil, fmt.Errorf("%w: no collection for type %s", ErrNotFound, t)
	}
	targets := make([]*slot, len(entities))
	for i, e := range entities {
		idx, err := findByID(col, t, e.Meta().ID)
		if err != nil {
			return nil, err
		}
		targets[i] = col[idx]
	}
	for i, e := range entities {
		if err := db.updateSlotLocked(t, targets[i], e); err != nil {
			return nil, err
		}
	}
	return entities, nil
}

// Remove deletes the stored record carrying entity's id and returns the
// number of records removed, which is 1 on success.
func Remove[E Entity](db *DB, entity E) (int, error) {
	if isNilEntity(entity) {
		return 0, fmt.Errorf("%w: entity must not be nil", ErrInvalidArgument)
	}
	if entity.Meta().ID == uuid.Nil {
		return 0, fmt.Errorf("%w: entity id must be set", ErrInvalidArgument)
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := db.removeOneLocked(typeTag[E](), entity.Meta().ID); err != nil {
		return 0, err
	}
	return 1, nil
}

// RemoveMany deletes a batch by id under one lock acquisition and returns
// the number of records removed. Duplicate ids collapse to one removal; one
// unknown id fails the batch with the store untouched. An empty batch
// succeeds with count zero.
func RemoveMany[E Entity](db *DB, entities []E) (int, error) {
	if entities == nil {
		return 0, fmt.Errorf("%w: entities must not be nil", ErrInvalidArgument)
	}
	ids := make([]uuid.UUID, len(entities))
	for i, e := range entities {
		if isNilEntity(e) {
			return 0, fmt.Errorf("%w: entities[%d] must not be nil", ErrInvalidArgument, i)
		}
		if e.Meta().ID == uuid.Nil {
			return 0, fmt.Errorf("%w: entities[%d] id must be set", ErrInvalidArgument, i)
		}
		ids[i] = e.Meta().ID
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.removeManyLocked(typeTag[E](), ids)
}

// GetAll returns every stored record of E in insertion order. A type never
// stored yields an empty slice.
func GetAll[E Entity](db *DB) []E {
	db.mu.Lock()
	defer db.mu.Unlock()
	col := db.collections[typeTag[E]()]
	out := make([]E, 0, len(col))
	for _, s := range col {
		out = append(out, s.entity.(E))
	}
	return out
}

// GetBy returns the records of E matching predicate, in insertion order.
// No match is an empty slice, not an error. The predicate runs with the
// store lock held: keep it fast and never call back into the store.
func GetBy[E Entity](db *DB, predicate func(E) bool) ([]E, error) {
	if predicate == nil {
		return nil, fmt.Errorf("%w: predicate must not be nil", ErrInvalidArgument)
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	out := make([]E, 0)
	for _, s := range db.collections[typeTag[E]()] {
		if e := s.entity.(E); predicate(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Get returns the first stored record of E matching predicate, in insertion
// order. The boolean reports whether anything matched; no match is not an
// error.
func Get[E Entity](db *DB, predicate func(E) bool) (E, bool, error) {
	var zero E
	if predicate == nil {
		return zero, false, fmt.Errorf("%w: predicate must not be nil", ErrInvalidArgument)
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, s := range db.collections[typeTag[E]()] {
		if e := s.entity.(E); predicate(e) {
			return e, true, nil
		}
	}
	return zero, false, nil
}

// GetByID returns the record of E with the given id. The boolean reports
// whether it is stored.
func GetByID[E Entity](db *DB, id uuid.UUID) (E, bool) {
	var zero E
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, s := range db.collections[typeTag[E]()] {
		if s.entity.Meta().ID == id {
			return s.entity.(E), true
		}
	}
	return zero, false
}
