package sandlodb

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"
)

// Type-erased variants of the generic API, keyed by the reflect.Type tags
// reported by Types. They serve hosts that walk the store without
// compile-time types: list tags, query with GetBy, delete with RemoveMany.

// GetAll returns every record stored under t in insertion order. A nil or
// unknown tag yields an empty slice; listing never fails.
func (db *DB) GetAll(t reflect.Type) []Entity {
	if t == nil {
		return []Entity{}
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	col := db.collections[t]
	out := make([]Entity, 0, len(col))
	for _, s := range col {
		out = append(out, s.entity)
	}
	return out
}

// GetBy returns the records under t matching predicate, in insertion order.
// No match is an empty slice. The predicate runs with the store lock held:
// keep it fast and never call back into the store.
func (db *DB) GetBy(t reflect.Type, predicate func(Entity) bool) ([]Entity, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: type must not be nil", ErrInvalidArgument)
	}
	if predicate == nil {
		return nil, fmt.Errorf("%w: predicate must not be nil", ErrInvalidArgument)
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	out := make([]Entity, 0)
	for _, s := range db.collections[t] {
		if predicate(s.entity) {
			out = append(out, s.entity)
		}
	}
	return out, nil
}

// Get returns the first record under t matching predicate, in insertion
// order. The boolean reports whether anything matched.
func (db *DB) Get(t reflect.Type, predicate func(Entity) bool) (Entity, bool, error) {
	if t == nil {
		return nil, false, fmt.Errorf("%w: type must not be nil", ErrInvalidArgument)
	}
	if predicate == nil {
		return nil, false, fmt.Errorf("%w: predicate must not be nil", ErrInvalidArgument)
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, s := range db.collections[t] {
		if predicate(s.entity) {
			return s.entity, true, nil
		}
	}
	return nil, false, nil
}

// GetByID returns the record under t carrying the given id. The boolean
// reports whether it is stored; an absent id is not an error.
func (db *DB) GetByID(t reflect.Type, id uuid.UUID) (Entity, bool, error) {
	if t == nil {
		return nil, false, fmt.Errorf("%w: type must not be nil", ErrInvalidArgument)
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, s := range db.collections[t] {
		if s.entity.Meta().ID == id {
			return s.entity, true, nil
		}
	}
	return nil, false, nil
}

// Remove deletes the record under t carrying entity's id and returns the
// number of records removed, which is 1 on success.
func (db *DB) Remove(entity Entity, t reflect.Type) (int, error) {
	if t == nil {
		return 0, fmt.Errorf("%w: type must not be nil", ErrInvalidArgument)
	}
	if isNilEntity(entity) {
		return 0, fmt.Errorf("%w: entity must not be nil", ErrInvalidArgument)
	}
	if entity.Meta().ID == uuid.Nil {
		return 0, fmt.Errorf("%w: entity id must be set", ErrInvalidArgument)
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := db.removeOneLocked(t, entity.Meta().ID); err != nil {
		return 0, err
	}
	return 1, nil
}

// RemoveMany deletes a batch by id under t and returns the number of
// records removed. Duplicate ids collapse to one removal; one unknown id
// fails the batch with the store untouched. An empty batch succeeds with
// count zero.
func (db *DB) RemoveMany(entities []Entity, t reflect.Type) (int, error) {
	if t == nil {
		return 0, fmt.Errorf("%w: type must not be nil", ErrInvalidArgument)
	}
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
	return db.removeManyLocked(t, ids)
}
