package sandlodb

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// slot pairs one stored record with its cached serialized size and a copy
// of the record's last update time. The copies let sweeps order slots and
// settle the byte total without reading back through the entity.
type slot struct {
	entity     Entity
	sizeBytes  int64
	lastUpdate int64
}

// DB is an in-memory store of typed record collections. Records get a
// store-assigned uuid plus creation and update timestamps, collections keep
// insertion order, and the summed serialized size of everything stored is
// maintained on each mutation and enforced by an oldest-first eviction
// sweep whenever an insert would cross the configured budget.
//
// One mutex serializes every operation, queries included, so callers never
// observe a mutation half applied. Query results share pointers with the
// store: treat them as read-only, or copy before mutating, and keep
// predicates free of calls back into the store.
type DB struct {
	mu          sync.Mutex
	collections map[reflect.Type][]*slot
	sizeBytes   int64
	evictions   uint64

	opts   Options
	sizeOf SizeFunc
	now    func() int64
}

// New builds a store that measures records with JSONSize. opts normally
// comes from OptionsBuilder; the zero Options disables expiry and eviction.
func New(opts Options) *DB {
	return NewWithSizer(opts, JSONSize)
}

// NewWithSizer builds a store with a custom size strategy, for example
// SnappySize. A nil sizeOf falls back to JSONSize.
func NewWithSizer(opts Options, sizeOf SizeFunc) *DB {
	if sizeOf == nil {
		sizeOf = JSONSize
	}
	return &DB{
		collections: make(map[reflect.Type][]*slot),
		opts:        opts,
		sizeOf:      sizeOf,
		now:         func() int64 { return time.Now().UnixMilli() },
	}
}

// EntityTTL returns the configured record lifetime, zero when records never
// expire. TTL drivers combine it with Types, GetBy and RemoveMany.
func (db *DB) EntityTTL() time.Duration {
	return time.Duration(db.opts.EntityTTLMinutes) * time.Minute
}

// typeTag is the collection key for a typed call: the instantiated type
// itself, so *Event and Event would land in separate collections.
func typeTag[E Entity]() reflect.Type {
	return reflect.TypeOf((*E)(nil)).Elem()
}

// isNilEntity guards against both a nil interface and a typed nil pointer
// wrapped in a non-nil interface.
func isNilEntity(e Entity) bool {
	if e == nil {
		return true
	}
	v := reflect.ValueOf(e)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func:
		return v.IsNil()
	}
	return false
}

// findByID locates id in col and insists it appears exactly once. Callers
// hold db.mu.
func findByID(col []*slot, t reflect.Type, id uuid.UUID) (int, error) {
	found := -1
	for i, s := range col {
		if s.entity.Meta().ID != id {
			continue
		}
		if found >= 0 {
			return -1, fmt.Errorf("%w: type %s holds id %s more than once", ErrDuplicateID, t, id)
		}
		found = i
	}
	if found < 0 {
		return -1, fmt.Errorf("%w: type %s has no entity with id %s", ErrNotFound, t, id)
	}
	return found, nil
}

// addLocked stamps e and appends it to the collection for t. The eviction
// sweep runs before the append, so a newcomer is never its own victim. On a
// sizing failure the stamp is rolled back and nothing is stored. Callers
// hold db.mu.
func (db *DB) addLocked(t reflect.Type, e Entity) error {
	meta := e.Meta()
	prev := *meta
	now := db.now()
	meta.ID = uuid.New()
	meta.Created = now
	meta.Updated = now
	size, err := db.sizeOf(e)
	if err != nil {
		*meta = prev
		return fmt.Errorf("%w: cannot size %s entity: %v", ErrInvalidArgument, t, err)
	}
	db.evictLocked(size)
	db.collections[t] = append(db.collections[t], &slot{entity: e, sizeBytes: size, lastUpdate: now})
	db.sizeBytes += size
	return nil
}

// updateLocked replaces the stored record carrying e's id. Callers hold
// db.mu.
func (db *DB) updateLocked(t reflect.Type, e Entity) error {
	col, ok := db.collections[t]
	if !ok {
		return fmt.Errorf("%w: no collection for type %s", ErrNotFound, t)
	}
	i, err := findByID(col, t, e.Meta().ID)
	if err != nil {
		return err
	}
	return db.updateSlotLocked(t, col[i], e)
}

// updateSlotLocked swaps e into sl, keeping the stored Created, refreshing
// Updated and re-measuring the serialized size. Ids have already been
// matched. On a sizing failure the caller's timestamps are restored and the
// slot is untouched. Callers hold db.mu.
func (db *DB) updateSlotLocked(t reflect.Type, sl *slot, e Entity) error {
	meta := e.Meta()
	prevCreated, prevUpdated := meta.Created, meta.Updated
	meta.Created = sl.entity.Meta().Created
	meta.Updated = db.now()
	size, err := db.sizeOf(e)
	if err != nil {
		meta.Created, meta.Updated = prevCreated, prevUpdated
		return fmt.Errorf("%w: cannot size %s entity: %v", ErrInvalidArgument, t, err)
	}
	db.sizeBytes += size - sl.sizeBytes
	sl.entity = e
	sl.sizeBytes = size
	sl.lastUpdate = meta.Updated
	return nil
}

// removeOneLocked deletes the record with the given id from the collection
// for t. Callers hold db.mu.
func (db *DB) removeOneLocked(t reflect.Type, id uuid.UUID) error {
	col, ok := db.collections[t]
	if !ok {
		return fmt.Errorf("%w: no collection for type %s", ErrNotFound, t)
	}
	i, err := findByID(col, t, id)
	if err != nil {
		return err
	}
	db.removeAtLocked(t, i)
	return nil
}

// removeManyLocked deletes every id in ids from the collection for t.
// Duplicate ids collapse to one removal, and the whole batch is resolved
// before the first splice so that a single miss leaves the store untouched.
// Callers hold db.mu.
func (db *DB) removeManyLocked(t reflect.Type, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	col, ok := db.collections[t]
	if !ok {
		return 0, fmt.Errorf("%w: no collection for type %s", ErrNotFound, t)
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	idxs := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		i, err := findByID(col, t, id)
		if err != nil {
			return 0, err
		}
		idxs = append(idxs, i)
	}
	// Splice from the highest index down so earlier indexes stay valid.
	sort.Sort(sort.Reverse(sort.IntSlice(idxs)))
	for _, i := range idxs {
		db.removeAtLocked(t, i)
	}
	return len(idxs), nil
}

// removeAtLocked splices index i out of the collection for t, adjusts the
// byte total and drops the collection once it empties. Callers hold db.mu.
func (db *DB) removeAtLocked(t reflect.Type, i int) {
	col := db.collections[t]
	db.sizeBytes -= col[i].sizeBytes
	col = append(col[:i], col[i+1:]...)
	if len(col) == 0 {
		delete(db.collections, t)
		return
	}
	db.collections[t] = col
}
