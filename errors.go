package sandlodb

import "errors"

// Sentinel errors returned by store operations. Callers branch with
// errors.Is; the wrapped message carries the offending type and id.
var (
	// ErrInvalidArgument reports a nil entity or batch, a nil predicate or
	// type tag, a non-serializable value, or a mutation that references the
	// zero id.
	ErrInvalidArgument = errors.New("sandlodb: invalid argument")

	// ErrNotFound reports that a mutation targeted a type with no live
	// collection or an id that is not stored. Queries never return it;
	// absence there is an empty slice or a false second result.
	ErrNotFound = errors.New("sandlodb: not found")

	// ErrDuplicateID reports that two records of one type share an id.
	// Ids are assigned by the store, so hitting this means the collection
	// has been corrupted.
	ErrDuplicateID = errors.New("sandlodb: duplicate id")
)
