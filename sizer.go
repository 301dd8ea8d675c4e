package sandlodb

import (
	"github.com/goccy/go-json"
	"github.com/golang/snappy"
)

// SizeFunc estimates the serialized size of a record. The store caches the
// result on the record's slot and recomputes it whenever the record's
// content changes, so estimates must be deterministic: equal content, equal
// size, for the lifetime of one DB.
type SizeFunc func(v any) (int64, error)

// JSONSize measures the JSON encoding of v. It is the default strategy.
func JSONSize(v any) (int64, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	return int64(len(b)), nil
}

// SnappySize measures the snappy-compressed JSON encoding of v. For large
// repetitive payloads it tracks the real footprint of a compressed host
// more closely than JSONSize; for tiny records the framing overhead can
// make it report more than the raw encoding.
func SnappySize(v any) (int64, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	return int64(len(snappy.Encode(nil, b))), nil
}
