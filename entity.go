package sandlodb

import "github.com/google/uuid"

// Metadata carries the identity and lifecycle timestamps the store manages
// for every record. Embed it in any struct you want to store:
//
//	type Event struct {
//	    sandlodb.Metadata
//	    Source string `json:"source"`
//	}
//
// ID, Created and Updated belong to the store. Add assigns all three,
// Update refreshes Updated and preserves Created. Timestamps are UTC epoch
// milliseconds.
type Metadata struct {
	ID      uuid.UUID `json:"id"`
	Created int64     `json:"created"`
	Updated int64     `json:"updated"`
}

// Meta returns the metadata itself so that embedding Metadata satisfies
// Entity with no extra code.
func (m *Metadata) Meta() *Metadata { return m }

// Entity is the contract every stored record fulfils. Any type embedding
// Metadata (by pointer receiver, so store it as a pointer) qualifies.
type Entity interface {
	Meta() *Metadata
}
