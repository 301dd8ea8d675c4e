package sandlodb

import "fmt"

// Bounds and defaults for the two tuning knobs. TTL is capped at half an
// hour and the memory budget at 200 MB; the defaults are five minutes and
// 10 MB.
const (
	DefaultEntityTTLMinutes = 5
	MaxEntityTTLMinutes     = 30

	DefaultMaxMemoryAllocationBytes = 1e7
	MaxMemoryAllocationBytesLimit   = 2e8
)

// Options configures a DB. The zero value disables both bounds: records
// never expire and the store never evicts for space.
//
// The store trusts whatever it is handed; range checks live in
// OptionsBuilder so that hosts embedding the store decide how strict to be.
type Options struct {
	// EntityTTLMinutes is the age in minutes, measured from creation, after
	// which a record is eligible for the TTL sweep. Zero disables expiry.
	EntityTTLMinutes int `json:"entity_ttl_minutes" yaml:"entity_ttl_minutes"`

	// MaxMemoryAllocationBytes caps the summed serialized size of all
	// stored records. Zero disables the size sweep.
	MaxMemoryAllocationBytes float64 `json:"max_memory_allocation_bytes" yaml:"max_memory_allocation_bytes"`
}

// DefaultOptions returns the stock configuration: five minute TTL, 10 MB
// budget.
func DefaultOptions() Options {
	return Options{
		EntityTTLMinutes:         DefaultEntityTTLMinutes,
		MaxMemoryAllocationBytes: DefaultMaxMemoryAllocationBytes,
	}
}

// OptionsBuilder validates tuning values before a DB is built. Knobs left
// unset keep their defaults.
type OptionsBuilder struct {
	ttlMinutes *int
	maxBytes   *float64
}

// NewOptionsBuilder returns a builder primed with the defaults.
func NewOptionsBuilder() *OptionsBuilder {
	return &OptionsBuilder{}
}

// WithEntityTTLMinutes sets the record lifetime in minutes.
func (b *OptionsBuilder) WithEntityTTLMinutes(minutes int) *OptionsBuilder {
	b.ttlMinutes = &minutes
	return b
}

// WithMaxMemoryAllocationBytes sets the serialized-size budget in bytes.
func (b *OptionsBuilder) WithMaxMemoryAllocationBytes(bytes float64) *OptionsBuilder {
	b.maxBytes = &bytes
	return b
}

// Build checks every knob that was set and returns the resulting Options.
// TTL must sit in (0, 30] minutes and the budget in (0, 2e8] bytes.
func (b *OptionsBuilder) Build() (Options, error) {
	opts := DefaultOptions()
	if b.ttlMinutes != nil {
		m := *b.ttlMinutes
		if m <= 0 || m > MaxEntityTTLMinutes {
			return Options{}, fmt.Errorf("entity ttl must be between 1 and %d minutes, got %d", MaxEntityTTLMinutes, m)
		}
		opts.EntityTTLMinutes = m
	}
	if b.maxBytes != nil {
		v := *b.maxBytes
		if v <= 0 || v > MaxMemoryAllocationBytesLimit {
			return Options{}, fmt.Errorf("max memory allocation must be between 1 and %.0f bytes, got %f", float64(MaxMemoryAllocationBytesLimit), v)
		}
		opts.MaxMemoryAllocationBytes = v
	}
	return opts, nil
}
