package sandlodb

import (
	"strings"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.EntityTTLMinutes != 5 {
		t.Fatalf("unexpected default ttl: %d", opts.EntityTTLMinutes)
	}
	if opts.MaxMemoryAllocationBytes != 1e7 {
		t.Fatalf("unexpected default budget: %f", opts.MaxMemoryAllocationBytes)
	}
}

func TestBuilderKeepsDefaultsWhenUnset(t *testing.T) {
	opts, err := NewOptionsBuilder().Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if opts != DefaultOptions() {
		t.Fatalf("unset knobs must keep defaults: %+v", opts)
	}
}

func TestBuilderValidatesTTL(t *testing.T) {
	cases := []struct {
		minutes int
		ok      bool
	}{
		{1, true},
		{5, true},
		{30, true},
		{0, false},
		{-5, false},
		{31, false},
	}
	for _, tc := range cases {
		opts, err := NewOptionsBuilder().WithEntityTTLMinutes(tc.minutes).Build()
		if tc.ok {
			if err != nil {
				t.Fatalf("minutes=%d: unexpected error %v", tc.minutes, err)
			}
			if opts.EntityTTLMinutes != tc.minutes {
				t.Fatalf("minutes=%d not applied: %+v", tc.minutes, opts)
			}
			continue
		}
		if err == nil {
			t.Fatalf("minutes=%d: expected error", tc.minutes)
		}
		if !strings.Contains(err.Error(), "ttl") {
			t.Fatalf("error should name the knob: %v", err)
		}
	}
}

func TestBuilderValidatesBudget(t *testing.T) {
	cases := []struct {
		bytes float64
		ok    bool
	}{
		{1, true},
		{1e7, true},
		{2e8, true},
		{0, false},
		{-1024, false},
		{2e8 + 1, false},
	}
	for _, tc := range cases {
		opts, err := NewOptionsBuilder().WithMaxMemoryAllocationBytes(tc.bytes).Build()
		if tc.ok {
			if err != nil {
				t.Fatalf("bytes=%f: unexpected error %v", tc.bytes, err)
			}
			if opts.MaxMemoryAllocationBytes != tc.bytes {
				t.Fatalf("bytes=%f not applied: %+v", tc.bytes, opts)
			}
			continue
		}
		if err == nil {
			t.Fatalf("bytes=%f: expected error", tc.bytes)
		}
		if !strings.Contains(err.Error(), "memory") {
			t.Fatalf("error should name the knob: %v", err)
		}
	}
}

func TestBuilderAppliesBothKnobs(t *testing.T) {
	opts, err := NewOptionsBuilder().
		WithEntityTTLMinutes(10).
		WithMaxMemoryAllocationBytes(2048).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if opts.EntityTTLMinutes != 10 || opts.MaxMemoryAllocationBytes != 2048 {
		t.Fatalf("values not applied: %+v", opts)
	}
}
