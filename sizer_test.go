package sandlodb

import (
	"strings"
	"testing"
)

func TestJSONSizeIsDeterministic(t *testing.T) {
	u := &user{Name: "ada", Age: 36}
	first, err := JSONSize(u)
	if err != nil {
		t.Fatalf("size: %v", err)
	}
	if first <= 0 {
		t.Fatalf("size must be positive, got %d", first)
	}
	for i := 0; i < 5; i++ {
		again, err := JSONSize(u)
		if err != nil || again != first {
			t.Fatalf("size must be stable: first=%d again=%d err=%v", first, again, err)
		}
	}
}

func TestIdenticalRecordsCostIdenticalBytes(t *testing.T) {
	db := New(Options{})
	base := int64(1_700_000_000_000)
	db.now = func() int64 { return base }

	if _, err := Add(db, &note{Body: "same"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	unit := db.SizeInBytes()
	for i := 0; i < 9; i++ {
		if _, err := Add(db, &note{Body: "same"}); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}
	if got, want := db.SizeInBytes(), unit*10; got != want {
		t.Fatalf("ten equal records must cost ten units: got=%d want=%d", got, want)
	}
}

func TestSnappySizeCompressesRepetition(t *testing.T) {
	v := &note{Body: strings.Repeat("abcd", 2048)}
	plain, err := JSONSize(v)
	if err != nil {
		t.Fatalf("json size: %v", err)
	}
	packed, err := SnappySize(v)
	if err != nil {
		t.Fatalf("snappy size: %v", err)
	}
	if packed >= plain {
		t.Fatalf("repetitive payload must compress: json=%d snappy=%d", plain, packed)
	}
}

func TestSizersRejectUnserializable(t *testing.T) {
	if _, err := JSONSize(&poison{Ch: make(chan int)}); err == nil {
		t.Fatalf("expected error for unserializable value")
	}
	if _, err := SnappySize(&poison{Ch: make(chan int)}); err == nil {
		t.Fatalf("expected error for unserializable value")
	}
}

func TestStoreAccountsWithConfiguredSizer(t *testing.T) {
	db := NewWithSizer(Options{}, SnappySize)
	n, err := Add(db, &note{Body: strings.Repeat("abcd", 2048)})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	want, err := SnappySize(n)
	if err != nil {
		t.Fatalf("size: %v", err)
	}
	if got := db.SizeInBytes(); got != want {
		t.Fatalf("store must account with the configured sizer: got=%d want=%d", got, want)
	}
}
