package fastmap

import (
	"testing"
	"unsafe"
)

type dummy struct {
	x int
}

func TestUint64Map(t *testing.T) {
	m := &Uint64Map{}

	if m.Get(1) != nil {
		t.Error("expected nil for empty map")
	}

	d1 := &dummy{100}
	d2 := &dummy{200}
	val1 := unsafe.Pointer(d1)
	val2 := unsafe.Pointer(d2)

	m.Set(1, val1)
	m.Set(2, val2)

	if m.Get(1) != val1 {
		t.Error("Get(1) failed")
	}
	if m.Get(2) != val2 {
		t.Error("Get(2) failed")
	}
	if m.Get(3) != nil {
		t.Error("Get(3) should be nil")
	}

	d3 := &dummy{300}
	val3 := unsafe.Pointer(d3)
	m.Set(1, val3)
	if m.Get(1) != val3 {
		t.Error("update failed")
	}

	if m.Len() != 2 {
		t.Errorf("expected len=2, got %d", m.Len())
	}
}

func TestUint64MapDelete(t *testing.T) {
	m := &Uint64Map{}
	d1, d2, d3 := &dummy{1}, &dummy{2}, &dummy{3}
	m.Set(1, unsafe.Pointer(d1))
	m.Set(2, unsafe.Pointer(d2))
	m.Set(3, unsafe.Pointer(d3))

	m.Delete(2)
	if m.Len() != 2 {
		t.Fatalf("expected len=2 after delete, got %d", m.Len())
	}
	if m.Get(2) != nil {
		t.Error("deleted key should not be found")
	}
	// Probe chain past the tombstone must still resolve.
	if m.Get(1) != unsafe.Pointer(d1) || m.Get(3) != unsafe.Pointer(d3) {
		t.Error("delete disturbed neighboring entries")
	}

	// Re-inserting the deleted key must work (reuses the tombstone slot).
	d2b := &dummy{22}
	m.Set(2, unsafe.Pointer(d2b))
	if m.Get(2) != unsafe.Pointer(d2b) {
		t.Error("re-insert after delete failed")
	}
}

func TestUint64MapGrowthAndChurn(t *testing.T) {
	m := &Uint64Map{}

	n := 5000
	dummies := make([]*dummy, n)
	for i := 0; i < n; i++ {
		dummies[i] = &dummy{i * 10}
		m.Set(uint64(i), unsafe.Pointer(dummies[i]))
	}
	if m.Len() != n {
		t.Errorf("expected len=%d, got %d", n, m.Len())
	}
	for i := 0; i < n; i++ {
		if m.Get(uint64(i)) != unsafe.Pointer(dummies[i]) {
			t.Errorf("Get(%d) failed", i)
		}
	}

	// Simulate LRU-style churn: evict every even key, then reinsert it
	// with a new value, the way the data-file cache evicts and reopens.
	for i := 0; i < n; i += 2 {
		m.Delete(uint64(i))
	}
	if m.Len() != n/2 {
		t.Fatalf("expected len=%d after churn, got %d", n/2, m.Len())
	}
	for i := 0; i < n; i += 2 {
		replacement := &dummy{i}
		m.Set(uint64(i), unsafe.Pointer(replacement))
		if m.Get(uint64(i)) != unsafe.Pointer(replacement) {
			t.Errorf("Get(%d) failed after churn reinsert", i)
		}
	}
}

func TestUint64MapZeroKey(t *testing.T) {
	m := &Uint64Map{}
	d := &dummy{999}
	val := unsafe.Pointer(d)
	m.Set(0, val)

	if m.Get(0) != val {
		t.Error("zero key failed")
	}
	if m.Len() != 1 {
		t.Error("len should be 1")
	}
}
