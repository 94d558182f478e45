package vanchron

import "testing"

func TestDataFileCacheMissingFileIsCorruptData(t *testing.T) {
	dir := t.TempDir()
	c, err := newDataFileCache(dir, false, DataFileSize*2)
	if err != nil {
		t.Fatal(err)
	}
	defer c.close()

	_, err = c.get(1, 0)
	if !IsCorruptData(err) {
		t.Fatalf("get on missing data file = %v, want ErrCorruptData", err)
	}
}

func TestDataFileCacheConfigErrorOnTinyBudget(t *testing.T) {
	dir := t.TempDir()
	_, err := newDataFileCache(dir, false, DataFileSize-1)
	if Code(err) != KindConfigError {
		t.Fatalf("newDataFileCache with sub-file budget = %v, want KindConfigError", err)
	}
}

func TestDataFileCacheGetForWriteCreatesAndCaches(t *testing.T) {
	dir := t.TempDir()
	c, err := newDataFileCache(dir, true, DataFileSize*2)
	if err != nil {
		t.Fatal(err)
	}
	defer c.close()

	m1, created, err := c.getForWrite(1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !created {
		t.Fatal("expected created=true for a brand new data file")
	}

	m2, created2, err := c.getForWrite(1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if created2 {
		t.Fatal("expected created=false on second getForWrite of the same file")
	}
	if m1 != m2 {
		t.Fatal("expected the same cached mapping on repeat getForWrite")
	}
}

func TestDataFileCacheEvictsLeastRecentlyUsed(t *testing.T) {
	dir := t.TempDir()
	c, err := newDataFileCache(dir, true, DataFileSize*2) // capacity 2
	if err != nil {
		t.Fatal(err)
	}
	defer c.close()

	if _, _, err := c.getForWrite(1, 0); err != nil {
		t.Fatal(err)
	}
	if _, _, err := c.getForWrite(1, 1); err != nil {
		t.Fatal(err)
	}
	// Touch file 0 so file 1 becomes the least recently used.
	if _, _, err := c.getForWrite(1, 0); err != nil {
		t.Fatal(err)
	}
	// Adding a third distinct file should evict file 1, not file 0.
	if _, _, err := c.getForWrite(1, 2); err != nil {
		t.Fatal(err)
	}

	if c.order.Len() != 2 {
		t.Fatalf("cache holds %d entries, want 2", c.order.Len())
	}
	if c.index.Get(cacheKey(1, 1)) != nil {
		t.Error("expected file 1 to have been evicted")
	}
	if c.index.Get(cacheKey(1, 0)) == nil {
		t.Error("expected file 0 to remain cached (recently touched)")
	}
	if c.index.Get(cacheKey(1, 2)) == nil {
		t.Error("expected file 2 to be cached (just inserted)")
	}
}
