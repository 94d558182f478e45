package vanchron

import (
	"container/list"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"unsafe"

	"github.com/jpturner/vanchron/internal/fastmap"
	"github.com/jpturner/vanchron/mmap"
)

// dataFileCache is a bounded cache of memory-mapped data-<thread>-N files,
// keyed by (thread, filenum). Capacity is derived from a configured memory
// budget (MaxMappedMemory/DataFileSize); past capacity, the least-recently-
// used mapping is unmapped to make room, the way any fixed-size page cache
// would.
//
// Lookup is a fastmap.Uint64Map keyed on a packed (thread,filenum) pair;
// recency order is a container/list, which is the teacher's own idiom for
// LRU bookkeeping elsewhere in the pack (a doubly-linked list plus a
// pointer index is cheaper to reason about here than a custom ring buffer).
type dataFileCache struct {
	dir      string
	writable bool
	capacity int

	mu      sync.Mutex
	index   fastmap.Uint64Map
	order   *list.List // list.Element.Value is *cacheEntry, front = most-recently-used
}

type cacheEntry struct {
	key  uint64
	elem *list.Element
	m    *mmap.Map
}

func cacheKey(thread, filenum uint64) uint64 {
	return (thread << 32) | (filenum & 0xffffffff)
}

// newDataFileCache builds a cache with room for maxMappedMemory worth of
// data files. KindConfigError if that budget can't even hold one file.
func newDataFileCache(dir string, writable bool, maxMappedMemory int64) (*dataFileCache, error) {
	capacity := int(maxMappedMemory / DataFileSize)
	if capacity < 1 {
		return nil, newError(KindConfigError, "max mapped memory smaller than one data file")
	}
	return &dataFileCache{
		dir:      dir,
		writable: writable,
		capacity: capacity,
		order:    list.New(),
	}, nil
}

func dataFileName(thread, filenum uint64) string {
	return fmt.Sprintf("data-%d-%d", thread, filenum)
}

// get returns the mapping for (thread, filenum), mapping it in (and
// evicting the least-recently-used entry if at capacity) if not already
// cached. KindCorruptData if the backing file does not exist: an index
// slot should never name a data file the writer hasn't created.
func (c *dataFileCache) get(thread, filenum uint64) (*mmap.Map, error) {
	key := cacheKey(thread, filenum)

	c.mu.Lock()
	defer c.mu.Unlock()

	if p := c.index.Get(key); p != nil {
		entry := (*cacheEntry)(p)
		c.order.MoveToFront(entry.elem)
		return entry.m, nil
	}

	path := filepath.Join(c.dir, dataFileName(thread, filenum))
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, wrapError(KindCorruptData, "data file "+path+" does not exist", err)
		}
		return nil, wrapError(KindCorruptData, "statting "+path, err)
	}

	m, err := mmap.MapFile(path, c.writable)
	if err != nil {
		return nil, wrapError(KindCorruptData, "mapping "+path, err)
	}
	_ = m.AdviseRandom() // advisory only

	entry := &cacheEntry{key: key, m: m}
	entry.elem = c.order.PushFront(entry)
	c.index.Set(key, unsafe.Pointer(entry))

	if c.order.Len() > c.capacity {
		c.evictOldest()
	}
	return m, nil
}

// getForWrite is get's writer counterpart: it creates the backing
// data-<thread>-N file (zero-filled, at full DataFileSize) if it does not
// exist yet, instead of reporting KindCorruptData. created reports
// whether this call is what created it, so the caller knows whether the
// allocator word still needs its initial stamp.
func (c *dataFileCache) getForWrite(thread, filenum uint64) (m *mmap.Map, created bool, err error) {
	key := cacheKey(thread, filenum)

	c.mu.Lock()
	if p := c.index.Get(key); p != nil {
		entry := (*cacheEntry)(p)
		c.order.MoveToFront(entry.elem)
		c.mu.Unlock()
		return entry.m, false, nil
	}
	c.mu.Unlock()

	path := filepath.Join(c.dir, dataFileName(thread, filenum))
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return nil, false, wrapError(KindConfigError, "statting "+path, err)
		}
		if err := createDataFile(c.dir, thread, filenum); err != nil {
			return nil, false, wrapError(KindConfigError, "creating data file "+path, err)
		}
		created = true
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if p := c.index.Get(key); p != nil {
		entry := (*cacheEntry)(p)
		c.order.MoveToFront(entry.elem)
		return entry.m, false, nil
	}

	mm, err := mmap.MapFile(path, true)
	if err != nil {
		return nil, false, wrapError(KindConfigError, "mapping "+path, err)
	}
	_ = mm.AdviseRandom()

	entry := &cacheEntry{key: key, m: mm}
	entry.elem = c.order.PushFront(entry)
	c.index.Set(key, unsafe.Pointer(entry))
	if c.order.Len() > c.capacity {
		c.evictOldest()
	}
	return mm, created, nil
}

func (c *dataFileCache) evictOldest() {
	back := c.order.Back()
	if back == nil {
		return
	}
	entry := back.Value.(*cacheEntry)
	c.order.Remove(back)
	c.index.Delete(entry.key)
	// entry.m.Close() unmaps the kernel mapping and nils its data slice.
	// Any *mmap.Map or []byte a caller obtained from get/getForWrite before
	// this point is left dangling; callers must not retain either past the
	// call that produced it (see SPEC_FULL.md's eviction-aliasing note).
	_ = entry.m.Close()
}

// createDataFile atomically creates a zero-filled data-<thread>-N file of
// DataFileSize bytes, with its allocator word pre-zeroed (the zero fill
// already leaves it that way). Used by the writer when a thread's chain
// must grow past its current last file.
func createDataFile(dir string, thread, filenum uint64) error {
	return createZeroFile(filepath.Join(dir, dataFileName(thread, filenum)), DataFileSize)
}

// close unmaps every cached file.
func (c *dataFileCache) close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var first error
	for e := c.order.Front(); e != nil; e = e.Next() {
		entry := e.Value.(*cacheEntry)
		if err := entry.m.Close(); err != nil && first == nil {
			first = err
		}
	}
	c.order.Init()
	c.index = fastmap.Uint64Map{}
	return first
}
