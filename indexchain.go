package vanchron

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jpturner/vanchron/mmap"
)

// indexChain is a growable, append-only set of memory-mapped index-N files
// for a single cycle directory. Slots are addressed by a dense slot
// number; slotWord maps that to the (file, offset) pair and maps the file
// in on first use. The chain only ever grows forward, so a reader can
// safely cache file handles for the lifetime of the cycle.
type indexChain struct {
	dir      string
	writable bool

	mu    sync.Mutex
	files []*mmap.Map // files[n] is index-n, nil if not yet opened
}

func newIndexChain(dir string, writable bool) *indexChain {
	return &indexChain{dir: dir, writable: writable}
}

func indexFileName(n int) string {
	return fmt.Sprintf("index-%d", n)
}

func (c *indexChain) path(n int) string {
	return filepath.Join(c.dir, indexFileName(n))
}

// slotWord returns the mapped word for slot. KindNoChronicleForDate is
// returned if the backing index-N file does not exist yet (a reader
// running ahead of a writer that has not rolled the chain that far).
func (c *indexChain) slotWord(slot uint64) (m *mmap.Map, offset int64, err error) {
	byteOff := int64(slot) * 8
	fileNum := int(uint64(byteOff) >> FilenumFromIndexShift)
	inFileOff := int64(uint64(byteOff) & indexFileOffsetMask)

	f, err := c.open(fileNum)
	if err != nil {
		return nil, 0, err
	}
	return f, inFileOff, nil
}

func (c *indexChain) open(n int) (*mmap.Map, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n < len(c.files) && c.files[n] != nil {
		return c.files[n], nil
	}

	path := c.path(n)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, wrapError(KindNoChronicleForDate, "index file "+path+" does not exist", err)
		}
		return nil, wrapError(KindNoChronicleForDate, "statting "+path, err)
	}

	m, err := mmap.MapFile(path, c.writable)
	if err != nil {
		return nil, wrapError(KindNoChronicleForDate, "mapping "+path, err)
	}
	if err := m.AdviseSequential(); err != nil {
		// advisory only; ignored on platforms/filesystems that reject it
		_ = err
	}

	for len(c.files) <= n {
		c.files = append(c.files, nil)
	}
	c.files[n] = m
	return m, nil
}

// ensure opens index-n, creating it (zero-filled) first if it does not
// exist yet. Used by the writer, which grows the chain rather than
// merely following it.
func (c *indexChain) ensure(n int) (*mmap.Map, error) {
	path := c.path(n)
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return nil, wrapError(KindConfigError, "statting "+path, err)
		}
		if err := createIndexFile(c.dir, n); err != nil {
			return nil, wrapError(KindConfigError, "creating index file "+path, err)
		}
	}
	return c.open(n)
}

// slotWordForWrite is slotWord's writer counterpart: it grows the chain
// (creating index-N files as needed) instead of reporting
// KindNoChronicleForDate when one is missing.
func (c *indexChain) slotWordForWrite(slot uint64) (m *mmap.Map, offset int64, err error) {
	byteOff := int64(slot) * 8
	fileNum := int(uint64(byteOff) >> FilenumFromIndexShift)
	inFileOff := int64(uint64(byteOff) & indexFileOffsetMask)

	f, err := c.ensure(fileNum)
	if err != nil {
		return nil, 0, err
	}
	return f, inFileOff, nil
}

// createIndexFile atomically creates a zero-filled index-N file of
// IndexFileSize bytes. Used by the writer when the chain must grow past
// its current last file. Creation is atomic (via natefinch/atomic) so a
// concurrent reader never observes a partially-written file.
func createIndexFile(dir string, n int) error {
	return createZeroFile(filepath.Join(dir, indexFileName(n)), IndexFileSize)
}

// close unmaps every file the chain has opened.
func (c *indexChain) close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var first error
	for _, f := range c.files {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	c.files = nil
	return first
}
