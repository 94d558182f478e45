package mmap

import (
	"sync/atomic"
	"unsafe"
)

// wordPtr returns a pointer to the 8-byte little-endian word at byteOffset.
// byteOffset must be 8-byte aligned and within bounds; callers (the index
// codec and index/data file chains) guarantee this because every region is
// itself a multiple of 8 bytes and every slot/word offset is computed as
// slot*8.
func (m *Map) wordPtr(byteOffset int64) *uint64 {
	return (*uint64)(unsafe.Pointer(&m.data[byteOffset]))
}

// ReadWord atomically loads the little-endian uint64 at byteOffset.
//
// On every architecture this module runs on, an aligned 64-bit load is a
// single bus-width access; atomic.LoadUint64 is what guarantees that on
// 32-bit platforms too, and it is at least acquire-ordered, which is what
// lets a reader observe a writer's preceding payload store (see
// CASWord).
func (m *Map) ReadWord(byteOffset int64) uint64 {
	return atomic.LoadUint64(m.wordPtr(byteOffset))
}

// CASWord atomically compares-and-swaps the little-endian uint64 at
// byteOffset: if the current value equals old, it is replaced with new and
// swapped reports true. Either way the value observed before the attempt is
// returned.
//
// This is release-ordered on success: the writer must store the payload
// bytes before calling CASWord on the index slot (or the data-file
// allocator word), so that a reader's ReadWord of the same address, which
// is acquire-ordered, is guaranteed to see the payload.
func (m *Map) CASWord(byteOffset int64, old, new uint64) (prev uint64, swapped bool) {
	ptr := m.wordPtr(byteOffset)
	for {
		cur := atomic.LoadUint64(ptr)
		if cur != old {
			return cur, false
		}
		if atomic.CompareAndSwapUint64(ptr, old, new) {
			return old, true
		}
	}
}

// WriteWordUnsafe stores a little-endian uint64 at byteOffset without any
// atomicity guarantee. It exists for single-writer initialization paths
// (e.g. stamping a freshly-extended file's allocator word before any
// reader could possibly have mapped it) where a plain store is correct and
// an atomic one would be needless overhead.
func (m *Map) WriteWordUnsafe(byteOffset int64, v uint64) {
	*m.wordPtr(byteOffset) = v
}
