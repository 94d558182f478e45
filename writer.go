package vanchron

import (
	"math"
	"sync"
	"time"

	"github.com/jpturner/vanchron/mmap"
)

// Writer is the symmetric counterpart to Reader: it appends records to a
// Vanilla Chronicle, creating cycle directories, index-N files, and
// data-<thread>-N files on demand, and rolls to a new cycle directory the
// instant its Clock reports a new UTC date. A single Writer can be shared
// by many concurrent Appenders (one per logical thread of control); it
// serializes the bookkeeping each Finish needs (cycle rollover, index
// slot publication) but never serializes payload encoding itself — build
// a record's bytes with an Appender before calling Finish.
type Writer struct {
	cfg validated

	mu           sync.Mutex
	date         time.Time
	cycleDir     string
	chain        *indexChain
	cache        *dataFileCache
	slotHint     uint64            // next index slot likely free; always re-verified with a CAS
	fileByThread map[uint64]uint64 // thread -> current data file number
}

// NewWriter opens a Writer per cfg. It does not create any cycle
// directory until the first Appender.Finish call, matching the lazy,
// on-demand file creation the rest of the format uses.
func NewWriter(cfg Config) (*Writer, error) {
	v, err := cfg.validate()
	if err != nil {
		return nil, err
	}
	return &Writer{cfg: v, fileByThread: make(map[uint64]uint64)}, nil
}

// GetAppender returns an Appender that will publish records under the
// given thread identifier. thread must fit within the configured
// thread-id-bits width; a too-wide value silently truncates, the same
// risk packSlot carries for any caller that picks its own thread ids
// rather than using a detected pid.
func (w *Writer) GetAppender(thread uint64) *Appender {
	return &Appender{w: w, thread: thread}
}

// ensureCycle returns the current cycle directory for now (creating it if
// this is the first record of the day), rolling the Writer's open index
// chain and data cache if the date has changed since the last call.
func (w *Writer) ensureCycle(now time.Time) (time.Time, error) {
	date := dateOnly(now)
	if w.cycleDir != "" && w.date.Equal(date) {
		return date, nil
	}

	if w.chain != nil {
		_ = w.chain.close()
		w.chain = nil
	}
	if w.cache != nil {
		_ = w.cache.close()
		w.cache = nil
	}
	w.fileByThread = make(map[uint64]uint64)
	w.slotHint = 0

	dir, err := ensureCycleDir(w.cfg.baseDir, date)
	if err != nil {
		return time.Time{}, err
	}
	w.cycleDir = dir
	w.date = date
	w.chain = newIndexChain(dir, true)
	cache, err := newDataFileCache(dir, true, w.cfg.maxMappedMemory)
	if err != nil {
		return time.Time{}, err
	}
	w.cache = cache
	return date, nil
}

// reserve finds DataFileSize-aware room for n payload bytes in thread's
// current data file, rolling to a new file number if the current one is
// full, and returns the mapping and absolute byte offset the payload
// should be written at.
func (w *Writer) reserve(thread uint64, n int) (m *mmap.Map, offset int64, err error) {
	filenum := w.fileByThread[thread]

	for {
		mm, created, err := w.cache.getForWrite(thread, filenum)
		if err != nil {
			return nil, 0, err
		}
		if created {
			mm.WriteWordUnsafe(allocatorWordOffset, payloadStartOffset)
		}

		for {
			cur := mm.ReadWord(allocatorWordOffset)
			if cur+uint64(n) > uint64(DataFileSize) {
				break // no room left in this file; roll to the next one
			}
			next := cur + uint64(n)
			if _, swapped := mm.CASWord(allocatorWordOffset, cur, next); swapped {
				w.fileByThread[thread] = filenum
				return mm, int64(cur), nil
			}
			// lost the race to another appender on this thread; retry
		}

		filenum++
	}
}

// publish finds the first unpublished index slot at or after w.slotHint
// and atomically claims it for (thread, position), retrying forward past
// any slot another writer wins first.
func (w *Writer) publish(thread, position uint64) (fullIndex uint64, err error) {
	slotVal := packSlot(thread, position, w.cfg.threadIDBits)

	for slot := w.slotHint; ; slot++ {
		m, offset, err := w.chain.slotWordForWrite(slot)
		if err != nil {
			return 0, err
		}
		if m.ReadWord(offset) != 0 {
			continue
		}
		_, swapped := m.CASWord(offset, 0, slotVal)
		if !swapped {
			continue
		}
		w.slotHint = slot + 1
		return ToFullIndex(w.date, slot), nil
	}
}

// Appender accumulates one record's payload bytes before it is published
// with Finish. It is not safe for concurrent use by multiple goroutines;
// obtain one Appender per in-flight record (or serialize reuse of a
// single one) per thread.
type Appender struct {
	w      *Writer
	thread uint64
	buf    []byte
}

// WriteInt32 appends a little-endian int32.
func (a *Appender) WriteInt32(v int32) {
	var b [4]byte
	putUint32LE(b[:], uint32(v))
	a.buf = append(a.buf, b[:]...)
}

// WriteInt16 appends a little-endian int16.
func (a *Appender) WriteInt16(v int16) {
	var b [2]byte
	putUint16LE(b[:], uint16(v))
	a.buf = append(a.buf, b[:]...)
}

// WriteInt64 appends a little-endian int64.
func (a *Appender) WriteInt64(v int64) {
	var b [8]byte
	putUint64LE(b[:], uint64(v))
	a.buf = append(a.buf, b[:]...)
}

// WriteFloat64 appends a little-endian IEEE 754 double.
func (a *Appender) WriteFloat64(v float64) {
	var b [8]byte
	putUint64LE(b[:], math.Float64bits(v))
	a.buf = append(a.buf, b[:]...)
}

// WriteByte appends a single byte.
func (a *Appender) WriteByte(v byte) {
	a.buf = append(a.buf, v)
}

// WriteBool appends a single byte, 1 for true and 0 for false.
func (a *Appender) WriteBool(v bool) {
	if v {
		a.buf = append(a.buf, 1)
	} else {
		a.buf = append(a.buf, 0)
	}
}

// WriteU16CodeUnit appends a single raw UTF-16 code unit. Like
// ByteCursor.ReadU16CodeUnit, this never assembles or emits surrogate
// pairs; callers must keep values within the Basic Multilingual Plane.
func (a *Appender) WriteU16CodeUnit(r rune) {
	var b [2]byte
	putUint16LE(b[:], uint16(r))
	a.buf = append(a.buf, b[:]...)
}

// WriteStopBit appends v as a 7-bit-per-byte, high-bit-continuation
// varint.
func (a *Appender) WriteStopBit(v uint64) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			a.buf = append(a.buf, b|0x80)
			continue
		}
		a.buf = append(a.buf, b)
		return
	}
}

// WriteString appends s as a stop-bit length prefix followed by its UTF-8
// bytes.
func (a *Appender) WriteString(s string) {
	a.WriteStopBit(uint64(len(s)))
	a.buf = append(a.buf, s...)
}

// Finish reserves room for the accumulated payload, copies it into the
// thread's current data file, and publishes an index slot pointing at it.
// It then resets the Appender so it can be reused for the next record.
//
// If the wall clock crosses midnight between the payload being reserved
// and the index slot publication, the reservation's cycle is no longer
// today's: the bytes are abandoned in yesterday's data file (no reader
// will ever find them, since no index slot names them) and Finish
// returns ErrPartialWriteLostOnRollover instead of publishing anything
// into the new cycle on the caller's behalf. The caller must retry by
// rebuilding the record and calling Finish again.
func (a *Appender) Finish() (fullIndex uint64, err error) {
	defer func() { a.buf = a.buf[:0] }()

	w := a.w
	w.mu.Lock()
	defer w.mu.Unlock()

	reservedDate, err := w.ensureCycle(w.cfg.clock.NowUTC())
	if err != nil {
		return 0, err
	}

	mm, offset, err := w.reserve(a.thread, len(a.buf))
	if err != nil {
		return 0, err
	}
	copy(mm.Data()[offset:], a.buf)

	if !dateOnly(w.cfg.clock.NowUTC()).Equal(reservedDate) {
		return 0, ErrPartialWriteLostOnRollover
	}

	filenum := w.fileByThread[a.thread]
	position := packPosition(filenum, uint64(offset))
	return w.publish(a.thread, position)
}

// Close releases every resource the writer holds.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var first error
	if w.chain != nil {
		if err := w.chain.close(); err != nil && first == nil {
			first = err
		}
		w.chain = nil
	}
	if w.cache != nil {
		if err := w.cache.close(); err != nil && first == nil {
			first = err
		}
		w.cache = nil
	}
	return first
}
