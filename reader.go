package vanchron

import (
	"time"
)

// Reader is a sequential, forward-only cursor over a Vanilla Chronicle:
// a daily-rolled, multi-writer, memory-mapped record log. A Reader is not
// safe for concurrent use from multiple goroutines — each goroutine that
// wants to read the log independently should construct its own Reader.
type Reader struct {
	cfg validated

	cycleDir      string // "" if no cycle directory is open
	date          time.Time
	fullIndexBase uint64
	index         uint64 // next intra-day slot to read
	maxIndex      uint64 // highest slot known to be the end-of-day, cached by GetEndIndexToday

	indexChain *indexChain
	dataCache  *dataFileCache
}

// NewReader opens a Reader per cfg. If neither Date nor FullIndex is set,
// it opens at the earliest existing cycle directory. If none exists yet,
// it returns successfully anyway (matching the original's tolerance for
// racing a writer that hasn't created its first cycle directory).
// NextPosition then looks for one on every call; until one appears it
// reports ErrNoData in PollNonBlocking mode and keeps polling in PollSpin
// and PollSleep modes.
func NewReader(cfg Config) (*Reader, error) {
	v, err := cfg.validate()
	if err != nil {
		return nil, err
	}

	r := &Reader{cfg: v}

	switch {
	case v.hasFullIndex:
		date, intra := FromFullIndex(v.fullIndex)
		if err := r.setCycleDirLiteral(date); err != nil {
			return nil, err
		}
		r.index = intra
	case v.hasDate:
		if err := r.setCycleDirLiteral(v.date); err != nil {
			return nil, err
		}
	default:
		date, ok, err := firstCycle(v.baseDir)
		if err != nil {
			return nil, err
		}
		if ok {
			if err := r.setCycleDirLiteral(date); err != nil {
				return nil, err
			}
		}
		// No cycle directory exists yet; r stays with cycleDir == "" and
		// the first NextPosition call will discover one or poll per the
		// polling mode, exactly as the original constructor silently
		// returns on NoData during its initial _try_set_cycle_dir.
	}

	return r, nil
}

// setCycleDirLiteral points the reader at date's cycle directory without
// checking it exists yet (existence is only needed once an index file is
// actually opened). This mirrors the original's _update_cycle_dir, used
// whenever a caller names a date directly (construction with Date or
// FullIndex), and by trySetCycleDir and tryNextDate once their directory
// search has picked a date.
func (r *Reader) setCycleDirLiteral(date time.Time) error {
	if err := r.closeCycle(); err != nil {
		return err
	}
	r.cycleDir = cycleDirPath(r.cfg.baseDir, date)
	r.date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	r.fullIndexBase = ToFullIndex(r.date, 0)
	r.index = 0
	r.maxIndex = 0
	r.indexChain = newIndexChain(r.cycleDir, false)
	cache, err := newDataFileCache(r.cycleDir, false, r.cfg.maxMappedMemory)
	if err != nil {
		return err
	}
	r.dataCache = cache
	return nil
}

// trySetCycleDir searches for the earliest cycle directory whose date is
// >= minDate (if minDate is non-zero) and points the reader at it. It
// reports ErrNoData if none exists.
func (r *Reader) trySetCycleDir(minDate time.Time) error {
	var date time.Time
	var ok bool
	var err error
	if minDate.IsZero() {
		date, ok, err = firstCycle(r.cfg.baseDir)
	} else {
		date, ok, err = cycleForDate(r.cfg.baseDir, minDate)
	}
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoData
	}
	return r.setCycleDirLiteral(date)
}

// tryNextDate advances to the next cycle directory strictly after the
// current one. It reports (false, nil) if there is none yet.
func (r *Reader) tryNextDate() (bool, error) {
	if r.cycleDir == "" {
		if err := r.trySetCycleDir(time.Time{}); err != nil {
			if IsNoData(err) {
				return false, nil
			}
			return false, err
		}
		return true, nil
	}
	date, ok, err := nextCycle(r.cfg.baseDir, r.date)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if err := r.setCycleDirLiteral(date); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Reader) closeCycle() error {
	var first error
	if r.indexChain != nil {
		if err := r.indexChain.close(); err != nil && first == nil {
			first = err
		}
		r.indexChain = nil
	}
	if r.dataCache != nil {
		if err := r.dataCache.close(); err != nil && first == nil {
			first = err
		}
		r.dataCache = nil
	}
	return first
}

// getIndexValue returns the raw index slot at intra-day slot number idx,
// opening the next index-N file in the chain on demand.
func (r *Reader) getIndexValue(idx uint64) (uint64, error) {
	if r.indexChain == nil {
		return 0, ErrNoChronicleForDate
	}
	m, offset, err := r.indexChain.slotWord(idx)
	if err != nil {
		return 0, err
	}
	return m.ReadWord(offset), nil
}

// NextPosition advances past the next published record and returns its
// location: the data file number, byte offset within it, and the thread
// (writer) that published it. It blocks or fails per cfg.PollingMode once
// it catches up to the end of the currently-published log.
func (r *Reader) NextPosition() (filenum, pos, thread uint64, err error) {
	for {
		if r.cycleDir == "" {
			if err := r.trySetCycleDir(time.Time{}); err != nil {
				if !IsNoData(err) || r.cfg.pollingMode == PollNonBlocking {
					return 0, 0, 0, err
				}
				if r.cfg.pollingMode == PollSleep {
					time.Sleep(r.cfg.pollingInterval)
				}
				continue
			}
		}

		val, err := r.getIndexValue(r.index)
		if err != nil {
			return 0, 0, 0, err
		}
		t, position := splitSlot(val, r.cfg.threadIDBits)

		if position == 0 {
			if !r.date.Equal(dateOnly(r.cfg.clock.NowUTC())) {
				advanced, err := r.tryNextDate()
				if err != nil {
					return 0, 0, 0, err
				}
				if advanced {
					continue
				}
			}
			switch r.cfg.pollingMode {
			case PollNonBlocking:
				return 0, 0, 0, ErrNoData
			case PollSpin:
				continue
			case PollSleep:
				time.Sleep(r.cfg.pollingInterval)
				continue
			}
		}

		fn, byteOffset := splitPosition(position)
		r.index++
		return fn, byteOffset, t, nil
	}
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NextRawBytes advances past the next published record and returns its
// full data-file contents plus the byte offset the record starts at. The
// slice is the entire mapped data file — callers decode from offset
// onward with a ByteCursor, or another scheme of their own.
//
// The slice stays valid only until the next call into the Reader: a later
// lookup may evict this data file from the bounded cache and unmap it, so
// callers must finish decoding the record before reading the next one.
func (r *Reader) NextRawBytes() (data []byte, offset int, err error) {
	filenum, pos, thread, err := r.NextPosition()
	if err != nil {
		return nil, 0, err
	}
	m, err := r.dataCache.get(thread, filenum)
	if err != nil {
		return nil, 0, err
	}
	return m.Data(), int(pos), nil
}

// NextReader advances past the next published record and returns a
// ByteCursor positioned at its start.
func (r *Reader) NextReader() (*ByteCursor, error) {
	data, offset, err := r.NextRawBytes()
	if err != nil {
		return nil, err
	}
	return NewByteCursor(data, offset), nil
}

// NextIndex advances past the next published record and returns its full
// index.
func (r *Reader) NextIndex() (uint64, error) {
	_, _, _, err := r.NextPosition()
	if err != nil {
		return 0, err
	}
	return r.index - 1 + r.fullIndexBase, nil
}

// GetIndex returns the full index of the next record that will be read,
// without consuming it.
func (r *Reader) GetIndex() uint64 {
	return r.index + r.fullIndexBase
}

// GetDate returns the date of the reader's current cycle directory, the
// zero Time if none is open yet.
func (r *Reader) GetDate() time.Time {
	return r.date
}

// GetEndIndexToday returns the full index one past the last published
// record in the current cycle, probing forward from the highest slot
// already known to be the end.
func (r *Reader) GetEndIndexToday() (uint64, error) {
	idx := r.maxIndex
	if r.index > idx {
		idx = r.index
	}
	for {
		val, err := r.getIndexValue(idx)
		if err != nil {
			return 0, err
		}
		_, position := splitSlot(val, r.cfg.threadIDBits)
		if position == 0 {
			r.maxIndex = idx
			return r.maxIndex + r.fullIndexBase, nil
		}
		idx++
	}
}

// SetIndex repositions the reader at full_index, switching cycle
// directories first if full_index names a different date.
func (r *Reader) SetIndex(fullIndex uint64) error {
	date, intra := FromFullIndex(fullIndex)
	if !r.date.Equal(date) {
		if err := r.trySetCycleDir(date); err != nil {
			return err
		}
	}
	r.index = intra
	return nil
}

// SetDate repositions the reader at the earliest cycle directory whose
// date is on or after date, at the start of that cycle.
func (r *Reader) SetDate(date time.Time) error {
	return r.trySetCycleDir(date)
}

// SetStartIndexToday repositions the reader at the start of the current
// cycle.
func (r *Reader) SetStartIndexToday() {
	r.index = 0
}

// SetEndIndexToday repositions the reader at the end of the current
// cycle's published records.
func (r *Reader) SetEndIndexToday() error {
	end, err := r.GetEndIndexToday()
	if err != nil {
		return err
	}
	return r.SetIndex(end)
}

// SetEnd repositions the reader at the end of the chronicle: the last
// cycle directory, at the end of its published records.
func (r *Reader) SetEnd() error {
	for {
		advanced, err := r.tryNextDate()
		if err != nil {
			return err
		}
		if !advanced {
			break
		}
	}
	return r.SetEndIndexToday()
}

// Close releases every resource the reader holds and resets it to the
// same state as a freshly constructed Reader with no cycle directory
// open. Reading afterward begins again from the start of the chronicle.
func (r *Reader) Close() error {
	err := r.closeCycle()
	r.cycleDir = ""
	r.date = time.Time{}
	r.fullIndexBase = 0
	r.index = 0
	r.maxIndex = 0
	return err
}
