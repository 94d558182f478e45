package vanchron

// Wire-format constants. These are fixed: a reader and writer that disagree
// on any of them will silently corrupt each other's data. They are not
// configurable and must never be derived from anything but this file.
//
// CycleIndexPos was pinned to 40 by working the reference fixture in
// reverse (to_full(2015-04-16, 10) == 18_187_021_835_042_826): the high
// bits above bit 40 are the UTC day count and the low 40 bits are the
// intra-day index, giving a dense per-day sequence space of 2^40 records
// before a day could theoretically overflow it.
//
// IndexFileSize and DataFileSize are sized independently of
// CycleIndexPos: an individual index-N file only ever needs to be large
// enough to hold a practical number of slots, not 2^40 of them, so the
// byte-offset-within-file computation in the index-file chain (component
// E) uses its own shift/mask pair rather than CycleIndexPos/IndexOffsetMask.
const (
	// CycleIndexPos is the bit position separating, in a full index, the
	// days-since-epoch component (above) from the intra-day index
	// component (below).
	CycleIndexPos uint = 40

	// IndexOffsetMask extracts the intra-day index from a full index:
	// intra = full & IndexOffsetMask.
	IndexOffsetMask uint64 = (1 << CycleIndexPos) - 1

	// IndexFileSize is the fixed size, in bytes, of each index-N file in a
	// cycle directory. It holds IndexFileSize/8 eight-byte slots.
	IndexFileSize int64 = 1 << 27 // 128 MiB

	// FilenumFromIndexShift turns a byte offset into an index-N file
	// number: file = (slot*8) >> FilenumFromIndexShift. It is
	// log2(IndexFileSize), independent of CycleIndexPos (see the note at
	// the top of this file).
	FilenumFromIndexShift uint = 27

	// indexFileOffsetMask masks a byte offset down to its position within
	// a single index-N file: byte = (slot*8) & indexFileOffsetMask.
	indexFileOffsetMask uint64 = uint64(IndexFileSize) - 1

	// DataFileSize is the fixed size, in bytes, of each data-<thread>-N
	// file in a cycle directory.
	DataFileSize int64 = 1 << 28 // 256 MiB

	// FilenumFromPosShift separates a slot's position field into a data
	// file number (high part) and a byte offset within that file (low
	// part, masked by PosMask). It is log2(DataFileSize).
	FilenumFromPosShift uint = 28

	// PosMask masks out the byte offset within a data file from a
	// position field.
	PosMask uint64 = uint64(DataFileSize) - 1
)

// DefaultMaxMappedMemoryPerReader is the default cap, in bytes, on mapped
// data-file memory when the caller does not supply one. It applies on every
// platform: Config.validate substitutes it whenever MaxMappedMemory is
// zero, and no setting leaves the data-file cache unbounded.
const DefaultMaxMappedMemoryPerReader = 1024 * 1024 * 1024 // 1 GiB

// defaultThreadIDBitsWindows is the thread-id-bits width used on Windows,
// where there is no /proc/sys/kernel/pid_max to derive it from.
const defaultThreadIDBitsWindows uint = 16

// cycleDirLen is the length of a cycle directory name ("YYYYMMDD").
const cycleDirLen = 8

// allocatorWordOffset is the byte offset, within a data file, of the
// allocator word an appender CASes to reserve space. Payload offsets
// therefore start at byte 8, never at byte 0.
const allocatorWordOffset int64 = 0

// payloadStartOffset is the first byte offset a position may ever point at.
const payloadStartOffset int64 = 8
