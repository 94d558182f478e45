package vanchron

import "time"

// PollingMode selects how NextPosition behaves when it catches up to the
// end of the currently-published log.
type PollingMode int

const (
	// PollNonBlocking returns ErrNoData immediately. This is the default
	// (the zero value), matching the original's polling_interval=None.
	PollNonBlocking PollingMode = iota

	// PollSpin busy-loops, re-checking with no sleep between attempts.
	// CPU-intensive; for callers on a dedicated low-latency core.
	PollSpin

	// PollSleep sleeps for Config.PollingInterval between each re-check.
	PollSleep
)

// Config configures a Reader or Writer. BaseDir is the only field every
// caller must set; everything else defaults sensibly.
type Config struct {
	// BaseDir is the chronicle's root directory, containing one
	// subdirectory per cycle (date).
	BaseDir string

	// Date, if non-zero, opens the reader at this cycle's start. Mutually
	// exclusive with FullIndex.
	Date time.Time

	// FullIndex, if non-zero, opens the reader at the cycle and intra-day
	// position it encodes. Mutually exclusive with Date.
	FullIndex uint64

	// PollingMode selects non-blocking, spin, or sleep behavior once a
	// reader catches up to the end of the log. Defaults to
	// PollNonBlocking.
	PollingMode PollingMode

	// PollingInterval is the sleep duration between re-checks in
	// PollSleep mode. Ignored otherwise.
	PollingInterval time.Duration

	// MaxMappedMemory bounds how much data-file memory a reader or writer
	// keeps mapped at once. Zero selects DefaultMaxMappedMemoryPerReader.
	MaxMappedMemory int64

	// ThreadIDBits overrides the detected width of the thread-identifier
	// field in an index slot. Zero selects the platform default (see
	// detectThreadIDBits).
	ThreadIDBits uint

	// Clock supplies the current time, for deterministic rollover testing.
	// Nil selects SystemClock{}.
	Clock Clock
}

// validated is a Config with every default resolved and every invariant
// checked, ready for a Reader or Writer to use without re-checking.
type validated struct {
	baseDir         string
	hasDate         bool
	date            time.Time
	hasFullIndex    bool
	fullIndex       uint64
	pollingMode     PollingMode
	pollingInterval time.Duration
	maxMappedMemory int64
	threadIDBits    uint
	clock           Clock
}

func (c Config) validate() (validated, error) {
	if c.BaseDir == "" {
		return validated{}, newError(KindInvalidArgument, "BaseDir must be set")
	}

	hasDate := !c.Date.IsZero()
	hasFullIndex := c.FullIndex != 0
	if hasDate && hasFullIndex {
		return validated{}, newError(KindInvalidArgument, "Date and FullIndex are mutually exclusive")
	}

	maxMem := c.MaxMappedMemory
	if maxMem == 0 {
		maxMem = DefaultMaxMappedMemoryPerReader
	}
	if maxMem < DataFileSize {
		return validated{}, newError(KindConfigError, "MaxMappedMemory must be at least one data file's size")
	}

	threadIDBits, err := resolveThreadIDBits(c.ThreadIDBits)
	if err != nil {
		return validated{}, err
	}

	clock := c.Clock
	if clock == nil {
		clock = SystemClock{}
	}

	return validated{
		baseDir:         c.BaseDir,
		hasDate:         hasDate,
		date:            c.Date,
		hasFullIndex:    hasFullIndex,
		fullIndex:       c.FullIndex,
		pollingMode:     c.PollingMode,
		pollingInterval: c.PollingInterval,
		maxMappedMemory: maxMem,
		threadIDBits:    threadIDBits,
		clock:           clock,
	}, nil
}
