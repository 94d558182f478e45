package vanchron

import (
	"errors"
	"fmt"
)

// Kind distinguishes the handful of ways a reader or writer operation can
// fail. Kinds are never conflated: callers that need to tell a retriable
// end-of-stream from a fatal corruption must switch on Kind, not on string
// matching.
type Kind int

const (
	// KindNoData means the stream has no more published records right
	// now. In non-blocking mode this is the normal tail-of-log signal and
	// the only Kind a caller should retry on.
	KindNoData Kind = iota

	// KindNoChronicleForDate means a live cycle's index-file chain is
	// unavailable: index-N was expected to exist (the chain grew to it,
	// or a date/full-index resolution named it) but the file is missing.
	KindNoChronicleForDate

	// KindCorruptData means a published index slot names a data file
	// that does not exist. This is never recovered automatically.
	KindCorruptData

	// KindInvalidArgument means mutually exclusive construction options
	// were combined, or an option's value is nonsensical.
	KindInvalidArgument

	// KindConfigError means a configuration value is out of range, e.g.
	// MaxMappedMemory below one data file's worth of bytes.
	KindConfigError

	// KindPartialWriteLostOnRollover means an appender's in-progress
	// record was reserved in one cycle's data file but the wall clock
	// crossed midnight before Finish published it. Readers never raise
	// this; only Appender.Finish does.
	KindPartialWriteLostOnRollover
)

func (k Kind) String() string {
	switch k {
	case KindNoData:
		return "no data"
	case KindNoChronicleForDate:
		return "no chronicle for date"
	case KindCorruptData:
		return "corrupt data"
	case KindInvalidArgument:
		return "invalid argument"
	case KindConfigError:
		return "config error"
	case KindPartialWriteLostOnRollover:
		return "partial write lost on rollover"
	default:
		return fmt.Sprintf("unknown error kind %d", int(k))
	}
}

// Error is the error type returned by every vanchron operation that fails
// for a reason intrinsic to the format or its configuration.
type Error struct {
	Kind    Kind
	Message string
	Err     error // wrapped error, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("vanchron: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("vanchron: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a *Error with the same Kind, so that
// errors.Is(err, ErrNoData) works regardless of wrapping or message text.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func wrapError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Sentinel errors, comparable with errors.Is.
var (
	ErrNoData                     = newError(KindNoData, "no more published records")
	ErrNoChronicleForDate         = newError(KindNoChronicleForDate, "index chain unavailable for this cycle")
	ErrCorruptData                = newError(KindCorruptData, "index slot references a missing data file")
	ErrInvalidArgument            = newError(KindInvalidArgument, "invalid argument")
	ErrConfigError                = newError(KindConfigError, "invalid configuration")
	ErrPartialWriteLostOnRollover = newError(KindPartialWriteLostOnRollover, "record reservation lost to cycle rollover")
)

// Code returns the Kind of err, or -1 if err is nil or not a *Error.
func Code(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return -1
}

// IsNoData reports whether err is (or wraps) ErrNoData.
func IsNoData(err error) bool { return errors.Is(err, ErrNoData) }

// IsNoChronicleForDate reports whether err is (or wraps) ErrNoChronicleForDate.
func IsNoChronicleForDate(err error) bool { return errors.Is(err, ErrNoChronicleForDate) }

// IsCorruptData reports whether err is (or wraps) ErrCorruptData.
func IsCorruptData(err error) bool { return errors.Is(err, ErrCorruptData) }
