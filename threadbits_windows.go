//go:build windows

package vanchron

// detectThreadIDBits returns the default thread-id-bits width on Windows,
// which has no pid_max equivalent to derive it from.
func detectThreadIDBits() uint {
	return defaultThreadIDBitsWindows
}
