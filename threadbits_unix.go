//go:build !windows

package vanchron

import (
	"bufio"
	"math/bits"
	"os"
	"strconv"
	"strings"
)

// detectThreadIDBits derives the index slot's thread-identifier field width
// from /proc/sys/kernel/pid_max, so the slot layout has just enough high
// bits to hold any pid the kernel can hand out. If the file cannot be read
// or parsed, it falls back to defaultThreadIDBitsWindows's width, which is
// a reasonable width on any platform.
func detectThreadIDBits() uint {
	f, err := os.Open("/proc/sys/kernel/pid_max")
	if err != nil {
		return defaultThreadIDBitsWindows
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return defaultThreadIDBitsWindows
	}
	pidMax, err := strconv.ParseUint(strings.TrimSpace(scanner.Text()), 10, 64)
	if err != nil || pidMax == 0 {
		return defaultThreadIDBitsWindows
	}
	return uint(bits.Len64(pidMax))
}
