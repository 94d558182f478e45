package vanchron

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	atomicfile "github.com/natefinch/atomic"
)

// createZeroFile atomically creates path as a zero-filled file of exactly
// size bytes, so that any reader that can see the file at all sees it at
// its final size — never a partially-grown one. This matters because the
// data-file cache and index chain both memory-map a file the instant they
// see it exist; a writer growing a file in place after the fact (rather
// than creating it already at full size) would race a concurrent mmap.
//
// natefinch/atomic writes to a temp file in the same directory and renames
// it into place, which is atomic on every platform this module targets.
func createZeroFile(path string, size int64) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	zeros := bytes.NewReader(make([]byte, size))
	return atomicfile.WriteFile(path, zeros)
}

// ensureCycleDir creates the cycle directory for date if it does not
// already exist. Plain os.MkdirAll suffices here (unlike createZeroFile,
// a bare directory has no partially-written state a reader could observe).
func ensureCycleDir(baseDir string, date time.Time) (string, error) {
	dir := cycleDirPath(baseDir, date)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", wrapError(KindConfigError, "creating cycle directory", err)
	}
	return dir, nil
}
