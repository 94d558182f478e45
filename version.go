package vanchron

import "fmt"

// Version constants.
const (
	Major = 0
	Minor = 1
	Patch = 0
)

// Version returns the version string of vanchron.
func Version() string {
	return fmt.Sprintf("vanchron %d.%d.%d (Vanilla Chronicle reader/writer)", Major, Minor, Patch)
}
