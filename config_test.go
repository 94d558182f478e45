package vanchron

import (
	"testing"
	"time"
)

func TestConfigValidateRequiresBaseDir(t *testing.T) {
	_, err := Config{}.validate()
	if Code(err) != KindInvalidArgument {
		t.Fatalf("empty Config.validate() = %v, want KindInvalidArgument", err)
	}
}

func TestConfigValidateDateAndFullIndexMutuallyExclusive(t *testing.T) {
	cfg := Config{
		BaseDir:   "/tmp/x",
		Date:      time.Date(2026, time.July, 31, 0, 0, 0, 0, time.UTC),
		FullIndex: 123,
	}
	_, err := cfg.validate()
	if Code(err) != KindInvalidArgument {
		t.Fatalf("Date+FullIndex = %v, want KindInvalidArgument", err)
	}
}

func TestConfigValidateDefaults(t *testing.T) {
	v, err := Config{BaseDir: "/tmp/x"}.validate()
	if err != nil {
		t.Fatal(err)
	}
	if v.maxMappedMemory != DefaultMaxMappedMemoryPerReader {
		t.Errorf("maxMappedMemory = %d, want default", v.maxMappedMemory)
	}
	if v.clock == nil {
		t.Error("clock should default to SystemClock")
	}
}

func TestConfigValidateRejectsTinyMemoryBudget(t *testing.T) {
	_, err := Config{BaseDir: "/tmp/x", MaxMappedMemory: 1}.validate()
	if Code(err) != KindConfigError {
		t.Fatalf("tiny MaxMappedMemory = %v, want KindConfigError", err)
	}
}
