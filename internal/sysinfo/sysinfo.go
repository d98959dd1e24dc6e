// Package sysinfo discovers the kernel's message-queue limits, the
// "file-contents reader used to discover kernel limits" collaborator named
// in the spec's scope section. It is deliberately small and
// defensive: any failure to read or parse falls back to the documented
// defaults rather than propagating an error, matching the Agent Manager's
// createAgent(path) convenience overload.
package sysinfo

import (
	"os"
	"strconv"
	"strings"
)

const (
	msgMaxPath     = "/proc/sys/fs/mqueue/msg_max"
	msgSizeMaxPath = "/proc/sys/fs/mqueue/msgsize_max"

	// DefaultMaxCount is used when msg_max can't be read or parsed.
	DefaultMaxCount = 5
	// DefaultMaxSize is used when msgsize_max can't be read or parsed.
	DefaultMaxSize = 4096
)

// Limits describes the system maxima createAgent must respect.
type Limits struct {
	MaxCount int
	MaxSize  int
}

// Discover reads the kernel's mqueue limits, falling back to
// DefaultMaxCount/DefaultMaxSize on any read or parse failure.
func Discover() Limits {
	return Limits{
		MaxCount: readIntOr(msgMaxPath, DefaultMaxCount),
		MaxSize:  readIntOr(msgSizeMaxPath, DefaultMaxSize),
	}
}

func readIntOr(path string, fallback int) int {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fallback
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
