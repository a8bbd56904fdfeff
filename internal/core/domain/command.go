package domain

import (
	"path/filepath"
	"time"
)

// Command describes one external process invocation.
type Command struct {
	// Args holds the program followed by its arguments.
	Args []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env holds extra "KEY=VALUE" entries layered over the allow-listed
	// system environment.
	Env []string
	// Stdin is fed to the process when non-nil.
	Stdin []byte
}

// Name returns the base name of the program, used to label spans.
func (c *Command) Name() string {
	if c == nil || len(c.Args) == 0 {
		return ""
	}
	return filepath.Base(c.Args[0])
}

// ExitInfo is what the kernel reports about a finished process.
type ExitInfo struct {
	ExitCode    int
	WallTime    time.Duration
	UserTime    time.Duration
	SysTime     time.Duration
	MajorFaults int64
	MinorFaults int64
	MaxRSS      int64
}

// Timing converts the exit info into a TimingResult, collapsing a non-zero
// exit into the failure sentinel.
func (e *ExitInfo) Timing() TimingResult {
	if e == nil || e.ExitCode != 0 {
		return FailedTiming()
	}
	return TimingResult{
		ExitStatus:  0,
		WallTime:    e.WallTime,
		UserTime:    e.UserTime,
		SysTime:     e.SysTime,
		MajorFaults: e.MajorFaults,
		MinorFaults: e.MinorFaults,
		MaxRSS:      e.MaxRSS,
	}
}
