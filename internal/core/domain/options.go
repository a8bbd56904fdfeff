package domain

import (
	"runtime"
	"time"

	"go.trai.ch/zerr"
)

// TimerKind selects how isolated header compiles are measured.
type TimerKind string

const (
	// TimerHarness wraps each compile with an external timing program.
	TimerHarness TimerKind = "harness"
	// TimerRusage reads the child's resource usage from the kernel directly.
	TimerRusage TimerKind = "rusage"
)

// Defaults for Options.
const (
	DefaultMinRefs       = 2
	DefaultMinDuration   = 100 * time.Millisecond
	DefaultCommonPercent = 90.0
	DefaultCompiler      = "g++"
	DefaultHarness       = "/usr/bin/time"
	DefaultExtension     = "cpp"
)

// Options configures one analysis run.
type Options struct {
	// MinRefs is the reference count below which a header is never timed.
	MinRefs int
	// MinDuration is the reporting floor and the pruning threshold.
	MinDuration time.Duration
	// CommonPercent is the share of sources a header needs to be common.
	CommonPercent float64
	Compiler      string
	Flags         []string
	// CacheDir holds persisted results. Empty disables persistence.
	CacheDir   string
	Extensions []string
	Jobs       int
	Timer      TimerKind
	Harness    string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		MinRefs:       DefaultMinRefs,
		MinDuration:   DefaultMinDuration,
		CommonPercent: DefaultCommonPercent,
		Compiler:      DefaultCompiler,
		CacheDir:      DefaultCachePath(),
		Extensions:    []string{DefaultExtension},
		Jobs:          runtime.NumCPU(),
		Timer:         TimerHarness,
		Harness:       DefaultHarness,
	}
}

// Validate rejects option values no run could succeed with.
func (o Options) Validate() error {
	switch {
	case o.MinRefs < 0:
		return zerr.With(zerr.Wrap(ErrInvalidOptions, "min refs must not be negative"), "min_refs", o.MinRefs)
	case o.MinDuration < 0:
		return zerr.With(zerr.Wrap(ErrInvalidOptions, "min duration must not be negative"), "min_duration", o.MinDuration)
	case o.CommonPercent <= 0 || o.CommonPercent > 100:
		return zerr.With(zerr.Wrap(ErrInvalidOptions, "common percent must be in (0, 100]"), "common_pct", o.CommonPercent)
	case o.Compiler == "":
		return zerr.Wrap(ErrInvalidOptions, "compiler must be set")
	case o.Jobs < 1:
		return zerr.With(zerr.Wrap(ErrInvalidOptions, "jobs must be at least 1"), "jobs", o.Jobs)
	case len(o.Extensions) == 0:
		return zerr.Wrap(ErrInvalidOptions, "at least one source extension is required")
	}

	switch o.Timer {
	case TimerRusage:
	case TimerHarness:
		if o.Harness == "" {
			return zerr.Wrap(ErrInvalidOptions, "harness timer needs a harness program")
		}
	default:
		return zerr.With(zerr.Wrap(ErrInvalidOptions, "unknown timer"), "timer", string(o.Timer))
	}
	return nil
}

// CommonThreshold returns the absolute reference count a header needs to be
// common among sourceCount files.
func (o Options) CommonThreshold(sourceCount int) float64 {
	return o.CommonPercent * float64(sourceCount) / 100
}
