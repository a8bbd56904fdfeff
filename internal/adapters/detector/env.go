// Package detector provides environment detection for output mode selection.
package detector

import (
	"os"

	"golang.org/x/term"
)

// OutputMode represents how invocation progress is shown.
type OutputMode int

const (
	// ModeAuto defers to detection.
	ModeAuto OutputMode = iota
	// ModeProgress prints one line per invocation start and finish on stderr.
	ModeProgress
	// ModeQuiet prints nothing but warnings, errors and the report.
	ModeQuiet
)

func (m OutputMode) String() string {
	switch m {
	case ModeProgress:
		return "progress"
	case ModeQuiet:
		return "quiet"
	default:
		return "auto"
	}
}

// DetectEnvironment returns the recommended output mode for this process.
// Progress goes to stderr, so that is the stream checked for a terminal.
func DetectEnvironment() OutputMode {
	return Detect(term.IsTerminal(int(os.Stderr.Fd())), os.Getenv)
}

// Detect picks progress output for interactive terminals outside CI.
func Detect(isTTY bool, getenv func(string) string) OutputMode {
	ci := getenv("CI")
	isCI := ci == "true" || ci == "1"

	if !isTTY || isCI {
		return ModeQuiet
	}
	return ModeProgress
}

// ResolveMode applies the user's --output flag to auto-detection.
// userFlag should be one of: "auto", "progress", "quiet", or empty.
func ResolveMode(autoDetected OutputMode, userFlag string) OutputMode {
	switch userFlag {
	case "progress":
		return ModeProgress
	case "quiet":
		return ModeQuiet
	default:
		return autoDetected
	}
}
