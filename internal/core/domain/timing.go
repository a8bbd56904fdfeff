package domain

import "time"

// FailedExitStatus marks a TimingResult whose process did not exit cleanly.
// None of the other fields are populated when it is set.
const FailedExitStatus = -1

// TimingResult is the resource usage of one external process run.
type TimingResult struct {
	ExitStatus  int           `json:"exit_status"`
	WallTime    time.Duration `json:"wall_time"`
	UserTime    time.Duration `json:"user_time"`
	SysTime     time.Duration `json:"sys_time"`
	MajorFaults int64         `json:"major_faults"`
	MinorFaults int64         `json:"minor_faults"`
	MaxRSS      int64         `json:"max_rss_kb"`
}

// FailedTiming returns the failure sentinel. Callers must read it as
// "cost unknown", never as zero cost.
func FailedTiming() TimingResult {
	return TimingResult{ExitStatus: FailedExitStatus}
}

// OK reports whether the measured process exited with status zero.
func (r TimingResult) OK() bool {
	return r.ExitStatus == 0
}

// CPUTime returns user plus system time.
func (r TimingResult) CPUTime() time.Duration {
	return r.UserTime + r.SysTime
}
