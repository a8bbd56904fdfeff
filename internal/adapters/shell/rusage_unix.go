//go:build unix

package shell

import (
	"os"
	"syscall"
	"time"

	"go.trai.ch/hdrcost/internal/core/domain"
)

func fillRusage(info *domain.ExitInfo, state *os.ProcessState) {
	u, ok := state.SysUsage().(*syscall.Rusage)
	if !ok {
		info.UserTime = state.UserTime()
		info.SysTime = state.SystemTime()
		return
	}
	info.UserTime = time.Duration(u.Utime.Nano())
	info.SysTime = time.Duration(u.Stime.Nano())
	// 32bit arch may use int32 for these. Maxrss is in KB on Linux.
	info.MaxRSS = int64(u.Maxrss)
	info.MajorFaults = int64(u.Majflt)
	info.MinorFaults = int64(u.Minflt)
}
