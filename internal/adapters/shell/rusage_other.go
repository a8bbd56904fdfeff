//go:build !unix

package shell

import (
	"os"

	"go.trai.ch/hdrcost/internal/core/domain"
)

func fillRusage(info *domain.ExitInfo, state *os.ProcessState) {
	info.UserTime = state.UserTime()
	info.SysTime = state.SystemTime()
}
