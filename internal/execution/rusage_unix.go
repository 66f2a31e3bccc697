//go:build linux || darwin

package execution

import (
	"os"
	"runtime"
	"syscall"
)

// maxRSSMB reads the child's peak resident set size from its rusage.
// Linux reports kilobytes, darwin reports bytes.
func maxRSSMB(ps *os.ProcessState) float64 {
	ru, ok := ps.SysUsage().(*syscall.Rusage)
	if !ok || ru == nil {
		return 0
	}
	kb := float64(ru.Maxrss)
	if runtime.GOOS == "darwin" {
		kb /= 1024
	}
	return kb / 1024
}
