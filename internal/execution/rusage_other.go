//go:build !linux && !darwin

package execution

import "os"

// maxRSSMB is unavailable on this platform; memory reports as 0
func maxRSSMB(ps *os.ProcessState) float64 {
	return 0
}
