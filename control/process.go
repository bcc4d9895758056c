// control/process.go
// Author: momentics <momentics@gmail.com>
//
// Probes over the current process, used to watch for descriptor leaks.

package control

import (
	"os"

	"github.com/shirou/gopsutil/process"

	"github.com/momentics/hioload-sock/api"
)

// RegisterProcessProbes adds process.* probes. Values the platform cannot
// report are -1.
func RegisterProcessProbes(dp api.Debug) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	dp.RegisterProbe("process.num_fds", func() any {
		if err != nil {
			return int32(-1)
		}
		n, ferr := proc.NumFDs()
		if ferr != nil {
			return int32(-1)
		}
		return n
	})
	dp.RegisterProbe("process.num_threads", func() any {
		if err != nil {
			return int32(-1)
		}
		n, terr := proc.NumThreads()
		if terr != nil {
			return int32(-1)
		}
		return n
	})
}
