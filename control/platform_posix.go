//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

// control/platform_posix.go
// Author: momentics <momentics@gmail.com>
//
// POSIX platform probes.

package control

import (
	"runtime"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-sock/api"
)

// RegisterPlatformProbes sets POSIX-specific debug probes.
func RegisterPlatformProbes(dp api.Debug) {
	dp.RegisterProbe("platform.os", func() any {
		return runtime.GOOS
	})
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
	dp.RegisterProbe("platform.reuse_default", func() any {
		return "SO_REUSEPORT"
	})
	dp.RegisterProbe("platform.fd_limit", func() any {
		var lim unix.Rlimit
		if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &lim); err != nil {
			return err.Error()
		}
		return lim.Cur
	})
}
