//go:build darwin || freebsd || netbsd || openbsd || dragonfly

// File: internal/sys/sys_cloexec.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Unix systems without a portable atomic close-on-exec flag: hold ForkLock
// between creating the descriptor and marking it.

package sys

import (
	"syscall"

	"golang.org/x/sys/unix"
)

func socket(domain int) (Handle, error) {
	syscall.ForkLock.RLock()
	defer syscall.ForkLock.RUnlock()
	h, err := unix.Socket(domain, unix.SOCK_STREAM, 0)
	if err != nil {
		return InvalidHandle, err
	}
	unix.CloseOnExec(h)
	return h, nil
}

func accept(h Handle) (Handle, Sockaddr, error) {
	var (
		nh Handle
		sa Sockaddr
	)
	err := ignoringEINTR(func() (err error) {
		syscall.ForkLock.RLock()
		defer syscall.ForkLock.RUnlock()
		nh, sa, err = unix.Accept(h)
		if err == nil {
			unix.CloseOnExec(nh)
		}
		return err
	})
	if err != nil {
		return InvalidHandle, nil, err
	}
	return nh, sa, nil
}
