//go:build linux

// File: internal/sys/sys_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux fast path: close-on-exec is set atomically by socket(2) and accept4(2).

package sys

import "golang.org/x/sys/unix"

func socket(domain int) (Handle, error) {
	return unix.Socket(domain, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
}

func accept(h Handle) (Handle, Sockaddr, error) {
	var (
		nh Handle
		sa Sockaddr
	)
	err := ignoringEINTR(func() (err error) {
		nh, sa, err = unix.Accept4(h, unix.SOCK_CLOEXEC)
		return err
	})
	if err != nil {
		return InvalidHandle, nil, err
	}
	return nh, sa, nil
}
