//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

// File: internal/sys/sys_unix.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Socket primitives for Unix-like systems via golang.org/x/sys/unix.

package sys

import (
	"net/netip"

	"golang.org/x/sys/unix"
)

// Handle is a socket file descriptor.
type Handle = int

// Sockaddr is the native socket address representation.
type Sockaddr = unix.Sockaddr

// InvalidHandle denotes "no resource".
const InvalidHandle Handle = -1

const (
	AF_UNSPEC = unix.AF_UNSPEC
	AF_INET   = unix.AF_INET
	AF_INET6  = unix.AF_INET6
	AF_UNIX   = unix.AF_UNIX

	SOL_SOCKET   = unix.SOL_SOCKET
	SO_REUSEADDR = unix.SO_REUSEADDR
	SO_REUSEPORT = unix.SO_REUSEPORT
	SOMAXCONN    = unix.SOMAXCONN

	SHUT_RD   = unix.SHUT_RD
	SHUT_WR   = unix.SHUT_WR
	SHUT_RDWR = unix.SHUT_RDWR
)

// Errors the upper layers inspect.
const (
	EAFNOSUPPORT = unix.EAFNOSUPPORT
	EBADF        = unix.EBADF
	ECONNABORTED = unix.ECONNABORTED
	EINVAL       = unix.EINVAL
)

// HasReusePort reports whether the platform has a port-reuse option.
const HasReusePort = true

func setsockoptInt(h Handle, level, opt, value int) error {
	return unix.SetsockoptInt(h, level, opt, value)
}

func bind(h Handle, sa Sockaddr) error { return unix.Bind(h, sa) }

func listen(h Handle, backlog int) error { return unix.Listen(h, backlog) }

func closeHandle(h Handle) error { return unix.Close(h) }

// Getsockname returns the local address bound to h.
func Getsockname(h Handle) (Sockaddr, error) { return unix.Getsockname(h) }

// Getpeername returns the remote address connected to h.
func Getpeername(h Handle) (Sockaddr, error) { return unix.Getpeername(h) }

// Read reads from a connected socket, retrying on EINTR.
func Read(h Handle, p []byte) (int, error) {
	var n int
	err := ignoringEINTR(func() (err error) {
		n, err = unix.Read(h, p)
		return err
	})
	if n < 0 {
		n = 0
	}
	return n, err
}

// Write writes to a connected socket, retrying on EINTR.
func Write(h Handle, p []byte) (int, error) {
	var n int
	err := ignoringEINTR(func() (err error) {
		n, err = unix.Write(h, p)
		return err
	})
	if n < 0 {
		n = 0
	}
	return n, err
}

// ignoringEINTR repeats fn while it fails with EINTR. A signal landing
// during a blocking call is not a failure of the call.
func ignoringEINTR(fn func() error) error {
	for {
		err := fn()
		if err != unix.EINTR {
			return err
		}
	}
}

// Shutdown disables sends and/or receives on h.
func Shutdown(h Handle, how int) error { return unix.Shutdown(h, how) }

// Inet4 builds a native IPv4 address.
func Inet4(addr [4]byte, port int) Sockaddr {
	return &unix.SockaddrInet4{Port: port, Addr: addr}
}

// Inet6 builds a native IPv6 address.
func Inet6(addr [16]byte, port int, zone uint32) Sockaddr {
	return &unix.SockaddrInet6{Port: port, ZoneId: zone, Addr: addr}
}

// UnixPath builds a native AF_UNIX address.
func UnixPath(path string) Sockaddr {
	return &unix.SockaddrUnix{Name: path}
}

// Decode extracts the content of a native address.
func Decode(sa Sockaddr) (Endpoint, bool) {
	switch sa := sa.(type) {
	case *unix.SockaddrInet4:
		return Endpoint{Family: AF_INET, Addr: netip.AddrFrom4(sa.Addr), Port: sa.Port}, true
	case *unix.SockaddrInet6:
		return Endpoint{Family: AF_INET6, Addr: netip.AddrFrom16(sa.Addr), Port: sa.Port, Zone: sa.ZoneId}, true
	case *unix.SockaddrUnix:
		return Endpoint{Family: AF_UNIX, Path: sa.Name}, true
	}
	return Endpoint{}, false
}
