//go:build windows
// +build windows

// File: internal/sys/sys_windows.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Winsock primitives via golang.org/x/sys/windows. accept(2) is not exposed by
// x/sys/windows and is called directly from ws2_32.dll.

package sys

import (
	"net/netip"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Handle is a Winsock SOCKET.
type Handle = windows.Handle

// Sockaddr is the native socket address representation.
type Sockaddr = windows.Sockaddr

// InvalidHandle denotes "no resource".
const InvalidHandle Handle = windows.InvalidHandle

const (
	AF_UNSPEC = windows.AF_UNSPEC
	AF_INET   = windows.AF_INET
	AF_INET6  = windows.AF_INET6
	AF_UNIX   = windows.AF_UNIX

	SOL_SOCKET   = windows.SOL_SOCKET
	SO_REUSEADDR = windows.SO_REUSEADDR
	// Winsock has no port-reuse option; address reuse is the closest match.
	SO_REUSEPORT = windows.SO_REUSEADDR
	SOMAXCONN    = windows.SOMAXCONN

	SHUT_RD   = windows.SHUT_RD
	SHUT_WR   = windows.SHUT_WR
	SHUT_RDWR = windows.SHUT_RDWR
)

// Errors the upper layers inspect.
const (
	EAFNOSUPPORT = windows.WSAEAFNOSUPPORT
	EBADF        = windows.WSAENOTSOCK
	ECONNABORTED = windows.WSAECONNABORTED
	EINVAL       = windows.WSAEINVAL
)

// HasReusePort reports whether the platform has a port-reuse option.
const HasReusePort = false

var (
	modws2_32  = windows.NewLazySystemDLL("ws2_32.dll")
	procAccept = modws2_32.NewProc("accept")

	startup = sync.OnceValue(func() error {
		var data windows.WSAData
		return windows.WSAStartup(uint32(0x202), &data)
	})
)

func socket(domain int) (Handle, error) {
	if err := startup(); err != nil {
		return InvalidHandle, err
	}
	return windows.WSASocket(int32(domain), windows.SOCK_STREAM, 0, nil, 0, windows.WSA_FLAG_NO_HANDLE_INHERIT)
}

func setsockoptInt(h Handle, level, opt, value int) error {
	return windows.SetsockoptInt(h, level, opt, value)
}

func bind(h Handle, sa Sockaddr) error { return windows.Bind(h, sa) }

func listen(h Handle, backlog int) error { return windows.Listen(h, backlog) }

func accept(h Handle) (Handle, Sockaddr, error) {
	var rsa windows.RawSockaddrAny
	l := int32(unsafe.Sizeof(rsa))
	r1, _, e1 := procAccept.Call(uintptr(h), uintptr(unsafe.Pointer(&rsa)), uintptr(unsafe.Pointer(&l)))
	nh := Handle(r1)
	if nh == windows.InvalidHandle {
		return InvalidHandle, nil, e1
	}
	sa, err := rsa.Sockaddr()
	if err != nil {
		windows.Closesocket(nh)
		return InvalidHandle, nil, err
	}
	return nh, sa, nil
}

func closeHandle(h Handle) error { return windows.Closesocket(h) }

// Getsockname returns the local address bound to h.
func Getsockname(h Handle) (Sockaddr, error) { return windows.Getsockname(h) }

// Getpeername returns the remote address connected to h.
func Getpeername(h Handle) (Sockaddr, error) { return windows.Getpeername(h) }

// Read receives from a connected socket with a blocking WSARecv.
func Read(h Handle, p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	buf := windows.WSABuf{Len: uint32(len(p)), Buf: &p[0]}
	var n, flags uint32
	err := windows.WSARecv(h, &buf, 1, &n, &flags, nil, nil)
	return int(n), err
}

// Write sends to a connected socket with a blocking WSASend.
func Write(h Handle, p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	buf := windows.WSABuf{Len: uint32(len(p)), Buf: &p[0]}
	var n uint32
	err := windows.WSASend(h, &buf, 1, &n, 0, nil, nil)
	return int(n), err
}

// Shutdown disables sends and/or receives on h.
func Shutdown(h Handle, how int) error { return windows.Shutdown(h, how) }

// Inet4 builds a native IPv4 address.
func Inet4(addr [4]byte, port int) Sockaddr {
	return &windows.SockaddrInet4{Port: port, Addr: addr}
}

// Inet6 builds a native IPv6 address.
func Inet6(addr [16]byte, port int, zone uint32) Sockaddr {
	return &windows.SockaddrInet6{Port: port, ZoneId: zone, Addr: addr}
}

// UnixPath builds a native AF_UNIX address.
func UnixPath(path string) Sockaddr {
	return &windows.SockaddrUnix{Name: path}
}

// Decode extracts the content of a native address.
func Decode(sa Sockaddr) (Endpoint, bool) {
	switch sa := sa.(type) {
	case *windows.SockaddrInet4:
		return Endpoint{Family: AF_INET, Addr: netip.AddrFrom4(sa.Addr), Port: sa.Port}, true
	case *windows.SockaddrInet6:
		return Endpoint{Family: AF_INET6, Addr: netip.AddrFrom16(sa.Addr), Port: sa.Port, Zone: sa.ZoneId}, true
	case *windows.SockaddrUnix:
		return Endpoint{Family: AF_UNIX, Path: sa.Name}, true
	}
	return Endpoint{}, false
}
