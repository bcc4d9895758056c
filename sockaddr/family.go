// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package sockaddr provides the address values consumed by the acceptor:
// an address family tag plus the native OS representation of IPv4, IPv6 and
// Unix-domain endpoints.
package sockaddr

import (
	"strconv"

	"github.com/momentics/hioload-sock/internal/sys"
)

// Family is an OS address family tag.
type Family int

const (
	Unspec Family = sys.AF_UNSPEC
	Inet   Family = sys.AF_INET
	Inet6  Family = sys.AF_INET6
	Unix   Family = sys.AF_UNIX
)

// IsIP reports whether f is an IP family.
func (f Family) IsIP() bool {
	return f == Inet || f == Inet6
}

func (f Family) String() string {
	switch f {
	case Unspec:
		return "unspec"
	case Inet:
		return "inet"
	case Inet6:
		return "inet6"
	case Unix:
		return "unix"
	}
	return "family(" + strconv.Itoa(int(f)) + ")"
}
