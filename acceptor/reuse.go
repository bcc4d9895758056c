// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

package acceptor

import (
	"fmt"
	"strings"

	"github.com/momentics/hioload-sock/internal/sys"
)

// ReuseMode selects which reuse socket option Open sets.
type ReuseMode int

const (
	// ReusePlatformDefault resolves at build time: address reuse on
	// Windows, port reuse on POSIX systems.
	ReusePlatformDefault ReuseMode = iota
	// ReuseAddress sets SO_REUSEADDR.
	ReuseAddress
	// ReusePort sets SO_REUSEPORT. Windows has no such option and uses
	// address reuse instead.
	ReusePort
)

// Resolve returns the concrete mode used on this build target.
func (m ReuseMode) Resolve() ReuseMode {
	switch {
	case m == ReusePlatformDefault:
		return platformReuse
	case m == ReusePort && !sys.HasReusePort:
		return ReuseAddress
	}
	return m
}

func (m ReuseMode) option() int {
	if m.Resolve() == ReuseAddress {
		return sys.SO_REUSEADDR
	}
	return sys.SO_REUSEPORT
}

func (m ReuseMode) String() string {
	switch m {
	case ReusePlatformDefault:
		return "default"
	case ReuseAddress:
		return "address"
	case ReusePort:
		return "port"
	}
	return fmt.Sprintf("ReuseMode(%d)", int(m))
}

// ParseReuseMode accepts "default", "address" or "port" (case-insensitive).
// The empty string is the platform default.
func ParseReuseMode(s string) (ReuseMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return ReusePlatformDefault, nil
	case "address", "addr":
		return ReuseAddress, nil
	case "port":
		return ReusePort, nil
	}
	return ReusePlatformDefault, fmt.Errorf("acceptor: unknown reuse mode %q", s)
}
