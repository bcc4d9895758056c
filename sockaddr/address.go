// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

package sockaddr

import (
	"fmt"
	"net"
	"net/netip"
	"strconv"

	"github.com/momentics/hioload-sock/internal/sys"
)

// Address is an endpoint the OS can bind to or report back.
type Address interface {
	Family() Family
	// Sockaddr returns the native representation passed to the OS.
	Sockaddr() (sys.Sockaddr, error)
	String() string
}

// InetAddress is an IPv4 or IPv6 endpoint.
type InetAddress struct {
	ap netip.AddrPort
}

// NewInet returns an IPv4 endpoint. IPv4-mapped IPv6 addresses are unmapped.
func NewInet(ap netip.AddrPort) (InetAddress, error) {
	a := ap.Addr().Unmap()
	if !a.Is4() {
		return InetAddress{}, fmt.Errorf("sockaddr: %s is not an IPv4 address", ap.Addr())
	}
	return InetAddress{ap: netip.AddrPortFrom(a, ap.Port())}, nil
}

// NewInet6 returns an IPv6 endpoint. IPv4 addresses are mapped.
func NewInet6(ap netip.AddrPort) (InetAddress, error) {
	a := ap.Addr()
	if !a.IsValid() {
		return InetAddress{}, fmt.Errorf("sockaddr: invalid IPv6 address")
	}
	if a.Is4() {
		a = netip.AddrFrom16(a.As16())
	}
	return InetAddress{ap: netip.AddrPortFrom(a, ap.Port())}, nil
}

// AddrPort returns the IP and port.
func (a InetAddress) AddrPort() netip.AddrPort { return a.ap }

// Port returns the port number.
func (a InetAddress) Port() uint16 { return a.ap.Port() }

// Family returns Inet or Inet6, or Unspec for the zero value.
func (a InetAddress) Family() Family {
	switch ip := a.ap.Addr(); {
	case ip.Is4():
		return Inet
	case ip.Is6():
		return Inet6
	}
	return Unspec
}

// Sockaddr returns the native form of the endpoint.
func (a InetAddress) Sockaddr() (sys.Sockaddr, error) {
	ip := a.ap.Addr()
	port := int(a.ap.Port())
	switch {
	case ip.Is4():
		return sys.Inet4(ip.As4(), port), nil
	case ip.Is6():
		zone, err := zoneIndex(ip.Zone())
		if err != nil {
			return nil, err
		}
		return sys.Inet6(ip.As16(), port, zone), nil
	}
	return nil, sys.EAFNOSUPPORT
}

func (a InetAddress) String() string { return a.ap.String() }

// UnixAddress is a Unix-domain socket path.
type UnixAddress struct {
	path string
}

// NewUnix returns a Unix-domain endpoint for path.
func NewUnix(path string) UnixAddress { return UnixAddress{path: path} }

// Path returns the socket path.
func (a UnixAddress) Path() string { return a.path }

// Family returns Unix.
func (UnixAddress) Family() Family { return Unix }

// Sockaddr returns the native form of the endpoint.
func (a UnixAddress) Sockaddr() (sys.Sockaddr, error) { return sys.UnixPath(a.path), nil }

func (a UnixAddress) String() string { return a.path }

// FromSockaddr converts a native address reported by the OS.
func FromSockaddr(sa sys.Sockaddr) (Address, bool) {
	ep, ok := sys.Decode(sa)
	if !ok {
		return nil, false
	}
	switch ep.Family {
	case sys.AF_INET:
		return InetAddress{ap: netip.AddrPortFrom(ep.Addr, uint16(ep.Port))}, true
	case sys.AF_INET6:
		ip := ep.Addr
		if ep.Zone != 0 {
			ip = ip.WithZone(zoneName(ep.Zone))
		}
		return InetAddress{ap: netip.AddrPortFrom(ip, uint16(ep.Port))}, true
	case sys.AF_UNIX:
		return UnixAddress{path: ep.Path}, true
	}
	return nil, false
}

// Parse resolves a listen address for network "tcp4", "tcp6", "tcp" or
// "unix". Host names are not resolved; "tcp" picks the family from the IP.
// An empty host selects the wildcard address of the family.
func Parse(network, address string) (Address, error) {
	switch network {
	case "unix":
		if address == "" {
			return nil, fmt.Errorf("sockaddr: empty unix socket path")
		}
		return NewUnix(address), nil
	case "tcp", "tcp4", "tcp6":
	default:
		return nil, fmt.Errorf("sockaddr: unsupported network %q", network)
	}

	host, portStr, err := net.SplitHostPort(address)
	if err != nil {
		return nil, fmt.Errorf("sockaddr: %w", err)
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return nil, fmt.Errorf("sockaddr: invalid port %q", portStr)
	}

	var ip netip.Addr
	if host == "" {
		if network == "tcp6" {
			ip = netip.IPv6Unspecified()
		} else {
			ip = netip.IPv4Unspecified()
		}
	} else if ip, err = netip.ParseAddr(host); err != nil {
		return nil, fmt.Errorf("sockaddr: %w", err)
	}

	ap := netip.AddrPortFrom(ip, uint16(port))
	switch {
	case network == "tcp4", network == "tcp" && ip.Unmap().Is4():
		return NewInet(ap)
	default:
		return NewInet6(ap)
	}
}

func zoneIndex(zone string) (uint32, error) {
	if zone == "" {
		return 0, nil
	}
	if n, err := strconv.ParseUint(zone, 10, 32); err == nil {
		return uint32(n), nil
	}
	ifi, err := net.InterfaceByName(zone)
	if err != nil {
		return 0, fmt.Errorf("sockaddr: zone %q: %w: %w", zone, sys.EINVAL, err)
	}
	return uint32(ifi.Index), nil
}

func zoneName(index uint32) string {
	if ifi, err := net.InterfaceByIndex(int(index)); err == nil {
		return ifi.Name
	}
	return strconv.FormatUint(uint64(index), 10)
}
