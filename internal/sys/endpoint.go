// File: internal/sys/endpoint.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package sys

import "net/netip"

// Endpoint is the platform-neutral content of a native socket address.
type Endpoint struct {
	Family int
	Addr   netip.Addr // IP families only
	Port   int
	Zone   uint32 // IPv6 scope id
	Path   string // AF_UNIX only
}
