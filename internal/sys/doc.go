// File: internal/sys/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package sys holds the raw OS socket primitives used by the socket and
// acceptor packages. Implementations are strictly separated by build tags
// (unix/windows); callers see one set of names on every platform.
//
// The primitives that can fail during an acceptor's lifecycle are routed
// through replaceable function variables so tests can inject OS failures
// and track handle ownership.
package sys
