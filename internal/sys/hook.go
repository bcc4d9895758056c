// File: internal/sys/hook.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package sys

// Hooks for the primitives exercised by the acceptor state machine.
// Tests replace them and restore the originals on cleanup.
var (
	SocketFunc        func(domain int) (Handle, error)            = socket
	SetsockoptIntFunc func(h Handle, level, opt, value int) error = setsockoptInt
	BindFunc          func(h Handle, sa Sockaddr) error           = bind
	ListenFunc        func(h Handle, backlog int) error           = listen
	AcceptFunc        func(h Handle) (Handle, Sockaddr, error)    = accept
	CloseFunc         func(h Handle) error                        = closeHandle
)

// Socket allocates a close-on-exec stream socket for the address family.
func Socket(domain int) (Handle, error) { return SocketFunc(domain) }

// SetsockoptInt sets an integer socket option.
func SetsockoptInt(h Handle, level, opt, value int) error {
	return SetsockoptIntFunc(h, level, opt, value)
}

// Bind assigns a local address to the handle.
func Bind(h Handle, sa Sockaddr) error { return BindFunc(h, sa) }

// Listen marks the handle as passive with the given queue size.
func Listen(h Handle, backlog int) error { return ListenFunc(h, backlog) }

// Accept waits for a queued connection and returns its handle and peer address.
func Accept(h Handle) (Handle, Sockaddr, error) { return AcceptFunc(h) }

// Close releases the handle back to the OS.
func Close(h Handle) error { return CloseFunc(h) }
