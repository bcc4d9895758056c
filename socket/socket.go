// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package socket provides the owning handle wrapper shared by acceptors and
// connected stream sockets. A Socket releases its OS handle at most once: from
// an explicit Close, from error-path cleanup, or when Reset replaces it.
package socket

import (
	"github.com/momentics/hioload-sock/api"
	"github.com/momentics/hioload-sock/internal/sys"
	"github.com/momentics/hioload-sock/sockaddr"
)

// Handle is the OS identifier of a socket resource.
type Handle = sys.Handle

// InvalidHandle denotes "no resource".
const InvalidHandle = sys.InvalidHandle

// CreateHandle asks the OS for a new stream socket of the given family.
func CreateHandle(domain sockaddr.Family) api.Result[Handle] {
	h, err := sys.Socket(int(domain))
	if err != nil {
		return api.Fail[Handle]("socket", err)
	}
	return api.OK(h)
}

// Socket owns at most one OS handle. The zero value owns nothing.
// A Socket must not be copied after it takes ownership of a handle; use
// Release to hand the handle to another owner.
type Socket struct {
	h    Handle
	open bool
}

// New takes ownership of h. An invalid h yields an empty Socket.
func New(h Handle) Socket {
	var s Socket
	s.install(h)
	return s
}

func (s *Socket) install(h Handle) {
	s.h, s.open = h, h != InvalidHandle
}

// Handle returns the owned handle, or InvalidHandle.
func (s *Socket) Handle() Handle {
	if !s.open {
		return InvalidHandle
	}
	return s.h
}

// IsOpen reports whether the socket owns a valid handle. It says nothing
// about whether the handle is bound or listening.
func (s *Socket) IsOpen() bool { return s.open }

// Reset releases the current handle, if any, and takes ownership of h.
// The returned error is the close failure of the previous handle.
func (s *Socket) Reset(h Handle) error {
	err := s.Close()
	s.install(h)
	return err
}

// Release gives up ownership without closing and returns the handle.
// The socket is left empty.
func (s *Socket) Release() Handle {
	h := s.Handle()
	s.install(InvalidHandle)
	return h
}

// Close releases the handle back to the OS. It is a no-op on an empty
// socket. The socket is empty afterwards even if the OS reports an error.
func (s *Socket) Close() error {
	if !s.open {
		return nil
	}
	h := s.h
	s.install(InvalidHandle)
	if err := sys.Close(h); err != nil {
		return api.NewOSError("close", err)
	}
	return nil
}

// SetOption sets an integer socket option.
func (s *Socket) SetOption(level, opt, value int) api.Result[api.None] {
	if err := sys.SetsockoptInt(s.Handle(), level, opt, value); err != nil {
		return api.Fail[api.None]("setsockopt", err)
	}
	return api.Done()
}

// Bind assigns addr to the socket.
func (s *Socket) Bind(addr sockaddr.Address) api.Result[api.None] {
	sa, err := addr.Sockaddr()
	if err != nil {
		return api.Fail[api.None]("bind", err)
	}
	if err := sys.Bind(s.Handle(), sa); err != nil {
		return api.Fail[api.None]("bind", err)
	}
	return api.Done()
}

// Listen starts accepting connections with the given queue size.
func (s *Socket) Listen(backlog int) api.Result[api.None] {
	if err := sys.Listen(s.Handle(), backlog); err != nil {
		return api.Fail[api.None]("listen", err)
	}
	return api.Done()
}

// LocalAddress returns the address the socket is bound to.
func (s *Socket) LocalAddress() api.Result[sockaddr.Address] {
	return addressOf("getsockname", sys.Getsockname, s.Handle())
}

func addressOf(op string, fn func(Handle) (sys.Sockaddr, error), h Handle) api.Result[sockaddr.Address] {
	sa, err := fn(h)
	if err != nil {
		return api.Fail[sockaddr.Address](op, err)
	}
	addr, ok := sockaddr.FromSockaddr(sa)
	if !ok {
		return api.Fail[sockaddr.Address](op, sys.EAFNOSUPPORT)
	}
	return api.OK(addr)
}
