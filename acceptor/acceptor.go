// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

package acceptor

import (
	"github.com/momentics/hioload-sock/api"
	"github.com/momentics/hioload-sock/internal/sys"
	"github.com/momentics/hioload-sock/socket"
	"github.com/momentics/hioload-sock/sockaddr"
)

// Acceptor is a listening stream socket. The zero value is Invalid and
// ready for Open. An Acceptor must not be copied; use Move.
type Acceptor struct {
	sock   socket.Socket
	domain sockaddr.Family
}

// Create allocates a bare handle for domain. The acceptor is Open but
// neither bound nor listening.
func Create(domain sockaddr.Family) api.Result[*Acceptor] {
	res := socket.CreateHandle(domain)
	if !res.IsOK() {
		return api.Forward[*Acceptor](res)
	}
	return api.OK(&Acceptor{sock: socket.New(res.Value()), domain: domain})
}

// Listen returns a new acceptor listening on addr.
func Listen(addr sockaddr.Address, opts ...OpenOption) api.Result[*Acceptor] {
	a := new(Acceptor)
	if res := a.Open(addr, opts...); !res.IsOK() {
		return api.Forward[*Acceptor](res)
	}
	return api.OK(a)
}

// Open creates a handle for addr's family, sets the reuse option, binds and
// listens. On failure the acceptor is left Invalid.
//
// An acceptor that already holds a handle is left untouched and Open
// succeeds without checking that it is bound to addr.
func (a *Acceptor) Open(addr sockaddr.Address, opts ...OpenOption) api.Result[api.None] {
	if a.IsOpen() {
		return api.Done()
	}
	cfg := newOpenConfig(opts)

	domain := addr.Family()
	res := socket.CreateHandle(domain)
	if !res.IsOK() {
		return api.Forward[api.None](res)
	}
	_ = a.sock.Reset(res.Value())
	a.domain = domain

	if cfg.reuse && domain.IsIP() {
		if r := a.sock.SetOption(sys.SOL_SOCKET, cfg.mode.option(), 1); !r.IsOK() {
			return a.abort(r)
		}
	}
	if r := a.sock.Bind(addr); !r.IsOK() {
		return a.abort(r)
	}
	if r := a.sock.Listen(cfg.backlog); !r.IsOK() {
		return a.abort(r)
	}
	return api.Done()
}

func (a *Acceptor) abort(r api.Result[api.None]) api.Result[api.None] {
	_ = a.Close()
	return r
}

// Accept waits for a queued connection. If peer is non-nil it receives the
// peer's address. A failure leaves the acceptor usable.
func (a *Acceptor) Accept(peer *sockaddr.Storage) api.Result[*socket.StreamSocket] {
	h, sa, err := sys.Accept(a.Handle())
	if err != nil {
		return api.Fail[*socket.StreamSocket]("accept", err)
	}
	if peer != nil {
		peer.Set(sa)
	}
	return api.OK(socket.NewStream(h))
}

// Address returns the local address the acceptor is bound to.
func (a *Acceptor) Address() api.Result[sockaddr.Address] {
	return a.sock.LocalAddress()
}

// Handle returns the owned handle, or socket.InvalidHandle.
func (a *Acceptor) Handle() socket.Handle { return a.sock.Handle() }

// IsOpen reports whether the acceptor holds a handle.
func (a *Acceptor) IsOpen() bool { return a.sock.IsOpen() }

// Family returns the address family of the handle, or Unspec when Invalid.
func (a *Acceptor) Family() sockaddr.Family {
	if !a.IsOpen() {
		return sockaddr.Unspec
	}
	return a.domain
}

// Close releases the handle. Closing an Invalid acceptor is a no-op.
func (a *Acceptor) Close() error {
	a.domain = sockaddr.Unspec
	return a.sock.Close()
}

// Move transfers the handle to a new Acceptor and leaves a Invalid.
func (a *Acceptor) Move() *Acceptor {
	m := &Acceptor{domain: a.Family()}
	m.sock = socket.New(a.sock.Release())
	a.domain = sockaddr.Unspec
	return m
}
