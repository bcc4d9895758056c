// File: server/handler.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/momentics/hioload-sock/socket"
	"github.com/momentics/hioload-sock/sockaddr"
)

// Handler serves one accepted connection. The server closes conn after
// ServeSocket returns.
type Handler interface {
	ServeSocket(conn *socket.StreamSocket, peer sockaddr.Address) error
}

// HandlerFunc adapts an ordinary function to Handler.
type HandlerFunc func(conn *socket.StreamSocket, peer sockaddr.Address) error

// ServeSocket calls f(conn, peer).
func (f HandlerFunc) ServeSocket(conn *socket.StreamSocket, peer sockaddr.Address) error {
	return f(conn, peer)
}

// Middleware augments a Handler.
type Middleware func(Handler) Handler

// NewHandlerChain applies middleware in order: first in slice is outermost.
func NewHandlerChain(base Handler, mw ...Middleware) Handler {
	h := base
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}

// Recover turns a panicking handler into an error.
func Recover() Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(conn *socket.StreamSocket, peer sockaddr.Address) (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = errors.Errorf("handler panic: %v", r)
				}
			}()
			return next.ServeSocket(conn, peer)
		})
	}
}

// AccessLog logs every served connection at debug level.
func AccessLog(l zerolog.Logger) Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(conn *socket.StreamSocket, peer sockaddr.Address) error {
			err := next.ServeSocket(conn, peer)
			l.Debug().Err(err).Stringer("peer", peer).Msg("connection served")
			return err
		})
	}
}
