// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

package socket

import (
	"io"

	"github.com/momentics/hioload-sock/api"
	"github.com/momentics/hioload-sock/internal/sys"
	"github.com/momentics/hioload-sock/sockaddr"
)

// Shutdown directions.
const (
	ShutRead  = sys.SHUT_RD
	ShutWrite = sys.SHUT_WR
	ShutBoth  = sys.SHUT_RDWR
)

// StreamSocket is a connected stream socket. It owns its handle.
type StreamSocket struct {
	Socket
}

// NewStream takes ownership of a connected handle.
func NewStream(h Handle) *StreamSocket {
	return &StreamSocket{Socket: New(h)}
}

// Read implements io.Reader. An orderly shutdown by the peer yields io.EOF.
func (s *StreamSocket) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n, err := sys.Read(s.Handle(), p)
	if err != nil {
		return n, api.NewOSError("read", err)
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// Write implements io.Writer. It writes all of p unless the OS fails.
func (s *StreamSocket) Write(p []byte) (int, error) {
	var written int
	for written < len(p) {
		n, err := sys.Write(s.Handle(), p[written:])
		written += n
		if err != nil {
			return written, api.NewOSError("write", err)
		}
		if n == 0 {
			return written, io.ErrShortWrite
		}
	}
	return written, nil
}

// Shutdown disables further receives, sends or both (ShutRead, ShutWrite, ShutBoth).
func (s *StreamSocket) Shutdown(how int) api.Result[api.None] {
	if err := sys.Shutdown(s.Handle(), how); err != nil {
		return api.Fail[api.None]("shutdown", err)
	}
	return api.Done()
}

// CloseWrite half-closes the connection so the peer reads EOF.
func (s *StreamSocket) CloseWrite() error {
	return s.Shutdown(ShutWrite).Err()
}

// PeerAddress returns the address of the connected peer.
func (s *StreamSocket) PeerAddress() api.Result[sockaddr.Address] {
	return addressOf("getpeername", sys.Getpeername, s.Handle())
}
