package socket_test

import (
	"github.com/momentics/hioload-sock/internal/sys"
	"github.com/momentics/hioload-sock/socket"
)

func acceptRaw(s *socket.Socket) (socket.Handle, error) {
	h, _, err := sys.Accept(s.Handle())
	return h, err
}
