//go:build linux || darwin

package acceptor_test

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-sock/acceptor"
)

// BenchmarkAcceptClose measures one accept plus close per dialed connection.
func BenchmarkAcceptClose(b *testing.B) {
	res := acceptor.Listen(loopback(b, 0), acceptor.WithBacklog(512))
	require.True(b, res.IsOK(), res.Message())
	a := res.Value()
	defer a.Close()
	target := a.Address().Value().String()

	go func() {
		for i := 0; i < b.N; i++ {
			c, err := net.Dial("tcp4", target)
			if err != nil {
				return
			}
			c.Close()
		}
	}()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r := a.Accept(nil)
		if !r.IsOK() {
			b.Fatal(r.Message())
		}
		r.Value().Close()
	}
}
