//go:build linux || darwin

package socket_test

import (
	"io"
	"net"
	"net/netip"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-sock/fake"
	"github.com/momentics/hioload-sock/socket"
	"github.com/momentics/hioload-sock/sockaddr"
)

func TestZeroSocket(t *testing.T) {
	var s socket.Socket
	assert.False(t, s.IsOpen())
	assert.Equal(t, socket.InvalidHandle, s.Handle())
	assert.NoError(t, s.Close())
	assert.Equal(t, socket.InvalidHandle, s.Release())

	empty := socket.New(socket.InvalidHandle)
	assert.False(t, empty.IsOpen())
}

func TestResetReleasesPrevious(t *testing.T) {
	fs := fake.Install(t)

	h1 := socket.CreateHandle(sockaddr.Inet)
	require.True(t, h1.IsOK(), h1.Message())
	h2 := socket.CreateHandle(sockaddr.Inet)
	require.True(t, h2.IsOK(), h2.Message())

	s := socket.New(h1.Value())
	require.NoError(t, s.Reset(h2.Value()))
	assert.False(t, fs.IsLive(h1.Value()))
	assert.Equal(t, h2.Value(), s.Handle())

	require.NoError(t, s.Close())
	assert.Zero(t, fs.Live())
	assert.Zero(t, fs.DoubleCloses())
}

func TestReleaseDoesNotClose(t *testing.T) {
	fs := fake.Install(t)

	res := socket.CreateHandle(sockaddr.Inet6)
	require.True(t, res.IsOK(), res.Message())
	s := socket.New(res.Value())

	h := s.Release()
	assert.False(t, s.IsOpen())
	assert.NoError(t, s.Close())
	assert.True(t, fs.IsLive(h))

	owner := socket.New(h)
	require.NoError(t, owner.Close())
	assert.Zero(t, fs.Live())
}

func TestBindFailureReportsOp(t *testing.T) {
	res := socket.CreateHandle(sockaddr.Inet)
	require.True(t, res.IsOK(), res.Message())
	s := socket.New(res.Value())
	defer s.Close()

	// TEST-NET-1 is never assigned to a local interface.
	addr, err := sockaddr.NewInet(netip.MustParseAddrPort("192.0.2.1:0"))
	require.NoError(t, err)
	bind := s.Bind(addr)
	require.False(t, bind.IsOK())
	assert.Equal(t, "bind", bind.Error().Op)
	assert.True(t, s.IsOpen())
}

// listen binds a listening socket on loopback and returns it with its port.
func listen(t *testing.T) (*socket.Socket, uint16) {
	t.Helper()
	res := socket.CreateHandle(sockaddr.Inet)
	require.True(t, res.IsOK(), res.Message())
	s := socket.New(res.Value())
	t.Cleanup(func() { s.Close() })

	addr, err := sockaddr.NewInet(netip.MustParseAddrPort("127.0.0.1:0"))
	require.NoError(t, err)
	require.True(t, s.Bind(addr).IsOK())
	require.True(t, s.Listen(1).IsOK())

	local := s.LocalAddress()
	require.True(t, local.IsOK(), local.Message())
	return &s, local.Value().(sockaddr.InetAddress).Port()
}

func TestStreamSocketIO(t *testing.T) {
	ln, port := listen(t)

	client, err := net.Dial("tcp4", net.JoinHostPort("127.0.0.1", strconv.Itoa(int(port))))
	require.NoError(t, err)
	defer client.Close()

	// Accept through the raw listening handle.
	raw, err := acceptRaw(ln)
	require.NoError(t, err)
	conn := socket.NewStream(raw)
	defer conn.Close()

	peer := conn.PeerAddress()
	require.True(t, peer.IsOK(), peer.Message())
	assert.Equal(t, client.LocalAddr().String(), peer.Value().String())

	_, err = client.Write([]byte("ping"))
	require.NoError(t, err)
	buf := make([]byte, 4)
	_, err = io.ReadFull(conn, buf)
	require.NoError(t, err)
	assert.Equal(t, "ping", string(buf))

	n, err := conn.Write([]byte("pong"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	_, err = io.ReadFull(client, buf)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(buf))

	require.NoError(t, conn.CloseWrite())
	_, err = client.Read(buf)
	assert.ErrorIs(t, err, io.EOF)

	require.NoError(t, client.Close())
	_, err = conn.Read(buf)
	assert.ErrorIs(t, err, io.EOF)
}
