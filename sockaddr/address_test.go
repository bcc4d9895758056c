package sockaddr_test

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-sock/internal/sys"
	"github.com/momentics/hioload-sock/sockaddr"
)

func TestParse(t *testing.T) {
	cases := []struct {
		network, address string
		family           sockaddr.Family
		text             string
	}{
		{"tcp4", "0.0.0.0:0", sockaddr.Inet, "0.0.0.0:0"},
		{"tcp4", ":8080", sockaddr.Inet, "0.0.0.0:8080"},
		{"tcp", "127.0.0.1:80", sockaddr.Inet, "127.0.0.1:80"},
		{"tcp", "[::1]:80", sockaddr.Inet6, "[::1]:80"},
		{"tcp6", ":9000", sockaddr.Inet6, "[::]:9000"},
		{"tcp6", "127.0.0.1:1", sockaddr.Inet6, "[::ffff:127.0.0.1]:1"},
		{"unix", "/tmp/x.sock", sockaddr.Unix, "/tmp/x.sock"},
	}
	for _, tc := range cases {
		addr, err := sockaddr.Parse(tc.network, tc.address)
		require.NoError(t, err, tc.address)
		assert.Equal(t, tc.family, addr.Family(), tc.address)
		assert.Equal(t, tc.text, addr.String(), tc.address)
	}
}

func TestParseErrors(t *testing.T) {
	for _, tc := range [][2]string{
		{"udp", "1.2.3.4:5"},
		{"tcp4", "[::1]:80"},
		{"tcp", "localhost:80"},
		{"tcp", "1.2.3.4"},
		{"tcp", "1.2.3.4:99999"},
		{"unix", ""},
	} {
		_, err := sockaddr.Parse(tc[0], tc[1])
		assert.Error(t, err, tc)
	}
}

func TestSockaddrRoundTrip(t *testing.T) {
	for _, s := range []string{"10.1.2.3:4567", "[2001:db8::1]:443"} {
		ap := netip.MustParseAddrPort(s)
		var addr sockaddr.InetAddress
		var err error
		if ap.Addr().Is4() {
			addr, err = sockaddr.NewInet(ap)
		} else {
			addr, err = sockaddr.NewInet6(ap)
		}
		require.NoError(t, err)

		sa, err := addr.Sockaddr()
		require.NoError(t, err)
		back, ok := sockaddr.FromSockaddr(sa)
		require.True(t, ok)
		assert.Equal(t, addr, back)
	}

	u := sockaddr.NewUnix("/run/app.sock")
	sa, err := u.Sockaddr()
	require.NoError(t, err)
	back, ok := sockaddr.FromSockaddr(sa)
	require.True(t, ok)
	assert.Equal(t, u, back)
}

func TestZeroInetAddress(t *testing.T) {
	var addr sockaddr.InetAddress
	assert.Equal(t, sockaddr.Unspec, addr.Family())
	_, err := addr.Sockaddr()
	assert.Error(t, err)
}

func TestFamily(t *testing.T) {
	assert.True(t, sockaddr.Inet.IsIP())
	assert.True(t, sockaddr.Inet6.IsIP())
	assert.False(t, sockaddr.Unix.IsIP())
	assert.Equal(t, "inet6", sockaddr.Inet6.String())
}

func TestStorage(t *testing.T) {
	var st sockaddr.Storage
	assert.False(t, st.IsSet())
	assert.Equal(t, sockaddr.Unspec, st.Family())
	assert.Equal(t, "<unset>", st.String())

	addr, err := sockaddr.NewInet(netip.MustParseAddrPort("192.0.2.7:5000"))
	require.NoError(t, err)
	sa, err := addr.Sockaddr()
	require.NoError(t, err)

	st.Set(sa)
	assert.True(t, st.IsSet())
	assert.Equal(t, sockaddr.Inet, st.Family())
	assert.Equal(t, addr, st.Address())

	st.Reset()
	assert.False(t, st.IsSet())
}

func TestUnknownZoneIsInvalidArgument(t *testing.T) {
	addr, err := sockaddr.NewInet6(netip.MustParseAddrPort("[fe80::1%no-such-if0]:80"))
	require.NoError(t, err)

	_, err = addr.Sockaddr()
	require.Error(t, err)
	assert.ErrorIs(t, err, sys.EINVAL)
	assert.Contains(t, err.Error(), "no-such-if0")
}
