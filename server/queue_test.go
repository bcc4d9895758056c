package server

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-sock/sockaddr"
)

func TestConnQueueBounded(t *testing.T) {
	q := newConnQueue(2)
	a := sockaddr.NewUnix("a")
	b := sockaddr.NewUnix("b")

	require.True(t, q.Push(pending{peer: a}))
	require.True(t, q.Push(pending{peer: b}))
	assert.False(t, q.Push(pending{}))
	assert.Equal(t, 2, q.Len())

	p, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, a, p.peer)
	assert.True(t, q.Push(pending{}))
}

func TestConnQueueCloseDrains(t *testing.T) {
	q := newConnQueue(4)
	require.True(t, q.Push(pending{peer: sockaddr.NewUnix("x")}))
	q.Close()

	assert.False(t, q.Push(pending{}))
	_, ok := q.Pop()
	assert.True(t, ok)
	_, ok = q.Pop()
	assert.False(t, ok)
}

func TestConnQueueCloseWakesWaiters(t *testing.T) {
	q := newConnQueue(1)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok := q.Pop()
			assert.False(t, ok)
		}()
	}
	q.Close()
	wg.Wait()
}

func TestDialTarget(t *testing.T) {
	cases := []struct {
		network, addr   string
		wantNet, wantTo string
	}{
		{"tcp", "0.0.0.0:80", "tcp", "127.0.0.1:80"},
		{"tcp6", "[::]:80", "tcp", "[::1]:80"},
		{"tcp", "10.1.2.3:7", "tcp", "10.1.2.3:7"},
		{"unix", "/tmp/x.sock", "unix", "/tmp/x.sock"},
	}
	for _, tc := range cases {
		addr, err := sockaddr.Parse(tc.network, tc.addr)
		require.NoError(t, err)
		gotNet, gotTo := dialTarget(addr)
		assert.Equal(t, tc.wantNet, gotNet, tc.addr)
		assert.Equal(t, tc.wantTo, gotTo, tc.addr)
	}
}
