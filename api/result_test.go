package api_test

import (
	"errors"
	"fmt"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-sock/api"
)

func TestResultOK(t *testing.T) {
	r := api.OK(42)
	require.True(t, r.IsOK())
	assert.Equal(t, 42, r.Value())
	assert.NoError(t, r.Err())
	assert.Zero(t, r.Code())
	assert.Empty(t, r.Message())
	assert.Panics(t, func() { r.Error() })

	v, err := r.Unwrap()
	assert.Equal(t, 42, v)
	assert.NoError(t, err)

	assert.True(t, api.Done().IsOK())
}

func TestResultFail(t *testing.T) {
	r := api.Fail[int]("bind", syscall.EADDRINUSE)
	require.False(t, r.IsOK())
	assert.Equal(t, syscall.EADDRINUSE, r.Code())
	assert.Equal(t, syscall.EADDRINUSE.Error(), r.Message())
	assert.Equal(t, "bind", r.Error().Op)
	assert.Equal(t, "bind: "+syscall.EADDRINUSE.Error(), r.Err().Error())
	assert.True(t, errors.Is(r.Err(), syscall.EADDRINUSE))
	assert.Panics(t, func() { r.Value() })

	assert.Panics(t, func() { api.Fail[int]("bind", nil) })
}

func TestFailKeepsWrappedOSError(t *testing.T) {
	orig := api.NewOSError("listen", syscall.EINVAL)
	r := api.Fail[api.None]("open", fmt.Errorf("outer: %w", orig))
	assert.Same(t, orig, r.Error())
	assert.Equal(t, "listen", r.Error().Op)
}

func TestFailWithoutErrno(t *testing.T) {
	r := api.Fail[string]("parse", errors.New("bad address"))
	assert.Zero(t, r.Code())
	assert.Equal(t, "bad address", r.Message())
	assert.False(t, r.Error().Temporary())
}

func TestForward(t *testing.T) {
	failed := api.Fail[int]("socket", syscall.EMFILE)
	fwd := api.Forward[string](failed)
	require.False(t, fwd.IsOK())
	assert.Same(t, failed.Error(), fwd.Error())

	assert.Panics(t, func() { api.Forward[string](api.OK(1)) })
}

func TestOSErrorClassification(t *testing.T) {
	assert.True(t, api.NewOSError("accept", syscall.EMFILE).Temporary())
	assert.True(t, api.NewOSError("accept", syscall.EAGAIN).Timeout())
	assert.False(t, api.NewOSError("bind", syscall.EADDRINUSE).Temporary())

	var errno syscall.Errno
	require.True(t, errors.As(api.NewOSError("x", syscall.EBADF), &errno))
	assert.Equal(t, syscall.EBADF, errno)
}
