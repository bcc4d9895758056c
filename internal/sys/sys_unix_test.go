//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package sys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestIgnoringEINTRRetriesInterruptedCalls(t *testing.T) {
	calls := 0
	err := ignoringEINTR(func() error {
		calls++
		if calls < 3 {
			return unix.EINTR
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestIgnoringEINTRReturnsOtherErrors(t *testing.T) {
	calls := 0
	err := ignoringEINTR(func() error {
		calls++
		return unix.EMFILE
	})
	assert.ErrorIs(t, err, unix.EMFILE)
	assert.Equal(t, 1, calls)
}
