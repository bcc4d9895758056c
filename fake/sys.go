// Package fake
// Author: momentics <momentics@gmail.com>
//
// Fake implementations for testing and development.
// Sys intercepts the OS socket primitives to inject failures and to prove
// that handles are neither leaked nor released twice.

package fake

import (
	"sync"
	"testing"

	"github.com/momentics/hioload-sock/internal/sys"
)

// Op names an intercepted primitive.
type Op string

const (
	OpSocket     Op = "socket"
	OpSetsockopt Op = "setsockopt"
	OpBind       Op = "bind"
	OpListen     Op = "listen"
	OpAccept     Op = "accept"
	OpClose      Op = "close"
)

// SockOpt is one captured setsockopt call.
type SockOpt struct {
	Level, Name, Value int
}

// Sys wraps the real primitives. Handles created through it are tracked
// until closed; a second close of a tracked handle is counted and never
// reaches the OS.
type Sys struct {
	mu           sync.Mutex
	faults       map[Op]error
	calls        map[Op]int
	live         map[sys.Handle]struct{}
	released     map[sys.Handle]struct{}
	options      []SockOpt
	doubleCloses int
}

// Install replaces the sys hooks until the test ends.
func Install(t testing.TB) *Sys {
	t.Helper()
	s := &Sys{
		faults:   make(map[Op]error),
		calls:    make(map[Op]int),
		live:     make(map[sys.Handle]struct{}),
		released: make(map[sys.Handle]struct{}),
	}

	socket, setsockopt, bind := sys.SocketFunc, sys.SetsockoptIntFunc, sys.BindFunc
	listen, accept, closeFn := sys.ListenFunc, sys.AcceptFunc, sys.CloseFunc
	t.Cleanup(func() {
		sys.SocketFunc, sys.SetsockoptIntFunc, sys.BindFunc = socket, setsockopt, bind
		sys.ListenFunc, sys.AcceptFunc, sys.CloseFunc = listen, accept, closeFn
	})

	sys.SocketFunc = func(domain int) (sys.Handle, error) {
		if err := s.enter(OpSocket); err != nil {
			return sys.InvalidHandle, err
		}
		h, err := socket(domain)
		if err == nil {
			s.track(h)
		}
		return h, err
	}
	sys.SetsockoptIntFunc = func(h sys.Handle, level, opt, value int) error {
		if err := s.enter(OpSetsockopt); err != nil {
			return err
		}
		s.mu.Lock()
		s.options = append(s.options, SockOpt{Level: level, Name: opt, Value: value})
		s.mu.Unlock()
		return setsockopt(h, level, opt, value)
	}
	sys.BindFunc = func(h sys.Handle, sa sys.Sockaddr) error {
		if err := s.enter(OpBind); err != nil {
			return err
		}
		return bind(h, sa)
	}
	sys.ListenFunc = func(h sys.Handle, backlog int) error {
		if err := s.enter(OpListen); err != nil {
			return err
		}
		return listen(h, backlog)
	}
	sys.AcceptFunc = func(h sys.Handle) (sys.Handle, sys.Sockaddr, error) {
		if err := s.enter(OpAccept); err != nil {
			return sys.InvalidHandle, nil, err
		}
		nh, sa, err := accept(h)
		if err == nil {
			s.track(nh)
		}
		return nh, sa, err
	}
	sys.CloseFunc = func(h sys.Handle) error {
		injected := s.enter(OpClose)
		if !s.untrack(h) {
			return sys.EBADF
		}
		if err := closeFn(h); err != nil {
			return err
		}
		return injected
	}
	return s
}

// Fail makes every later call of op fail with err until Clear.
func (s *Sys) Fail(op Op, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = err
}

// Clear removes the fault on op.
func (s *Sys) Clear(op Op) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.faults, op)
}

// Calls returns how many times op was invoked.
func (s *Sys) Calls(op Op) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// Options returns the socket options set so far, in call order.
func (s *Sys) Options() []SockOpt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SockOpt(nil), s.options...)
}

// Live returns the number of tracked handles not yet closed.
func (s *Sys) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

// IsLive reports whether h is tracked and open.
func (s *Sys) IsLive(h sys.Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.live[h]
	return ok
}

// DoubleCloses returns how many closes targeted an already released handle.
func (s *Sys) DoubleCloses() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doubleCloses
}

func (s *Sys) enter(op Op) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[op]++
	return s.faults[op]
}

func (s *Sys) track(h sys.Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.live[h] = struct{}{}
	delete(s.released, h)
}

// untrack reports whether the close may reach the OS.
func (s *Sys) untrack(h sys.Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.live[h]; ok {
		delete(s.live, h)
		s.released[h] = struct{}{}
		return true
	}
	if _, ok := s.released[h]; ok {
		s.doubleCloses++
		return false
	}
	return true
}
