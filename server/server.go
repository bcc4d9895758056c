// File: server/server.go
// Package server runs an accept loop over an acceptor.Acceptor and hands
// accepted connections to a pool of workers.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"context"
	"net"
	"net/netip"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jpillora/backoff"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/momentics/hioload-sock/acceptor"
	"github.com/momentics/hioload-sock/api"
	"github.com/momentics/hioload-sock/control"
	"github.com/momentics/hioload-sock/internal/sys"
	"github.com/momentics/hioload-sock/sockaddr"
)

var (
	// ErrServerClosed is returned by Serve after Shutdown.
	ErrServerClosed = errors.New("server closed")
	// ErrAlreadyRunning is returned by a second call to Serve.
	ErrAlreadyRunning = errors.New("server already running")
)

// Metric keys maintained by the server.
const (
	MetricAcceptOK      = "accept.ok"
	MetricAcceptErrors  = "accept.errors"
	MetricAcceptRetries = "accept.retries"
	MetricQueueRejected = "queue.rejected"
	MetricConnActive    = "conn.active"
	MetricHandlerErrors = "handler.errors"
)

const wakeDialTimeout = time.Second

// Server owns one listening acceptor and its worker pool.
type Server struct {
	cfg        *Config
	acc        *acceptor.Acceptor
	addr       sockaddr.Address
	mode       acceptor.ReuseMode
	queue      *connQueue
	middleware []Middleware
	metrics    *control.MetricsRegistry
	probes     *control.DebugProbes
	store      *control.ConfigStore

	base zerolog.Logger
	log  atomic.Pointer[zerolog.Logger]

	mu      sync.Mutex
	running bool
	closed  bool
	stop    chan struct{}
	done    chan struct{}
}

// NewServer validates cfg and opens the listening socket.
func NewServer(cfg *Config, opts ...ServerOption) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Server{
		cfg:     cfg,
		queue:   newConnQueue(cfg.QueueCapacity),
		metrics: control.NewMetricsRegistry(),
		probes:  control.NewDebugProbes(),
		base:    zerolog.Nop(),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setLevel(cfg.LogLevel)

	addr, err := sockaddr.Parse(cfg.ListenNetwork, cfg.ListenAddr)
	if err != nil {
		return nil, errors.Wrap(err, "server")
	}
	s.mode, _ = acceptor.ParseReuseMode(cfg.ReuseMode)
	res := acceptor.Listen(addr,
		acceptor.WithBacklog(cfg.Backlog),
		acceptor.WithReuse(cfg.Reuse),
		acceptor.WithReuseMode(s.mode),
	)
	if !res.IsOK() {
		return nil, errors.Wrapf(res.Err(), "listen %s", addr)
	}
	s.acc = res.Value()

	// The bound address carries the kernel-chosen port.
	s.addr = addr
	if bound := s.acc.Address(); bound.IsOK() {
		s.addr = bound.Value()
	}

	s.registerProbes()
	if s.store != nil {
		s.store.OnReload(s.reload)
	}
	s.logger().Info().
		Stringer("addr", s.addr).
		Stringer("reuse_mode", s.mode.Resolve()).
		Int("workers", cfg.Workers).
		Msg("listening")
	return s, nil
}

// Addr returns the bound local address.
func (s *Server) Addr() sockaddr.Address { return s.addr }

// Metrics returns the server's metrics registry.
func (s *Server) Metrics() *control.MetricsRegistry { return s.metrics }

// Probes returns the server's debug probes.
func (s *Server) Probes() *control.DebugProbes { return s.probes }

// Serve accepts connections until Shutdown or a non-transient accept
// failure. Workers drain queued connections before Serve returns.
func (s *Server) Serve(h Handler) error {
	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return ErrServerClosed
	case s.running:
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.running = true
	s.mu.Unlock()
	defer close(s.done)

	h = NewHandlerChain(h, s.middleware...)

	var g errgroup.Group
	for i := 0; i < s.cfg.Workers; i++ {
		g.Go(func() error {
			s.work(h)
			return nil
		})
	}

	err := s.acceptLoop()
	if cerr := s.closeListener(); cerr != nil {
		s.logger().Warn().Err(cerr).Msg("close acceptor")
	}

	s.queue.Close()
	_ = g.Wait()
	s.logger().Info().Stringer("addr", s.addr).Msg("stopped")
	if err != nil {
		return err
	}
	return ErrServerClosed
}

func (s *Server) acceptLoop() error {
	b := &backoff.Backoff{
		Min:    s.cfg.RetryMin,
		Max:    s.cfg.RetryMax,
		Factor: 2,
		Jitter: true,
	}
	for {
		var peer sockaddr.Storage
		res := s.acc.Accept(&peer)
		if s.stopping() {
			if res.IsOK() {
				_ = res.Value().Close()
			}
			return nil
		}
		if !res.IsOK() {
			oe := res.Error()
			s.metrics.Add(MetricAcceptErrors, 1)
			if !retryable(oe) {
				s.logger().Error().Err(oe).Msg("accept failed")
				return errors.Wrap(oe, "accept")
			}
			d := b.Duration()
			s.metrics.Add(MetricAcceptRetries, 1)
			s.logger().Warn().Err(oe).Dur("retry_in", d).Msg("accept failed, retrying")
			select {
			case <-time.After(d):
			case <-s.stop:
				return nil
			}
			continue
		}
		b.Reset()
		s.metrics.Add(MetricAcceptOK, 1)
		conn := res.Value()
		if !s.queue.Push(pending{conn: conn, peer: peer.Address()}) {
			s.metrics.Add(MetricQueueRejected, 1)
			s.logger().Warn().Stringer("peer", &peer).Msg("queue full, dropping connection")
			_ = conn.Close()
		}
	}
}

func (s *Server) work(h Handler) {
	for {
		p, ok := s.queue.Pop()
		if !ok {
			return
		}
		s.metrics.Add(MetricConnActive, 1)
		if err := h.ServeSocket(p.conn, p.peer); err != nil {
			s.metrics.Add(MetricHandlerErrors, 1)
			s.logger().Warn().Err(err).Stringer("peer", p.peer).Msg("handler failed")
		}
		if err := p.conn.Close(); err != nil {
			s.logger().Debug().Err(err).Msg("close connection")
		}
		s.metrics.Add(MetricConnActive, -1)
	}
}

// Shutdown stops accepting and closes the listening socket, then waits for
// queued and running handlers. It returns ctx.Err() if ctx ends first; the
// listening socket is closed either way.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrServerClosed
	}
	s.closed = true
	running := s.running
	close(s.stop)
	s.mu.Unlock()

	if !running {
		return s.closeListener()
	}
	// A blocked accept only returns when a peer arrives.
	for {
		s.wake()
		select {
		case <-s.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}

// closeListener closes the acceptor and unlinks a Unix-domain socket file.
func (s *Server) closeListener() error {
	err := s.acc.Close()
	ua, ok := s.addr.(sockaddr.UnixAddress)
	if !ok || ua.Path() == "" || ua.Path()[0] == '@' {
		return err
	}
	if rerr := os.Remove(ua.Path()); rerr != nil && !os.IsNotExist(rerr) && err == nil {
		err = errors.Wrap(rerr, "remove socket file")
	}
	return err
}

func (s *Server) stopping() bool {
	select {
	case <-s.stop:
		return true
	default:
		return false
	}
}

// wake connects to the listening address so a blocked Accept returns.
func (s *Server) wake() {
	network, target := dialTarget(s.addr)
	c, err := net.DialTimeout(network, target, wakeDialTimeout)
	if err != nil {
		s.logger().Debug().Err(err).Str("target", target).Msg("wake dial")
		return
	}
	_ = c.Close()
}

// dialTarget maps a wildcard listening address to its loopback equivalent.
func dialTarget(addr sockaddr.Address) (string, string) {
	switch a := addr.(type) {
	case sockaddr.UnixAddress:
		return "unix", a.Path()
	case sockaddr.InetAddress:
		ap := a.AddrPort()
		ip := ap.Addr()
		if ip.IsUnspecified() {
			if ip.Is4() {
				ip = netip.AddrFrom4([4]byte{127, 0, 0, 1})
			} else {
				ip = netip.IPv6Loopback()
			}
		}
		return "tcp", netip.AddrPortFrom(ip, ap.Port()).String()
	}
	return "tcp", addr.String()
}

// retryable reports whether an accept failure concerns only the one
// pending connection or a transient resource shortage.
func retryable(err *api.OSError) bool {
	return err.Temporary() || err.Code == sys.ECONNABORTED
}

func (s *Server) logger() *zerolog.Logger {
	return s.log.Load()
}

func (s *Server) setLevel(name string) {
	lvl, err := zerolog.ParseLevel(name)
	if err != nil || name == "" {
		lvl = zerolog.InfoLevel
	}
	l := s.base.Level(lvl)
	s.log.Store(&l)
}

func (s *Server) reload() {
	var cfg Config
	if err := s.store.Decode(&cfg); err != nil {
		s.logger().Warn().Err(err).Msg("config reload")
		return
	}
	if cfg.LogLevel == "" {
		return
	}
	s.setLevel(cfg.LogLevel)
	s.logger().Info().Str("log_level", cfg.LogLevel).Msg("config reloaded")
}

func (s *Server) registerProbes() {
	control.RegisterPlatformProbes(s.probes)
	control.RegisterProcessProbes(s.probes)
	s.probes.RegisterProbe("acceptor.addr", func() any { return s.addr.String() })
	s.probes.RegisterProbe("acceptor.reuse_mode", func() any { return s.mode.Resolve().String() })
	s.probes.RegisterProbe("queue.len", func() any { return s.queue.Len() })
}
