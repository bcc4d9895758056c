// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

package acceptor

// DefaultBacklog is the listen queue size used when none is given.
const DefaultBacklog = 4

// OpenOption customizes Open.
type OpenOption func(*openConfig)

type openConfig struct {
	backlog int
	reuse   bool
	mode    ReuseMode
}

func newOpenConfig(opts []OpenOption) openConfig {
	cfg := openConfig{
		backlog: DefaultBacklog,
		reuse:   true,
		mode:    ReusePlatformDefault,
	}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// WithBacklog sets the listen queue size hint. The OS may clamp it.
func WithBacklog(n int) OpenOption {
	return func(c *openConfig) {
		c.backlog = n
	}
}

// WithReuse enables or disables the reuse option. Enabled by default; it
// only applies to IP families.
func WithReuse(on bool) OpenOption {
	return func(c *openConfig) {
		c.reuse = on
	}
}

// WithReuseMode overrides the platform's reuse option.
func WithReuseMode(m ReuseMode) OpenOption {
	return func(c *openConfig) {
		c.mode = m
	}
}
