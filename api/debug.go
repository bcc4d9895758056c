// Package api
// Author: momentics
//
// Runtime introspection contract for acceptors and servers.

package api

// Debug exposes named probes over live state.
type Debug interface {
	// DumpState evaluates every probe.
	DumpState() map[string]any

	// RegisterProbe adds or replaces a named probe.
	RegisterProbe(name string, fn func() any)
}
