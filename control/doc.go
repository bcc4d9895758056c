// Package control
// Author: momentics <momentics@gmail.com>
//
// Configuration, runtime metrics and debug introspection for hioload-sock
// servers.
//
// Provides concurrent-safe state handling primitives including:
//   - YAML-backed configuration snapshots decoded into typed structs
//   - Reload observers for run-time configuration changes
//   - Counters and gauges for accept-loop telemetry
//   - Named debug probes, with platform-specific probes per build tag
package control
