// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package acceptor implements a listening stream socket that produces
// connected peer sockets.
//
// An Acceptor moves through three states: Invalid (no handle), Open (valid
// handle, maybe unbound) and Listening (bound, listen issued). Open is
// all-or-nothing: on any failure the acceptor is left Invalid with no OS
// resource held. Every fallible call reports through api.Result; nothing is
// retried internally.
//
// Accept is the only blocking call. The package has no cancellation
// primitive: closing an acceptor from another goroutine while Accept is
// blocked has OS-defined behaviour and is the caller's responsibility.
// Several goroutines may call Accept on the same listening acceptor.
package acceptor
