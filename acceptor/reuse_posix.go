//go:build !windows

// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

package acceptor

const platformReuse = ReusePort
