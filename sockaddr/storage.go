// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

package sockaddr

import "github.com/momentics/hioload-sock/internal/sys"

// Storage receives an address reported by the OS, such as the peer of an
// accepted connection. The zero value is empty.
type Storage struct {
	sa   sys.Sockaddr
	addr Address
}

// Set stores a native address. Unknown native forms leave Storage with the
// raw value only.
func (s *Storage) Set(sa sys.Sockaddr) {
	s.sa = sa
	s.addr, _ = FromSockaddr(sa)
}

// Reset empties the storage.
func (s *Storage) Reset() { *s = Storage{} }

// IsSet reports whether an address has been stored.
func (s *Storage) IsSet() bool { return s.sa != nil }

// Family returns the family of the stored address, or Unspec.
func (s *Storage) Family() Family {
	if s.addr == nil {
		return Unspec
	}
	return s.addr.Family()
}

// Address returns the stored address, or nil.
func (s *Storage) Address() Address { return s.addr }

// Sockaddr returns the raw native address.
func (s *Storage) Sockaddr() sys.Sockaddr { return s.sa }

func (s *Storage) String() string {
	if s.addr == nil {
		return "<unset>"
	}
	return s.addr.String()
}
