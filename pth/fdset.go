// File: pth/fdset.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pth

import "sort"

// FdSet is a set of file descriptors for the select emulation. A nil *FdSet
// behaves as an empty set, mirroring a NULL fd_set argument.
type FdSet struct {
	fds map[int]struct{}
}

// NewFdSet builds a set containing the given descriptors.
func NewFdSet(fds ...int) *FdSet {
	s := &FdSet{fds: make(map[int]struct{}, len(fds))}
	for _, fd := range fds {
		s.fds[fd] = struct{}{}
	}
	return s
}

// Set adds fd to the set.
func (s *FdSet) Set(fd int) {
	if s == nil {
		return
	}
	if s.fds == nil {
		s.fds = make(map[int]struct{})
	}
	s.fds[fd] = struct{}{}
}

// Clr removes fd from the set.
func (s *FdSet) Clr(fd int) {
	if s == nil {
		return
	}
	delete(s.fds, fd)
}

// IsSet reports whether fd is a member.
func (s *FdSet) IsSet(fd int) bool {
	if s == nil {
		return false
	}
	_, ok := s.fds[fd]
	return ok
}

// Zero empties the set.
func (s *FdSet) Zero() {
	if s == nil {
		return
	}
	for fd := range s.fds {
		delete(s.fds, fd)
	}
}

// Len returns the member count.
func (s *FdSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.fds)
}

// Fds returns the members in ascending order.
func (s *FdSet) Fds() []int {
	if s == nil {
		return nil
	}
	out := make([]int, 0, len(s.fds))
	for fd := range s.fds {
		out = append(out, fd)
	}
	sort.Ints(out)
	return out
}
