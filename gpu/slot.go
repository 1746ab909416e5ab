// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

// Slot holds at most one owned resource. Replacing the held value
// releases the previous one first.
//
// The zero Slot is empty and ready to use. Slot is not safe for
// concurrent use.
type Slot[T interface {
	comparable
	Releaser
}] struct {
	v T
}

// Get returns the held value, or the zero value if the slot is empty.
func (s *Slot[T]) Get() T {
	return s.v
}

// Replace releases the held value and stores v. Storing the value
// already held is a no-op.
func (s *Slot[T]) Replace(v T) {
	var zero T
	if s.v == v {
		return
	}
	if s.v != zero {
		s.v.Release()
	}
	s.v = v
}

// Release releases the held value and empties the slot.
func (s *Slot[T]) Release() {
	var zero T
	s.Replace(zero)
}

// Empty reports whether the slot holds nothing.
func (s *Slot[T]) Empty() bool {
	var zero T
	return s.v == zero
}
