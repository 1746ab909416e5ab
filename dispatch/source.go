// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package dispatch

import (
	"sync"
)

// Source is a data-add event source bound to a Queue.
//
// MergeData may be called from any goroutine. Merged values accumulate
// until the queue delivers them; at most one delivery task is pending
// on the queue at any time, so a burst of merges while the queue is busy
// produces a single handler call carrying their sum.
//
// A new Source is suspended. Call Resume to start deliveries.
//
// State Machine:
//
//	Suspended <-> Resumed
//	Suspended, Resumed -> Cancel() -> Cancelled
type Source struct {
	queue *Queue

	mu        sync.Mutex
	handler   func(data uint64)
	pending   uint64
	scheduled bool
	suspended bool
	cancelled bool

	merges     uint64
	deliveries uint64
}

// SourceStats reports how many merges a source received and how many
// handler calls it made.
type SourceStats struct {
	Merges     uint64
	Deliveries uint64
}

// NewSource creates a suspended source that delivers on q.
func NewSource(q *Queue) *Source {
	return &Source{
		queue:     q,
		suspended: true,
	}
}

// SetEventHandler sets the function called on the queue with the
// accumulated data. Passing nil clears it.
func (s *Source) SetEventHandler(h func(data uint64)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelled {
		return
	}
	s.handler = h
}

// MergeData adds n to the pending value and schedules a delivery if none
// is already pending. Zero is ignored.
func (s *Source) MergeData(n uint64) {
	if n == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelled {
		return
	}
	s.pending += n
	s.merges++
	s.scheduleLocked()
}

// Resume enables deliveries. Data merged while suspended is delivered
// in one event.
func (s *Source) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelled || !s.suspended {
		return
	}
	s.suspended = false
	s.scheduleLocked()
}

// Suspend stops deliveries. Merges continue to accumulate.
func (s *Source) Suspend() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suspended = true
}

// Cancel permanently stops the source. Pending data is discarded and
// the handler is released. A delivery already running is not interrupted.
func (s *Source) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelled = true
	s.handler = nil
	s.pending = 0
}

// IsCancelled reports whether Cancel has been called.
func (s *Source) IsCancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

// Stats returns a snapshot of the merge and delivery counters.
func (s *Source) Stats() SourceStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SourceStats{Merges: s.merges, Deliveries: s.deliveries}
}

// scheduleLocked enqueues a delivery if data is pending and none is queued.
// The caller must hold s.mu.
func (s *Source) scheduleLocked() {
	if s.suspended || s.scheduled || s.pending == 0 {
		return
	}
	if s.queue.Async(s.deliver) {
		s.scheduled = true
	}
}

// deliver runs on the queue.
func (s *Source) deliver() {
	s.mu.Lock()
	s.scheduled = false
	if s.cancelled || s.suspended || s.pending == 0 {
		s.mu.Unlock()
		return
	}
	data := s.pending
	s.pending = 0
	h := s.handler
	if h != nil {
		s.deliveries++
	}
	s.mu.Unlock()

	if h != nil {
		h(data)
	}
}
