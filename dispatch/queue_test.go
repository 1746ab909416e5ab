// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package dispatch

import (
	"sync/atomic"
	"testing"
)

func TestQueueRunsInOrder(t *testing.T) {
	q := NewQueue("test")
	defer q.Close()

	var got []int
	for i := 0; i < 100; i++ {
		i := i
		q.Async(func() { got = append(got, i) })
	}
	q.Sync(func() {})

	if len(got) != 100 {
		t.Fatalf("ran %d tasks, want 100", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("task %d ran at position %d", v, i)
		}
	}
}

func TestQueueOneTaskAtATime(t *testing.T) {
	q := NewQueue("serial")
	defer q.Close()

	var active, maxActive int32
	for i := 0; i < 50; i++ {
		q.Async(func() {
			n := atomic.AddInt32(&active, 1)
			if n > atomic.LoadInt32(&maxActive) {
				atomic.StoreInt32(&maxActive, n)
			}
			atomic.AddInt32(&active, -1)
		})
	}
	q.Sync(func() {})

	if maxActive != 1 {
		t.Errorf("max concurrent tasks = %d, want 1", maxActive)
	}
}

func TestQueueCloseDrainsAndRejects(t *testing.T) {
	q := NewQueue("close")

	var ran int32
	for i := 0; i < 10; i++ {
		q.Async(func() { atomic.AddInt32(&ran, 1) })
	}
	q.Close()

	if ran != 10 {
		t.Errorf("ran %d queued tasks before close, want 10", ran)
	}
	if q.Async(func() {}) {
		t.Error("Async after Close should return false")
	}
	if q.Sync(func() { t.Error("task ran after Close") }) {
		t.Error("Sync after Close should return false")
	}

	// Idempotent.
	q.Close()
}

func TestQueueSurvivesPanic(t *testing.T) {
	q := NewQueue("panic")
	defer q.Close()

	q.Async(func() { panic("boom") })

	ran := false
	q.Sync(func() { ran = true })
	if !ran {
		t.Error("queue stopped after a panicking task")
	}
}
