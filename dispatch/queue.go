// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package dispatch provides the serial task queue and the coalescing
// event source that carry frame-ready signals from a display link to
// the view and renderer.
//
// All render state mutation happens on a single Queue. The queue runs
// one task at a time in FIFO order, so code running on it needs no
// locks of its own.
package dispatch

import (
	"fmt"
	"sync"

	"github.com/gogpu/framelink/internal/logx"
)

// Queue is a serial FIFO task queue backed by one goroutine.
//
// Thread Safety:
// Async, Sync and Close are safe for concurrent use. Sync and Close must
// not be called from a task running on the same queue; doing so
// deadlocks.
type Queue struct {
	label string

	mu     sync.Mutex
	cond   *sync.Cond
	tasks  []func()
	closed bool

	done chan struct{}
}

// NewQueue creates a queue and starts its worker goroutine.
// The label only appears in log output.
func NewQueue(label string) *Queue {
	q := &Queue{
		label: label,
		done:  make(chan struct{}),
	}
	q.cond = sync.NewCond(&q.mu)
	go q.loop()
	return q
}

// Label returns the queue label.
func (q *Queue) Label() string {
	return q.label
}

// Async appends task to the queue and returns immediately.
// It returns false if the queue is closed; the task is dropped.
func (q *Queue) Async(task func()) bool {
	if task == nil {
		return false
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.tasks = append(q.tasks, task)
	q.cond.Signal()
	return true
}

// Sync runs task on the queue and waits for it to finish.
// It returns false without running task if the queue is closed.
func (q *Queue) Sync(task func()) bool {
	if task == nil {
		return false
	}
	finished := make(chan struct{})
	if !q.Async(func() {
		defer close(finished)
		task()
	}) {
		return false
	}
	<-finished
	return true
}

// Close stops accepting tasks, runs the ones already queued and waits
// for the worker goroutine to exit. Close is idempotent.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.cond.Signal()
	q.mu.Unlock()

	<-q.done
}

func (q *Queue) loop() {
	defer close(q.done)
	for {
		q.mu.Lock()
		for len(q.tasks) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.tasks) == 0 {
			q.mu.Unlock()
			return
		}
		task := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		q.mu.Unlock()

		q.run(task)
	}
}

// run executes one task. A panicking task is logged and dropped so the
// queue keeps serving frames.
func (q *Queue) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			logx.Logger().Error("dispatch: task panicked",
				"queue", q.label, "panic", fmt.Sprint(r))
		}
	}()
	task()
}
