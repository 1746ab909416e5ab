// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package displaylink

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/gogpu/framelink/dispatch"
	"github.com/gogpu/framelink/internal/logx"
)

// Errors returned by New.
var (
	// ErrFailedToConnectToDisplay is returned when no link backend can
	// bind the requested display.
	ErrFailedToConnectToDisplay = errors.New("displaylink: failed to connect to display")

	// ErrFailedToCreateTimer is returned when the event source or the
	// link callback cannot be set up.
	ErrFailedToCreateTimer = errors.New("displaylink: failed to create timer")
)

// State is the run state of a DisplayLink.
type State int

const (
	// Stopped is the initial state. Link and source are torn down.
	Stopped State = iota

	// Running delivers frame events.
	Running

	// Paused holds the link stopped and the source suspended.
	Paused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Running:
		return "Running"
	case Paused:
		return "Paused"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// FrameEvent is delivered to the Handler once per queue drain.
type FrameEvent struct {
	// Ticks is the number of vsync ticks coalesced into this event.
	Ticks uint64

	// Timestamp is the time reported by the most recent tick.
	Timestamp Timestamp

	// Sequence numbers events from 1 over the lifetime of the link.
	Sequence uint64
}

// Handler receives frame events on the dispatch queue.
type Handler interface {
	DisplayLinkDidFire(ev FrameEvent)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ev FrameEvent)

// DisplayLinkDidFire calls f(ev).
func (f HandlerFunc) DisplayLinkDidFire(ev FrameEvent) { f(ev) }

// Stats counts ticks received from the link and events delivered.
type Stats struct {
	Ticks  uint64
	Events uint64
}

// DisplayLink turns vsync ticks from a Link into coalesced frame events
// serialized on a dispatch queue.
//
// The link callback only merges into a dispatch.Source; the source
// delivers at most one pending event, so ticks arriving while the queue
// is busy are folded into the next event rather than queued.
//
// State Machine:
//
//	Stopped -> Start() -> Running
//	Running -> Pause() -> Paused
//	Paused  -> Start() -> Running
//	Running, Paused -> Stop() -> Stopped
//
// DisplayLink is safe for concurrent use.
type DisplayLink struct {
	id      string
	display DisplayID
	backend string
	queue   *dispatch.Queue
	handler Handler
	link    Link

	mu    sync.Mutex
	state State

	source   atomic.Pointer[dispatch.Source]
	lastTick atomic.Pointer[Timestamp]
	ticks    atomic.Uint64
	events   atomic.Uint64
}

// New binds a link to the display and prepares a suspended source on
// queue. The returned DisplayLink is Stopped.
func New(queue *dispatch.Queue, handler Handler, opts ...Option) (*DisplayLink, error) {
	if queue == nil || handler == nil {
		return nil, fmt.Errorf("%w: nil queue or handler", ErrFailedToCreateTimer)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	link, backend, err := o.registry.Connect(o.display)
	if err != nil {
		return nil, fmt.Errorf("%w %d: %w", ErrFailedToConnectToDisplay, o.display, err)
	}

	l := &DisplayLink{
		id:      uuid.NewString(),
		display: o.display,
		backend: backend,
		queue:   queue,
		handler: handler,
		link:    link,
		state:   Stopped,
	}
	l.source.Store(l.newSource())

	if err := link.SetOutputCallback(l.outputCallback); err != nil {
		l.source.Load().Cancel()
		return nil, fmt.Errorf("%w: %w", ErrFailedToCreateTimer, err)
	}

	logx.Logger().Info("displaylink: connected",
		"id", l.id, "display", l.display, "backend", backend, "queue", queue.Label())
	return l, nil
}

// ID returns a unique identifier for log correlation.
func (l *DisplayLink) ID() string { return l.id }

// Display returns the display this link is bound to.
func (l *DisplayLink) Display() DisplayID { return l.display }

// Backend returns the registry name of the link backend in use.
func (l *DisplayLink) Backend() string { return l.backend }

// State returns the current state.
func (l *DisplayLink) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Stats returns tick and event counters.
func (l *DisplayLink) Stats() Stats {
	return Stats{
		Ticks:  l.ticks.Load(),
		Events: l.events.Load(),
	}
}

// Start begins delivering frame events. It is a no-op when Running.
// Starting from Stopped arms a fresh source.
func (l *DisplayLink) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.canEnterState(Running) {
		logx.Logger().Debug("displaylink: start ignored", "id", l.id, "state", l.state)
		return
	}

	src := l.source.Load()
	if src == nil || src.IsCancelled() {
		src = l.newSource()
		l.source.Store(src)
	}

	if err := l.link.Start(); err != nil {
		logx.Logger().Warn("displaylink: link start failed", "id", l.id, "err", err)
		return
	}
	src.Resume()
	l.state = Running
}

// Pause stops the link and suspends the source. It is only valid
// while Running.
func (l *DisplayLink) Pause() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.canEnterState(Paused) {
		logx.Logger().Debug("displaylink: pause ignored", "id", l.id, "state", l.state)
		return
	}

	if err := l.link.Stop(); err != nil {
		logx.Logger().Warn("displaylink: link stop failed", "id", l.id, "err", err)
	}
	if src := l.source.Load(); src != nil {
		src.Suspend()
	}
	l.state = Paused
}

// Stop tears down the link and the source together. It is valid from
// any state and idempotent.
func (l *DisplayLink) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state == Stopped {
		return
	}

	if err := l.link.Stop(); err != nil {
		logx.Logger().Warn("displaylink: link stop failed", "id", l.id, "err", err)
	}
	if src := l.source.Swap(nil); src != nil {
		src.Cancel()
	}
	l.state = Stopped
}

// canEnterState reports whether the transition to next is allowed.
// The caller must hold l.mu.
func (l *DisplayLink) canEnterState(next State) bool {
	switch next {
	case Running:
		return l.state == Stopped || l.state == Paused
	case Paused:
		return l.state == Running
	case Stopped:
		return true
	default:
		return false
	}
}

func (l *DisplayLink) newSource() *dispatch.Source {
	src := dispatch.NewSource(l.queue)
	src.SetEventHandler(l.deliver)
	return src
}

// outputCallback runs on the link's goroutine.
func (l *DisplayLink) outputCallback(now, _ Timestamp) {
	l.lastTick.Store(&now)
	l.ticks.Add(1)
	if src := l.source.Load(); src != nil {
		src.MergeData(1)
	}
}

// deliver runs on the dispatch queue.
func (l *DisplayLink) deliver(data uint64) {
	ev := FrameEvent{
		Ticks:    data,
		Sequence: l.events.Add(1),
	}
	if ts := l.lastTick.Load(); ts != nil {
		ev.Timestamp = *ts
	}
	l.handler.DisplayLinkDidFire(ev)
}
