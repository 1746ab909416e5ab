// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package displaylink

import (
	"errors"
	"time"
)

// DisplayID identifies a physical or virtual display.
type DisplayID uint32

// MainDisplay is the display a DisplayLink binds to by default.
const MainDisplay DisplayID = 0

// Timestamp describes one vsync event as reported by a Link.
type Timestamp struct {
	// HostTime is the monotonic host time of the event.
	HostTime time.Duration

	// VideoTime counts refresh intervals since the link started.
	VideoTime int64

	// RefreshPeriod is the nominal display refresh interval.
	RefreshPeriod time.Duration
}

// OutputCallback is invoked by a Link on every vsync. now is the time
// of the current refresh and outputTime the time the next frame will
// be shown.
//
// The callback runs on a goroutine owned by the Link. It must not block
// and must not call back into the Link.
type OutputCallback func(now, outputTime Timestamp)

// Link is the hardware vsync timer bound to one display.
//
// Implementations own the goroutine or OS thread that fires the output
// callback. Start and Stop are idempotent; Stop returns only after the
// last callback has returned.
type Link interface {
	// SetOutputCallback registers the callback. It must be called
	// before Start.
	SetOutputCallback(cb OutputCallback) error

	// Start begins firing the output callback.
	Start() error

	// Stop halts the output callback.
	Stop() error
}

// LinkFactory binds a new Link to a display.
type LinkFactory func(display DisplayID) (Link, error)

// ErrNilCallback is returned by SetOutputCallback when cb is nil.
var ErrNilCallback = errors.New("displaylink: output callback is nil")
