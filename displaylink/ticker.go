// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package displaylink

import (
	"context"
	"sync"
	"time"

	"github.com/loov/hrtime"
	"golang.org/x/sync/errgroup"
)

// TickerBackend is the registry name of the software ticker link.
const TickerBackend = "ticker"

// DefaultRefreshRate is the refresh rate of the software ticker in Hz.
const DefaultRefreshRate = 60.0

// TickerLink is a software vsync source. It fires its output callback
// at a fixed refresh rate from a goroutine it owns. It stands in for a
// platform display link on headless systems and in tests.
type TickerLink struct {
	period time.Duration

	mu       sync.Mutex
	callback OutputCallback
	cancel   context.CancelFunc
	group    *errgroup.Group
	frame    int64
}

// NewTickerLink creates a ticker firing refreshRate times per second.
// A non-positive rate selects DefaultRefreshRate.
func NewTickerLink(refreshRate float64) *TickerLink {
	if refreshRate <= 0 {
		refreshRate = DefaultRefreshRate
	}
	return &TickerLink{
		period: time.Duration(float64(time.Second) / refreshRate),
	}
}

// RefreshPeriod returns the interval between ticks.
func (t *TickerLink) RefreshPeriod() time.Duration {
	return t.period
}

// SetOutputCallback implements Link.
func (t *TickerLink) SetOutputCallback(cb OutputCallback) error {
	if cb == nil {
		return ErrNilCallback
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.callback = cb
	return nil
}

// Start implements Link. Starting a running ticker is a no-op.
func (t *TickerLink) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		return nil
	}
	if t.callback == nil {
		return ErrNilCallback
	}

	ctx, cancel := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx)
	cb := t.callback
	start := t.frame
	group.Go(func() error {
		return t.run(ctx, cb, start)
	})
	t.cancel = cancel
	t.group = group
	return nil
}

// Stop implements Link. It returns after the tick goroutine has exited,
// so no callback runs once Stop returns.
func (t *TickerLink) Stop() error {
	t.mu.Lock()
	cancel, group := t.cancel, t.group
	t.cancel, t.group = nil, nil
	t.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	return group.Wait()
}

func (t *TickerLink) run(ctx context.Context, cb OutputCallback, frame int64) error {
	ticker := time.NewTicker(t.period)
	defer ticker.Stop()

	defer func() {
		t.mu.Lock()
		t.frame = frame
		t.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			frame++
			now := hrtime.Now()
			cb(
				Timestamp{HostTime: now, VideoTime: frame, RefreshPeriod: t.period},
				Timestamp{HostTime: now + t.period, VideoTime: frame + 1, RefreshPeriod: t.period},
			)
		}
	}
}
