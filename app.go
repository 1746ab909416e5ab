// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package framelink

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/framelink/dispatch"
	"github.com/gogpu/framelink/gpu"
	"github.com/gogpu/framelink/renderer"
	"github.com/gogpu/framelink/surface"
)

// ErrNilDevice is returned by NewApp when no device is given.
var ErrNilDevice = errors.New("framelink: device is nil")

// App wires a surface.View to a renderer.Renderer on a dedicated
// dispatch queue. Frames start as soon as NewApp returns.
type App struct {
	queue    *dispatch.Queue
	view     *surface.View
	renderer *renderer.Renderer

	closeOnce sync.Once
}

// NewApp creates the queue, view and renderer for host and starts the
// display link. Surface options are passed to surface.New; the device
// always comes from the device argument.
func NewApp(host surface.Host, device gpu.Device, opts ...surface.Option) (*App, error) {
	if device == nil {
		return nil, ErrNilDevice
	}

	a := &App{queue: dispatch.NewQueue("framelink.main")}

	var err error
	a.queue.Sync(func() {
		all := append(append([]surface.Option(nil), opts...), surface.WithDevice(device))
		a.view, err = surface.New(host, a.queue, all...)
		if err != nil {
			err = fmt.Errorf("framelink: create view: %w", err)
			return
		}
		a.renderer, err = renderer.New(a.view)
		if err != nil {
			a.view.Close()
			err = fmt.Errorf("framelink: create renderer: %w", err)
			return
		}
		a.view.SetDelegate(a.renderer)
	})
	if err != nil {
		a.queue.Close()
		return nil, err
	}

	Logger().Info("framelink: app started",
		"device", device.Name(), "backend", a.view.DisplayLink().Backend())
	return a, nil
}

// Queue returns the queue the view and renderer run on.
func (a *App) Queue() *dispatch.Queue { return a.queue }

// View returns the presentable view.
func (a *App) View() *surface.View { return a.view }

// Renderer returns the renderer drawing into the view.
func (a *App) Renderer() *renderer.Renderer { return a.renderer }

// Stats returns the view's frame counters.
func (a *App) Stats() surface.Stats { return a.view.Stats() }

// Close stops frames, releases the renderer and view, and closes the
// queue. It is safe to call more than once.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		a.queue.Sync(func() {
			a.view.SetDelegate(nil)
			a.view.Close()
			a.renderer.Release()
		})
		a.queue.Close()
		Logger().Info("framelink: app closed", "frames", a.view.Stats().Draws)
	})
}
