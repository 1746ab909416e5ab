// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"sync/atomic"

	"github.com/gogpu/framelink/dispatch"
	"github.com/gogpu/framelink/displaylink"
	"github.com/gogpu/framelink/geom"
	"github.com/gogpu/framelink/gpu"
	"github.com/gogpu/framelink/internal/logx"
)

// Errors returned by New.
var (
	ErrNilHost  = errors.New("surface: host is nil")
	ErrNilQueue = errors.New("surface: dispatch queue is nil")
)

// Host is the window system view a View renders into.
type Host interface {
	// BackingSize returns the view bounds converted to backing pixels.
	BackingSize() geom.Size

	// BackingScaleFactor returns the number of backing pixels per point.
	BackingScaleFactor() float64
}

// Delegate draws into a View.
type Delegate interface {
	// DrawableSizeWillChange is called before the new size is stored.
	DrawableSizeWillChange(size geom.Size)

	// Draw renders one frame using the view's current descriptor and
	// drawable.
	Draw()
}

// Stats counts per-frame outcomes.
type Stats struct {
	// Frames is the number of frame events received.
	Frames uint64

	// Draws is the number of Delegate.Draw calls.
	Draws uint64

	// MissingDrawables counts frames where the layer had no drawable.
	MissingDrawables uint64

	// Skipped counts frames dropped because SetNeedsDisplay was not called.
	Skipped uint64

	// Resizes counts drawable size changes.
	Resizes uint64
}

// View is a presentable GPU surface.
type View struct {
	host  Host
	queue *dispatch.Queue
	link  *displaylink.DisplayLink

	layerFactory LayerFactory
	layer        gpu.Layer
	device       gpu.Device
	delegate     Delegate

	drawable   gpu.Slot[gpu.Drawable]
	descriptor gpu.Slot[*gpu.RenderPassDescriptor]

	drawableSize          geom.Size
	clearColor            geom.ClearColor
	enableSetNeedsDisplay bool
	needsDisplay          bool
	closed                bool

	frames           atomic.Uint64
	draws            atomic.Uint64
	missingDrawables atomic.Uint64
	skipped          atomic.Uint64
	resizes          atomic.Uint64
}

// New creates a view that renders into host and receives frame events
// on queue. The display link is created stopped; it starts when a
// delegate is set.
//
// Errors from the display link are returned as is, so callers can test
// for displaylink.ErrFailedToConnectToDisplay and
// displaylink.ErrFailedToCreateTimer.
func New(host Host, queue *dispatch.Queue, opts ...Option) (*View, error) {
	if host == nil {
		return nil, ErrNilHost
	}
	if queue == nil {
		return nil, ErrNilQueue
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	v := &View{
		host:         host,
		queue:        queue,
		layerFactory: o.layerFactory,
		clearColor:   o.clearColor,
		drawableSize: host.BackingSize(),
	}

	linkOpts := []displaylink.Option{displaylink.WithDisplay(o.display)}
	if o.registry != nil {
		linkOpts = append(linkOpts, displaylink.WithRegistry(o.registry))
	}
	link, err := displaylink.New(queue, v, linkOpts...)
	if err != nil {
		return nil, err
	}
	v.link = link

	v.layer = v.MakeBackingLayer()
	if v.layer != nil {
		v.layer.SetDrawableSize(v.drawableSize)
	}
	if o.device != nil {
		v.SetDevice(o.device)
	}

	logx.Logger().Debug("surface: view created",
		"size", v.drawableSize, "display", link.Display(), "link", link.ID())
	return v, nil
}

// Queue returns the dispatch queue the view is confined to.
func (v *View) Queue() *dispatch.Queue { return v.queue }

// DisplayLink returns the view's frame timer.
func (v *View) DisplayLink() *displaylink.DisplayLink { return v.link }

// Layer returns the backing layer.
func (v *View) Layer() gpu.Layer { return v.layer }

// Device returns the GPU device, or nil.
func (v *View) Device() gpu.Device { return v.device }

// SetDevice sets the GPU device. A non-nil device is also handed to the
// layer.
func (v *View) SetDevice(d gpu.Device) {
	v.device = d
	if d != nil && v.layer != nil {
		v.layer.SetDevice(d)
	}
}

// EnableSetNeedsDisplay reports whether the view only draws after
// SetNeedsDisplay.
func (v *View) EnableSetNeedsDisplay() bool { return v.enableSetNeedsDisplay }

// SetEnableSetNeedsDisplay switches between continuous and on-demand
// drawing.
func (v *View) SetEnableSetNeedsDisplay(enabled bool) {
	v.enableSetNeedsDisplay = enabled
}

// SetNeedsDisplay requests a draw on the next frame event. It has no
// effect unless EnableSetNeedsDisplay is true.
func (v *View) SetNeedsDisplay() {
	v.needsDisplay = true
}

// Delegate returns the current delegate, or nil.
func (v *View) Delegate() Delegate { return v.delegate }

// SetDelegate installs d. A non-nil delegate starts the display link;
// nil stops it.
func (v *View) SetDelegate(d Delegate) {
	if d != nil {
		v.link.Start()
	} else {
		v.link.Stop()
	}
	v.delegate = d
}

// ColorPixelFormat returns the layer's pixel format, or BGRA8Unorm when
// there is no layer.
func (v *View) ColorPixelFormat() gpu.PixelFormat {
	if v.layer == nil {
		return gpu.PixelFormatBGRA8Unorm
	}
	return v.layer.PixelFormat()
}

// DrawableSize returns the size of the drawables in pixels.
func (v *View) DrawableSize() geom.Size { return v.drawableSize }

// SetDrawableSize changes the drawable size. An equal size is a no-op.
// Otherwise the layer is resized, the delegate is notified, and then
// the size is stored.
func (v *View) SetDrawableSize(size geom.Size) {
	if size.Equal(v.drawableSize) {
		return
	}
	if v.layer != nil {
		v.layer.SetDrawableSize(size)
	}
	if v.delegate != nil {
		v.delegate.DrawableSizeWillChange(size)
	}
	v.drawableSize = size
	v.resizes.Add(1)
}

// MakeBackingLayer creates a layer through the layer factory and sets
// its contents scale from the host.
func (v *View) MakeBackingLayer() gpu.Layer {
	if v.layerFactory == nil {
		return nil
	}
	layer := v.layerFactory()
	if layer == nil {
		return nil
	}
	scale := v.host.BackingScaleFactor()
	if scale <= 0 {
		scale = 1
	}
	layer.SetContentsScale(scale)
	return layer
}

// CurrentRenderPassDescriptor returns the descriptor of the current
// frame, or nil before the first frame.
func (v *View) CurrentRenderPassDescriptor() *gpu.RenderPassDescriptor {
	return v.descriptor.Get()
}

// CurrentDrawable returns the drawable of the current frame, or nil.
func (v *View) CurrentDrawable() gpu.Drawable {
	return v.drawable.Get()
}

// ClearColor returns the color attachment clear color.
func (v *View) ClearColor() geom.ClearColor { return v.clearColor }

// SetClearColor sets the clear color used from the next frame on.
func (v *View) SetClearColor(c geom.ClearColor) {
	v.clearColor = c
}

// Stats returns the frame counters.
func (v *View) Stats() Stats {
	return Stats{
		Frames:           v.frames.Load(),
		Draws:            v.draws.Load(),
		MissingDrawables: v.missingDrawables.Load(),
		Skipped:          v.skipped.Load(),
		Resizes:          v.resizes.Load(),
	}
}

// Close stops the display link and releases the current drawable and
// descriptor. It must be called on the view's queue.
func (v *View) Close() {
	if v.closed {
		return
	}
	v.closed = true
	v.link.Stop()
	v.delegate = nil
	v.drawable.Release()
	v.descriptor.Release()
}

// DisplayLinkDidFire implements displaylink.Handler. It runs one frame.
func (v *View) DisplayLinkDidFire(ev displaylink.FrameEvent) {
	if v.closed {
		return
	}
	v.frames.Add(1)

	if v.enableSetNeedsDisplay {
		if !v.needsDisplay {
			v.skipped.Add(1)
			return
		}
		v.needsDisplay = false
	}

	v.SetDrawableSize(v.host.BackingSize())
	v.setUpDrawingState()

	if ev.Ticks > 1 {
		logx.Logger().Debug("surface: coalesced ticks", "ticks", ev.Ticks, "seq", ev.Sequence)
	}

	if v.delegate != nil {
		v.delegate.Draw()
		v.draws.Add(1)
	}
}

// setUpDrawingState stores a fresh descriptor and drawable, releasing
// the previous ones.
func (v *View) setUpDrawingState() {
	desc := gpu.NewRenderPassDescriptor()
	v.descriptor.Replace(desc)

	var drawable gpu.Drawable
	if v.layer != nil {
		drawable = v.layer.NextDrawable()
	}
	v.drawable.Replace(drawable)

	attachment := &desc.ColorAttachments[0]
	if drawable != nil {
		attachment.Texture = drawable.Texture()
	} else {
		v.missingDrawables.Add(1)
		logx.Logger().Debug("surface: no drawable available")
	}
	attachment.LoadAction = gpu.LoadActionClear
	attachment.StoreAction = gpu.StoreActionStore
	attachment.ClearColor = v.clearColor
}
