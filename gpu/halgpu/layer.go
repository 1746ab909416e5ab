// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package halgpu

import (
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/framelink/geom"
	"github.com/gogpu/framelink/gpu"
	"github.com/gogpu/framelink/internal/logx"
)

// MaximumDrawableCount is the default number of textures in a Layer.
const MaximumDrawableCount = 3

// Presenter receives each drawable after the GPU finished the submission
// that presented it. The texture is valid only during the call.
type Presenter func(tex *Texture)

// LayerOption configures a Layer.
type LayerOption func(*Layer)

// WithPresenter sets the function that displays finished frames.
func WithPresenter(p Presenter) LayerOption {
	return func(l *Layer) {
		l.presenter = p
	}
}

// WithMaximumDrawableCount sets the ring size. Values below one keep
// the default.
func WithMaximumDrawableCount(n int) LayerOption {
	return func(l *Layer) {
		if n > 0 {
			l.maxDrawables = n
		}
	}
}

// Layer implements gpu.Layer with a ring of HAL render textures.
type Layer struct {
	mu           sync.Mutex
	device       *Device
	format       gpu.PixelFormat
	size         geom.Size
	scale        float64
	maxDrawables int
	presenter    Presenter
	slots        []*Texture
	next         int

	acquired  uint64
	exhausted uint64
	presented uint64
}

// NewLayer returns a BGRA8 layer with no device. NextDrawable returns
// nil until a *Device is set.
func NewLayer(opts ...LayerOption) *Layer {
	l := &Layer{
		format:       gpu.PixelFormatBGRA8Unorm,
		scale:        1,
		maxDrawables: MaximumDrawableCount,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SetDevice implements gpu.Layer. Only *Device values can back drawables;
// other devices are ignored. The layer adopts the device's surface format.
func (l *Layer) SetDevice(d gpu.Device) {
	hd, ok := d.(*Device)
	if !ok {
		logx.Logger().Warn("halgpu: layer needs a halgpu device", "device", d.Name())
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.device == hd {
		return
	}
	l.destroyFreeLocked()
	l.device = hd
	l.format = hd.SurfaceFormat()
}

// PixelFormat implements gpu.Layer.
func (l *Layer) PixelFormat() gpu.PixelFormat {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.format
}

// SetDrawableSize implements gpu.Layer. Textures are recreated at the
// new size as they come back to the ring.
func (l *Layer) SetDrawableSize(size geom.Size) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.size = size
}

// DrawableSize implements gpu.Layer.
func (l *Layer) DrawableSize() geom.Size {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.size
}

// SetContentsScale implements gpu.Layer.
func (l *Layer) SetContentsScale(scale float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.scale = scale
}

// ContentsScale implements gpu.Layer.
func (l *Layer) ContentsScale() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.scale
}

// NextDrawable implements gpu.Layer. It returns nil when there is no
// device, the size is empty, or every texture is still owned or in use
// by the GPU.
func (l *Layer) NextDrawable() gpu.Drawable {
	if d := l.nextDrawable(); d != nil {
		return d
	}
	return nil
}

func (l *Layer) nextDrawable() *Drawable {
	l.mu.Lock()
	defer l.mu.Unlock()

	want := l.size.Uint2()
	if l.device == nil || want.X == 0 || want.Y == 0 {
		return nil
	}
	if len(l.slots) < l.maxDrawables {
		l.slots = append(l.slots, make([]*Texture, l.maxDrawables-len(l.slots))...)
	}

	for i := range l.slots {
		idx := (l.next + i) % len(l.slots)
		tex := l.slots[idx]
		if tex != nil && tex.busy() {
			continue
		}
		stale := tex != nil && (tex.dev != l.device.device || tex.w != want.X ||
			tex.h != want.Y || tex.format != l.format)
		if tex == nil || stale {
			if tex != nil {
				tex.destroy()
			}
			created, err := newTexture(l, want.X, want.Y)
			if err != nil {
				logx.Logger().Warn("halgpu: create drawable texture", "err", err)
				l.slots[idx] = nil
				return nil
			}
			l.slots[idx] = created
			tex = created
		}
		tex.owned = true
		l.next = (idx + 1) % len(l.slots)
		l.acquired++
		return &Drawable{layer: l, texture: tex}
	}

	l.exhausted++
	return nil
}

// LayerStats reports drawable counters.
type LayerStats struct {
	Acquired  uint64
	Exhausted uint64
	Presented uint64
	Busy      int
}

// Stats returns drawable counters.
func (l *Layer) Stats() LayerStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	st := LayerStats{Acquired: l.acquired, Exhausted: l.exhausted, Presented: l.presented}
	for _, t := range l.slots {
		if t != nil && t.busy() {
			st.Busy++
		}
	}
	return st
}

// Close destroys all textures that are not in use. Call it after the
// device is idle.
func (l *Layer) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.destroyFreeLocked()
}

func (l *Layer) destroyFreeLocked() {
	for i, t := range l.slots {
		if t != nil && !t.busy() {
			t.destroy()
			l.slots[i] = nil
		}
	}
}

// Texture implements gpu.Texture on a HAL render attachment.
type Texture struct {
	layer  *Layer
	dev    hal.Device
	w, h   uint32
	format gpu.PixelFormat
	tex    hal.Texture
	view   hal.TextureView

	// Guarded by layer.mu.
	owned   bool
	gpuUses int
}

func newTexture(l *Layer, w, h uint32) (*Texture, error) {
	dev := l.device.device
	tex, err := dev.CreateTexture(&hal.TextureDescriptor{
		Label: "drawable",
		Size: hal.Extent3D{
			Width:              w,
			Height:             h,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        l.format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, err
	}
	view, err := dev.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:     "drawable view",
		Dimension: gputypes.TextureViewDimension2D,
		Aspect:    gputypes.TextureAspectAll,
	})
	if err != nil {
		dev.DestroyTexture(tex)
		return nil, err
	}
	return &Texture{layer: l, dev: dev, w: w, h: h, format: l.format, tex: tex, view: view}, nil
}

// Width implements gpu.Texture.
func (t *Texture) Width() uint32 { return t.w }

// Height implements gpu.Texture.
func (t *Texture) Height() uint32 { return t.h }

// PixelFormat implements gpu.Texture.
func (t *Texture) PixelFormat() gpu.PixelFormat { return t.format }

// HalTexture returns the underlying HAL texture.
func (t *Texture) HalTexture() hal.Texture { return t.tex }

func (t *Texture) busy() bool { return t.owned || t.gpuUses > 0 }

func (t *Texture) destroy() {
	if t.view != nil {
		t.dev.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		t.dev.DestroyTexture(t.tex)
		t.tex = nil
	}
}

// Drawable implements gpu.Drawable.
type Drawable struct {
	layer    *Layer
	texture  *Texture
	released bool
}

// Texture implements gpu.Drawable.
func (d *Drawable) Texture() gpu.Texture { return d.texture }

// Release implements gpu.Drawable. The texture returns to the ring once
// the GPU is also done with it.
func (d *Drawable) Release() {
	d.layer.mu.Lock()
	defer d.layer.mu.Unlock()
	if d.released {
		return
	}
	d.released = true
	d.texture.owned = false
}

// markPresented records a GPU use of the texture. It reports false for
// drawables that were already released.
func (d *Drawable) markPresented() bool {
	d.layer.mu.Lock()
	defer d.layer.mu.Unlock()
	if d.released {
		return false
	}
	d.texture.gpuUses++
	return true
}

// completed runs when the presenting submission has finished.
func (d *Drawable) completed() {
	l := d.layer
	l.mu.Lock()
	d.texture.gpuUses--
	l.presented++
	presenter := l.presenter
	l.mu.Unlock()

	if presenter != nil {
		presenter(d.texture)
	}
}
