// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gputest

import (
	"sync"

	"github.com/gogpu/framelink/geom"
	"github.com/gogpu/framelink/gpu"
)

// Layer is an in-memory gpu.Layer that tracks live drawables.
type Layer struct {
	// Capacity bounds the number of unreleased drawables. Zero means
	// unlimited.
	Capacity int

	mu       sync.Mutex
	device   gpu.Device
	format   gpu.PixelFormat
	size     geom.Size
	scale    float64
	sizes    []geom.Size
	live     int
	acquired int
}

// NewLayer returns a BGRA8 layer with unlimited capacity.
func NewLayer() *Layer {
	return &Layer{format: gpu.PixelFormatBGRA8Unorm, scale: 1}
}

// SetDevice implements gpu.Layer.
func (l *Layer) SetDevice(d gpu.Device) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.device = d
}

// Device returns the device set on the layer.
func (l *Layer) Device() gpu.Device {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.device
}

// PixelFormat implements gpu.Layer.
func (l *Layer) PixelFormat() gpu.PixelFormat {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.format
}

// SetDrawableSize implements gpu.Layer. Every call is logged.
func (l *Layer) SetDrawableSize(size geom.Size) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.size = size
	l.sizes = append(l.sizes, size)
}

// DrawableSize implements gpu.Layer.
func (l *Layer) DrawableSize() geom.Size {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.size
}

// SizeHistory returns every size passed to SetDrawableSize.
func (l *Layer) SizeHistory() []geom.Size {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]geom.Size(nil), l.sizes...)
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

// NextDrawable implements gpu.Layer. It returns nil once Capacity
// drawables are live.
func (l *Layer) NextDrawable() gpu.Drawable {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.Capacity > 0 && l.live >= l.Capacity {
		return nil
	}
	l.live++
	l.acquired++
	sz := l.size.Uint2()
	return &Drawable{
		layer:   l,
		texture: &Texture{W: sz.X, H: sz.Y, Format: l.format},
	}
}

// LiveDrawables returns the number of acquired, unreleased drawables.
func (l *Layer) LiveDrawables() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.live
}

// Acquired returns the total number of drawables handed out.
func (l *Layer) Acquired() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.acquired
}

// Drawable is a gpu.Drawable handed out by Layer.
type Drawable struct {
	layer    *Layer
	texture  *Texture
	released bool
}

// Texture implements gpu.Drawable.
func (d *Drawable) Texture() gpu.Texture { return d.texture }

// Release implements gpu.Drawable. Extra calls are no-ops.
func (d *Drawable) Release() {
	d.layer.mu.Lock()
	defer d.layer.mu.Unlock()
	if d.released {
		return
	}
	d.released = true
	d.layer.live--
}

// Released reports whether Release has been called.
func (d *Drawable) Released() bool {
	d.layer.mu.Lock()
	defer d.layer.mu.Unlock()
	return d.released
}

// Texture is a gpu.Texture with fixed dimensions.
type Texture struct {
	W, H   uint32
	Format gpu.PixelFormat
}

// Width implements gpu.Texture.
func (t *Texture) Width() uint32 { return t.W }

// Height implements gpu.Texture.
func (t *Texture) Height() uint32 { return t.H }

// PixelFormat implements gpu.Texture.
func (t *Texture) PixelFormat() gpu.PixelFormat { return t.Format }
