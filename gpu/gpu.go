// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/framelink/geom"
)

// Releaser is implemented by resources with explicit lifetimes.
type Releaser interface {
	Release()
}

// PixelFormat is the format of a color attachment.
type PixelFormat = gputypes.TextureFormat

// Pixel formats used by the layer and pipelines.
const (
	PixelFormatInvalid    PixelFormat = gputypes.TextureFormatUndefined
	PixelFormatBGRA8Unorm PixelFormat = gputypes.TextureFormatBGRA8Unorm
	PixelFormatRGBA8Unorm PixelFormat = gputypes.TextureFormatRGBA8Unorm
)

// Buffer argument indices shared by the renderer and the shader library.
const (
	VertexInputIndexVertices     = 0
	VertexInputIndexViewportSize = 1
)

// PrimitiveType is the geometric primitive drawn by DrawPrimitives.
type PrimitiveType int

// Primitive types.
const (
	PrimitiveTypePoint PrimitiveType = iota
	PrimitiveTypeLine
	PrimitiveTypeLineStrip
	PrimitiveTypeTriangle
	PrimitiveTypeTriangleStrip
)

// String returns the primitive type name.
func (p PrimitiveType) String() string {
	switch p {
	case PrimitiveTypePoint:
		return "Point"
	case PrimitiveTypeLine:
		return "Line"
	case PrimitiveTypeLineStrip:
		return "LineStrip"
	case PrimitiveTypeTriangle:
		return "Triangle"
	case PrimitiveTypeTriangleStrip:
		return "TriangleStrip"
	default:
		return "Unknown"
	}
}

// Viewport maps normalized device coordinates to the render target.
type Viewport struct {
	OriginX, OriginY float64
	Width, Height    float64
	ZNear, ZFar      float64
}

// Device creates GPU resources.
type Device interface {
	// Name returns a human readable adapter name.
	Name() string

	// NewDefaultLibrary returns the shader library bundled with the backend.
	NewDefaultLibrary() (Library, error)

	// NewRenderPipelineState compiles a pipeline.
	NewRenderPipelineState(desc *RenderPipelineDescriptor) (RenderPipelineState, error)

	// NewCommandQueue creates a queue for command buffer submission.
	NewCommandQueue() (CommandQueue, error)
}

// Library is a collection of compiled shader functions.
type Library interface {
	// NewFunction returns the entry point called name, or nil if the
	// library has no such function.
	NewFunction(name string) Function

	Release()
}

// Function is a shader entry point.
type Function interface {
	Name() string
}

// RenderPipelineState is a compiled, immutable render pipeline.
type RenderPipelineState interface {
	Label() string
	Release()
}

// CommandQueue hands out command buffers.
type CommandQueue interface {
	// CommandBuffer returns a new one-shot command buffer, or nil if the
	// queue cannot allocate one.
	CommandBuffer() CommandBuffer

	Release()
}

// CommandBuffer collects encoded passes for one submission.
// It is committed once and never reused.
type CommandBuffer interface {
	SetLabel(label string)

	// RenderCommandEncoder begins a render pass. It returns nil if the
	// pass cannot be started; the buffer must still be committed.
	RenderCommandEncoder(desc *RenderPassDescriptor) RenderCommandEncoder

	// PresentDrawable schedules d for presentation after the buffer
	// completes.
	PresentDrawable(d Drawable)

	// Commit submits the buffer.
	Commit()
}

// RenderCommandEncoder records commands for one render pass.
type RenderCommandEncoder interface {
	SetLabel(label string)
	SetViewport(v Viewport)
	SetRenderPipelineState(p RenderPipelineState)

	// SetVertexBytes copies data into the vertex stage argument at index.
	SetVertexBytes(data []byte, index int)

	DrawPrimitives(p PrimitiveType, vertexStart, vertexCount int)
	EndEncoding()
}

// Texture is a render target.
type Texture interface {
	Width() uint32
	Height() uint32
	PixelFormat() PixelFormat
}

// Drawable is a presentable texture acquired from a Layer for one frame.
type Drawable interface {
	Texture() Texture

	// Release returns the drawable to its layer.
	Release()
}

// Layer owns the presentable drawables of a view.
type Layer interface {
	SetDevice(d Device)
	PixelFormat() PixelFormat
	SetDrawableSize(size geom.Size)
	DrawableSize() geom.Size
	SetContentsScale(scale float64)
	ContentsScale() float64

	// NextDrawable returns the next free drawable, or nil if none is
	// available.
	NextDrawable() Drawable
}
