// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package renderer draws a single colored triangle into a view every
// frame.
//
// Renderer is a surface.Delegate. It compiles one pipeline at
// construction and, on each Draw, encodes one render pass into a fresh
// command buffer, presents the view's drawable and commits.
package renderer

import (
	"errors"
	"fmt"

	"github.com/gogpu/framelink/geom"
	"github.com/gogpu/framelink/gpu"
	"github.com/gogpu/framelink/internal/logx"
)

// Errors returned by New.
var (
	// ErrFailedToInit is returned when the device, shader library,
	// shader functions or command queue are unavailable.
	ErrFailedToInit = errors.New("renderer: failed to initialize")

	// ErrUnableToSetPipelineState is returned when the device rejects
	// the pipeline.
	ErrUnableToSetPipelineState = errors.New("renderer: unable to set pipeline state")
)

// Shader entry points and debug labels.
const (
	VertexFunctionName   = "vertexShader"
	FragmentFunctionName = "fragmentShader"

	PipelineLabel      = "Simple Pipeline"
	CommandBufferLabel = "MyCommand"
	EncoderLabel       = "MyRenderEncoder"
)

// View is what the renderer needs from the surface it draws into.
type View interface {
	Device() gpu.Device
	ColorPixelFormat() gpu.PixelFormat
	DrawableSize() geom.Size
	CurrentRenderPassDescriptor() *gpu.RenderPassDescriptor
	CurrentDrawable() gpu.Drawable
}

// Renderer encodes and submits one command buffer per frame.
//
// Draw and DrawableSizeWillChange must be called from the view's queue.
type Renderer struct {
	view     View
	pipeline gpu.RenderPipelineState
	queue    gpu.CommandQueue
	vertices []byte

	viewportSize geom.Uint2
}

// New builds the pipeline and command queue from the view's device.
// The viewport starts at the view's current drawable size.
func New(view View) (*Renderer, error) {
	device := view.Device()
	if device == nil {
		return nil, fmt.Errorf("%w: view has no device", ErrFailedToInit)
	}

	library, err := device.NewDefaultLibrary()
	if err != nil {
		return nil, fmt.Errorf("%w: default library: %w", ErrFailedToInit, err)
	}
	defer library.Release()

	vertexFn := library.NewFunction(VertexFunctionName)
	if vertexFn == nil {
		return nil, fmt.Errorf("%w: missing function %q", ErrFailedToInit, VertexFunctionName)
	}
	fragmentFn := library.NewFunction(FragmentFunctionName)
	if fragmentFn == nil {
		return nil, fmt.Errorf("%w: missing function %q", ErrFailedToInit, FragmentFunctionName)
	}

	desc := &gpu.RenderPipelineDescriptor{
		Label:            PipelineLabel,
		VertexFunction:   vertexFn,
		FragmentFunction: fragmentFn,
	}
	desc.ColorAttachments[0].PixelFormat = view.ColorPixelFormat()

	pipeline, err := device.NewRenderPipelineState(desc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnableToSetPipelineState, err)
	}

	queue, err := device.NewCommandQueue()
	if err != nil {
		pipeline.Release()
		return nil, fmt.Errorf("%w: command queue: %w", ErrFailedToInit, err)
	}

	tri := geom.TriangleVertices()
	r := &Renderer{
		view:         view,
		pipeline:     pipeline,
		queue:        queue,
		vertices:     geom.VerticesBytes(tri[:]),
		viewportSize: view.DrawableSize().Uint2(),
	}

	logx.Logger().Info("renderer: pipeline created",
		"device", device.Name(), "pipeline", pipeline.Label(), "viewport", r.viewportSize)
	return r, nil
}

// ViewportSize returns the viewport in whole pixels.
func (r *Renderer) ViewportSize() geom.Uint2 {
	return r.viewportSize
}

// DrawableSizeWillChange records the new viewport size. It issues no
// GPU calls.
func (r *Renderer) DrawableSizeWillChange(size geom.Size) {
	r.viewportSize = size.Uint2()
}

// Draw encodes and commits one frame. Without a render-pass descriptor
// or after Release it does nothing.
func (r *Renderer) Draw() {
	if r.queue == nil {
		return
	}
	desc := r.view.CurrentRenderPassDescriptor()
	if desc == nil {
		logx.Logger().Debug("renderer: no render pass descriptor, skipping frame")
		return
	}

	cmd := r.queue.CommandBuffer()
	if cmd == nil {
		logx.Logger().Warn("renderer: command queue returned no buffer")
		return
	}
	cmd.SetLabel(CommandBufferLabel)

	enc := cmd.RenderCommandEncoder(desc)
	if enc == nil {
		logx.Logger().Warn("renderer: could not begin render pass")
		cmd.Commit()
		return
	}
	enc.SetLabel(EncoderLabel)

	vp := r.viewportSize
	enc.SetViewport(gpu.Viewport{
		Width:  float64(vp.X),
		Height: float64(vp.Y),
		ZFar:   1,
	})
	enc.SetRenderPipelineState(r.pipeline)
	enc.SetVertexBytes(r.vertices, gpu.VertexInputIndexVertices)
	enc.SetVertexBytes(vp.Bytes(), gpu.VertexInputIndexViewportSize)
	enc.DrawPrimitives(gpu.PrimitiveTypeTriangle, 0, len(r.vertices)/geom.VertexStride)
	enc.EndEncoding()

	if drawable := r.view.CurrentDrawable(); drawable != nil {
		cmd.PresentDrawable(drawable)
	}
	cmd.Commit()
}

// Release frees the command queue and pipeline.
func (r *Renderer) Release() {
	if r.queue != nil {
		r.queue.Release()
		r.queue = nil
	}
	if r.pipeline != nil {
		r.pipeline.Release()
		r.pipeline = nil
	}
}
